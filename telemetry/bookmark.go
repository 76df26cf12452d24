package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstKill    BookmarkType = "first_kill"
	BookmarkAttackSurge  BookmarkType = "attack_surge"
	BookmarkOrbitLock    BookmarkType = "orbit_lock"
	BookmarkCloseIn      BookmarkType = "close_in"
	BookmarkArenaCleared BookmarkType = "arena_cleared"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags windows worth a closer look: the first kill,
// bursts of attacks, mines circling their prey instead of closing, and
// sudden gains in pursuit distance.
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	sawKill      bool
	orbitWindows int // consecutive windows above the orbit threshold
	cleared      bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkFirstKill,
		bd.checkAttackSurge,
		bd.checkOrbitLock,
		bd.checkCloseIn,
		bd.checkArenaCleared,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}
	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstKill(stats WindowStats) *Bookmark {
	if bd.sawKill || stats.Kills == 0 {
		return nil
	}
	bd.sawKill = true
	return &Bookmark{
		Type:        BookmarkFirstKill,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First kill at %.1fs", stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkAttackSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Attacks < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Attacks
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || float64(stats.Attacks) <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkAttackSurge,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d attacks is %.1fx average (%.1f)", stats.Attacks, float64(stats.Attacks)/avg, avg),
	}
}

// checkOrbitLock fires once when mines spend most of their close-range time
// circling for three windows in a row.
func (bd *BookmarkDetector) checkOrbitLock(stats WindowStats) *Bookmark {
	if stats.OrbitRatio > 0.5 && stats.PursuitSamples > 0 {
		bd.orbitWindows++
	} else {
		bd.orbitWindows = 0
	}
	if bd.orbitWindows != 3 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkOrbitLock,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Orbit ratio %.2f for 3 windows", stats.OrbitRatio),
	}
}

func (bd *BookmarkDetector) checkCloseIn(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.PursuitSamples == 0 {
		return nil
	}

	var sum float64
	var n int
	for _, h := range history {
		if h.PursuitSamples > 0 {
			sum += h.PursuitMean
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	if stats.PursuitMean >= avg*0.5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCloseIn,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean pursuit distance %.0f is under half the average (%.0f)", stats.PursuitMean, avg),
	}
}

func (bd *BookmarkDetector) checkArenaCleared(stats WindowStats) *Bookmark {
	if stats.Players > 0 {
		bd.cleared = false
		return nil
	}
	if bd.cleared {
		return nil
	}
	bd.cleared = true
	return &Bookmark{
		Type:        BookmarkArenaCleared,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("No players alive at %.1fs", stats.SimTimeSec),
	}
}
