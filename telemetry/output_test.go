package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/rollermine/mine"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Errorf("nil manager WriteWindow: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil manager Close: %v", err)
	}
}

func TestOutputManagerWritesHeadersOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := int32(1); i <= 3; i++ {
		if err := om.WriteWindow(WindowStats{WindowEndTick: i * 600, Attacks: int(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteEvents(nil); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteEvents([]Event{{Tick: 1, Type: EventAttack, Agent: 1, Other: 2}}); err != nil {
		t.Fatal(err)
	}

	lt := NewLifetimeTracker()
	lt.Record(mine.Event{Kind: mine.EventAttack, Agent: 4, Value: 15})
	if err := om.WriteLifetimes(lt); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	lines := readLines(t, filepath.Join(dir, "windows.csv"))
	if len(lines) != 4 {
		t.Fatalf("windows.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,mines") {
		t.Errorf("windows.csv header = %q", lines[0])
	}

	events := readLines(t, filepath.Join(dir, "events.csv"))
	if len(events) != 2 || !strings.Contains(events[1], "attack") {
		t.Errorf("events.csv = %q", events)
	}

	mines := readLines(t, filepath.Join(dir, "mines.csv"))
	if len(mines) != 2 || !strings.HasPrefix(mines[1], "4,") {
		t.Errorf("mines.csv = %q", mines)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
