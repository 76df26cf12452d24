package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Census at window end
	Mines        int `csv:"mines"`
	MinesStunned int `csv:"mines_stunned"`
	Players      int `csv:"players"`
	Props        int `csv:"props"`

	// Agent transitions during window
	Retargets int `csv:"retargets"`
	Replans   int `csv:"replans"`
	Attacks   int `csv:"attacks"`
	Stuns     int `csv:"stuns"`
	Revives   int `csv:"revives"`
	Impacts   int `csv:"impacts"`

	// Outcomes
	Kills            int     `csv:"kills"`
	MineDeaths       int     `csv:"mine_deaths"`
	PropsDestroyed   int     `csv:"props_destroyed"`
	Respawns         int     `csv:"respawns"`
	DamageDealt      float64 `csv:"damage_dealt"`
	AttacksPerMinute float64 `csv:"attacks_per_min"`

	// Pursuit quality
	PursuitSamples int     `csv:"pursuit_samples"`
	PursuitMean    float64 `csv:"pursuit_mean"`
	PursuitP50     float64 `csv:"pursuit_p50"`
	PursuitP90     float64 `csv:"pursuit_p90"`
	OrbitRatio     float64 `csv:"orbit_ratio"` // share of close samples spent circling the target
}

// ComputeDistanceStats returns the mean, median and 90th percentile of
// values. It returns zeros for an empty slice.
func ComputeDistanceStats(values []float64) (mean, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("mines", s.Mines),
		slog.Int("mines_stunned", s.MinesStunned),
		slog.Int("players", s.Players),
		slog.Int("props", s.Props),
		slog.Int("retargets", s.Retargets),
		slog.Int("replans", s.Replans),
		slog.Int("attacks", s.Attacks),
		slog.Int("stuns", s.Stuns),
		slog.Int("impacts", s.Impacts),
		slog.Int("kills", s.Kills),
		slog.Int("mine_deaths", s.MineDeaths),
		slog.Int("props_destroyed", s.PropsDestroyed),
		slog.Float64("damage_dealt", s.DamageDealt),
		slog.Float64("attacks_per_min", s.AttacksPerMinute),
		slog.Float64("pursuit_mean", s.PursuitMean),
		slog.Float64("pursuit_p90", s.PursuitP90),
		slog.Float64("orbit_ratio", s.OrbitRatio),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
