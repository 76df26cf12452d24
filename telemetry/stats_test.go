package telemetry

import (
	"math"
	"testing"
)

func TestComputeDistanceStats(t *testing.T) {
	tests := []struct {
		name           string
		values         []float64
		mean, p50, p90 float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{5}, 5, 5, 5},
		{"ten", []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, 5.5, 5, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p50, p90 := ComputeDistanceStats(tt.values)
			if math.Abs(mean-tt.mean) > 1e-9 {
				t.Errorf("mean = %v, want %v", mean, tt.mean)
			}
			if math.Abs(p50-tt.p50) > 1e-9 {
				t.Errorf("p50 = %v, want %v", p50, tt.p50)
			}
			if math.Abs(p90-tt.p90) > 1e-9 {
				t.Errorf("p90 = %v, want %v", p90, tt.p90)
			}
		})
	}
}

func TestComputeDistanceStatsLeavesInputUnsorted(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeDistanceStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
