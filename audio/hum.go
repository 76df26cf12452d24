package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// Hum is an endless low drone with a slow wobble, standing in for the
// rolling rumble of a mine.
type Hum struct {
	sr    beep.SampleRate
	freq  float64
	phase float64
	wob   float64
}

// NewHum creates a hum at freq Hz.
func NewHum(sr beep.SampleRate, freq float64) *Hum {
	return &Hum{sr: sr, freq: freq}
}

func (h *Hum) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		// Fundamental plus two harmonics, amplitude wobbling at 3 Hz
		amp := 0.2 * (0.75 + 0.25*math.Sin(2*math.Pi*h.wob))
		val := math.Sin(2*math.Pi*h.phase) +
			0.5*math.Sin(4*math.Pi*h.phase) +
			0.25*math.Sin(6*math.Pi*h.phase)
		val *= amp / 1.75

		samples[i][0] = val
		samples[i][1] = val

		h.phase += h.freq / float64(h.sr)
		h.phase -= math.Floor(h.phase)
		h.wob += 3 / float64(h.sr)
		h.wob -= math.Floor(h.wob)
	}
	return len(samples), true
}

func (h *Hum) Err() error { return nil }
