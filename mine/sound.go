package mine

import "math"

// MotionSound drives the rolling loop from the agent's motion.
type MotionSound struct {
	ID         string
	Factor     float64
	Epsilon    float64
	UpperLimit float64

	handle SoundHandle
	volume float64
}

// Intensity maps a motion magnitude to the sound intensity, capped at UpperLimit.
func (m *MotionSound) Intensity(speed float64) float64 {
	i := (speed + 1) * m.Factor
	if math.IsNaN(i) || i < 0 {
		return 0
	}
	return math.Min(i, m.UpperLimit)
}

// Update starts, adjusts or stops the loop for this tick's intensity.
// The sound stops below Epsilon and while stunned.
func (m *MotionSound) Update(audio AudioService, owner EntityID, intensity float64, stunned bool) {
	if stunned || intensity < m.Epsilon {
		m.Stop()
		return
	}
	if intensity > m.UpperLimit {
		intensity = m.UpperLimit
	}
	if m.handle == nil {
		m.handle = audio.PlayLoopingSound(m.ID, owner)
		if m.handle == nil {
			return
		}
	}
	m.volume = intensity
	m.handle.SetPitch(intensity)
	m.handle.SetVolume(intensity)
}

// Stop stops and clears the active loop, if any.
func (m *MotionSound) Stop() {
	if m.handle != nil {
		m.handle.Stop()
		m.handle = nil
	}
	m.volume = 0
}

// Active reports whether a loop is playing.
func (m *MotionSound) Active() bool { return m.handle != nil }

// Volume returns the last volume set, or 0 when silent.
func (m *MotionSound) Volume() float64 { return m.volume }
