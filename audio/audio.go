// Package audio plays the looping motion sounds of the mines.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/rollermine/mine"
)

// RollLoop is the id of the mine rolling sound.
const RollLoop = "rmine_moveslow_loop1"

// Generator builds an endless streamer for a sound id.
type Generator func(sr beep.SampleRate) beep.Streamer

// Service mixes every active loop into one speaker stream.
type Service struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	mixer   *beep.Mixer
	sounds  map[string]Generator
	voices  map[*voice]struct{}
	started bool
}

// NewService creates a service producing audio at sampleRate. The rolling
// loop is registered as a hum at humFreq Hz.
func NewService(sampleRate int, humFreq float64) *Service {
	s := &Service{
		rate:   beep.SampleRate(sampleRate),
		mixer:  &beep.Mixer{},
		sounds: make(map[string]Generator),
		voices: make(map[*voice]struct{}),
	}
	s.Register(RollLoop, func(sr beep.SampleRate) beep.Streamer {
		return NewHum(sr, humFreq)
	})
	return s
}

// Register binds a sound id to a generator.
func (s *Service) Register(id string, gen Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds[id] = gen
}

// Start opens the speaker and begins playback.
func (s *Service) Start(buffer time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := speaker.Init(s.rate, s.rate.N(buffer)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	speaker.Play(s)
	s.started = true
	return nil
}

// Close silences every voice and clears the mixer.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for v := range s.voices {
		v.ctrl.Streamer = nil
	}
	clear(s.voices)
	s.mixer.Clear()
}

// Stream implements beep.Streamer so the speaker reads the mixer under
// the service lock.
func (s *Service) Stream(samples [][2]float64) (n int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mixer.Stream(samples)
}

// Err implements beep.Streamer.
func (s *Service) Err() error { return nil }

// Active returns the number of voices playing.
func (s *Service) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// PlayLoopingSound starts an endless loop for id. Unknown ids play the hum.
func (s *Service) PlayLoopingSound(id string, owner mine.EntityID) mine.SoundHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, ok := s.sounds[id]
	if !ok {
		gen = s.sounds[RollLoop]
	}

	v := &voice{svc: s, owner: owner}
	v.resampler = beep.ResampleRatio(4, 1, gen(s.rate))
	v.volume = &effects.Volume{Streamer: v.resampler, Base: 2}
	v.ctrl = &beep.Ctrl{Streamer: v.volume}

	s.voices[v] = struct{}{}
	s.mixer.Add(v.ctrl)
	return v
}

// voice is one playing loop.
type voice struct {
	svc       *Service
	owner     mine.EntityID
	ctrl      *beep.Ctrl
	volume    *effects.Volume
	resampler *beep.Resampler
}

// SetVolume sets the linear gain. Zero or less silences the voice.
func (v *voice) SetVolume(gain float64) {
	v.svc.mu.Lock()
	defer v.svc.mu.Unlock()

	if gain <= 0 || math.IsNaN(gain) {
		v.volume.Silent = true
		return
	}
	v.volume.Silent = false
	v.volume.Volume = math.Log2(gain)
}

// SetPitch sets the playback speed ratio, clamped to [0.25, 4].
func (v *voice) SetPitch(ratio float64) {
	v.svc.mu.Lock()
	defer v.svc.mu.Unlock()

	if math.IsNaN(ratio) {
		return
	}
	v.resampler.SetRatio(math.Max(0.25, math.Min(ratio, 4)))
}

// Stop ends the loop; the mixer drops it on its next read.
func (v *voice) Stop() {
	v.svc.mu.Lock()
	defer v.svc.mu.Unlock()

	v.ctrl.Streamer = nil
	delete(v.svc.voices, v)
}
