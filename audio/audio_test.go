package audio

import (
	"math"
	"testing"
)

func peak(buf [][2]float64) float64 {
	p := 0.0
	for _, s := range buf {
		p = math.Max(p, math.Abs(s[0]))
	}
	return p
}

func TestHumBounded(t *testing.T) {
	h := NewHum(48000, 55)
	buf := make([][2]float64, 4800)
	n, ok := h.Stream(buf)
	if n != len(buf) || !ok {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	p := peak(buf)
	if p == 0 || p > 0.2+1e-9 {
		t.Errorf("peak amplitude = %v, want (0, 0.2]", p)
	}
	for i, s := range buf {
		if s[0] != s[1] {
			t.Fatalf("sample %d not mono: %v", i, s)
		}
	}
}

func TestVoiceLifecycle(t *testing.T) {
	s := NewService(48000, 55)
	buf := make([][2]float64, 2048)

	h := s.PlayLoopingSound(RollLoop, 7)
	if s.Active() != 1 {
		t.Fatalf("Active = %d, want 1", s.Active())
	}

	h.SetVolume(1)
	h.SetPitch(1)
	s.Stream(buf)
	loud := peak(buf)
	if loud == 0 {
		t.Fatal("expected audible output")
	}

	h.SetVolume(0.25)
	s.Stream(buf)
	if quiet := peak(buf); quiet >= loud {
		t.Errorf("lower volume peak %v not below %v", quiet, loud)
	}

	h.SetVolume(0)
	s.Stream(buf)
	if p := peak(buf); p != 0 {
		t.Errorf("silenced voice peak = %v", p)
	}

	h.Stop()
	if s.Active() != 0 {
		t.Errorf("Active after stop = %d", s.Active())
	}
	s.Stream(buf)
	if s.mixer.Len() != 0 {
		t.Errorf("mixer still holds %d streamers after stop", s.mixer.Len())
	}
}

func TestSetPitchClamped(t *testing.T) {
	s := NewService(48000, 55)
	h := s.PlayLoopingSound("unknown", 1).(*voice)

	tests := []struct {
		in, want float64
	}{
		{1.23, 1.23},
		{0.01, 0.25},
		{9, 4},
	}
	for _, tt := range tests {
		h.SetPitch(tt.in)
		if got := h.resampler.Ratio(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("SetPitch(%v): ratio = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCloseClearsVoices(t *testing.T) {
	s := NewService(48000, 55)
	s.PlayLoopingSound(RollLoop, 1)
	s.PlayLoopingSound(RollLoop, 2)
	s.Close()
	if s.Active() != 0 || s.mixer.Len() != 0 {
		t.Errorf("after Close: active=%d mixer=%d", s.Active(), s.mixer.Len())
	}
}
