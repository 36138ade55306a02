package recognize

import "testing"

func TestSchedulerCadence(t *testing.T) {
	tests := []struct {
		name      string
		every     int
		frames    int
		processed int
	}{
		{"every 10th of 30", 10, 30, 3},
		{"every 10th of 29", 10, 29, 2},
		{"every frame", 1, 5, 5},
		{"clamp zero to every frame", 0, 5, 5},
		{"clamp negative to every frame", -3, 4, 4},
		{"interval longer than stream", 10, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScheduler(tt.every)
			processed := 0
			for i := 0; i < tt.frames; i++ {
				if s.Tick() {
					processed++
				}
			}
			if processed != tt.processed {
				t.Errorf("processed %d of %d frames, want %d", processed, tt.frames, tt.processed)
			}
			if s.Frames() != tt.frames {
				t.Errorf("Frames() = %d, want %d", s.Frames(), tt.frames)
			}
		})
	}
}

func TestSchedulerExactlyOnePerWindow(t *testing.T) {
	const every = 7
	s := NewScheduler(every)

	for window := 0; window < 5; window++ {
		processed := 0
		for i := 0; i < every; i++ {
			if s.Tick() {
				processed++
			}
		}
		if processed != 1 {
			t.Fatalf("window %d: %d processed frames, want exactly 1", window, processed)
		}
	}
}

func TestSchedulerPublishReplaces(t *testing.T) {
	s := NewScheduler(10)

	if got := s.Latest(); got != nil {
		t.Errorf("Latest() before any publish = %v, want nil", got)
	}

	first := []Result{{Identity: "jan", Known: true}}
	s.Publish(first)
	if got := s.Latest(); len(got) != 1 || got[0].Identity != "jan" {
		t.Errorf("Latest() = %v, want published results", got)
	}

	s.Publish(nil)
	if got := s.Latest(); got != nil {
		t.Errorf("Latest() after publishing nil = %v, want nil", got)
	}
}

func TestSchedulerCachedReuseBetweenCycles(t *testing.T) {
	s := NewScheduler(3)
	results := []Result{{Identity: "eva", Known: true, Confidence: 80}}

	for i := 0; i < 9; i++ {
		if s.Tick() {
			s.Publish(results)
		}
		if i >= 2 {
			latest := s.Latest()
			if len(latest) != 1 || latest[0].Identity != "eva" {
				t.Fatalf("frame %d: cached results not reused: %v", i+1, latest)
			}
		}
	}
}
