package recognize

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-watch/internal/extractor"
	"github.com/kozaktomas/face-watch/internal/match"
	"github.com/kozaktomas/face-watch/internal/video"
)

// Extractor is the external embedding service used on sampled frames.
type Extractor interface {
	Represent(ctx context.Context, imageData []byte) ([]extractor.Face, error)
	Model() string
}

// Session is one recognition run: a frame source, the extractor, and a
// matcher over a read-only gallery, paced by a scheduler. Single-threaded and
// frame-at-a-time; the only cancellation point is between frames.
type Session struct {
	id        string
	source    video.Source
	extractor Extractor
	matcher   *match.Matcher
	scheduler *Scheduler

	// Emit, if set, is called once per frame with the current results and
	// whether this frame was actually processed (vs. served from cache).
	Emit func(processed bool, results []Result)
}

// NewSession wires a session together. processEvery below 1 clamps to 1.
func NewSession(source video.Source, ex Extractor, m *match.Matcher, processEvery int) *Session {
	return &Session{
		id:        uuid.NewString(),
		source:    source,
		extractor: ex,
		matcher:   m,
		scheduler: NewScheduler(processEvery),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Scheduler exposes the session's scheduler, whose Latest() is safe to read
// from other goroutines (the serve command does).
func (s *Session) Scheduler() *Scheduler {
	return s.scheduler
}

// Run drives the frame loop until the context is cancelled or the stream
// ends. A failing extraction is treated as a zero-face frame and the loop
// continues; a failing frame source ends the session.
func (s *Session) Run(ctx context.Context) error {
	for {
		frame, err := s.source.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		processed := s.scheduler.Tick()
		if processed {
			s.scheduler.Publish(s.processFrame(ctx, frame))
		}

		if s.Emit != nil {
			s.Emit(processed, s.scheduler.Latest())
		}

		if err := ctx.Err(); err != nil {
			return nil
		}
	}
}

// processFrame extracts faces from one frame and matches each against the
// gallery. Extraction errors yield zero results for this cycle.
func (s *Session) processFrame(ctx context.Context, frame []byte) []Result {
	faces, err := s.extractor.Represent(ctx, frame)
	if err != nil {
		return nil
	}

	results := make([]Result, 0, len(faces))
	for _, face := range faces {
		results = append(results, newResult(s.matcher.Match(face.Embedding), face.BBox))
	}
	return results
}
