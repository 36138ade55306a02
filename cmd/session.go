package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-watch/internal/config"
	"github.com/kozaktomas/face-watch/internal/extractor"
	"github.com/kozaktomas/face-watch/internal/gallery"
	"github.com/kozaktomas/face-watch/internal/match"
	"github.com/kozaktomas/face-watch/internal/recognize"
	"github.com/kozaktomas/face-watch/internal/video"
)

// buildSession loads the gallery, verifies model compatibility, opens the
// video source, and wires a recognition session. Configuration problems
// (model mismatch, bad threshold, unopenable source) surface here, before
// any frame is processed.
func buildSession(ctx context.Context, cfg *config.Config, source string) (*recognize.Session, *gallery.Gallery, func(), error) {
	store, cleanup, err := openStore(ctx, cfg, 0)
	if err != nil {
		return nil, nil, nil, err
	}

	g, err := store.Load(ctx, cfg.Extractor.Model)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	fmt.Printf("Loaded gallery: %d identities, %d records (model %s)\n",
		len(g.Identities()), g.Len(), g.Model)

	matcher, err := match.New(g, cfg.Matching.Threshold)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	if source == "" {
		source = cfg.Video.Source
	}
	src, err := video.Resolve(ctx, source)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	ex := extractor.New(cfg.Extractor.URL, cfg.Extractor.Model, cfg.Extractor.Detector)
	session := recognize.NewSession(src, ex, matcher, cfg.Video.ProcessEvery)

	teardown := func() {
		src.Close()
		cleanup()
	}
	return session, g, teardown, nil
}
