package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-watch/internal/config"
	"github.com/kozaktomas/face-watch/internal/gallery"
)

// openStore builds the configured gallery store. The returned cleanup closes
// the database pool for the postgres backend and is a no-op for files.
// dim is only needed by postgres migrations when saving a fresh gallery;
// pass 0 when only loading.
func openStore(ctx context.Context, cfg *config.Config, dim int) (gallery.Store, func(), error) {
	switch cfg.Gallery.Store {
	case "", "file":
		return gallery.NewFileStore(cfg.Gallery.Path), func() {}, nil

	case "postgres":
		pool, err := gallery.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if dim > 0 {
			if err := gallery.Migrate(ctx, pool, dim); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return gallery.NewPostgresStore(pool, cfg.Gallery.Name), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown gallery store %q (want file or postgres)", cfg.Gallery.Store)
	}
}
