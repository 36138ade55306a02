package gallery

import "context"

// Store persists a gallery and loads it back for recognition sessions.
// Load verifies that the stored artifact was produced by the expected model
// and fails with ErrIncompatibleModel otherwise, before any frame is
// processed.
type Store interface {
	Save(ctx context.Context, g *Gallery) error
	Load(ctx context.Context, model string) (*Gallery, error)
}
