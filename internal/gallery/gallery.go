// Package gallery holds the enrolled face embeddings and their persistence.
// A gallery is built once by enrollment, stored as a single artifact, and
// loaded read-only for the duration of a recognition session.
package gallery

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrIncompatibleModel is returned when a persisted gallery was built
	// with a different embedding model than the one configured. Distances
	// between embeddings from different models are meaningless, so this is
	// fatal at load time.
	ErrIncompatibleModel = errors.New("gallery built with incompatible embedding model")

	// ErrDimensionMismatch is returned when a record's embedding length
	// differs from the gallery's dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidEmbedding is returned for empty embeddings or embeddings
	// containing NaN/Inf values.
	ErrInvalidEmbedding = errors.New("invalid embedding")
)

// Record is a single enrolled face: a stable identity key plus the embedding
// computed from one enrollment photo. An identity may own multiple records
// (multi-pose enrollment).
type Record struct {
	Identity  string    `json:"identity"`
	Embedding []float32 `json:"embedding"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Gallery is an ordered collection of records produced by one embedding model.
// Iteration order is the append order, which makes best-match tie-breaking
// deterministic.
type Gallery struct {
	Model   string
	Dim     int
	Records []Record
}

// New creates an empty gallery for the given embedding model.
func New(model string) *Gallery {
	return &Gallery{Model: model}
}

// Append adds a record, validating that the embedding is finite and that its
// dimension matches the rest of the gallery. The first record fixes the
// gallery's dimensionality.
func (g *Gallery) Append(rec Record) error {
	if len(rec.Embedding) == 0 {
		return fmt.Errorf("%w: empty embedding for %q", ErrInvalidEmbedding, rec.Identity)
	}
	for _, v := range rec.Embedding {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: non-finite value for %q", ErrInvalidEmbedding, rec.Identity)
		}
	}
	if g.Dim == 0 {
		g.Dim = len(rec.Embedding)
	} else if len(rec.Embedding) != g.Dim {
		return fmt.Errorf("%w: got %d, gallery has %d", ErrDimensionMismatch, len(rec.Embedding), g.Dim)
	}
	g.Records = append(g.Records, rec)
	return nil
}

// Len returns the number of records.
func (g *Gallery) Len() int {
	return len(g.Records)
}

// Identities returns the unique identity keys in first-enrolled order.
func (g *Gallery) Identities() []string {
	seen := make(map[string]bool, len(g.Records))
	var ids []string
	for _, rec := range g.Records {
		if !seen[rec.Identity] {
			seen[rec.Identity] = true
			ids = append(ids, rec.Identity)
		}
	}
	return ids
}

// RecordCount returns the number of records enrolled for an identity.
func (g *Gallery) RecordCount(identity string) int {
	n := 0
	for _, rec := range g.Records {
		if rec.Identity == identity {
			n++
		}
	}
	return n
}

// CheckModel verifies that the gallery was produced by the given model.
func (g *Gallery) CheckModel(model string) error {
	if g.Model != model {
		return fmt.Errorf("%w: gallery has %q, configured %q", ErrIncompatibleModel, g.Model, model)
	}
	return nil
}
