// Package match implements the matching engine: given a freshly extracted
// face embedding, find the best identity in the gallery under a cosine
// distance threshold, or report it as unknown.
package match

import (
	"errors"
	"fmt"
	"math"

	"github.com/kozaktomas/face-watch/internal/gallery"
)

// DefaultThreshold is the default maximum cosine distance for a positive
// identification. Lower values = stricter matching.
const DefaultThreshold = 0.4

// indexCutoff is the gallery size above which an HNSW index replaces the
// linear scan. Small galleries scan exactly; the cutoff keeps tie-breaking
// trivially deterministic where it matters.
const indexCutoff = 1000

// searchCandidates is how many index candidates are considered per query.
const searchCandidates = 64

// ErrInvalidThreshold is returned for thresholds outside (0, 2], the valid
// range for cosine distance.
var ErrInvalidThreshold = errors.New("threshold must be in (0, 2]")

// Result is the outcome of matching one query embedding.
// Known is false when no gallery record is within the threshold; Identity and
// Confidence are only meaningful when Known is true.
type Result struct {
	Identity   string
	Known      bool
	Distance   float64
	Confidence float64
}

// Matcher compares query embeddings against a read-only gallery.
type Matcher struct {
	gallery   *gallery.Gallery
	index     *gallery.Index
	threshold float64
}

// New creates a matcher over a loaded gallery. The gallery must not be
// mutated while the matcher is in use. For galleries above the index cutoff
// an HNSW index is built up front.
func New(g *gallery.Gallery, threshold float64) (*Matcher, error) {
	if threshold <= 0 || threshold > 2 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	m := &Matcher{gallery: g, threshold: threshold}
	if g.Len() > indexCutoff {
		m.index = gallery.BuildIndex(g)
	}
	return m, nil
}

// Threshold returns the configured distance threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match scans the gallery for the record closest to the query embedding.
// An identity with multiple enrolled records is scored by its minimum record
// distance (best pose wins). Ties keep the first-encountered record. The
// threshold boundary is inclusive: distance == threshold is identified.
// An empty gallery yields Known=false, never an error.
func (m *Matcher) Match(query []float32) Result {
	bestDistance := math.Inf(1)
	bestIdentity := ""

	if m.index != nil {
		positions, distances, err := m.index.Search(query, searchCandidates)
		if err == nil {
			for i, pos := range positions {
				if distances[i] < bestDistance {
					bestDistance = distances[i]
					bestIdentity = m.gallery.Records[pos].Identity
				}
			}
		}
	} else {
		for _, rec := range m.gallery.Records {
			d := gallery.CosineDistance(query, rec.Embedding)
			if d < bestDistance {
				bestDistance = d
				bestIdentity = rec.Identity
			}
		}
	}

	if bestIdentity == "" || bestDistance > m.threshold {
		if math.IsInf(bestDistance, 1) {
			// Empty gallery: report the cosine distance maximum, which
			// also keeps the result JSON-encodable.
			bestDistance = 2
		}
		return Result{Known: false, Distance: bestDistance}
	}

	return Result{
		Identity:   bestIdentity,
		Known:      true,
		Distance:   bestDistance,
		Confidence: Confidence(bestDistance, m.threshold),
	}
}

// Confidence maps a distance within [0, threshold] to a percentage:
// 100 at distance 0, strictly decreasing, 0 exactly at the threshold.
// Values outside the range clamp to [0, 100].
func Confidence(distance, threshold float64) float64 {
	c := (1 - distance/threshold) * 100
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
