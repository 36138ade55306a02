package gallery

import (
	"errors"

	"github.com/coder/hnsw"
)

// indexMaxNeighbors is the HNSW M parameter (max neighbors per node).
const indexMaxNeighbors = 16

// Index is an approximate-nearest-neighbor index over a gallery's records,
// used to cut candidate scans for large galleries. Keys are record positions
// in the gallery, so results map back to identities in stable order.
type Index struct {
	graph *hnsw.Graph[int]
}

// BuildIndex builds an HNSW index with cosine distance over all records.
// Returns nil for an empty gallery.
func BuildIndex(g *Gallery) *Index {
	if g == nil || len(g.Records) == 0 {
		return nil
	}

	graph := hnsw.NewGraph[int]()
	graph.M = indexMaxNeighbors
	graph.Ml = 1.0 / float64(indexMaxNeighbors) // Standard HNSW formula
	graph.Distance = hnsw.CosineDistance

	for i, rec := range g.Records {
		if len(rec.Embedding) == 0 {
			continue
		}
		graph.Add(hnsw.MakeNode(i, rec.Embedding))
	}

	return &Index{graph: graph}
}

// Search returns up to k candidate record positions with their exact cosine
// distances to the query. Distances are recomputed with CosineDistance so the
// threshold decision is not affected by HNSW's internal approximation.
func (ix *Index) Search(query []float32, k int) ([]int, []float64, error) {
	if ix == nil || ix.graph == nil {
		return nil, nil, errors.New("index not initialized")
	}

	neighbors := ix.graph.Search(query, k)

	positions := make([]int, len(neighbors))
	distances := make([]float64, len(neighbors))
	for i, n := range neighbors {
		positions[i] = n.Key
		distances[i] = CosineDistance(query, n.Value)
	}
	return positions, distances, nil
}
