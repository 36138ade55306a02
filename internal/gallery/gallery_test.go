package gallery

import (
	"errors"
	"math"
	"testing"
)

func TestAppendFixesDimension(t *testing.T) {
	g := New("Facenet512")

	if err := g.Append(Record{Identity: "jan", Embedding: []float32{1, 2, 3}}); err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if g.Dim != 3 {
		t.Errorf("Dim = %d, want 3", g.Dim)
	}

	err := g.Append(Record{Identity: "eva", Embedding: []float32{1, 2}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d after rejected append, want 1", g.Len())
	}
}

func TestAppendRejectsInvalidEmbeddings(t *testing.T) {
	tests := []struct {
		name      string
		embedding []float32
	}{
		{"empty", nil},
		{"nan", []float32{1, float32(math.NaN()), 3}},
		{"inf", []float32{1, float32(math.Inf(1)), 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New("Facenet512")
			err := g.Append(Record{Identity: "x", Embedding: tt.embedding})
			if !errors.Is(err, ErrInvalidEmbedding) {
				t.Errorf("expected ErrInvalidEmbedding, got %v", err)
			}
		})
	}
}

func TestIdentitiesFirstEnrolledOrder(t *testing.T) {
	g := New("Facenet512")
	for _, id := range []string{"jan", "eva", "jan", "petr", "eva"} {
		if err := g.Append(Record{Identity: id, Embedding: []float32{1, 0}}); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	ids := g.Identities()
	want := []string{"jan", "eva", "petr"}
	if len(ids) != len(want) {
		t.Fatalf("Identities() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Identities()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	if n := g.RecordCount("jan"); n != 2 {
		t.Errorf("RecordCount(jan) = %d, want 2", n)
	}
	if n := g.RecordCount("nobody"); n != 0 {
		t.Errorf("RecordCount(nobody) = %d, want 0", n)
	}
}

func TestCheckModel(t *testing.T) {
	g := New("Facenet512")
	if err := g.CheckModel("Facenet512"); err != nil {
		t.Errorf("CheckModel with matching model failed: %v", err)
	}
	if err := g.CheckModel("ArcFace"); !errors.Is(err, ErrIncompatibleModel) {
		t.Errorf("expected ErrIncompatibleModel, got %v", err)
	}
}
