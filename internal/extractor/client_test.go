package extractor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRepresent(t *testing.T) {
	var gotModel, gotDetector, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed/face" {
			t.Errorf("path = %q, want /embed/face", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotDetector = r.FormValue("detector")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		gotContentType = header.Header.Get("Content-Type")
		if _, err := io.ReadAll(file); err != nil {
			t.Fatalf("failed to read file part: %v", err)
		}

		json.NewEncoder(w).Encode(representResponse{
			FacesCount: 1,
			Faces: []Face{
				{
					FaceIndex: 0,
					Dim:       4,
					Embedding: []float32{0.1, 0.2, 0.3, 0.4},
					BBox:      []float64{10, 20, 110, 140},
					DetScore:  0.98,
				},
			},
			Model: "Facenet512",
		})
	}))
	defer server.Close()

	client := New(server.URL, "Facenet512", "opencv")
	jpegHeader := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}

	faces, err := client.Represent(context.Background(), jpegHeader)
	if err != nil {
		t.Fatalf("Represent failed: %v", err)
	}

	if gotModel != "Facenet512" {
		t.Errorf("model field = %q, want Facenet512", gotModel)
	}
	if gotDetector != "opencv" {
		t.Errorf("detector field = %q, want opencv", gotDetector)
	}
	if gotContentType != "image/jpeg" {
		t.Errorf("file content-type = %q, want image/jpeg", gotContentType)
	}

	if len(faces) != 1 {
		t.Fatalf("got %d faces, want 1", len(faces))
	}
	if len(faces[0].Embedding) != 4 {
		t.Errorf("embedding length = %d, want 4", len(faces[0].Embedding))
	}
	if faces[0].DetScore != 0.98 {
		t.Errorf("DetScore = %v, want 0.98", faces[0].DetScore)
	}
}

func TestRepresentNoFacesIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(representResponse{FacesCount: 0, Model: "Facenet512"})
	}))
	defer server.Close()

	client := New(server.URL, "Facenet512", "opencv")
	faces, err := client.Represent(context.Background(), []byte("frame"))
	if err != nil {
		t.Fatalf("zero faces must not be an error, got %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("got %d faces, want 0", len(faces))
	}
}

func TestRepresentServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "Facenet512", "opencv")
	if _, err := client.Represent(context.Background(), []byte("frame")); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestNewDefaults(t *testing.T) {
	client := New("", "", "")
	if client.Model() != "Facenet512" {
		t.Errorf("default model = %q, want Facenet512", client.Model())
	}
	if client.baseURL != "http://localhost:8000" {
		t.Errorf("default base URL = %q", client.baseURL)
	}
	if client.detector != "opencv" {
		t.Errorf("default detector = %q, want opencv", client.detector)
	}
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}, "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"gif", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0, 0}, "image/gif"},
		{"webp", []byte{0x52, 0x49, 0x46, 0x46, 0, 0, 0, 0, 0x57, 0x45, 0x42, 0x50}, "image/webp"},
		{"unknown", []byte{1, 2, 3, 4, 5, 6, 7, 8}, "application/octet-stream"},
		{"too short", []byte{0xFF}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectMIMEType(tt.data); got != tt.expected {
				t.Errorf("detectMIMEType() = %q, want %q", got, tt.expected)
			}
		})
	}
}
