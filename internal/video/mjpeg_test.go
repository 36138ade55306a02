package video

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// serveMJPEG writes frames as a multipart/x-mixed-replace stream.
func serveMJPEG(t *testing.T, frames [][]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const boundary = "frameboundary"
		w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary="+boundary)
		w.WriteHeader(http.StatusOK)

		for _, frame := range frames {
			fmt.Fprintf(w, "--%s\r\n", boundary)
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(frame))
			w.Write(frame)
			fmt.Fprint(w, "\r\n")
		}
		fmt.Fprintf(w, "--%s--\r\n", boundary)
	}))
}

func TestMJPEGSourceReadsFrames(t *testing.T) {
	frames := [][]byte{
		[]byte("jpeg-frame-1"),
		[]byte("jpeg-frame-2"),
		[]byte("jpeg-frame-3"),
	}
	server := serveMJPEG(t, frames)
	defer server.Close()

	ctx := context.Background()
	src, err := OpenMJPEG(ctx, server.URL)
	if err != nil {
		t.Fatalf("OpenMJPEG failed: %v", err)
	}
	defer src.Close()

	for i, expected := range frames {
		frame, err := src.ReadFrame(ctx)
		if err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
		if string(frame) != string(expected) {
			t.Errorf("frame %d = %q, want %q", i, frame, expected)
		}
	}
}

func TestOpenMJPEGRejectsNonStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a camera</html>"))
	}))
	defer server.Close()

	if _, err := OpenMJPEG(context.Background(), server.URL); !errors.Is(err, ErrCameraUnavailable) {
		t.Errorf("expected ErrCameraUnavailable, got %v", err)
	}
}

func TestOpenMJPEGStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stream offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := OpenMJPEG(context.Background(), server.URL); !errors.Is(err, ErrCameraUnavailable) {
		t.Errorf("expected ErrCameraUnavailable, got %v", err)
	}
}

func TestOpenMJPEGConnectionRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := func() error {
		_, err := OpenMJPEG(context.Background(), url)
		return err
	}()
	if !errors.Is(err, ErrCameraUnavailable) {
		t.Errorf("expected ErrCameraUnavailable, got %v", err)
	}
}
