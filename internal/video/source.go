// Package video acquires frames from a configured video source. Actual
// capture is an external collaborator; this package only knows how to pull
// already-encoded frames (JPEG bytes) from a network stream or a replay
// directory and hand them to the recognition loop.
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrCameraUnavailable is returned when the configured video source cannot
// be opened. Fatal to the recognition session; the message carries the
// attempted source identifier.
var ErrCameraUnavailable = errors.New("camera unavailable")

// Source delivers one encoded frame at a time. ReadFrame blocks until a
// frame is available, the context is cancelled, or the stream ends (io.EOF).
type Source interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// Resolve opens the video source named by src:
//   - an http(s) URL opens an MJPEG network stream
//   - an existing directory replays its images in filename order
//   - a small non-negative integer names a local capture device, which must
//     be bridged to an MJPEG stream by an external tool
func Resolve(ctx context.Context, src string) (Source, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("%w: no video source configured", ErrCameraUnavailable)

	case strings.Contains(src, "://"):
		return OpenMJPEG(ctx, src)

	default:
		if info, err := os.Stat(src); err == nil && info.IsDir() {
			return OpenDir(src)
		}
		if idx, err := strconv.Atoi(src); err == nil && idx >= 0 {
			device := fmt.Sprintf("/dev/video%d", idx)
			if _, err := os.Stat(device); err != nil {
				return nil, fmt.Errorf("%w: %s does not exist", ErrCameraUnavailable, device)
			}
			return nil, fmt.Errorf("%w: %s found, but local capture is not handled in-process; expose the camera as an MJPEG stream and pass its URL", ErrCameraUnavailable, device)
		}
		return nil, fmt.Errorf("%w: unrecognized source %q", ErrCameraUnavailable, src)
	}
}

// ProbeDevices lists local capture device paths /dev/video0../dev/video<max-1>
// that exist on this machine.
func ProbeDevices(max int) []string {
	var devices []string
	for i := 0; i < max; i++ {
		device := fmt.Sprintf("/dev/video%d", i)
		if _, err := os.Stat(device); err == nil {
			devices = append(devices, device)
		}
	}
	return devices
}

// DirSource replays the images of a directory as a frame stream, mostly for
// testing and offline runs. The stream ends with io.EOF after the last file.
type DirSource struct {
	files []string
	next  int
}

// OpenDir creates a replay source over the image files in dir.
func OpenDir(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no frames in %s", ErrCameraUnavailable, dir)
	}
	return &DirSource{files: files}, nil
}

// ReadFrame returns the next file's bytes, or io.EOF past the last frame.
func (s *DirSource) ReadFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.files) {
		return nil, io.EOF
	}
	data, err := os.ReadFile(s.files[s.next])
	if err != nil {
		return nil, err
	}
	s.next++
	return data, nil
}

// Close is a no-op for directory replay.
func (s *DirSource) Close() error {
	return nil
}
