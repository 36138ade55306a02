package video

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
)

// MJPEGSource reads frames from an HTTP multipart/x-mixed-replace (MJPEG)
// stream, the protocol most IP webcams and phone camera apps speak.
type MJPEGSource struct {
	url    string
	resp   *http.Response
	reader *multipart.Reader
}

// OpenMJPEG connects to the stream URL. The request is bound to ctx, so
// cancelling the session also tears the stream down.
func OpenMJPEG(ctx context.Context, url string) (*MJPEGSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCameraUnavailable, url, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCameraUnavailable, url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned status %d", ErrCameraUnavailable, url, resp.StatusCode)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s is not an MJPEG stream (content-type %q)", ErrCameraUnavailable, url, resp.Header.Get("Content-Type"))
	}

	// Some cameras put the leading dashes into the boundary parameter.
	boundary := strings.TrimPrefix(params["boundary"], "--")
	if boundary == "" {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s stream has no multipart boundary", ErrCameraUnavailable, url)
	}

	return &MJPEGSource{
		url:    url,
		resp:   resp,
		reader: multipart.NewReader(resp.Body, boundary),
	}, nil
}

// ReadFrame returns the next JPEG frame from the stream.
func (s *MJPEGSource) ReadFrame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	part, err := s.reader.NextPart()
	if err != nil {
		return nil, err
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Close terminates the stream connection.
func (s *MJPEGSource) Close() error {
	return s.resp.Body.Close()
}
