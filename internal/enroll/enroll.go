// Package enroll builds a gallery from a directory of labeled face images.
// The filename (minus extension) is the identity key; multiple images per
// identity append multiple records, enabling multi-pose enrollment.
package enroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kozaktomas/face-watch/internal/extractor"
	"github.com/kozaktomas/face-watch/internal/gallery"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxImageSize is the maximum dimension (width or height) sent to the
// extractor; larger enrollment photos are downscaled first.
const maxImageSize = 1600

// ErrNoFaceDetected marks an enrollment image in which the extractor found
// no face. The image is skipped and the batch continues.
var ErrNoFaceDetected = errors.New("no face detected")

// Extractor is the external embedding service used during enrollment.
type Extractor interface {
	Represent(ctx context.Context, imageData []byte) ([]extractor.Face, error)
	Model() string
}

// Report summarizes one enrollment run for operator output.
type Report struct {
	Enrolled int
	Skipped  int
	Warnings []string
}

// Builder consumes a directory of images and produces a gallery.
type Builder struct {
	extractor Extractor

	// OnProgress, if set, is called after each image with (done, total).
	OnProgress func(done, total int)
}

// NewBuilder creates a builder around the given extractor.
func NewBuilder(ex Extractor) *Builder {
	return &Builder{extractor: ex}
}

// imageExtensions are the raster formats accepted for enrollment.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

// BuildGallery scans dir for images and enrolls one face per image.
// Images without a detectable face are skipped (recorded in the report, never
// fatal to the batch). When an image contains more than one face, the face
// with the highest detection score is enrolled and a warning is recorded;
// faces are never averaged.
func (b *Builder) BuildGallery(ctx context.Context, dir string) (*gallery.Gallery, *Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read enrollment directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no images found in %s", dir)
	}

	g := gallery.New(b.extractor.Model())
	report := &Report{}

	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		if err := b.enrollImage(ctx, g, dir, name, report); err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", name, err))
		}

		if b.OnProgress != nil {
			b.OnProgress(i+1, len(files))
		}
	}

	return g, report, nil
}

// enrollImage extracts one face from a single image and appends its record.
func (b *Builder) enrollImage(ctx context.Context, g *gallery.Gallery, dir, name string, report *Report) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	data = downscale(data)

	faces, err := b.extractor.Represent(ctx, data)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if len(faces) == 0 {
		return ErrNoFaceDetected
	}

	face := faces[0]
	if len(faces) > 1 {
		// Multi-face policy: keep the highest-scoring detection, warn.
		for _, f := range faces[1:] {
			if f.DetScore > face.DetScore {
				face = f
			}
		}
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s: %d faces detected, enrolled the highest-scoring one", name, len(faces)))
	}

	identity := IdentityKey(name)
	if err := g.Append(gallery.Record{
		Identity:  identity,
		Embedding: face.Embedding,
		Source:    name,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	report.Enrolled++
	return nil
}

// downscale re-encodes images whose longest side exceeds maxImageSize.
// Undecodable data is passed through untouched and left for the extractor to
// reject.
func downscale(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageSize && h <= maxImageSize {
		return data
	}

	scale := float64(maxImageSize) / float64(max(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return data
	}
	return buf.Bytes()
}
