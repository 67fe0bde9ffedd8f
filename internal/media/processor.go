// Package media normalizes uploaded files before they reach the blob store:
// images are bounded and re-encoded as JPEG, object keys are derived from the
// upload date and a slugified filename.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"strings"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// maxImageWidth bounds uploaded images; taller-than-wide images keep
	// their aspect ratio.
	maxImageWidth = 1000

	jpegQuality = 80
)

// Processor re-encodes uploaded images into bounded JPEGs.
type Processor struct{}

// NewProcessor returns a Processor.
func NewProcessor() *Processor { return &Processor{} }

// TransformImage decodes the upload (JPEG, PNG or WebP), scales it down to
// at most maxImageWidth wide and re-encodes it as JPEG. Images already
// within bounds are re-encoded without scaling.
func (p *Processor) TransformImage(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	if w := bounds.Dx(); w > maxImageWidth {
		h := bounds.Dy() * maxImageWidth / w
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadKey builds the blob store object key for an upload:
// YYYYMMDD/{category}/{slugified filename}.
func UploadKey(t time.Time, category, filename string) string {
	return t.Format("20060102") + "/" + category + "/" + SlugFilename(filename)
}

// KeyBuilder binds UploadKey to a clock, yielding the two-argument key
// function the write pipeline takes.
func KeyBuilder(now func() time.Time) func(category, filename string) string {
	if now == nil {
		now = time.Now
	}
	return func(category, filename string) string {
		return UploadKey(now(), category, filename)
	}
}

// SlugFilename slugifies each dot-separated segment of the filename so the
// extension stays intact while the rest is transliterated and lowercased.
func SlugFilename(name string) string {
	segments := strings.Split(name, ".")
	kept := segments[:0]
	for _, seg := range segments {
		if s := slug.Make(seg); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ".")
}
