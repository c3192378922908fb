package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	_ "image/png" // Register PNG decoder
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // Register BMP decoder
)

const (
	// MaxWidth and MaxHeight bound the thumbnail; images already inside the box keep their size.
	MaxWidth  = 150
	MaxHeight = 150

	JPEGQuality = 85
	ContentType = "image/jpeg"

	KeyPrefix = "thumbnails/"
)

var ErrUnsupportedImage = errors.New("unsupported image")

// Extensions that are worth fetching. Anything else is skipped without touching storage.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

type Result struct {
	Key          string
	Data         []byte
	Width        int
	Height       int
	SourceFormat string
}

func IsImageKey(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DestinationKey maps a source key to thumbnails/<key without extension>.jpg.
func DestinationKey(sourceKey string) string {
	return KeyPrefix + stripExtension(sourceKey) + ".jpg"
}

// stripExtension removes the extension of the last path element. Leading dots
// of the element do not start an extension, so ".png" is kept whole.
func stripExtension(key string) string {
	base := path.Base(key)
	if !strings.Contains(strings.TrimLeft(base, "."), ".") {
		return key
	}
	return strings.TrimSuffix(key, path.Ext(key))
}

// Generate decodes data, fits it into MaxWidth x MaxHeight and encodes the result as JPEG.
func Generate(sourceKey string, data []byte) (*Result, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w: %v", ErrUnsupportedImage, err)
	}

	thumb := Fit(img, MaxWidth, MaxHeight)
	if format != "jpeg" {
		flattenAlpha(thumb)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	bounds := thumb.Bounds()
	return &Result{
		Key:          DestinationKey(sourceKey),
		Data:         buf.Bytes(),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		SourceFormat: format,
	}, nil
}

// Fit scales img down to fit inside maxW x maxH preserving the aspect ratio.
// It never enlarges.
func Fit(img image.Image, maxW, maxH int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := FitSize(bounds.Dx(), bounds.Dy(), maxW, maxH)
	if w == bounds.Dx() && h == bounds.Dy() {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// FitSize returns the dimensions of a w x h image scaled to fit inside maxW x maxH.
// The scaled side is rounded to the nearest integer, halves rounding up.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	if w*maxH >= h*maxW {
		return maxW, max(1, (2*h*maxW+w)/(2*w))
	}
	return max(1, (2*w*maxH+h)/(2*h)), maxH
}

// flattenAlpha turns img into an opaque RGB image, keeping the colour channels as they are.
func flattenAlpha(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
