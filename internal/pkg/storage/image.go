package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor produces item photo thumbnails.
type ImageProcessor struct {
	maxWidth  int
	maxHeight int
	quality   int
}

// NewImageProcessor creates a processor fitting thumbnails into a maxWidth x maxHeight box.
func NewImageProcessor(maxWidth, maxHeight int) *ImageProcessor {
	return &ImageProcessor{maxWidth: maxWidth, maxHeight: maxHeight, quality: 80}
}

// Thumbnail decodes the source image and returns a JPEG that fits the configured box.
func (p *ImageProcessor) Thumbnail(content io.Reader) (io.Reader, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, thumb, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
