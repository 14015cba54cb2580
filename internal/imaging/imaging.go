// Package imaging turns uploaded item photos into a stored photo and a
// thumbnail.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// Size limits.
const (
	MaxDimension   = 1024
	ThumbDimension = 256
	MaxInputBytes  = 10 << 20
	maxPixels      = 50_000_000
)

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// OutputMIME is the type of everything Process produces.
const OutputMIME = "image/jpeg"

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ErrTooLarge is returned for uploads over MaxInputBytes or maxPixels.
var ErrTooLarge = errors.New("image too large")

// Result holds the re-encoded photo and its thumbnail.
type Result struct {
	Photo     []byte
	Thumbnail []byte
	Width     int
	Height    int
}

// Process validates the upload by sniffing its bytes, downscales it to at
// most MaxDimension on either side, and derives a ThumbDimension thumbnail.
// Both outputs are JPEG; transparent areas become white.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxInputBytes {
		return nil, ErrTooLarge
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format %s, only JPEG and PNG are accepted", detected)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, ErrTooLarge
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	photo := fit(img, MaxDimension)
	thumb := fit(photo, ThumbDimension)

	photoData, err := encode(photo)
	if err != nil {
		return nil, err
	}
	thumbData, err := encode(thumb)
	if err != nil {
		return nil, err
	}

	b := photo.Bounds()
	return &Result{
		Photo:     photoData,
		Thumbnail: thumbData,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

// fit scales img so neither side exceeds maxDim, keeping the aspect ratio,
// and paints it over a white background.
func fit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := w, h
	if w > maxDim || h > maxDim {
		if w > h {
			newW = maxDim
			newH = h * maxDim / w
		} else {
			newH = maxDim
			newW = w * maxDim / h
		}
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if newW == w && newH == h {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	}
	return dst
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
