package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func testPNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	return cfg.Width, cfg.Height
}

func TestProcessSmallJPEG(t *testing.T) {
	res, err := Process(bytes.NewReader(testJPEG(100, 80)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if w, h := decodeSize(t, res.Photo); w != 100 || h != 80 {
		t.Errorf("photo should keep size, got %dx%d", w, h)
	}
	if w, h := decodeSize(t, res.Thumbnail); w != 100 || h != 80 {
		t.Errorf("thumbnail of a small image should keep size, got %dx%d", w, h)
	}
}

func TestProcessDownscalesLandscape(t *testing.T) {
	res, err := Process(bytes.NewReader(testPNG(solid(2048, 1024, color.RGBA{0, 0, 255, 255}))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Width != 1024 || res.Height != 512 {
		t.Errorf("expected 1024x512, got %dx%d", res.Width, res.Height)
	}
	if w, h := decodeSize(t, res.Photo); w != 1024 || h != 512 {
		t.Errorf("photo %dx%d", w, h)
	}
	if w, h := decodeSize(t, res.Thumbnail); w != 256 || h != 128 {
		t.Errorf("expected 256x128 thumbnail, got %dx%d", w, h)
	}
}

func TestProcessDownscalesPortrait(t *testing.T) {
	res, err := Process(bytes.NewReader(testJPEG(600, 1200)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if w, h := decodeSize(t, res.Photo); w != 512 || h != 1024 {
		t.Errorf("expected 512x1024, got %dx%d", w, h)
	}
	if w, h := decodeSize(t, res.Thumbnail); w != 128 || h != 256 {
		t.Errorf("expected 128x256 thumbnail, got %dx%d", w, h)
	}
}

func TestProcessFlattensTransparency(t *testing.T) {
	res, err := Process(bytes.NewReader(testPNG(solid(10, 10, color.RGBA{}))))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(res.Photo))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(5, 5).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected white background, got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestProcessRejectsOtherFormats(t *testing.T) {
	_, err := Process(strings.NewReader("GIF89a not really a gif"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestProcessRejectsOversizedUpload(t *testing.T) {
	data := make([]byte, MaxInputBytes+10)
	copy(data, testJPEG(10, 10))

	if _, err := Process(bytes.NewReader(data)); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestFitMinimumSize(t *testing.T) {
	out := fit(solid(5000, 1, color.Black), 100)
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 1 {
		t.Errorf("expected 100x1, got %dx%d", b.Dx(), b.Dy())
	}
}
