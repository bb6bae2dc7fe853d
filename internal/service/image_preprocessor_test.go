package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"ine-ocr-server/internal/domain"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y += 7 {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected jpeg output: %v", err)
	}
	return img
}

func TestImagePreprocessor_DownscalesLargeImage(t *testing.T) {
	p := NewImagePreprocessor(0, 0, 0, NewMockLogger())
	raw := &domain.RawDocumentImage{Data: encodePNG(t, 4000, 3000), MIMEType: "image/png", Name: "ine.png"}

	out := p.Compress(raw)

	if !out.Compressed {
		t.Fatalf("expected image to be compressed")
	}
	if out.Width != 1200 || out.Height != 900 {
		t.Fatalf("expected 1200x900, got %dx%d", out.Width, out.Height)
	}
	if out.MIMEType != domain.MIMETypeJPEG {
		t.Fatalf("expected image/jpeg, got %s", out.MIMEType)
	}
	if out.Name != "ine.jpg" {
		t.Fatalf("expected ine.jpg, got %s", out.Name)
	}
	img := decodeJPEG(t, out.Data)
	if b := img.Bounds(); b.Dx() != 1200 || b.Dy() != 900 {
		t.Fatalf("decoded size %dx%d", b.Dx(), b.Dy())
	}
}

func TestImagePreprocessor_PortraitImage(t *testing.T) {
	p := NewImagePreprocessor(1200, 70, 0, NewMockLogger())
	out := p.Compress(&domain.RawDocumentImage{Data: encodePNG(t, 1500, 3000), MIMEType: "image/png", Name: "ine"})

	if out.Width != 600 || out.Height != 1200 {
		t.Fatalf("expected 600x1200, got %dx%d", out.Width, out.Height)
	}
	if out.Name != "ine.jpg" {
		t.Fatalf("expected ine.jpg, got %s", out.Name)
	}
}

func TestImagePreprocessor_KeepsSmallImageDimensions(t *testing.T) {
	p := NewImagePreprocessor(1200, 70, 0, NewMockLogger())
	out := p.Compress(&domain.RawDocumentImage{Data: encodePNG(t, 800, 600), MIMEType: "image/png", Name: "small.png"})

	if !out.Compressed {
		t.Fatalf("expected small image to be re-encoded")
	}
	if out.Width != 800 || out.Height != 600 {
		t.Fatalf("expected 800x600, got %dx%d", out.Width, out.Height)
	}
	img := decodeJPEG(t, out.Data)
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("decoded size %dx%d", b.Dx(), b.Dy())
	}
}

func TestImagePreprocessor_FallsBackToOriginal(t *testing.T) {
	p := NewImagePreprocessor(1200, 70, 0, NewMockLogger())
	raw := &domain.RawDocumentImage{Data: []byte("definitely not an image"), MIMEType: "image/heic", Name: "photo.heic"}

	out := p.Compress(raw)

	if out.Compressed {
		t.Fatalf("expected fallback to original image")
	}
	if !bytes.Equal(out.Data, raw.Data) || out.MIMEType != raw.MIMEType || out.Name != raw.Name {
		t.Fatalf("expected original image to be returned unchanged, got %+v", out)
	}
}

func TestImagePreprocessor_EmptyInput(t *testing.T) {
	p := NewImagePreprocessor(1200, 70, 0, NewMockLogger())
	out := p.Compress(&domain.RawDocumentImage{Name: "empty.jpg", MIMEType: "image/jpeg"})
	if out.Compressed || len(out.Data) != 0 {
		t.Fatalf("expected empty image to pass through, got %+v", out)
	}

	out = p.Compress(nil)
	if out == nil || out.Compressed || len(out.Data) != 0 {
		t.Fatalf("expected empty result for nil image, got %+v", out)
	}
}

func TestScaleToFit(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{4000, 3000, 1200, 1200, 900},
		{3000, 4000, 1200, 900, 1200},
		{800, 600, 1200, 800, 600},
		{1200, 1200, 1200, 1200, 1200},
		{10000, 5, 1200, 1200, 1},
		{0, 0, 1200, 0, 0},
	}
	for _, tt := range tests {
		w, h := ScaleToFit(tt.w, tt.h, tt.max)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("ScaleToFit(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.max, w, h, tt.wantW, tt.wantH)
		}
	}
}
