package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodeTestPNG(t *testing.T, w, h int, fill color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecodePNGSynthesizesSingleFrame(t *testing.T) {
	data := encodeTestPNG(t, 32, 32, color.NRGBA{R: 255, A: 255})

	anim, err := Decode("sprite.png", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if anim.CanvasWidth != 32 || anim.CanvasHeight != 32 {
		t.Fatalf("canvas = %dx%d, want 32x32", anim.CanvasWidth, anim.CanvasHeight)
	}
	if len(anim.Frames) != 1 || anim.Frames[0].Duration != 1 {
		t.Fatalf("frames = %+v, want one frame of duration 1", anim.Frames)
	}
	if anim.Frames[0].Pixels[0] != 255 {
		t.Fatal("decoded pixel does not match the opaque red fixture")
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	if _, err := Decode("sprite.bmp", nil); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
}

func TestNormalizeTransparentZeroesRGB(t *testing.T) {
	pix := []byte{10, 20, 30, 0, 40, 50, 60, 255}
	normalizeTransparent(pix)
	if pix[0] != 0 || pix[1] != 0 || pix[2] != 0 {
		t.Fatalf("transparent pixel RGB not zeroed: %v", pix[:4])
	}
	if pix[4] != 40 || pix[5] != 50 || pix[6] != 60 {
		t.Fatalf("opaque pixel RGB incorrectly modified: %v", pix[4:8])
	}
}

func TestWalkFiltersByFormatAndIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}

	entries, err := Walk(dir, map[string]bool{"png": true}, nil, false)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].RelPath != "a.png" || entries[1].RelPath != "b.png" {
		t.Fatalf("entries not sorted lexicographically: %+v", entries)
	}
}
