package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
)

// decodePNG synthesizes a single-frame, duration-1ms animation from a
// still PNG, per the decoder contract's "still images synthesize a single
// frame" rule.
func decodePNG(data []byte) (Animation, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return Animation{}, fmt.Errorf("decode: png: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	normalizeTransparent(rgba.Pix)
	return Animation{
		Frames:       []Frame{{Pixels: rgba.Pix, Duration: 1}},
		CanvasWidth:  b.Dx(),
		CanvasHeight: b.Dy(),
	}, nil
}
