package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/webp"

	"github.com/z64me/EzSpriteSheet/internal/riff"
)

// decodeWebP splits the container into per-frame bitstreams with
// internal/riff, decodes each one's pixels through the ecosystem decoder,
// and reconstructs the animation canvas by replaying each ANMF frame's
// dispose/blend instructions against a persistent canvas buffer — the same
// job the teacher's AnimDecoder does, adapted to feed this package's Frame
// contract instead of an *image.NRGBA + time.Duration pair.
func decodeWebP(data []byte) (Animation, error) {
	p, err := riff.Parse(data)
	if err != nil {
		return Animation{}, fmt.Errorf("decode: webp: %w", err)
	}

	canvasW, canvasH := p.Features.Width, p.Features.Height
	if len(p.Frames) == 1 && !p.Features.HasAnimation {
		canvasW, canvasH = p.Frames[0].Width, p.Frames[0].Height
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	anim := Animation{CanvasWidth: canvasW, CanvasHeight: canvasH}

	for _, fr := range p.Frames {
		img, err := webp.Decode(bytes.NewReader(riff.WrapSimple(fr.Payload, fr.IsLossless)))
		if err != nil {
			return Animation{}, fmt.Errorf("decode: webp: frame: %w", err)
		}

		dst := image.Rect(fr.OffsetX, fr.OffsetY, fr.OffsetX+fr.Width, fr.OffsetY+fr.Height)
		op := draw.Over
		if fr.Blend == riff.BlendNone {
			op = draw.Src
		}
		draw.Draw(canvas, dst, img, image.Point{}, op)

		rgba := image.NewRGBA(canvas.Bounds())
		draw.Draw(rgba, rgba.Bounds(), canvas, image.Point{}, draw.Src)
		normalizeTransparent(rgba.Pix)

		duration := fr.Duration
		if duration == 0 {
			duration = 1
		}
		anim.Frames = append(anim.Frames, Frame{Pixels: rgba.Pix, Duration: duration})

		if fr.Dispose == riff.DisposeBackground {
			clearNRGBARect(canvas, dst)
		}
	}

	return anim, nil
}

func clearNRGBARect(canvas *image.NRGBA, r image.Rectangle) {
	r = r.Intersect(canvas.Bounds())
	if r.Empty() {
		return
	}
	w := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := canvas.PixOffset(r.Min.X, y)
		for i := off; i < off+w; i++ {
			canvas.Pix[i] = 0
		}
	}
}
