package decode

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"time"
)

// decodeGIF walks a GIF's frame list and composites each one onto a
// persistent canvas, honoring the disposal method of the *previous* frame
// before drawing the next, the same bookkeeping the teacher's encode path
// performs in reverse (save/restore/clear around DisposalPrevious and
// DisposalBackground).
func decodeGIF(data []byte) (Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return Animation{}, fmt.Errorf("decode: gif: %w", err)
	}
	if len(g.Image) == 0 {
		return Animation{}, fmt.Errorf("decode: gif: no frames")
	}

	canvasW, canvasH := g.Config.Width, g.Config.Height
	if canvasW == 0 || canvasH == 0 {
		b := g.Image[0].Bounds()
		canvasW, canvasH = b.Dx(), b.Dy()
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, canvasW, canvasH))
	anim := Animation{CanvasWidth: canvasW, CanvasHeight: canvasH}

	var saved []byte
	var savedRect image.Rectangle
	prevDisposal := byte(gif.DisposalNone)

	for i, frame := range g.Image {
		b := frame.Bounds()

		switch prevDisposal {
		case gif.DisposalBackground:
			clearCanvasRect(canvas, savedRect)
		case gif.DisposalPrevious:
			restoreCanvasRect(canvas, savedRect, saved)
		}

		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = saveCanvasRect(canvas, b)
			savedRect = b
		}

		draw.Draw(canvas, b, frame, b.Min, draw.Over)

		rgba := image.NewRGBA(canvas.Bounds())
		draw.Draw(rgba, rgba.Bounds(), canvas, image.Point{}, draw.Src)
		normalizeTransparent(rgba.Pix)

		delay := 100 * time.Millisecond
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}

		anim.Frames = append(anim.Frames, Frame{
			Pixels:   rgba.Pix,
			Duration: int(delay / time.Millisecond),
		})

		prevDisposal = disposal
		if disposal != gif.DisposalPrevious {
			savedRect = b
		}
	}

	return anim, nil
}

func saveCanvasRect(canvas *image.NRGBA, r image.Rectangle) []byte {
	r = r.Intersect(canvas.Bounds())
	if r.Empty() {
		return nil
	}
	w := r.Dx() * 4
	saved := make([]byte, r.Dy()*w)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		srcOff := canvas.PixOffset(r.Min.X, y)
		dstOff := (y - r.Min.Y) * w
		copy(saved[dstOff:dstOff+w], canvas.Pix[srcOff:srcOff+w])
	}
	return saved
}

func restoreCanvasRect(canvas *image.NRGBA, r image.Rectangle, saved []byte) {
	r = r.Intersect(canvas.Bounds())
	if r.Empty() || saved == nil {
		return
	}
	w := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dstOff := canvas.PixOffset(r.Min.X, y)
		srcOff := (y - r.Min.Y) * w
		copy(canvas.Pix[dstOff:dstOff+w], saved[srcOff:srcOff+w])
	}
}

func clearCanvasRect(canvas *image.NRGBA, r image.Rectangle) {
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
