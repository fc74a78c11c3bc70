// Package compose renders a packed page into an RGBA8888 pixel buffer,
// honoring trim, padding, and 90-degree rotation, grounded on the
// original's EzSpriteSheetRectList_page renderer.
package compose

import (
	"math/rand"

	"github.com/z64me/EzSpriteSheet/pack"
	"github.com/z64me/EzSpriteSheet/sheet"
)

// Result accompanies a composed page buffer with summary statistics.
type Result struct {
	Rects     int
	Occupancy float64
}

// Options configures one page's composition.
type Options struct {
	Trim bool
	Pad  int

	// DebugOverlay draws a translucent random-color rectangle over every
	// placed rectangle when true, for visual inspection of packing.
	DebugOverlay   bool
	OverlayOpacity uint8 // 0-255; the original's default is 96.
}

// Page zero-fills buf (which must be at least pageW*pageH*4 bytes) and
// composites every rectangle on the given page into it.
func Page(buf []byte, pageW, pageH int, p *pack.Page, opts Options) Result {
	for i := range buf {
		buf[i] = 0
	}

	var res Result
	rng := rand.New(rand.NewSource(1))

	for r := p.Head; r != nil; r = r.NextInPage {
		res.Rects++
		f := r.Frame

		var crop sheet.Rect
		if opts.Trim {
			crop = f.Crop()
		} else {
			crop = sheet.Rect{W: f.Animation().CanvasWidth, H: f.Animation().CanvasHeight}
		}

		dstX := r.X + opts.Pad
		dstY := r.Y + opts.Pad

		srcPix := f.Animation().Pixels[f.Index()]
		srcStride := f.Animation().CanvasWidth * 4

		if r.Rotated {
			blitRotated(buf, pageW, pageH, dstX, dstY, srcPix, srcStride, crop)
		} else {
			blit(buf, pageW, pageH, dstX, dstY, srcPix, srcStride, crop)
		}

		res.Occupancy += float64(crop.W * crop.H)

		if opts.DebugOverlay {
			overlay(buf, pageW, pageH, r.X, r.Y, r.W, r.H, opts.OverlayOpacity, rng)
		}
	}

	if pageW > 0 && pageH > 0 {
		res.Occupancy /= float64(pageW * pageH)
	}
	return res
}

func blit(dst []byte, dstW, dstH, dstX, dstY int, src []byte, srcStride int, crop sheet.Rect) {
	rowBytes := crop.W * 4
	for y := 0; y < crop.H; y++ {
		dy := dstY + y
		if dy < 0 || dy >= dstH {
			continue
		}
		srcOff := (crop.Y+y)*srcStride + crop.X*4
		dstOff := dy*dstW*4 + dstX*4
		copyClamped(dst, dstOff, src, srcOff, rowBytes, dstW*4-dstX*4)
	}
}

// blitRotated writes the source rotated 90 degrees counter-clockwise, so
// that destination row/col (dy, dx) reads from source row dx, source col
// (crop.W-1-dy) in the crop's local coordinates: the old right edge
// becomes the new top edge. The destination footprint is (crop.H,
// crop.W) pixels.
func blitRotated(dst []byte, dstW, dstH, dstX, dstY int, src []byte, srcStride int, crop sheet.Rect) {
	for y := 0; y < crop.W; y++ {
		dy := dstY + y
		if dy < 0 || dy >= dstH {
			continue
		}
		for x := 0; x < crop.H; x++ {
			dx := dstX + x
			if dx < 0 || dx >= dstW {
				continue
			}
			sx := crop.X + (crop.W - 1 - y)
			sy := crop.Y + x
			srcOff := sy*srcStride + sx*4
			dstOff := dy*dstW*4 + dx*4
			copy(dst[dstOff:dstOff+4], src[srcOff:srcOff+4])
		}
	}
}

func copyClamped(dst []byte, dstOff int, src []byte, srcOff, n, maxLen int) {
	if n > maxLen {
		n = maxLen
	}
	if n <= 0 {
		return
	}
	copy(dst[dstOff:dstOff+n], src[srcOff:srcOff+n])
}

// overlay alpha-blends a translucent random-color rectangle over the
// placed rectangle's full footprint, padding included, using standard
// source-over blending: out = (src*alpha + dst*(255-alpha)) / 255.
func overlay(dst []byte, dstW, dstH, x, y, w, h int, opacity uint8, rng *rand.Rand) {
	cr := byte(rng.Intn(256))
	cg := byte(rng.Intn(256))
	cb := byte(rng.Intn(256))
	for row := 0; row < h; row++ {
		dy := y + row
		if dy < 0 || dy >= dstH {
			continue
		}
		for col := 0; col < w; col++ {
			dx := x + col
			if dx < 0 || dx >= dstW {
				continue
			}
			off := dy*dstW*4 + dx*4
			dst[off+0] = blend(cr, dst[off+0], opacity)
			dst[off+1] = blend(cg, dst[off+1], opacity)
			dst[off+2] = blend(cb, dst[off+2], opacity)
			if dst[off+3] == 0 {
				dst[off+3] = opacity
			}
		}
	}
}

func blend(src, dst, alpha byte) byte {
	return byte((uint32(src)*uint32(alpha) + uint32(dst)*uint32(255-alpha)) / 255)
}
