// Package decode turns a single image file on disk into a canvas-sized
// RGBA8888 frame list, insulating the rest of the pipeline from the
// differences between still PNGs, animated GIFs, and animated WebP files.
//
// This is the "black-box decoder" collaborator described for the sprite
// packer: callers only ever see (frames, canvasWidth, canvasHeight), never
// a format-specific type.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Frame is one decoded animation frame, already composited onto the full
// animation canvas (so GIF/WebP disposal and blending have already been
// resolved by the time the frame store sees it).
type Frame struct {
	Pixels   []byte // RGBA8888, row-major, stride = CanvasWidth*4, len == CanvasWidth*CanvasHeight*4.
	Duration int    // milliseconds.
}

// Animation is the decoder's complete answer for one input file.
type Animation struct {
	Frames       []Frame
	CanvasWidth  int
	CanvasHeight int
}

// Decode dispatches on the file extension (case-insensitive) and returns
// the decoded animation. Supported extensions: png, gif, webp.
func Decode(path string, data []byte) (Animation, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png":
		return decodePNG(data)
	case "gif":
		return decodeGIF(data)
	case "webp":
		return decodeWebP(data)
	default:
		return Animation{}, fmt.Errorf("decode: unsupported extension %q", ext)
	}
}

// normalizeTransparent forces every fully-transparent pixel's RGB channels
// to zero, matching the frame store's background-normalization rule so
// that decoders don't need to know about it and byte-equality comparisons
// downstream are stable regardless of what garbage color a format left
// behind an alpha=0 pixel.
func normalizeTransparent(pix []byte) {
	for i := 0; i+4 <= len(pix); i += 4 {
		if pix[i+3] == 0 {
			pix[i+0] = 0
			pix[i+1] = 0
			pix[i+2] = 0
		}
	}
}
