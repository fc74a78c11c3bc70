package sheet

import "fmt"

// FindCrop computes the crop rectangle of every frame in every animation
// in the list whose foundCrop memo is unset, and marks the memo once done.
// A re-run only processes animations missing the flag, so repeated calls
// after an unrelated setting change are cheap.
func FindCrop(list *List) {
	for _, a := range list.Animations {
		if a.foundCrop {
			continue
		}
		for _, f := range a.Frames {
			findFrameCrop(f)
		}
		a.foundCrop = true
	}
}

func findFrameCrop(f *Frame) {
	a := f.anim
	w, h := a.CanvasWidth, a.CanvasHeight
	pix := a.Pixels[f.index]

	upper, lower := -1, -1
	for y := 0; y < h; y++ {
		if rowHasPixel(pix, w, y) {
			upper = y
			break
		}
	}
	if upper < 0 {
		f.isBlank = true
		f.crop = Rect{}
		return
	}
	for y := h - 1; y >= upper; y-- {
		if rowHasPixel(pix, w, y) {
			lower = y
			break
		}
	}

	left, right := w, 0
	for y := upper; y <= lower; y++ {
		rowOff := y * w * 4
		for x := 0; x < w; x++ {
			off := rowOff + x*4
			if pix[off] != 0 || pix[off+1] != 0 || pix[off+2] != 0 || pix[off+3] != 0 {
				if x < left {
					left = x
				}
				if x+1 > right {
					right = x + 1
				}
			}
		}
	}

	f.crop = Rect{X: left, Y: upper, W: right - left, H: lower + 1 - upper}
	f.cropValid = true
}

func rowHasPixel(pix []byte, w, y int) bool {
	rowOff := y * w * 4
	row := pix[rowOff : rowOff+w*4]
	for _, b := range row {
		if b != 0 {
			return true
		}
	}
	return false
}

// PivotWarning describes a multi-match pivot conflict: the animation and
// frame index where a second pivot-colored pixel was found.
type PivotWarning struct {
	Animation string
	Frame     int
}

func (w PivotWarning) Error() string {
	return fmt.Sprintf("animation %q frame %d: multiple pivot pixels found", w.Animation, w.Frame)
}

// FindPivots extracts the pivot point of every multi-frame animation in
// the list from its last frame's sentinel pixel, propagating it backward
// to preceding frames. pivotRGB is a 24-bit color; when it is zero, pivots
// are unconditionally cleared instead.
//
// On a multi-match conflict within one animation, that animation's pivots
// are cleared and a PivotWarning is recorded, but the pass continues for
// the remaining animations.
func FindPivots(list *List, pivotRGB uint32) []PivotWarning {
	var warnings []PivotWarning
	for _, a := range list.Animations {
		clearPivots(a)
		if pivotRGB == 0 || len(a.Frames) < 2 {
			continue
		}
		if w, ok := findAnimationPivot(a, pivotRGB); ok {
			warnings = append(warnings, w)
			clearPivots(a)
		}
	}
	return warnings
}

func clearPivots(a *Animation) {
	for _, f := range a.Frames {
		f.pivot = unsetPoint
		f.isPivotSet = false
		f.isPivotFrame = false
	}
}

func findAnimationPivot(a *Animation, pivotRGB uint32) (PivotWarning, bool) {
	last := a.Frames[len(a.Frames)-1]
	if !last.cropValid {
		findFrameCrop(last)
	}
	crop := last.crop
	pix := a.Pixels[last.index]
	w := a.CanvasWidth

	want := [3]byte{byte(pivotRGB >> 16), byte(pivotRGB >> 8), byte(pivotRGB)}
	found := false
	var px, py int

	for y := crop.Y; y < crop.Y+crop.H; y++ {
		rowOff := y * w * 4
		for x := crop.X; x < crop.X+crop.W; x++ {
			off := rowOff + x*4
			if pix[off] == want[0] && pix[off+1] == want[1] && pix[off+2] == want[2] && pix[off+3] == 0xFF {
				if found {
					return PivotWarning{Animation: a.Name, Frame: last.index}, true
				}
				found = true
				px, py = x, y
			}
		}
	}
	if !found {
		return PivotWarning{}, false
	}

	last.pivot = Point{X: px, Y: py}
	last.isPivotSet = true
	last.isPivotFrame = true

	for i := len(a.Frames) - 2; i >= 0; i-- {
		f := a.Frames[i]
		if f.isPivotSet {
			break
		}
		f.pivot = last.pivot
		f.isPivotSet = true
	}
	return PivotWarning{}, false
}

// FindDuplicates marks every frame in the list whose cropped pixel region
// is bitwise identical to an earlier frame's, skipping frames that are
// blank, pivot sentinels, or already marked duplicate. The search order is
// the animation list in order, frames within an animation in index order,
// and it is stable: a frame always links to the first matching frame
// found in that order, never a later one. No hashing is used; this is an
// O(N^2 * w * h) exact-equality scan, acceptable at sprite-sheet scale.
func FindDuplicates(list *List) {
	var all []*Frame
	for _, a := range list.Animations {
		all = append(all, a.Frames...)
	}

	for i, f := range all {
		if f.isBlank || f.isPivotFrame || f.isDuplicateOf != nil {
			continue
		}
		if !f.cropValid {
			findFrameCrop(f)
		}
		for j := 0; j < i; j++ {
			g := all[j]
			if g.isBlank || g.isPivotFrame {
				continue
			}
			if !g.cropValid {
				findFrameCrop(g)
			}
			if regionsEqual(f, g) {
				f.isDuplicateOf = g
				break
			}
		}
	}
}

func regionsEqual(f, g *Frame) bool {
	if f.crop.W != g.crop.W || f.crop.H != g.crop.H {
		return false
	}
	fw := f.anim.CanvasWidth * 4
	gw := g.anim.CanvasWidth * 4
	fp := f.anim.Pixels[f.index]
	gp := g.anim.Pixels[g.index]
	rowBytes := f.crop.W * 4
	for y := 0; y < f.crop.H; y++ {
		fOff := (f.crop.Y+y)*fw + f.crop.X*4
		gOff := (g.crop.Y+y)*gw + g.crop.X*4
		fRow := fp[fOff : fOff+rowBytes]
		gRow := gp[gOff : gOff+rowBytes]
		for k := range fRow {
			if fRow[k] != gRow[k] {
				return false
			}
		}
	}
	return true
}
