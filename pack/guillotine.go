package pack

import "github.com/z64me/EzSpriteSheet/sheet"

// guillotineBin implements the Guillotine bin-packing heuristic: free
// space is tracked as a list of disjoint axis-aligned rectangles. Each
// placement uses best-area-fit (the smallest free rectangle that still
// accommodates the requested size) and then splits the remainder using
// the "split shorter leftover axis" policy: the split direction is chosen
// so that the shorter of the two leftover strips becomes its own free
// rectangle, keeping future placements less fragmented than a fixed
// horizontal/vertical split would.
//
// No packing library exists anywhere in the corpus this module was built
// from; the placement rules here follow the standard descriptions named
// by the classical RectangleBinPack literature, not any example source.
type guillotineBin struct {
	free []sheet.Rect
}

func newGuillotineBin(w, h int) *guillotineBin {
	return &guillotineBin{free: []sheet.Rect{{W: w, H: h}}}
}

// insert attempts to place a w×h rectangle, trying the rotated orientation
// too when allowRotate is set. Returns the placement and whether it
// rotated.
func (b *guillotineBin) insert(w, h int, allowRotate bool) (x, y, pw, ph int, rotated, ok bool) {
	bestIdx := -1
	bestArea := -1
	bestRotated := false
	bestW, bestH := w, h

	for i, r := range b.free {
		if r.W >= w && r.H >= h {
			area := r.W * r.H
			if bestIdx < 0 || area < bestArea {
				bestIdx, bestArea, bestRotated, bestW, bestH = i, area, false, w, h
			}
		}
		if allowRotate && r.W >= h && r.H >= w {
			area := r.W * r.H
			if bestIdx < 0 || area < bestArea {
				bestIdx, bestArea, bestRotated, bestW, bestH = i, area, true, h, w
			}
		}
	}
	if bestIdx < 0 {
		return 0, 0, 0, 0, false, false
	}

	chosen := b.free[bestIdx]
	b.free = append(b.free[:bestIdx], b.free[bestIdx+1:]...)
	b.split(chosen, bestW, bestH)

	return chosen.X, chosen.Y, bestW, bestH, bestRotated, true
}

// split divides the leftover L-shaped space around a placed w×h rectangle
// into two new free rectangles, choosing the axis so the shorter leftover
// strip is carved off first (split-shorter-leftover-axis).
func (b *guillotineBin) split(free sheet.Rect, w, h int) {
	rightW := free.W - w
	bottomH := free.H - h
	if rightW <= 0 && bottomH <= 0 {
		return
	}

	splitHorizontally := rightW < bottomH // shorter leftover axis becomes the full-width strip

	if splitHorizontally {
		if bottomH > 0 {
			b.free = append(b.free, sheet.Rect{X: free.X, Y: free.Y + h, W: free.W, H: bottomH})
		}
		if rightW > 0 {
			b.free = append(b.free, sheet.Rect{X: free.X + w, Y: free.Y, W: rightW, H: h})
		}
	} else {
		if rightW > 0 {
			b.free = append(b.free, sheet.Rect{X: free.X + w, Y: free.Y, W: rightW, H: free.H})
		}
		if bottomH > 0 {
			b.free = append(b.free, sheet.Rect{X: free.X, Y: free.Y + h, W: w, H: bottomH})
		}
	}
}
