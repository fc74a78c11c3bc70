package pack

import "github.com/z64me/EzSpriteSheet/sheet"

// maxRectsBin implements the MaxRects bin-packing heuristic: free space is
// tracked as a (possibly overlapping) list of maximal free rectangles.
// Placement uses best-short-side-fit: among all free rectangles that can
// hold the requested size (in either orientation when rotation is
// allowed), the one minimizing the shorter of the two leftover margins
// wins. After placement, every free rectangle intersecting the new
// rectangle is split into the largest remaining axis-aligned pieces, and
// any free rectangle fully contained in another is pruned.
type maxRectsBin struct {
	free []sheet.Rect
}

func newMaxRectsBin(w, h int) *maxRectsBin {
	return &maxRectsBin{free: []sheet.Rect{{W: w, H: h}}}
}

func (b *maxRectsBin) insert(w, h int, allowRotate bool) (x, y, pw, ph int, rotated, ok bool) {
	bestIdx := -1
	bestShortSide := -1
	bestRotated := false
	bestW, bestH := w, h

	consider := func(i int, r sheet.Rect, cw, ch int, rot bool) {
		if r.W < cw || r.H < ch {
			return
		}
		leftoverW := r.W - cw
		leftoverH := r.H - ch
		shortSide := leftoverW
		if leftoverH < shortSide {
			shortSide = leftoverH
		}
		if bestIdx < 0 || shortSide < bestShortSide {
			bestIdx, bestShortSide, bestRotated, bestW, bestH = i, shortSide, rot, cw, ch
		}
	}

	for i, r := range b.free {
		consider(i, r, w, h, false)
		if allowRotate {
			consider(i, r, h, w, true)
		}
	}
	if bestIdx < 0 {
		return 0, 0, 0, 0, false, false
	}

	placed := sheet.Rect{X: b.free[bestIdx].X, Y: b.free[bestIdx].Y, W: bestW, H: bestH}
	b.placeRect(placed)

	return placed.X, placed.Y, bestW, bestH, bestRotated, true
}

func (b *maxRectsBin) placeRect(placed sheet.Rect) {
	var next []sheet.Rect
	for _, r := range b.free {
		if !overlaps(r, placed) {
			next = append(next, r)
			continue
		}
		next = append(next, splitFreeRect(r, placed)...)
	}
	b.free = pruneContained(next)
}

func overlaps(a, b sheet.Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// splitFreeRect returns the up-to-four maximal axis-aligned leftover
// pieces of free rectangle r after the placed rectangle is carved out of
// it.
func splitFreeRect(r, placed sheet.Rect) []sheet.Rect {
	var out []sheet.Rect
	if placed.X > r.X && placed.X < r.X+r.W {
		out = append(out, sheet.Rect{X: r.X, Y: r.Y, W: placed.X - r.X, H: r.H})
	}
	if placed.X+placed.W < r.X+r.W {
		out = append(out, sheet.Rect{X: placed.X + placed.W, Y: r.Y, W: r.X + r.W - (placed.X + placed.W), H: r.H})
	}
	if placed.Y > r.Y && placed.Y < r.Y+r.H {
		out = append(out, sheet.Rect{X: r.X, Y: r.Y, W: r.W, H: placed.Y - r.Y})
	}
	if placed.Y+placed.H < r.Y+r.H {
		out = append(out, sheet.Rect{X: r.X, Y: placed.Y + placed.H, W: r.W, H: r.Y + r.H - (placed.Y + placed.H)})
	}
	return out
}

func pruneContained(rects []sheet.Rect) []sheet.Rect {
	var out []sheet.Rect
	for i, r := range rects {
		if r.Empty() {
			continue
		}
		contained := false
		for j, s := range rects {
			if i == j || s.Empty() {
				continue
			}
			if r == s && i > j {
				contained = true // drop exact duplicates, keep the first
				break
			}
			if isContainedIn(r, s) && r != s {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, r)
		}
	}
	return out
}

func isContainedIn(a, b sheet.Rect) bool {
	return a.X >= b.X && a.Y >= b.Y && a.X+a.W <= b.X+b.W && a.Y+a.H <= b.Y+b.H
}
