package pack

import (
	"testing"

	"github.com/z64me/EzSpriteSheet/sheet"
)

func rect(w, h int) *sheet.InputRectangle {
	return &sheet.InputRectangle{W: w, H: h}
}

func TestRunExactPageSizeFitsOnePage(t *testing.T) {
	rects := []*sheet.InputRectangle{rect(64, 64)}
	pages := Run(rects, Options{Method: Guillotine, PageW: 64, PageH: 64})

	if len(pages.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages.Pages))
	}
	r := rects[0]
	if !r.Packed || r.X != 0 || r.Y != 0 {
		t.Fatalf("rect not packed at origin: %+v", r)
	}
}

func TestRunSplitsAcrossPagesWhenFull(t *testing.T) {
	rects := []*sheet.InputRectangle{rect(64, 64), rect(64, 64)}
	pages := Run(rects, Options{Method: Guillotine, PageW: 64, PageH: 64})

	if len(pages.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages.Pages))
	}
	if rects[0].Page == rects[1].Page {
		t.Fatal("two page-sized rectangles landed on the same page")
	}
}

func TestRunProgressReachesCompletionSentinel(t *testing.T) {
	rects := []*sheet.InputRectangle{rect(10, 10), rect(10, 10)}
	var last float64
	Run(rects, Options{Method: MaxRects, PageW: 64, PageH: 64, Progress: func(f float64) { last = f }})
	if last <= 1 {
		t.Fatalf("final progress callback = %v, want > 1 (completion sentinel)", last)
	}
}

func TestRunRotationPlacesBothRectanglesOnOnePage(t *testing.T) {
	rects := []*sheet.InputRectangle{rect(8, 60), rect(8, 4)}
	pages := Run(rects, Options{Method: MaxRects, PageW: 64, PageH: 64, Rotate: true})

	if len(pages.Pages) != 1 {
		t.Fatalf("got %d pages, want both rectangles to fit on one", len(pages.Pages))
	}
	for _, r := range rects {
		if !r.Packed {
			t.Fatalf("rectangle not packed: %+v", r)
		}
	}
}

func TestRunExhaustiveUsesFewerPagesThanNonExhaustive(t *testing.T) {
	// Non-exhaustive: page 0 holds the first 40x40, page 1 the second 40x40
	// plus one 24x40, and the last 24x40 needs page 2. Exhaustive slots the
	// first 24x40 beside the first 40x40, so two pages suffice.
	sizes := [][2]int{{40, 40}, {40, 40}, {24, 40}, {24, 40}}

	build := func() []*sheet.InputRectangle {
		rs := make([]*sheet.InputRectangle, len(sizes))
		for i, s := range sizes {
			rs[i] = rect(s[0], s[1])
		}
		return rs
	}

	nonExhaustive := Run(build(), Options{Method: Guillotine, PageW: 64, PageH: 64})
	exhaustive := Run(build(), Options{Method: Guillotine, PageW: 64, PageH: 64, Exhaustive: true})

	if len(exhaustive.Pages) >= len(nonExhaustive.Pages) {
		t.Fatalf("exhaustive packing used %d pages, not fewer than non-exhaustive (%d)",
			len(exhaustive.Pages), len(nonExhaustive.Pages))
	}
}

func TestGuillotineRejectsOversizedRectangle(t *testing.T) {
	b := newGuillotineBin(64, 64)
	_, _, _, _, _, ok := b.insert(65, 10, false)
	if ok {
		t.Fatal("guillotine bin accepted a rectangle wider than the page")
	}
}

func TestMaxRectsPlacesAtOrigin(t *testing.T) {
	b := newMaxRectsBin(64, 64)
	x, y, w, h, rotated, ok := b.insert(10, 20, false)
	if !ok || x != 0 || y != 0 || w != 10 || h != 20 || rotated {
		t.Fatalf("first placement = (%d,%d,%d,%d,%v,%v), want (0,0,10,20,false,true)", x, y, w, h, rotated, ok)
	}
}
