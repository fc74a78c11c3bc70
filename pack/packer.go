// Package pack drives the Guillotine and MaxRects bin-packing strategies
// over a sorted rectangle list, producing a sequence of fixed-size pages.
package pack

import "github.com/z64me/EzSpriteSheet/sheet"

// Method selects which bin-packing heuristic a Packer uses.
type Method int

const (
	Guillotine Method = iota
	MaxRects
)

type bin interface {
	insert(w, h int, allowRotate bool) (x, y, pw, ph int, rotated, ok bool)
}

func newBin(m Method, w, h int) bin {
	if m == MaxRects {
		return newMaxRectsBin(w, h)
	}
	return newGuillotineBin(w, h)
}

// Page is one output page: a chain of placed rectangles in reverse
// insertion order, matching the original's prepend-built nextInPage
// chain. Composition and export only ever walk the chain as given; the
// chain order is otherwise unobserved (see the page-order open question).
type Page struct {
	Head *sheet.InputRectangle
}

// Pages is the packer's complete output: one Page per page index plus the
// page dimensions used to produce them.
type Pages struct {
	Pages        []*Page
	PageW, PageH int
}

// BiggestPageSize returns the number of rectangles on the page with the
// most rectangles, and that page's index. Supplements the original's
// EzSpriteSheetRectList_get_biggest_page for callers that want to report
// atlas usage before composing.
func (p *Pages) BiggestPageSize() (index, count int) {
	best := -1
	for i, pg := range p.Pages {
		n := 0
		for r := pg.Head; r != nil; r = r.NextInPage {
			n++
		}
		if n > best {
			best, index, count = n, i, n
		}
	}
	return index, count
}

// Options configures one packing run.
type Options struct {
	Method        Method
	PageW, PageH  int
	Rotate        bool
	Exhaustive    bool
	Progress      func(fraction float64)
}

// Run packs every rectangle in rects, sorted by the caller beforehand
// (sheet.Build already sorts in descending size order), into the fewest
// pages the chosen method's heuristic can manage.
//
// Page loop: attempt to place the next unpacked rectangle on the current
// page. On failure, with exhaustive off, close the page and retry the
// same rectangle on a fresh one. With exhaustive on, first sweep every
// other unpacked rectangle against the current page's remaining free
// space — anything that fits is placed — before closing it and retrying
// the rectangle that triggered the sweep. This models the original's
// `goto retry` packer loop as an explicit state machine with three
// states instead of a jump target.
func Run(rects []*sheet.InputRectangle, opts Options) *Pages {
	const (
		statePacking = iota
		stateSweeping
		stateOpeningPage
	)

	pages := &Pages{PageW: opts.PageW, PageH: opts.PageH}
	total := len(rects)
	packed := 0

	report := func() {
		if opts.Progress != nil && total > 0 {
			opts.Progress(float64(packed) / float64(total))
		}
	}

	if total == 0 {
		if opts.Progress != nil {
			opts.Progress(2)
		}
		return pages
	}

	curBin := newBin(opts.Method, opts.PageW, opts.PageH)
	curPage := &Page{}
	pages.Pages = append(pages.Pages, curPage)

	state := statePacking
	i := 0

	for packed < total {
		switch state {
		case statePacking:
			if i >= len(rects) {
				state = stateOpeningPage
				continue
			}
			r := rects[i]
			if r.Packed {
				i++
				continue
			}
			x, y, w, h, rotated, ok := curBin.insert(r.W, r.H, opts.Rotate)
			if !ok {
				if opts.Exhaustive {
					state = stateSweeping
					continue
				}
				state = stateOpeningPage
				continue
			}
			place(r, pages, curPage, x, y, w, h, rotated)
			packed++
			report()
			i++

		case stateSweeping:
			sweptAny := false
			for j := i + 1; j < len(rects); j++ {
				r := rects[j]
				if r.Packed {
					continue
				}
				x, y, w, h, rotated, ok := curBin.insert(r.W, r.H, opts.Rotate)
				if !ok {
					continue
				}
				place(r, pages, curPage, x, y, w, h, rotated)
				packed++
				report()
				sweptAny = true
			}
			_ = sweptAny
			state = stateOpeningPage

		case stateOpeningPage:
			curBin = newBin(opts.Method, opts.PageW, opts.PageH)
			curPage = &Page{}
			pages.Pages = append(pages.Pages, curPage)
			i = indexOfFirstUnpacked(rects)
			state = statePacking
		}
	}

	if opts.Progress != nil {
		opts.Progress(2)
	}
	return pages
}

func indexOfFirstUnpacked(rects []*sheet.InputRectangle) int {
	for i, r := range rects {
		if !r.Packed {
			return i
		}
	}
	return len(rects)
}

func place(r *sheet.InputRectangle, pages *Pages, page *Page, x, y, w, h int, rotated bool) {
	r.Packed = true
	r.Page = len(pages.Pages) - 1
	r.X, r.Y = x, y
	r.W, r.H = w, h
	r.Rotated = rotated
	r.NextInPage = page.Head
	page.Head = r
}
