package sheet

import "fmt"

// SortKey selects which dimension the rectangle list is sorted by before
// packing.
type SortKey int

const (
	SortByArea SortKey = iota
	SortByHeight
	SortByWidth
)

// InputRectangle is one Frame admitted to packing: its padded dimensions,
// a back-reference to the Frame it came from, and the pack result fields
// the packer fills in.
type InputRectangle struct {
	Frame *Frame
	W, H  int // padded dimensions; after packing, as placed (swapped when Rotated)

	// Pack result, invalid until Packed is true.
	Packed   bool
	Page     int
	X, Y     int
	Rotated  bool

	// NextInPage chains rectangles within one page, built by prepending
	// during packing so iteration order is reverse insertion order.
	NextInPage *InputRectangle
}

// Area returns the padded area, used for the default sort key.
func (r *InputRectangle) Area() int { return r.W * r.H }

// ErrFrameTooBig is returned by Build when a frame's padded dimensions
// exceed the page.
type ErrFrameTooBig struct {
	Animation string
	Frame     int
	W, H      int
	PageW, PageH int
}

func (e ErrFrameTooBig) Error() string {
	return fmt.Sprintf("frame too big: animation %q frame %d is %dx%d, page is %dx%d",
		e.Animation, e.Frame, e.W, e.H, e.PageW, e.PageH)
}

// BuildOptions configures rectangle-list construction from an animation
// list, implementing the admission table: blank frames, pivot-sentinel
// frames (when a pivot color is active), and duplicates (when dedupe is
// enabled) are never admitted; everything else is, unless its padded size
// exceeds the page as given, which aborts Build with an ErrFrameTooBig
// regardless of whether rotation is enabled for packing.
type BuildOptions struct {
	Trim         bool
	Pad          int
	PageW, PageH int
	Rotate       bool
	Dedupe       bool
	PivotActive  bool
	SortBy       SortKey
}

// Build constructs the admitted rectangle list from every animation's
// frames, then sorts it in descending order by opts.SortBy using a stable
// comparison so identical inputs yield identical atlases across runs.
func Build(list *List, opts BuildOptions) ([]*InputRectangle, error) {
	var rects []*InputRectangle

	for _, a := range list.Animations {
		for _, f := range a.Frames {
			if f.isBlank {
				continue
			}
			if f.isPivotFrame && opts.PivotActive {
				continue
			}
			if opts.Dedupe && f.isDuplicateOf != nil {
				continue
			}

			var w, h int
			if opts.Trim {
				w, h = f.crop.W+2*opts.Pad, f.crop.H+2*opts.Pad
			} else {
				w, h = a.CanvasWidth+2*opts.Pad, a.CanvasHeight+2*opts.Pad
			}

			fits := w <= opts.PageW && h <= opts.PageH
			if !fits {
				return nil, ErrFrameTooBig{
					Animation: a.Name, Frame: f.index,
					W: w, H: h, PageW: opts.PageW, PageH: opts.PageH,
				}
			}

			rects = append(rects, &InputRectangle{Frame: f, W: w, H: h})
		}
	}

	stableSortDescending(rects, opts.SortBy)
	return rects, nil
}

// stableSortDescending performs a stable bubble sort matching the
// reference implementation's comparator; any stable/total order satisfies
// the spec, and bubble sort makes the "stable" property trivially visible
// rather than relying on the standard library's unspecified algorithm.
func stableSortDescending(rects []*InputRectangle, key SortKey) {
	less := func(a, b *InputRectangle) bool {
		switch key {
		case SortByHeight:
			return a.H < b.H
		case SortByWidth:
			return a.W < b.W
		default:
			return a.Area() < b.Area()
		}
	}
	n := len(rects)
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if less(rects[j], rects[j+1]) {
				rects[j], rects[j+1] = rects[j+1], rects[j]
				swapped = true
			}
		}
		if !swapped {
			break
		}
	}
}
