// Package sheet owns the decoded frame store and the analysis passes that
// derive crop rectangles, pivots, and cross-animation duplicates from it,
// plus the rectangle model the packer consumes.
//
// Pixel ownership follows the teacher's animation.Animation/Frame split:
// an Animation owns the pixel buffers of all its Frames, and a Frame is
// only ever a window (crop rect) plus metadata into its Animation's
// canvas-sized buffer.
package sheet

// Rect is an axis-aligned, half-open-on-the-right-and-bottom integer
// rectangle: it covers pixel columns [X, X+W) and rows [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle covers zero pixels.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Point is an integer canvas coordinate.
type Point struct {
	X, Y int
}

// unsetPoint marks a pivot that has not been found yet.
var unsetPoint = Point{X: -1, Y: -1}

// Frame is one animation frame: a window into its Animation's pixel
// buffer plus the metadata the analyzer derives from it.
type Frame struct {
	Duration int // milliseconds

	crop        Rect
	cropValid   bool
	isBlank     bool
	pivot       Point
	isPivotSet  bool
	isPivotFrame bool

	// isDuplicateOf points at another Frame whose cropped pixel region is
	// bitwise identical to this one's. Chains are resolved transitively
	// by ResolveDuplicate.
	isDuplicateOf *Frame

	// rect is the driver's temporary slot carrying this frame's post-pack
	// Input Rectangle during export, mirroring the Frame.udata slot.
	rect interface{}

	anim  *Animation
	index int // index within anim.Frames
}

// Crop returns the frame's crop rectangle. Valid only after the analyzer's
// crop pass has run for this frame's animation.
func (f *Frame) Crop() Rect { return f.crop }

// IsBlank reports whether the frame has no nonzero pixels.
func (f *Frame) IsBlank() bool { return f.isBlank }

// IsPivotFrame reports whether this frame was consumed as the pivot
// sentinel and should be excluded from packing and export.
func (f *Frame) IsPivotFrame() bool { return f.isPivotFrame }

// Pivot returns the frame's pivot point and whether one is set.
func (f *Frame) Pivot() (Point, bool) { return f.pivot, f.isPivotSet }

// Animation returns the owning animation.
func (f *Frame) Animation() *Animation { return f.anim }

// Index returns the frame's position within its animation.
func (f *Frame) Index() int { return f.index }

// SetUserData stashes the driver's opaque back-reference (the frame's
// post-pack Input Rectangle) on the frame, mirroring the original's
// Frame.udata slot.
func (f *Frame) SetUserData(v interface{}) { f.rect = v }

// UserData retrieves the value stashed by SetUserData.
func (f *Frame) UserData() interface{} { return f.rect }

// ResolveDuplicate chases the isDuplicateOf chain to its canonical,
// non-duplicate frame. A frame with no duplicate link resolves to itself.
func (f *Frame) ResolveDuplicate() *Frame {
	seen := f
	for seen.isDuplicateOf != nil {
		seen = seen.isDuplicateOf
	}
	return seen
}

// IsDuplicate reports whether the frame was marked as a duplicate of
// another frame.
func (f *Frame) IsDuplicate() bool { return f.isDuplicateOf != nil }

// pixelAt returns the RGBA8888 bytes at canvas coordinate (x, y).
func (f *Frame) pixelAt(x, y int) []byte {
	stride := f.anim.CanvasWidth * 4
	off := y*stride + x*4
	return f.anim.Pixels[f.index][off : off+4]
}

// Animation is an ordered sequence of Frames sharing a canvas size.
type Animation struct {
	Name         string
	CanvasWidth  int
	CanvasHeight int

	Frames []*Frame
	// Pixels holds one RGBA8888 buffer per frame, row-major, stride =
	// CanvasWidth*4. Frame.pixelAt indexes into the entry matching its
	// own index.
	Pixels [][]byte

	foundCrop bool
}

// NewAnimation builds an Animation from decoded frame pixel buffers,
// applying the permanent background-normalization rule: every
// fully-transparent pixel has its RGB channels forced to zero so that
// later byte-equality comparisons are stable regardless of what a decoder
// left behind an alpha=0 pixel.
//
// durations[i] is frame i's duration in milliseconds.
func NewAnimation(name string, canvasW, canvasH int, pixels [][]byte, durations []int) *Animation {
	a := &Animation{Name: name, CanvasWidth: canvasW, CanvasHeight: canvasH}
	a.Pixels = make([][]byte, len(pixels))
	a.Frames = make([]*Frame, len(pixels))
	for i, pix := range pixels {
		normalizeTransparent(pix)
		a.Pixels[i] = pix
		a.Frames[i] = &Frame{
			Duration: durations[i],
			pivot:    unsetPoint,
			anim:     a,
			index:    i,
		}
	}
	return a
}

func normalizeTransparent(pix []byte) {
	for i := 0; i+4 <= len(pix); i += 4 {
		if pix[i+3] == 0 {
			pix[i+0] = 0
			pix[i+1] = 0
			pix[i+2] = 0
		}
	}
}

// List is a set of Animations with stable iteration order, the unit of
// operation for analyzer passes.
type List struct {
	Animations []*Animation
}

// Append adds an animation to the list, preserving insertion order.
func (l *List) Append(a *Animation) { l.Animations = append(l.Animations, a) }

// Unlink removes the animation at index i from the list. The original's
// doubly-linked list with prev-pointers is unnecessary here: a plain
// index-based slice removal has the same observable behavior.
func (l *List) Unlink(i int) {
	l.Animations = append(l.Animations[:i], l.Animations[i+1:]...)
}
