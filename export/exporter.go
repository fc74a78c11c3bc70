// Package export drives the capsule/sheet/animation/frame event stream
// described for the bank serializer interface and provides XML, JSON, and
// C99-header backends for it.
package export

import "io"

// SheetInfo describes one exported atlas page.
type SheetInfo struct {
	Index    int
	Width    int
	Height   int
	Filename string // sibling PNG, named "<basename>-<index>.png"
}

// FrameRecord is one emitted frame's bank entry. (x,y,w,h) is the source
// rectangle within the sheet; (ox,oy) is the pivot expressed as an offset
// from the rectangle's upper-left, biased by pad on both axes; ms is the
// frame duration; Rot true means the source is stored rotated 90 degrees
// counter-clockwise on the sheet, so a consumer must rotate it 90 degrees
// clockwise to restore the original orientation.
type FrameRecord struct {
	Sheet    int
	X, Y     int
	W, H     int
	OX, OY   int
	MS       int
	Rot      bool
}

// Exporter registers begin/end callback pairs for each of the four event
// kinds. Every callback receives isFirst/isLast so that implementations
// can emit array/object brackets and separating commas without buffering
// the whole output.
type Exporter interface {
	CapsuleBegin(w io.Writer, totalSheets, totalAnimations int)
	CapsuleEnd(w io.Writer)

	SheetBegin(w io.Writer, s SheetInfo, isFirst, isLast bool)
	SheetEnd(w io.Writer, s SheetInfo, isFirst, isLast bool)

	AnimationBegin(w io.Writer, name string, isFirst, isLast bool)
	AnimationEnd(w io.Writer, name string, isFirst, isLast bool)

	FrameBegin(w io.Writer, f FrameRecord, isFirst, isLast bool)
	FrameEnd(w io.Writer, f FrameRecord, isFirst, isLast bool)
}

// AnimationInput is one animation's name plus the frame records to emit
// for it, in export order. An animation with zero frame records (in the
// driver, one whose every frame is a pivot sentinel) still appears in the
// output: Drive substitutes a single synthetic blank frame record (ms=1,
// all other fields zero) so the bank never contains an empty frame list.
type AnimationInput struct {
	Name   string
	Frames []FrameRecord
}

// Drive runs the exporter in the strict order the bank format requires:
// all sheets, then all animations with their frames, each wrapped in
// capsule begin/end.
func Drive(w io.Writer, e Exporter, sheets []SheetInfo, animations []AnimationInput) {
	e.CapsuleBegin(w, len(sheets), len(animations))

	for i, s := range sheets {
		first, last := i == 0, i == len(sheets)-1
		e.SheetBegin(w, s, first, last)
		e.SheetEnd(w, s, first, last)
	}

	for i, a := range animations {
		first, last := i == 0, i == len(animations)-1
		e.AnimationBegin(w, a.Name, first, last)

		frames := a.Frames
		if len(frames) == 0 {
			frames = []FrameRecord{{MS: 1}}
		}
		for j, f := range frames {
			fFirst, fLast := j == 0, j == len(frames)-1
			e.FrameBegin(w, f, fFirst, fLast)
			e.FrameEnd(w, f, fFirst, fLast)
		}

		e.AnimationEnd(w, a.Name, first, last)
	}

	e.CapsuleEnd(w)
}
