package export

import (
	"fmt"
	"io"
)

// XML is a streaming XML backend producing the same fields as JSON, in
// element-attribute form.
type XML struct{}

func (XML) CapsuleBegin(w io.Writer, totalSheets, totalAnimations int) {
	fmt.Fprintf(w, `<?xml version="1.0"?>`+"\n"+`<capsule sheets="%d" animations="%d">`+"\n", totalSheets, totalAnimations)
}

func (XML) CapsuleEnd(w io.Writer) {
	fmt.Fprint(w, "</capsule>\n")
}

func (XML) SheetBegin(w io.Writer, s SheetInfo, isFirst, isLast bool) {
	fmt.Fprintf(w, `  <sheet index="%d" width="%d" height="%d" source=%q/>`+"\n", s.Index, s.Width, s.Height, s.Filename)
}

func (XML) SheetEnd(io.Writer, SheetInfo, bool, bool) {}

func (XML) AnimationBegin(w io.Writer, name string, isFirst, isLast bool) {
	fmt.Fprintf(w, `  <animation name=%q>`+"\n", name)
}

func (XML) AnimationEnd(w io.Writer, name string, isFirst, isLast bool) {
	fmt.Fprint(w, "  </animation>\n")
}

func (XML) FrameBegin(w io.Writer, f FrameRecord, isFirst, isLast bool) {
	fmt.Fprintf(w, `    <frame sheet="%d" x="%d" y="%d" w="%d" h="%d" ox="%d" oy="%d" ms="%d" rot="%d"/>`+"\n",
		f.Sheet, f.X, f.Y, f.W, f.H, f.OX, f.OY, f.MS, boolInt(f.Rot))
}

func (XML) FrameEnd(io.Writer, FrameRecord, bool, bool) {}
