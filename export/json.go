package export

import (
	"fmt"
	"io"
)

// JSON is a streaming JSON backend, grounded on the original's
// exporter/json.c field names: capsule{sheets,animations}, sheet{index,
// width,height,source}, animation{name,frames}, frame{sheet,x,y,w,h,
// ox,oy,ms,rot}.
type JSON struct{}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (JSON) CapsuleBegin(w io.Writer, totalSheets, totalAnimations int) {
	fmt.Fprintf(w, `{"sheets":%d,"animations":%d,"sheetList":[`, totalSheets, totalAnimations)
}

func (JSON) CapsuleEnd(w io.Writer) {
	fmt.Fprint(w, "]}")
}

func (JSON) SheetBegin(w io.Writer, s SheetInfo, isFirst, isLast bool) {
	if !isFirst {
		fmt.Fprint(w, ",")
	}
	fmt.Fprintf(w, `{"index":%d,"width":%d,"height":%d,"source":%q}`, s.Index, s.Width, s.Height, s.Filename)
}

func (JSON) SheetEnd(io.Writer, SheetInfo, bool, bool) {}

func (JSON) AnimationBegin(w io.Writer, name string, isFirst, isLast bool) {
	if isFirst {
		fmt.Fprint(w, `],"animationList":[`)
	} else {
		fmt.Fprint(w, ",")
	}
	fmt.Fprintf(w, `{"name":%q,"frames":[`, name)
}

func (JSON) AnimationEnd(w io.Writer, name string, isFirst, isLast bool) {
	fmt.Fprint(w, "]}")
}

func (JSON) FrameBegin(w io.Writer, f FrameRecord, isFirst, isLast bool) {
	if !isFirst {
		fmt.Fprint(w, ",")
	}
	fmt.Fprintf(w, `{"sheet":%d,"x":%d,"y":%d,"w":%d,"h":%d,"ox":%d,"oy":%d,"ms":%d,"rot":%d}`,
		f.Sheet, f.X, f.Y, f.W, f.H, f.OX, f.OY, f.MS, boolInt(f.Rot))
}

func (JSON) FrameEnd(io.Writer, FrameRecord, bool, bool) {}
