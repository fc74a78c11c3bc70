package export

import (
	"fmt"
	"io"
	"strings"
)

// C99 emits a self-contained C header: one struct array per animation
// plus an array of the sheet PNG filenames, matching the spirit of the original's
// exporter/c99.c (a compile-time bank for engines that would rather not
// parse JSON/XML at load time).
type C99 struct {
	animIndex int
}

func (c *C99) CapsuleBegin(w io.Writer, totalSheets, totalAnimations int) {
	fmt.Fprint(w, "#pragma once\n\n")
	fmt.Fprint(w, "typedef struct { int sheet, x, y, w, h, ox, oy, ms, rot; } EzSpriteSheetFrame;\n\n")
	fmt.Fprintf(w, "#define EZSPRITESHEET_NUM_SHEETS %d\n", totalSheets)
	fmt.Fprintf(w, "#define EZSPRITESHEET_NUM_ANIMATIONS %d\n\n", totalAnimations)
}

func (c *C99) CapsuleEnd(w io.Writer) {
	fmt.Fprint(w, "\n")
}

func (c *C99) SheetBegin(w io.Writer, s SheetInfo, isFirst, isLast bool) {
	if isFirst {
		fmt.Fprint(w, "static const char *const ezspritesheet_sheets[] = {\n")
	}
	fmt.Fprintf(w, "\t%q,\n", s.Filename)
	if isLast {
		fmt.Fprint(w, "};\n\n")
	}
}

func (c *C99) SheetEnd(io.Writer, SheetInfo, bool, bool) {}

func cIdentifier(name string) string {
	r := strings.Map(func(ch rune) rune {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			return ch
		default:
			return '_'
		}
	}, name)
	if r == "" || (r[0] >= '0' && r[0] <= '9') {
		r = "_" + r
	}
	return r
}

func (c *C99) AnimationBegin(w io.Writer, name string, isFirst, isLast bool) {
	fmt.Fprintf(w, "static const EzSpriteSheetFrame ezspritesheet_anim_%s[] = {\n", cIdentifier(name))
}

func (c *C99) AnimationEnd(w io.Writer, name string, isFirst, isLast bool) {
	fmt.Fprint(w, "};\n\n")
	c.animIndex++
}

func (c *C99) FrameBegin(w io.Writer, f FrameRecord, isFirst, isLast bool) {
	fmt.Fprintf(w, "\t{ %d, %d, %d, %d, %d, %d, %d, %d, %d },\n",
		f.Sheet, f.X, f.Y, f.W, f.H, f.OX, f.OY, f.MS, boolInt(f.Rot))
}

func (c *C99) FrameEnd(io.Writer, FrameRecord, bool, bool) {}
