// Package driver ties the file walker, frame store, analyzer, packer,
// composer, and exporter together into the staged, restartable pipeline
// described for the command-line and embedding use cases, including the
// change-tracking that lets a re-run skip unaffected stages.
package driver

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/z64me/EzSpriteSheet/compose"
	"github.com/z64me/EzSpriteSheet/export"
	"github.com/z64me/EzSpriteSheet/internal/decode"
	"github.com/z64me/EzSpriteSheet/pack"
	"github.com/z64me/EzSpriteSheet/sheet"
)

// Driver owns the process-wide settings snapshot used for change
// detection, the installed logging sink, and the optional GUI-style popup
// hooks, mirroring the original's process-global state lifted into an
// explicit struct instead of package-level variables.
type Driver struct {
	Logger *Logger

	// Popup hooks; left nil by the CLI, wired by a GUI host.
	OnFatal   func(string)
	OnWarning func(string)
	OnSuccess func(string)

	Settings Settings

	prevSettings Settings
	hasPrev      bool

	list sheet.List
	rect []*sheet.InputRectangle
}

// New returns a Driver that logs to w with warnings enabled.
func New(w io.Writer) *Driver {
	return &Driver{Logger: &Logger{W: w, Warnings: true}, Settings: Default()}
}

// Run executes the pipeline suffix invalidated by whatever changed in
// d.Settings since the previous call, writing atlas pages and the bank
// file to disk. A non-empty warning string reports a recoverable
// condition: a multiple-match pivot (output is still written) or a frame
// too big for the page (packing is abandoned and nothing is written for
// that run); err is non-nil only for
// fatal conditions, matching the taxonomy: fatal aborts, recoverable
// warnings propagate as a message, info is only ever logged.
func (d *Driver) Run() (warning string, err error) {
	cs := sheet.Diff(d.prevSettings.Settings, d.Settings.Settings)
	if !d.hasPrev {
		cs = sheet.ChangeSet{DoFileTree: true, DoImages: true, DoImageAll: true, DoRectangles: true}
	}

	var entries []decode.FileEntry
	if cs.DoFileTree {
		var pattern *regexp.Regexp
		if d.Settings.Regex != "" {
			pattern, err = regexp.CompilePOSIX(d.Settings.Regex)
			if err != nil {
				d.fatalf("regex compile: %v", err)
				return "", fmt.Errorf("regex compile: %w", err)
			}
		}
		entries, err = decode.Walk(d.Settings.Input, d.Settings.Formats, pattern, d.Settings.Negate)
		if err != nil {
			d.fatalf("walking %s: %v", d.Settings.Input, err)
			return "", err
		}
		d.Logger.Info("found %d matching files under %s", len(entries), d.Settings.Input)
	}

	if cs.DoImages {
		d.list = sheet.List{}
		for _, e := range entries {
			data, rerr := os.ReadFile(e.Path)
			if rerr != nil {
				d.fatalf("reading %s: %v", e.Path, rerr)
				return "", rerr
			}
			anim, derr := decode.Decode(e.Path, data)
			if derr != nil {
				d.fatalf("decoding %s: %v", e.Path, derr)
				return "", derr
			}
			durations := make([]int, len(anim.Frames))
			pixels := make([][]byte, len(anim.Frames))
			for i, f := range anim.Frames {
				durations[i] = f.Duration
				pixels[i] = f.Pixels
			}
			name := animationName(d.Settings.Prefix, d.Settings.Input, e.RelPath, d.Settings.Long)
			d.list.Append(sheet.NewAnimation(name, anim.CanvasWidth, anim.CanvasHeight, pixels, durations))
			d.Logger.Info("loaded %s (%d frames)", name, len(anim.Frames))
		}
	}

	if cs.DoImageAll {
		sheet.FindCrop(&d.list)
		warnings := sheet.FindPivots(&d.list, d.Settings.PivotColor)
		for _, w := range warnings {
			d.Logger.Warn(w.Error())
			if d.OnWarning != nil {
				d.OnWarning(w.Error())
			}
			warning = w.Error()
		}
	}

	if sheet.InvalidateDuplicates(cs) {
		sheet.FindDuplicates(&d.list)
	}

	if cs.DoRectangles {
		w, msg, rerr := d.runRectangles()
		if rerr != nil {
			d.fatalf("%v", rerr)
			return "", rerr
		}
		if msg != "" {
			warning = msg
		}
		if w != "" {
			warning = w
		}
	}

	d.prevSettings = d.Settings
	d.hasPrev = true

	if warning == "" && d.OnSuccess != nil {
		d.OnSuccess("done")
	}
	return warning, nil
}

func (d *Driver) fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.Logger.Fatal("%s", msg)
	if d.OnFatal != nil {
		d.OnFatal(msg)
	}
}

func (d *Driver) runRectangles() (warning string, msg string, err error) {
	sortBy := sheet.SortByArea

	rects, berr := sheet.Build(&d.list, sheet.BuildOptions{
		Trim:        d.Settings.Trim,
		Pad:         d.Settings.Pad,
		PageW:       d.Settings.PageW,
		PageH:       d.Settings.PageH,
		Rotate:      d.Settings.Rotate,
		Dedupe:      d.Settings.Dedupe,
		PivotActive: d.Settings.PivotColor != 0,
		SortBy:      sortBy,
	})
	if berr != nil {
		if tb, ok := berr.(sheet.ErrFrameTooBig); ok {
			d.Logger.Warn(tb.Error())
			return tb.Error(), "", nil
		}
		return "", "", berr
	}
	for _, r := range rects {
		r.Frame.SetUserData(r)
	}
	d.rect = rects

	if d.Settings.DryRun {
		d.Logger.Info("dry run: %d rectangles", len(rects))
		return "", "", nil
	}

	pages := pack.Run(rects, pack.Options{
		Method:     d.Settings.PackMethod,
		PageW:      d.Settings.PageW,
		PageH:      d.Settings.PageH,
		Rotate:     d.Settings.Rotate,
		Exhaustive: d.Settings.Exhaustive,
	})

	sheetInfos := make([]export.SheetInfo, len(pages.Pages))
	outDir := filepath.Dir(d.Settings.Output)
	base := strings.TrimSuffix(filepath.Base(d.Settings.Output), filepath.Ext(d.Settings.Output))

	for i, p := range pages.Pages {
		buf := make([]byte, d.Settings.PageW*d.Settings.PageH*4)
		res := compose.Page(buf, d.Settings.PageW, d.Settings.PageH, p, compose.Options{
			Trim:           d.Settings.Trim,
			Pad:            d.Settings.Pad,
			DebugOverlay:   d.Settings.Visual,
			OverlayOpacity: d.Settings.VisualOpacity,
		})
		d.Logger.Info("page %d: %d rects, occupancy %.2f", i, res.Rects, res.Occupancy)

		filename := fmt.Sprintf("%s-%d.png", base, i)
		if err := writePNG(filepath.Join(outDir, filename), buf, d.Settings.PageW, d.Settings.PageH); err != nil {
			return "", "", err
		}
		sheetInfos[i] = export.SheetInfo{Index: i, Width: d.Settings.PageW, Height: d.Settings.PageH, Filename: filename}
	}

	animations := make([]export.AnimationInput, len(d.list.Animations))
	for i, a := range d.list.Animations {
		animations[i] = export.AnimationInput{Name: a.Name, Frames: frameRecords(a, d.Settings.Pad, d.Settings.Trim)}
	}

	var e export.Exporter
	switch d.Settings.Scheme {
	case "json":
		e = export.JSON{}
	case "c99":
		e = &export.C99{}
	default:
		e = export.XML{}
	}

	out, err := os.Create(d.Settings.Output)
	if err != nil {
		return "", "", err
	}
	defer out.Close()
	export.Drive(out, e, sheetInfos, animations)

	return "", "", nil
}

func frameRecords(a *sheet.Animation, pad int, trim bool) []export.FrameRecord {
	var records []export.FrameRecord
	for _, f := range a.Frames {
		if f.IsPivotFrame() {
			continue
		}
		canonical := f.ResolveDuplicate()
		rect, _ := canonical.UserData().(*sheet.InputRectangle)
		if f.IsBlank() || rect == nil {
			records = append(records, export.FrameRecord{MS: f.Duration})
			continue
		}

		crop := f.Crop()
		if !trim {
			crop = sheet.Rect{W: a.CanvasWidth, H: a.CanvasHeight}
		}
		sheetW, sheetH := crop.W, crop.H
		if rect.Rotated {
			sheetW, sheetH = crop.H, crop.W
		}

		ox, oy := pad, pad
		if pivot, ok := f.Pivot(); ok {
			dx := pivot.X - crop.X
			dy := pivot.Y - crop.Y
			if rect.Rotated {
				ox = pad + dy
				oy = pad + (crop.W - 1 - dx)
			} else {
				ox = pad + dx
				oy = pad + dy
			}
		}

		records = append(records, export.FrameRecord{
			Sheet: rect.Page,
			X:     rect.X + pad,
			Y:     rect.Y + pad,
			W:     sheetW,
			H:     sheetH,
			OX:    ox,
			OY:    oy,
			MS:    f.Duration,
			Rot:   rect.Rotated,
		})
	}
	return records
}

// animationName derives the exported animation name per the naming rule:
// prefix + path relative to input, leading slashes stripped, with the
// final extension removed unless long is set.
func animationName(prefix, input, relPath string, long bool) string {
	name := strings.TrimLeft(relPath, "/")
	if !long {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return prefix + name
}

func writePNG(path string, pix []byte, w, h int) error {
	img := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
