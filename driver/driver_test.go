package driver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int, fill color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

func TestLoggerWarnGatedByWarnings(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{W: &buf, Warnings: false}
	l.Warn("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("Warn wrote output with Warnings disabled: %q", buf.String())
	}

	l.Warnings = true
	l.Warn("visible %d", 1)
	if !strings.Contains(buf.String(), "warning: visible 1") {
		t.Fatalf("Warn output = %q, missing expected message", buf.String())
	}
}

func TestLoggerInfoAndFatalAlwaysWrite(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{W: &buf}
	l.Info("loaded %d files", 3)
	l.Fatal("boom")
	out := buf.String()
	if !strings.Contains(out, "loaded 3 files") || !strings.Contains(out, "fatal: boom") {
		t.Fatalf("unexpected logger output: %q", out)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := Default()
	if !s.Formats["png"] || !s.Formats["gif"] || !s.Formats["webp"] {
		t.Fatalf("default formats missing an entry: %+v", s.Formats)
	}
	if s.VisualOpacity != 96 {
		t.Fatalf("default visual opacity = %d, want 96", s.VisualOpacity)
	}
}

func TestLoadConfigAbsentFilePassesThroughBase(t *testing.T) {
	dir := t.TempDir()
	base := Default()
	base.Scheme = "xml"

	out, err := LoadConfig(filepath.Join(dir, "art"), base)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out.Scheme != "xml" {
		t.Fatalf("Scheme = %q, want unchanged %q", out.Scheme, "xml")
	}
}

func TestLoadConfigMergesPresentKeys(t *testing.T) {
	dir := t.TempDir()
	toml := `
scheme = "json"
method = "maxrects"
page_width = 256
page_height = 128
border = 2
trim = true
color = "ff00ff"
`
	if err := os.WriteFile(filepath.Join(dir, ".ezspritesheet.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	out, err := LoadConfig(filepath.Join(dir, "art"), Default())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out.Scheme != "json" || out.Settings.Method != "maxrects" {
		t.Fatalf("scheme/method not merged: %+v", out)
	}
	if out.PageW != 256 || out.PageH != 128 || out.Pad != 2 || !out.Trim {
		t.Fatalf("numeric/bool keys not merged: %+v", out)
	}
	if out.PivotColor != 0xff00ff {
		t.Fatalf("PivotColor = %#x, want 0xff00ff", out.PivotColor)
	}
}

func TestLoadConfigMergesFormatsAndMethod(t *testing.T) {
	dir := t.TempDir()
	toml := `
method = "guillotine"
formats = "png, webp"
`
	if err := os.WriteFile(filepath.Join(dir, ".ezspritesheet.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	out, err := LoadConfig(filepath.Join(dir, "art"), Default())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if out.PackMethod != 0 {
		t.Fatalf("PackMethod = %v, want Guillotine (0)", out.PackMethod)
	}
	if out.Formats["gif"] || !out.Formats["png"] || !out.Formats["webp"] {
		t.Fatalf("Formats not replaced by config: %+v", out.Formats)
	}
}

// TestRunEndToEndSingleStillPNG mirrors a single still image run: one 32x32
// opaque PNG packed onto a 64x64 page with no padding, producing one page
// and a bank listing one animation with one frame.
func TestRunEndToEndSingleStillPNG(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "img.png"), 32, 32, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	outDir := t.TempDir()
	bankPath := filepath.Join(outDir, "bank.json")

	var logBuf bytes.Buffer
	d := New(&logBuf)
	d.Settings.Input = dir
	d.Settings.Output = bankPath
	d.Settings.Scheme = "json"
	d.Settings.PackMethod = 0 // Guillotine
	d.Settings.PageW, d.Settings.PageH = 64, 64
	d.Settings.Trim = true

	warning, err := d.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %s", warning)
	}

	if _, err := os.Stat(filepath.Join(outDir, "bank-0.png")); err != nil {
		t.Fatalf("expected page image written: %v", err)
	}

	bankData, err := os.ReadFile(bankPath)
	if err != nil {
		t.Fatalf("reading bank file: %v", err)
	}
	var decoded struct {
		Sheets       int `json:"sheets"`
		AnimationList []struct {
			Name   string `json:"name"`
			Frames []struct {
				W int `json:"w"`
				H int `json:"h"`
			} `json:"frames"`
		} `json:"animationList"`
	}
	if err := json.Unmarshal(bankData, &decoded); err != nil {
		t.Fatalf("bank file is not valid JSON: %v\n%s", err, bankData)
	}
	if decoded.Sheets != 1 {
		t.Fatalf("sheets = %d, want 1", decoded.Sheets)
	}
	if len(decoded.AnimationList) != 1 || len(decoded.AnimationList[0].Frames) != 1 {
		t.Fatalf("animationList = %+v, want one animation with one frame", decoded.AnimationList)
	}
	if decoded.AnimationList[0].Frames[0].W != 32 || decoded.AnimationList[0].Frames[0].H != 32 {
		t.Fatalf("frame dims = %+v, want 32x32", decoded.AnimationList[0].Frames[0])
	}
}

func TestRunSecondCallSkipsUnaffectedStages(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "img.png"), 16, 16, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	outDir := t.TempDir()
	d := New(&bytes.Buffer{})
	d.Settings.Input = dir
	d.Settings.Output = filepath.Join(outDir, "bank.xml")
	d.Settings.Scheme = "xml"
	d.Settings.PageW, d.Settings.PageH = 32, 32

	if _, err := d.Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	d.Settings.Pad = 1 // only affects rectangle packing, not the file tree or images
	if _, err := d.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
}

func TestRunDryRunSkipsFileOutput(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "img.png"), 16, 16, color.NRGBA{A: 255})

	outDir := t.TempDir()
	bankPath := filepath.Join(outDir, "bank.xml")
	d := New(&bytes.Buffer{})
	d.Settings.Input = dir
	d.Settings.Output = bankPath
	d.Settings.Scheme = "xml"
	d.Settings.PageW, d.Settings.PageH = 32, 32
	d.Settings.DryRun = true

	if _, err := d.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(bankPath); err == nil {
		t.Fatal("dry run wrote a bank file, expected none")
	}
}
