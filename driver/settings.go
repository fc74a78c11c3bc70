package driver

import (
	"github.com/z64me/EzSpriteSheet/pack"
	"github.com/z64me/EzSpriteSheet/sheet"
)

// Settings is the full set of driver-visible knobs: the subset that feeds
// sheet.Diff for change tracking (embedded sheet.Settings) plus the
// export-facing options that don't affect pipeline invalidation (output
// path, scheme, naming, visualization).
type Settings struct {
	sheet.Settings

	Output        string
	Scheme        string // "xml", "json", or "c99"
	PackMethod    pack.Method
	Prefix        string
	Long          bool // retain source extension in animation names
	Visual        bool
	VisualOpacity uint8 // defaults to 96, the original's overlay opacity
	DryRun        bool
	Warnings      bool
}

// Default returns a Settings with the spec's documented defaults applied:
// formats gif,webp,png and a 96/255 debug overlay opacity.
func Default() Settings {
	return Settings{
		Settings: sheet.Settings{
			Formats: map[string]bool{"gif": true, "webp": true, "png": true},
		},
		VisualOpacity: 96,
	}
}
