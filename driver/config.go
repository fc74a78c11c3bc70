package driver

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/z64me/EzSpriteSheet/pack"
)

// fileConfig mirrors the subset of Settings worth persisting as project
// defaults; every field is a pointer so an absent key in the TOML file
// leaves the corresponding CLI-or-built-in default untouched.
type fileConfig struct {
	Scheme     *string `toml:"scheme"`
	Method     *string `toml:"method"`
	PageWidth  *int    `toml:"page_width"`
	PageHeight *int    `toml:"page_height"`
	Pad        *int    `toml:"border"`
	Trim       *bool   `toml:"trim"`
	Rotate     *bool   `toml:"rotate"`
	Exhaustive *bool   `toml:"exhaust"`
	Dedupe     *bool   `toml:"doubles"`
	PivotColor *string `toml:"color"`
	Formats    *string `toml:"formats"`
	Prefix     *string `toml:"prefix"`
	Long       *bool   `toml:"long"`
	Visual     *bool   `toml:"visual"`
	Warnings   *bool   `toml:"warnings"`
}

// LoadConfig reads a sibling ".ezspritesheet.toml" next to input, if
// present, and applies any keys it sets onto base, returning the merged
// Settings. Every flag in the CLI surface still works with no config file
// present — this is purely a defaults layer that an explicit flag value
// overrides.
func LoadConfig(input string, base Settings) (Settings, error) {
	path := filepath.Join(filepath.Dir(input), ".ezspritesheet.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, err
	}

	var cfg fileConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return base, err
	}

	out := base
	if cfg.Scheme != nil {
		out.Scheme = *cfg.Scheme
	}
	if cfg.Method != nil {
		switch *cfg.Method {
		case "guillotine":
			out.PackMethod = pack.Guillotine
		case "maxrects":
			out.PackMethod = pack.MaxRects
		}
		out.Settings.Method = *cfg.Method
	}
	if cfg.PivotColor != nil {
		if v, err := strconv.ParseUint(*cfg.PivotColor, 16, 32); err == nil {
			out.PivotColor = uint32(v)
		}
	}
	if cfg.Warnings != nil {
		out.Warnings = *cfg.Warnings
	}
	if cfg.PageWidth != nil {
		out.PageW = *cfg.PageWidth
	}
	if cfg.PageHeight != nil {
		out.PageH = *cfg.PageHeight
	}
	if cfg.Pad != nil {
		out.Pad = *cfg.Pad
	}
	if cfg.Trim != nil {
		out.Trim = *cfg.Trim
	}
	if cfg.Rotate != nil {
		out.Rotate = *cfg.Rotate
	}
	if cfg.Exhaustive != nil {
		out.Exhaustive = *cfg.Exhaustive
	}
	if cfg.Dedupe != nil {
		out.Dedupe = *cfg.Dedupe
	}
	if cfg.Prefix != nil {
		out.Prefix = *cfg.Prefix
	}
	if cfg.Long != nil {
		out.Long = *cfg.Long
	}
	if cfg.Visual != nil {
		out.Visual = *cfg.Visual
	}
	if cfg.Formats != nil {
		set := map[string]bool{}
		for _, f := range strings.Split(*cfg.Formats, ",") {
			f = strings.ToLower(strings.TrimSpace(f))
			if f != "" {
				set[f] = true
			}
		}
		out.Formats = set
	}
	return out, nil
}
