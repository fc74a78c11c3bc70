// Command ezspritesheet converts a directory tree of still and animated
// images into one or more atlas pages plus a machine-readable bank.
//
// Usage:
//
//	ezspritesheet -i DIR -o FILE -s {xml,json,c99} -m {guillotine,maxrects} -a WxH [options]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/z64me/EzSpriteSheet/driver"
	"github.com/z64me/EzSpriteSheet/pack"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "ezspritesheet: %v\n", err)
		os.Exit(1)
	}
}

// flagAliases maps every short and long spelling to the canonical name for
// its option, so a short flag and its long alias are recognized as the
// same argument.
var flagAliases = map[string]string{
	"i": "input", "input": "input",
	"o": "output", "output": "output",
	"s": "scheme", "scheme": "scheme",
	"m": "method", "method": "method",
	"a": "area", "area": "area",
	"e": "exhaust", "exhaust": "exhaust",
	"r": "rotate", "rotate": "rotate",
	"t": "trim", "trim": "trim",
	"d": "doubles", "doubles": "doubles",
	"b": "border", "border": "border",
	"c": "color", "color": "color",
	"f": "formats", "formats": "formats",
	"p": "prefix", "prefix": "prefix",
	"z": "long", "long": "long",
	"x": "regex", "regex": "regex",
	"n": "negate", "negate": "negate",
	"v": "visual", "visual": "visual",
	"l": "log", "log": "log",
	"w": "warnings", "warnings": "warnings",
	"q": "quiet", "quiet": "quiet",
	"h": "help", "help": "help",
}

// seenFlags tracks which flags were passed, so a duplicate -flag appearing
// twice (flag.FlagSet silently lets the last one win) can be reported as
// the fatal error the external-interface section requires. Tracking is by
// canonical flag identity, so "-i X -input Y" is caught as a duplicate of
// the same option, not two distinct ones.
type seenFlags struct {
	seen map[string]bool
}

func newSeenFlags() *seenFlags { return &seenFlags{seen: map[string]bool{}} }

func (s *seenFlags) mark(args []string) error {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name := strings.TrimLeft(a, "-")
		if _, err := strconv.Atoi(name); err == nil {
			continue // a negative number is a flag value, not a flag
		}
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
		}
		canonical, ok := flagAliases[name]
		if !ok {
			canonical = name
		}
		if s.seen[canonical] {
			return fmt.Errorf("duplicate argument: -%s", name)
		}
		s.seen[canonical] = true
	}
	return nil
}

func run(args []string) error {
	if err := newSeenFlags().mark(args); err != nil {
		return err
	}

	fs := flag.NewFlagSet("ezspritesheet", flag.ContinueOnError)

	input := fs.String("i", "", "input directory (required)")
	fs.StringVar(input, "input", "", "alias for -i")
	output := fs.String("o", "", "output bank file (required)")
	fs.StringVar(output, "output", "", "alias for -o")
	scheme := fs.String("s", "", "bank format: xml, json, c99 (required)")
	fs.StringVar(scheme, "scheme", "", "alias for -s")
	method := fs.String("m", "", "packer method: guillotine, maxrects (required)")
	fs.StringVar(method, "method", "", "alias for -m")
	area := fs.String("a", "", "page size WxH (required)")
	fs.StringVar(area, "area", "", "alias for -a")

	exhaust := fs.Bool("e", false, "exhaustive packing")
	fs.BoolVar(exhaust, "exhaust", false, "alias for -e")
	rotate := fs.Bool("r", false, "allow 90-degree rotation")
	fs.BoolVar(rotate, "rotate", false, "alias for -r")
	trim := fs.Bool("t", false, "trim frames to their crop rectangle")
	fs.BoolVar(trim, "trim", false, "alias for -t")
	doubles := fs.Bool("d", false, "deduplicate identical frames")
	fs.BoolVar(doubles, "doubles", false, "alias for -d")
	border := fs.Int("b", 0, "padding in pixels")
	fs.IntVar(border, "border", 0, "alias for -b")
	color := fs.String("c", "", "pivot color RRGGBB (must be nonzero)")
	fs.StringVar(color, "color", "", "alias for -c")
	formats := fs.String("f", "gif,webp,png", "comma-separated extension list")
	fs.StringVar(formats, "formats", "gif,webp,png", "alias for -f")
	prefix := fs.String("p", "", "animation name prefix")
	fs.StringVar(prefix, "prefix", "", "alias for -p")
	long := fs.Bool("z", false, "retain source extension in animation names")
	fs.BoolVar(long, "long", false, "alias for -z")
	regex := fs.String("x", "", "POSIX regex filter on relative path")
	fs.StringVar(regex, "regex", "", "alias for -x")
	negate := fs.Bool("n", false, "negate the regex filter")
	fs.BoolVar(negate, "negate", false, "alias for -n")
	visual := fs.Bool("v", false, "draw a debug overlay on each page")
	fs.BoolVar(visual, "visual", false, "alias for -v")
	visualOpacity := fs.Int("visual-opacity", 96, "debug overlay opacity 0-255")
	logFile := fs.String("l", "", "log file (default: stderr)")
	fs.StringVar(logFile, "log", "", "alias for -l")
	warnings := fs.Bool("w", false, "enable warning messages")
	fs.BoolVar(warnings, "warnings", false, "alias for -w")
	quiet := fs.Bool("q", false, "suppress info messages")
	fs.BoolVar(quiet, "quiet", false, "alias for -q")
	dryRun := fs.Bool("dry-run", false, "probe the input tree and exit without packing")
	help := fs.Bool("h", false, "show usage and exit")
	fs.BoolVar(help, "help", false, "alias for -h")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		fs.SetOutput(os.Stdout)
		fs.Usage()
		return flag.ErrHelp
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	cfg, err := driver.LoadConfig(*input, driver.Default())
	if err != nil {
		return fmt.Errorf("loading .ezspritesheet.toml: %w", err)
	}
	if !explicit["s"] && !explicit["scheme"] && cfg.Scheme != "" {
		*scheme = cfg.Scheme
	}
	if !explicit["m"] && !explicit["method"] && cfg.Settings.Method != "" {
		*method = cfg.Settings.Method
	}
	if !explicit["a"] && !explicit["area"] && cfg.PageW != 0 && cfg.PageH != 0 {
		*area = fmt.Sprintf("%dx%d", cfg.PageW, cfg.PageH)
	}
	if !explicit["b"] && !explicit["border"] && cfg.Pad != 0 {
		*border = cfg.Pad
	}
	if !explicit["t"] && !explicit["trim"] {
		*trim = cfg.Trim
	}
	if !explicit["r"] && !explicit["rotate"] {
		*rotate = cfg.Rotate
	}
	if !explicit["e"] && !explicit["exhaust"] {
		*exhaust = cfg.Exhaustive
	}
	if !explicit["d"] && !explicit["doubles"] {
		*doubles = cfg.Dedupe
	}
	if !explicit["c"] && !explicit["color"] && cfg.PivotColor != 0 {
		*color = fmt.Sprintf("%06x", cfg.PivotColor)
	}
	if !explicit["p"] && !explicit["prefix"] && cfg.Prefix != "" {
		*prefix = cfg.Prefix
	}
	if !explicit["z"] && !explicit["long"] {
		*long = cfg.Long
	}
	if !explicit["v"] && !explicit["visual"] {
		*visual = cfg.Visual
	}
	if !explicit["w"] && !explicit["warnings"] {
		*warnings = cfg.Warnings
	}

	var missing []string
	if *input == "" {
		missing = append(missing, "-i/--input")
	}
	if *output == "" {
		missing = append(missing, "-o/--output")
	}
	if *scheme == "" {
		missing = append(missing, "-s/--scheme")
	}
	if *method == "" {
		missing = append(missing, "-m/--method")
	}
	if *area == "" {
		missing = append(missing, "-a/--area")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required arguments: %s", strings.Join(missing, ", "))
	}

	pageW, pageH, err := parseArea(*area)
	if err != nil {
		return err
	}

	var packMethod pack.Method
	switch strings.ToLower(*method) {
	case "guillotine":
		packMethod = pack.Guillotine
	case "maxrects":
		packMethod = pack.MaxRects
	default:
		return fmt.Errorf("unsupported packer method %q", *method)
	}

	switch *scheme {
	case "xml", "json", "c99":
	default:
		return fmt.Errorf("unsupported exporter scheme %q", *scheme)
	}

	var pivotColor uint32
	if *color != "" {
		v, err := strconv.ParseUint(*color, 16, 32)
		if err != nil || v == 0 {
			return fmt.Errorf("invalid pivot color %q (must be nonzero RRGGBB)", *color)
		}
		pivotColor = uint32(v)
	}

	if *border < 0 {
		return fmt.Errorf("invalid border %d (must be >= 0)", *border)
	}

	formatSet := map[string]bool{}
	for _, f := range strings.Split(*formats, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			formatSet[f] = true
		}
	}
	if !explicit["f"] && !explicit["formats"] {
		formatSet = cfg.Formats
	}

	logW := os.Stderr
	var logCloser *os.File
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logCloser = f
	}
	defer func() {
		if logCloser != nil {
			logCloser.Close()
		}
	}()

	d := driver.New(logW)
	if logCloser != nil {
		d.Logger.W = logCloser
	}
	if *quiet {
		d.Logger.W = io.Discard
	}
	d.Logger.Warnings = *warnings

	d.Settings.Input = *input
	d.Settings.Output = *output
	d.Settings.Scheme = *scheme
	d.Settings.Method = *method
	d.Settings.PackMethod = packMethod
	d.Settings.PageW, d.Settings.PageH = pageW, pageH
	d.Settings.Exhaustive = *exhaust
	d.Settings.Rotate = *rotate
	d.Settings.Trim = *trim
	d.Settings.Dedupe = *doubles
	d.Settings.Pad = *border
	d.Settings.PivotColor = pivotColor
	d.Settings.Formats = formatSet
	d.Settings.Prefix = *prefix
	d.Settings.Long = *long
	d.Settings.Regex = *regex
	d.Settings.Negate = *negate
	d.Settings.Visual = *visual
	d.Settings.VisualOpacity = uint8(*visualOpacity)
	d.Settings.DryRun = *dryRun

	d.Logger.Info("input: %s", *input)
	d.Logger.Info("output: %s", *output)
	d.Logger.Info("scheme: %s method: %s area: %dx%d", *scheme, *method, pageW, pageH)
	if pivotColor != 0 {
		d.Logger.Info("color: #%06x", pivotColor)
	}

	warning, err := d.Run()
	if err != nil {
		return err
	}
	if warning != "" {
		fmt.Fprintf(os.Stderr, "ezspritesheet: warning: %s\n", warning)
	}
	return nil
}

func parseArea(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid area %q (want WxH)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid area width in %q", s)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid area height in %q", s)
	}
	return w, h, nil
}
