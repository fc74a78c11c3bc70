// Package ezspritesheet converts a directory tree of still and animated
// images (PNG, GIF, animated WebP) into one or more atlas pages plus a
// machine-readable bank describing, for every animation frame, where on
// which page its pixels live, its pivot point, and its per-frame duration.
//
// The pipeline is staged and restartable: [driver.Driver] inspects which
// settings changed since the previous run and re-executes only the
// affected suffix (file tree walk, image analysis, or packing/export).
//
// Basic usage as a library:
//
//	d := driver.New(os.Stderr)
//	d.Settings.Input = "./art"
//	d.Settings.Output = "./bank.xml"
//	d.Settings.PackMethod = pack.MaxRects
//	d.Settings.PageW, d.Settings.PageH = 1024, 1024
//	if _, err := d.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// See cmd/ezspritesheet for the command-line frontend.
package ezspritesheet
