// Package render draws the standard sales charts with gonum/plot.
//
// Every chart takes Options describing the drawing target. With Canvas set the
// chart is drawn onto the caller's canvas (for example one tile of a grid);
// otherwise it is saved to Path, whose extension picks the image format.
// Charts only read the dataset.
package render

import (
	"strings"

	"salesprobe/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options configures one chart. Zero fields take the chart's defaults.
type Options struct {
	Width    vg.Length    // figure width; ignored when drawing on Canvas
	Height   vg.Length    // figure height; ignored when drawing on Canvas
	ColorMap string       // heatmap color map name
	Bins     int          // histogram bucket count
	Canvas   *draw.Canvas // caller-supplied drawing surface
	Path     string       // output file used when Canvas is nil
}

// Default figure settings
const (
	DefaultColorMap = "coolwarm"
	DefaultBins     = 30
)

var (
	heatmapSize = [2]vg.Length{10 * vg.Inch, 8 * vg.Inch}
	trendSize   = [2]vg.Length{12 * vg.Inch, 6 * vg.Inch}
	panelSize   = [2]vg.Length{8 * vg.Inch, 6 * vg.Inch}
)

func (o Options) withSize(size [2]vg.Length) Options {
	if o.Width <= 0 {
		o.Width = size[0]
	}
	if o.Height <= 0 {
		o.Height = size[1]
	}
	return o
}

// ColorMaps lists the accepted color map names
func ColorMaps() []string {
	return []string{"coolwarm", "bluered", "greenred", "purpleorange", "bluetan", "blackbody", "kindlmann", "heat"}
}

// IsColorMap reports whether name selects a known color map. Empty selects the default.
func IsColorMap(name string) bool {
	_, err := paletteFor(name, 2, 0, 1)
	return err == nil
}

// paletteFor resolves a color map name to an n-color palette spanning [min, max]
func paletteFor(name string, n int, min, max float64) (palette.Palette, error) {
	var cm palette.ColorMap
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "coolwarm", "bluered":
		cm = moreland.SmoothBlueRed()
	case "greenred":
		cm = moreland.SmoothGreenRed()
	case "purpleorange":
		cm = moreland.SmoothPurpleOrange()
	case "bluetan":
		cm = moreland.SmoothBlueTan()
	case "blackbody":
		cm = moreland.BlackBody()
	case "kindlmann":
		cm = moreland.Kindlmann()
	case "heat":
		return palette.Heat(n, 1), nil
	default:
		return nil, errors.InvalidInput("unknown color map " + name)
	}
	cm.SetMin(min)
	cm.SetMax(max)
	return cm.Palette(n), nil
}

// finish draws p onto the requested target
func finish(p *plot.Plot, opts Options, chart string) (*plot.Plot, error) {
	if opts.Canvas != nil {
		p.Draw(*opts.Canvas)
		return p, nil
	}
	if opts.Path == "" {
		return nil, errors.InvalidInput(chart + ": neither canvas nor output path given")
	}
	if err := p.Save(opts.Width, opts.Height, opts.Path); err != nil {
		return nil, errors.RenderFailed(chart, err)
	}
	return p, nil
}
