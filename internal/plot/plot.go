package plot

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Stdout is the output path that writes a PNG to stdout.
const Stdout = "-"

var (
	// ErrNoSeries is returned when there is nothing to draw.
	ErrNoSeries = errors.New("no spectra to plot")

	// ErrUnsupportedOutput is returned for unknown image extensions.
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

// Image formats gonum/plot can write, by extension.
var outputFormats = []string{"eps", "jpg", "jpeg", "pdf", "png", "svg", "tex", "tif", "tiff"}

// markers is cycled through, one per spectrum.
var markers = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.PlusGlyph{},
	draw.CrossGlyph{},
	draw.TriangleGlyph{},
	draw.RingGlyph{},
	draw.PyramidGlyph{},
	draw.SquareGlyph{},
	draw.BoxGlyph{},
}

// Options controls a figure.
type Options struct {
	// Particle names the particles on the flux axis label.
	Particle string
	XLog     bool
	YLog     bool
	// Width and Height are the figure size in inches.
	Width  float64
	Height float64
	Style  Style
}

// DefaultOptions returns a 6.4 x 4.8 inch log-log figure.
func DefaultOptions() Options {
	return Options{
		Particle: "particles",
		XLog:     true,
		YLog:     true,
		Width:    6.4,
		Height:   4.8,
		Style:    DefaultStyle(),
	}
}

// Validate checks the figure size and style.
func (o Options) Validate() error {
	if !(o.Width > 0) || !(o.Height > 0) {
		return fmt.Errorf("figure size must be positive, got %g x %g", o.Width, o.Height)
	}
	return o.Style.Validate()
}

// errPoints pairs points with their vertical uncertainties.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Render builds a figure with one marker series per spectrum.
func Render(series []Series, opts Options) (*gplot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	p := gplot.New()
	p.Title.Text = opts.Style.Title
	p.X.Label.Text = "Energy [MeV]"
	p.Y.Label.Text = fmt.Sprintf("Flux [%s / (cm² * s * sr * MeV)]", opts.Particle)
	applyFonts(p, opts.Style.FontSize)
	if opts.XLog {
		p.X.Scale = gplot.LogScale{}
		p.X.Tick.Marker = gplot.LogTicks{Prec: -1}
	}
	if opts.YLog {
		p.Y.Scale = gplot.LogScale{}
		p.Y.Tick.Marker = gplot.LogTicks{Prec: -1}
	}
	if opts.Style.Grid {
		p.Add(plotter.NewGrid())
	}
	p.Legend.Top = strings.HasPrefix(opts.Style.Legend, "top") || opts.Style.Legend == ""
	p.Legend.Left = strings.HasSuffix(opts.Style.Legend, "left")

	radius := vg.Points(opts.Style.MarkerSize)
	if opts.Style.MarkerSize == 0 {
		radius = vg.Points(DefaultStyle().MarkerSize)
	}

	drawn := 0
	for i, s := range series {
		xys, yerrs := visiblePoints(s, opts)
		if len(xys) == 0 {
			slog.Warn("spectrum has no drawable points, skipping", "label", s.Label)
			continue
		}
		color := plotutil.Color(i)

		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("spectrum %q: %w", s.Label, err)
		}
		scatter.GlyphStyle = draw.GlyphStyle{
			Color:  color,
			Radius: radius,
			Shape:  markers[i%len(markers)],
		}
		p.Add(scatter)
		p.Legend.Add(s.Label, scatter)

		if yerrs != nil {
			bars, err := plotter.NewYErrorBars(errPoints{XYs: xys, YErrors: yerrs})
			if err != nil {
				return nil, fmt.Errorf("spectrum %q error bars: %w", s.Label, err)
			}
			bars.LineStyle.Color = color
			bars.LineStyle.Width = vg.Points(1)
			bars.CapWidth = vg.Points(4)
			p.Add(bars)
		}
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("%w: every point was filtered out", ErrNoSeries)
	}

	if opts.XLog {
		padLogRange(&p.X)
	}
	if opts.YLog {
		padLogRange(&p.Y)
	}
	return p, nil
}

// visiblePoints drops points that cannot be drawn: non-finite values
// anywhere, and non-positive values on log axes. Lower error bars that would
// reach zero on a log axis are dropped.
func visiblePoints(s Series, opts Options) (plotter.XYs, plotter.YErrors) {
	var (
		xys     plotter.XYs
		yerrs   plotter.YErrors
		skipped int
	)
	for i := range s.E {
		x, y := s.E[i], s.Flux[i]
		if !finite(x) || !finite(y) || (opts.XLog && x <= 0) || (opts.YLog && y <= 0) {
			skipped++
			continue
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
		if !s.HasErrors() {
			continue
		}
		lo, hi := s.ErrLo[i], s.ErrHi[i]
		if !finite(lo) || lo < 0 || (opts.YLog && y-lo <= 0) {
			lo = 0
		}
		if !finite(hi) || hi < 0 {
			hi = 0
		}
		yerrs = append(yerrs, struct{ Low, High float64 }{Low: lo, High: hi})
	}
	if skipped > 0 {
		slog.Warn("skipped points that cannot be drawn", "label", s.Label, "count", skipped)
	}
	if !s.HasErrors() {
		yerrs = nil
	}
	return xys, yerrs
}

// padLogRange widens a zero-width log axis by a decade on each side.
func padLogRange(ax *gplot.Axis) {
	if ax.Min == ax.Max && ax.Min > 0 {
		ax.Min /= 10
		ax.Max *= 10
	}
}

func applyFonts(p *gplot.Plot, size float64) {
	if size <= 0 {
		return
	}
	pt := vg.Points(size)
	p.Title.TextStyle.Font.Size = pt * 1.2
	p.X.Label.TextStyle.Font.Size = pt
	p.Y.Label.TextStyle.Font.Size = pt
	p.X.Tick.Label.Font.Size = pt * 0.9
	p.Y.Tick.Label.Font.Size = pt * 0.9
	p.Legend.TextStyle.Font.Size = pt
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Save writes the figure to path, choosing the image format from its
// extension. The path "-" writes a PNG to stdout.
func Save(p *gplot.Plot, path string, opts Options, stdout io.Writer) error {
	w := vg.Length(opts.Width) * vg.Inch
	h := vg.Length(opts.Height) * vg.Inch

	if path == Stdout {
		wt, err := p.WriterTo(w, h, "png")
		if err != nil {
			return fmt.Errorf("rendering png: %w", err)
		}
		if _, err := wt.WriteTo(stdout); err != nil {
			return fmt.Errorf("writing png to stdout: %w", err)
		}
		return nil
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !supportedOutput(ext) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedOutput, filepath.Ext(path), strings.Join(outputFormats, ", "))
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func supportedOutput(ext string) bool {
	for _, f := range outputFormats {
		if f == ext {
			return true
		}
	}
	return false
}
