// Package chart renders per-course series as PNG bar charts.
package chart

import (
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"golftracker/internal/core"
)

// NoDataMessage is drawn in place of bars when a series is empty.
const NoDataMessage = "No data available."

const (
	barWidth   = 60
	barSpacing = 40
	// extra horizontal room for the y axis and padding
	chartMargin = 160
)

var (
	background = drawing.ColorFromHex("FFFFFF")
	textColor  = drawing.ColorFromHex("333333")

	kindColors = map[core.ChartKind]drawing.Color{
		core.AverageScore:    drawing.ColorFromHex("4CAF50"),
		core.RoundsPerCourse: drawing.ColorFromHex("2196F3"),
		core.BestScore:       drawing.ColorFromHex("FF9800"),
	}
)

// Options sizes the rendered image. Width grows with the number of courses.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1100
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

// ColorFor returns the bar color used for kind.
func ColorFor(kind core.ChartKind) drawing.Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return drawing.ColorFromHex("9E9E9E")
}

// Render writes series as a PNG to w. An empty series yields a placeholder
// image carrying NoDataMessage.
func Render(w io.Writer, series core.Series, opts Options) error {
	opts = opts.withDefaults()
	if len(series.Points) == 0 {
		return renderNoDataPlaceholder(w, series.Kind.Title(), opts)
	}

	color := ColorFor(series.Kind)
	bars := make([]gochart.Value, len(series.Points))
	maxValue := 0.0
	for i, p := range series.Points {
		bars[i] = gochart.Value{
			Label: p.Course,
			Value: p.Value,
			Style: gochart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		}
		maxValue = math.Max(maxValue, p.Value)
	}
	if maxValue == 0 {
		maxValue = 1
	}

	// Bars start at zero so lengths compare honestly; headroom leaves space
	// for the value labels.
	yRange := &gochart.ContinuousRange{Min: 0, Max: maxValue * 1.15}

	graph := gochart.BarChart{
		Title: series.Kind.Title(),
		TitleStyle: gochart.Style{
			FontSize:  16,
			FontColor: textColor,
		},
		Width:      dynamicWidth(opts.Width, len(bars)),
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{
			FillColor: background,
			Padding:   gochart.Box{Top: 60, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: gochart.Style{
			FillColor: background,
		},
		XAxis: gochart.Style{
			FontColor: textColor,
			TextWrap:  gochart.TextWrapWord,
		},
		YAxis: gochart.YAxis{
			Name:  series.Kind.AxisLabel(),
			Range: yRange,
			Style: gochart.Style{
				FontColor: textColor,
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return core.FormatValue(f)
				}
				return fmt.Sprint(v)
			},
		},
		Bars: bars,
	}
	graph.Elements = []gochart.Renderable{valueLabels(graph, yRange)}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", series.Kind, err)
	}
	return nil
}

func dynamicWidth(base, bars int) int {
	return max(base, bars*(barWidth+barSpacing)+chartMargin)
}

// valueLabels draws each bar's value above it. Bar geometry mirrors the
// layout go-chart uses when it shrinks bars to fit the canvas.
func valueLabels(bc gochart.BarChart, yRange *gochart.ContinuousRange) gochart.Renderable {
	return func(r gochart.Renderer, canvas gochart.Box, defaults gochart.Style) {
		n := len(bc.Bars)
		spacing := bc.BarSpacing
		width := bc.BarWidth
		if n*(width+spacing) > canvas.Width() {
			spacing = max(0, int(math.Ceil(float64(canvas.Width()-n*width)/float64(n))))
		}
		if n*(width+spacing) > canvas.Width() {
			width = max(0, int(math.Ceil(float64(canvas.Width()-n*spacing)/float64(n))))
		}

		style := gochart.Style{FontSize: 10, FontColor: textColor}.InheritFrom(defaults)
		style.WriteTextOptionsToRenderer(r)
		defer r.ResetStyle()

		x := canvas.Left
		for _, bar := range bc.Bars {
			label := core.FormatValue(bar.Value)
			tb := r.MeasureText(label)
			left := x + spacing>>1
			top := canvas.Bottom - yRange.Translate(bar.Value)
			r.Text(label, left+(width-tb.Width())/2, top-4)
			x += width + spacing
		}
	}
}

func renderNoDataPlaceholder(w io.Writer, title string, opts Options) error {
	r, err := gochart.PNG(opts.Width, opts.Height)
	if err != nil {
		return err
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return err
	}

	gochart.Draw.Box(r, gochart.Box{Right: opts.Width, Bottom: opts.Height}, gochart.Style{
		FillColor:   background,
		StrokeColor: background,
	})

	r.SetFont(font)
	r.SetFontColor(textColor)

	r.SetFontSize(16)
	tb := r.MeasureText(title)
	r.Text(title, (opts.Width-tb.Width())/2, 20+tb.Height())

	r.SetFontSize(14)
	tb = r.MeasureText(NoDataMessage)
	r.Text(NoDataMessage, (opts.Width-tb.Width())/2, (opts.Height+tb.Height())/2)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("render placeholder chart: %w", err)
	}
	return nil
}
