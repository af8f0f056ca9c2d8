// Copyright 2026 The Mumble Authors
//
// Licensed under the GNU Lesser General Public License v3 or later; see LICENSE.

// Package viz renders ECDF curves as interactive HTML charts, grounded
// on the go-echarts line-chart pattern this module's teacher uses for
// its own distribution plots.
package viz

import (
	"io"

	"github.com/TonyRippy/mumble/ecdf"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Curve is one named series to plot: a label shown in the chart legend
// and the interpolated ECDF backing it.
type Curve struct {
	Name string
	ECDF *ecdf.InterpolatedECDF
}

func toLineData(points [][2]float64) []opts.LineData {
	items := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		items = append(items, opts.LineData{Value: p})
	}
	return items
}

// NewCurveChart builds a line chart plotting every curve's (value,
// fraction) points against a shared x axis, suitable for visually
// comparing several distributions at once.
func NewCurveChart(title string, curves []Curve) *charts.Line {
	chart := charts.NewLine()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: true, Title: "Save"},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: true},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "fraction", Min: 0, Max: 1}),
		charts.WithTitleOpts(opts.Title{Title: title}),
	)

	for _, c := range curves {
		chart.AddSeries(c.Name, toLineData(c.ECDF.CumulativePoints()))
	}
	return chart
}

// RenderCurve writes a single self-contained HTML page plotting curves
// to w.
func RenderCurve(w io.Writer, title string, curves []Curve) error {
	chart := NewCurveChart(title, curves)
	return chart.Render(w)
}
