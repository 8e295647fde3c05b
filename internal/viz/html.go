package viz

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTML renders figs as one go-echarts page.
func WriteHTML(w io.Writer, title string, figs []Figure) error {
	page := components.NewPage()
	page.SetPageTitle(title)

	for _, fig := range figs {
		page.AddCharts(chartFor(fig))
	}
	return page.Render(w)
}

func chartFor(fig Figure) components.Charter {
	axisType := "value"
	if fig.LogXY {
		axisType = "log"
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "450px"}),
		charts.WithTitleOpts(opts.Title{Title: fig.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30px"}),
		charts.WithXAxisOpts(opts.XAxis{Type: axisType, Name: fig.XLabel, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Type: axisType, Name: fig.YLabel, Scale: opts.Bool(true)}),
	}

	if fig.Kind == KindScatter {
		c := charts.NewScatter()
		c.SetGlobalOptions(global...)
		for _, s := range fig.Series {
			data := make([]opts.ScatterData, 0, len(s.X))
			for i := range s.X {
				if i < len(s.Y) {
					data = append(data, opts.ScatterData{Value: []float64{s.X[i], s.Y[i]}})
				}
			}
			c.AddSeries(s.Name, data)
		}
		return c
	}

	c := charts.NewLine()
	c.SetGlobalOptions(global...)
	for _, s := range fig.Series {
		data := make([]opts.LineData, 0, len(s.X))
		for i := range s.X {
			if i < len(s.Y) {
				data = append(data, opts.LineData{Value: []float64{s.X[i], s.Y[i]}})
			}
		}
		c.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}
	return c
}
