package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"tube-twin/forecast"
	"tube-twin/timeseries"
)

// echarts skips points whose value is "-"
const chartGap = "-"

// RenderForecastChart writes an HTML line chart of a station's observed
// counts followed by the forecast months. The forecast series starts at the
// last observation so the two lines join.
func RenderForecastChart(w io.Writer, history *timeseries.Series, result *forecast.Result) error {
	if history.Len() == 0 || result == nil || len(result.Points) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	months := make([]string, 0, history.Len()+len(result.Points))
	observed := make([]opts.LineData, 0, cap(months))
	predicted := make([]opts.LineData, 0, cap(months))

	for i, ts := range history.Timestamps {
		months = append(months, ts.Format(timeseries.MonthLayout))
		observed = append(observed, opts.LineData{Value: history.Values[i]})
		if i == history.Len()-1 {
			predicted = append(predicted, opts.LineData{Value: history.Values[i]})
		} else {
			predicted = append(predicted, opts.LineData{Value: chartGap})
		}
	}

	// a forecast range may start several months after the last observation
	last := history.Timestamps[history.Len()-1]
	next := 1
	for _, p := range result.Points {
		for ; next < result.StartOffset; next++ {
			months = append(months, timeseries.AddMonths(last, next).Format(timeseries.MonthLayout))
			observed = append(observed, opts.LineData{Value: chartGap})
			predicted = append(predicted, opts.LineData{Value: chartGap})
		}
		months = append(months, p.Month.Format(timeseries.MonthLayout))
		observed = append(observed, opts.LineData{Value: chartGap})
		predicted = append(predicted, opts.LineData{Value: p.Value})
		next++
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s forecast", result.Station),
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    result.Station,
			Subtitle: fmt.Sprintf("Monthly taps, SARIMA%s AIC %.1f", result.Order, result.Best.AIC),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Month"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count of Taps"}),
	)

	line.SetXAxis(months).
		AddSeries("Observed", observed).
		AddSeries("Forecast", predicted,
			charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
		)

	return line.Render(w)
}
