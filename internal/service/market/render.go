package market

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderLineChart renders labelled values as a PNG line chart and returns the
// raw bytes.
func RenderLineChart(title string, labels []string, values []float64) ([]byte, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(values))
	}
	if len(labels) != len(values) {
		return nil, fmt.Errorf("labels and values differ in length: %d != %d", len(labels), len(values))
	}

	xValues := make([]float64, len(values))
	ticks := make([]chart.Tick, 0, len(values))
	step := tickStep(len(values))
	for i := range values {
		xValues[i] = float64(i)
		if i%step == 0 || i == len(values)-1 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: labels[i]})
		}
	}

	series := chart.ContinuousSeries{
		Name: title,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("0e76fd"),
			FillColor:   drawing.ColorFromHex("0e76fd").WithAlpha(40),
			StrokeWidth: 2,
		},
		XValues: xValues,
		YValues: append([]float64(nil), values...),
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSeries renders a generated price series.
func RenderSeries(s Series) ([]byte, error) {
	return RenderLineChart(fmt.Sprintf("%s %s", s.Symbol, s.Timeframe), s.Labels(), s.Prices())
}

// tickStep thins x-axis labels to about eight.
func tickStep(n int) int {
	if n <= 8 {
		return 1
	}
	return (n + 7) / 8
}
