package adminservice

import (
	"bytes"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("ffffff")
	chartText       = drawing.ColorFromHex("1f2933")
	statusColors    = map[string]drawing.Color{
		"Pending_Approval": drawing.ColorFromHex("f0b429"),
		"Approved":         drawing.ColorFromHex("27ab83"),
		"Rejected":         drawing.ColorFromHex("d64545"),
		"Completed":        drawing.ColorFromHex("4098d7"),
	}
)

// renderEventsChart draws one bar per status. go-chart cannot scale an
// all-zero range, so an empty dashboard gets a placeholder image.
func renderEventsChart(ev EventStats) ([]byte, error) {
	if ev.Total == 0 {
		return renderNoDataPlaceholder("No events yet")
	}

	bars := make([]chart.Value, 0, len(dashboardStatuses))
	for _, st := range dashboardStatuses {
		key := string(st)
		bars = append(bars, chart.Value{
			Label: strings.ReplaceAll(key, "_", " "),
			Value: float64(ev.ByStatus[key]),
			Style: chart.Style{
				FillColor:   statusColors[key],
				StrokeColor: statusColors[key],
			},
		})
	}

	graph := chart.BarChart{
		Title:      "Events by status",
		Width:      640,
		Height:     400,
		BarWidth:   80,
		Background: chart.Style{FillColor: chartBackground, Padding: chart.Box{Top: 40}},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.Style{FontColor: chartText},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: chartText},
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	const width, height = 400, 200

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(chartBackground)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(chartText)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buf := bytes.NewBuffer(nil)
	if err := r.Save(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
