package api

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleRunChart renders a quick HTML chart of the recorded run using
// go-echarts: the driven trajectory as a scatter plot and the wheel
// speeds over time as a line chart. This is a debugging-only endpoint
// (no auth) to eyeball a run without downloading the samples.
// Query params:
//   - max_points (optional; default 4000) to reduce payload size
func (s *Server) handleRunChart(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		s.writeJSONError(w, http.StatusNotFound, "run recording not enabled")
		return
	}

	samples := s.recorder.Samples()
	if len(samples) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no samples recorded")
		return
	}

	maxPoints := 4000
	if mp := r.URL.Query().Get("max_points"); mp != "" {
		if v, err := strconv.Atoi(mp); err == nil && v > 100 && v <= 50000 {
			maxPoints = v
		}
	}

	// Downsample by stride to stay within maxPoints
	stride := 1
	if len(samples) > maxPoints {
		stride = int(math.Ceil(float64(len(samples)) / float64(maxPoints)))
	}

	path := make([]opts.ScatterData, 0, len(samples)/stride+1)
	elapsed := make([]string, 0, len(samples)/stride+1)
	left := make([]opts.LineData, 0, len(samples)/stride+1)
	right := make([]opts.LineData, 0, len(samples)/stride+1)
	centre := make([]opts.LineData, 0, len(samples)/stride+1)

	maxAbs := 0.0
	for i := 0; i < len(samples); i += stride {
		sm := samples[i]
		x := float64(sm.X)
		y := float64(sm.Y)
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
		path = append(path, opts.ScatterData{Value: []interface{}{x, y, sm.Elapsed.Seconds()}})
		elapsed = append(elapsed, fmt.Sprintf("%.2f", sm.Elapsed.Seconds()))
		left = append(left, opts.LineData{Value: sm.Left})
		right = append(right, opts.LineData{Value: sm.Right})
		centre = append(centre, opts.LineData{Value: sm.Center})
	}

	// Add a small padding so points at the edges are visible
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}

	lastElapsed := samples[len(samples)-1].Elapsed

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Run Trajectory", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Driven Trajectory", Subtitle: fmt.Sprintf("samples=%d stride=%d duration=%s", len(path), stride, lastElapsed.Round(time.Millisecond))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (mm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (mm)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(lastElapsed.Seconds()),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("trajectory", path, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}))

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Wheel Speeds", Subtitle: "steps/s over elapsed seconds"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(elapsed).
		AddSeries("left", left).
		AddSeries("right", right).
		AddSeries("centre", centre)

	page := components.NewPage()
	page.AddCharts(scatter, line)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
