package telemetry

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteTrajectoryPlot renders the dead-reckoned x/y path of a run to an
// image file (format chosen by extension, e.g. .png or .svg).
func WriteTrajectoryPlot(samples []Sample, path string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = float64(s.X)
		pts[i].Y = float64(s.Y)
	}

	p := plot.New()
	p.Title.Text = "trajectory"
	p.X.Label.Text = "x [mm]"
	p.Y.Label.Text = "y [mm]"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build trajectory line: %w", err)
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save trajectory plot: %w", err)
	}
	return nil
}

// WriteSpeedPlot renders centre speed over elapsed time to an image
// file.
func WriteSpeedPlot(samples []Sample, path string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no samples to plot")
	}

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.Elapsed.Seconds()
		pts[i].Y = float64(s.Center)
	}

	p := plot.New()
	p.Title.Text = "centre speed"
	p.X.Label.Text = "t [s]"
	p.Y.Label.Text = "speed [steps/s]"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build speed line: %w", err)
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save speed plot: %w", err)
	}
	return nil
}
