// Package telemetry records vehicle data samples of one run in memory
// and turns them into summary statistics and plots. Nothing here is
// persisted; a recorder lives and dies with the process.
package telemetry

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/trackbot/internal/timeutil"
)

// Sample is one telemetry observation. Elapsed is filled in by the
// recorder relative to the start of the run.
type Sample struct {
	Elapsed time.Duration `json:"elapsed"`
	X       int32         `json:"x_mm"`
	Y       int32         `json:"y_mm"`
	Heading int32         `json:"heading_mrad"`
	Left    int16         `json:"speed_left"`
	Right   int16         `json:"speed_right"`
	Center  int16         `json:"speed_center"`
}

// Recorder accumulates samples of one run. Safe for concurrent use: the
// control loop records while API handlers read.
type Recorder struct {
	mu      sync.Mutex
	runID   string
	clock   timeutil.Clock
	start   time.Time
	samples []Sample
}

// NewRecorder starts an empty run log.
func NewRecorder(clock timeutil.Clock) *Recorder {
	return &Recorder{
		runID: uuid.NewString(),
		clock: clock,
		start: clock.Now(),
	}
}

// RunID returns the unique identifier of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends one sample, stamping its elapsed time.
func (r *Recorder) Record(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Elapsed = r.clock.Since(r.start)
	r.samples = append(r.samples, s)
}

// Samples returns a copy of the recorded samples.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Summary condenses a run into its headline numbers. Speeds are in
// steps/s; the path length is integrated from successive positions.
type Summary struct {
	RunID        string        `json:"run_id"`
	Count        int           `json:"count"`
	Duration     time.Duration `json:"duration"`
	PathMM       float64       `json:"path_mm"`
	MeanSpeed    float64       `json:"mean_speed"`
	MaxSpeed     float64       `json:"max_speed"`
	SpeedStdDev  float64       `json:"speed_std_dev"`
	FinalX       int32         `json:"final_x_mm"`
	FinalY       int32         `json:"final_y_mm"`
	FinalHeading int32         `json:"final_heading_mrad"`
}

// Summarize computes the run summary. An empty run returns an error
// rather than a zero summary, so callers can tell the two apart.
func (r *Recorder) Summarize() (Summary, error) {
	samples := r.Samples()
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("run %s has no samples", r.runID)
	}

	speeds := make([]float64, len(samples))
	var path float64
	for i, s := range samples {
		speeds[i] = float64(s.Center)
		if i > 0 {
			prev := samples[i-1]
			path += math.Hypot(float64(s.X-prev.X), float64(s.Y-prev.Y))
		}
	}

	last := samples[len(samples)-1]
	return Summary{
		RunID:        r.runID,
		Count:        len(samples),
		Duration:     last.Elapsed,
		PathMM:       path,
		MeanSpeed:    stat.Mean(speeds, nil),
		MaxSpeed:     floats.Max(speeds),
		SpeedStdDev:  stat.StdDev(speeds, nil),
		FinalX:       last.X,
		FinalY:       last.Y,
		FinalHeading: last.Heading,
	}, nil
}
