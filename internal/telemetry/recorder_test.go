package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/trackbot/internal/timeutil"
)

func TestRecorder_StampsElapsed(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	r := NewRecorder(clock)

	r.Record(Sample{Center: 100})
	clock.Advance(250 * time.Millisecond)
	r.Record(Sample{Center: 200})

	samples := r.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, time.Duration(0), samples[0].Elapsed)
	assert.Equal(t, 250*time.Millisecond, samples[1].Elapsed)
}

func TestRecorder_SamplesReturnsCopy(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	r := NewRecorder(clock)
	r.Record(Sample{X: 1})

	got := r.Samples()
	got[0].X = 999

	want := r.Samples()[0]
	if diff := cmp.Diff(int32(1), want.X); diff != "" {
		t.Errorf("recorded sample mutated through copy (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	r := NewRecorder(clock)

	// 3-4-5 triangle legs: path length 100 + 100.
	r.Record(Sample{X: 0, Y: 0, Center: 800})
	clock.Advance(time.Second)
	r.Record(Sample{X: 60, Y: 80, Center: 1000})
	clock.Advance(time.Second)
	r.Record(Sample{X: 120, Y: 160, Center: 1200, Heading: 700})

	sum, err := r.Summarize()
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 2*time.Second, sum.Duration)
	assert.InDelta(t, 200.0, sum.PathMM, 0.1)
	assert.InDelta(t, 1000.0, sum.MeanSpeed, 0.1)
	assert.InDelta(t, 1200.0, sum.MaxSpeed, 0.1)
	assert.Equal(t, int32(120), sum.FinalX)
	assert.Equal(t, int32(700), sum.FinalHeading)
	assert.Equal(t, r.RunID(), sum.RunID)
}

func TestSummarize_EmptyRun(t *testing.T) {
	r := NewRecorder(timeutil.NewMockClock(time.Now()))
	_, err := r.Summarize()
	assert.Error(t, err)
}

func TestWritePlots(t *testing.T) {
	clock := timeutil.NewMockClock(time.Now())
	r := NewRecorder(clock)
	for i := 0; i < 20; i++ {
		r.Record(Sample{X: int32(i * 10), Y: int32(i * i), Center: int16(500 + i*10)})
		clock.Advance(100 * time.Millisecond)
	}

	dir := t.TempDir()
	require.NoError(t, WriteTrajectoryPlot(r.Samples(), filepath.Join(dir, "traj.png")))
	require.NoError(t, WriteSpeedPlot(r.Samples(), filepath.Join(dir, "speed.png")))
}

func TestWritePlots_NoSamples(t *testing.T) {
	assert.Error(t, WriteTrajectoryPlot(nil, "x.png"))
	assert.Error(t, WriteSpeedPlot(nil, "x.png"))
}
