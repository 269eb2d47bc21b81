package control

import "testing"

func TestMovingAverage_ConvergesToConstantInput(t *testing.T) {
	avg := NewMovingAverage[int32](5)
	var result int32
	for i := 0; i < 5; i++ {
		result = avg.Write(1234)
	}
	if result != 1234 {
		t.Errorf("after depth identical inputs: result = %d, want 1234", result)
	}
}

func TestMovingAverage_PartialFillAveragesWrittenSamples(t *testing.T) {
	avg := NewMovingAverage[int32](4)
	avg.Write(100)
	if got := avg.Write(300); got != 200 {
		t.Errorf("average of two samples = %d, want 200", got)
	}
}

func TestMovingAverage_OldSamplesDropOut(t *testing.T) {
	avg := NewMovingAverage[int32](2)
	avg.Write(1000)
	avg.Write(0)
	if got := avg.Write(0); got != 0 {
		t.Errorf("result = %d, want 0 after first sample aged out", got)
	}
}

func TestMovingAverage_ClearDropsHistory(t *testing.T) {
	avg := NewMovingAverage[int32](8)
	for i := 0; i < 8; i++ {
		avg.Write(4000)
	}
	avg.Clear()
	if got := avg.Result(); got != 0 {
		t.Errorf("Result() after Clear = %d, want 0", got)
	}
	// A single sample fully determines the result, no residual history.
	if got := avg.Write(70); got != 70 {
		t.Errorf("first sample after Clear = %d, want 70", got)
	}
}

func TestMovingAverage_MinimumDepthOne(t *testing.T) {
	avg := NewMovingAverage[int16](0)
	if got := avg.Write(42); got != 42 {
		t.Errorf("depth-1 filter result = %d, want 42", got)
	}
}
