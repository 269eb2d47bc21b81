package drive

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/units"
)

type pose struct {
	X, Y    int32
	Heading int32
}

func currentPose(o *Odometry) pose {
	x, y := o.Position()
	return pose{X: x, Y: y, Heading: o.Orientation()}
}

func TestOdometry_StraightDrive(t *testing.T) {
	enc := &hal.MockEncoders{}
	o := NewOdometry(enc)

	// 100 mm straight ahead, fed in small increments.
	steps := units.MMToSteps(100)
	for i := int32(0); i < steps; i += 8 {
		enc.Add(8, 8)
		o.Process()
	}

	got := currentPose(o)
	want := pose{X: 100, Y: 0, Heading: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pose mismatch (-want +got):\n%s", diff)
	}
	if got := o.MileageCenter(); got != 100 {
		t.Errorf("mileage = %d, want 100", got)
	}
}

func TestOdometry_FirstProcessIntegratesFromZero(t *testing.T) {
	enc := &hal.MockEncoders{}
	enc.Add(units.MMToSteps(25), units.MMToSteps(25))

	// Steps accumulated before the first Process call still count; the
	// counters integrate relative to zero, not to a priming read.
	o := NewOdometry(enc)
	o.Process()

	got := currentPose(o)
	want := pose{X: 25, Y: 0, Heading: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pose mismatch (-want +got):\n%s", diff)
	}
	if got := o.MileageCenter(); got != 25 {
		t.Errorf("mileage = %d, want 25", got)
	}
}

func TestOdometry_MileageIsDirectionAgnostic(t *testing.T) {
	enc := &hal.MockEncoders{}
	o := NewOdometry(enc)

	fwd := units.MMToSteps(50)
	enc.Add(fwd, fwd)
	o.Process()
	enc.Add(-fwd, -fwd)
	o.Process()

	// Back at the start, but 100 mm driven.
	if x, _ := o.Position(); x > 1 || x < -1 {
		t.Errorf("x = %d, want ~0 after out-and-back", x)
	}
	if got := o.MileageCenter(); got != 100 {
		t.Errorf("mileage = %d, want 100", got)
	}
}

func TestOdometry_MileageMonotonicAndClearable(t *testing.T) {
	enc := &hal.MockEncoders{}
	o := NewOdometry(enc)

	var last uint32
	deltas := []int32{8, -16, 4, 40, -8, 0, 24}
	for _, d := range deltas {
		enc.Add(d, d)
		o.Process()
		got := o.MileageCenter()
		if got < last {
			t.Fatalf("mileage decreased: %d -> %d", last, got)
		}
		last = got
	}

	o.ClearMileage()
	if got := o.MileageCenter(); got != 0 {
		t.Errorf("mileage after ClearMileage = %d, want 0", got)
	}
}

func TestOdometry_TurnInPlace(t *testing.T) {
	enc := &hal.MockEncoders{}
	o := NewOdometry(enc)

	// Opposite wheel travel turns in place: a quarter turn left needs
	// each wheel to travel pi/4 * wheelBase.
	travelMM := math.Pi / 4 * float64(units.WheelBaseMM)
	quarter := int32(math.Round(travelMM * units.StepsPerMM))
	step := int32(8)
	for driven := int32(0); driven < quarter; driven += step {
		enc.Add(-step, step)
		o.Process()
	}

	heading := o.Orientation()
	if heading < 1450 || heading > 1650 {
		t.Errorf("heading = %d mrad, want ~1571 (quarter turn)", heading)
	}
	x, y := o.Position()
	if abs32(x) > 5 || abs32(y) > 5 {
		t.Errorf("position drifted during in-place turn: (%d, %d)", x, y)
	}
}

func TestOdometry_ArcAdvancesBothAxes(t *testing.T) {
	enc := &hal.MockEncoders{}
	o := NewOdometry(enc)

	// Right wheel faster: robot curves left, so x and y must both grow.
	for i := 0; i < 200; i++ {
		enc.Add(6, 10)
		o.Process()
	}
	x, y := o.Position()
	if x <= 0 || y <= 0 {
		t.Errorf("pose = (%d, %d), want both positive on a left arc", x, y)
	}
	if o.Orientation() <= 0 {
		t.Errorf("heading = %d, want positive on a left arc", o.Orientation())
	}
}
