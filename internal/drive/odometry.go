package drive

import (
	"math"

	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/units"
)

// minEncoderSteps is the combined step delta both wheels must accumulate
// before the pose is advanced. Integrating below this resolution only
// adds truncation drift.
const minEncoderSteps = 2 * units.StepsPerMM // about 1 mm of centre travel

// piMrad is pi in milliradians, the wrap bound for the heading.
const piMrad = 3142

// Odometry dead-reckons the robot pose from encoder deltas. It owns the
// pose and the mileage counter exclusively; everything else reads them
// through accessors.
//
// Coordinates: x/y in mm, heading in mrad normalised to [-pi, pi], zero
// heading along +x. Mileage is the unsigned centre distance in mm since
// the last ClearMileage, independent of pose.
type Odometry struct {
	encoders hal.Encoders

	lastLeft  int32
	lastRight int32

	// Residual step deltas not yet integrated into the pose.
	accLeft  int32
	accRight int32

	x       float64 // mm
	y       float64 // mm
	heading float64 // rad

	mileageHalfSteps uint64 // accumulated |dLeft+dRight|
}

// NewOdometry creates an odometry unit over the given encoders.
func NewOdometry(encoders hal.Encoders) *Odometry {
	return &Odometry{encoders: encoders}
}

// Process consumes the latest encoder deltas. Mileage accumulates every
// call; the pose advances once enough steps have built up for a
// meaningful midpoint integration.
func (o *Odometry) Process() {
	left := o.encoders.StepsLeft()
	right := o.encoders.StepsRight()

	dLeft := left - o.lastLeft
	dRight := right - o.lastRight
	o.lastLeft = left
	o.lastRight = right

	if dLeft == 0 && dRight == 0 {
		return
	}

	o.mileageHalfSteps += uint64(abs32(dLeft + dRight))

	o.accLeft += dLeft
	o.accRight += dRight
	if abs32(o.accLeft)+abs32(o.accRight) < minEncoderSteps {
		return
	}

	distMM := float64(o.accLeft+o.accRight) / (2 * units.StepsPerMM)
	dHeading := float64(o.accRight-o.accLeft) / (units.StepsPerMM * units.WheelBaseMM)
	o.accLeft = 0
	o.accRight = 0

	// Midpoint integration: advance along the average heading of the
	// segment.
	mid := o.heading + dHeading/2
	o.x += distMM * math.Cos(mid)
	o.y += distMM * math.Sin(mid)
	o.heading = wrapAngle(o.heading + dHeading)
}

// Position returns the current pose x/y in mm.
func (o *Odometry) Position() (x, y int32) {
	return int32(o.x), int32(o.y)
}

// Orientation returns the heading in mrad within [-pi, pi].
func (o *Odometry) Orientation() int32 {
	mrad := int32(math.Round(o.heading * 1000))
	if mrad > piMrad {
		mrad = piMrad
	} else if mrad < -piMrad {
		mrad = -piMrad
	}
	return mrad
}

// MileageCenter returns the unsigned centre mileage in mm since the last
// ClearMileage call. It is monotonically non-decreasing between clears.
func (o *Odometry) MileageCenter() uint32 {
	return uint32(o.mileageHalfSteps / (2 * units.StepsPerMM))
}

// ClearMileage resets the mileage counter to exactly zero. The pose is
// unaffected.
func (o *Odometry) ClearMileage() {
	o.mileageHalfSteps = 0
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func wrapAngle(rad float64) float64 {
	for rad > math.Pi {
		rad -= 2 * math.Pi
	}
	for rad < -math.Pi {
		rad += 2 * math.Pi
	}
	return rad
}
