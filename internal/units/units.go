// Package units provides the physical robot constants and the conversions
// between encoder steps and millimetres used by the drive and odometry
// code. All control arithmetic is integer; speeds are steps per second,
// distances millimetres, angles milliradians.
package units

// Physical platform constants. The wheel diameter is the calibrated value
// (real diameter adapted after a calibration drive), not the nominal one.
const (
	// GearRatioThousandth is the gear ratio multiplied by 1000.
	GearRatioThousandth = 75810

	// EncoderResolution is encoder counts per motor shaft revolution.
	EncoderResolution = 12

	// WheelDiameterMM is the calibrated wheel diameter in mm.
	WheelDiameterMM = 36

	// WheelBaseMM is the distance between the wheel contact points in mm.
	WheelBaseMM = 85

	// WheelCircumferenceUM is the wheel circumference in micrometres.
	WheelCircumferenceUM = 113097

	// StepsPerMM is the number of encoder steps per millimetre of wheel
	// travel: (EncoderResolution * GearRatioThousandth) / WheelCircumferenceUM.
	StepsPerMM = (EncoderResolution * GearRatioThousandth) / WheelCircumferenceUM
)

// StepsToMM converts encoder steps to millimetres (integer division).
func StepsToMM(steps int32) int32 {
	return steps / StepsPerMM
}

// MMToSteps converts millimetres to encoder steps.
func MMToSteps(mm int32) int32 {
	return mm * StepsPerMM
}

// StepsPerSecToMMPerSec converts a speed in steps/s to mm/s.
func StepsPerSecToMMPerSec(stepsPerSec int32) int32 {
	return stepsPerSec / StepsPerMM
}

// MradToRad converts milliradians to radians.
func MradToRad(mrad int32) float64 {
	return float64(mrad) / 1000.0
}
