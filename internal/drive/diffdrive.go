package drive

// DifferentialDrive maps desired per-wheel linear speed to bounded motor
// commands. Commands are clamped to the platform's maximum motor speed,
// which it exposes so controller output limits can be derived from real
// hardware capability.
type DifferentialDrive struct {
	motors      motorDriver
	speedometer *Speedometer

	setLeft  int16 // steps/s
	setRight int16 // steps/s
}

// motorDriver is the subset of hal.Motors the drive needs.
type motorDriver interface {
	SetSpeeds(left, right int16)
	MaxMotorSpeed() int16
}

// NewDifferentialDrive creates the drive over the given motors with the
// speedometer supplying measured speed context.
func NewDifferentialDrive(motors motorDriver, speedometer *Speedometer) *DifferentialDrive {
	return &DifferentialDrive{motors: motors, speedometer: speedometer}
}

// MaxMotorSpeed returns the maximum attainable motor speed in steps/s.
func (d *DifferentialDrive) MaxMotorSpeed() int16 {
	return d.motors.MaxMotorSpeed()
}

// SetLinearSpeed commands the desired left/right linear speed in
// steps/s. The command is bounded and forwarded to the motors at once so
// a stop takes effect within the same cycle, and re-applied on every
// Process call.
func (d *DifferentialDrive) SetLinearSpeed(left, right int16) {
	max := d.motors.MaxMotorSpeed()
	d.setLeft = clampInt16(left, -max, max)
	d.setRight = clampInt16(right, -max, max)
	d.motors.SetSpeeds(d.setLeft, d.setRight)
}

// LinearSpeedSet returns the currently commanded speed pair.
func (d *DifferentialDrive) LinearSpeedSet() (left, right int16) {
	return d.setLeft, d.setRight
}

// Process actuates the current command. It runs once per control period,
// after the speedometer, so the actuation path completes every tick even
// when no new command arrived.
func (d *DifferentialDrive) Process() {
	d.motors.SetSpeeds(d.setLeft, d.setRight)
}

// MeasuredSpeedLeft returns the measured left wheel speed in steps/s.
func (d *DifferentialDrive) MeasuredSpeedLeft() int16 {
	return d.speedometer.LinearSpeedLeft()
}

// MeasuredSpeedRight returns the measured right wheel speed in steps/s.
func (d *DifferentialDrive) MeasuredSpeedRight() int16 {
	return d.speedometer.LinearSpeedRight()
}

func clampInt16(v, min, max int16) int16 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
