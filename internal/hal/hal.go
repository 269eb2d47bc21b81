// Package hal defines the hardware abstraction boundary of the motion
// control core: line sensors, wheel encoders, motors and the operator
// feedback devices. The control code only ever sees these interfaces;
// concrete drivers, mocks and the track simulator live behind them.
package hal

// LineSensors reads the reflectance sensor array under the robot.
type LineSensors interface {
	// ReadLine samples the array and returns the estimated line position
	// in the range [0, (SensorCount-1)*1000]. The extremes mean only the
	// outermost sensor still sees the line.
	ReadLine() int32

	// SensorValues returns the raw intensity values of the last
	// ReadLine call, one per sensor. May be nil before the first read.
	SensorValues() []uint16

	// SensorCount returns the number of sensors in the array.
	SensorCount() int

	// SensorValueMax returns the maximum raw value a single sensor
	// can report.
	SensorValueMax() uint16
}

// Motors drives the two wheel motors.
type Motors interface {
	// SetSpeeds commands both motors in steps/s. Values outside
	// [-MaxMotorSpeed, MaxMotorSpeed] are clamped by the driver.
	SetSpeeds(left, right int16)

	// MaxMotorSpeed returns the maximum attainable motor speed in
	// steps/s.
	MaxMotorSpeed() int16
}

// Encoders reports cumulative wheel encoder step counts. Counts are
// signed and wrap on int32 overflow; consumers work with deltas.
type Encoders interface {
	StepsLeft() int32
	StepsRight() int32
}

// Led is a simple on/off indicator.
type Led interface {
	Enable(on bool)
}

// Buzzer gives audible operator feedback. Not part of the control law.
type Buzzer interface {
	// Beep plays a short confirmation tone.
	Beep()

	// Alarm plays the failure tone.
	Alarm()
}

// Button is a momentary operator button.
type Button interface {
	IsPressed() bool
}

// Board bundles the device set of one robot. It is constructed once at
// startup and passed by reference into the application; there is no
// global board instance.
type Board struct {
	LineSensors LineSensors
	Motors      Motors
	Encoders    Encoders
	YellowLed   Led
	Buzzer      Buzzer
	Button      Button
}
