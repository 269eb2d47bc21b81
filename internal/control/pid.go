// Package control holds the generic discrete control primitives of the
// motion core: a fixed-point PID controller and a fixed-depth moving
// average filter. Both are integer-only so behaviour is deterministic on
// targets without floating point.
package control

// Signed constrains the controller's value type to signed integers.
type Signed interface {
	~int16 | ~int32 | ~int64
}

// PIDController is a discrete PID controller with rational gains. Each
// gain is a numerator/denominator pair evaluated in integer arithmetic,
// so the control law rounds exactly the same way on every target.
//
// The controller is sample-time agnostic at runtime: the caller invokes
// Calculate once per sample period and the gains are interpreted per
// sample. SampleTime records the nominal period so callers can arm their
// cadence timers from it.
type PIDController[T Signed] struct {
	kpNum, kpDen int64
	kiNum, kiDen int64
	kdNum, kdDen int64

	min, max int64

	sampleTimeMillis uint32

	derivativeOnMeasurement bool

	integral    int64
	lastError   int64
	lastProcess int64

	// reseed suppresses the derivative term for one sample after Clear
	// or Resync, so it is never computed against stale memory.
	reseed bool
}

// NewPIDController returns a controller with zero gains and unbounded
// output disabled: limits default to the full range of int64 until
// SetLimits is called.
func NewPIDController[T Signed]() *PIDController[T] {
	return &PIDController[T]{
		min:    -int64(^uint64(0) >> 1),
		max:    int64(^uint64(0) >> 1),
		reseed: true,
	}
}

// SetPFactor sets the proportional gain as numerator/denominator.
func (c *PIDController[T]) SetPFactor(num, den T) {
	c.kpNum, c.kpDen = int64(num), int64(den)
}

// SetIFactor sets the integral gain as numerator/denominator.
func (c *PIDController[T]) SetIFactor(num, den T) {
	c.kiNum, c.kiDen = int64(num), int64(den)
}

// SetDFactor sets the derivative gain as numerator/denominator.
func (c *PIDController[T]) SetDFactor(num, den T) {
	c.kdNum, c.kdDen = int64(num), int64(den)
}

// SetLimits bounds the controller output to [min, max]. The output is
// clamped unconditionally; this clamping is the only anti-windup
// mechanism, the integral accumulator itself is never frozen.
func (c *PIDController[T]) SetLimits(min, max T) {
	c.min, c.max = int64(min), int64(max)
}

// SetSampleTime records the nominal sample period in milliseconds.
func (c *PIDController[T]) SetSampleTime(millis uint32) {
	c.sampleTimeMillis = millis
}

// SampleTime returns the nominal sample period in milliseconds.
func (c *PIDController[T]) SampleTime() uint32 {
	return c.sampleTimeMillis
}

// SetDerivativeOnMeasurement selects whether the derivative term is
// computed from the change in the measured process value instead of the
// change in error. This avoids derivative kicks when the setpoint
// changes.
func (c *PIDController[T]) SetDerivativeOnMeasurement(on bool) {
	c.derivativeOnMeasurement = on
}

// Clear resets all internal memory: integral accumulator, last error and
// last process value.
func (c *PIDController[T]) Clear() {
	c.integral = 0
	c.lastError = 0
	c.lastProcess = 0
	c.reseed = true
}

// Resync drops only the derivative/error memory, keeping the integral
// accumulator. Used after a period of open-loop driving so the next
// sample's derivative is not computed against a pre-gap measurement.
func (c *PIDController[T]) Resync() {
	c.lastError = 0
	c.lastProcess = 0
	c.reseed = true
}

// Calculate runs one controller sample and returns the clamped output.
func (c *PIDController[T]) Calculate(setpoint, processValue T) T {
	err := int64(setpoint) - int64(processValue)

	proportional := ratio(c.kpNum, c.kpDen, err)

	c.integral += ratio(c.kiNum, c.kiDen, err)

	var derivative int64
	if !c.reseed {
		if c.derivativeOnMeasurement {
			derivative = ratio(c.kdNum, c.kdDen, c.lastProcess-int64(processValue))
		} else {
			derivative = ratio(c.kdNum, c.kdDen, err-c.lastError)
		}
	}
	c.reseed = false
	c.lastError = err
	c.lastProcess = int64(processValue)

	out := proportional + c.integral + derivative
	if out > c.max {
		out = c.max
	} else if out < c.min {
		out = c.min
	}
	return T(out)
}

// ratio computes num*value/den, treating a zero denominator as a zero
// gain.
func ratio(num, den, value int64) int64 {
	if den == 0 {
		return 0
	}
	return num * value / den
}
