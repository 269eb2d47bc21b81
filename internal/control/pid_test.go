package control

import "testing"

func newTestPID() *PIDController[int16] {
	pid := NewPIDController[int16]()
	pid.SetPFactor(1, 4)
	pid.SetIFactor(1, 100)
	pid.SetDFactor(1, 10)
	pid.SetLimits(-2000, 2000)
	pid.SetSampleTime(10)
	return pid
}

func TestPID_ZeroErrorZeroOutput(t *testing.T) {
	pid := newTestPID()
	for i := 0; i < 10; i++ {
		if out := pid.Calculate(2000, 2000); out != 0 {
			t.Fatalf("sample %d: output = %d, want 0", i, out)
		}
	}
}

func TestPID_ProportionalOnly(t *testing.T) {
	pid := NewPIDController[int16]()
	pid.SetPFactor(1, 2)
	pid.SetLimits(-1000, 1000)

	if out := pid.Calculate(400, 0); out != 200 {
		t.Errorf("output = %d, want 200", out)
	}
	// Negative error mirrors.
	if out := pid.Calculate(0, 400); out != -200 {
		t.Errorf("output = %d, want -200", out)
	}
}

func TestPID_ClampInvariantUnderConstantError(t *testing.T) {
	pid := newTestPID()
	// Constant large error: integral winds up, output must converge to
	// the clamp and never exceed it on any sample.
	for i := 0; i < 500; i++ {
		out := pid.Calculate(4000, 0)
		if out < -2000 || out > 2000 {
			t.Fatalf("sample %d: output %d outside [-2000, 2000]", i, out)
		}
	}
	if out := pid.Calculate(4000, 0); out != 2000 {
		t.Errorf("converged output = %d, want clamp 2000", out)
	}
}

func TestPID_DerivativeOnMeasurementIgnoresSetpointStep(t *testing.T) {
	pid := NewPIDController[int16]()
	pid.SetDFactor(1, 1)
	pid.SetLimits(-1000, 1000)
	pid.SetDerivativeOnMeasurement(true)

	pid.Calculate(0, 100)
	// Setpoint jumps, measurement constant: derivative must stay zero.
	if out := pid.Calculate(500, 100); out != 0 {
		t.Errorf("output = %d, want 0 (no derivative kick)", out)
	}

	// Measurement change does produce a derivative.
	if out := pid.Calculate(500, 150); out != -50 {
		t.Errorf("output = %d, want -50", out)
	}
}

func TestPID_DerivativeOnError(t *testing.T) {
	pid := NewPIDController[int16]()
	pid.SetDFactor(1, 1)
	pid.SetLimits(-1000, 1000)

	pid.Calculate(0, 0)
	// Error goes 0 -> 300: derivative term is 300.
	if out := pid.Calculate(300, 0); out != 300 {
		t.Errorf("output = %d, want 300", out)
	}
}

func TestPID_FirstSampleHasNoDerivative(t *testing.T) {
	pid := NewPIDController[int16]()
	pid.SetDFactor(1, 1)
	pid.SetLimits(-1000, 1000)
	pid.SetDerivativeOnMeasurement(true)

	// Without a previous measurement the derivative must be zero, not a
	// spike computed against the zero-initialised memory.
	if out := pid.Calculate(0, 900); out != 0 {
		t.Errorf("first sample output = %d, want 0", out)
	}
}

func TestPID_ClearResetsIntegral(t *testing.T) {
	pid := newTestPID()
	for i := 0; i < 50; i++ {
		pid.Calculate(4000, 0)
	}
	pid.Clear()
	// 1/4 * 4000 proportional + 1/100 * 4000 integral, no derivative.
	if out := pid.Calculate(4000, 0); out != 1040 {
		t.Errorf("output after Clear = %d, want 1040", out)
	}
}

func TestPID_ResyncKeepsIntegralDropsDerivativeMemory(t *testing.T) {
	pid := NewPIDController[int16]()
	pid.SetIFactor(1, 100)
	pid.SetDFactor(1, 1)
	pid.SetLimits(-2000, 2000)
	pid.SetDerivativeOnMeasurement(true)

	pid.Calculate(4000, 1000) // integral = 30
	pid.Calculate(4000, 1000) // integral = 60
	pid.Resync()

	// Measurement moved a lot during open-loop driving; the derivative
	// must not fire against the pre-resync value, but the integral is
	// retained: 30 (new error/100) + 60 = 90.
	if out := pid.Calculate(4000, 1000); out != 90 {
		t.Errorf("output after Resync = %d, want 90", out)
	}
}

func TestPID_ZeroDenominatorIsZeroGain(t *testing.T) {
	pid := NewPIDController[int16]()
	pid.SetPFactor(5, 0)
	pid.SetLimits(-100, 100)
	if out := pid.Calculate(1000, 0); out != 0 {
		t.Errorf("output = %d, want 0 for zero denominator", out)
	}
}
