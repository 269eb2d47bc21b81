package units

import "testing"

func TestStepsPerMM(t *testing.T) {
	// 12 counts * 75.810 gear ratio per 113.097 mm circumference.
	if StepsPerMM != 8 {
		t.Errorf("StepsPerMM = %d, want 8", StepsPerMM)
	}
}

func TestStepsToMMRoundTrip(t *testing.T) {
	mm := int32(250)
	steps := MMToSteps(mm)
	if got := StepsToMM(steps); got != mm {
		t.Errorf("StepsToMM(MMToSteps(%d)) = %d", mm, got)
	}
}

func TestStepsToMM_Negative(t *testing.T) {
	if got := StepsToMM(-80); got != -10 {
		t.Errorf("StepsToMM(-80) = %d, want -10", got)
	}
}

func TestMradToRad(t *testing.T) {
	if got := MradToRad(3142); got < 3.141 || got > 3.143 {
		t.Errorf("MradToRad(3142) = %v, want ~pi", got)
	}
}
