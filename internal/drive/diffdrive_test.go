package drive

import (
	"testing"
	"time"

	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

func newTestDrive() (*DifferentialDrive, *hal.MockMotors) {
	clock := timeutil.NewMockClock(time.Now())
	enc := &hal.MockEncoders{}
	motors := &hal.MockMotors{Max: 2000}
	return NewDifferentialDrive(motors, NewSpeedometer(clock, enc)), motors
}

func TestDifferentialDrive_ForwardsCommandImmediately(t *testing.T) {
	d, motors := newTestDrive()

	d.SetLinearSpeed(800, 600)
	if motors.Left != 800 || motors.Right != 600 {
		t.Errorf("motors = (%d, %d), want (800, 600)", motors.Left, motors.Right)
	}
}

func TestDifferentialDrive_ClampsToMaxMotorSpeed(t *testing.T) {
	d, motors := newTestDrive()

	d.SetLinearSpeed(3000, -3000)
	if motors.Left != 2000 || motors.Right != -2000 {
		t.Errorf("motors = (%d, %d), want (2000, -2000)", motors.Left, motors.Right)
	}
	l, r := d.LinearSpeedSet()
	if l != 2000 || r != -2000 {
		t.Errorf("stored command = (%d, %d), want clamped (2000, -2000)", l, r)
	}
}

func TestDifferentialDrive_ProcessReappliesCommand(t *testing.T) {
	d, motors := newTestDrive()

	d.SetLinearSpeed(500, 500)
	before := len(motors.Commands)
	d.Process()
	if len(motors.Commands) != before+1 {
		t.Fatalf("Process did not actuate")
	}
	if motors.Left != 500 || motors.Right != 500 {
		t.Errorf("motors = (%d, %d), want (500, 500)", motors.Left, motors.Right)
	}
}

func TestDifferentialDrive_ExposesPlatformLimit(t *testing.T) {
	d, _ := newTestDrive()
	if got := d.MaxMotorSpeed(); got != 2000 {
		t.Errorf("MaxMotorSpeed = %d, want 2000", got)
	}
}
