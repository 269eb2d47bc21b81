package app

import (
	"log"
	"sync"

	"github.com/banshee-data/trackbot/internal/fsm"
	"github.com/banshee-data/trackbot/internal/serialmux"
	"github.com/banshee-data/trackbot/internal/telemetry"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

// VehicleData is the telemetry snapshot published over the transport
// and served by the API: pose in mm/mrad, speeds in steps/s.
type VehicleData struct {
	X       int32 `json:"x_mm"`
	Y       int32 `json:"y_mm"`
	Heading int32 `json:"heading_mrad"`
	Left    int16 `json:"speed_left"`
	Right   int16 `json:"speed_right"`
	Center  int16 `json:"speed_center"`
}

// App owns the cooperative main loop. Everything control-related runs on
// the goroutine calling Loop; the serial monitor and HTTP handlers only
// ever talk to the loop through buffered channels and the snapshot.
type App struct {
	ctx     *Context
	machine *fsm.Machine

	mux       serialmux.Muxer // nil when running without a transport
	inboundID string
	inbound   chan string

	// remote carries speed setpoints queued by the API handlers into
	// the control loop.
	remote chan [2]int16

	controlTimer *timeutil.PollTimer
	reportTimer  *timeutil.PollTimer

	recorder *telemetry.Recorder // nil when not recording

	snapshotMu sync.RWMutex
	snapshot   VehicleData
}

// New creates the application over a prepared context. The mux may be
// nil for transport-less runs (tests, offline tools).
func New(ctx *Context, mux serialmux.Muxer) *App {
	return &App{
		ctx:          ctx,
		machine:      fsm.New(),
		mux:          mux,
		remote:       make(chan [2]int16, 4),
		controlTimer: timeutil.NewPollTimer(ctx.Clock),
		reportTimer:  timeutil.NewPollTimer(ctx.Clock),
	}
}

// SetRecorder attaches a run recorder fed on every telemetry report.
// Must be called before Setup.
func (a *App) SetRecorder(r *telemetry.Recorder) {
	a.recorder = r
}

// Context returns the application context, mainly for tests and tools.
func (a *App) Context() *Context {
	return a.ctx
}

// Machine returns the system state machine.
func (a *App) Machine() *fsm.Machine {
	return a.machine
}

// Setup initialises the state machine and loop timers and subscribes to
// the inbound transport stream.
func (a *App) Setup() {
	a.machine.SetState(a.ctx.States.Startup)
	a.controlTimer.Start(a.ctx.Timing.ControlPeriod)
	a.reportTimer.Start(a.ctx.Timing.ReportPeriod)

	if a.mux != nil {
		a.inboundID, a.inbound = a.mux.Subscribe()
	}
}

// Loop runs one cooperative tick. Ordering matters: the speedometer
// must run before the drive and odometry so both consume current-cycle
// speed, and the actuation path completes every tick.
func (a *App) Loop() {
	a.drainInbound()

	a.ctx.Speedometer.Process()

	if a.controlTimer.IsTimeout() {
		a.ctx.Drive.Process()
		a.ctx.Odometry.Process()
		a.controlTimer.Restart()
	}

	if a.reportTimer.IsTimeout() {
		a.reportVehicleData()
		a.reportTimer.Restart()
	}

	a.machine.Process()
}

// Close releases the transport subscription.
func (a *App) Close() {
	if a.mux != nil && a.inboundID != "" {
		a.mux.Unsubscribe(a.inboundID)
		a.inboundID = ""
		a.inbound = nil
	}
}

// QueueSpeedSetpoint hands a remote speed command to the control loop.
// Safe to call from other goroutines; excess commands are dropped so
// callers never block.
func (a *App) QueueSpeedSetpoint(left, right int16) {
	select {
	case a.remote <- [2]int16{left, right}:
	default:
	}
}

// VehicleData returns the latest published telemetry snapshot.
func (a *App) VehicleData() VehicleData {
	a.snapshotMu.RLock()
	defer a.snapshotMu.RUnlock()
	return a.snapshot
}

// drainInbound applies queued transport lines and remote commands
// without ever blocking the loop.
func (a *App) drainInbound() {
	for {
		select {
		case cmd := <-a.remote:
			a.ctx.Drive.SetLinearSpeed(cmd[0], cmd[1])
			continue
		default:
		}

		if a.inbound == nil {
			return
		}
		select {
		case line, ok := <-a.inbound:
			if !ok {
				a.inbound = nil
				return
			}
			a.handleInboundLine(line)
		default:
			return
		}
	}
}

func (a *App) handleInboundLine(line string) {
	switch serialmux.ClassifyPayload(line) {
	case serialmux.EventTypeSpeedSetpoint:
		left, right, err := serialmux.ParseSpeedSetpoint(line)
		if err != nil {
			log.Printf("ignoring bad speed setpoint: %v", err)
			return
		}
		a.ctx.Drive.SetLinearSpeed(left, right)

	case serialmux.EventTypeParamSelect:
		name, err := serialmux.ParseParamSelect(line)
		if err != nil {
			log.Printf("ignoring bad parameter select: %v", err)
			return
		}
		if err := a.ctx.Params.Select(name); err != nil {
			log.Printf("parameter select failed: %v", err)
			return
		}
		log.Printf("parameter set %q selected", name)

	default:
		log.Printf("ignoring unknown inbound payload %q", line)
	}
}

// reportVehicleData publishes the current pose and speeds and updates
// the API snapshot.
func (a *App) reportVehicleData() {
	x, y := a.ctx.Odometry.Position()
	data := VehicleData{
		X:       x,
		Y:       y,
		Heading: a.ctx.Odometry.Orientation(),
		Left:    a.ctx.Speedometer.LinearSpeedLeft(),
		Right:   a.ctx.Speedometer.LinearSpeedRight(),
		Center:  a.ctx.Speedometer.LinearSpeedCenter(),
	}

	a.snapshotMu.Lock()
	a.snapshot = data
	a.snapshotMu.Unlock()

	if a.recorder != nil {
		a.recorder.Record(telemetry.Sample{
			X: data.X, Y: data.Y, Heading: data.Heading,
			Left: data.Left, Right: data.Right, Center: data.Center,
		})
	}

	if a.mux != nil {
		line := serialmux.FormatVehicleData(data.X, data.Y, data.Heading, data.Left, data.Right, data.Center)
		if err := a.mux.SendLine(line); err != nil {
			log.Printf("failed to publish vehicle data: %v", err)
		}
	}
}
