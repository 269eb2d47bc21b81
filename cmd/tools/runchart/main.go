// Command runchart drives one simulated lap headlessly and writes the
// recorded trajectory and speed charts to image files. Useful for
// comparing tuning changes without starting the full server.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/banshee-data/trackbot/internal/app"
	"github.com/banshee-data/trackbot/internal/config"
	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/telemetry"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

var (
	outDir     = flag.String("out", ".", "Output directory for the chart images")
	paramSet   = flag.String("params", "easy", "Parameter set to drive with (easy/medium/fast)")
	maxSimTime = flag.Duration("max-time", 2*time.Minute, "Simulated time budget for the lap")
	configPath = flag.String("config", "", "Optional tuning config file")
)

func main() {
	flag.Parse()

	timing := app.DefaultTiming()
	params := app.DefaultParameterSets()
	if *configPath != "" {
		cfg, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		if err := params.ApplyTuning(cfg.ParameterSets); err != nil {
			log.Fatalf("failed to apply tuning config: %v", err)
		}
	}
	if err := params.Select(*paramSet); err != nil {
		log.Fatalf("%v", err)
	}

	board, sim := hal.NewSimBoard(hal.DefaultSimConfig())

	// The whole lap runs on a mock clock: simulated minutes complete in
	// wall-clock milliseconds.
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	appCtx := app.NewContext(board, clock, params, timing)

	a := app.New(appCtx, nil)
	recorder := telemetry.NewRecorder(clock)
	a.SetRecorder(recorder)
	a.Setup()

	// Through startup and ready into the release countdown: a short
	// press leaves startup, a held press arms the release.
	sim.PressButton(true)
	a.Loop()
	sim.PressButton(false)
	a.Loop()

	sim.PressButton(true)
	a.Loop()
	clock.Advance(app.ArmHoldDuration)
	a.Loop()
	sim.PressButton(false)

	states := appCtx.States
	stepMillis := int(timing.ControlPeriod.Milliseconds())
	start := clock.Now()
	laps := 0

	for clock.Since(start) < *maxSimTime {
		clock.Advance(timing.ControlPeriod)
		sim.Step(stepMillis)
		a.Loop()

		// One full lap ends back in ready with a lap time recorded.
		if a.Machine().Active() == states.Ready {
			if lap, ok := states.Ready.LapTime(); ok {
				log.Printf("lap complete in %v (simulated)", lap)
				laps++
				break
			}
		}
	}
	if laps == 0 {
		log.Printf("no lap completed within %v of simulated time", *maxSimTime)
	}

	samples := recorder.Samples()
	if len(samples) == 0 {
		log.Fatal("no telemetry recorded")
	}

	trajectory := filepath.Join(*outDir, "trajectory.png")
	if err := telemetry.WriteTrajectoryPlot(samples, trajectory); err != nil {
		log.Fatalf("failed to write trajectory plot: %v", err)
	}
	speed := filepath.Join(*outDir, "speed.png")
	if err := telemetry.WriteSpeedPlot(samples, speed); err != nil {
		log.Fatalf("failed to write speed plot: %v", err)
	}

	summary, err := recorder.Summarize()
	if err != nil {
		log.Fatalf("failed to summarise run: %v", err)
	}
	log.Printf("run %s: %d samples, %.0f mm driven, mean speed %.0f steps/s",
		summary.RunID, summary.Count, summary.PathMM, summary.MeanSpeed)
	log.Printf("wrote %s and %s", trajectory, speed)
}
