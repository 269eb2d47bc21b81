// Command trackbot runs the line-following motion core against the
// simulated track, publishes vehicle data over the serial transport and
// serves the HTTP API. Hardware motor and sensor drivers live on the
// vehicle controller; this binary is the development vehicle and the
// ground-station side of the link.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/trackbot/internal/api"
	"github.com/banshee-data/trackbot/internal/app"
	"github.com/banshee-data/trackbot/internal/config"
	"github.com/banshee-data/trackbot/internal/hal"
	"github.com/banshee-data/trackbot/internal/serialmux"
	"github.com/banshee-data/trackbot/internal/telemetry"
	"github.com/banshee-data/trackbot/internal/timeutil"
)

var (
	devMode    = flag.Bool("dev", false, "Run with a mock serial port and auto-start one lap")
	listen     = flag.String("listen", ":8080", "Listen address")
	port       = flag.String("port", "/dev/ttyACM0", "Serial port for telemetry and commands (ignored in dev mode)")
	configPath = flag.String("config", "", "Optional tuning config file")
)

// applyTuning merges the tuning file over the built-in defaults.
func applyTuning(path string, timing *app.Timing, params *app.ParameterSets) error {
	cfg, err := config.LoadTuningConfig(path)
	if err != nil {
		return err
	}

	if timing.ControlPeriod, err = config.Duration(cfg.ControlPeriod, timing.ControlPeriod); err != nil {
		return err
	}
	if timing.PIDPeriod, err = config.Duration(cfg.PIDPeriod, timing.PIDPeriod); err != nil {
		return err
	}
	if timing.ReportPeriod, err = config.Duration(cfg.ReportPeriod, timing.ReportPeriod); err != nil {
		return err
	}
	if timing.ObservationTimeout, err = config.Duration(cfg.ObservationTimeout, timing.ObservationTimeout); err != nil {
		return err
	}
	if cfg.MaxGapDistanceMM != nil {
		timing.MaxGapDistanceMM = *cfg.MaxGapDistanceMM
	}

	return params.ApplyTuning(cfg.ParameterSets)
}

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	timing := app.DefaultTiming()
	params := app.DefaultParameterSets()
	if *configPath != "" {
		if err := applyTuning(*configPath, &timing, params); err != nil {
			log.Fatalf("failed to apply tuning config: %v", err)
		}
		log.Printf("applied tuning config %s", *configPath)
	}

	board, sim := hal.NewSimBoard(hal.DefaultSimConfig())
	clock := timeutil.RealClock{}
	appCtx := app.NewContext(board, clock, params, timing)

	var mux serialmux.Muxer
	if *devMode {
		mux = serialmux.NewMockSerialMux(nil)
	} else {
		realMux, err := serialmux.NewRealSerialMux(*port)
		if err != nil {
			log.Fatalf("failed to open serial port %s: %v", *port, err)
		}
		mux = realMux
	}
	defer mux.Close()

	a := app.New(appCtx, mux)
	recorder := telemetry.NewRecorder(clock)
	a.SetRecorder(recorder)
	a.Setup()
	defer a.Close()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := mux.Monitor(ctx); err != nil && err != context.Canceled {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		httpMux := http.NewServeMux()
		api.NewServer(a, recorder).AttachRoutes(httpMux)
		if admin, ok := mux.(interface{ AttachAdminRoutes(*http.ServeMux) }); ok {
			admin.AttachAdminRoutes(httpMux)
		}

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LogRequests(httpMux),
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()
		log.Printf("listening on %s", *listen)

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
	}()

	// In dev mode nobody presses the physical button, so arm a run: a
	// short press to leave startup, then a held press to arm the
	// release countdown.
	if *devMode {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Sleep(200 * time.Millisecond)
			sim.PressButton(true)
			clock.Sleep(50 * time.Millisecond)
			sim.PressButton(false)

			clock.Sleep(200 * time.Millisecond)
			sim.PressButton(true)
			clock.Sleep(app.ArmHoldDuration + 100*time.Millisecond)
			sim.PressButton(false)
		}()
	}

	// Cooperative control loop on the main goroutine. The simulated
	// track advances in lockstep with the loop cadence.
	stepMillis := int(timing.ControlPeriod.Milliseconds())
	for ctx.Err() == nil {
		sim.Step(stepMillis)
		a.Loop()
		clock.Sleep(timing.ControlPeriod)
	}

	wg.Wait()

	if summary, err := recorder.Summarize(); err == nil {
		log.Printf("run %s: %d samples, %.0f mm driven, mean speed %.0f steps/s",
			summary.RunID, summary.Count, summary.PathMM, summary.MeanSpeed)
	}
	log.Printf("Graceful shutdown complete")
}
