// Package api exposes the robot to the surrounding tooling over HTTP:
// the current vehicle data, a remote speed setpoint endpoint, and debug
// views of the recorded run. The handlers never touch control state
// directly; reads go through the telemetry snapshot and writes through
// the control loop's command queue.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/trackbot/internal/app"
	"github.com/banshee-data/trackbot/internal/telemetry"
)

// ANSI escape codes for request logging.
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Vehicle is the slice of the application the API needs.
type Vehicle interface {
	VehicleData() app.VehicleData
	QueueSpeedSetpoint(left, right int16)
}

type Server struct {
	vehicle  Vehicle
	recorder *telemetry.Recorder // nil when the run is not recorded
}

func NewServer(vehicle Vehicle, recorder *telemetry.Recorder) *Server {
	return &Server{
		vehicle:  vehicle,
		recorder: recorder,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LogRequests wraps a handler with one-line request logging.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf("%s%s%s %s %s %v", colorCyan, r.Method, colorReset,
			r.URL.Path, statusCodeColor(lrw.statusCode), time.Since(start))
	})
}

// AttachRoutes registers the API endpoints on the given mux.
func (s *Server) AttachRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/vehicle", s.handleVehicle)
	mux.HandleFunc("/api/vehicle/speed", s.handleSpeed)
	mux.HandleFunc("/api/run/summary", s.handleRunSummary)
	mux.HandleFunc("/debug/run-chart", s.handleRunChart)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// handleVehicle serves the latest telemetry snapshot.
func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, s.vehicle.VehicleData())
}

type speedRequest struct {
	Left  int16 `json:"left"`
	Right int16 `json:"right"`
}

// handleSpeed queues a remote speed setpoint for the control loop.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.vehicle.QueueSpeedSetpoint(req.Left, req.Right)
	w.WriteHeader(http.StatusAccepted)
	s.writeJSON(w, map[string]any{"left": req.Left, "right": req.Right})
}

// handleRunSummary serves the recorded run's summary statistics.
func (s *Server) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		s.writeJSONError(w, http.StatusNotFound, "run recording not enabled")
		return
	}
	summary, err := s.recorder.Summarize()
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, summary)
}
