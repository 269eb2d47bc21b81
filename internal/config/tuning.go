// Package config loads the optional JSON tuning file. All fields are
// pointers so the file only needs to name the values it overrides; the
// application merges it over its built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// ParameterSetTuning overrides one named driving parameter set. Gains
// are rational numerator/denominator pairs.
type ParameterSetTuning struct {
	TopSpeed *int16 `json:"top_speed,omitempty"` // steps/s

	KPNum *int16 `json:"kp_num,omitempty"`
	KPDen *int16 `json:"kp_den,omitempty"`
	KINum *int16 `json:"ki_num,omitempty"`
	KIDen *int16 `json:"ki_den,omitempty"`
	KDNum *int16 `json:"kd_num,omitempty"`
	KDDen *int16 `json:"kd_den,omitempty"`
}

// TuningConfig is the root of the tuning file.
type TuningConfig struct {
	// Loop cadences. Durations are strings like "5ms".
	ControlPeriod *string `json:"control_period,omitempty"`
	PIDPeriod     *string `json:"pid_period,omitempty"`
	ReportPeriod  *string `json:"report_period,omitempty"`

	// Maneuver bounds.
	ObservationTimeout *string `json:"observation_timeout,omitempty"`
	MaxGapDistanceMM   *uint32 `json:"max_gap_distance_mm,omitempty"`

	// Per-set overrides, keyed by set name (easy/medium/fast).
	ParameterSets map[string]ParameterSetTuning `json:"parameter_sets,omitempty"`
}

// LoadTuningConfig reads and parses a tuning file.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning config: %w", err)
	}

	var cfg TuningConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning config %s: %w", path, err)
	}
	return &cfg, nil
}

// Duration parses one of the duration-string fields, returning fallback
// when the field is absent.
func Duration(field *string, fallback time.Duration) (time.Duration, error) {
	if field == nil {
		return fallback, nil
	}
	d, err := time.ParseDuration(*field)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", *field, err)
	}
	return d, nil
}
