package serialmux

import (
	"fmt"
	"strconv"
	"strings"
)

// Wire payloads are single comma-separated lines with a two-letter type
// prefix. Outbound vehicle data uses "VD"; the host sends speed
// setpoints as "SP,<left>,<right>" and parameter set selection as
// "PS,<name>".
const (
	EventTypeVehicleData   = "vehicle_data"
	EventTypeSpeedSetpoint = "speed_setpoint"
	EventTypeParamSelect   = "param_select"
	EventTypeUnknown       = "unknown"
)

// ClassifyPayload inspects a payload line and returns its event type
// token. Classification is deliberately conservative: anything without a
// known prefix is unknown.
func ClassifyPayload(payload string) string {
	switch {
	case strings.HasPrefix(payload, "VD,"):
		return EventTypeVehicleData
	case strings.HasPrefix(payload, "SP,"):
		return EventTypeSpeedSetpoint
	case strings.HasPrefix(payload, "PS,"):
		return EventTypeParamSelect
	default:
		return EventTypeUnknown
	}
}

// ParseSpeedSetpoint parses an "SP,<left>,<right>" line into the
// commanded wheel speeds in steps/s.
func ParseSpeedSetpoint(payload string) (left, right int16, err error) {
	segments := strings.Split(strings.TrimSpace(payload), ",")
	if len(segments) != 3 || segments[0] != "SP" {
		return 0, 0, fmt.Errorf("invalid speed setpoint payload %q", payload)
	}

	l, err := strconv.ParseInt(segments[1], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse left speed: %w", err)
	}
	r, err := strconv.ParseInt(segments[2], 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse right speed: %w", err)
	}
	return int16(l), int16(r), nil
}

// ParseParamSelect parses a "PS,<name>" line into the parameter set
// name.
func ParseParamSelect(payload string) (string, error) {
	segments := strings.Split(strings.TrimSpace(payload), ",")
	if len(segments) != 2 || segments[0] != "PS" || segments[1] == "" {
		return "", fmt.Errorf("invalid parameter select payload %q", payload)
	}
	return segments[1], nil
}

// FormatVehicleData builds the outbound "VD" telemetry line from the
// pose (mm, mrad) and the per-wheel/centre speeds (steps/s).
func FormatVehicleData(x, y, heading int32, left, right, center int16) string {
	return fmt.Sprintf("VD,%d,%d,%d,%d,%d,%d", x, y, heading, left, right, center)
}

// ParseVehicleData parses an outbound telemetry line back into its
// fields. Used by host-side tooling and tests.
func ParseVehicleData(payload string) (x, y, heading int32, left, right, center int16, err error) {
	segments := strings.Split(strings.TrimSpace(payload), ",")
	if len(segments) != 7 || segments[0] != "VD" {
		err = fmt.Errorf("invalid vehicle data payload %q", payload)
		return
	}
	vals := make([]int64, 6)
	for i, seg := range segments[1:] {
		// Pose fields are 32 bit, speed fields 16 bit.
		bits := 32
		if i >= 3 {
			bits = 16
		}
		vals[i], err = strconv.ParseInt(seg, 10, bits)
		if err != nil {
			err = fmt.Errorf("failed to parse vehicle data field %d: %w", i, err)
			return
		}
	}
	return int32(vals[0]), int32(vals[1]), int32(vals[2]),
		int16(vals[3]), int16(vals[4]), int16(vals[5]), nil
}
