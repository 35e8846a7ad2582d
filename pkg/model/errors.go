package model

import "errors"

var (
	// season/event/session/driver cannot be resolved or has no laps
	ErrDataUnavailable = errors.New("data unavailable")
	// a fastest lap without samples or a lap with zero total distance
	ErrEmptyTelemetry = errors.New("empty telemetry")
	// output could not be written
	ErrRenderFailure = errors.New("render failure")
	ErrInvalidConfig = errors.New("invalid config")
)
