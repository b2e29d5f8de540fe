// Package snowflake - errors.go defines the error taxonomy.
//
// Three failure kinds exist and each is a distinct type so callers can
// pattern-match their recovery strategy with errors.Is / errors.As:
//
//   - ConfigError: invalid layout or configuration, caught at startup.
//   - RangeError: machine or service ID outside the layout's capacity.
//   - ClockDriftError: wall clock moved backwards past the tolerance.
//
// Sequence exhaustion is never an error; it is absorbed by waiting for the
// next millisecond.

package snowflake

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors usable with errors.Is. The typed errors below unwrap to
// these.
var (
	// ErrInvalidLayout is returned when field widths cannot form a layout.
	ErrInvalidLayout = errors.New("invalid bit layout")

	// ErrInvalidConfig is returned when Config validation fails.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrIDOutOfRange is returned when a machine or service ID does not
	// fit the configured field width.
	ErrIDOutOfRange = errors.New("identifier out of range")

	// ErrClockMovedBack is returned when the clock moved backwards by more
	// than the configured tolerance. Generating anyway would risk duplicate
	// IDs, which is the one property this package exists to prevent.
	ErrClockMovedBack = errors.New("clock moved backwards")
)

// ConfigError reports which configuration field failed validation and why.
type ConfigError struct {
	// Field is the name of the offending configuration field.
	Field string

	// Value is the rejected value, formatted for logging.
	Value string

	// Reason says why the value was rejected.
	Reason string

	// Constraint describes the valid range, e.g. "must be > 0".
	Constraint string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%s (%s) - %s",
		e.Field, e.Value, e.Reason, e.Constraint)
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) work.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// RangeError reports an identity field that exceeds its layout capacity.
// Identity is validated once at construction and never revalidated per call,
// so this error can only come out of New / NewWithConfig.
type RangeError struct {
	// Field is "MachineID" or "ServiceID".
	Field string

	// Value is the rejected identifier.
	Value int64

	// Max is the largest identifier the layout admits for this field.
	Max int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

// Unwrap makes errors.Is(err, ErrIDOutOfRange) work.
func (e *RangeError) Unwrap() error {
	return ErrIDOutOfRange
}

// ClockDriftError carries the timing details of a backward clock jump that
// exceeded the tolerance. The generator's state is left untouched when this
// is returned; the caller decides whether to abort, alert, or fail the
// enclosing request. The generator never retries on its own.
type ClockDriftError struct {
	// CurrentTimestamp is the wall-clock millisecond the clock reported.
	CurrentTimestamp int64

	// LastTimestamp is the millisecond of the most recently issued ID.
	LastTimestamp int64

	// DriftMillis is the magnitude of the backward jump (always positive).
	DriftMillis int64

	// ToleranceMillis is the configured tolerance that was exceeded.
	ToleranceMillis int64

	// MachineID and ServiceID identify the generator that observed the jump.
	MachineID int64
	ServiceID int64
}

func (e *ClockDriftError) Error() string {
	return fmt.Sprintf("clock moved backwards: drift=%dms tolerance=%dms current=%d last=%d machine=%d service=%d",
		e.DriftMillis, e.ToleranceMillis,
		e.CurrentTimestamp, e.LastTimestamp, e.MachineID, e.ServiceID)
}

// Unwrap makes errors.Is(err, ErrClockMovedBack) work.
func (e *ClockDriftError) Unwrap() error {
	return ErrClockMovedBack
}

// DriftDuration returns the backward jump as a time.Duration.
func (e *ClockDriftError) DriftDuration() time.Duration {
	return time.Duration(e.DriftMillis) * time.Millisecond
}

// ToleranceDuration returns the tolerance as a time.Duration.
func (e *ClockDriftError) ToleranceDuration() time.Duration {
	return time.Duration(e.ToleranceMillis) * time.Millisecond
}

// IsClockDriftError reports whether err is or wraps a ClockDriftError.
func IsClockDriftError(err error) bool {
	var driftErr *ClockDriftError
	return errors.As(err, &driftErr)
}

// IsConfigError reports whether err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsRangeError reports whether err is or wraps a RangeError.
func IsRangeError(err error) bool {
	var rangeErr *RangeError
	return errors.As(err, &rangeErr)
}

// GetClockDriftError extracts the ClockDriftError from an error chain so
// callers can inspect the drift magnitude.
func GetClockDriftError(err error) (*ClockDriftError, bool) {
	var driftErr *ClockDriftError
	if errors.As(err, &driftErr) {
		return driftErr, true
	}
	return nil, false
}

// newConfigError keeps ConfigError construction uniform.
func newConfigError(field, value, reason, constraint string) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Reason:     reason,
		Constraint: constraint,
	}
}
