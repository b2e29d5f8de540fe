package snowflake

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	err := newConfigError("EpochMillis", "-5", "must not be negative",
		"milliseconds since Unix epoch, > 0")

	msg := err.Error()
	for _, want := range []string{"EpochMillis", "-5", "must not be negative"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("ConfigError should unwrap to ErrInvalidConfig")
	}
	if !IsConfigError(err) {
		t.Error("IsConfigError() should be true")
	}
	if IsConfigError(errors.New("other")) {
		t.Error("IsConfigError() should be false for unrelated errors")
	}
}

func TestRangeError(t *testing.T) {
	err := &RangeError{Field: "MachineID", Value: 9, Max: 7}

	if got, want := err.Error(), "MachineID 9 out of range [0, 7]"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrIDOutOfRange) {
		t.Error("RangeError should unwrap to ErrIDOutOfRange")
	}
	if !IsRangeError(err) {
		t.Error("IsRangeError() should be true")
	}
	if IsRangeError(ErrInvalidConfig) {
		t.Error("IsRangeError() should be false for other errors")
	}
}

func TestClockDriftError(t *testing.T) {
	err := &ClockDriftError{
		CurrentTimestamp: 1000,
		LastTimestamp:    1010,
		DriftMillis:      10,
		ToleranceMillis:  3,
		MachineID:        2,
		ServiceID:        5,
	}

	msg := err.Error()
	for _, want := range []string{"clock moved backwards", "drift=10ms",
		"tolerance=3ms", "current=1000", "last=1010", "machine=2", "service=5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if !errors.Is(err, ErrClockMovedBack) {
		t.Error("ClockDriftError should unwrap to ErrClockMovedBack")
	}
	if got, want := err.DriftDuration(), 10*time.Millisecond; got != want {
		t.Errorf("DriftDuration() = %v, want %v", got, want)
	}
	if got, want := err.ToleranceDuration(), 3*time.Millisecond; got != want {
		t.Errorf("ToleranceDuration() = %v, want %v", got, want)
	}
}

func TestClockDriftError_Helpers(t *testing.T) {
	drift := &ClockDriftError{DriftMillis: 7, ToleranceMillis: 3}
	wrapped := fmt.Errorf("generation failed: %w", drift)

	if !IsClockDriftError(wrapped) {
		t.Error("IsClockDriftError() should see through wrapping")
	}
	if IsClockDriftError(ErrInvalidLayout) {
		t.Error("IsClockDriftError() should be false for other errors")
	}

	got, ok := GetClockDriftError(wrapped)
	if !ok {
		t.Fatal("GetClockDriftError() should extract the typed error")
	}
	if got.DriftMillis != 7 {
		t.Errorf("DriftMillis = %d, want 7", got.DriftMillis)
	}

	if _, ok := GetClockDriftError(errors.New("other")); ok {
		t.Error("GetClockDriftError() should fail for unrelated errors")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrInvalidLayout, ErrInvalidConfig, ErrIDOutOfRange, ErrClockMovedBack}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}
