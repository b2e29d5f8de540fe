// Package snowflake - clock.go isolates the generator from the wall clock.
//
// The generator never reads time.Now directly: all clock access goes through
// the Clock interface so tests can script drift and rollover scenarios
// deterministically, without real sleeping.

package snowflake

import (
	"runtime"
	"time"
)

// Clock is the only collaborator the generator consumes: a monotonic-intended
// source of milliseconds since the Unix epoch. Implementations have no
// defined failure mode; a generator cannot function without a clock.
type Clock interface {
	NowMillis() int64
}

// SystemClock reads the operating system wall clock. It is the default Clock
// for configurations that do not inject their own.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// clockGuard wraps a Clock with the waiting discipline the generator needs:
// plain reads plus a blocking spin until the clock strictly passes a
// threshold. Waits are expected to resolve within about one millisecond
// (the next tick), so the guard busy-polls and yields to the scheduler
// between polls instead of sleeping.
type clockGuard struct {
	clock Clock
}

// now returns the current wall-clock milliseconds.
func (g clockGuard) now() int64 {
	return g.clock.NowMillis()
}

// spinUntilAfter busy-polls the clock until it strictly exceeds
// thresholdMillis and returns the first value observed past it.
// runtime.Gosched between polls keeps the spin from starving other
// goroutines while adding negligible latency relative to 1ms.
func (g clockGuard) spinUntilAfter(thresholdMillis int64) int64 {
	for {
		now := g.clock.NowMillis()
		if now > thresholdMillis {
			return now
		}
		runtime.Gosched()
	}
}
