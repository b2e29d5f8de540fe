package snowflake

import (
	"sync"
	"testing"
	"time"
)

// fakeClock replays a scripted sequence of millisecond readings. Once the
// script runs out it keeps advancing one millisecond past the last scripted
// value on every read, so spin waits always terminate.
type fakeClock struct {
	mu      sync.Mutex
	times   []int64
	idx     int
	overrun int64
}

func scriptedClock(times ...int64) *fakeClock {
	if len(times) == 0 {
		panic("scriptedClock needs at least one reading")
	}
	return &fakeClock{times: times}
}

func (c *fakeClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.idx < len(c.times) {
		v := c.times[c.idx]
		c.idx++
		return v
	}
	c.overrun++
	return c.times[len(c.times)-1] + c.overrun
}

// reads reports how many scripted readings have been consumed.
func (c *fakeClock) reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idx
}

func TestSystemClock_TracksWallClock(t *testing.T) {
	before := time.Now().UnixMilli()
	got := SystemClock.NowMillis()
	after := time.Now().UnixMilli()

	if got < before || got > after {
		t.Errorf("NowMillis() = %d, want within [%d, %d]", got, before, after)
	}
}

func TestFakeClock_Script(t *testing.T) {
	clock := scriptedClock(100, 200, 300)

	for i, want := range []int64{100, 200, 300} {
		if got := clock.NowMillis(); got != want {
			t.Fatalf("reading %d = %d, want %d", i, got, want)
		}
	}
	// Past the script the clock self-advances from the last value.
	if got := clock.NowMillis(); got != 301 {
		t.Errorf("overrun reading = %d, want 301", got)
	}
	if got := clock.NowMillis(); got != 302 {
		t.Errorf("overrun reading = %d, want 302", got)
	}
}

func TestSpinUntilAfter_ReturnsFirstValuePastThreshold(t *testing.T) {
	tests := []struct {
		name      string
		script    []int64
		threshold int64
		want      int64
	}{
		{"Already past", []int64{1001}, 1000, 1001},
		{"Stalled then tick", []int64{1000, 1000, 1001}, 1000, 1001},
		{"Equal is not past", []int64{1000, 1002}, 1000, 1002},
		{"Backward then recover", []int64{995, 998, 1001}, 1000, 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := clockGuard{clock: scriptedClock(tt.script...)}
			if got := guard.spinUntilAfter(tt.threshold); got != tt.want {
				t.Errorf("spinUntilAfter(%d) = %d, want %d", tt.threshold, got, tt.want)
			}
		})
	}
}

func TestSpinUntilAfter_SystemClock(t *testing.T) {
	guard := clockGuard{clock: SystemClock}
	threshold := SystemClock.NowMillis()

	got := guard.spinUntilAfter(threshold)
	if got <= threshold {
		t.Errorf("spinUntilAfter(%d) = %d, want strictly greater", threshold, got)
	}
	// A real spin to the next tick should not take more than a few ms.
	if got-threshold > 100 {
		t.Errorf("spin overshot by %dms", got-threshold)
	}
}

func TestClockGuard_Now(t *testing.T) {
	guard := clockGuard{clock: scriptedClock(42)}
	if got := guard.now(); got != 42 {
		t.Errorf("now() = %d, want 42", got)
	}
}
