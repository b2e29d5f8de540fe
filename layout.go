// Package snowflake - layout.go derives the bit layout of an ID from
// configurable field widths.
//
// A layout is computed exactly once from the four widths and shared read-only
// by every generator that uses it. All packing and unpacking in the package
// reads the derived shift and mask fields; nothing recomputes them inline.

package snowflake

import (
	"fmt"
	"math/bits"
	"time"
)

// Layout describes how an ID's bits are split between the millisecond
// timestamp, the machine identifier, the service identifier, and the
// intra-millisecond sequence counter.
//
// # Bit order
//
//	┌───────────────────┬───────────┬───────────┬────────────┐
//	│     timestamp     │  machine  │  service  │  sequence  │
//	└───────────────────┴───────────┴───────────┴────────────┘
//	  high bits                                     low bits
//
// # Constraints
//
// The four widths must be non-negative and sum to at most 63 bits, leaving
// the sign bit of an int64 clear so every packed ID is a positive integer.
//
// Staying within 53 total bits is a separate, softer contract: JavaScript
// and other IEEE-754-double JSON consumers can only represent integers up
// to 2^53-1 exactly. Layouts above that limit are valid but their IDs must
// travel as strings through such consumers (see ID.MarshalJSON). Use
// JSNumberSafe to check which side of the line a layout is on.
//
// The zero Layout is not usable; obtain one from ComputeLayout or from the
// preset package variables.
type Layout struct {
	// TimestampBits is the width of the timestamp field. With millisecond
	// precision, 41 bits cover ~69 years from the custom epoch.
	TimestampBits int

	// MachineBits is the width of the machine identifier field.
	MachineBits int

	// ServiceBits is the width of the service identifier field.
	ServiceBits int

	// SequenceBits is the width of the per-millisecond sequence counter.
	// 2^SequenceBits IDs can be issued per millisecond before the
	// generator has to wait for the clock to advance.
	SequenceBits int

	// MaxMachineID is the largest valid machine identifier (2^MachineBits - 1).
	MaxMachineID int64

	// MaxServiceID is the largest valid service identifier (2^ServiceBits - 1).
	MaxServiceID int64

	// MaxSequence is the largest sequence value (2^SequenceBits - 1).
	MaxSequence int64

	// ServiceShift positions the service ID above the sequence field.
	// The sequence field itself sits at shift 0.
	ServiceShift uint

	// MachineShift positions the machine ID above the service field.
	MachineShift uint

	// TimestampShift positions the timestamp above all identity fields.
	TimestampShift uint
}

// Preset layouts. All presets except LayoutWide keep the packed value within
// 53 bits so IDs survive a round trip through a JSON number.
var (
	// LayoutDefault is the 53-bit default: 41 bits of millisecond
	// timestamp (~69 years), 8 machines, 8 services, 64 IDs per
	// millisecond per generator.
	LayoutDefault = mustComputeLayout(41, 3, 3, 6)

	// LayoutDense trades timestamp horizon for identity space:
	// ~17 years, 16 machines, 16 services, 64 IDs per millisecond.
	// Still JSON-number safe.
	LayoutDense = mustComputeLayout(39, 4, 4, 6)

	// LayoutHighRate trades horizon and identity space for throughput:
	// ~8.7 years, 8 machines, 4 services, 1024 IDs per millisecond
	// (~1M IDs/sec per generator). Still JSON-number safe.
	LayoutHighRate = mustComputeLayout(38, 3, 2, 10)

	// LayoutWide is the classic full-width Snowflake split with the
	// 10 identity bits divided between machine and service: ~69 years,
	// 32 machines, 32 services, 4096 IDs per millisecond.
	//
	// At 63 bits this layout is NOT JSON-number safe; IDs generated
	// with it marshal as strings.
	LayoutWide = mustComputeLayout(41, 5, 5, 12)
)

// ComputeLayout derives a Layout from the four field widths.
//
// It is a pure function: no side effects, deterministic, and the result is
// cacheable. It fails with an error wrapping ErrInvalidLayout when any width
// is negative, when the timestamp field is empty, or when the total exceeds
// the 63 usable bits of an int64.
//
// A total at or below 53 bits keeps IDs exactly representable as JSON
// numbers; larger totals are accepted but flagged by JSNumberSafe.
func ComputeLayout(timestampBits, machineBits, serviceBits, sequenceBits int) (Layout, error) {
	if timestampBits < 0 || machineBits < 0 || serviceBits < 0 || sequenceBits < 0 {
		return Layout{}, fmt.Errorf("%w: widths must be non-negative (%d+%d+%d+%d)",
			ErrInvalidLayout, timestampBits, machineBits, serviceBits, sequenceBits)
	}
	if timestampBits == 0 {
		return Layout{}, fmt.Errorf("%w: timestamp field cannot be empty", ErrInvalidLayout)
	}
	total := timestampBits + machineBits + serviceBits + sequenceBits
	if total > 63 {
		return Layout{}, fmt.Errorf("%w: total width %d exceeds 63 usable bits (%d+%d+%d+%d)",
			ErrInvalidLayout, total, timestampBits, machineBits, serviceBits, sequenceBits)
	}

	return Layout{
		TimestampBits: timestampBits,
		MachineBits:   machineBits,
		ServiceBits:   serviceBits,
		SequenceBits:  sequenceBits,
		MaxMachineID:  (1 << machineBits) - 1,
		MaxServiceID:  (1 << serviceBits) - 1,
		MaxSequence:   (1 << sequenceBits) - 1,

		ServiceShift:   uint(sequenceBits),
		MachineShift:   uint(sequenceBits + serviceBits),
		TimestampShift: uint(sequenceBits + serviceBits + machineBits),
	}, nil
}

// mustComputeLayout backs the preset variables. A preset that fails to
// compute is a programming error.
func mustComputeLayout(timestampBits, machineBits, serviceBits, sequenceBits int) Layout {
	l, err := ComputeLayout(timestampBits, machineBits, serviceBits, sequenceBits)
	if err != nil {
		panic(err)
	}
	return l
}

// TotalBits returns the combined width of all four fields.
func (l Layout) TotalBits() int {
	return l.TimestampBits + l.MachineBits + l.ServiceBits + l.SequenceBits
}

// JSNumberSafe reports whether every ID packed with this layout fits in the
// 53 significant bits of an IEEE-754 double, i.e. survives a round trip
// through a plain JSON number in a JavaScript client.
func (l Layout) JSNumberSafe() bool {
	return l.TotalBits() <= 53
}

// IsZero reports whether the layout is the unusable zero value.
func (l Layout) IsZero() bool {
	return l.TotalBits() == 0
}

// Pack composes an ID from an epoch-relative millisecond timestamp, the two
// identity fields, and a sequence value. Inputs are assumed to be within the
// layout's field capacities; generators validate identity at construction
// and own the other two fields.
func (l Layout) Pack(elapsedMillis, machineID, serviceID, sequence int64) int64 {
	return elapsedMillis<<l.TimestampShift |
		machineID<<l.MachineShift |
		serviceID<<l.ServiceShift |
		sequence
}

// Unpack is the inverse of Pack. The returned timestamp is epoch-relative
// milliseconds; add the generating configuration's EpochMillis to recover
// wall-clock time.
func (l Layout) Unpack(id int64) (elapsedMillis, machineID, serviceID, sequence int64) {
	elapsedMillis = id >> l.TimestampShift
	machineID = (id >> l.MachineShift) & l.MaxMachineID
	serviceID = (id >> l.ServiceShift) & l.MaxServiceID
	sequence = id & l.MaxSequence
	return
}

// Horizon returns how long after the custom epoch the timestamp field lasts
// before overflowing.
func (l Layout) Horizon() time.Duration {
	maxMillis := int64(1)<<uint(l.TimestampBits) - 1
	// time.Duration is int64 nanoseconds; wide timestamp fields can exceed it.
	if maxMillis > (1<<63-1)/int64(time.Millisecond) {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(maxMillis) * time.Millisecond
}

// EffectiveBits returns the significant bit length of a concrete ID. With a
// freshly chosen epoch the timestamp field is near zero and IDs are much
// shorter than TotalBits; that is documented behavior, not a defect.
func EffectiveBits(id int64) int {
	return bits.Len64(uint64(id))
}

// String returns a compact human-readable description of the layout.
func (l Layout) String() string {
	return fmt.Sprintf("timestamp:%d machine:%d service:%d sequence:%d (total %d bits, js-safe %t)",
		l.TimestampBits, l.MachineBits, l.ServiceBits, l.SequenceBits, l.TotalBits(), l.JSNumberSafe())
}
