// Package snowflake generates compact, time-ordered unique identifiers.
//
// # Overview
//
// Each ID packs a millisecond timestamp, a machine identifier, a service
// identifier, and an intra-millisecond sequence counter into a single
// positive integer. With the default layout the packed value stays within
// 53 significant bits, so IDs survive a round trip through a JSON number in
// JavaScript clients without precision loss.
//
// # ID Structure (default layout, 53 bits)
//
//	┌──────────────────────────────────┬──────────┬──────────┬───────────┐
//	│   41 bits: timestamp (ms since   │ 3 bits:  │ 3 bits:  │  6 bits:  │
//	│   custom epoch, ~69 years)       │ machine  │ service  │ sequence  │
//	└──────────────────────────────────┴──────────┴──────────┴───────────┘
//
// # Properties
//
//   - IDs from one generator are strictly increasing (absent a clock fault)
//   - Uniqueness across machines and services is structural: disjoint bit
//     fields, no runtime coordination
//   - Backward clock movement within a small tolerance is absorbed by
//     waiting; larger jumps surface as a ClockDriftError
//   - Sequence exhaustion is absorbed by waiting for the next millisecond,
//     never by dropping or reordering IDs
//
// # Usage
//
//	// Package-level generator (machine 0, service 0)
//	id, err := snowflake.GenerateID()
//
//	// Explicit identity for distributed deployments
//	gen, err := snowflake.New(3, 1)
//	id, err := gen.GenerateID()
//
//	// Full configuration
//	cfg := snowflake.DefaultConfig(3, 1)
//	cfg.DriftTolerance = 5 * time.Millisecond
//	gen, err := snowflake.NewWithConfig(cfg)
package snowflake

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultEpoch is the default custom epoch: January 1, 2024 00:00:00
	// UTC in milliseconds. A recent epoch maximizes the usable timestamp
	// horizon.
	DefaultEpoch int64 = 1704067200000

	// DefaultDriftTolerance is the default limit for silently absorbed
	// backward clock movement. Jumps up to this size are waited out;
	// anything larger fails with a ClockDriftError.
	DefaultDriftTolerance = 3 * time.Millisecond

	// neverIssued is the lastTimestamp sentinel before the first ID.
	neverIssued int64 = -1
)

// Config holds the construction parameters of a Generator. All fields are
// fixed at deployment time; the zero value of every optional field selects
// a documented default via Validate.
type Config struct {
	// MachineID identifies the host within the layout's machine field.
	// Assignment across a fleet is external to this package and assumed
	// conflict-free. Range: [0, Layout.MaxMachineID].
	MachineID int64

	// ServiceID identifies the service within the layout's service field.
	// Range: [0, Layout.MaxServiceID].
	ServiceID int64

	// EpochMillis is the custom epoch all ID timestamps are relative to.
	// Zero selects DefaultEpoch; the Unix epoch itself is therefore not
	// selectable. Pass 1 to measure from the Unix epoch.
	//
	// An epoch in the future makes now-epoch negative and corrupts the
	// packed value; an epoch far in the past wastes timestamp bits. Both
	// are configuration mistakes this package does not correct silently.
	EpochMillis int64

	// Layout is the bit allocation for the four fields. The zero value
	// selects LayoutDefault.
	Layout Layout

	// DriftTolerance bounds the backward clock movement that is absorbed
	// by waiting instead of reported. Zero selects DefaultDriftTolerance;
	// negative is invalid.
	DriftTolerance time.Duration

	// Clock is the time source. Nil selects SystemClock. Tests inject a
	// scripted clock here to simulate drift and rollover deterministically.
	Clock Clock
}

// DefaultConfig returns a Config with production defaults for the given
// identity: DefaultEpoch, LayoutDefault, and a 3ms drift tolerance.
func DefaultConfig(machineID, serviceID int64) Config {
	return Config{
		MachineID:      machineID,
		ServiceID:      serviceID,
		EpochMillis:    DefaultEpoch,
		Layout:         LayoutDefault,
		DriftTolerance: DefaultDriftTolerance,
		Clock:          SystemClock,
	}
}

// Validate fills defaulted fields and checks the rest.
//
// Failure kinds: layout problems wrap ErrInvalidLayout, epoch and tolerance
// problems are ConfigError, identity problems are RangeError. All are
// unrecoverable for this construction attempt.
func (c *Config) Validate() error {
	if c.Layout.IsZero() {
		c.Layout = LayoutDefault
	}
	if c.EpochMillis == 0 {
		c.EpochMillis = DefaultEpoch
	}
	if c.DriftTolerance == 0 {
		c.DriftTolerance = DefaultDriftTolerance
	}
	if c.Clock == nil {
		c.Clock = SystemClock
	}

	// Recompute from the widths so a hand-built Layout with stale or
	// missing derived fields (shifts, maxes) is normalized, not trusted.
	l, err := ComputeLayout(c.Layout.TimestampBits, c.Layout.MachineBits,
		c.Layout.ServiceBits, c.Layout.SequenceBits)
	if err != nil {
		return err
	}
	c.Layout = l

	if c.EpochMillis < 0 {
		return newConfigError("EpochMillis",
			fmt.Sprintf("%d", c.EpochMillis),
			"must not be negative",
			"milliseconds since Unix epoch, > 0")
	}
	if c.DriftTolerance < 0 {
		return newConfigError("DriftTolerance",
			c.DriftTolerance.String(),
			"must not be negative",
			"duration >= 0")
	}

	if c.MachineID < 0 || c.MachineID > c.Layout.MaxMachineID {
		return &RangeError{Field: "MachineID", Value: c.MachineID, Max: c.Layout.MaxMachineID}
	}
	if c.ServiceID < 0 || c.ServiceID > c.Layout.MaxServiceID {
		return &RangeError{Field: "ServiceID", Value: c.ServiceID, Max: c.Layout.MaxServiceID}
	}
	return nil
}

// Metrics is a snapshot of a generator's internal counters. All counters
// increase monotonically (until ResetMetrics) and are read atomically.
type Metrics struct {
	Generated     int64 // IDs successfully issued
	DriftAbsorbed int64 // backward jumps within tolerance, waited out
	DriftFaults   int64 // backward jumps past tolerance, no ID issued
	SequenceWaits int64 // sequence exhaustion waits for the next millisecond
	WaitTimeUs    int64 // total microseconds spent in waits
}

// Generator issues IDs for one (machine, service) identity pair.
//
// # Concurrency
//
// The read-decide-mutate cycle in each generation is guarded by a mutex, so
// one Generator is safe for concurrent use; all calls against it serialize.
// Distinct generators are fully independent and need no coordination:
// uniqueness across identities is structural, not negotiated at runtime.
//
// # State
//
// The only mutable state is (lastTimestamp, sequence), mutated exclusively
// at the end of a successful generation. A generation that fails with
// ClockDriftError leaves both untouched. Generator state is never persisted;
// a restarted process starts fresh and stays unique because the clock has
// moved on.
type Generator struct {
	mu            sync.Mutex
	sequence      int64
	lastTimestamp int64 // wall-clock ms of the newest issued ID, neverIssued before the first

	clock       clockGuard
	layout      Layout
	epochMillis int64
	machineID   int64
	serviceID   int64
	toleranceMs int64

	// Counters live apart from the hot fields and use atomics so Metrics
	// can read them without taking the generation lock.
	generated     atomic.Int64
	driftAbsorbed atomic.Int64
	driftFaults   atomic.Int64
	sequenceWaits atomic.Int64
	waitTimeUs    atomic.Int64
}

// New creates a Generator with DefaultConfig(machineID, serviceID).
//
// Fails with a RangeError when either identifier is negative or exceeds the
// default layout's capacity.
func New(machineID, serviceID int64) (*Generator, error) {
	return NewWithConfig(DefaultConfig(machineID, serviceID))
}

// NewWithConfig creates a Generator from an explicit configuration.
// The configuration is validated once here; nothing is revalidated per call.
func NewWithConfig(cfg Config) (*Generator, error) {
	if err := (&cfg).Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		sequence:      0,
		lastTimestamp: neverIssued,
		clock:         clockGuard{clock: cfg.Clock},
		layout:        cfg.Layout,
		epochMillis:   cfg.EpochMillis,
		machineID:     cfg.MachineID,
		serviceID:     cfg.ServiceID,
		toleranceMs:   cfg.DriftTolerance.Milliseconds(),
	}, nil
}

// GenerateID issues the next ID.
//
// The call blocks, at most on the order of one millisecond, when the
// sequence for the current millisecond is exhausted or a small backward
// clock jump has to be waited out. It fails only with a ClockDriftError.
func (g *Generator) GenerateID() (ID, error) {
	id, err := g.generate()
	return ID(id), err
}

// Generate issues the next ID as a raw int64.
func (g *Generator) Generate() (int64, error) {
	return g.generate()
}

// MustGenerateID issues the next ID and panics on clock drift. Use only
// where a drift fault is unrecoverable anyway.
func (g *Generator) MustGenerateID() ID {
	id, err := g.GenerateID()
	if err != nil {
		panic(err)
	}
	return id
}

// generate runs one read-decide-mutate cycle under the lock.
//
// Order of operations:
//
//  1. read the clock
//  2. fail on drift beyond tolerance, before touching any state
//  3. wait out drift within tolerance
//  4. same millisecond: bump sequence, waiting out exhaustion;
//     new millisecond: reset sequence
//  5. commit (lastTimestamp, sequence) only after all waits resolved
//  6. pack and return
func (g *Generator) generate() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next()
}

// next is the unlocked generation step shared by Generate and GenerateBatch.
// Callers must hold g.mu.
func (g *Generator) next() (int64, error) {
	now := g.clock.now()

	if g.lastTimestamp-now > g.toleranceMs {
		g.driftFaults.Add(1)
		return 0, &ClockDriftError{
			CurrentTimestamp: now,
			LastTimestamp:    g.lastTimestamp,
			DriftMillis:      g.lastTimestamp - now,
			ToleranceMillis:  g.toleranceMs,
			MachineID:        g.machineID,
			ServiceID:        g.serviceID,
		}
	}

	if now < g.lastTimestamp {
		// Small backward jump: absorb it by waiting until the clock is
		// strictly past the newest issued millisecond.
		g.driftAbsorbed.Add(1)
		start := time.Now()
		now = g.clock.spinUntilAfter(g.lastTimestamp)
		g.waitTimeUs.Add(time.Since(start).Microseconds())
	}

	sequence := g.sequence
	if now == g.lastTimestamp {
		sequence = (sequence + 1) & g.layout.MaxSequence
		if sequence == 0 {
			// Per-millisecond budget exhausted: wait for the next tick.
			g.sequenceWaits.Add(1)
			start := time.Now()
			now = g.clock.spinUntilAfter(g.lastTimestamp)
			g.waitTimeUs.Add(time.Since(start).Microseconds())
		}
	} else {
		sequence = 0
	}

	// Commit point: the only state mutation in the package.
	g.lastTimestamp = now
	g.sequence = sequence
	g.generated.Add(1)

	return g.layout.Pack(now-g.epochMillis, g.machineID, g.serviceID, sequence), nil
}

// GenerateBatch issues count IDs under a single lock acquisition, which is
// considerably cheaper than count individual calls.
//
// On a clock drift fault the IDs issued so far are returned together with
// the error, so callers can still use the partial batch.
func (g *Generator) GenerateBatch(count int) ([]ID, error) {
	if count <= 0 {
		return []ID{}, nil
	}

	ids := make([]ID, 0, count)

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < count; i++ {
		id, err := g.next()
		if err != nil {
			return ids, err
		}
		ids = append(ids, ID(id))
	}
	return ids, nil
}

// Metrics returns a consistent snapshot of the generator's counters.
func (g *Generator) Metrics() Metrics {
	return Metrics{
		Generated:     g.generated.Load(),
		DriftAbsorbed: g.driftAbsorbed.Load(),
		DriftFaults:   g.driftFaults.Load(),
		SequenceWaits: g.sequenceWaits.Load(),
		WaitTimeUs:    g.waitTimeUs.Load(),
	}
}

// ResetMetrics zeroes all counters. Intended for tests; production metrics
// are usually kept monotonic for rate calculations.
func (g *Generator) ResetMetrics() {
	g.generated.Store(0)
	g.driftAbsorbed.Store(0)
	g.driftFaults.Store(0)
	g.sequenceWaits.Store(0)
	g.waitTimeUs.Store(0)
}

// MachineID returns the generator's machine identifier.
func (g *Generator) MachineID() int64 { return g.machineID }

// ServiceID returns the generator's service identifier.
func (g *Generator) ServiceID() int64 { return g.serviceID }

// Layout returns the generator's bit layout.
func (g *Generator) Layout() Layout { return g.layout }

// EpochMillis returns the generator's custom epoch.
func (g *Generator) EpochMillis() int64 { return g.epochMillis }

// Extract unpacks an ID this generator (or one sharing its configuration)
// produced, returning the wall-clock generation time and the three other
// fields.
func (g *Generator) Extract(id ID) (t time.Time, machineID, serviceID, sequence int64) {
	elapsed, machineID, serviceID, sequence := g.layout.Unpack(int64(id))
	ms := elapsed + g.epochMillis
	return time.UnixMilli(ms), machineID, serviceID, sequence
}

// DecomposeID unpacks an ID generated with the given layout and epoch.
// Use the Generator.Extract method when the generator is at hand.
func DecomposeID(id int64, layout Layout, epochMillis int64) (timestampMillis, machineID, serviceID, sequence int64) {
	elapsed, machineID, serviceID, sequence := layout.Unpack(id)
	return elapsed + epochMillis, machineID, serviceID, sequence
}

// Package-level generator with identity (0, 0), initialized lazily so an
// import never panics and errors stay observable.
var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
	defaultGeneratorErr  error
)

func initDefaultGenerator() {
	defaultGenerator, defaultGeneratorErr = New(0, 0)
}

// GenerateID issues an ID from the package-level generator (machine 0,
// service 0). Distributed deployments should construct their own Generator
// with an externally assigned identity instead.
func GenerateID() (ID, error) {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	if defaultGeneratorErr != nil {
		return 0, defaultGeneratorErr
	}
	return defaultGenerator.GenerateID()
}

// Generate issues an ID from the package-level generator as a raw int64.
func Generate() (int64, error) {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	if defaultGeneratorErr != nil {
		return 0, defaultGeneratorErr
	}
	return defaultGenerator.Generate()
}

// MustGenerateID issues an ID from the package-level generator and panics
// on error.
func MustGenerateID() ID {
	id, err := GenerateID()
	if err != nil {
		panic(err)
	}
	return id
}
