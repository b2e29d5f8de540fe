// Snowflake CLI - Command-line tool for compact ID generation and inspection
//
// Usage:
//   snowflake generate [flags]       Generate IDs
//   snowflake parse <id>             Parse and inspect an ID
//   snowflake encode <id> <format>   Convert ID to a different format
//   snowflake validate <id>          Validate an ID
//   snowflake layout [flags]         Show a bit layout
//   snowflake bench [flags]          Run performance benchmarks
//
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	snowflake "github.com/asionesjia/SnowFlake-Generator"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "generate", "gen", "g":
		cmdGenerate(os.Args[2:])
	case "parse", "p":
		cmdParse(os.Args[2:])
	case "encode", "enc", "e":
		cmdEncode(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "layout", "l":
		cmdLayout(os.Args[2:])
	case "bench", "benchmark", "b":
		cmdBench(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("snowflake CLI version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Snowflake CLI - Compact JSON-safe distributed unique ID generator

Usage:
  snowflake <command> [flags]

Commands:
  generate, gen, g      Generate IDs
  parse, p              Parse and inspect an ID
  encode, enc, e        Convert ID between formats
  validate, val, v      Validate an ID structure
  layout, l             Show the bit allocation of a layout
  bench, b              Run performance benchmarks
  version               Show version information
  help                  Show this help message

Examples:
  # Generate a single ID
  snowflake generate --machine 3 --service 1

  # Generate 10 IDs in Base62 format
  snowflake generate --count 10 --format base62 --machine 3

  # Parse and inspect an ID
  snowflake parse 532536735363072

  # Convert ID to a different format
  snowflake encode 532536735363072 base62

  # Show a preset layout
  snowflake layout --preset highrate

For detailed help on a command:
  snowflake <command> --help

`)
}

// layoutByName maps a preset name to its Layout.
func layoutByName(name string) (snowflake.Layout, error) {
	switch strings.ToLower(name) {
	case "default", "":
		return snowflake.LayoutDefault, nil
	case "dense":
		return snowflake.LayoutDense, nil
	case "highrate", "high-rate":
		return snowflake.LayoutHighRate, nil
	case "wide":
		return snowflake.LayoutWide, nil
	default:
		return snowflake.Layout{}, fmt.Errorf("unknown layout %q (default, dense, highrate, wide)", name)
	}
}

// ============================================================================
// Generate Command
// ============================================================================

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("count", 1, "Number of IDs to generate")
	machineID := fs.Int64("machine", 0, "Machine ID")
	serviceID := fs.Int64("service", 0, "Service ID")
	layoutName := fs.String("layout", "default", "Layout preset: default, dense, highrate, wide")
	format := fs.String("format", "decimal", "Output format: decimal, base36, base62, hex, binary")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	batch := fs.Bool("batch", false, "Use batch generation for better performance")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snowflake generate [flags]

Generate one or more IDs.

Flags:
  --count N          Number of IDs to generate (default: 1)
  --machine N        Machine ID (default: 0)
  --service N        Service ID (default: 0)
  --layout NAME      Layout preset: default, dense, highrate, wide (default: default)
  --format FORMAT    Output format: decimal, base36, base62, hex, binary (default: decimal)
  --json             Output as JSON with full details
  --batch            Use batch generation (faster for large counts)

Examples:
  snowflake generate --machine 3 --service 1
  snowflake generate --count 1000 --format base62 --batch
  snowflake generate --json --layout highrate
`)
	}

	fs.Parse(args)

	layout, err := layoutByName(*layoutName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := snowflake.DefaultConfig(*machineID, *serviceID)
	cfg.Layout = layout
	gen, err := snowflake.NewWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generator: %v\n", err)
		os.Exit(1)
	}

	var ids []snowflake.ID
	startTime := time.Now()

	if *batch && *count > 1 {
		ids, err = gen.GenerateBatch(*count)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", err)
			os.Exit(1)
		}
	} else {
		ids = make([]snowflake.ID, *count)
		for i := 0; i < *count; i++ {
			ids[i], err = gen.GenerateID()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", err)
				os.Exit(1)
			}
		}
	}

	duration := time.Since(startTime)

	if *jsonOutput {
		outputJSON(ids, duration, gen)
		return
	}

	for _, id := range ids {
		fmt.Println(id.Format(strings.ToLower(*format)))
	}
	if *count > 100 {
		rate := float64(*count) / duration.Seconds()
		fmt.Fprintf(os.Stderr, "\nGenerated %d IDs in %v (%.0f IDs/sec)\n",
			*count, duration, rate)
	}
}

func outputJSON(ids []snowflake.ID, duration time.Duration, gen *snowflake.Generator) {
	type IDInfo struct {
		ID        snowflake.ID `json:"id"`
		Base62    string       `json:"base62"`
		Hex       string       `json:"hex"`
		Timestamp time.Time    `json:"timestamp"`
		Machine   int64        `json:"machine"`
		Service   int64        `json:"service"`
		Sequence  int64        `json:"sequence"`
	}

	type Output struct {
		Count      int      `json:"count"`
		MachineID  int64    `json:"machine_id"`
		ServiceID  int64    `json:"service_id"`
		Layout     string   `json:"layout"`
		Duration   string   `json:"duration"`
		RatePerSec float64  `json:"rate_per_sec"`
		IDs        []IDInfo `json:"ids"`
	}

	infos := make([]IDInfo, len(ids))
	for i, id := range ids {
		ts, machine, service, seq := gen.Extract(id)
		infos[i] = IDInfo{
			ID:        id,
			Base62:    id.Base62(),
			Hex:       id.Hex(),
			Timestamp: ts,
			Machine:   machine,
			Service:   service,
			Sequence:  seq,
		}
	}

	output := Output{
		Count:      len(ids),
		MachineID:  gen.MachineID(),
		ServiceID:  gen.ServiceID(),
		Layout:     gen.Layout().String(),
		Duration:   duration.String(),
		RatePerSec: float64(len(ids)) / duration.Seconds(),
		IDs:        infos,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

// ============================================================================
// Parse Command
// ============================================================================

func cmdParse(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: snowflake parse <id>\n")
		fmt.Fprintf(os.Stderr, "\nParse and inspect an ID.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snowflake parse 532536735363072\n")
		fmt.Fprintf(os.Stderr, "  snowflake parse 2rfuON0  # Base62 form\n")
		os.Exit(1)
	}

	idStr := args[0]
	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to parse ID '%s'\n", idStr)
		os.Exit(1)
	}

	ts, machine, service, seq := id.Components()
	timestamp := time.UnixMilli(ts)

	fmt.Printf("Snowflake ID: %s\n", id)
	fmt.Printf("\n")
	fmt.Printf("Components (default layout):\n")
	fmt.Printf("  Timestamp:  %s (%d ms since Unix epoch)\n", timestamp.Format(time.RFC3339), ts)
	fmt.Printf("  Machine ID: %d\n", machine)
	fmt.Printf("  Service ID: %d\n", service)
	fmt.Printf("  Sequence:   %d\n", seq)
	fmt.Printf("\n")
	fmt.Printf("Encodings:\n")
	fmt.Printf("  Decimal:    %s\n", id.String())
	fmt.Printf("  Base62:     %s\n", id.Base62())
	fmt.Printf("  Base36:     %s\n", id.Base36())
	fmt.Printf("  Hex:        %s\n", id.Hex())
	fmt.Printf("\n")
	fmt.Printf("Bits:         %d effective (JSON-number safe up to 53)\n",
		snowflake.EffectiveBits(id.Int64()))
	fmt.Printf("Age:          %v\n", id.Age().Round(time.Millisecond))
	fmt.Printf("Valid:        %v\n", id.IsValid())
}

func parseIDFlexible(idStr string) (snowflake.ID, error) {
	if id, err := snowflake.ParseString(idStr); err == nil {
		return id, nil
	}
	if id, err := snowflake.ParseBase62(idStr); err == nil {
		return id, nil
	}
	if id, err := snowflake.ParseHex(idStr); err == nil {
		return id, nil
	}
	return snowflake.ParseBase36(idStr)
}

// ============================================================================
// Encode Command
// ============================================================================

func cmdEncode(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: snowflake encode <id> <format>\n")
		fmt.Fprintf(os.Stderr, "\nConvert an ID to a different encoding format.\n")
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		fmt.Fprintf(os.Stderr, "  decimal, dec       Decimal string\n")
		fmt.Fprintf(os.Stderr, "  base62, b62        URL-safe Base62\n")
		fmt.Fprintf(os.Stderr, "  base36, b36        Base36\n")
		fmt.Fprintf(os.Stderr, "  hex, x             Hexadecimal\n")
		fmt.Fprintf(os.Stderr, "  binary, bin        Binary string\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snowflake encode 532536735363072 base62\n")
		fmt.Fprintf(os.Stderr, "  snowflake encode 2rfuON0 decimal\n")
		os.Exit(1)
	}

	id, err := parseIDFlexible(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to parse ID '%s': %v\n", args[0], err)
		os.Exit(1)
	}

	fmt.Println(id.Format(strings.ToLower(args[1])))
}

// ============================================================================
// Validate Command
// ============================================================================

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: snowflake validate <id>\n")
		fmt.Fprintf(os.Stderr, "\nValidate the structure of an ID under the default layout.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  snowflake validate 532536735363072\n")
		os.Exit(1)
	}

	idStr := args[0]
	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Printf("INVALID: Unable to parse ID '%s'\n", idStr)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ts, machine, service, seq := id.Components()

	if !id.IsValid() {
		fmt.Printf("INVALID: ID structure is invalid\n")
		fmt.Printf("\nComponents:\n")
		fmt.Printf("  Timestamp:  %d ms since Unix epoch\n", ts)
		fmt.Printf("  Machine ID: %d\n", machine)
		fmt.Printf("  Service ID: %d\n", service)
		fmt.Printf("  Sequence:   %d\n", seq)

		if id <= 0 {
			fmt.Printf("\n  Error: ID is not positive\n")
		}
		if ts <= snowflake.DefaultEpoch {
			fmt.Printf("\n  Error: Timestamp is before or equal to the epoch\n")
		}
		if ts > time.Now().UnixMilli()+86400000 {
			fmt.Printf("\n  Error: Timestamp is more than a day in the future\n")
		}
		os.Exit(1)
	}

	fmt.Printf("VALID: ID structure is valid\n")
	fmt.Printf("\nComponents:\n")
	fmt.Printf("  Timestamp:  %s\n", time.UnixMilli(ts).Format(time.RFC3339))
	fmt.Printf("  Machine ID: %d\n", machine)
	fmt.Printf("  Service ID: %d\n", service)
	fmt.Printf("  Sequence:   %d\n", seq)
	fmt.Printf("  Age:        %v\n", id.Age().Round(time.Millisecond))
}

// ============================================================================
// Layout Command
// ============================================================================

func cmdLayout(args []string) {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	preset := fs.String("preset", "default", "Layout preset: default, dense, highrate, wide")
	timestampBits := fs.Int("timestamp-bits", 0, "Custom timestamp width (overrides preset)")
	machineBits := fs.Int("machine-bits", 0, "Custom machine width")
	serviceBits := fs.Int("service-bits", 0, "Custom service width")
	sequenceBits := fs.Int("sequence-bits", 0, "Custom sequence width")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snowflake layout [flags]

Show the bit allocation, capacities, and horizon of a layout.

Flags:
  --preset NAME        Layout preset: default, dense, highrate, wide
  --timestamp-bits N   Custom timestamp width (with the other three, overrides preset)
  --machine-bits N     Custom machine width
  --service-bits N     Custom service width
  --sequence-bits N    Custom sequence width

Examples:
  snowflake layout --preset wide
  snowflake layout --timestamp-bits 40 --machine-bits 4 --service-bits 4 --sequence-bits 5
`)
	}

	fs.Parse(args)

	var layout snowflake.Layout
	var err error
	if *timestampBits > 0 {
		layout, err = snowflake.ComputeLayout(*timestampBits, *machineBits, *serviceBits, *sequenceBits)
	} else {
		layout, err = layoutByName(*preset)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	horizon := layout.Horizon()
	fmt.Printf("Layout: %s\n", layout)
	fmt.Printf("\n")
	fmt.Printf("Capacities:\n")
	fmt.Printf("  Machines:        %d\n", layout.MaxMachineID+1)
	fmt.Printf("  Services:        %d\n", layout.MaxServiceID+1)
	fmt.Printf("  IDs per ms:      %d per generator\n", layout.MaxSequence+1)
	fmt.Printf("  Horizon:         %.1f years from the custom epoch\n",
		horizon.Hours()/24/365)
	fmt.Printf("\n")
	fmt.Printf("JSON-number safe:  %v\n", layout.JSNumberSafe())
}

// ============================================================================
// Benchmark Command
// ============================================================================

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	duration := fs.Duration("duration", 3*time.Second, "Benchmark duration")
	machineID := fs.Int64("machine", 0, "Machine ID")
	serviceID := fs.Int64("service", 0, "Service ID")
	layoutName := fs.String("layout", "default", "Layout preset")
	batchSize := fs.Int("batch", 100, "Batch size for batch generation test")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: snowflake bench [flags]

Run performance benchmarks for ID generation.

Flags:
  --duration D      Benchmark duration (default: 3s)
  --machine N       Machine ID (default: 0)
  --service N       Service ID (default: 0)
  --layout NAME     Layout preset (default: default)
  --batch N         Batch size for batch test (default: 100)

Examples:
  snowflake bench --duration 5s
  snowflake bench --layout highrate --duration 10s
`)
	}

	fs.Parse(args)

	layout, err := layoutByName(*layoutName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg := snowflake.DefaultConfig(*machineID, *serviceID)
	cfg.Layout = layout
	gen, err := snowflake.NewWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running benchmarks (duration: %v, machine: %d, service: %d, layout: %s)\n\n",
		*duration, *machineID, *serviceID, *layoutName)

	// Benchmark 1: Single ID generation
	fmt.Printf("1. Single ID Generation:\n")
	count := 0
	start := time.Now()
	deadline := start.Add(*duration)
	for time.Now().Before(deadline) {
		if _, err := gen.GenerateID(); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", err)
			break
		}
		count++
	}
	elapsed := time.Since(start)
	fmt.Printf("   Generated:      %d IDs\n", count)
	fmt.Printf("   Duration:       %v\n", elapsed)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n",
		float64(count)/elapsed.Seconds(),
		float64(elapsed.Nanoseconds())/float64(count))
	fmt.Printf("\n")

	// Benchmark 2: Batch generation
	fmt.Printf("2. Batch Generation (batch size: %d):\n", *batchSize)
	count = 0
	batchCount := 0
	start = time.Now()
	deadline = start.Add(*duration)
	for time.Now().Before(deadline) {
		ids, err := gen.GenerateBatch(*batchSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", err)
			break
		}
		count += len(ids)
		batchCount++
	}
	elapsed = time.Since(start)
	fmt.Printf("   Generated:      %d IDs in %d batches\n", count, batchCount)
	fmt.Printf("   Duration:       %v\n", elapsed)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n",
		float64(count)/elapsed.Seconds(),
		float64(elapsed.Nanoseconds())/float64(count))
	fmt.Printf("\n")

	// Benchmark 3: Encoding performance
	fmt.Printf("3. Encoding Performance (1000 operations):\n")
	testID, err := gen.GenerateID()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating test ID: %v\n", err)
		os.Exit(1)
	}

	encodingTests := []struct {
		name string
		fn   func() string
	}{
		{"Decimal", func() string { return testID.String() }},
		{"Base62", func() string { return testID.Base62() }},
		{"Base36", func() string { return testID.Base36() }},
		{"Hex", func() string { return testID.Hex() }},
	}

	for _, test := range encodingTests {
		start := time.Now()
		for i := 0; i < 1000; i++ {
			_ = test.fn()
		}
		elapsed := time.Since(start)
		fmt.Printf("   %-8s %6.0f ns/op\n", test.name+":",
			float64(elapsed.Nanoseconds())/1000)
	}

	// Generator counters accumulated over the whole run.
	m := gen.Metrics()
	fmt.Printf("\nGenerator metrics:\n")
	fmt.Printf("   Generated:      %d\n", m.Generated)
	fmt.Printf("   SequenceWaits:  %d\n", m.SequenceWaits)
	fmt.Printf("   DriftAbsorbed:  %d\n", m.DriftAbsorbed)
	fmt.Printf("   WaitTime:       %dus\n", m.WaitTimeUs)

	fmt.Printf("\nBenchmark complete!\n")
}
