package snowflake

import (
	"testing"
)

func TestGenerateBatch(t *testing.T) {
	gen, err := New(3, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sizes := []int{1, 10, 64, 1000}
	for _, size := range sizes {
		ids, err := gen.GenerateBatch(size)
		if err != nil {
			t.Fatalf("GenerateBatch(%d) error = %v", size, err)
		}
		if len(ids) != size {
			t.Fatalf("GenerateBatch(%d) returned %d IDs", size, len(ids))
		}
		for i := 1; i < len(ids); i++ {
			if ids[i] <= ids[i-1] {
				t.Fatalf("batch not strictly increasing at index %d: %d after %d",
					i, ids[i], ids[i-1])
			}
		}
	}
}

func TestGenerateBatch_EmptyAndNegative(t *testing.T) {
	gen, err := New(0, 0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, count := range []int{0, -1, -100} {
		ids, err := gen.GenerateBatch(count)
		if err != nil {
			t.Errorf("GenerateBatch(%d) error = %v", count, err)
		}
		if len(ids) != 0 {
			t.Errorf("GenerateBatch(%d) returned %d IDs, want 0", count, len(ids))
		}
	}
}

func TestGenerateBatch_UniqueAcrossBatches(t *testing.T) {
	gen, err := New(2, 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	seen := make(map[ID]struct{}, 5000)
	for b := 0; b < 5; b++ {
		ids, err := gen.GenerateBatch(1000)
		if err != nil {
			t.Fatalf("GenerateBatch() error = %v", err)
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				t.Fatalf("duplicate ID %d across batches", id)
			}
			seen[id] = struct{}{}
		}
	}
}

func TestGenerateBatch_InterleavesWithSingle(t *testing.T) {
	gen, err := New(1, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	single, err := gen.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID() error = %v", err)
	}
	batch, err := gen.GenerateBatch(100)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	after, err := gen.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID() error = %v", err)
	}

	if batch[0] <= single {
		t.Errorf("batch start %d should follow single %d", batch[0], single)
	}
	if after <= batch[len(batch)-1] {
		t.Errorf("single %d should follow batch end %d", after, batch[len(batch)-1])
	}
}

func TestGenerateBatch_PartialOnDriftFault(t *testing.T) {
	// The second generation inside the batch hits a 10ms backward jump. The
	// batch returns the one ID already issued alongside the error.
	clock := scriptedClock(testBase, testBase-10)
	cfg := DefaultConfig(1, 0)
	cfg.Clock = clock
	gen, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	ids, err := gen.GenerateBatch(3)
	if err == nil {
		t.Fatal("GenerateBatch() should surface the drift fault")
	}
	if !IsClockDriftError(err) {
		t.Errorf("error should be a ClockDriftError, got %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("partial batch = %d IDs, want 1", len(ids))
	}
	if clock.reads() != 2 {
		t.Errorf("clock reads = %d, want 2", clock.reads())
	}

	m := gen.Metrics()
	if m.Generated != 1 {
		t.Errorf("Generated = %d, want 1", m.Generated)
	}
	if m.DriftFaults != 1 {
		t.Errorf("DriftFaults = %d, want 1", m.DriftFaults)
	}
}

func TestGenerateBatch_SpansMilliseconds(t *testing.T) {
	// A batch larger than the per-millisecond budget must spill into later
	// ticks without error.
	layout, err := ComputeLayout(41, 3, 3, 2)
	if err != nil {
		t.Fatalf("ComputeLayout() error = %v", err)
	}
	cfg := DefaultConfig(0, 0)
	cfg.Layout = layout
	cfg.Clock = scriptedClock(
		testBase, testBase, testBase, testBase, testBase,
		testBase+1, testBase+1, testBase+1, testBase+1, testBase+1,
	)
	gen, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig() error = %v", err)
	}

	// 4 IDs per millisecond; 10 IDs need at least 3 distinct ticks.
	ids, err := gen.GenerateBatch(10)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(ids) != 10 {
		t.Fatalf("len = %d, want 10", len(ids))
	}

	ticks := make(map[int64]int)
	for _, id := range ids {
		elapsed, _, _, _ := layout.Unpack(int64(id))
		ticks[elapsed]++
	}
	if len(ticks) < 3 {
		t.Errorf("IDs spread over %d ticks, want >= 3", len(ticks))
	}
	for tick, n := range ticks {
		if n > 4 {
			t.Errorf("tick %d issued %d IDs, budget is 4", tick, n)
		}
	}
}

func BenchmarkGenerateBatch100(b *testing.B) {
	gen, err := New(1, 1)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.GenerateBatch(100); err != nil {
			b.Fatal(err)
		}
	}
}
