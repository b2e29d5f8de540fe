package snowflake

import (
	"encoding/json"
	"testing"
)

func FuzzID_JSONRoundTrip(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(1))
	f.Add(int64(1<<53 - 1)) // largest number-form ID
	f.Add(int64(1 << 53))   // smallest string-form ID
	f.Add(int64(1<<63 - 1))

	f.Fuzz(func(t *testing.T, v int64) {
		if v < 0 {
			t.Skip()
		}
		id := ID(v)

		data, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("Marshal(%d) error = %v", v, err)
		}

		// Number form exactly up to 2^53-1, string form above.
		quoted := data[0] == '"'
		if v <= maxJSONNumber && quoted {
			t.Errorf("ID %d should marshal as a number, got %s", v, data)
		}
		if v > maxJSONNumber && !quoted {
			t.Errorf("ID %d should marshal as a string, got %s", v, data)
		}

		var got ID
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if got != id {
			t.Errorf("round trip of %d = %d", id, got)
		}
	})
}

func FuzzID_TextRoundTrip(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(123456789))
	f.Add(int64(1<<63 - 1))

	f.Fuzz(func(t *testing.T, v int64) {
		id := ID(v)
		text, err := id.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) error = %v", v, err)
		}
		var got ID
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%s) error = %v", text, err)
		}
		if got != id {
			t.Errorf("round trip of %d = %d", id, got)
		}
	})
}

func FuzzLayout_PackUnpack(f *testing.F) {
	f.Add(int64(0), int64(0), int64(0), int64(0))
	f.Add(int64(123456789), int64(5), int64(2), int64(17))
	f.Add(int64(1<<41-1), int64(7), int64(7), int64(63))

	f.Fuzz(func(t *testing.T, elapsed, machine, service, sequence int64) {
		l := LayoutDefault
		if elapsed < 0 || elapsed > 1<<41-1 {
			t.Skip()
		}
		if machine < 0 || machine > l.MaxMachineID {
			t.Skip()
		}
		if service < 0 || service > l.MaxServiceID {
			t.Skip()
		}
		if sequence < 0 || sequence > l.MaxSequence {
			t.Skip()
		}

		id := l.Pack(elapsed, machine, service, sequence)
		if id < 0 {
			t.Fatalf("Pack() produced negative ID %d", id)
		}
		e, m, s, q := l.Unpack(id)
		if e != elapsed || m != machine || s != service || q != sequence {
			t.Errorf("round trip (%d,%d,%d,%d) = (%d,%d,%d,%d)",
				elapsed, machine, service, sequence, e, m, s, q)
		}
	})
}
