// Package snowflake - id.go provides the strongly typed ID with encoding,
// marshaling, and component-extraction methods.

package snowflake

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"strconv"
	"time"
)

// ID is a generated identifier.
//
// Using a named type instead of a bare int64 keeps IDs from mixing with
// ordinary integers and carries the encoding and extraction methods. The
// type implements json.Marshaler/Unmarshaler, encoding.TextMarshaler/
// Unmarshaler, encoding.BinaryMarshaler/Unmarshaler, sql.Scanner,
// driver.Valuer, and fmt.Stringer.
//
// Methods that unpack components (Time, Machine, Service, Sequence) assume
// LayoutDefault and DefaultEpoch; the *In variants take an explicit layout
// and epoch for IDs generated under other configurations.
type ID int64

// maxJSONNumber is the largest integer an IEEE-754 double represents
// exactly (2^53 - 1). IDs above it must travel as JSON strings.
const maxJSONNumber = 1<<53 - 1

// Int64 returns the ID as an int64.
func (id ID) Int64() int64 {
	return int64(id)
}

// Uint64 returns the ID as a uint64.
func (id ID) Uint64() uint64 {
	return uint64(id)
}

// String returns the decimal representation. Implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Base36 returns a base36 (0-9, a-z) representation.
func (id ID) Base36() string {
	return strconv.FormatInt(int64(id), 36)
}

// Base62 returns a URL-safe base62 (0-9, a-z, A-Z) representation, the
// recommended form for REST paths and short links.
func (id ID) Base62() string {
	return encodeBase62(int64(id))
}

// Hex returns a lowercase hexadecimal representation.
func (id ID) Hex() string {
	return encodeHex(int64(id))
}

// Bytes returns the decimal representation as bytes.
func (id ID) Bytes() []byte {
	return []byte(id.String())
}

// IntBytes returns the ID as 8 big-endian bytes, the canonical binary form
// for network protocols and ordered key encodings.
func (id ID) IntBytes() [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b
}

// MarshalJSON implements json.Marshaler.
//
// IDs within the 53-bit JSON-number budget marshal as plain numbers - the
// whole point of the compact layouts is that web clients can consume them
// as ordinary numerics. IDs beyond the budget (e.g. LayoutWide) marshal as
// quoted strings to avoid silent precision loss in JavaScript.
func (id ID) MarshalJSON() ([]byte, error) {
	if id >= 0 && id <= maxJSONNumber {
		return []byte(strconv.FormatInt(int64(id), 10)), nil
	}
	return []byte(`"` + strconv.FormatInt(int64(id), 10) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both the number and
// the string form.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("invalid snowflake ID: empty JSON value")
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake ID: %w", err)
	}
	*id = ID(i)
	return nil
}

// MarshalText implements encoding.TextMarshaler for YAML, TOML, XML, CSV.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	i, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return err
	}
	*id = ID(i)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler (8 big-endian bytes).
func (id ID) MarshalBinary() ([]byte, error) {
	b := id.IntBytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (id *ID) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("invalid binary ID length: %d", len(data))
	}
	*id = ID(int64(binary.BigEndian.Uint64(data)))
	return nil
}

// Scan implements sql.Scanner so IDs read directly from BIGINT, VARCHAR,
// or TEXT columns. nil scans to zero.
func (id *ID) Scan(value interface{}) error {
	if value == nil {
		*id = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		*id = ID(v)
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		*id = ID(i)
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*id = ID(i)
	default:
		return fmt.Errorf("cannot scan %T into ID", value)
	}
	return nil
}

// Value implements driver.Valuer; IDs store as int64 in BIGINT columns.
func (id ID) Value() (driver.Value, error) {
	return int64(id), nil
}

// ParseString parses a decimal string into an ID.
func ParseString(s string) (ID, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseInt64 converts an int64 into an ID.
func ParseInt64(i int64) ID {
	return ID(i)
}

// ParseBase36 parses a base36 string into an ID.
func ParseBase36(s string) (ID, error) {
	i, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return 0, ErrInvalidBase36
	}
	return ID(i), nil
}

// ParseBase62 parses a base62 string into an ID.
func ParseBase62(s string) (ID, error) {
	i, err := decodeBase62(s)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseHex parses a hexadecimal string (either case) into an ID.
func ParseHex(s string) (ID, error) {
	i, err := decodeHex(s)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseBytes parses a decimal byte slice into an ID.
func ParseBytes(b []byte) (ID, error) {
	return ParseString(string(b))
}

// ParseIntBytes parses 8 big-endian bytes into an ID.
func ParseIntBytes(b [8]byte) ID {
	return ID(int64(binary.BigEndian.Uint64(b[:])))
}

// Time returns the generation time, assuming LayoutDefault and DefaultEpoch.
func (id ID) Time() time.Time {
	return id.TimeIn(LayoutDefault, DefaultEpoch)
}

// TimeIn returns the generation time for an ID produced under the given
// layout and epoch.
func (id ID) TimeIn(layout Layout, epochMillis int64) time.Time {
	elapsed, _, _, _ := layout.Unpack(int64(id))
	return time.UnixMilli(elapsed + epochMillis)
}

// Timestamp returns the generation time in milliseconds since the Unix
// epoch, assuming LayoutDefault and DefaultEpoch.
func (id ID) Timestamp() int64 {
	elapsed, _, _, _ := LayoutDefault.Unpack(int64(id))
	return elapsed + DefaultEpoch
}

// Machine returns the machine identifier, assuming LayoutDefault.
func (id ID) Machine() int64 {
	_, machine, _, _ := LayoutDefault.Unpack(int64(id))
	return machine
}

// MachineIn returns the machine identifier under the given layout.
func (id ID) MachineIn(layout Layout) int64 {
	_, machine, _, _ := layout.Unpack(int64(id))
	return machine
}

// Service returns the service identifier, assuming LayoutDefault.
func (id ID) Service() int64 {
	_, _, service, _ := LayoutDefault.Unpack(int64(id))
	return service
}

// ServiceIn returns the service identifier under the given layout.
func (id ID) ServiceIn(layout Layout) int64 {
	_, _, service, _ := layout.Unpack(int64(id))
	return service
}

// Sequence returns the intra-millisecond sequence, assuming LayoutDefault.
func (id ID) Sequence() int64 {
	return int64(id) & LayoutDefault.MaxSequence
}

// SequenceIn returns the sequence under the given layout.
func (id ID) SequenceIn(layout Layout) int64 {
	return int64(id) & layout.MaxSequence
}

// Components returns the wall-clock milliseconds, machine, service, and
// sequence at once, assuming LayoutDefault and DefaultEpoch.
func (id ID) Components() (timestampMillis, machineID, serviceID, sequence int64) {
	return DecomposeID(int64(id), LayoutDefault, DefaultEpoch)
}

// ComponentsIn returns all four components under the given layout and epoch.
func (id ID) ComponentsIn(layout Layout, epochMillis int64) (timestampMillis, machineID, serviceID, sequence int64) {
	return DecomposeID(int64(id), layout, epochMillis)
}

// IsValidIn reports whether the ID is structurally plausible for the given
// layout and epoch: positive, timestamp at or after the epoch (an ID minted
// in the epoch millisecond itself is legitimate), and not more than a day in
// the future (allowing clock skew between observer and generator).
func (id ID) IsValidIn(layout Layout, epochMillis int64) bool {
	if id <= 0 {
		return false
	}
	ts, _, _, _ := DecomposeID(int64(id), layout, epochMillis)
	now := time.Now().UnixMilli()
	if ts < epochMillis {
		return false
	}
	if ts > now+86400000 {
		return false
	}
	return true
}

// IsValid reports structural plausibility under LayoutDefault/DefaultEpoch.
func (id ID) IsValid() bool {
	return id.IsValidIn(LayoutDefault, DefaultEpoch)
}

// Age returns the time elapsed since generation, assuming LayoutDefault and
// DefaultEpoch.
func (id ID) Age() time.Duration {
	return time.Since(id.Time())
}

// Before reports whether id was generated before other. IDs are
// time-ordered, so this is a plain numeric comparison.
func (id ID) Before(other ID) bool {
	return id < other
}

// After reports whether id was generated after other.
func (id ID) After(other ID) bool {
	return id > other
}

// Compare returns -1, 0, or 1 ordering two IDs by generation.
func (id ID) Compare(other ID) int {
	switch {
	case id < other:
		return -1
	case id > other:
		return 1
	default:
		return 0
	}
}

// Shard maps the ID onto [0, numShards) by modulo, for partition routing.
func (id ID) Shard(numShards int64) int64 {
	if numShards <= 0 {
		return 0
	}
	return int64(id) % numShards
}

// ShardByMachine routes every ID from the same machine to the same shard,
// assuming LayoutDefault.
func (id ID) ShardByMachine(numShards int64) int64 {
	if numShards <= 0 {
		return 0
	}
	return id.Machine() % numShards
}

// Format renders the ID in a named encoding. Unknown names fall back to
// decimal.
//
// Supported: "decimal"/"dec"/"d"/"", "hex"/"x", "base36"/"b36"/"36",
// "base62"/"b62"/"62", "binary"/"bin"/"b".
func (id ID) Format(format string) string {
	switch format {
	case "hex", "x":
		return id.Hex()
	case "base36", "b36", "36":
		return id.Base36()
	case "base62", "b62", "62":
		return id.Base62()
	case "binary", "bin", "b":
		return strconv.FormatInt(int64(id), 2)
	case "decimal", "dec", "d", "":
		return id.String()
	default:
		return id.String()
	}
}
