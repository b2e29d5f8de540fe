// Package snowflake - encoding.go implements the base62 and hex codecs.
//
// Both decoders run off 256-byte lookup tables built once at init, validate
// input length before decoding, and check for int64 overflow before every
// shift or multiply. Everything here is read-only after init and safe for
// concurrent use.

package snowflake

import "errors"

// Maximum encoded lengths for an int64. Longer inputs are rejected before
// decoding starts.
const (
	MaxBase62Len = 11 // ceil(log62(2^63))
	MaxHexLen    = 16 // 64 bits / 4 bits per char
)

// Decoding errors.
var (
	ErrInvalidBase36   = errors.New("invalid base36 encoding")
	ErrInvalidBase62   = errors.New("invalid base62 encoding")
	ErrInvalidHex      = errors.New("invalid hexadecimal encoding")
	ErrStringTooLong   = errors.New("encoded string exceeds maximum length")
	ErrIntegerOverflow = errors.New("decoded value would overflow int64")
)

// base62 orders digits before letters so encoded strings sort roughly like
// the underlying numbers at equal length. Hex is plain lowercase.
const (
	base62Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	hexAlphabet    = "0123456789abcdef"
)

// 0xFF marks characters outside the alphabet.
var (
	base62Lookup [256]byte
	hexLookup    [256]byte
)

func init() {
	for i := range base62Lookup {
		base62Lookup[i] = 0xFF
		hexLookup[i] = 0xFF
	}
	for i := 0; i < len(base62Alphabet); i++ {
		base62Lookup[base62Alphabet[i]] = byte(i)
	}
	for i := 0; i < len(hexAlphabet); i++ {
		hexLookup[hexAlphabet[i]] = byte(i)
		if c := hexAlphabet[i]; c >= 'a' && c <= 'f' {
			hexLookup[c-'a'+'A'] = byte(i)
		}
	}
}

// encodeBase62 renders a non-negative int64 in base62. Values at or below
// zero collapse to "0"; generated IDs are always positive.
func encodeBase62(id int64) string {
	if id <= 0 {
		return "0"
	}

	var buf [MaxBase62Len]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = base62Alphabet[id%62]
		id /= 62
	}
	return string(buf[i:])
}

// decodeBase62 parses a base62 string, rejecting foreign characters,
// overlong input, and values that would overflow int64.
func decodeBase62(s string) (int64, error) {
	if len(s) == 0 {
		return -1, ErrInvalidBase62
	}
	if len(s) > MaxBase62Len {
		return -1, ErrStringTooLong
	}

	const maxBeforeMultiply = (1<<63 - 1) / 62

	var id int64
	for i := 0; i < len(s); i++ {
		digit := base62Lookup[s[i]]
		if digit == 0xFF {
			return -1, ErrInvalidBase62
		}
		if id > maxBeforeMultiply {
			return -1, ErrIntegerOverflow
		}
		next := id*62 + int64(digit)
		if next < 0 {
			return -1, ErrIntegerOverflow
		}
		id = next
	}
	return id, nil
}

// encodeHex renders a non-negative int64 in lowercase hex, four bits per
// character.
func encodeHex(id int64) string {
	if id <= 0 {
		return "0"
	}

	var buf [MaxHexLen]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = hexAlphabet[id&0x0F]
		id >>= 4
	}
	return string(buf[i:])
}

// decodeHex parses a hex string in either case.
func decodeHex(s string) (int64, error) {
	if len(s) == 0 {
		return -1, ErrInvalidHex
	}
	if len(s) > MaxHexLen {
		return -1, ErrStringTooLong
	}

	const maxBeforeShift = (1<<63 - 1) >> 4

	var id int64
	for i := 0; i < len(s); i++ {
		digit := hexLookup[s[i]]
		if digit == 0xFF {
			return -1, ErrInvalidHex
		}
		if id > maxBeforeShift {
			return -1, ErrIntegerOverflow
		}
		id = id<<4 + int64(digit)
	}
	return id, nil
}
