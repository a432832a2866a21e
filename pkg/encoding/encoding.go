// Package encoding reports character byte lengths under the session's
// server encoding.
//
// The scanner uses ByteLen to advance over whole characters without
// splitting multibyte sequences. The function is used for advancement,
// not validation: malformed input yields a conservative length of 1 so
// scanning always makes forward progress.
package encoding

// Encoding identifies a server-side character encoding.
type Encoding int

const (
	// SQLASCII is the single-byte fallback encoding. Every byte is one
	// character.
	SQLASCII Encoding = iota
	// UTF8 is the variable-width UTF-8 encoding (1-4 bytes per character).
	UTF8
)

// String returns the canonical server-side name of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF8"
	default:
		return "SQL_ASCII"
	}
}

// Parse maps a server_encoding parameter value to an Encoding.
// Only the exact name "UTF8" selects UTF-8; every other value falls back
// to the single-byte encoding, which is always safe for advancement.
func Parse(name string) Encoding {
	if name == "UTF8" {
		return UTF8
	}
	return SQLASCII
}

// ByteLen returns the number of bytes the character starting with b
// occupies under the encoding, in the range 1..4.
//
// For UTF-8 the length is implied by the lead byte's bit pattern.
// Continuation or invalid lead bytes report 1 rather than an error.
func (e Encoding) ByteLen(b byte) int {
	if e != UTF8 {
		return 1
	}
	switch {
	case b < 0x80:
		return 1
	case b&0xe0 == 0xc0:
		return 2
	case b&0xf0 == 0xe0:
		return 3
	case b&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}
