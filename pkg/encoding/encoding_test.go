package encoding_test

import (
	"testing"

	"github.com/relaystack/pgparse/pkg/encoding"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Parse("UTF8"))
	// Exact match only; lowercase and other encodings fall back
	assert.Equal(t, encoding.SQLASCII, encoding.Parse("utf8"))
	assert.Equal(t, encoding.SQLASCII, encoding.Parse("LATIN1"))
	assert.Equal(t, encoding.SQLASCII, encoding.Parse(""))
}

func TestByteLenUTF8(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want int
	}{
		{"ascii letter", 0x41, 1},
		{"ascii nul", 0x00, 1},
		{"two byte lead", 0xC2, 2},
		{"two byte lead upper", 0xDF, 2},
		{"three byte lead", 0xE2, 3},
		{"four byte lead", 0xF0, 4},
		{"continuation byte", 0x80, 1},
		{"invalid lead 0xF8", 0xF8, 1},
		{"invalid lead 0xFF", 0xFF, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encoding.UTF8.ByteLen(tt.b))
		})
	}
}

func TestByteLenSingleByte(t *testing.T) {
	for _, b := range []byte{0x00, 0x41, 0xC2, 0xE2, 0xF0, 0xFF} {
		assert.Equal(t, 1, encoding.SQLASCII.ByteLen(b))
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "UTF8", encoding.UTF8.String())
	assert.Equal(t, "SQL_ASCII", encoding.SQLASCII.String())
}
