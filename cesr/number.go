package cesr

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Number qualifies an unsigned 64-bit integer (used for the 's' sequence
// number field).
type Number struct{ Sn uint64 }

const numberCodeLen = 1

// Qb64 renders "M" + base64(big-endian uint64).
func (n Number) Qb64() string {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n.Sn)
	return "M" + base64.RawURLEncoding.EncodeToString(raw)
}

func (n Number) qb64Len() int {
	return numberCodeLen + base64.RawURLEncoding.EncodedLen(8)
}

// ParseNumber parses a Number from the front of buf.
func ParseNumber(buf []byte) (Number, int, error) {
	total := numberCodeLen + base64.RawURLEncoding.EncodedLen(8)
	if len(buf) < total || buf[0] != 'M' {
		return Number{}, 0, fmt.Errorf("%w: expected number primitive", ErrParse)
	}
	raw, err := base64.RawURLEncoding.DecodeString(string(buf[1:total]))
	if err != nil {
		return Number{}, 0, fmt.Errorf("%w: bad number encoding: %v", ErrParse, err)
	}
	return Number{Sn: binary.BigEndian.Uint64(raw)}, total, nil
}
