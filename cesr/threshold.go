package cesr

import "fmt"

// Tholder qualifies a signing/rotation/witness threshold expression, e.g.
// "1", "2", or a fractional weighted expression like "1/2,1/2". Unlike the
// fixed-size primitives, its length is carried explicitly since thresholds
// are free-form text (spec §4.5.3 calls this "a length-prefixed threshold
// expression").
type Tholder struct{ Sith string }

const tholderCode = 'T'
const tholderLenDigits = 2 // base64 digits encoding the text length, up to 4095 bytes

// Qb64 renders "T" + 2-char base64 length + the raw ASCII threshold text.
func (t Tholder) Qb64() string {
	return string(tholderCode) + intToB64(uint64(len(t.Sith)), tholderLenDigits) + t.Sith
}

// ParseTholder parses a Tholder from the front of buf.
func ParseTholder(buf []byte) (Tholder, int, error) {
	head := 1 + tholderLenDigits
	if len(buf) < head || buf[0] != tholderCode {
		return Tholder{}, 0, fmt.Errorf("%w: expected threshold primitive", ErrParse)
	}
	n, err := b64ToInt(string(buf[1:head]))
	if err != nil {
		return Tholder{}, 0, fmt.Errorf("%w: bad threshold length: %v", ErrParse, err)
	}
	total := head + int(n)
	if len(buf) < total {
		return Tholder{}, 0, fmt.Errorf("%w: truncated threshold text", ErrParse)
	}
	return Tholder{Sith: string(buf[head:total])}, total, nil
}
