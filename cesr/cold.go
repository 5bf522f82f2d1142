package cesr

import "fmt"

// ColdKind classifies the first byte of a stream so the parser knows how to
// frame what follows before any Counter has been seen.
type ColdKind int

const (
	ColdInvalid ColdKind = iota
	ColdText             // base64 text stream, framed by Counters/Matters directly
	ColdBinary            // packed binary (qb2) stream
	ColdJSON              // bare JSON-serialized event, framed by its own v-string size
)

// Sniff classifies the leading byte of a stream per its top tritet (top 3
// bits). CESR streams begin with either a base64 text character (letters
// and '_' have tritet 0b010 or 0b011; '-' and the digits have tritet 0b001
// and are matched explicitly), a JSON '{' (0x7b, tritet 0b011, matched
// before the tritet test), or a binary CESR framing byte whose top tritet is
// 0b100 or above.
func Sniff(b byte) ColdKind {
	switch b {
	case '{':
		return ColdJSON
	case '-', 'V', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return ColdText
	}
	tritet := b >> 5
	switch tritet {
	case 0b010, 0b011:
		return ColdText
	case 0b100, 0b101, 0b110, 0b111:
		return ColdBinary
	default:
		return ColdInvalid
	}
}

// SniffBuf classifies the first byte of buf, erroring on an empty or
// unrecognized lead byte.
func SniffBuf(buf []byte) (ColdKind, error) {
	if len(buf) == 0 {
		return ColdInvalid, fmt.Errorf("%w: empty stream", ErrColdStart)
	}
	kind := Sniff(buf[0])
	if kind == ColdInvalid {
		return ColdInvalid, fmt.Errorf("%w: unrecognized lead byte %#x", ErrColdStart, buf[0])
	}
	return kind, nil
}
