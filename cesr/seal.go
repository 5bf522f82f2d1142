package cesr

import "fmt"

// Clan names a seal's field layout, mirroring the Counter that introduces
// the seal's frame.
type Clan string

const (
	ClanEventSeal    Clan = "EventSeal"    // i, s, d
	ClanLocationSeal Clan = "LocationSeal" // i, s, t, p, d
	ClanDigestSeal   Clan = "DigestSeal"   // d
)

// Seal is a decoded anchor/event seal. Which fields are populated depends on
// Clan.
type Seal struct {
	Clan Clan
	I    Prefixer // issuer/event prefix
	S    Number   // sequence number
	T    Ilk      // event type, LocationSeal only
	P    Diger    // prior event digest, LocationSeal only
	D    Diger    // event or data digest
}

// clanForCounter maps the Counter introducing a seal's frame to its Clan.
var clanForCounter = map[CounterKind]Clan{
	CounterEventSeal: ClanEventSeal,
}

// ClanForCounter resolves the seal layout a Counter kind introduces.
func ClanForCounter(kind CounterKind) (Clan, error) {
	clan, ok := clanForCounter[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown seal counter kind %q", ErrParse, kind)
	}
	return clan, nil
}

// ParseSeal decodes a single seal of the given Clan from the front of buf,
// returning the seal and the number of bytes consumed.
func ParseSeal(clan Clan, buf []byte) (Seal, int, error) {
	switch clan {
	case ClanEventSeal:
		return parseEventSeal(buf)
	case ClanDigestSeal:
		return parseDigestSeal(buf)
	case ClanLocationSeal:
		return parseLocationSeal(buf)
	default:
		return Seal{}, 0, fmt.Errorf("%w: unsupported seal clan %q", ErrParse, clan)
	}
}

func parseEventSeal(buf []byte) (Seal, int, error) {
	off := 0
	i, n, err := ParsePrefixer(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("event seal 'i': %w", err)
	}
	off += n
	s, n, err := ParseNumber(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("event seal 's': %w", err)
	}
	off += n
	d, n, err := ParseDiger(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("event seal 'd': %w", err)
	}
	off += n
	return Seal{Clan: ClanEventSeal, I: i, S: s, D: d}, off, nil
}

func parseDigestSeal(buf []byte) (Seal, int, error) {
	d, n, err := ParseDiger(buf)
	if err != nil {
		return Seal{}, 0, fmt.Errorf("digest seal 'd': %w", err)
	}
	return Seal{Clan: ClanDigestSeal, D: d}, n, nil
}

func parseLocationSeal(buf []byte) (Seal, int, error) {
	off := 0
	i, n, err := ParsePrefixer(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("location seal 'i': %w", err)
	}
	off += n
	s, n, err := ParseNumber(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("location seal 's': %w", err)
	}
	off += n
	ilker, n, err := ParseIlker(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("location seal 't': %w", err)
	}
	off += n
	p, n, err := ParseDiger(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("location seal 'p': %w", err)
	}
	off += n
	d, n, err := ParseDiger(buf[off:])
	if err != nil {
		return Seal{}, 0, fmt.Errorf("location seal 'd': %w", err)
	}
	off += n
	return Seal{Clan: ClanLocationSeal, I: i, S: s, T: ilker.Ilk, P: p, D: d}, off, nil
}
