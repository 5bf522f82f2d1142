package cesr

import "fmt"

// CounterKind names what kind of quadlet-counted group a Counter introduces.
// Kinds are single ASCII letters so a Counter's whole qb64 form (selector +
// kind + count) occupies exactly one 4-byte quadlet, like every other
// primitive in this codec.
type CounterKind string

const (
	CounterEventMessage CounterKind = "V" // whole key-event message
	CounterSigningKeys  CounterKind = "K" // 'k' signing key list
	CounterNextDigests  CounterKind = "N" // 'n' next-key digest list
	CounterWitnesses    CounterKind = "B" // 'b' witness prefix list
	CounterConfigTraits CounterKind = "C" // 'c' config trait list
	CounterSeals        CounterKind = "A" // 'a' seal list
	CounterEventSeal    CounterKind = "X" // one event-seal clan inside a seal list
)

var counterNames = map[CounterKind]string{
	CounterEventMessage: "KeyEventMessageGroup",
	CounterSigningKeys:  "ControllerSigningKeyListGroup",
	CounterNextDigests:  "NextKeyDigestListGroup",
	CounterWitnesses:    "WitnessPrefixListGroup",
	CounterConfigTraits: "ConfigTraitListGroup",
	CounterSeals:        "SealListGroup",
	CounterEventSeal:    "EventSealGroup",
}

// Counter is a quadlet-counted frame introducer: it both carries its own
// identity and names the length (in 4-byte quadlets) of the sub-frame that
// follows it.
type Counter struct {
	Kind  CounterKind
	Count int
}

// NewCounter builds a Counter for kind introducing count quadlets.
func NewCounter(kind CounterKind, count int) (Counter, error) {
	if count < 0 || count > 0xFFF {
		return Counter{}, fmt.Errorf("cesr: counter count %d out of range", count)
	}
	return Counter{Kind: kind, Count: count}, nil
}

// Name is the human-readable group name used in annotations.
func (c Counter) Name() string {
	if n, ok := counterNames[c.Kind]; ok {
		return n
	}
	return string(c.Kind)
}

// Qb64 renders "-" + 1-char kind + 2-char base64 count: exactly one quadlet.
func (c Counter) Qb64() string {
	return "-" + string(c.Kind) + intToB64(uint64(c.Count), 2)
}

// Bytes is the length in bytes of the sub-frame this counter introduces.
func (c Counter) Bytes() int { return c.Count * 4 }

const counterLen = 4 // '-' + 1 kind char + 2 count chars

// ParseCounter parses a Counter from the front of buf.
func ParseCounter(buf []byte) (Counter, int, error) {
	if len(buf) < counterLen {
		return Counter{}, 0, fmt.Errorf("%w: truncated counter", ErrParse)
	}
	if buf[0] != '-' {
		return Counter{}, 0, fmt.Errorf("%w: expected counter, saw %q", ErrParse, buf[0])
	}
	kind := CounterKind(buf[1:2])
	count, err := b64ToInt(string(buf[2:4]))
	if err != nil {
		return Counter{}, 0, fmt.Errorf("%w: bad counter count: %v", ErrParse, err)
	}
	return Counter{Kind: kind, Count: int(count)}, counterLen, nil
}

// StripCounter parses a Counter and advances *buf past it.
func StripCounter(buf *[]byte) (Counter, error) {
	c, n, err := ParseCounter(*buf)
	if err != nil {
		return Counter{}, err
	}
	*buf = (*buf)[n:]
	return c, nil
}
