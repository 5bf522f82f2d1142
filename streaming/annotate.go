// Package streaming is the Stream Parser/Annotator (C5): a streaming
// decoder over a self-framing CESR byte stream that emits a line-per-
// primitive annotation of an inception event. It never touches the store
// and holds no state beyond the buffer it is decoding.
package streaming

import (
	"fmt"
	"strings"

	keeper "github.com/sci-ident/go-keeper"
	"github.com/sci-ident/go-keeper/cesr"
)

// indentUnit is the per-level indentation used in annotation output.
const indentUnit = "  "

type annotator struct {
	out *strings.Builder
}

func (a *annotator) line(indent int, qb64, label string) {
	a.out.WriteString(strings.Repeat(indentUnit, indent))
	a.out.WriteString(qb64)
	a.out.WriteString(" # ")
	a.out.WriteString(label)
	a.out.WriteByte('\n')
}

func parseErr(field string, cause error) error {
	return keeper.WrapError(keeper.ErrParse, cause, "expected %s", field)
}

// Annotate decodes a self-framing CESR inception event and returns a
// human-readable annotation: one line per primitive, with nested counters
// producing strictly increasing then decreasing indentation (spec §4.5,
// §8 invariant 6).
func Annotate(stream []byte) (string, error) {
	kind, err := cesr.SniffBuf(stream)
	if err != nil {
		return "", keeper.WrapError(keeper.ErrColdStart, err, "classifying stream")
	}
	if kind != cesr.ColdText {
		return "", keeper.NewError(keeper.ErrColdStart, "stream framing class %v not supported by this annotator", kind)
	}

	a := &annotator{out: &strings.Builder{}}
	consumed, err := a.decodeEventMessage(stream, 0)
	if err != nil {
		return "", err
	}
	if consumed != len(stream) {
		return "", parseErr("whole stream", fmt.Errorf("consumed %d of %d bytes", consumed, len(stream)))
	}
	return a.out.String(), nil
}

// decodeEventMessage consumes the top-level event-message Counter and
// recursively decodes the inception event it introduces.
func (a *annotator) decodeEventMessage(buf []byte, indent int) (int, error) {
	counter, n, err := cesr.ParseCounter(buf)
	if err != nil {
		return 0, parseErr("event message counter", err)
	}
	if counter.Kind != cesr.CounterEventMessage {
		return 0, parseErr("event message counter", fmt.Errorf("got kind %q", counter.Kind))
	}
	a.line(indent, counter.Qb64(), counter.Name())

	off := n
	frameLen := counter.Bytes()
	if off+frameLen > len(buf) {
		return 0, parseErr("event message frame", fmt.Errorf("truncated: need %d bytes, have %d", frameLen, len(buf)-off))
	}
	frame := buf[off : off+frameLen]

	consumed, err := a.decodeInception(frame, indent+1)
	if err != nil {
		return 0, err
	}
	if consumed != len(frame) {
		return 0, parseErr("event message frame", fmt.Errorf("consumed %d of %d bytes", consumed, len(frame)))
	}
	return off + frameLen, nil
}

// decodeInception consumes, in the strict order of spec §4.5.3, the fields
// of an inception event.
func (a *annotator) decodeInception(buf []byte, indent int) (int, error) {
	off := 0

	v, n, err := cesr.ParseVerser(buf[off:])
	if err != nil {
		return 0, parseErr("v", err)
	}
	a.line(indent, v.Qb64(), "v")
	off += n

	ilker, n, err := cesr.ParseIlker(buf[off:])
	if err != nil {
		return 0, parseErr("t", err)
	}
	if ilker.Ilk != cesr.IlkIcp {
		return 0, parseErr("t", fmt.Errorf("expected icp, got %q", ilker.Ilk))
	}
	a.line(indent, ilker.Qb64(), "t")
	off += n

	d, n, err := cesr.ParseDiger(buf[off:])
	if err != nil {
		return 0, parseErr("d", err)
	}
	a.line(indent, d.Qb64(), "d")
	off += n

	i, n, err := cesr.ParsePrefixer(buf[off:])
	if err != nil {
		return 0, parseErr("i", err)
	}
	a.line(indent, i.Qb64(), "i")
	off += n

	s, n, err := cesr.ParseNumber(buf[off:])
	if err != nil {
		return 0, parseErr("s", err)
	}
	a.line(indent, s.Qb64(), "s")
	off += n

	kt, n, err := cesr.ParseTholder(buf[off:])
	if err != nil {
		return 0, parseErr("kt", err)
	}
	a.line(indent, kt.Qb64(), "kt")
	off += n

	n, err = a.decodeCounterList(buf[off:], indent, cesr.CounterSigningKeys, "k", parseVerferTok)
	if err != nil {
		return 0, err
	}
	off += n

	nt, n, err := cesr.ParseTholder(buf[off:])
	if err != nil {
		return 0, parseErr("nt", err)
	}
	a.line(indent, nt.Qb64(), "nt")
	off += n

	n, err = a.decodeCounterList(buf[off:], indent, cesr.CounterNextDigests, "n", parseDigerTok)
	if err != nil {
		return 0, err
	}
	off += n

	bt, n, err := cesr.ParseTholder(buf[off:])
	if err != nil {
		return 0, parseErr("bt", err)
	}
	a.line(indent, bt.Qb64(), "bt")
	off += n

	n, err = a.decodeCounterList(buf[off:], indent, cesr.CounterWitnesses, "b", parsePrefixerTok)
	if err != nil {
		return 0, err
	}
	off += n

	n, err = a.decodeCounterList(buf[off:], indent, cesr.CounterConfigTraits, "c", parseTraitorTok)
	if err != nil {
		return 0, err
	}
	off += n

	n, err = a.decodeSealList(buf[off:], indent)
	if err != nil {
		return 0, err
	}
	off += n

	return off, nil
}

// decodeCounterList consumes a Counter introducing a quadlet-counted list of
// flat primitives, annotating the counter and then each element in turn.
func (a *annotator) decodeCounterList(buf []byte, indent int, expect cesr.CounterKind, label string, parseOne func([]byte) (string, int, error)) (int, error) {
	counter, n, err := cesr.ParseCounter(buf)
	if err != nil {
		return 0, parseErr(label+" counter", err)
	}
	if counter.Kind != expect {
		return 0, parseErr(label+" counter", fmt.Errorf("expected kind %q, got %q", expect, counter.Kind))
	}
	a.line(indent, counter.Qb64(), counter.Name())

	off := n
	frameLen := counter.Bytes()
	if off+frameLen > len(buf) {
		return 0, parseErr(label+" frame", fmt.Errorf("truncated: need %d bytes, have %d", frameLen, len(buf)-off))
	}
	sub := buf[off : off+frameLen]

	pos := 0
	for pos < len(sub) {
		qb64, used, err := parseOne(sub[pos:])
		if err != nil {
			return 0, parseErr(label, err)
		}
		a.line(indent+1, qb64, label)
		pos += used
	}
	return off + frameLen, nil
}

// decodeSealList consumes the Counter introducing the seal list (field 'a')
// and recursively decodes each seal, which is itself a nested Counter.
func (a *annotator) decodeSealList(buf []byte, indent int) (int, error) {
	counter, n, err := cesr.ParseCounter(buf)
	if err != nil {
		return 0, parseErr("a counter", err)
	}
	if counter.Kind != cesr.CounterSeals {
		return 0, parseErr("a counter", fmt.Errorf("expected kind %q, got %q", cesr.CounterSeals, counter.Kind))
	}
	a.line(indent, counter.Qb64(), counter.Name())

	off := n
	frameLen := counter.Bytes()
	if off+frameLen > len(buf) {
		return 0, parseErr("a frame", fmt.Errorf("truncated: need %d bytes, have %d", frameLen, len(buf)-off))
	}
	sub := buf[off : off+frameLen]

	pos := 0
	for pos < len(sub) {
		used, err := a.decodeSeal(sub[pos:], indent+1)
		if err != nil {
			return 0, err
		}
		pos += used
	}
	return off + frameLen, nil
}

// decodeSeal consumes one seal: its introducing Counter (whose kind names
// the Clan) followed by the clan's typed fields, each on its own line.
func (a *annotator) decodeSeal(buf []byte, indent int) (int, error) {
	counter, n, err := cesr.ParseCounter(buf)
	if err != nil {
		return 0, parseErr("seal counter", err)
	}
	clan, err := cesr.ClanForCounter(counter.Kind)
	if err != nil {
		return 0, parseErr("seal clan", err)
	}
	a.line(indent, counter.Qb64(), counter.Name())

	off := n
	frameLen := counter.Bytes()
	if off+frameLen > len(buf) {
		return 0, parseErr("seal frame", fmt.Errorf("truncated: need %d bytes, have %d", frameLen, len(buf)-off))
	}
	sub := buf[off : off+frameLen]

	seal, consumed, err := cesr.ParseSeal(clan, sub)
	if err != nil {
		return 0, parseErr("seal fields", err)
	}
	if consumed != len(sub) {
		return 0, parseErr("seal frame", fmt.Errorf("consumed %d of %d bytes", consumed, len(sub)))
	}

	switch clan {
	case cesr.ClanEventSeal:
		a.line(indent+1, seal.I.Qb64(), "seal.i")
		a.line(indent+1, seal.S.Qb64(), "seal.s")
		a.line(indent+1, seal.D.Qb64(), "seal.d")
	default:
		return 0, parseErr("seal clan", fmt.Errorf("unsupported clan %q for annotation", clan))
	}
	return off + frameLen, nil
}

func parseVerferTok(buf []byte) (string, int, error) {
	v, n, err := cesr.ParseVerfer(buf)
	if err != nil {
		return "", 0, err
	}
	return v.Qb64(), n, nil
}

func parseDigerTok(buf []byte) (string, int, error) {
	d, n, err := cesr.ParseDiger(buf)
	if err != nil {
		return "", 0, err
	}
	return d.Qb64(), n, nil
}

func parsePrefixerTok(buf []byte) (string, int, error) {
	p, n, err := cesr.ParsePrefixer(buf)
	if err != nil {
		return "", 0, err
	}
	return p.Qb64(), n, nil
}

func parseTraitorTok(buf []byte) (string, int, error) {
	t, n, err := cesr.ParseTraitor(buf)
	if err != nil {
		return "", 0, err
	}
	return t.Qb64(), n, nil
}
