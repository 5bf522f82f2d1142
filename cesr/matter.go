package cesr

import (
	"encoding/base64"
	"fmt"
)

// Matter is a qualified primitive: a derivation code plus the raw bytes it
// qualifies. It is the base type every fixed-size primitive (verification
// key, seed, digest, salt, signature) embeds.
type Matter struct {
	code Code
	raw  []byte
}

// NewMatter builds a Matter, validating the raw length against the code's
// fixed size.
func NewMatter(code Code, raw []byte) (Matter, error) {
	n, ok := RawSize(code)
	if !ok {
		return Matter{}, &ErrUnsupportedCode{Code: string(code)}
	}
	if len(raw) != n {
		return Matter{}, fmt.Errorf("cesr: code %s wants %d raw bytes, got %d", code, n, len(raw))
	}
	cp := make([]byte, n)
	copy(cp, raw)
	return Matter{code: code, raw: cp}, nil
}

// Code returns the derivation code.
func (m Matter) Code() Code { return m.code }

// Raw returns the raw (unqualified) bytes.
func (m Matter) Raw() []byte { return m.raw }

// Qb64 renders the text (base64) qualified view: code followed by the
// URL-safe, unpadded base64 encoding of the raw bytes.
func (m Matter) Qb64() string {
	return string(m.code) + base64.RawURLEncoding.EncodeToString(m.raw)
}

// Qb64b is Qb64 as bytes.
func (m Matter) Qb64b() []byte { return []byte(m.Qb64()) }

// Qb2 renders the packed binary view: the code's ASCII bytes immediately
// followed by the raw bytes (no base64 expansion).
func (m Matter) Qb2() []byte {
	out := make([]byte, 0, len(m.code)+len(m.raw))
	out = append(out, []byte(m.code)...)
	out = append(out, m.raw...)
	return out
}

// Len returns the number of bytes this primitive occupies in its Qb64 form.
func (m Matter) Len() int {
	return len(m.code) + base64.RawURLEncoding.EncodedLen(len(m.raw))
}

// ParseMatter decodes one qualified primitive off the front of buf.
// It returns the decoded Matter and the number of bytes consumed.
func ParseMatter(buf []byte) (Matter, int, error) {
	if len(buf) == 0 {
		return Matter{}, 0, fmt.Errorf("cesr: empty buffer")
	}
	cl := codeLen(buf[0])
	if len(buf) < cl {
		return Matter{}, 0, fmt.Errorf("cesr: truncated code")
	}
	code := Code(buf[:cl])
	n, ok := RawSize(code)
	if !ok {
		return Matter{}, 0, &ErrUnsupportedCode{Code: string(code)}
	}
	b64len := base64.RawURLEncoding.EncodedLen(n)
	total := cl + b64len
	if len(buf) < total {
		return Matter{}, 0, fmt.Errorf("cesr: truncated primitive, need %d bytes have %d", total, len(buf))
	}
	raw, err := base64.RawURLEncoding.DecodeString(string(buf[cl:total]))
	if err != nil {
		return Matter{}, 0, fmt.Errorf("cesr: bad base64 in primitive: %w", err)
	}
	m, err := NewMatter(code, raw)
	if err != nil {
		return Matter{}, 0, err
	}
	return m, total, nil
}

// Strip is ParseMatter that also advances *buf past the consumed bytes,
// mirroring the Python source's strip=True convention used throughout
// streaming.py.
func Strip(buf *[]byte) (Matter, error) {
	m, n, err := ParseMatter(*buf)
	if err != nil {
		return Matter{}, err
	}
	*buf = (*buf)[n:]
	return m, nil
}
