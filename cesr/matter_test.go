package cesr

import (
	"bytes"
	"testing"
)

func TestMatterRoundTrip(t *testing.T) {
	raw := bytes.Repeat([]byte{0x11}, 32)
	m, err := NewMatter(CodeBlake3_256, raw)
	if err != nil {
		t.Fatalf("NewMatter: %v", err)
	}
	qb64 := m.Qb64()
	got, n, err := ParseMatter([]byte(qb64))
	if err != nil {
		t.Fatalf("ParseMatter: %v", err)
	}
	if n != len(qb64) {
		t.Fatalf("consumed %d, want %d", n, len(qb64))
	}
	if got.Code() != m.Code() || !bytes.Equal(got.Raw(), m.Raw()) {
		t.Fatalf("got %+v, want %+v", got, m)
	}
}

func TestNewMatterWrongSize(t *testing.T) {
	if _, err := NewMatter(CodeBlake3_256, []byte{0x01}); err == nil {
		t.Fatal("expected error for wrong raw size")
	}
}

func TestStripMatter(t *testing.T) {
	raw := bytes.Repeat([]byte{0x22}, 16)
	m, err := NewMatter(CodeSalt_128, raw)
	if err != nil {
		t.Fatalf("NewMatter: %v", err)
	}
	rest := []byte(m.Qb64() + "TAIL")
	got, err := Strip(&rest)
	if err != nil {
		t.Fatalf("Strip: %v", err)
	}
	if !bytes.Equal(got.Raw(), raw) {
		t.Fatalf("got raw %x, want %x", got.Raw(), raw)
	}
	if string(rest) != "TAIL" {
		t.Fatalf("remaining = %q", rest)
	}
}
