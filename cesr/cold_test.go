package cesr

import "testing"

func TestSniff(t *testing.T) {
	cases := []struct {
		name string
		b    byte
		want ColdKind
	}{
		{"json-brace", '{', ColdJSON},
		{"counter-dash", '-', ColdText},
		{"version-V", 'V', ColdText},
		{"base64-letter", 'A', ColdText},
		{"base64-digit", '0', ColdText},
		{"high-binary", 0xff, ColdBinary},
		{"control-byte", 0x01, ColdInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Sniff(c.b); got != c.want {
				t.Fatalf("Sniff(%#x) = %v, want %v", c.b, got, c.want)
			}
		})
	}
}

func TestSniffBufEmpty(t *testing.T) {
	if _, err := SniffBuf(nil); err == nil {
		t.Fatal("expected error on empty stream")
	}
}

func TestSniffBufInvalid(t *testing.T) {
	if _, err := SniffBuf([]byte{0x01}); err == nil {
		t.Fatal("expected error on unrecognized lead byte")
	}
}
