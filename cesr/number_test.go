package cesr

import "testing"

func TestNumberRoundTrip(t *testing.T) {
	for _, sn := range []uint64{0, 1, 255, 1 << 40} {
		n := Number{Sn: sn}
		qb64 := n.Qb64()
		got, consumed, err := ParseNumber([]byte(qb64))
		if err != nil {
			t.Fatalf("ParseNumber(%d): %v", sn, err)
		}
		if consumed != len(qb64) {
			t.Fatalf("consumed %d, want %d", consumed, len(qb64))
		}
		if got.Sn != sn {
			t.Fatalf("got %d, want %d", got.Sn, sn)
		}
	}
}

func TestParseNumberBadCode(t *testing.T) {
	n := Number{Sn: 1}
	buf := []byte(n.Qb64())
	buf[0] = 'Z'
	if _, _, err := ParseNumber(buf); err == nil {
		t.Fatal("expected error for wrong code byte")
	}
}
