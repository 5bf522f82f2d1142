package cesr

import "testing"

func TestVerserRoundTrip(t *testing.T) {
	v := NewVerser(1, 0)
	qb64 := v.Qb64()
	if qb64 != "VKER0100" {
		t.Fatalf("got %q, want %q", qb64, "VKER0100")
	}
	if len(qb64)%4 != 0 {
		t.Fatalf("version primitive length %d is not quadlet-aligned", len(qb64))
	}
	got, n, err := ParseVerser([]byte(qb64))
	if err != nil {
		t.Fatalf("ParseVerser: %v", err)
	}
	if n != versionLen {
		t.Fatalf("consumed %d, want %d", n, versionLen)
	}
	if got != v {
		t.Fatalf("got %+v, want %+v", got, v)
	}
}

func TestParseVerserUnknownProto(t *testing.T) {
	if _, _, err := ParseVerser([]byte("VZZZ0100")); err == nil {
		t.Fatal("expected error for unknown protocol abbreviation")
	}
}
