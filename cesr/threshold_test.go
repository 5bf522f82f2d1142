package cesr

import "testing"

func TestTholderRoundTrip(t *testing.T) {
	cases := []string{"1", "2", "1/2,1/2", "0"}
	for _, sith := range cases {
		t.Run(sith, func(t *testing.T) {
			th := Tholder{Sith: sith}
			qb64 := th.Qb64()
			got, n, err := ParseTholder([]byte(qb64))
			if err != nil {
				t.Fatalf("ParseTholder: %v", err)
			}
			if n != len(qb64) {
				t.Fatalf("consumed %d bytes, want %d", n, len(qb64))
			}
			if got.Sith != sith {
				t.Fatalf("got sith %q, want %q", got.Sith, sith)
			}
		})
	}
}

func TestTholderTrailingData(t *testing.T) {
	th := Tholder{Sith: "1/2,1/2"}
	buf := []byte(th.Qb64() + "TRAILING")
	got, n, err := ParseTholder(buf)
	if err != nil {
		t.Fatalf("ParseTholder: %v", err)
	}
	if got.Sith != th.Sith {
		t.Fatalf("got %q, want %q", got.Sith, th.Sith)
	}
	if string(buf[n:]) != "TRAILING" {
		t.Fatalf("left over bytes = %q", buf[n:])
	}
}

func TestParseTholderTruncated(t *testing.T) {
	if _, _, err := ParseTholder([]byte("T")); err == nil {
		t.Fatal("expected error on truncated input")
	}
}
