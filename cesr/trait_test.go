package cesr

import "testing"

func TestTraitorRoundTrip(t *testing.T) {
	for _, code := range []string{TraitEstOnly, TraitDoNotDel} {
		t.Run(code, func(t *testing.T) {
			tr := Traitor{Trait: code}
			qb64 := tr.Qb64()
			got, n, err := ParseTraitor([]byte(qb64))
			if err != nil {
				t.Fatalf("ParseTraitor: %v", err)
			}
			if n != len(qb64) {
				t.Fatalf("consumed %d, want %d", n, len(qb64))
			}
			if got.Trait != code {
				t.Fatalf("got %q, want %q", got.Trait, code)
			}
		})
	}
}

func TestParseTraitorBadCode(t *testing.T) {
	if _, _, err := ParseTraitor([]byte("Zaa")); err == nil {
		t.Fatal("expected error for wrong code byte")
	}
}
