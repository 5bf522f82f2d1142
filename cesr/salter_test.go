package cesr

import "testing"

func TestSalterDeterministic(t *testing.T) {
	s1, err := NewRandomSalter(LevelLow, true)
	if err != nil {
		t.Fatalf("NewRandomSalter: %v", err)
	}
	s2, err := NewSalter(mustMatter(t, s1.Qb64()), LevelLow, true)
	if err != nil {
		t.Fatalf("NewSalter: %v", err)
	}

	sig1, err := s1.Signer(0, 0, CodeEd25519Seed, true)
	if err != nil {
		t.Fatalf("Signer: %v", err)
	}
	sig2, err := s2.Signer(0, 0, CodeEd25519Seed, true)
	if err != nil {
		t.Fatalf("Signer: %v", err)
	}
	if sig1.Verfer().Qb64() != sig2.Verfer().Qb64() {
		t.Fatal("same salt+path must derive the same key")
	}

	sig3, err := s1.Signer(0, 1, CodeEd25519Seed, true)
	if err != nil {
		t.Fatalf("Signer: %v", err)
	}
	if sig1.Verfer().Qb64() == sig3.Verfer().Qb64() {
		t.Fatal("different kidx must derive different keys")
	}
}

func TestSalterWrongCode(t *testing.T) {
	raw := make([]byte, 32)
	m, err := NewMatter(CodeBlake3_256, raw)
	if err != nil {
		t.Fatalf("NewMatter: %v", err)
	}
	if _, err := NewSalter(m, LevelLow, true); err == nil {
		t.Fatal("expected error for non-salt code")
	}
}

func mustMatter(t *testing.T, qb64 string) Matter {
	t.Helper()
	m, _, err := ParseMatter([]byte(qb64))
	if err != nil {
		t.Fatalf("ParseMatter: %v", err)
	}
	return m
}
