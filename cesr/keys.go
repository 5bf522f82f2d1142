package cesr

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"lukechampine.com/blake3"
)

// Verfer is a qualified Ed25519 verification (public) key.
type Verfer struct {
	Matter
	transferable bool
}

// NewVerfer wraps a 32-byte Ed25519 public key with its transferable flag.
func NewVerfer(pub ed25519.PublicKey, transferable bool) (Verfer, error) {
	m, err := NewMatter(VerferCodeFor(transferable), pub)
	if err != nil {
		return Verfer{}, err
	}
	return Verfer{Matter: m, transferable: transferable}, nil
}

// ParseVerfer parses a Verfer from the front of buf.
func ParseVerfer(buf []byte) (Verfer, int, error) {
	m, n, err := ParseMatter(buf)
	if err != nil {
		return Verfer{}, 0, err
	}
	if m.Code() != CodeEd25519 && m.Code() != CodeEd25519N {
		return Verfer{}, 0, fmt.Errorf("cesr: %w: expected verfer, got code %s", ErrParse, m.Code())
	}
	return Verfer{Matter: m, transferable: m.Code() == CodeEd25519}, n, nil
}

// Transferable reports whether this key may be rotated.
func (v Verfer) Transferable() bool { return v.transferable }

// PublicKey returns the underlying standard library key.
func (v Verfer) PublicKey() ed25519.PublicKey { return ed25519.PublicKey(v.Raw()) }

// Diger is a qualified Blake3-256 digest.
type Diger struct{ Matter }

// NewDiger computes the Blake3-256 digest of ser and qualifies it.
func NewDiger(ser []byte) (Diger, error) {
	sum := blake3.Sum256(ser)
	m, err := NewMatter(CodeBlake3_256, sum[:])
	if err != nil {
		return Diger{}, err
	}
	return Diger{Matter: m}, nil
}

// ParseDiger parses a Diger from the front of buf.
func ParseDiger(buf []byte) (Diger, int, error) {
	m, n, err := ParseMatter(buf)
	if err != nil {
		return Diger{}, 0, err
	}
	if m.Code() != CodeBlake3_256 {
		return Diger{}, 0, fmt.Errorf("cesr: %w: expected diger, got code %s", ErrParse, m.Code())
	}
	return Diger{Matter: m}, n, nil
}

// Prefixer qualifies an autonomic identifier prefix. In this module a
// prefix is always basic-derivation: the qb64 of the identifier's initial
// public key, so Prefixer is a thin, semantically-named alias over Verfer's
// wire shape.
type Prefixer struct{ Matter }

// NewPrefixer builds a Prefixer from a public key and its transferable flag.
func NewPrefixer(pub ed25519.PublicKey, transferable bool) (Prefixer, error) {
	m, err := NewMatter(VerferCodeFor(transferable), pub)
	if err != nil {
		return Prefixer{}, err
	}
	return Prefixer{Matter: m}, nil
}

// ParsePrefixer parses a Prefixer from the front of buf.
func ParsePrefixer(buf []byte) (Prefixer, int, error) {
	m, n, err := ParseMatter(buf)
	if err != nil {
		return Prefixer{}, 0, err
	}
	if m.Code() != CodeEd25519 && m.Code() != CodeEd25519N {
		return Prefixer{}, 0, fmt.Errorf("cesr: %w: expected prefixer, got code %s", ErrParse, m.Code())
	}
	return Prefixer{Matter: m}, n, nil
}

// Signer is a qualified Ed25519 private key (seed) plus its derived verifier.
type Signer struct {
	Matter
	transferable bool
	priv         ed25519.PrivateKey
	verfer       Verfer
}

// NewSignerFromSeed builds a Signer from a 32-byte Ed25519 seed.
func NewSignerFromSeed(seed []byte, transferable bool) (Signer, error) {
	m, err := NewMatter(CodeEd25519Seed, seed)
	if err != nil {
		return Signer{}, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	verfer, err := NewVerfer(priv.Public().(ed25519.PublicKey), transferable)
	if err != nil {
		return Signer{}, err
	}
	return Signer{Matter: m, transferable: transferable, priv: priv, verfer: verfer}, nil
}

// NewRandomSigner draws fresh entropy and builds a non-deterministic Signer.
func NewRandomSigner(transferable bool) (Signer, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return Signer{}, fmt.Errorf("cesr: reading entropy: %w", err)
	}
	return NewSignerFromSeed(seed, transferable)
}

// ParseSigner parses a Signer's qualified seed from buf and reconstructs its
// verifier using the transferable flag the caller already knows (Signer
// storage never carries it inline; see store.NewSignerSuber).
func ParseSigner(buf []byte, transferable bool) (Signer, int, error) {
	m, n, err := ParseMatter(buf)
	if err != nil {
		return Signer{}, 0, err
	}
	if m.Code() != CodeEd25519Seed {
		return Signer{}, 0, fmt.Errorf("cesr: %w: expected signer seed, got code %s", ErrParse, m.Code())
	}
	s, err := NewSignerFromSeed(m.Raw(), transferable)
	if err != nil {
		return Signer{}, 0, err
	}
	return s, n, nil
}

// Verfer returns the signer's verification key.
func (s Signer) Verfer() Verfer { return s.verfer }

// Transferable reports the signer's transferable flag.
func (s Signer) Transferable() bool { return s.transferable }

// Sign produces a detached Ed25519 signature over msg.
func (s Signer) Sign(msg []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, fmt.Errorf("cesr: signer has no private key material")
	}
	return ed25519.Sign(s.priv, msg), nil
}
