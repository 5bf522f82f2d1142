package store

import (
	"fmt"

	"github.com/sci-ident/go-keeper/cesr"
)

// NewRawSuber builds a Suber over plain UTF-8 strings, stored verbatim as
// bytes.
func NewRawSuber(h *Handle) *Suber[string] {
	return NewSuber[string](h,
		func(s string) ([]byte, error) { return []byte(s), nil },
		func(_, val []byte) (string, error) { return string(val), nil },
	)
}

// Event is a pre-serialized key event: the exact bytes that were (or will
// be) hashed and signed, carried opaquely by the store layer.
type Event struct{ Raw []byte }

// NewEventSuber builds a Suber over pre-serialized Events.
func NewEventSuber(h *Handle) *Suber[Event] {
	return NewSuber[Event](h,
		func(e Event) ([]byte, error) { return e.Raw, nil },
		func(_, val []byte) (Event, error) { return Event{Raw: append([]byte(nil), val...)}, nil },
	)
}

// NewPrimitiveSuber builds a Suber over any qualified primitive serialized
// as qb64 bytes, using the decode function supplied by the caller as the
// "class token" the original source passes at construction (e.g.
// cesr.ParseDiger, cesr.ParseVerfer).
func NewPrimitiveSuber[T any](h *Handle, qb64Of func(T) string, parse func([]byte) (T, int, error)) *Suber[T] {
	return NewSuber[T](h,
		func(v T) ([]byte, error) { return []byte(qb64Of(v)), nil },
		func(_, val []byte) (T, error) {
			v, _, err := parse(val)
			if err != nil {
				return v, err
			}
			return v, nil
		},
	)
}

// NewSignerSuber builds a Suber over cesr.Signer values keyed by their
// verifier's qb64. Unlike NewPrimitiveSuber, the stored value alone does not
// carry the transferable flag (a raw Ed25519 seed is transferable-agnostic);
// Get reconstructs it from the storage key, mirroring subing.py's
// SignerSuber.get, which derives `transferable` from the verfer code in the
// key rather than from the value.
func NewSignerSuber(h *Handle) *Suber[cesr.Signer] {
	return NewSuber[cesr.Signer](h,
		func(s cesr.Signer) ([]byte, error) { return []byte(s.Qb64()), nil },
		func(key, val []byte) (cesr.Signer, error) {
			if len(key) == 0 {
				return cesr.Signer{}, fmt.Errorf("store: signer key is empty")
			}
			transferable := cesr.Code(key[:1]) == cesr.CodeEd25519
			signer, _, err := cesr.ParseSigner(val, transferable)
			if err != nil {
				return cesr.Signer{}, err
			}
			return signer, nil
		},
	)
}
