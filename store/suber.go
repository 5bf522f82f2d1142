package store

import (
	"bytes"
	"fmt"
)

// Sep is the byte used to join composite-key fragments, mirroring the
// original source's Suber.Sep convention.
const Sep = "."

// Key accepts either a single []byte/string key or an ordered sequence of
// string fragments to be joined by Sep into one composite key.
type Key []string

// Bytes renders a Key as its joined byte-string form.
func (k Key) Bytes() []byte {
	if len(k) == 1 {
		return []byte(k[0])
	}
	return []byte(bytes.Join(toByteSlices(k), []byte(Sep)))
}

func toByteSlices(parts []string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

// Suber is a typed wrapper over a Handle, parameterized by an encode/decode
// codec for T, collapsing the original inheritance hierarchy of typed
// sub-store wrappers into one generic type per design note §9.
type Suber[T any] struct {
	h      *Handle
	encode func(T) ([]byte, error)
	decode func(key, val []byte) (T, error)
}

// NewSuber builds a Suber over an already-open Handle.
func NewSuber[T any](h *Handle, encode func(T) ([]byte, error), decode func(key, val []byte) (T, error)) *Suber[T] {
	return &Suber[T]{h: h, encode: encode, decode: decode}
}

// Put writes a new value, failing (false, nil) if the key is occupied.
func (s *Suber[T]) Put(key Key, v T) (bool, error) {
	raw, err := s.encode(v)
	if err != nil {
		return false, fmt.Errorf("store: encoding value for %s: %w", key.Bytes(), err)
	}
	return s.h.Put(key.Bytes(), raw)
}

// Set writes a value, overwriting any existing entry.
func (s *Suber[T]) Set(key Key, v T) error {
	raw, err := s.encode(v)
	if err != nil {
		return fmt.Errorf("store: encoding value for %s: %w", key.Bytes(), err)
	}
	return s.h.Set(key.Bytes(), raw)
}

// Get reads and decodes the value for key. ok is false if absent.
func (s *Suber[T]) Get(key Key) (v T, ok bool, err error) {
	raw, err := s.h.Get(key.Bytes())
	if err != nil {
		return v, false, err
	}
	if raw == nil {
		return v, false, nil
	}
	v, err = s.decode(key.Bytes(), raw)
	if err != nil {
		return v, false, fmt.Errorf("store: decoding value for %s: %w", key.Bytes(), err)
	}
	return v, true, nil
}

// Del removes key, reporting whether it was present.
func (s *Suber[T]) Del(key Key) (bool, error) {
	return s.h.Del(key.Bytes())
}

// Item is one decoded key-value pair yielded by Iter.
type Item[T any] struct {
	Key []byte
	Val T
}

// Iter decodes every entry in the sub-store, mirroring the original
// source's getItemIter.
func (s *Suber[T]) Iter() ([]Item[T], error) {
	kvs, err := s.h.Iter()
	if err != nil {
		return nil, err
	}
	out := make([]Item[T], 0, len(kvs))
	for _, kv := range kvs {
		v, err := s.decode(kv.Key, kv.Val)
		if err != nil {
			return nil, fmt.Errorf("store: decoding item %q: %w", kv.Key, err)
		}
		out = append(out, Item[T]{Key: kv.Key, Val: v})
	}
	return out, nil
}
