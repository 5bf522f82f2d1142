package store

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Handle is an open named sub-store within an Env.
type Handle struct {
	env    *Env
	bucket []byte
}

// Put writes k->v, failing (returning false, nil) if k is already present.
// Any underlying I/O error is returned non-nil and is fatal per the store's
// failure model.
func (h *Handle) Put(k, v []byte) (bool, error) {
	wrote := false
	err := h.env.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(h.bucket)
		if b.Get(k) != nil {
			return nil
		}
		if err := b.Put(k, v); err != nil {
			return err
		}
		wrote = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("store: put: %w", err)
	}
	return wrote, nil
}

// Set writes k->v, overwriting any existing value.
func (h *Handle) Set(k, v []byte) error {
	err := h.env.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(h.bucket).Put(k, v)
	})
	if err != nil {
		return fmt.Errorf("store: set: %w", err)
	}
	return nil
}

// Get reads the value for k, returning nil, nil if absent.
func (h *Handle) Get(k []byte) ([]byte, error) {
	var out []byte
	err := h.env.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(h.bucket).Get(k)
		if v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: get: %w", err)
	}
	return out, nil
}

// Del removes k, reporting whether it was present.
func (h *Handle) Del(k []byte) (bool, error) {
	existed := false
	err := h.env.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(h.bucket)
		if b.Get(k) != nil {
			existed = true
		}
		return b.Delete(k)
	})
	if err != nil {
		return false, fmt.Errorf("store: del: %w", err)
	}
	return existed, nil
}

// KV is one key-value pair yielded by Iter.
type KV struct {
	Key []byte
	Val []byte
}

// Iter returns every key-value pair currently in the sub-store, in key
// order.
func (h *Handle) Iter() ([]KV, error) {
	var out []KV
	err := h.env.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(h.bucket).ForEach(func(k, v []byte) error {
			out = append(out, KV{
				Key: append([]byte(nil), k...),
				Val: append([]byte(nil), v...),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("store: iter: %w", err)
	}
	return out, nil
}

// Update runs fn inside a single read-write transaction of the owning Env;
// fn may touch any sub-store through the Tx, for callers (the Key Manager's
// incept/rotate) that need several writes to land atomically.
func (h *Handle) Update(fn func(tx *Tx) error) error {
	return h.env.db.Update(func(bt *bolt.Tx) error {
		return fn(&Tx{bt: bt})
	})
}

// Tx is a transaction spanning every sub-store of the owning Env, so a
// caller can touch pris and sits atomically within one Update call.
type Tx struct{ bt *bolt.Tx }

// Bucket returns the raw-bytes view of the named sub-store within this
// transaction.
func (t *Tx) Bucket(name string) (*TxHandle, error) {
	b, err := t.bt.CreateBucketIfNotExists(subName(name))
	if err != nil {
		return nil, fmt.Errorf("store: bucket %q: %w", name, err)
	}
	return &TxHandle{b: b}, nil
}

// TxHandle is a sub-store view scoped to one in-flight transaction.
type TxHandle struct{ b *bolt.Bucket }

func (h *TxHandle) Put(k, v []byte) (bool, error) {
	if h.b.Get(k) != nil {
		return false, nil
	}
	if err := h.b.Put(k, v); err != nil {
		return false, fmt.Errorf("store: put: %w", err)
	}
	return true, nil
}

func (h *TxHandle) Set(k, v []byte) error {
	if err := h.b.Put(k, v); err != nil {
		return fmt.Errorf("store: set: %w", err)
	}
	return nil
}

func (h *TxHandle) Get(k []byte) []byte {
	v := h.b.Get(k)
	if v == nil {
		return nil
	}
	return append([]byte(nil), v...)
}

func (h *TxHandle) Del(k []byte) (bool, error) {
	existed := h.b.Get(k) != nil
	if err := h.b.Delete(k); err != nil {
		return false, fmt.Errorf("store: del: %w", err)
	}
	return existed, nil
}
