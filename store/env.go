// Package store is the KV Store Adapter (C1): a transactional byte map with
// named sub-stores, and the typed sub-store wrappers (C6) built on top of it.
// It wraps go.etcd.io/bbolt, mirroring the directory layout and failure model
// the core assumes of its external store collaborator.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DirMode is the directory permission for on-disk environments: owner
// read+write+execute plus the sticky (restricted-deletion) bit, no group or
// world access.
const DirMode os.FileMode = 0o1700

// TempPrefix and TempSuffix name the per-process scratch directory used by
// temp environments.
const (
	TempPrefix = "keri_keep_"
	TempSuffix = "_test"
)

// Env is one on-disk (or temp) transactional key-value environment.
type Env struct {
	db       *bolt.DB
	path     string
	temp     bool
	maxNamed int
	named    map[string]bool
}

// Open opens or creates an environment rooted at path. maxNamed bounds how
// many distinct named sub-stores may ever be opened against this
// environment (mirroring the original store's upfront named-database
// declaration); mode is the directory permission to create path with if it
// does not exist; temp requests a throwaway scratch directory instead of
// path, destroyed on Close.
func Open(path string, maxNamed int, mode os.FileMode, temp bool) (*Env, error) {
	root := path
	if temp {
		dir, err := os.MkdirTemp("", TempPrefix+"*"+TempSuffix)
		if err != nil {
			return nil, fmt.Errorf("store: creating temp dir: %w", err)
		}
		root = dir
	} else {
		if err := os.MkdirAll(root, mode); err != nil {
			return nil, fmt.Errorf("store: creating env dir %s: %w", root, err)
		}
	}

	dbPath := filepath.Join(root, "keep.bolt")
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", dbPath, err)
	}
	return &Env{db: db, path: root, temp: temp, maxNamed: maxNamed, named: map[string]bool{}}, nil
}

// Close releases the environment. Temp environments are destroyed.
func (e *Env) Close() error {
	if err := e.db.Close(); err != nil {
		return fmt.Errorf("store: closing: %w", err)
	}
	if e.temp {
		if err := os.RemoveAll(e.path); err != nil {
			return fmt.Errorf("store: removing temp dir %s: %w", e.path, err)
		}
	}
	return nil
}

// Path is the environment's root directory.
func (e *Env) Path() string { return e.path }

// subName applies the sub-store naming convention: a trailing "." (a byte
// outside the base64 alphabet) so a sub-store name can never collide with an
// identifier prefix used as a top-level key elsewhere.
func subName(name string) []byte {
	if len(name) == 0 || name[len(name)-1] != '.' {
		name = name + "."
	}
	return []byte(name)
}

// OpenSub opens (creating if necessary) the named sub-store.
func (e *Env) OpenSub(name string) (*Handle, error) {
	if !e.named[name] && len(e.named) >= e.maxNamed {
		return nil, fmt.Errorf("store: max named sub-stores (%d) exceeded opening %q", e.maxNamed, name)
	}
	bucket := subName(name)
	err := e.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening sub-store %q: %w", name, err)
	}
	e.named[name] = true
	return &Handle{env: e, bucket: bucket}, nil
}
