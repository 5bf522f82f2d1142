// Package config loads runtime configuration from environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/sci-ident/go-keeper/store"
)

// Config holds all runtime configuration for a keep environment.
type Config struct {
	HeadDir  string // KERI_KEEP_DIR env var — when set, replaces both head and tail
	TailDir  string // path segment between HeadDir and the environment name; empty when KERI_KEEP_DIR is set
	DBFile   string // KERI_KEEP_DB_FILE; store.Open does not read it and always uses keep.bolt
	MaxNamed int
	Level    string // default stretch level for new Salters
}

const (
	defaultHead  = "/usr/local/var"
	defaultTail  = "keri/keep"
	fallbackTail = ".keri/keep"
	dbFileName   = "keep.db"
)

// Load reads a Config from the environment, applying the same
// defaulted-override pattern used throughout: an explicit env var wins,
// otherwise a sensible default, with the head directory falling back to a
// user-local path if the system-wide one is not writable.
func Load() Config {
	head, tail := defaultHead, defaultTail
	if override := getEnv("KERI_KEEP_DIR", ""); override != "" {
		head, tail = override, ""
	} else if !writable(filepath.Join(defaultHead, defaultTail)) {
		head, tail = resolveFallbackHead(), fallbackTail
	}

	return Config{
		HeadDir:  head,
		TailDir:  tail,
		DBFile:   getEnv("KERI_KEEP_DB_FILE", dbFileName),
		MaxNamed: int(parseInt(getEnv("KERI_KEEP_MAX_NAMED", ""), 16)),
		Level:    getEnv("KERI_KEEP_LEVEL", "low"),
	}
}

// Path returns the on-disk environment directory <head>/<tail>/<name> per
// spec §6.1.
func (c Config) Path(name string) string {
	return filepath.Join(c.HeadDir, c.TailDir, name)
}

// resolveFallbackHead is the user-local head directory used when the
// system-wide default is not writable.
func resolveFallbackHead() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultHead
	}
	return home
}

// writable reports whether dir exists and is writable, or can be created.
func writable(dir string) bool {
	if err := os.MkdirAll(dir, store.DirMode); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".write-probe")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
