package store

import (
	"path/filepath"
	"testing"

	"github.com/sci-ident/go-keeper/cesr"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	env, err := Open(filepath.Join(t.TempDir(), "env"), 8, DirMode, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { env.Close() })
	return env
}

func TestRawSuberRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.OpenSub("raws")
	if err != nil {
		t.Fatalf("OpenSub: %v", err)
	}
	s := NewRawSuber(h)

	ok, err := s.Put(Key{"a"}, "hello")
	if err != nil || !ok {
		t.Fatalf("Put: ok=%v err=%v", ok, err)
	}
	got, ok, err := s.Get(Key{"a"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got != "hello" {
		t.Fatalf("got %q, ok=%v", got, ok)
	}
}

func TestSuberCompositeKey(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.OpenSub("raws")
	if err != nil {
		t.Fatalf("OpenSub: %v", err)
	}
	s := NewRawSuber(h)

	if _, err := s.Put(Key{"pre", "0"}, "v0"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(Key{"pre", "0"})
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != "v0" {
		t.Fatalf("got %q", got)
	}

	raw, err := h.Get([]byte("pre.0"))
	if err != nil {
		t.Fatalf("Get raw: %v", err)
	}
	if string(raw) != "v0" {
		t.Fatalf("composite key did not join with '.': got %q", raw)
	}
}

func TestSignerSuberReconstructsTransferable(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.OpenSub("pris")
	if err != nil {
		t.Fatalf("OpenSub: %v", err)
	}
	s := NewSignerSuber(h)

	transferable, err := cesr.NewRandomSigner(true)
	if err != nil {
		t.Fatalf("NewRandomSigner: %v", err)
	}
	nonTransferable, err := cesr.NewRandomSigner(false)
	if err != nil {
		t.Fatalf("NewRandomSigner: %v", err)
	}

	if _, err := s.Put(Key{transferable.Verfer().Qb64()}, transferable); err != nil {
		t.Fatalf("Put transferable: %v", err)
	}
	if _, err := s.Put(Key{nonTransferable.Verfer().Qb64()}, nonTransferable); err != nil {
		t.Fatalf("Put nonTransferable: %v", err)
	}

	got, ok, err := s.Get(Key{transferable.Verfer().Qb64()})
	if err != nil || !ok {
		t.Fatalf("Get transferable: ok=%v err=%v", ok, err)
	}
	if !got.Transferable() {
		t.Fatal("expected reconstructed signer to be transferable")
	}

	got2, ok, err := s.Get(Key{nonTransferable.Verfer().Qb64()})
	if err != nil || !ok {
		t.Fatalf("Get nonTransferable: ok=%v err=%v", ok, err)
	}
	if got2.Transferable() {
		t.Fatal("expected reconstructed signer to be non-transferable")
	}
}

func TestEventSuberRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.OpenSub("evts")
	if err != nil {
		t.Fatalf("OpenSub: %v", err)
	}
	s := NewEventSuber(h)

	want := Event{Raw: []byte(`{"v":"KERI10JSON0000","t":"icp"}`)}
	if _, err := s.Put(Key{"EXbob.0"}, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(Key{"EXbob.0"})
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got.Raw) != string(want.Raw) {
		t.Fatalf("got %q, want %q", got.Raw, want.Raw)
	}
}

func TestPrimitiveSuberRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.OpenSub("digs")
	if err != nil {
		t.Fatalf("OpenSub: %v", err)
	}
	s := NewPrimitiveSuber[cesr.Diger](h,
		func(d cesr.Diger) string { return d.Qb64() },
		cesr.ParseDiger,
	)

	want, err := cesr.NewDiger([]byte("some serialized event"))
	if err != nil {
		t.Fatalf("NewDiger: %v", err)
	}
	if _, err := s.Put(Key{"EXbob"}, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(Key{"EXbob"})
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Qb64() != want.Qb64() {
		t.Fatalf("got %q, want %q", got.Qb64(), want.Qb64())
	}
}

func TestSuberIter(t *testing.T) {
	env := newTestEnv(t)
	h, err := env.OpenSub("raws")
	if err != nil {
		t.Fatalf("OpenSub: %v", err)
	}
	s := NewRawSuber(h)
	for _, k := range []string{"a", "b", "c"} {
		if _, err := s.Put(Key{k}, "v-"+k); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	items, err := s.Iter()
	if err != nil {
		t.Fatalf("Iter: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
}
