package keeper

import (
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/sci-ident/go-keeper/cesr"
	"github.com/sci-ident/go-keeper/store"
)

// Manager is the Key Manager (C4): the inception/rotation state machine,
// the in-memory signer cache, and relocation of a situation from a
// provisional to a canonical identifier key. One Manager owns one store
// environment and is not safe for concurrent mutation of the same
// identifier's situation from multiple goroutines (spec §5: one task per
// identifier).
type Manager struct {
	pris *store.Suber[cesr.Signer]
	sits *store.Handle

	mu    sync.Mutex
	cache map[string]cesr.Signer // keyed by verfer qb64
}

// NewManager opens (creating if necessary) the pris and sits sub-stores
// against env and returns a ready Manager with an empty signer cache.
func NewManager(env *store.Env) (*Manager, error) {
	prisHandle, err := env.OpenSub("pris")
	if err != nil {
		return nil, wrapErrorf(ErrStoreIO, err, "opening pris sub-store")
	}
	sitsHandle, err := env.OpenSub("sits")
	if err != nil {
		return nil, wrapErrorf(ErrStoreIO, err, "opening sits sub-store")
	}
	return &Manager{
		pris:  store.NewSignerSuber(prisHandle),
		sits:  sitsHandle,
		cache: make(map[string]cesr.Signer),
	}, nil
}

// InceptParams describes one incept call's inputs (spec §4.4.2).
type InceptParams struct {
	ICodes       []cesr.Code
	ICount       int
	ICode        cesr.Code
	NCodes       []cesr.Code
	NCount       int
	NCode        cesr.Code
	DCode        cesr.Code
	Algo         Algo
	Salt         *cesr.Salter // pre-existing salt; nil means generate fresh when Algo == AlgoSalty
	Level        Level
	Transferable bool
	Temp         bool
}

func resolveCodes(codes []cesr.Code, count int, code cesr.Code) []cesr.Code {
	if codes != nil {
		return codes
	}
	out := make([]cesr.Code, count)
	for i := range out {
		out[i] = code
	}
	return out
}

// Incept runs the inception procedure of spec §4.4.2 and returns the
// ordered incepting verifiers, the ordered next-key digests, and the
// provisional identifier prefix (the first incepting verifier's qb64).
func (m *Manager) Incept(p InceptParams) (verfers []cesr.Verfer, digers []cesr.Diger, pre string, err error) {
	if p.DCode != cesr.CodeBlake3_256 {
		return nil, nil, "", errorf(ErrUnsupportedAlgorithm, "unsupported digest code %q", p.DCode)
	}

	creator, err := NewCreator(p.Algo, p.Salt, p.Level, p.Temp)
	if err != nil {
		return nil, nil, "", err
	}

	icodes := resolveCodes(p.ICodes, p.ICount, p.ICode)
	isigners, err := creator.Create(icodes, 0, 0, p.Transferable, p.Temp)
	if err != nil {
		return nil, nil, "", wrapErrorf(ErrUnsupportedAlgorithm, err, "deriving incepting keys")
	}
	if len(isigners) == 0 {
		return nil, nil, "", errorf(ErrUnsupportedAlgorithm, "incept requires at least one incepting key")
	}

	ncodes := resolveCodes(p.NCodes, p.NCount, p.NCode)
	nsigners, err := creator.Create(ncodes, 1, len(icodes), p.Transferable, p.Temp)
	if err != nil {
		return nil, nil, "", wrapErrorf(ErrUnsupportedAlgorithm, err, "deriving next keys")
	}

	verfers = make([]cesr.Verfer, len(isigners))
	for i, s := range isigners {
		verfers[i] = s.Verfer()
	}
	digers = make([]cesr.Diger, len(nsigners))
	nextPubs := make([]string, len(nsigners))
	for i, s := range nsigners {
		v := s.Verfer()
		nextPubs[i] = v.Qb64()
		d, derr := cesr.NewDiger([]byte(v.Qb64()))
		if derr != nil {
			return nil, nil, "", wrapErrorf(ErrUnsupportedAlgorithm, derr, "digesting next key")
		}
		digers[i] = d
	}

	pre = verfers[0].Qb64()
	now := time.Now().UTC().Format(time.RFC3339)
	curPubs := make([]string, len(verfers))
	for i, v := range verfers {
		curPubs[i] = v.Qb64()
	}

	situation := PubSit{
		New:   PubLot{Pubs: curPubs, Ridx: 0, Kidx: 0, Dt: now},
		Nxt:   PubLot{Pubs: nextPubs, Ridx: 1, Kidx: len(icodes), Dt: now},
		Pidx:  0,
		Algo:  creator.Algo(),
		Salt:  creator.Salt(),
		Level: creator.CreatorLevel(),
	}
	raw, err := situation.Serialize()
	if err != nil {
		return nil, nil, "", wrapErrorf(ErrUnknown, err, "serializing situation")
	}

	err = m.sits.Update(func(tx *store.Tx) error {
		sits, terr := tx.Bucket("sits")
		if terr != nil {
			return terr
		}
		wrote, terr := sits.Put([]byte(pre), raw)
		if terr != nil {
			return terr
		}
		if !wrote {
			return errAlreadyIncepted
		}
		pris, terr := tx.Bucket("pris")
		if terr != nil {
			return terr
		}
		for _, s := range isigners {
			if _, terr := pris.Put([]byte(s.Verfer().Qb64()), []byte(s.Qb64())); terr != nil {
				return terr
			}
		}
		for _, s := range nsigners {
			if _, terr := pris.Put([]byte(s.Verfer().Qb64()), []byte(s.Qb64())); terr != nil {
				return terr
			}
		}
		return nil
	})
	if err == errAlreadyIncepted {
		return nil, nil, "", errorf(ErrAlreadyIncepted, "prefix %s already incepted", pre)
	}
	if err != nil {
		return nil, nil, "", wrapErrorf(ErrStoreIO, err, "writing inception")
	}

	m.mu.Lock()
	for _, s := range isigners {
		m.cache[s.Verfer().Qb64()] = s
	}
	for _, s := range nsigners {
		m.cache[s.Verfer().Qb64()] = s
	}
	m.mu.Unlock()

	slog.Info("incepted identifier", "prefix", pre, "algo", string(situation.Algo), "icount", len(isigners), "ncount", len(nsigners))
	return verfers, digers, pre, nil
}

// sentinel used only to distinguish "key already present" from a genuine
// store I/O failure inside the Update closure.
var errAlreadyIncepted = errorf(ErrAlreadyIncepted, "sentinel")

// RotateParams describes one rotate call's inputs (spec §4.4.3).
type RotateParams struct {
	Codes        []cesr.Code
	Count        int
	Code         cesr.Code
	DCode        cesr.Code
	Transferable bool
	Temp         bool
}

// Rotate runs the rotation procedure of spec §4.4.3.
func (m *Manager) Rotate(pre string, p RotateParams) (verfers []cesr.Verfer, digers []cesr.Diger, err error) {
	if p.DCode != cesr.CodeBlake3_256 {
		return nil, nil, errorf(ErrUnsupportedAlgorithm, "unsupported digest code %q", p.DCode)
	}

	raw, err := m.sits.Get([]byte(pre))
	if err != nil {
		return nil, nil, wrapErrorf(ErrStoreIO, err, "loading situation for %s", pre)
	}
	if raw == nil {
		return nil, nil, errorf(ErrUnknownPrefix, "prefix %s not found", pre)
	}
	situation, err := DeserializePubSit(raw)
	if err != nil {
		return nil, nil, wrapErrorf(ErrUnknown, err, "deserializing situation for %s", pre)
	}
	if !situation.Rotatable() {
		return nil, nil, errorf(ErrNonTransferable, "prefix %s has no next keyset", pre)
	}

	priorOld := situation.Old
	situation.Old = situation.New
	situation.New = situation.Nxt

	newVerfers := make([]cesr.Verfer, 0, len(situation.New.Pubs))
	for _, pubQb64 := range situation.New.Pubs {
		signer, ok, rerr := m.resolveSigner(pubQb64)
		if rerr != nil {
			return nil, nil, rerr
		}
		if !ok {
			return nil, nil, errorf(ErrMissingSecret, "no private key for %s", pubQb64)
		}
		newVerfers = append(newVerfers, signer.Verfer())
		m.mu.Lock()
		m.cache[pubQb64] = signer
		m.mu.Unlock()
	}

	creator, err := rebuildCreator(situation.Algo, situation.Salt, situation.Level, p.Temp)
	if err != nil {
		return nil, nil, err
	}

	ridx := situation.New.Ridx + 1
	kidx := situation.New.Kidx + len(situation.New.Pubs)
	codes := resolveCodes(p.Codes, p.Count, p.Code)
	nsigners, err := creator.Create(codes, ridx, kidx, p.Transferable, p.Temp)
	if err != nil {
		return nil, nil, wrapErrorf(ErrUnsupportedAlgorithm, err, "deriving new next keys")
	}

	digers = make([]cesr.Diger, len(nsigners))
	nextPubs := make([]string, len(nsigners))
	for i, s := range nsigners {
		v := s.Verfer()
		nextPubs[i] = v.Qb64()
		d, derr := cesr.NewDiger([]byte(v.Qb64()))
		if derr != nil {
			return nil, nil, wrapErrorf(ErrUnsupportedAlgorithm, derr, "digesting next key")
		}
		digers[i] = d
	}
	now := time.Now().UTC().Format(time.RFC3339)
	situation.Nxt = PubLot{Pubs: nextPubs, Ridx: ridx, Kidx: kidx, Dt: now}

	raw, err = situation.Serialize()
	if err != nil {
		return nil, nil, wrapErrorf(ErrUnknown, err, "serializing situation")
	}

	err = m.sits.Update(func(tx *store.Tx) error {
		sits, terr := tx.Bucket("sits")
		if terr != nil {
			return terr
		}
		if sits.Get([]byte(pre)) == nil {
			return errPrefixVanished
		}
		if terr := sits.Set([]byte(pre), raw); terr != nil {
			return terr
		}
		pris, terr := tx.Bucket("pris")
		if terr != nil {
			return terr
		}
		for _, s := range nsigners {
			if terr := pris.Set([]byte(s.Verfer().Qb64()), []byte(s.Qb64())); terr != nil {
				return terr
			}
		}
		for _, pubQb64 := range priorOld.Pubs {
			if _, terr := pris.Del([]byte(pubQb64)); terr != nil {
				return terr
			}
		}
		return nil
	})
	if err == errPrefixVanished {
		return nil, nil, errorf(ErrPrefixVanished, "prefix %s deleted concurrently", pre)
	}
	if err != nil {
		return nil, nil, wrapErrorf(ErrStoreIO, err, "writing rotation")
	}

	m.mu.Lock()
	for _, pubQb64 := range priorOld.Pubs {
		delete(m.cache, pubQb64)
	}
	for _, s := range nsigners {
		m.cache[s.Verfer().Qb64()] = s
	}
	m.mu.Unlock()

	slog.Info("rotated identifier", "prefix", pre, "ridx", ridx, "kidx", kidx)
	return newVerfers, digers, nil
}

var errPrefixVanished = errorf(ErrPrefixVanished, "sentinel")

func rebuildCreator(algo Algo, saltQb64 string, level Level, temp bool) (Creator, error) {
	switch algo {
	case AlgoRandy:
		return RandyCreator{}, nil
	case AlgoSalty:
		if saltQb64 == "" {
			return nil, errorf(ErrUnsupportedAlgorithm, "salty situation has no recorded salt")
		}
		m, _, err := cesr.ParseSalt([]byte(saltQb64))
		if err != nil {
			return nil, wrapErrorf(ErrParse, err, "parsing recorded salt")
		}
		salter, err := cesr.NewSalter(m, cesr.Level(level), temp)
		if err != nil {
			return nil, wrapErrorf(ErrUnknown, err, "rebuilding salter")
		}
		return NewSaltyCreator(salter, level), nil
	default:
		return nil, errorf(ErrUnsupportedAlgorithm, "unknown algorithm %q", algo)
	}
}

// resolveSigner looks up a signer by its verfer qb64, preferring the
// in-memory cache and falling back to the durable pris store.
func (m *Manager) resolveSigner(pubQb64 string) (cesr.Signer, bool, error) {
	m.mu.Lock()
	if s, ok := m.cache[pubQb64]; ok {
		m.mu.Unlock()
		return s, true, nil
	}
	m.mu.Unlock()

	s, ok, err := m.pris.Get(store.Key{pubQb64})
	if err != nil {
		return cesr.Signer{}, false, wrapErrorf(ErrStoreIO, err, "loading private key for %s", pubQb64)
	}
	if !ok {
		return cesr.Signer{}, false, nil
	}
	m.mu.Lock()
	m.cache[pubQb64] = s
	m.mu.Unlock()
	return s, true, nil
}

// Repre relocates a situation from a provisional identifier key to a
// canonical one (spec §4.4.4): load under old, put under new (failing if
// new is already occupied), then delete old. Private-key entries are
// unaffected since they are keyed by public keys, not by the prefix.
//
// If old == new the situation is already filed canonically and Repre is a
// no-op, which is what makes repre(a,b) followed by repre(b,b) equal to
// repre(a,b) (spec §8 invariant 4).
func (m *Manager) Repre(old, new string) error {
	if old == new {
		return nil
	}
	raw, err := m.sits.Get([]byte(old))
	if err != nil {
		return wrapErrorf(ErrStoreIO, err, "loading situation under %s", old)
	}
	if raw == nil {
		return errorf(ErrUnknownPrefix, "prefix %s not found", old)
	}

	wrote, err := m.sits.Put([]byte(new), raw)
	if err != nil {
		return wrapErrorf(ErrStoreIO, err, "relocating situation to %s", new)
	}
	if !wrote {
		return errorf(ErrAlreadyIncepted, "prefix %s already occupied", new)
	}

	if _, err := m.sits.Del([]byte(old)); err != nil {
		return wrapErrorf(ErrStoreIO, err, "removing provisional situation %s", old)
	}
	slog.Info("relocated situation", "from", old, "to", new)
	return nil
}

// IndexedSig pairs a signature with the position of its signing key in the
// caller-supplied public-key list.
type IndexedSig struct {
	Index int
	Sig   []byte
}

// Sign resolves each of pubs to a signer (via the cache or pris) and
// produces indexed signatures over msg.
func (m *Manager) Sign(pre string, pubs []string, msg []byte) ([]IndexedSig, error) {
	raw, err := m.sits.Get([]byte(pre))
	if err != nil {
		return nil, wrapErrorf(ErrStoreIO, err, "loading situation for %s", pre)
	}
	if raw == nil {
		return nil, errorf(ErrUnknownPrefix, "prefix %s not found", pre)
	}

	out := make([]IndexedSig, 0, len(pubs))
	var merr *multierror.Error
	for i, pub := range pubs {
		signer, ok, serr := m.resolveSigner(pub)
		if serr != nil {
			merr = multierror.Append(merr, serr)
			continue
		}
		if !ok {
			merr = multierror.Append(merr, errorf(ErrMissingSecret, "no private key for %s", pub))
			continue
		}
		sig, serr := signer.Sign(msg)
		if serr != nil {
			merr = multierror.Append(merr, serr)
			continue
		}
		out = append(out, IndexedSig{Index: i, Sig: sig})
	}
	if merr.ErrorOrNil() != nil {
		return nil, wrapErrorf(ErrMissingSecret, merr, "signing for %s", pre)
	}
	return out, nil
}
