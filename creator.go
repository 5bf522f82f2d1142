package keeper

import "github.com/sci-ident/go-keeper/cesr"

// Creator produces a batch of signers given an ordered list of derivation
// codes, one per requested signer, at a given (ridx, kidx) coordinate.
type Creator interface {
	// Create returns len(codes) signers. When codes is empty it returns an
	// empty, non-nil slice (used to commit to "no next keyset").
	Create(codes []cesr.Code, ridx, kidx int, transferable, temp bool) ([]cesr.Signer, error)

	// Algo names which variant this Creator is.
	Algo() Algo

	// Salt is the qb64 root salt backing this Creator, or "" for Random.
	Salt() string

	// CreatorLevel is the configured stretch level, or "" for Random.
	CreatorLevel() Level
}

// RandyCreator draws fresh entropy per signer; ridx/kidx are ignored.
type RandyCreator struct{}

func (RandyCreator) Algo() Algo     { return AlgoRandy }
func (RandyCreator) Salt() string   { return "" }
func (RandyCreator) CreatorLevel() Level { return "" }

func (RandyCreator) Create(codes []cesr.Code, ridx, kidx int, transferable, temp bool) ([]cesr.Signer, error) {
	out := make([]cesr.Signer, 0, len(codes))
	for range codes {
		s, err := cesr.NewRandomSigner(transferable)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SaltyCreator deterministically derives signers from a root salt: the same
// (salt, ridx, kidx, code, level) tuple always yields the same keypair.
type SaltyCreator struct {
	salter *cesr.Salter
	level  Level
}

// NewSaltyCreator wraps an existing salter.
func NewSaltyCreator(salter *cesr.Salter, level Level) *SaltyCreator {
	return &SaltyCreator{salter: salter, level: level}
}

func (c *SaltyCreator) Algo() Algo          { return AlgoSalty }
func (c *SaltyCreator) Salt() string        { return c.salter.Qb64() }
func (c *SaltyCreator) CreatorLevel() Level { return c.level }

func (c *SaltyCreator) Create(codes []cesr.Code, ridx, kidx int, transferable, temp bool) ([]cesr.Signer, error) {
	out := make([]cesr.Signer, 0, len(codes))
	for i, code := range codes {
		s, err := c.salter.Signer(ridx, kidx+i, code, transferable)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// NewCreator is the Creatory factory: it dispatches to RandyCreator or
// SaltyCreator by algo, matching the original source's
// _makeNovel/_makeSalty dispatch instead of an inline branch inside
// incept/rotate.
func NewCreator(algo Algo, salt *cesr.Salter, level Level, temp bool) (Creator, error) {
	switch algo {
	case AlgoRandy:
		return RandyCreator{}, nil
	case AlgoSalty:
		if salt == nil {
			var err error
			lvl := cesr.Level(level)
			if lvl == "" {
				lvl = cesr.LevelLow
			}
			salt, err = cesr.NewRandomSalter(lvl, temp)
			if err != nil {
				return nil, err
			}
		}
		return NewSaltyCreator(salt, level), nil
	default:
		return nil, errorf(ErrUnsupportedAlgorithm, "unknown algorithm %q", algo)
	}
}
