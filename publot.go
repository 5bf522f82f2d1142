package keeper

// PubLot is a single committed keyset in the lifetime of an identifier: one
// of a PubSit's old/new/nxt slots.
type PubLot struct {
	Pubs []string `json:"pubs"` // qb64 public keys, in order; empty marks a non-rotatable terminal state
	Ridx int      `json:"ridx"` // rotation index: 0 at inception, +1 per rotation
	Kidx int      `json:"kidx"` // starting key index within the salt-derived keyspace
	Dt   string   `json:"dt"`   // ISO-8601 UTC creation timestamp
}

// empty reports whether a PubLot carries no keys, i.e. is a
// non-rotatable terminal state.
func (p PubLot) empty() bool { return len(p.Pubs) == 0 }
