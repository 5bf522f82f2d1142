package keeper

import "encoding/json"

// Algo names a Creator variant.
type Algo string

const (
	AlgoRandy Algo = "randy"
	AlgoSalty Algo = "salty"
)

// Level is a stretch-level name ("low", "mid" or "high") held as a plain
// string, so callers can build a PubSit without importing cesr; it converts
// to cesr.Level with a type conversion.
type Level = string

// PubSit ("situation") is the complete key-rotation state for one
// identifier.
type PubSit struct {
	Old   PubLot `json:"old"`
	New   PubLot `json:"new"`
	Nxt   PubLot `json:"nxt"`
	Pidx  int    `json:"pidx"`  // prefix sequence number
	Algo  Algo   `json:"algo"`  // "randy" or "salty"
	Salt  string `json:"salt"`  // qualified salt qb64, empty when Algo == AlgoRandy
	Level string `json:"level"` // stretching work factor: "low"/"mid"/"high"
}

// Serialize renders the situation as compact, stable-key-order,
// no-whitespace JSON, matching spec §6.2. encoding/json preserves struct
// field declaration order for object keys and never inserts whitespace
// outside of string values, so a plain Marshal already satisfies this.
func (s PubSit) Serialize() ([]byte, error) {
	return json.Marshal(s)
}

// DeserializePubSit populates a default-initialized PubSit then overlays the
// fields present in raw, so situations serialized by an older version of
// this struct (fewer fields) still deserialize cleanly.
func DeserializePubSit(raw []byte) (PubSit, error) {
	var s PubSit
	if err := json.Unmarshal(raw, &s); err != nil {
		return PubSit{}, err
	}
	return s, nil
}

// Rotatable reports whether the situation's next keyset is non-empty.
func (s PubSit) Rotatable() bool { return !s.Nxt.empty() }
