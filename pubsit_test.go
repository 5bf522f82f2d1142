package keeper

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPubSitSerializeStableOrderNoWhitespace(t *testing.T) {
	s := PubSit{
		New:  PubLot{Pubs: []string{"Dabc"}, Ridx: 0, Kidx: 0, Dt: "2026-01-01T00:00:00Z"},
		Nxt:  PubLot{Pubs: []string{"Ddef"}, Ridx: 1, Kidx: 1, Dt: "2026-01-01T00:00:00Z"},
		Algo: AlgoSalty,
		Salt: "0Axxxxxxxxxxxxxxxxxxxxxx",
	}
	raw, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := `{"old":{"pubs":null,"ridx":0,"kidx":0,"dt":""},"new":{"pubs":["Dabc"],"ridx":0,"kidx":0,"dt":"2026-01-01T00:00:00Z"},"nxt":{"pubs":["Ddef"],"ridx":1,"kidx":1,"dt":"2026-01-01T00:00:00Z"},"pidx":0,"algo":"salty","salt":"0Axxxxxxxxxxxxxxxxxxxxxx","level":""}`
	if string(raw) != want {
		t.Fatalf("got  %s\nwant %s", raw, want)
	}
}

func TestPubSitRoundTrip(t *testing.T) {
	s := PubSit{
		Old:   PubLot{Pubs: []string{"Dold"}, Ridx: 0, Kidx: 0, Dt: "t0"},
		New:   PubLot{Pubs: []string{"Dnew"}, Ridx: 1, Kidx: 1, Dt: "t1"},
		Nxt:   PubLot{Pubs: []string{}, Ridx: 2, Kidx: 2, Dt: "t2"},
		Pidx:  3,
		Algo:  AlgoRandy,
		Level: "mid",
	}
	raw, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := DeserializePubSit(raw)
	if err != nil {
		t.Fatalf("DeserializePubSit: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("got %+v, want %+v", got, s)
	}
}

func TestPubSitForwardCompatibleDeserialize(t *testing.T) {
	raw := []byte(`{"new":{"pubs":["Dabc"],"ridx":0,"kidx":0,"dt":"t"},"futureField":"ignored"}`)
	var s PubSit
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.New.Pubs[0] != "Dabc" {
		t.Fatalf("got %+v", s)
	}
}

func TestPubSitEmptyNxtNonRotatable(t *testing.T) {
	s := PubSit{Nxt: PubLot{Pubs: nil}}
	if s.Rotatable() {
		t.Fatal("expected non-rotatable when nxt.pubs is empty")
	}
	s.Nxt.Pubs = []string{"Done"}
	if !s.Rotatable() {
		t.Fatal("expected rotatable when nxt.pubs is non-empty")
	}
}
