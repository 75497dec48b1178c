package ebxtx

import (
	"testing"

	"github.com/dan/ebx-txlib/ebxkey"
)

func TestPkhKeyMapAddGet(t *testing.T) {
	priv, err := ebxkey.FromRandom()
	if err != nil {
		t.Fatalf("FromRandom() error = %v", err)
	}
	pub, err := ebxkey.PubKeyFromPriv(priv)
	if err != nil {
		t.Fatalf("PubKeyFromPriv() error = %v", err)
	}
	pkh := ebxkey.PkhFromPubKey(pub)

	m := NewPkhKeyMap()
	m.Add(pkh, Keypair{Priv: priv, Pub: pub})

	got, ok := m.Get(pkh.Bytes())
	if !ok {
		t.Fatal("Get() ok = false")
	}
	if got.Priv.Bytes() != priv.Bytes() {
		t.Error("Get() returned a different private key")
	}
}

func TestPkhKeyMapSnapshotIndependence(t *testing.T) {
	priv1, _ := ebxkey.FromRandom()
	pub1, _ := ebxkey.PubKeyFromPriv(priv1)
	pkh1 := ebxkey.PkhFromPubKey(pub1)

	m := NewPkhKeyMap()
	m.Add(pkh1, Keypair{Priv: priv1, Pub: pub1})
	snap := m.Snapshot()

	priv2, _ := ebxkey.FromRandom()
	pub2, _ := ebxkey.PubKeyFromPriv(priv2)
	pkh2 := ebxkey.PkhFromPubKey(pub2)
	m.Add(pkh2, Keypair{Priv: priv2, Pub: pub2})

	if _, ok := snap.Get(pkh2.Bytes()); ok {
		t.Error("Snapshot() saw a key added after it was taken")
	}
}
