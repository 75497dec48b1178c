package ebxtx

import "github.com/dan/ebx-txlib/ebxkey"

// Keypair pairs the private key the signer needs with the public key the
// signer writes into the spending script.
type Keypair struct {
	Priv ebxkey.PrivKey
	Pub  ebxkey.PubKey
}

// PkhKeyMap is a lookup from a public-key hash to the keypair that spends
// outputs locked to it.
type PkhKeyMap struct {
	byPkh map[[32]byte]Keypair
}

// NewPkhKeyMap returns an empty map.
func NewPkhKeyMap() *PkhKeyMap {
	return &PkhKeyMap{byPkh: make(map[[32]byte]Keypair)}
}

// Add inserts or replaces the keypair for a pkh.
func (m *PkhKeyMap) Add(pkh ebxkey.Pkh, kp Keypair) {
	m.byPkh[pkh.Bytes()] = kp
}

// Get looks up the keypair for a pkh.
func (m *PkhKeyMap) Get(pkh [32]byte) (Keypair, bool) {
	kp, ok := m.byPkh[pkh]
	return kp, ok
}

// Snapshot returns a value-copy of m, independent of future mutation to m.
func (m *PkhKeyMap) Snapshot() *PkhKeyMap {
	cp := &PkhKeyMap{byPkh: make(map[[32]byte]Keypair, len(m.byPkh))}
	for k, v := range m.byPkh {
		cp.byPkh[k] = v
	}
	return cp
}
