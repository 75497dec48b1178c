package ebxkey

import (
	"fmt"

	"github.com/dan/ebx-txlib/ebxerr"
)

// PubKey is a 33-byte compressed secp256k1 point.
type PubKey struct {
	buf [33]byte
}

// PubKeySize is the wire length of a compressed public key.
const PubKeySize = 33

// NewPubKey wraps a raw 33-byte compressed point without validating it.
func NewPubKey(buf [33]byte) PubKey {
	return PubKey{buf: buf}
}

// PubKeyFromPriv derives the public key for a private key.
func PubKeyFromPriv(priv PrivKey) (PubKey, error) {
	buf, err := priv.ToPubKeyBuffer()
	if err != nil {
		return PubKey{}, err
	}
	return PubKey{buf: buf}, nil
}

// PubKeyFromBuf builds a PubKey from exactly 33 raw bytes.
func PubKeyFromBuf(b []byte) (PubKey, error) {
	if len(b) > PubKeySize {
		return PubKey{}, fmt.Errorf("ebxkey: pub key from buf: %w", ebxerr.ErrTooMuchData)
	}
	if len(b) < PubKeySize {
		return PubKey{}, fmt.Errorf("ebxkey: pub key from buf: %w", ebxerr.ErrNotEnoughData)
	}
	var buf [33]byte
	copy(buf[:], b)
	return PubKey{buf: buf}, nil
}

// Bytes returns the raw 33-byte compressed point.
func (p PubKey) Bytes() [33]byte {
	return p.buf
}

// Verify reports whether sig is a valid ECDSA signature over msg under p.
// This is the ecdsa_verify oracle contract; the core signing path never
// calls it, but ebxscript's CHECKSIG opcode does.
func (p PubKey) Verify(msg [32]byte, r, s [32]byte) bool {
	return ecdsaVerify(p.buf, msg, r, s)
}

// Pkh is the 32-byte BLAKE3 digest of a compressed public key: blake3(pub).
type Pkh struct {
	buf [32]byte
}

// PkhSize is the wire length of a public-key hash.
const PkhSize = 32

// NewPkh wraps a raw 32-byte digest without validating it.
func NewPkh(buf [32]byte) Pkh {
	return Pkh{buf: buf}
}

// PkhFromPubKeyBuffer computes the pkh of a 33-byte compressed public key
// buffer directly, mirroring the reference implementation's entry point
// (Pkh::from_pub_key_buffer), which takes raw bytes rather than a PubKey.
func PkhFromPubKeyBuffer(pubKeyBuf []byte) Pkh {
	return Pkh{buf: Blake3(pubKeyBuf)}
}

// PkhFromPubKey computes the pkh of a PubKey.
func PkhFromPubKey(pub PubKey) Pkh {
	buf := pub.Bytes()
	return PkhFromPubKeyBuffer(buf[:])
}

// PkhFromBuf builds a Pkh from exactly 32 raw bytes.
func PkhFromBuf(b []byte) (Pkh, error) {
	if len(b) > PkhSize {
		return Pkh{}, fmt.Errorf("ebxkey: pkh from buf: %w", ebxerr.ErrTooMuchData)
	}
	if len(b) < PkhSize {
		return Pkh{}, fmt.Errorf("ebxkey: pkh from buf: %w", ebxerr.ErrNotEnoughData)
	}
	var buf [32]byte
	copy(buf[:], b)
	return Pkh{buf: buf}, nil
}

// Bytes returns the raw 32-byte digest.
func (p Pkh) Bytes() [32]byte {
	return p.buf
}
