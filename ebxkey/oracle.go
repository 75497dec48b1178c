package ebxkey

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// This file is the single adapter between this module's key and signature
// types and the secp256k1/ECDSA engine. Nothing outside this file imports
// btcec directly, so swapping the curve library is a one-file change.

// privKeyVerify reports whether buf is a valid secp256k1 scalar (1 <= k < n).
func privKeyVerify(buf [32]byte) bool {
	// btcec.PrivKeyFromBytes reduces mod n silently for an out-of-range
	// scalar; reject anything that doesn't round-trip unchanged so the
	// contract matches "1 <= k < n" exactly.
	priv := new(btcec.ModNScalar)
	overflow := priv.SetByteSlice(buf[:])
	if overflow {
		return false
	}
	return !priv.IsZero()
}

// pubKeyDerive derives the 33-byte compressed public key for a validated
// private scalar.
func pubKeyDerive(buf [32]byte) ([33]byte, bool) {
	if !privKeyVerify(buf) {
		return [33]byte{}, false
	}
	priv, pub := btcec.PrivKeyFromBytes(buf[:])
	defer priv.Zero()
	var out [33]byte
	copy(out[:], pub.SerializeCompressed())
	return out, true
}

// ecdsaSign signs a 32-byte message with the given private scalar, returning
// the raw (r, s) pair, each 32 bytes big-endian.
func ecdsaSign(priv [32]byte, msg [32]byte) (r, s [32]byte, ok bool) {
	if !privKeyVerify(priv) {
		return r, s, false
	}
	key, _ := btcec.PrivKeyFromBytes(priv[:])
	defer key.Zero()
	sig := ecdsa.SignCompact(key, msg[:], false)
	// SignCompact returns a 65-byte [recovery-id || r || s] buffer.
	if len(sig) != 65 {
		return r, s, false
	}
	copy(r[:], sig[1:33])
	copy(s[:], sig[33:65])
	return r, s, true
}

// ecdsaVerify reports whether (r, s) is a valid ECDSA signature over msg
// under the 33-byte compressed public key pub.
func ecdsaVerify(pub [33]byte, msg [32]byte, r, s [32]byte) bool {
	pubKey, err := btcec.ParsePubKey(pub[:])
	if err != nil {
		return false
	}
	var rs, ss btcec.ModNScalar
	if rs.SetByteSlice(r[:]) || ss.SetByteSlice(s[:]) {
		return false
	}
	sig := ecdsa.NewSignature(&rs, &ss)
	return sig.Verify(msg[:], pubKey)
}
