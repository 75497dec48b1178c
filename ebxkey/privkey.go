package ebxkey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/dan/ebx-txlib/ebxerr"
)

// StrictPrefix is the literal prefix prepended to a PrivKey's textual
// encoding, per the external wire contract.
const StrictPrefix = "ebxprv"

// checksumHexLen is the length in hex characters of the textual checksum
// (4 raw bytes).
const checksumHexLen = 8

// PrivKey is a 32-byte secp256k1 scalar. The zero value is not a valid key;
// construct one with FromRandom or FromBuf.
type PrivKey struct {
	buf [32]byte
}

// NewPrivKey wraps a raw 32-byte scalar without validating it. Validation is
// deferred to the operations that need it (ToPubKeyBuffer, signing), mirroring
// the reference implementation's split between construction and use.
func NewPrivKey(buf [32]byte) PrivKey {
	return PrivKey{buf: buf}
}

// FromRandom draws a uniform 256-bit scalar and rejection-samples until it
// validates against secp256k1. The loop terminates with overwhelming
// probability on the first draw.
func FromRandom() (PrivKey, error) {
	for {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			return PrivKey{}, fmt.Errorf("ebxkey: generate random scalar: %w", err)
		}
		if privKeyVerify(buf) {
			return PrivKey{buf: buf}, nil
		}
	}
}

// FromBuf builds a PrivKey from exactly 32 raw bytes.
func FromBuf(b []byte) (PrivKey, error) {
	if len(b) > 32 {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from buf: %w", ebxerr.ErrTooMuchData)
	}
	if len(b) < 32 {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from buf: %w", ebxerr.ErrNotEnoughData)
	}
	var buf [32]byte
	copy(buf[:], b)
	return PrivKey{buf: buf}, nil
}

// Bytes returns the raw 32-byte scalar.
func (k PrivKey) Bytes() [32]byte {
	return k.buf
}

// ToPubKeyBuffer derives the 33-byte compressed public key for this private
// key. It fails with ebxerr.ErrInvalidKey if the stored scalar no longer
// validates or the curve engine rejects derivation.
func (k PrivKey) ToPubKeyBuffer() ([33]byte, error) {
	out, ok := pubKeyDerive(k.buf)
	if !ok {
		return [33]byte{}, fmt.Errorf("ebxkey: derive pub key: %w", ebxerr.ErrInvalidKey)
	}
	return out, nil
}

// Sign produces a 64-byte compact ECDSA signature (r||s) over msg, the
// ecdsa_sign oracle contract. It fails with ebxerr.ErrInvalidKey if the
// stored scalar no longer validates.
func (k PrivKey) Sign(msg [32]byte) ([64]byte, error) {
	r, s, ok := ecdsaSign(k.buf, msg)
	if !ok {
		return [64]byte{}, fmt.Errorf("ebxkey: sign: %w", ebxerr.ErrInvalidKey)
	}
	var sig [64]byte
	copy(sig[:32], r[:])
	copy(sig[32:], s[:])
	return sig, nil
}

// ToStrictHex returns the strict-hex encoding of the raw scalar: lower-case
// hex, no prefix, no padding.
func (k PrivKey) ToStrictHex() string {
	return hex.EncodeToString(k.buf[:])
}

// FromStrictHex parses a strict-hex encoding of a 32-byte scalar.
func FromStrictHex(s string) (PrivKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from strict hex: %w", ebxerr.ErrInvalidEncoding)
	}
	return FromBuf(b)
}

// ToStrictStr returns the textual encoding: "ebxprv" || hex8(checksum) ||
// base58(scalar). The checksum is the first 4 bytes of blake3(scalar).
func (k PrivKey) ToStrictStr() string {
	checkBuf := Blake3(k.buf[:])
	checkHex := hex.EncodeToString(checkBuf[:4])
	return StrictPrefix + checkHex + base58.Encode(k.buf[:])
}

// FromStrictStr parses the textual encoding produced by ToStrictStr. It
// fails with ebxerr.ErrInvalidEncoding if the shape (prefix, checksum
// length, base58 payload length) doesn't match the contract, and with
// ebxerr.ErrInvalidChecksum if the shape is right but the checksum doesn't
// match the payload.
func FromStrictStr(s string) (PrivKey, error) {
	if !strings.HasPrefix(s, StrictPrefix) {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from strict str: %w", ebxerr.ErrInvalidEncoding)
	}
	rest := s[len(StrictPrefix):]
	if len(rest) < checksumHexLen {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from strict str: %w", ebxerr.ErrInvalidEncoding)
	}
	checkSum, err := hex.DecodeString(rest[:checksumHexLen])
	if err != nil || len(checkSum) != 4 {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from strict str: %w", ebxerr.ErrInvalidEncoding)
	}
	buf := base58.Decode(rest[checksumHexLen:])
	if len(buf) != 32 {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from strict str: %w", ebxerr.ErrInvalidEncoding)
	}
	checkBuf := Blake3(buf)
	if !equal4(checkSum, checkBuf[:4]) {
		return PrivKey{}, fmt.Errorf("ebxkey: priv key from strict str: %w", ebxerr.ErrInvalidChecksum)
	}
	return FromBuf(buf)
}

// IsValidStringFmt reports whether s decodes successfully with FromStrictStr.
func IsValidStringFmt(s string) bool {
	_, err := FromStrictStr(s)
	return err == nil
}

func equal4(a, b []byte) bool {
	if len(a) != 4 || len(b) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
