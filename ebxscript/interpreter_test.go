package ebxscript

import (
	"testing"

	"github.com/dan/ebx-txlib/ebxkey"
)

func signedPkhPair(t *testing.T, msg [32]byte) (Script, Script) {
	t.Helper()
	priv, err := ebxkey.FromRandom()
	if err != nil {
		t.Fatalf("FromRandom() error = %v", err)
	}
	pubBuf, err := priv.ToPubKeyBuffer()
	if err != nil {
		t.Fatalf("ToPubKeyBuffer() error = %v", err)
	}
	pub, err := ebxkey.PubKeyFromBuf(pubBuf[:])
	if err != nil {
		t.Fatalf("PubKeyFromBuf() error = %v", err)
	}
	pkh := ebxkey.PkhFromPubKey(pub)

	rs, err := priv.Sign(msg)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	sig := append(append([]byte(nil), rs[:]...), SighashAll)

	inputScript := FromPkhInput(sig, pubBuf[:])
	outputScript := FromPkhOutput(pkh.Bytes())
	return inputScript, outputScript
}

func TestEvalAcceptsValidSpend(t *testing.T) {
	msg := ebxkey.Blake3([]byte("a sighash preimage"))
	inputScript, outputScript := signedPkhPair(t, msg)
	if !Eval(inputScript, outputScript, msg) {
		t.Error("Eval() = false for a validly signed PKH spend")
	}
}

func TestEvalRejectsWrongMessage(t *testing.T) {
	msg := ebxkey.Blake3([]byte("a sighash preimage"))
	other := ebxkey.Blake3([]byte("a different preimage"))
	inputScript, outputScript := signedPkhPair(t, msg)
	if Eval(inputScript, outputScript, other) {
		t.Error("Eval() = true when the signed message doesn't match")
	}
}

func TestEvalRejectsWrongKey(t *testing.T) {
	msg := ebxkey.Blake3([]byte("a sighash preimage"))
	inputScript, _ := signedPkhPair(t, msg)
	_, outputScript := signedPkhPair(t, msg) // different keypair's pkh

	if Eval(inputScript, outputScript, msg) {
		t.Error("Eval() = true for a signature/pkh mismatch")
	}
}

func TestEvalRejectsBitFlippedSignature(t *testing.T) {
	msg := ebxkey.Blake3([]byte("a sighash preimage"))
	inputScript, outputScript := signedPkhPair(t, msg)

	flipped := append([]byte(nil), inputScript.Chunks[0].Buffer...)
	flipped[0] ^= 0x01
	inputScript.Chunks[0].Buffer = flipped

	if Eval(inputScript, outputScript, msg) {
		t.Error("Eval() = true with a bit-flipped signature")
	}
}

func TestEvalRejectsBitFlippedPubkey(t *testing.T) {
	msg := ebxkey.Blake3([]byte("a sighash preimage"))
	inputScript, outputScript := signedPkhPair(t, msg)

	flipped := append([]byte(nil), inputScript.Chunks[1].Buffer...)
	flipped[0] ^= 0x01
	inputScript.Chunks[1].Buffer = flipped

	if Eval(inputScript, outputScript, msg) {
		t.Error("Eval() = true with a bit-flipped pubkey")
	}
}

func TestEvalRejectsPlaceholder(t *testing.T) {
	msg := ebxkey.Blake3([]byte("a sighash preimage"))
	inputScript := FromPkhInputPlaceholder()
	_, outputScript := signedPkhPair(t, msg)

	if Eval(inputScript, outputScript, msg) {
		t.Error("Eval() = true against an unfilled placeholder input")
	}
}
