package ebxtx

import (
	"encoding/binary"

	"github.com/dan/ebx-txlib/ebxkey"
	"github.com/dan/ebx-txlib/ebxscript"
)

// HashCache memoises the three sub-hashes that are independent of the input
// being signed: hash_prevouts, hash_sequence, hash_outputs. It is scoped to
// one signing or verification pass over one Tx and must not outlive a
// structural mutation to that tx; call Clear after changing any prevout,
// lock_rel or output. Each TxSigner allocates its own cache at construction
// and never clears it.
type HashCache struct {
	prevouts *[32]byte
	sequence *[32]byte
	outputs  *[32]byte
}

// NewHashCache returns an empty cache.
func NewHashCache() *HashCache {
	return &HashCache{}
}

// Clear drops every memoised sub-hash, forcing recomputation on next use.
func (c *HashCache) Clear() {
	c.prevouts = nil
	c.sequence = nil
	c.outputs = nil
}

func (c *HashCache) hashPrevouts(tx Tx) [32]byte {
	if c.prevouts != nil {
		return *c.prevouts
	}
	var buf []byte
	for _, in := range tx.Inputs {
		buf = append(buf, in.InputTxID[:]...)
		var numBuf [4]byte
		binary.LittleEndian.PutUint32(numBuf[:], in.InputTxOutNum)
		buf = append(buf, numBuf[:]...)
	}
	h := ebxkey.DoubleBlake3(buf)
	c.prevouts = &h
	return h
}

func (c *HashCache) hashSequence(tx Tx) [32]byte {
	if c.sequence != nil {
		return *c.sequence
	}
	var buf []byte
	for _, in := range tx.Inputs {
		var lockBuf [4]byte
		binary.LittleEndian.PutUint32(lockBuf[:], in.LockRel)
		buf = append(buf, lockBuf[:]...)
	}
	h := ebxkey.DoubleBlake3(buf)
	c.sequence = &h
	return h
}

func (c *HashCache) hashOutputs(tx Tx) [32]byte {
	if c.outputs != nil {
		return *c.outputs
	}
	var buf []byte
	for _, out := range tx.Outputs {
		var valBuf [8]byte
		binary.LittleEndian.PutUint64(valBuf[:], out.Value)
		buf = append(buf, valBuf[:]...)
		buf = putVarlen(buf, out.Script.ToIsoBuf())
	}
	h := ebxkey.DoubleBlake3(buf)
	c.outputs = &h
	return h
}

// SighashAll is the only hash type this package guarantees, re-exported
// from ebxscript so callers needn't import both packages for one constant.
const SighashAll = ebxscript.SighashAll

// Sighash computes the signed message for input nIn of tx, given the spent
// output's script and amount, using hashType. cache memoises the three
// sub-hashes shared across every input of tx; pass a fresh HashCache per tx.
func Sighash(cache *HashCache, tx Tx, nIn int, spentScript ebxscript.Script, amount uint64, hashType byte) [32]byte {
	in := tx.Inputs[nIn]

	hashPrevouts := cache.hashPrevouts(tx)
	hashSequence := cache.hashSequence(tx)
	hashOutputs := cache.hashOutputs(tx)

	var buf []byte
	buf = append(buf, tx.Version)
	buf = append(buf, hashPrevouts[:]...)
	buf = append(buf, hashSequence[:]...)
	buf = append(buf, in.InputTxID[:]...)

	var numBuf [4]byte
	binary.LittleEndian.PutUint32(numBuf[:], in.InputTxOutNum)
	buf = append(buf, numBuf[:]...)

	buf = putVarlen(buf, spentScript.ToIsoBuf())

	var amountBuf [8]byte
	binary.LittleEndian.PutUint64(amountBuf[:], amount)
	buf = append(buf, amountBuf[:]...)

	var lockRelBuf [4]byte
	binary.LittleEndian.PutUint32(lockRelBuf[:], in.LockRel)
	buf = append(buf, lockRelBuf[:]...)

	buf = append(buf, hashOutputs[:]...)

	var lockAbsBuf [8]byte
	binary.LittleEndian.PutUint64(lockAbsBuf[:], tx.LockAbs)
	buf = append(buf, lockAbsBuf[:]...)

	buf = append(buf, hashType)

	return ebxkey.DoubleBlake3(buf)
}
