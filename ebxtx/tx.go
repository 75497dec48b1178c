// Package ebxtx implements the wire-level transaction record, the UTXO and
// keypair lookup tables, the sighash contract, and the builder/signer
// pipeline that produces signed pay-to-pubkey-hash transactions.
package ebxtx

import (
	"encoding/binary"
	"fmt"

	"github.com/dan/ebx-txlib/ebxerr"
	"github.com/dan/ebx-txlib/ebxkey"
	"github.com/dan/ebx-txlib/ebxscript"
)

// TxIn references a spent output and carries the script that unlocks it.
type TxIn struct {
	InputTxID     [32]byte
	InputTxOutNum uint32
	Script        ebxscript.Script
	LockRel       uint32
}

// TxOut is a single payment: a value in the smallest indivisible unit and
// the script that locks it.
type TxOut struct {
	Value  uint64
	Script ebxscript.Script
}

// Tx is a complete transaction record.
type Tx struct {
	Version uint8
	Inputs  []TxIn
	Outputs []TxOut
	LockAbs uint64
}

// NewTx returns an empty version-1 transaction.
func NewTx() Tx {
	return Tx{Version: 1}
}

// ToIsoBuf serialises tx to its canonical wire form.
func (tx Tx) ToIsoBuf() []byte {
	buf := []byte{tx.Version}
	buf = putVarint(buf, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.InputTxID[:]...)
		var numBuf [4]byte
		binary.LittleEndian.PutUint32(numBuf[:], in.InputTxOutNum)
		buf = append(buf, numBuf[:]...)
		buf = putVarlen(buf, in.Script.ToIsoBuf())
		var lockBuf [4]byte
		binary.LittleEndian.PutUint32(lockBuf[:], in.LockRel)
		buf = append(buf, lockBuf[:]...)
	}
	buf = putVarint(buf, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		var valBuf [8]byte
		binary.LittleEndian.PutUint64(valBuf[:], out.Value)
		buf = append(buf, valBuf[:]...)
		buf = putVarlen(buf, out.Script.ToIsoBuf())
	}
	var lockAbsBuf [8]byte
	binary.LittleEndian.PutUint64(lockAbsBuf[:], tx.LockAbs)
	buf = append(buf, lockAbsBuf[:]...)
	return buf
}

// FromIsoBuf parses the canonical wire form produced by ToIsoBuf.
func FromIsoBuf(b []byte) (Tx, error) {
	if len(b) < 1 {
		return Tx{}, fmt.Errorf("ebxtx: tx from iso buf: %w", ebxerr.ErrNotEnoughData)
	}
	tx := Tx{Version: b[0]}
	i := 1

	inCount, n, err := readVarint(b[i:])
	if err != nil {
		return Tx{}, err
	}
	i += n

	for k := uint64(0); k < inCount; k++ {
		if len(b) < i+32+4 {
			return Tx{}, fmt.Errorf("ebxtx: tx from iso buf: input header: %w", ebxerr.ErrNotEnoughData)
		}
		var in TxIn
		copy(in.InputTxID[:], b[i:i+32])
		i += 32
		in.InputTxOutNum = binary.LittleEndian.Uint32(b[i : i+4])
		i += 4

		scriptBuf, n, err := readVarlen(b[i:])
		if err != nil {
			return Tx{}, err
		}
		i += n
		in.Script, err = ebxscript.FromIsoBuf(scriptBuf)
		if err != nil {
			return Tx{}, err
		}

		if len(b) < i+4 {
			return Tx{}, fmt.Errorf("ebxtx: tx from iso buf: lock_rel: %w", ebxerr.ErrNotEnoughData)
		}
		in.LockRel = binary.LittleEndian.Uint32(b[i : i+4])
		i += 4

		tx.Inputs = append(tx.Inputs, in)
	}

	outCount, n, err := readVarint(b[i:])
	if err != nil {
		return Tx{}, err
	}
	i += n

	for k := uint64(0); k < outCount; k++ {
		if len(b) < i+8 {
			return Tx{}, fmt.Errorf("ebxtx: tx from iso buf: value: %w", ebxerr.ErrNotEnoughData)
		}
		var out TxOut
		out.Value = binary.LittleEndian.Uint64(b[i : i+8])
		i += 8

		scriptBuf, n, err := readVarlen(b[i:])
		if err != nil {
			return Tx{}, err
		}
		i += n
		out.Script, err = ebxscript.FromIsoBuf(scriptBuf)
		if err != nil {
			return Tx{}, err
		}

		tx.Outputs = append(tx.Outputs, out)
	}

	if len(b) < i+8 {
		return Tx{}, fmt.Errorf("ebxtx: tx from iso buf: lock_abs: %w", ebxerr.ErrNotEnoughData)
	}
	tx.LockAbs = binary.LittleEndian.Uint64(b[i : i+8])

	return tx, nil
}

// TxID computes double_blake3(serialize(tx)), the tx's canonical identifier.
// It is always derived, never stored on the Tx.
func (tx Tx) TxID() [32]byte {
	return ebxkey.DoubleBlake3(tx.ToIsoBuf())
}
