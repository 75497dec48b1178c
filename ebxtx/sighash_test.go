package ebxtx

import (
	"testing"

	"github.com/dan/ebx-txlib/ebxscript"
)

func twoInputTx() Tx {
	tx := NewTx()
	for i := byte(0); i < 2; i++ {
		tx.Inputs = append(tx.Inputs, TxIn{
			InputTxID:     txIDOf(0x10 + i),
			InputTxOutNum: uint32(i),
			Script:        ebxscript.FromPkhInputPlaceholder(),
			LockRel:       0,
		})
	}
	tx.Outputs = append(tx.Outputs, TxOut{Value: 100, Script: ebxscript.FromEmpty()})
	return tx
}

func TestSighashDeterministic(t *testing.T) {
	tx := twoInputTx()
	script := ebxscript.FromPkhOutput([32]byte{1})

	a := Sighash(NewHashCache(), tx, 0, script, 100, SighashAll)
	b := Sighash(NewHashCache(), tx, 0, script, 100, SighashAll)
	if a != b {
		t.Error("Sighash() is not a pure function of its inputs")
	}
}

func TestSighashDiffersByInputIndex(t *testing.T) {
	tx := twoInputTx()
	script := ebxscript.FromPkhOutput([32]byte{1})
	cache := NewHashCache()

	a := Sighash(cache, tx, 0, script, 100, SighashAll)
	b := Sighash(cache, tx, 1, script, 100, SighashAll)
	if a == b {
		t.Error("Sighash() did not change across input indices")
	}
}

func TestSighashCacheEquivalence(t *testing.T) {
	tx := twoInputTx()
	script := ebxscript.FromPkhOutput([32]byte{1})

	shared := NewHashCache()
	_ = Sighash(shared, tx, 1, script, 100, SighashAll) // populate the sub-hashes
	withCache := Sighash(shared, tx, 0, script, 100, SighashAll)

	fresh := NewHashCache()
	withoutReuse := Sighash(fresh, tx, 0, script, 100, SighashAll)

	if withCache != withoutReuse {
		t.Error("signing with and without cache reuse produced different sighashes")
	}
}

func TestHashCacheInvalidationOnOutputChange(t *testing.T) {
	tx := twoInputTx()
	script := ebxscript.FromPkhOutput([32]byte{1})
	cache := NewHashCache()

	before := Sighash(cache, tx, 0, script, 100, SighashAll)

	tx.Outputs[0].Value = 999
	cache.Clear()
	after := Sighash(cache, tx, 0, script, 100, SighashAll)

	if before == after {
		t.Error("Sighash() did not change after an output changed and the cache was cleared")
	}
}

func TestHashCacheSubHashIndependence(t *testing.T) {
	tx := twoInputTx()

	cache := NewHashCache()
	prevoutsBefore := cache.hashPrevouts(tx)
	sequenceBefore := cache.hashSequence(tx)
	outputsBefore := cache.hashOutputs(tx)

	mutatedOutputs := twoInputTx()
	mutatedOutputs.Outputs[0].Value = 999
	freshForOutputs := NewHashCache()
	if freshForOutputs.hashPrevouts(mutatedOutputs) != prevoutsBefore {
		t.Error("hash_prevouts changed when only an output was mutated")
	}
	if freshForOutputs.hashSequence(mutatedOutputs) != sequenceBefore {
		t.Error("hash_sequence changed when only an output was mutated")
	}
	if freshForOutputs.hashOutputs(mutatedOutputs) == outputsBefore {
		t.Error("hash_outputs did not change when an output was mutated")
	}

	mutatedPrevout := twoInputTx()
	mutatedPrevout.Inputs[0].InputTxID = txIDOf(0xFF)
	freshForPrevout := NewHashCache()
	if freshForPrevout.hashOutputs(mutatedPrevout) != outputsBefore {
		t.Error("hash_outputs changed when only a prevout was mutated")
	}
	if freshForPrevout.hashPrevouts(mutatedPrevout) == prevoutsBefore {
		t.Error("hash_prevouts did not change when a prevout was mutated")
	}
}

func TestHashCacheStaleWithoutClearIsWrong(t *testing.T) {
	tx := twoInputTx()
	script := ebxscript.FromPkhOutput([32]byte{1})
	cache := NewHashCache()

	_ = Sighash(cache, tx, 0, script, 100, SighashAll)

	tx.Outputs[0].Value = 999
	stale := Sighash(cache, tx, 0, script, 100, SighashAll)

	fresh := NewHashCache()
	correct := Sighash(fresh, tx, 0, script, 100, SighashAll)

	if stale == correct {
		t.Error("expected a reused, uncleared cache to mask the output mutation")
	}
}
