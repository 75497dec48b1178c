package ebxtx

import (
	"testing"

	"github.com/dan/ebx-txlib/ebxscript"
)

func sampleTx() Tx {
	var pkh [32]byte
	for i := range pkh {
		pkh[i] = byte(i)
	}
	var txid [32]byte
	for i := range txid {
		txid[i] = byte(0xAA + i)
	}
	tx := NewTx()
	tx.Inputs = append(tx.Inputs, TxIn{
		InputTxID:     txid,
		InputTxOutNum: 3,
		Script:        ebxscript.FromPkhInputPlaceholder(),
		LockRel:       0,
	})
	tx.Outputs = append(tx.Outputs, TxOut{
		Value:  12345,
		Script: ebxscript.FromPkhOutput(pkh),
	})
	tx.LockAbs = 0
	return tx
}

func TestTxIsoBufRoundTrip(t *testing.T) {
	want := sampleTx()
	buf := want.ToIsoBuf()
	got, err := FromIsoBuf(buf)
	if err != nil {
		t.Fatalf("FromIsoBuf() error = %v", err)
	}

	if got.Version != want.Version || got.LockAbs != want.LockAbs {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
	if len(got.Inputs) != len(want.Inputs) || len(got.Outputs) != len(want.Outputs) {
		t.Fatalf("input/output counts mismatch: got %d/%d, want %d/%d",
			len(got.Inputs), len(got.Outputs), len(want.Inputs), len(want.Outputs))
	}
	if got.Inputs[0].InputTxID != want.Inputs[0].InputTxID {
		t.Error("input tx id mismatch")
	}
	if got.Inputs[0].InputTxOutNum != want.Inputs[0].InputTxOutNum {
		t.Error("input tx out num mismatch")
	}
	if got.Outputs[0].Value != want.Outputs[0].Value {
		t.Error("output value mismatch")
	}
}

func TestTxIDDeterministic(t *testing.T) {
	tx := sampleTx()
	a := tx.TxID()
	b := tx.TxID()
	if a != b {
		t.Error("TxID() is not a pure function of the tx")
	}
}

func TestTxIDChangesWithContent(t *testing.T) {
	tx1 := sampleTx()
	tx2 := sampleTx()
	tx2.LockAbs = 1
	if tx1.TxID() == tx2.TxID() {
		t.Error("TxID() did not change when lock_abs changed")
	}
}

func TestTxFromIsoBufTruncated(t *testing.T) {
	tx := sampleTx()
	buf := tx.ToIsoBuf()
	if _, err := FromIsoBuf(buf[:len(buf)-1]); err == nil {
		t.Error("FromIsoBuf() on truncated buffer: error = nil, want error")
	}
}
