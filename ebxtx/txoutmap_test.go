package ebxtx

import (
	"errors"
	"testing"

	"github.com/dan/ebx-txlib/ebxerr"
	"github.com/dan/ebx-txlib/ebxscript"
)

func txIDOf(b byte) [32]byte {
	var id [32]byte
	for i := range id {
		id[i] = b
	}
	return id
}

func TestTxOutMapNameRoundTrip(t *testing.T) {
	txID := txIDOf(0x42)
	name := NameFromOutput(txID, 7)

	gotTxID, err := NameToTxIDHash(name)
	if err != nil {
		t.Fatalf("NameToTxIDHash() error = %v", err)
	}
	if gotTxID != txID {
		t.Error("NameToTxIDHash() mismatch")
	}

	gotVout, err := NameToOutputIndex(name)
	if err != nil {
		t.Fatalf("NameToOutputIndex() error = %v", err)
	}
	if gotVout != 7 {
		t.Errorf("NameToOutputIndex() = %d, want 7", gotVout)
	}
}

func TestTxOutMapNameRejection(t *testing.T) {
	if _, err := NameToTxIDHash("not-a-valid-name"); !errors.Is(err, ebxerr.ErrInvalidEncoding) {
		t.Errorf("NameToTxIDHash() error = %v, want kind %v", err, ebxerr.ErrInvalidEncoding)
	}
	if _, err := NameToOutputIndex("deadbeef:notanumber"); !errors.Is(err, ebxerr.ErrInvalidEncoding) {
		t.Errorf("NameToOutputIndex() error = %v, want kind %v", err, ebxerr.ErrInvalidEncoding)
	}
}

func TestTxOutMapInsertionOrder(t *testing.T) {
	m := NewTxOutMap()
	ids := []byte{0x03, 0x01, 0x02}
	for _, b := range ids {
		m.Add(txIDOf(b), 0, TxOut{Value: uint64(b), Script: ebxscript.FromEmpty()})
	}

	entries := m.Entries()
	if len(entries) != len(ids) {
		t.Fatalf("Entries() len = %d, want %d", len(entries), len(ids))
	}
	for i, b := range ids {
		if entries[i].TxID != txIDOf(b) {
			t.Errorf("Entries()[%d] txid = %x, want insertion-order entry for %x", i, entries[i].TxID, b)
		}
	}
}

func TestTxOutMapOrderedByKey(t *testing.T) {
	m := NewTxOutMap()
	for _, b := range []byte{0x03, 0x01, 0x02} {
		m.Add(txIDOf(b), 0, TxOut{Value: uint64(b), Script: ebxscript.FromEmpty()})
	}

	entries := m.EntriesOrderedByKey()
	want := []byte{0x01, 0x02, 0x03}
	for i, b := range want {
		if entries[i].TxID != txIDOf(b) {
			t.Errorf("EntriesOrderedByKey()[%d] txid = %x, want %x", i, entries[i].TxID, b)
		}
	}
}

func TestTxOutMapSnapshotIndependence(t *testing.T) {
	m := NewTxOutMap()
	m.Add(txIDOf(1), 0, TxOut{Value: 100, Script: ebxscript.FromEmpty()})

	snap := m.Snapshot()
	m.Add(txIDOf(2), 0, TxOut{Value: 200, Script: ebxscript.FromEmpty()})

	if snap.Len() != 1 {
		t.Errorf("Snapshot().Len() = %d, want 1 (mutation after snapshot leaked in)", snap.Len())
	}
}

func TestTxOutMapGetMissing(t *testing.T) {
	m := NewTxOutMap()
	if _, ok := m.Get(txIDOf(9), 0); ok {
		t.Error("Get() on empty map: ok = true, want false")
	}
}
