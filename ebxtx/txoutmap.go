package ebxtx

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dan/ebx-txlib/ebxerr"
)

// outPoint is the structured internal key: (tx_id, vout). The external
// contract is a string name, "hex(tx_id):decimal(vout)"; NameFromOutput and
// the two parse-back helpers preserve that contract for callers who persist
// or transmit names, even though the map itself never stringifies its keys.
type outPoint struct {
	txID [32]byte
	vout uint32
}

// NameFromOutput renders the external string-name contract for an outpoint:
// hex(tx_id) ":" decimal(vout).
func NameFromOutput(txID [32]byte, vout uint32) string {
	return hex.EncodeToString(txID[:]) + ":" + strconv.FormatUint(uint64(vout), 10)
}

// NameToTxIDHash parses the tx_id half of a name produced by NameFromOutput.
func NameToTxIDHash(name string) ([32]byte, error) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 {
		return [32]byte{}, fmt.Errorf("ebxtx: name to tx id hash: %w", ebxerr.ErrInvalidEncoding)
	}
	b, err := hex.DecodeString(parts[0])
	if err != nil || len(b) != 32 {
		return [32]byte{}, fmt.Errorf("ebxtx: name to tx id hash: %w", ebxerr.ErrInvalidEncoding)
	}
	var txID [32]byte
	copy(txID[:], b)
	return txID, nil
}

// NameToOutputIndex parses the vout half of a name produced by NameFromOutput.
func NameToOutputIndex(name string) (uint32, error) {
	parts := strings.SplitN(name, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("ebxtx: name to output index: %w", ebxerr.ErrInvalidEncoding)
	}
	n, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("ebxtx: name to output index: %w", ebxerr.ErrInvalidEncoding)
	}
	return uint32(n), nil
}

// TxOutMap is the UTXO set: a lookup from (tx_id, vout) to a spendable
// output. The external contract is keyed by name (NameFromOutput); the
// internal representation keeps a structured key plus an explicit order
// slice, since a plain Go map does not preserve insertion order and the
// builder's iteration order is part of its contract.
type TxOutMap struct {
	order []outPoint
	byKey map[outPoint]TxOut
}

// NewTxOutMap returns an empty map.
func NewTxOutMap() *TxOutMap {
	return &TxOutMap{byKey: make(map[outPoint]TxOut)}
}

// Add inserts or replaces the output at (txID, vout). Replacing an existing
// entry does not move it in iteration order.
func (m *TxOutMap) Add(txID [32]byte, vout uint32, out TxOut) {
	key := outPoint{txID: txID, vout: vout}
	if _, exists := m.byKey[key]; !exists {
		m.order = append(m.order, key)
	}
	m.byKey[key] = out
}

// Get looks up the output at (txID, vout).
func (m *TxOutMap) Get(txID [32]byte, vout uint32) (TxOut, bool) {
	out, ok := m.byKey[outPoint{txID: txID, vout: vout}]
	return out, ok
}

// Len reports the number of entries.
func (m *TxOutMap) Len() int {
	return len(m.order)
}

// Entry pairs a name with its output, as yielded by iteration.
type Entry struct {
	Name string
	TxID [32]byte
	Vout uint32
	Out  TxOut
}

// Entries returns every entry in insertion order. This is the default
// iteration order the builder's contract relies on.
func (m *TxOutMap) Entries() []Entry {
	entries := make([]Entry, 0, len(m.order))
	for _, key := range m.order {
		entries = append(entries, Entry{
			Name: NameFromOutput(key.txID, key.vout),
			TxID: key.txID,
			Vout: key.vout,
			Out:  m.byKey[key],
		})
	}
	return entries
}

// EntriesOrderedByKey returns every entry sorted lexicographically by
// (tx_id, vout), the builder's alternative deterministic order; see
// WithDeterministicOrder.
func (m *TxOutMap) EntriesOrderedByKey() []Entry {
	entries := m.Entries()
	sort.Slice(entries, func(i, j int) bool {
		c := bytes.Compare(entries[i].TxID[:], entries[j].TxID[:])
		if c != 0 {
			return c < 0
		}
		return entries[i].Vout < entries[j].Vout
	})
	return entries
}

// Snapshot returns a value-copy of m, independent of future mutation to m.
// TxBuilder and TxSigner each take one at construction.
func (m *TxOutMap) Snapshot() *TxOutMap {
	cp := &TxOutMap{
		order: append([]outPoint(nil), m.order...),
		byKey: make(map[outPoint]TxOut, len(m.byKey)),
	}
	for k, v := range m.byKey {
		cp.byKey[k] = v
	}
	return cp
}
