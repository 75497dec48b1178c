package ebxtx

import (
	"github.com/dan/ebx-txlib/ebxscript"
	"github.com/hashicorp/go-hclog"
)

// BuilderOption configures a TxBuilder at construction.
type BuilderOption func(*TxBuilder)

// WithLogger attaches a structured logger the builder reports its input
// selection to at debug level. The default is a discard logger.
func WithLogger(l hclog.Logger) BuilderOption {
	return func(b *TxBuilder) { b.logger = l }
}

// WithDeterministicOrder selects lexicographic (tx_id, vout) iteration over
// the TxOutMap instead of the default insertion order. Tests in this package
// assume insertion order; this option exists for callers whose TxOutMap
// construction order isn't meaningful to them and who want a build() result
// independent of it.
func WithDeterministicOrder() BuilderOption {
	return func(b *TxBuilder) { b.deterministicOrder = true }
}

// TxBuilder performs deterministic input selection and change accounting
// under a strict no-fee model: it never deducts a fee from selected inputs,
// and under-funded construction is reported via InputAmount rather than an
// error.
type TxBuilder struct {
	utxos         *TxOutMap
	changeScript  ebxscript.Script
	lockNum       uint64
	targetOutputs []TxOut

	deterministicOrder bool
	logger             hclog.Logger

	// InputAmount is the total value of the inputs selected by the most
	// recent Build call, exposed so callers can detect under-funding
	// without inspecting the tx themselves.
	InputAmount uint64
}

// NewTxBuilder takes a snapshot of utxos and returns a builder that pays
// change, if any, to changeScript and sets the tx's absolute lock to lockNum.
func NewTxBuilder(utxos *TxOutMap, changeScript ebxscript.Script, lockNum uint64, opts ...BuilderOption) *TxBuilder {
	b := &TxBuilder{
		utxos:        utxos.Snapshot(),
		changeScript: changeScript,
		lockNum:      lockNum,
		logger:       hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Logger returns the builder's configured logger.
func (b *TxBuilder) Logger() hclog.Logger {
	return b.logger
}

// AddOutput appends out to the set of target outputs. Build consumes these
// in the order they were added; that order becomes part of the signed
// sighash, so callers control it deliberately.
func (b *TxBuilder) AddOutput(out TxOut) {
	b.targetOutputs = append(b.targetOutputs, out)
}

// Build selects inputs and produces an unsigned Tx with placeholder PKH
// input scripts. It may be called more than once; given an unchanged
// snapshot and output list it produces the same result every time.
//
// Input selection stops as soon as the running input amount reaches the
// target total; a surplus becomes a change output. A shortfall is not an
// error: Build returns the partially funded tx as-is, and callers check
// InputAmount against the target to detect it.
func (b *TxBuilder) Build() Tx {
	tx := NewTx()
	tx.LockAbs = b.lockNum
	b.InputAmount = 0

	var totalOut uint64
	for _, out := range b.targetOutputs {
		totalOut += out.Value
	}
	tx.Outputs = append(tx.Outputs, b.targetOutputs...)

	entries := b.utxos.Entries()
	if b.deterministicOrder {
		entries = b.utxos.EntriesOrderedByKey()
	}

	for _, entry := range entries {
		if !entry.Out.Script.IsPkhOutput() {
			continue
		}
		tx.Inputs = append(tx.Inputs, TxIn{
			InputTxID:     entry.TxID,
			InputTxOutNum: entry.Vout,
			Script:        ebxscript.FromPkhInputPlaceholder(),
			LockRel:       0,
		})
		b.InputAmount += entry.Out.Value
		b.logger.Debug("selected input", "name", entry.Name, "value", entry.Out.Value, "running_total", b.InputAmount)
		if b.InputAmount >= totalOut {
			break
		}
	}

	if b.InputAmount > totalOut {
		change := b.InputAmount - totalOut
		tx.Outputs = append(tx.Outputs, TxOut{Value: change, Script: b.changeScript})
		b.logger.Debug("added change output", "value", change)
	} else if b.InputAmount < totalOut {
		b.logger.Warn("under-funded transaction", "input_amount", b.InputAmount, "target", totalOut)
	}

	return tx
}
