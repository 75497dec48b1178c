package ebxtx

import (
	"github.com/dan/ebx-txlib/ebxkey"
	"github.com/dan/ebx-txlib/ebxscript"
	"github.com/hashicorp/go-hclog"
)

// SignerOption configures a TxSigner at construction.
type SignerOption func(*TxSigner)

// WithSignerLogger attaches a structured logger the signer reports
// per-input outcomes to at debug level. The default is a discard logger.
func WithSignerLogger(l hclog.Logger) SignerOption {
	return func(s *TxSigner) { s.logger = l }
}

// TxSigner signs a Tx's inputs in place against snapshots of the UTXO set
// and keypair map it was constructed with. Each input is signed through a
// boolean success channel: a precondition miss is reported as false with
// the tx left unchanged, never as an error, because the caller can retry
// once the precondition is repaired.
type TxSigner struct {
	tx     *Tx
	utxos  *TxOutMap
	keys   *PkhKeyMap
	cache  *HashCache
	logger hclog.Logger
}

// NewTxSigner takes snapshots of utxos and keys and returns a signer over
// tx. tx is mutated in place by Sign and SignAll.
func NewTxSigner(tx *Tx, utxos *TxOutMap, keys *PkhKeyMap, opts ...SignerOption) *TxSigner {
	s := &TxSigner{
		tx:     tx,
		utxos:  utxos.Snapshot(),
		keys:   keys.Snapshot(),
		cache:  NewHashCache(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the signer's configured logger.
func (s *TxSigner) Logger() hclog.Logger {
	return s.logger
}

// Sign signs exactly input nIn, returning true on success. On any
// recoverable precondition miss it returns false and leaves the tx
// unchanged by this call.
func (s *TxSigner) Sign(nIn int) bool {
	if nIn < 0 || nIn >= len(s.tx.Inputs) {
		s.logger.Debug("sign: input index out of range", "n_in", nIn)
		return false
	}
	in := s.tx.Inputs[nIn]

	spentOut, ok := s.utxos.Get(in.InputTxID, in.InputTxOutNum)
	if !ok {
		s.logger.Debug("sign: spent output not found", "n_in", nIn)
		return false
	}
	if !spentOut.Script.IsPkhOutput() {
		s.logger.Debug("sign: spent output is not a PKH output", "n_in", nIn)
		return false
	}
	pkhBuf := spentOut.Script.Chunks[2].Buffer
	if len(pkhBuf) != 32 {
		s.logger.Debug("sign: spent output pkh chunk missing or malformed", "n_in", nIn)
		return false
	}
	if !in.Script.IsPkhInput() {
		s.logger.Debug("sign: input script is not a PKH input", "n_in", nIn)
		return false
	}

	var pkh [32]byte
	copy(pkh[:], pkhBuf)
	kp, ok := s.keys.Get(pkh)
	if !ok {
		s.logger.Debug("sign: no keypair for pkh", "n_in", nIn)
		return false
	}

	pubBuf := kp.Pub.Bytes()
	if len(pubBuf) != ebxkey.PubKeySize {
		s.logger.Debug("sign: derived pubkey has unexpected length", "n_in", nIn)
		return false
	}

	msg := Sighash(s.cache, *s.tx, nIn, spentOut.Script, spentOut.Value, SighashAll)

	rs, err := kp.Priv.Sign(msg)
	if err != nil {
		s.logger.Debug("sign: curve oracle rejected signing", "n_in", nIn, "error", err)
		return false
	}

	sigBuf := make([]byte, 0, ebxscript.TxSignatureSize)
	sigBuf = append(sigBuf, rs[:]...)
	sigBuf = append(sigBuf, SighashAll)

	s.tx.Inputs[nIn].Script = ebxscript.FromPkhInput(sigBuf, pubBuf[:])

	s.logger.Debug("signed input", "n_in", nIn)
	return true
}

// SignAll signs inputs in ascending index order, stopping at the first
// failure. Signatures already applied before the failure remain committed;
// callers who need atomicity must snapshot the Tx themselves before calling.
func (s *TxSigner) SignAll() bool {
	for i := range s.tx.Inputs {
		if !s.Sign(i) {
			return false
		}
	}
	return true
}
