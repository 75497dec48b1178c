package ebxscript

import "github.com/dan/ebx-txlib/ebxkey"

// SighashAll is the only hash type this module guarantees; it commits to
// every input and every output of the tx.
const SighashAll = 0x01

const sighashAll = SighashAll

// Interpreter evaluates the PKH spend path: an input script concatenated
// with the output script it spends, against the sighash message that script
// was signed over. It implements exactly the five opcodes the PKH templates
// use (two pushes, DUP, BLAKE3, EQUALVERIFY, CHECKSIG) and is not a general
// script VM; see the package doc.
type Interpreter struct {
	stack [][]byte
}

// NewInterpreter returns an interpreter with an empty stack.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

func (in *Interpreter) push(b []byte) {
	in.stack = append(in.stack, b)
}

func (in *Interpreter) pop() ([]byte, bool) {
	if len(in.stack) == 0 {
		return nil, false
	}
	top := in.stack[len(in.stack)-1]
	in.stack = in.stack[:len(in.stack)-1]
	return top, true
}

func (in *Interpreter) top() ([]byte, bool) {
	if len(in.stack) == 0 {
		return nil, false
	}
	return in.stack[len(in.stack)-1], true
}

// Eval runs inputScript then outputScript against msg, the sighash the
// input's signature push is expected to cover. It returns true only if
// execution reaches the end with CHECKSIG's result left true and no
// EQUALVERIFY failure occurred along the way.
func Eval(inputScript, outputScript Script, msg [32]byte) bool {
	in := NewInterpreter()
	for _, c := range inputScript.Chunks {
		if !in.step(c, msg) {
			return false
		}
	}
	for _, c := range outputScript.Chunks {
		if !in.step(c, msg) {
			return false
		}
	}
	top, ok := in.top()
	if !ok {
		return false
	}
	return len(top) == 1 && top[0] == 1
}

func (in *Interpreter) step(c Chunk, msg [32]byte) bool {
	if isPushOpcode(c.Opcode) {
		if c.Buffer == nil {
			return false
		}
		in.push(c.Buffer)
		return true
	}
	switch c.Opcode {
	case OpDup:
		v, ok := in.top()
		if !ok {
			return false
		}
		in.push(append([]byte(nil), v...))
		return true
	case OpBlake3:
		v, ok := in.pop()
		if !ok {
			return false
		}
		digest := ebxkey.Blake3(v)
		in.push(digest[:])
		return true
	case OpEqualVerify:
		a, ok := in.pop()
		if !ok {
			return false
		}
		b, ok := in.pop()
		if !ok {
			return false
		}
		return bytesEqual(a, b)
	case OpCheckSig:
		return in.checkSig(msg)
	default:
		return false
	}
}

// TxSignatureSize is the wire length of a signature push: r(32) || s(32) ||
// hash_type(1).
const TxSignatureSize = 65

func (in *Interpreter) checkSig(msg [32]byte) bool {
	pubBuf, ok := in.pop()
	if !ok || len(pubBuf) != ebxkey.PubKeySize {
		return false
	}
	sigBuf, ok := in.pop()
	if !ok || len(sigBuf) != TxSignatureSize {
		return false
	}
	var pubArr [33]byte
	copy(pubArr[:], pubBuf)
	pub := ebxkey.NewPubKey(pubArr)

	var r, s [32]byte
	copy(r[:], sigBuf[:32])
	copy(s[:], sigBuf[32:64])
	hashType := sigBuf[64]
	if hashType != sighashAll {
		return false
	}

	result := pub.Verify(msg, r, s)
	if result {
		in.push([]byte{1})
	} else {
		in.push([]byte{0})
	}
	return true
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
