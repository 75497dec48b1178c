// Package ebxscript implements the chunk-based script model and the
// pay-to-pubkey-hash (PKH) templates the signing pipeline targets. It does
// not implement the full opcode set; see Interpreter for the narrow PKH-path
// evaluator this module carries for its own testable properties.
package ebxscript

import (
	"encoding/binary"
	"fmt"

	"github.com/dan/ebx-txlib/ebxerr"
)

// Opcodes used by the PKH templates. The full set is an external
// collaborator; only these four (plus raw pushdata) are meaningful here.
const (
	OpDup         byte = 0x76
	OpBlake3      byte = 0xa8
	OpEqualVerify byte = 0x88
	OpCheckSig    byte = 0xac

	// OpPushData1/2/4 select a 1/2/4-byte little-endian length prefix for
	// buffers too long for a single-byte direct push. Direct pushes (buffer
	// length 0..0x4b) encode the length as the opcode byte itself, the same
	// convention Bitcoin-family scripts use.
	OpPushData1 byte = 0x4c
	OpPushData2 byte = 0x4d
	OpPushData4 byte = 0x4e

	maxDirectPush = 0x4b
)

// Chunk is one element of a Script: either a bare opcode, or an opcode with
// an embedded length-prefixed buffer. A placeholder chunk carries a nil
// Buffer awaiting a later fill (see NewPlaceholderPush).
type Chunk struct {
	Opcode byte
	Buffer []byte // nil for a bare opcode or an unfilled placeholder
}

// NewOpcodeChunk returns a bare-opcode chunk.
func NewOpcodeChunk(op byte) Chunk {
	return Chunk{Opcode: op}
}

// NewPushChunk returns a chunk that pushes buf onto the stack. The opcode
// byte is chosen to match buf's length per the direct-push/PUSHDATA*
// convention.
func NewPushChunk(buf []byte) Chunk {
	return Chunk{Opcode: pushOpcodeFor(len(buf)), Buffer: buf}
}

// NewPlaceholderPush returns a push chunk with no buffer yet, the shape the
// builder emits and the signer fills in.
func NewPlaceholderPush() Chunk {
	return Chunk{Opcode: OpPushData1, Buffer: nil}
}

func pushOpcodeFor(n int) byte {
	switch {
	case n <= maxDirectPush:
		return byte(n)
	case n <= 0xff:
		return OpPushData1
	case n <= 0xffff:
		return OpPushData2
	default:
		return OpPushData4
	}
}

func isPushOpcode(op byte) bool {
	return op <= maxDirectPush || op == OpPushData1 || op == OpPushData2 || op == OpPushData4
}

// Script is an ordered sequence of chunks.
type Script struct {
	Chunks []Chunk
}

// FromEmpty returns a script with no chunks.
func FromEmpty() Script {
	return Script{}
}

// FromPkhOutput builds the canonical PKH output template:
// DUP · BLAKE3 · PUSH32(pkh) · EQUALVERIFY · CHECKSIG.
func FromPkhOutput(pkh [32]byte) Script {
	return Script{Chunks: []Chunk{
		NewOpcodeChunk(OpDup),
		NewOpcodeChunk(OpBlake3),
		NewPushChunk(append([]byte(nil), pkh[:]...)),
		NewOpcodeChunk(OpEqualVerify),
		NewOpcodeChunk(OpCheckSig),
	}}
}

// FromPkhInputPlaceholder builds the placeholder PKH input template the
// builder emits: two push chunks with no buffer, awaiting the signer.
func FromPkhInputPlaceholder() Script {
	return Script{Chunks: []Chunk{
		NewPlaceholderPush(),
		NewPlaceholderPush(),
	}}
}

// FromPkhInput builds a populated PKH input script: PUSH(sig) · PUSH(pubkey).
func FromPkhInput(sig, pubKey []byte) Script {
	return Script{Chunks: []Chunk{
		NewPushChunk(sig),
		NewPushChunk(pubKey),
	}}
}

// IsPkhOutput reports whether s matches the PKH output template shape:
// DUP BLAKE3 PUSH32 EQUALVERIFY CHECKSIG, with a 32-byte pkh buffer.
func (s Script) IsPkhOutput() bool {
	if len(s.Chunks) != 5 {
		return false
	}
	c := s.Chunks
	return c[0].Opcode == OpDup &&
		c[1].Opcode == OpBlake3 &&
		isPushOpcode(c[2].Opcode) && len(c[2].Buffer) == 32 &&
		c[3].Opcode == OpEqualVerify &&
		c[4].Opcode == OpCheckSig
}

// IsPkhInput reports whether s matches the PKH input template shape: two
// push chunks, populated or placeholder.
func (s Script) IsPkhInput() bool {
	if len(s.Chunks) != 2 {
		return false
	}
	return isPushOpcode(s.Chunks[0].Opcode) && isPushOpcode(s.Chunks[1].Opcode)
}

// ToIsoBuf serialises the script to its canonical, self-delimiting byte
// form: each chunk is its opcode byte, followed for push chunks by the
// buffer bytes. PUSHDATA1/2/4 chunks carry a 1/2/4-byte little-endian length
// prefix before the buffer; direct pushes have none, as the opcode is the
// length.
func (s Script) ToIsoBuf() []byte {
	var buf []byte
	for _, c := range s.Chunks {
		buf = append(buf, c.Opcode)
		if !isPushOpcode(c.Opcode) {
			continue
		}
		switch c.Opcode {
		case OpPushData1:
			buf = append(buf, byte(len(c.Buffer)))
		case OpPushData2:
			var lenBuf [2]byte
			binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(c.Buffer)))
			buf = append(buf, lenBuf[:]...)
		case OpPushData4:
			var lenBuf [4]byte
			binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(c.Buffer)))
			buf = append(buf, lenBuf[:]...)
		}
		buf = append(buf, c.Buffer...)
	}
	return buf
}

// FromIsoBuf parses the canonical byte form produced by ToIsoBuf.
func FromIsoBuf(b []byte) (Script, error) {
	var s Script
	i := 0
	for i < len(b) {
		op := b[i]
		i++
		chunk := Chunk{Opcode: op}
		if isPushOpcode(op) {
			n, consumed, err := pushLength(op, b[i:])
			if err != nil {
				return Script{}, err
			}
			i += consumed
			if i+n > len(b) {
				return Script{}, fmt.Errorf("ebxscript: from iso buf: %w", ebxerr.ErrNotEnoughData)
			}
			chunk.Buffer = append([]byte(nil), b[i:i+n]...)
			i += n
		}
		s.Chunks = append(s.Chunks, chunk)
	}
	return s, nil
}

func pushLength(op byte, rest []byte) (n, consumed int, err error) {
	switch {
	case op <= maxDirectPush:
		return int(op), 0, nil
	case op == OpPushData1:
		if len(rest) < 1 {
			return 0, 0, fmt.Errorf("ebxscript: push data1 length: %w", ebxerr.ErrNotEnoughData)
		}
		return int(rest[0]), 1, nil
	case op == OpPushData2:
		if len(rest) < 2 {
			return 0, 0, fmt.Errorf("ebxscript: push data2 length: %w", ebxerr.ErrNotEnoughData)
		}
		return int(binary.LittleEndian.Uint16(rest[:2])), 2, nil
	case op == OpPushData4:
		if len(rest) < 4 {
			return 0, 0, fmt.Errorf("ebxscript: push data4 length: %w", ebxerr.ErrNotEnoughData)
		}
		return int(binary.LittleEndian.Uint32(rest[:4])), 4, nil
	default:
		return 0, 0, fmt.Errorf("ebxscript: unknown push opcode %#x", op)
	}
}
