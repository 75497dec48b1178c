package ebxtx

import (
	"encoding/binary"
	"fmt"

	"github.com/dan/ebx-txlib/ebxerr"
)

// Compact length-prefix thresholds, matching the varlen(x) codec: a single
// byte below 0xFD, else a marker byte followed by a fixed-width length.
const (
	varintPrefix16 = 0xFD
	varintPrefix32 = 0xFE
	varintPrefix64 = 0xFF
)

// putVarlen appends the compact length prefix for n followed by data.
func putVarlen(buf []byte, data []byte) []byte {
	n := uint64(len(data))
	buf = putVarint(buf, n)
	return append(buf, data...)
}

func putVarint(buf []byte, n uint64) []byte {
	switch {
	case n < varintPrefix16:
		return append(buf, byte(n))
	case n <= 0xFFFF:
		buf = append(buf, varintPrefix16)
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(n))
		return append(buf, tmp[:]...)
	case n <= 0xFFFFFFFF:
		buf = append(buf, varintPrefix32)
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(n))
		return append(buf, tmp[:]...)
	default:
		buf = append(buf, varintPrefix64)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], n)
		return append(buf, tmp[:]...)
	}
}

// readVarint reads a compact length prefix from buf, returning the decoded
// value and the number of bytes consumed.
func readVarint(buf []byte) (n uint64, consumed int, err error) {
	if len(buf) < 1 {
		return 0, 0, fmt.Errorf("ebxtx: read varint: %w", ebxerr.ErrNotEnoughData)
	}
	switch buf[0] {
	case varintPrefix16:
		if len(buf) < 3 {
			return 0, 0, fmt.Errorf("ebxtx: read varint16: %w", ebxerr.ErrNotEnoughData)
		}
		return uint64(binary.LittleEndian.Uint16(buf[1:3])), 3, nil
	case varintPrefix32:
		if len(buf) < 5 {
			return 0, 0, fmt.Errorf("ebxtx: read varint32: %w", ebxerr.ErrNotEnoughData)
		}
		return uint64(binary.LittleEndian.Uint32(buf[1:5])), 5, nil
	case varintPrefix64:
		if len(buf) < 9 {
			return 0, 0, fmt.Errorf("ebxtx: read varint64: %w", ebxerr.ErrNotEnoughData)
		}
		return binary.LittleEndian.Uint64(buf[1:9]), 9, nil
	default:
		return uint64(buf[0]), 1, nil
	}
}

// readVarlen reads a compact length-prefixed byte string.
func readVarlen(buf []byte) (data []byte, consumed int, err error) {
	n, hdr, err := readVarint(buf)
	if err != nil {
		return nil, 0, err
	}
	rest := buf[hdr:]
	if uint64(len(rest)) < n {
		return nil, 0, fmt.Errorf("ebxtx: read varlen body: %w", ebxerr.ErrNotEnoughData)
	}
	return append([]byte(nil), rest[:n]...), hdr + int(n), nil
}
