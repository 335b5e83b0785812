package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
)

// borshWriter serializes the small subset of the borsh format the NEAR
// transaction schema needs: little-endian integers, u32-length-prefixed
// strings and byte vectors, fixed-size arrays.
type borshWriter struct {
	buf bytes.Buffer
}

func (w *borshWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *borshWriter) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *borshWriter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// u128 writes a non-negative big integer as 16 little-endian bytes.
func (w *borshWriter) u128(v *big.Int) error {
	if v.Sign() < 0 || v.BitLen() > 128 {
		return fmt.Errorf("value %s does not fit in u128", v)
	}
	var b [16]byte
	v.FillBytes(b[:]) // big-endian
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	w.buf.Write(b[:])
	return nil
}

func (w *borshWriter) str(s string) {
	w.u32(uint32(len(s)))
	w.buf.WriteString(s)
}

func (w *borshWriter) vec(b []byte) {
	w.u32(uint32(len(b)))
	w.buf.Write(b)
}

func (w *borshWriter) fixed(b []byte) {
	w.buf.Write(b)
}

func (w *borshWriter) bytes() []byte {
	return w.buf.Bytes()
}
