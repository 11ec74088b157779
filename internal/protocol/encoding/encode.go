// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package encoding implements the low-level typed Reader/Writer pair the
// SCNP engine layers its packet/segment/part framing and field codec on.
package encoding

import (
	"encoding/binary"
	"math"
	"math/big"

	"golang.org/x/text/transform"

	"github.com/hdbnet/scnp/internal/unicode"
)

const writeScratchSize = 4096

// Encoder encodes SCNP wire datatypes onto an io.Writer.
type Encoder struct {
	wr  ioWriter
	err error
	b   []byte // scratch buffer (min 8 bytes)
	tr  transform.Transformer
}

type ioWriter interface {
	Write(p []byte) (int, error)
}

// NewEncoder creates a new Encoder instance.
func NewEncoder(wr ioWriter) *Encoder {
	return &Encoder{
		wr: wr,
		b:  make([]byte, writeScratchSize),
		tr: unicode.Utf8ToCesu8Transformer,
	}
}

// Error returns the writer's sticky error, if any.
func (e *Encoder) Error() error { return e.err }

// Zeroes writes cnt zero byte values, used for part padding.
func (e *Encoder) Zeroes(cnt int) {
	if e.err != nil {
		return
	}

	l := cnt
	if l > len(e.b) {
		l = len(e.b)
	}
	for i := 0; i < l; i++ {
		e.b[i] = 0
	}

	for i := 0; i < cnt; {
		j := cnt - i
		if j > len(e.b) {
			j = len(e.b)
		}
		n, err := e.wr.Write(e.b[:j])
		if err != nil {
			e.err = err
			return
		}
		i += n
	}
}

// Bytes writes a bytes slice.
func (e *Encoder) Bytes(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.wr.Write(p); err != nil {
		e.err = err
	}
}

// Byte writes a byte.
func (e *Encoder) Byte(b byte) { // WriteB as sig differs from WriteByte (vet issues)
	if e.err != nil {
		return
	}
	e.b[0] = b
	e.Bytes(e.b[:1])
}

// Bool writes a boolean.
func (e *Encoder) Bool(v bool) {
	if v {
		e.Byte(1)
	} else {
		e.Byte(0)
	}
}

// Int8 writes an int8.
func (e *Encoder) Int8(i int8) {
	e.Byte(byte(i))
}

// Int16 writes an int16.
func (e *Encoder) Int16(i int16) {
	if e.err != nil {
		return
	}
	binary.LittleEndian.PutUint16(e.b[:2], uint16(i))
	e.Bytes(e.b[:2])
}

// Uint16 writes an uint16.
func (e *Encoder) Uint16(i uint16) {
	if e.err != nil {
		return
	}
	binary.LittleEndian.PutUint16(e.b[:2], i)
	e.Bytes(e.b[:2])
}

// Int32 writes an int32.
func (e *Encoder) Int32(i int32) {
	if e.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(e.b[:4], uint32(i))
	e.Bytes(e.b[:4])
}

// Uint32 writes an uint32.
func (e *Encoder) Uint32(i uint32) {
	if e.err != nil {
		return
	}
	binary.LittleEndian.PutUint32(e.b[:4], i)
	e.Bytes(e.b[:4])
}

// Int64 writes an int64.
func (e *Encoder) Int64(i int64) {
	if e.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(e.b[:8], uint64(i))
	e.Bytes(e.b[:8])
}

// Uint64 writes an uint64.
func (e *Encoder) Uint64(i uint64) {
	if e.err != nil {
		return
	}
	binary.LittleEndian.PutUint64(e.b[:8], i)
	e.Bytes(e.b[:8])
}

// Float32 writes a float32.
func (e *Encoder) Float32(f float32) {
	if e.err != nil {
		return
	}
	bits := math.Float32bits(f)
	binary.LittleEndian.PutUint32(e.b[:4], bits)
	e.Bytes(e.b[:4])
}

// Float64 writes a float64.
func (e *Encoder) Float64(f float64) {
	if e.err != nil {
		return
	}
	bits := math.Float64bits(f)
	binary.LittleEndian.PutUint64(e.b[:8], bits)
	e.Bytes(e.b[:8])
}

// String writes a string.
func (e *Encoder) String(s string) {
	e.Bytes([]byte(s))
}

// CESU8Bytes writes an UTF-8 byte slice as CESU-8 and returns the CESU-8 bytes written.
func (e *Encoder) CESU8Bytes(p []byte) int {
	if e.err != nil {
		return 0
	}
	e.tr.Reset()
	cnt := 0
	i := 0
	for i < len(p) {
		m, n, err := e.tr.Transform(e.b, p[i:], true)
		if err != nil && err != transform.ErrShortDst {
			e.err = err
			return cnt
		}
		if m == 0 {
			e.err = transform.ErrShortDst
			return cnt
		}
		o, err := e.wr.Write(e.b[:m])
		if err != nil {
			e.err = err
			return cnt
		}
		cnt += o
		i += n
	}
	return cnt
}

// CESU8String is like CESU8Bytes with an UTF-8 string as parameter.
func (e *Encoder) CESU8String(s string) int {
	return e.CESU8Bytes([]byte(s))
}

// Decimal writes m/exp as a 16-byte packed decimal (decimal128 layout).
func (e *Encoder) Decimal(m *big.Int, exp int) {
	if e.err != nil {
		return
	}
	bs := make([]byte, decSize)
	neg := m.Sign() < 0
	abs := new(big.Int).Abs(m)
	for i, w := range abs.Bits() {
		for j := 0; j < _S && i*_S+j < 14; j++ {
			bs[i*_S+j] = byte(w >> uint(j*8))
		}
	}
	biasedExp := uint16(exp + dec128Bias) // 14 bits: bits 1..7 of bs[14], bits 0..6 of bs[15]
	bs[14] |= byte(biasedExp) << 1
	bs[15] = byte(biasedExp >> 7)
	if neg {
		bs[15] |= 0x80
	}
	e.Bytes(bs)
}

// Fixed writes m as a size-byte two's-complement little-endian integer.
func (e *Encoder) Fixed(m *big.Int, size int) {
	if e.err != nil {
		return
	}
	bs := make([]byte, size)
	neg := m.Sign() < 0
	abs := new(big.Int).Abs(m)
	if neg {
		abs = abs.Sub(abs, natOne)
	}
	for i, w := range abs.Bits() {
		for j := 0; j < _S && i*_S+j < size; j++ {
			bs[i*_S+j] = byte(w >> uint(j*8))
		}
	}
	if neg {
		for i := range bs {
			bs[i] = ^bs[i]
		}
	}
	e.Bytes(bs)
}
