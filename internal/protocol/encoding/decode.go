// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/big"

	"golang.org/x/text/transform"

	"github.com/hdbnet/scnp/internal/unicode"
)

const readScratchSize = 4096

// Decoder decodes SCNP wire datatypes from an io.Reader.
type Decoder struct {
	rd io.Reader
	// err is a fatal read error; conversion errors (e.g. a malformed
	// decimal) are returned by the reading method itself and never set here.
	err error
	b   []byte // scratch buffer (skip, CESU8Bytes - keep it generous)
	tr  transform.Transformer
	cnt int
	dfv int
}

// NewDecoder creates a new Decoder instance based on an io.Reader.
func NewDecoder(rd io.Reader) *Decoder {
	return &Decoder{
		rd: rd,
		b:  make([]byte, readScratchSize),
		tr: unicode.Cesu8ToUtf8Transformer,
	}
}

// SetDfv records the negotiated data format version, which a handful of
// field types (ALPHANUM in particular) need to pick their wire layout.
func (d *Decoder) SetDfv(dfv int) { d.dfv = dfv }

// Dfv returns the data format version set via SetDfv.
func (d *Decoder) Dfv() int { return d.dfv }

// ResetCnt resets the byte-read counter used to detect trailing unread
// part payload bytes.
func (d *Decoder) ResetCnt() { d.cnt = 0 }

// Cnt returns the current value of the byte-read counter.
func (d *Decoder) Cnt() int { return d.cnt }

// Error returns the reader's sticky error, if any.
func (d *Decoder) Error() error { return d.err }

// ResetError returns and clears the reader's sticky error.
func (d *Decoder) ResetError() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Decoder) readFull(buf []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	n, err := io.ReadFull(d.rd, buf)
	d.cnt += n
	if err != nil {
		d.err = err
	}
	return n, d.err
}

// Skip discards cnt bytes from the reader, used for part padding and
// unrecognized parts.
func (d *Decoder) Skip(cnt int) {
	var n int
	for n < cnt {
		to := cnt - n
		if to > readScratchSize {
			to = readScratchSize
		}
		m, err := d.readFull(d.b[:to])
		n += m
		if err != nil {
			return
		}
	}
}

// Byte reads and returns a byte.
func (d *Decoder) Byte() byte {
	if _, err := d.readFull(d.b[:1]); err != nil {
		return 0
	}
	return d.b[0]
}

// Bytes reads len(p) bytes into p.
func (d *Decoder) Bytes(p []byte) { d.readFull(p) }

// Bool reads and returns a boolean.
func (d *Decoder) Bool() bool { return d.Byte() != 0 }

// Int8 reads and returns an int8.
func (d *Decoder) Int8() int8 { return int8(d.Byte()) }

// Int16 reads and returns a little-endian int16.
func (d *Decoder) Int16() int16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(d.b[:2]))
}

// Uint16 reads and returns a little-endian uint16.
func (d *Decoder) Uint16() uint16 {
	if _, err := d.readFull(d.b[:2]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(d.b[:2])
}

// Int32 reads and returns a little-endian int32.
func (d *Decoder) Int32() int32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(d.b[:4]))
}

// Uint32 reads and returns a little-endian uint32.
func (d *Decoder) Uint32() uint32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(d.b[:4])
}

// Int64 reads and returns a little-endian int64.
func (d *Decoder) Int64() int64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(d.b[:8]))
}

// Uint64 reads and returns a little-endian uint64.
func (d *Decoder) Uint64() uint64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(d.b[:8])
}

// Float32 reads and returns an IEEE-754 float32.
func (d *Decoder) Float32() float32 {
	if _, err := d.readFull(d.b[:4]); err != nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(d.b[:4]))
}

// Float64 reads and returns an IEEE-754 float64.
func (d *Decoder) Float64() float64 {
	if _, err := d.readFull(d.b[:8]); err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(d.b[:8]))
}

// Decimal reads a 16-byte packed decimal and returns its mantissa and
// base-10 exponent. A nil mantissa with a nil error signals a NULL value.
func (d *Decoder) Decimal() (*big.Int, int, error) {
	bs := d.b[:decSize]
	if _, err := d.readFull(bs); err != nil {
		return nil, 0, nil
	}

	if (bs[15] & 0x70) == 0x70 { // NULL indicator bits
		return nil, 0, nil
	}
	if (bs[15] & 0x60) == 0x60 {
		return nil, 0, fmt.Errorf("decimal: unsupported format (infinity, nan, ...): %v", bs)
	}

	neg := (bs[15] & 0x80) != 0
	exp := int((((uint16(bs[15])<<8)|uint16(bs[14]))<<1)>>2) - dec128Bias

	bs[14] &= 0x01 // keep mantissa bit only, drop sign+exp

	msb := 14
	for msb > 0 && bs[msb] == 0 {
		msb--
	}
	numWords := (msb / _S) + 1
	ws := make([]big.Word, numWords)
	for i, b := range bs[:msb+1] {
		ws[i/_S] |= big.Word(b) << uint(i%_S*8)
	}
	m := new(big.Int).SetBits(ws)
	if neg {
		m.Neg(m)
	}
	return m, exp, nil
}

// Fixed reads a size-byte two's-complement little-endian fixed-point mantissa.
func (d *Decoder) Fixed(size int) *big.Int {
	bs := make([]byte, size)
	if _, err := d.readFull(bs); err != nil {
		return nil
	}

	neg := (bs[size-1] & 0x80) != 0

	msb := size - 1
	for msb > 0 && bs[msb] == 0 {
		msb--
	}
	numWords := (msb / _S) + 1
	ws := make([]big.Word, numWords)
	for i, b := range bs[:msb+1] {
		if neg {
			b = ^b
		}
		ws[i/_S] |= big.Word(b) << uint(i%_S*8)
	}
	m := new(big.Int).SetBits(ws)
	if neg {
		m.Add(m, natOne)
		m.Neg(m)
	}
	return m
}

// CESU8Bytes reads size CESU-8 encoded bytes and returns their UTF-8 translation.
func (d *Decoder) CESU8Bytes(size int) ([]byte, error) {
	if d.err != nil {
		return nil, nil
	}
	var p []byte
	if size > readScratchSize {
		p = make([]byte, size)
	} else {
		p = d.b[:size]
	}
	if _, err := d.readFull(p); err != nil {
		return nil, nil
	}
	r, _, err := transform.Bytes(d.tr, p)
	return r, err
}
