// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package scnp

import (
	"bytes"
	"fmt"
	"math/big"
	"time"

	"github.com/hdbnet/scnp/internal/protocol"
	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

// Kind identifies which alternative of a Value is populated.
type Kind int

// Value kinds, one per tagged variant.
const (
	KindNull Kind = iota
	KindBool
	KindI64
	KindF64
	KindDecimal
	KindStr
	KindBytes
	KindDate
	KindTime
	KindTimestamp
	KindLob
)

var kindText = [...]string{
	"Null", "Bool", "I64", "F64", "Decimal", "Str", "Bytes", "Date", "Time", "Timestamp", "Lob",
}

func (k Kind) String() string {
	if int(k) < len(kindText) {
		return kindText[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Value is the tagged parameter/column value the collaborator API exchanges
// with the engine in place of raw driver.Value, so a caller scanning a
// result or binding a parameter never needs to know the underlying wire
// type code - only which of the eleven kinds it is.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	dec  string
	s    string
	by   []byte
	t    time.Time
	lob  protocol.Lob
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// I64 returns a 64-bit integer value (tinyint/smallint/integer/bigint all
// widen to this kind).
func I64(v int64) Value { return Value{kind: KindI64, i: v} }

// F64 returns a floating point value (real/double both widen to this kind).
func F64(v float64) Value { return Value{kind: KindF64, f: v} }

// Decimal returns a decimal value from its canonical base-10 textual
// representation (e.g. "123.456").
func Decimal(s string) Value { return Value{kind: KindDecimal, dec: s} }

// Str returns a character value.
func Str(v string) Value { return Value{kind: KindStr, s: v} }

// Bytes returns a binary value.
func Bytes(v []byte) Value { return Value{kind: KindBytes, by: v} }

// Date returns a date-only value.
func Date(v time.Time) Value { return Value{kind: KindDate, t: v} }

// Time returns a time-of-day value.
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Timestamp returns a date+time value.
func Timestamp(v time.Time) Value { return Value{kind: KindTimestamp, t: v} }

// NewLob wraps a streaming LOB value read back from a result column or
// output parameter.
func NewLob(l protocol.Lob) Value { return Value{kind: KindLob, lob: l} }

// Kind returns which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; valid only if Kind() == KindBool.
func (v Value) Bool() bool { return v.b }

// I64 returns the integer payload; valid only if Kind() == KindI64.
func (v Value) I64() int64 { return v.i }

// F64 returns the float payload; valid only if Kind() == KindF64.
func (v Value) F64() float64 { return v.f }

// Decimal returns the decimal payload as base-10 text; valid only if
// Kind() == KindDecimal.
func (v Value) Decimal() string { return v.dec }

// Str returns the string payload; valid only if Kind() == KindStr.
func (v Value) Str() string { return v.s }

// Bytes returns the binary payload; valid only if Kind() == KindBytes.
func (v Value) Bytes() []byte { return v.by }

// Time returns the time payload; valid for KindDate, KindTime and
// KindTimestamp.
func (v Value) Time() time.Time { return v.t }

// Lob returns the streaming LOB payload; valid only if Kind() == KindLob.
func (v Value) Lob() protocol.Lob { return v.lob }

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindI64:
		return fmt.Sprintf("%d", v.i)
	case KindF64:
		return fmt.Sprintf("%g", v.f)
	case KindDecimal:
		return v.dec
	case KindStr:
		return v.s
	case KindBytes:
		return fmt.Sprintf("% x", v.by)
	case KindDate, KindTime, KindTimestamp:
		return v.t.String()
	case KindLob:
		return fmt.Sprintf("lob(%d bytes)", v.lob.Len())
	default:
		return "?"
	}
}

// toDriverValue converts v into the driver.Value representation the engine's
// field codec (fieldtype.go's Converter implementations) accepts for the
// parameter's wire type.
func (v Value) toDriverValue() (interface{}, error) {
	switch v.kind {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindI64:
		return v.i, nil
	case KindF64:
		return v.f, nil
	case KindDecimal:
		return decimalStringToBytes(v.dec)
	case KindStr:
		return v.s, nil
	case KindBytes:
		return v.by, nil
	case KindDate, KindTime, KindTimestamp:
		return v.t, nil
	case KindLob:
		return v.lob, nil
	default:
		return nil, fmt.Errorf("scnp: unhandled value kind %s", v.kind)
	}
}

// fromDriverValue converts a value already decoded by the engine's field
// codec (fieldtype.go's decode/decodeRes) into a tagged Value, using the
// source field's reported scan type to pick the right kind.
func fromDriverValue(f protocol.Field, dv interface{}) (Value, error) {
	if dv == nil {
		return Null(), nil
	}
	if l, ok := dv.(protocol.Lob); ok {
		return NewLob(l), nil
	}
	switch f.ScanType() {
	case protocol.DtTinyint, protocol.DtSmallint, protocol.DtInteger, protocol.DtBigint:
		return I64(toInt64(dv)), nil
	case protocol.DtReal, protocol.DtDouble:
		return F64(toFloat64(dv)), nil
	case protocol.DtDecimal:
		b, ok := dv.([]byte)
		if !ok {
			return Value{}, fmt.Errorf("scnp: unexpected decimal representation %T", dv)
		}
		s, err := decimalBytesToString(b)
		if err != nil {
			return Value{}, err
		}
		return Decimal(s), nil
	case protocol.DtString:
		switch s := dv.(type) {
		case string:
			return Str(s), nil
		case []byte:
			return Str(string(s)), nil
		}
	case protocol.DtBytes:
		b, ok := dv.([]byte)
		if !ok {
			return Value{}, fmt.Errorf("scnp: unexpected bytes representation %T", dv)
		}
		return Bytes(b), nil
	case protocol.DtTime:
		t, ok := dv.(time.Time)
		if !ok {
			return Value{}, fmt.Errorf("scnp: unexpected time representation %T", dv)
		}
		return Timestamp(t), nil
	}
	return Value{}, fmt.Errorf("scnp: unsupported column type %s for value %T", f.TypeName(), dv)
}

func toInt64(v interface{}) int64 {
	switch v := v.(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint8:
		return int64(v)
	default:
		return 0
	}
}

func toFloat64(v interface{}) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		return 0
	}
}

// decimalBytesToString renders a decimal128-encoded parameter/result field
// (fieldtype.go's decimalFieldSize-byte wire layout) as base-10 text,
// reusing the packed-decimal codec the field layer itself decodes other
// decimal128 values with.
func decimalBytesToString(b []byte) (string, error) {
	dec := encoding.NewDecoder(bytes.NewReader(b))
	m, exp, err := dec.Decimal()
	if err != nil {
		return "", err
	}
	return formatDecimal(m, exp), nil
}

func formatDecimal(m *big.Int, exp int) string {
	if exp >= 0 {
		return new(big.Int).Mul(m, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)).String()
	}
	s := new(big.Int).Abs(m).String()
	neg := m.Sign() < 0
	point := len(s) + exp
	var out string
	switch {
	case point <= 0:
		out = "0." + zeros(-point) + s
	default:
		out = s[:point] + "." + s[point:]
	}
	if neg {
		out = "-" + out
	}
	return out
}

func zeros(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}

// decimalStringToBytes parses base-10 text into the decimal128 wire layout
// a decimal parameter field expects (fieldtype.go's _decimalType.encodePrm).
func decimalStringToBytes(s string) ([]byte, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("scnp: invalid decimal literal %q", s)
	}
	exp := 0
	num := new(big.Int).Set(r.Num())
	den := new(big.Int).Set(r.Denom())
	ten := big.NewInt(10)
	one := big.NewInt(1)
	for den.Cmp(one) != 0 {
		// num/den == (num*(10/g)) / ((den/g)*10) with g = gcd(den, 10)
		g := new(big.Int).GCD(nil, nil, den, ten)
		if g.Cmp(one) == 0 {
			return nil, fmt.Errorf("scnp: decimal literal %q is not exactly representable", s)
		}
		num.Mul(num, new(big.Int).Quo(ten, g))
		den.Quo(den, g)
		exp--
	}
	var buf bytes.Buffer
	enc := encoding.NewEncoder(&buf)
	enc.Decimal(num, exp)
	if err := enc.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
