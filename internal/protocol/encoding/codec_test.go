// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package encoding

import (
	"bytes"
	"math/big"
	"testing"
)

func TestRoundTripScalars(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)

	enc.Bool(true)
	enc.Int8(-12)
	enc.Int16(-1234)
	enc.Uint16(1234)
	enc.Int32(-123456)
	enc.Uint32(123456)
	enc.Int64(-1234567890123)
	enc.Uint64(1234567890123)
	enc.Float32(3.5)
	enc.Float64(-2.25)
	enc.String("plain")

	if err := enc.Error(); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := NewDecoder(&buf)
	if got := dec.Bool(); got != true {
		t.Fatalf("Bool: got %v", got)
	}
	if got := dec.Int8(); got != -12 {
		t.Fatalf("Int8: got %v", got)
	}
	if got := dec.Int16(); got != -1234 {
		t.Fatalf("Int16: got %v", got)
	}
	if got := dec.Uint16(); got != 1234 {
		t.Fatalf("Uint16: got %v", got)
	}
	if got := dec.Int32(); got != -123456 {
		t.Fatalf("Int32: got %v", got)
	}
	if got := dec.Uint32(); got != 123456 {
		t.Fatalf("Uint32: got %v", got)
	}
	if got := dec.Int64(); got != -1234567890123 {
		t.Fatalf("Int64: got %v", got)
	}
	if got := dec.Uint64(); got != 1234567890123 {
		t.Fatalf("Uint64: got %v", got)
	}
	if got := dec.Float32(); got != 3.5 {
		t.Fatalf("Float32: got %v", got)
	}
	if got := dec.Float64(); got != -2.25 {
		t.Fatalf("Float64: got %v", got)
	}
	if err := dec.Error(); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRoundTripDecimal(t *testing.T) {
	tests := []struct {
		m   int64
		exp int
	}{
		{0, 0},
		{1, 0},
		{-1, 0},
		{123456789, -3},
		{-987654321, 5},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)
		enc.Decimal(big.NewInt(tc.m), tc.exp)
		if err := enc.Error(); err != nil {
			t.Fatalf("encode %v: %v", tc, err)
		}
		dec := NewDecoder(&buf)
		m, exp, err := dec.Decimal()
		if err != nil {
			t.Fatalf("decode %v: %v", tc, err)
		}
		if m.Cmp(big.NewInt(tc.m)) != 0 || exp != tc.exp {
			t.Fatalf("decimal round trip: got (%v,%d) want (%v,%d)", m, exp, tc.m, tc.exp)
		}
	}
}

func TestRoundTripFixed(t *testing.T) {
	tests := []int64{0, 1, -1, 255, -255, 1 << 20, -(1 << 20)}
	for _, v := range tests {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)
		enc.Fixed(big.NewInt(v), 8)
		dec := NewDecoder(&buf)
		m := dec.Fixed(8)
		if m.Cmp(big.NewInt(v)) != 0 {
			t.Fatalf("fixed round trip for %d: got %v", v, m)
		}
	}
}

func TestCESU8RoundTrip(t *testing.T) {
	s := "hello \U0001F600 world"
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	n := enc.CESU8String(s)
	if n != buf.Len() {
		t.Fatalf("CESU8String: reported %d bytes, buffer has %d", n, buf.Len())
	}
	dec := NewDecoder(&buf)
	got, err := dec.CESU8Bytes(n)
	if err != nil {
		t.Fatalf("CESU8Bytes: %v", err)
	}
	if string(got) != s {
		t.Fatalf("CESU8 round trip: got %q want %q", got, s)
	}
}
