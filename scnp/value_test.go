// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package scnp

import "testing"

type testValueStringer struct {
	v Value
	s string
}

var testValueStringerData = []*testValueStringer{
	{Null(), "NULL"},
	{Bool(true), "true"},
	{I64(42), "42"},
	{Str("hi"), "hi"},
	{Decimal("123.456"), "123.456"},
}

func TestValueStringer(t *testing.T) {
	for i, d := range testValueStringerData {
		if s := d.v.String(); s != d.s {
			t.Fatalf("%d value %v - expected %s got %s", i, d.v, d.s, s)
		}
	}
}

func TestValueKind(t *testing.T) {
	if k := I64(1).Kind(); k != KindI64 {
		t.Fatalf("expected KindI64, got %s", k)
	}
	if k := Null().Kind(); k != KindNull {
		t.Fatalf("expected KindNull, got %s", k)
	}
}

type testDecimalRoundtrip struct {
	s string
}

var testDecimalRoundtripData = []*testDecimalRoundtrip{
	{"0"},
	{"1"},
	{"-1"},
	{"123.456"},
	{"-0.001"},
	{"1000000"},
}

func TestDecimalRoundtrip(t *testing.T) {
	for i, d := range testDecimalRoundtripData {
		b, err := decimalStringToBytes(d.s)
		if err != nil {
			t.Fatalf("%d decimal %s - encode error %s", i, d.s, err)
		}
		s, err := decimalBytesToString(b)
		if err != nil {
			t.Fatalf("%d decimal %s - decode error %s", i, d.s, err)
		}
		if s != d.s {
			t.Fatalf("%d decimal %s - roundtrip mismatch got %s", i, d.s, s)
		}
	}
}

func TestDecimalInvalid(t *testing.T) {
	if _, err := decimalStringToBytes("not a number"); err == nil {
		t.Fatalf("expected error for invalid decimal literal")
	}
}

func TestToDriverValueNull(t *testing.T) {
	dv, err := Null().toDriverValue()
	if err != nil {
		t.Fatalf("unexpected error %s", err)
	}
	if dv != nil {
		t.Fatalf("expected nil driver value, got %v", dv)
	}
}
