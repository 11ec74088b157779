// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

// optBooleanType, optIntType, optBigintType, optDoubleType, optStringType and
// optBstringType are the Go types an option value in a plainOptions /
// multiLineOptions list can take on the wire. Each is tagged with a type
// byte ahead of its value, using the same type codes as the field codec.
type optBooleanType bool
type optIntType int32
type optBigintType int64
type optDoubleType float64
type optStringType string
type optBstringType []byte

func (v optBooleanType) String() string { return fmt.Sprintf("%t", bool(v)) }
func (v optIntType) String() string     { return fmt.Sprintf("%d", int32(v)) }
func (v optBigintType) String() string  { return fmt.Sprintf("%d", int64(v)) }
func (v optDoubleType) String() string  { return fmt.Sprintf("%g", float64(v)) }
func (v optStringType) String() string  { return string(v) }
func (v optBstringType) String() string { return fmt.Sprintf("% x", []byte(v)) }

// plainOptions is a decoded option list: a count-prefixed sequence of
// (id int8, typecode int8, value) triples, collapsed into a map keyed by id.
type plainOptions map[int8]interface{}

func (o plainOptions) size() int {
	size := 2 // int16 entry count written by encode; optValueSize adds each entry's id + typecode bytes
	for _, v := range o {
		size += optValueSize(v)
	}
	return size
}

func optValueSize(v interface{}) int {
	switch v := v.(type) {
	case optBooleanType:
		return 2 + 1
	case optIntType:
		return 2 + 4
	case optBigintType:
		return 2 + 8
	case optDoubleType:
		return 2 + 8
	case optStringType:
		return 2 + 2 + len(v) // length indicator assumed short
	case optBstringType:
		return 2 + 2 + len(v)
	default:
		return 0
	}
}

func (o plainOptions) encode(enc *encoding.Encoder) error {
	enc.Int16(int16(len(o)))
	for k, v := range o {
		enc.Int8(k)
		if err := encodeOptValue(enc, v); err != nil {
			return err
		}
	}
	return enc.Error()
}

func encodeOptValue(enc *encoding.Encoder, v interface{}) error {
	switch v := v.(type) {
	case optBooleanType:
		enc.Int8(int8(tcBoolean))
		enc.Bool(bool(v))
	case optIntType:
		enc.Int8(int8(tcInteger))
		enc.Int32(int32(v))
	case optBigintType:
		enc.Int8(int8(tcBigint))
		enc.Int64(int64(v))
	case optDoubleType:
		enc.Int8(int8(tcDouble))
		enc.Float64(float64(v))
	case optStringType:
		enc.Int8(int8(tcString))
		b := []byte(v)
		enc.Int16(int16(len(b)))
		enc.Bytes(b)
	case optBstringType:
		enc.Int8(int8(tcBstring))
		enc.Int16(int16(len(v)))
		enc.Bytes(v)
	default:
		return fmt.Errorf("invalid option value type %T", v)
	}
	return nil
}

func decodeOptValue(dec *encoding.Decoder) (interface{}, error) {
	tc := typeCode(dec.Int8())
	switch tc {
	case tcBoolean:
		return optBooleanType(dec.Bool()), nil
	case tcTinyint:
		return optIntType(dec.Byte()), nil
	case tcSmallint:
		return optIntType(dec.Int16()), nil
	case tcInteger:
		return optIntType(dec.Int32()), nil
	case tcBigint:
		return optBigintType(dec.Int64()), nil
	case tcDouble:
		return optDoubleType(dec.Float64()), nil
	case tcBstring:
		size := dec.Int16()
		b := make([]byte, size)
		dec.Bytes(b)
		return optBstringType(b), nil
	case tcString:
		size := dec.Int16()
		b, err := dec.CESU8Bytes(int(size))
		if err != nil {
			return nil, err
		}
		return optStringType(string(b)), nil
	default:
		return nil, fmt.Errorf("invalid option value typecode %d", tc)
	}
}

func (o plainOptions) decode(dec *encoding.Decoder, numArg int) error {
	for i := 0; i < numArg; i++ {
		k := dec.Int8()
		v, err := decodeOptValue(dec)
		if err != nil {
			return err
		}
		o[k] = v
	}
	return dec.Error()
}

// multiLineOptions is a sequence of independent plainOptions records, each
// prefixed with its own argument count - used by parts such as
// TOPOLOGY_INFORMATION that report one record per database host.
type multiLineOptions []plainOptions

func (o *multiLineOptions) decode(dec *encoding.Decoder, numArg int) error {
	lines := make(multiLineOptions, 0, numArg)
	for i := 0; i < numArg; i++ {
		n := int(dec.Int16())
		line := plainOptions{}
		if err := line.decode(dec, n); err != nil {
			return err
		}
		lines = append(lines, line)
	}
	*o = lines
	return dec.Error()
}
