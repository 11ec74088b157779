// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"database/sql/driver"
	"fmt"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

type parameterOptions int8

const (
	poMandatory parameterOptions = 0x01
	poOptional  parameterOptions = 0x02
	poDefault   parameterOptions = 0x04
)

var parameterOptionsText = map[parameterOptions]string{
	poMandatory: "mandatory",
	poOptional:  "optional",
	poDefault:   "default",
}

func (k parameterOptions) String() string {
	t := make([]string, 0, len(parameterOptionsText))
	for option, text := range parameterOptionsText {
		if (k & option) != 0 {
			t = append(t, text)
		}
	}
	return fmt.Sprintf("%v", t)
}

type parameterMode int8

const (
	pmIn    parameterMode = 0x01
	pmInout parameterMode = 0x02
	pmOut   parameterMode = 0x04
)

var parameterModeText = map[parameterMode]string{
	pmIn:    "in",
	pmInout: "inout",
	pmOut:   "out",
}

func (k parameterMode) String() string {
	t := make([]string, 0, len(parameterModeText))
	for mode, text := range parameterModeText {
		if (k & mode) != 0 {
			t = append(t, text)
		}
	}
	return fmt.Sprintf("%v", t)
}

// parameterField describes one entry of a PARAMETER_METADATA part. name is
// only set for synthetic fields (e.g. the table-output fields a procedure
// call result appends, which have no PARAMETER_METADATA name-pool entry);
// every other field is named by offset into the shared names pool.
type parameterField struct {
	names            *fieldNames
	name             string
	parameterOptions parameterOptions
	tc               typeCode
	mode             parameterMode
	fraction         int16
	length           int16
	offset           uint32
}

func newParameterField(names *fieldNames) *parameterField {
	return &parameterField{names: names}
}

func (f *parameterField) String() string {
	return fmt.Sprintf("parameterOptions %s typeCode %s mode %s fraction %d length %d name %s",
		f.parameterOptions, f.tc, f.mode, f.fraction, f.length, f.Name())
}

func (f *parameterField) TypeCode() typeCode { return f.tc }

func (f *parameterField) Converter() Converter { return f.tc.fieldType() }

// TypeName returns the type name of the field.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypeDatabaseTypeName
func (f *parameterField) TypeName() string { return f.tc.typeName() }

// ScanType returns the scan type of the field.
// see https://golang.org/pkg/database/sql/driver/#RowsColumnTypeScanType
func (f *parameterField) ScanType() DataType { return f.tc.dataType() }

func (f *parameterField) TypeLength() (int64, bool) {
	if f.tc.isVariableLength() {
		return int64(f.length), true
	}
	return 0, false
}

func (f *parameterField) TypePrecisionScale() (int64, int64, bool) {
	if f.tc.isDecimalType() {
		return int64(f.length), int64(f.fraction), true
	}
	return 0, 0, false
}

func (f *parameterField) Nullable() bool { return f.parameterOptions == poOptional }
func (f *parameterField) In() bool       { return f.mode == pmInout || f.mode == pmIn }
func (f *parameterField) Out() bool      { return f.mode == pmInout || f.mode == pmOut }
func (f *parameterField) Name() string {
	if f.names == nil {
		return f.name
	}
	return f.names.name(f.offset)
}

func (f *parameterField) decode(dec *encoding.Decoder) {
	f.parameterOptions = parameterOptions(dec.Int8())
	f.tc = typeCode(dec.Int8())
	f.mode = parameterMode(dec.Int8())
	dec.Skip(1) // filler
	f.offset = dec.Uint32()
	f.names.insert(f.offset)
	f.length = dec.Int16()
	f.fraction = dec.Int16()
	dec.Skip(4) // filler
}

// parameterMetadata is the PARAMETER_METADATA part payload: the field
// descriptors of every IN/INOUT/OUT parameter of a prepared statement.
type parameterMetadata struct {
	fields []*parameterField
	names  *fieldNames
}

func (m *parameterMetadata) String() string { return fmt.Sprintf("parameter metadata: %v", m.fields) }

func (m *parameterMetadata) decode(dec *encoding.Decoder, ph *partHeader) error {
	numArg := ph.numArg()
	m.names = &fieldNames{}
	m.fields = make([]*parameterField, numArg)

	for i := 0; i < numArg; i++ {
		field := newParameterField(m.names)
		field.decode(dec)
		m.fields[i] = field
	}

	return m.names.decode(dec)
}

// inputParameters is the PARAMETERS part payload written for an EXECUTE
// message: one value per IN/INOUT field, repeated numArg times for a
// batch execution (mass insert). Its kind/prm marker methods live in
// part.go alongside the rest of the part-kind table.
type inputParameters struct {
	fields []*parameterField // IN fields only, in statement order
	args   []driver.NamedValue
}

func newInputParameters(fields []*parameterField, args []driver.NamedValue) *inputParameters {
	in := make([]*parameterField, 0, len(fields))
	for _, f := range fields {
		if f.In() {
			in = append(in, f)
		}
	}
	return &inputParameters{fields: in, args: args}
}

func (m *inputParameters) size() (int, error) {
	cnt := len(m.fields)
	if cnt == 0 {
		return 0, nil
	}
	size := 0
	for i, arg := range m.args {
		field := m.fields[i%cnt]
		size += prmSize(field.tc, arg) + 1 // +1 for the type-code byte written by encodePrm
	}
	return size, nil
}

func (m *inputParameters) numArg() int {
	cnt := len(m.fields)
	if cnt == 0 { // avoid divide-by-zero (e.g. prepare without parameters)
		return 0
	}
	return len(m.args) / cnt
}

func (m *inputParameters) encode(enc *encoding.Encoder) error {
	cnt := len(m.fields)
	for i, arg := range m.args {
		field := m.fields[i%cnt]
		if err := encodePrm(enc, field.tc, arg); err != nil {
			return err
		}
	}
	return enc.Error()
}

// decode reads a PARAMETERS part back (sniffer use): fields must already
// be populated by the caller from the matching PARAMETER_METADATA part.
func (m *inputParameters) decode(dec *encoding.Decoder, ph *partHeader) error {
	cnt := len(m.fields)
	if cnt == 0 {
		return nil
	}
	numArg := ph.numArg() * cnt // the part's argument count is the number of rows
	m.args = make([]driver.NamedValue, numArg)
	for i := 0; i < numArg; i++ {
		_, v, err := decodePrm(dec) // each value carries its type code first (see encodePrm)
		if err != nil {
			return err
		}
		m.args[i] = driver.NamedValue{Ordinal: i + 1, Value: v}
	}
	return dec.Error()
}

// outputParameters is the OUTPUT_PARAMETERS part payload: the OUT/INOUT
// values a stored procedure call returns, using the same field layout
// as the PARAMETER_METADATA part that described the call. outputFields is
// set by the caller (from the matching PrepareResult) before decode runs.
type outputParameters struct {
	outputFields []*parameterField
	fieldValues  []driver.Value
}

func (r *outputParameters) String() string {
	return fmt.Sprintf("output parameters: %v", r.fieldValues)
}

func (r *outputParameters) decode(dec *encoding.Decoder, ph *partHeader) error {
	r.fieldValues = newFieldValues(len(r.outputFields))
	for i, field := range r.outputFields {
		v, err := decodeRes(dec, field.tc)
		if err != nil {
			return err
		}
		r.fieldValues[i] = v
	}
	return dec.Error()
}
