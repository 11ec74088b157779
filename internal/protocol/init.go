// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

// version is a major.minor pair as exchanged in the initialization handshake,
// for both the product (HANA server build) and the wire protocol itself.
type version struct {
	major int8
	minor int16
}

func (v version) String() string { return fmt.Sprintf("%d.%d", v.major, v.minor) }

//go:generate stringer -type=endianess

type endianess int8

const (
	littleEndian endianess = 0
	bigEndian    endianess = 1
)

var endianessText = map[endianess]string{
	littleEndian: "littleEndian",
	bigEndian:    "bigEndian",
}

func (e endianess) String() string {
	if s, ok := endianessText[e]; ok {
		return s
	}
	return fmt.Sprintf("endianess(%d)", e)
}

// connOptionID identifies the single option carried in the initialization
// request; endianess is the only one the protocol defines.
type connOptionID int8

const coEndianess connOptionID = 1

// initRequest is the very first packet sent on a new connection, before any
// message framing exists: it offers the product/protocol version the client
// speaks and the byte order its encoder/decoder use.
type initRequest struct {
	product    version
	protocol   version
	numOptions int8
	endianess  endianess
}

func (r *initRequest) String() string {
	return fmt.Sprintf("product version %s protocol version %s endianess %s", r.product, r.protocol, r.endianess)
}

func (r *initRequest) encode(enc *encoding.Encoder) error {
	enc.Byte(0xff)
	enc.Byte(0xff)
	enc.Byte(0xff)
	enc.Byte(0xff)

	enc.Int8(r.product.major)
	enc.Int16(r.product.minor)
	enc.Int8(r.protocol.major)
	enc.Int16(r.protocol.minor)
	enc.Zeroes(3)

	enc.Int8(1) // numOptions
	enc.Int8(int8(coEndianess))
	enc.Int8(int8(r.endianess))
	return nil
}

func (r *initRequest) decode(dec *encoding.Decoder) error {
	dec.Skip(4) // filler

	r.product.major = dec.Int8()
	r.product.minor = dec.Int16()
	r.protocol.major = dec.Int8()
	r.protocol.minor = dec.Int16()
	dec.Skip(3)

	r.numOptions = dec.Int8()
	if r.numOptions != 1 {
		return fmt.Errorf("protocol error: invalid number of options %d", r.numOptions)
	}
	if id := connOptionID(dec.Int8()); id != coEndianess {
		return fmt.Errorf("protocol error: endianess option expected, got %d", id)
	}
	r.endianess = endianess(dec.Int8())
	return dec.Error()
}

// initReply is the server's answer to initRequest: the product/protocol
// version it settled on. No options are returned.
type initReply struct {
	product  version
	protocol version
}

func (r *initReply) String() string {
	return fmt.Sprintf("product version %s protocol version %s", r.product, r.protocol)
}

func (r *initReply) encode(enc *encoding.Encoder) error {
	enc.Int8(r.product.major)
	enc.Int16(r.product.minor)
	enc.Int8(r.protocol.major)
	enc.Int16(r.protocol.minor)
	enc.Zeroes(5)
	return nil
}

func (r *initReply) decode(dec *encoding.Decoder) error {
	r.product.major = dec.Int8()
	r.product.minor = dec.Int16()
	r.protocol.major = dec.Int8()
	r.protocol.minor = dec.Int16()
	dec.Skip(5)
	return dec.Error()
}
