// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"sort"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

// fieldNames interns the field/table/schema names a metadata part reports
// as a trailing, offset-addressed name pool shared by every field record
// in the part: each field stores the byte offset of its name instead of
// the name itself, and the pool is decoded once after all field records.
type fieldNames struct {
	offsets map[uint32]string
}

func (n *fieldNames) insert(offset uint32) {
	if n.offsets == nil {
		n.offsets = make(map[uint32]string)
	}
	if offset != 0xFFFFFFFF {
		n.offsets[offset] = ""
	}
}

func (n *fieldNames) setName(offset uint32, name string) {
	n.offsets[offset] = name
}

func (n *fieldNames) name(offset uint32) string {
	if offset == 0xFFFFFFFF {
		return ""
	}
	return n.offsets[offset]
}

func (n *fieldNames) sortOffsets() []uint32 {
	offsets := make([]uint32, 0, len(n.offsets))
	for offset := range n.offsets {
		offsets = append(offsets, offset)
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}

// decode reads the name pool: one byte length plus that many CESU-8 bytes
// per interned offset, packed back to back starting at offset zero.
func (n *fieldNames) decode(dec *encoding.Decoder) error {
	pos := uint32(0)
	for _, offset := range n.sortOffsets() {
		if diff := int(offset - pos); diff > 0 {
			dec.Skip(diff)
		}
		size := dec.Byte()
		b, err := dec.CESU8Bytes(int(size))
		if err != nil {
			return err
		}
		n.setName(offset, string(b))
		pos = offset + 1 + uint32(size)
	}
	return dec.Error()
}
