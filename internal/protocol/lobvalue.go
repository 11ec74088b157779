// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"errors"
	"io"
)

// Lob is the collaborator-facing view of a LOB column or output-parameter
// value: the inline first chunk a RESULTSET/OUTPUT_PARAMETERS part already
// carries, with further bytes streamed on demand from the originating
// session as Read needs them (Seek never fetches). A *lobOutDescr with no
// session attached answers only from what is already buffered; reads that
// would need another round trip fail with ErrLobSessionClosed. Closing the
// session does not detach it: a later Read that needs another round trip
// returns that round trip's error.
type Lob interface {
	io.Reader
	io.Seeker
	// Tell returns the current read position, equivalent to Seek(0, io.SeekCurrent).
	Tell() int64
	// Len returns the LOB's total length in bytes (NumChar for its
	// character count, for CLOB/NCLOB) as reported by the server.
	Len() int64
	NumChar() int64
}

var _ Lob = (*lobOutDescr)(nil)

// ErrLobSessionClosed is returned by Read when more data is needed but no
// session is attached to the LOB.
var ErrLobSessionClosed = errors.New("lob: session closed")

func (d *lobOutDescr) Len() int64     { return d.numByte }
func (d *lobOutDescr) NumChar() int64 { return d.numChar }
func (d *lobOutDescr) Tell() int64    { return d.readPos }

// Read fetches additional chunks from the server via decodeLobs as needed
// to satisfy len(p), buffering at most one extra READ_LOB round trip
// sequence per call.
func (d *lobOutDescr) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	needed := d.readPos + int64(len(p))
	if needed > int64(len(d.b)) && !d.isLastData() {
		if d.session == nil {
			return 0, ErrLobSessionClosed
		}
		d.want = needed
		err := d.session.decodeLobs(d)
		d.want = 0
		if err != nil {
			return 0, err
		}
	}
	if d.readPos >= int64(len(d.b)) {
		return 0, io.EOF
	}
	end := needed
	if end > int64(len(d.b)) {
		end = int64(len(d.b))
	}
	n := copy(p, d.b[d.readPos:end])
	d.readPos += int64(n)
	return n, nil
}

// Seek repositions the read cursor. Seeking past the bytes already
// buffered is allowed without fetching - the next Read fetches what it
// needs - but the target position must stay within the LOB's reported
// total length.
func (d *lobOutDescr) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = d.readPos + offset
	case io.SeekEnd:
		pos = d.totalLen() + offset
	default:
		return d.readPos, errors.New("lob: invalid whence")
	}
	if pos < 0 || pos > d.totalLen() {
		return d.readPos, errors.New("lob: seek out of range")
	}
	d.readPos = pos
	return pos, nil
}

// totalLen bounds Seek in terms of buffered-byte positions - the same unit
// Read advances d.readPos in - using numByte (the wire byte count) even
// for character-based LOBs, since the CESU-8-decoded buffer never exceeds
// it.
func (d *lobOutDescr) totalLen() int64 { return d.numByte }
