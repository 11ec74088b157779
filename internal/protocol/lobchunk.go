// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"io"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
	"github.com/hdbnet/scnp/internal/unicode/cesu8"
)

// lobTypecode narrows a result field's typeCode to the three LOB kinds a
// lobOutDescr can describe on the wire.
type lobTypecode int8

const (
	ltcBlob  lobTypecode = 25
	ltcClob  lobTypecode = 26
	ltcNclob lobTypecode = 27
)

func (o lobOptions) isNull() bool { return (o & loNullindicator) != 0 }
func (o lobOptions) isLast() bool { return (o & loLastdata) != 0 }

// lobInDescr is the input-parameter descriptor sent in place of LOB content
// for WRITE_LOB_REQUEST-driven uploads: size/pos stay zero on the initial
// PARAMETERS part, the actual bytes follow in the WRITE_LOB_REQUEST parts
// Session.encodeLobs sends.
type lobInDescr struct {
	opt  lobOptions
	size int32
	pos  int32
}

// lobOutDescr is the result-field descriptor a RESULTSET/OUTPUT_PARAMETERS
// part carries for a LOB column: an inline first chunk plus enough state
// (locator id, total length) to drive further READ_LOB_REQUEST round trips.
type lobOutDescr struct {
	isCharBased bool
	ltc         lobTypecode
	opt         lobOptions
	numChar     int64
	numByte     int64
	locID       locatorID
	b           []byte
	session     *Session

	readPos int64 // Read/Seek cursor into b
	want    int64 // target length of b for the in-flight decodeLobs call; 0 means "drain to server eof"
}

func (d *lobOutDescr) isLastData() bool { return d.opt.isLast() }

// sessionSetter is implemented by driver.Value results that need a session
// backreference after decode - a LOB descriptor only carries its first
// chunk inline and streams the rest through further READ_LOB_REQUEST round
// trips issued against the originating session.
type sessionSetter interface {
	setSession(s *Session)
}

var (
	_ sessionSetter = (*lobOutDescr)(nil)
	_ chunkWriter   = (*lobOutDescr)(nil)
)

func (d *lobOutDescr) setSession(s *Session) { d.session = s }

// id implements chunkWriter so a lobOutDescr read straight off a RESULTSET
// or OUTPUT_PARAMETERS part can keep streaming via Session.decodeLobs.
func (d *lobOutDescr) id() locatorID { return d.locID }

// eof reports whether decodeLobs should stop requesting further chunks:
// either the server has flagged its last chunk, or (for a bounded Read)
// enough bytes have already been buffered to satisfy the caller.
func (d *lobOutDescr) eof() bool {
	if d.isLastData() {
		return true
	}
	return d.want > 0 && int64(len(d.b)) >= d.want
}

func (d *lobOutDescr) readOfsLen() (int64, int32) {
	return int64(len(d.b)), defaultLobChunkSize
}

func (d *lobOutDescr) write(dec *encoding.Decoder, size int, eof bool) error {
	chunk := make([]byte, size)
	if d.isCharBased {
		b, err := dec.CESU8Bytes(size)
		if err != nil {
			return err
		}
		chunk = b
	} else {
		dec.Bytes(chunk)
	}
	d.b = append(d.b, chunk...)
	d.opt = d.opt &^ loLastdata
	if eof {
		d.opt |= loLastdata
	}
	return dec.Error()
}

// chunkReader feeds WRITE_LOB_REQUEST parts: it yields the next chunk of
// an outbound LOB upload until eof() reports the stream exhausted.
type chunkReader interface {
	locatorID() locatorID
	next() int
	eof() bool
	bytes() ([]byte, error)
}

// chunkWriter is the sink READ_LOB_REPLY parts stream into: a LOB value
// being downloaded in chunks keyed by locator id. eof reports whether the
// most recently written chunk was flagged as the LOB's last data, which is
// what Session.decodeLobs loops on to know when to stop issuing further
// READ_LOB_REQUESTs.
type chunkWriter interface {
	id() locatorID
	eof() bool
	readOfsLen() (int64, int32)
	write(dec *encoding.Decoder, size int, eof bool) error
}

const defaultLobChunkSize = 1 << 14

// readerChunkReader adapts an io.Reader supplying LOB content for upload
// into the chunkReader interface the message engine streams from.
type readerChunkReader struct {
	id        locatorID
	rd        io.Reader
	chunkSize int
	buf       []byte
	n         int
	atEOF     bool
}

// newChunkReader adapts an io.Reader of already wire-encoded LOB content
// into a chunkReader for WRITE_LOB_REQUEST upload. isCharBased is accepted
// for symmetry with the decode side's char/binary split; the caller's
// io.Reader is expected to already yield correctly encoded bytes (CESU-8
// for NCLOB, raw for BLOB/CLOB), so both cases share one adapter.
func newChunkReader(isCharBased bool, id locatorID, chunkSize int, rd io.Reader) chunkReader {
	return newReaderChunkReader(id, rd, chunkSize)
}

func newReaderChunkReader(id locatorID, rd io.Reader, chunkSize int) *readerChunkReader {
	if chunkSize <= 0 {
		chunkSize = defaultLobChunkSize
	}
	return &readerChunkReader{id: id, rd: rd, chunkSize: chunkSize, buf: make([]byte, chunkSize)}
}

func (r *readerChunkReader) locatorID() locatorID { return r.id }
func (r *readerChunkReader) eof() bool             { return r.atEOF }

func (r *readerChunkReader) next() int {
	if r.atEOF {
		return 0
	}
	n, err := io.ReadFull(r.rd, r.buf)
	r.n = n
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.atEOF = true
	}
	return n
}

func (r *readerChunkReader) bytes() ([]byte, error) {
	return r.buf[:r.n], nil
}

// lobWriter accumulates READ_LOB_REPLY chunks for a single locator id into
// the caller-visible LOB value (either raw bytes or CESU-8 decoded text).
type lobWriter interface {
	chunkWriter
	Bytes() []byte
}

var (
	_ lobWriter = (*binaryLobWriter)(nil)
	_ lobWriter = (*charLobWriter)(nil)
)

type binaryLobWriter struct {
	locID   locatorID
	numChar int64
	numByte int64
	data    []byte
	readOfs int64
	readLen int32
	last    bool
}

func newBinaryLobWriter(locID locatorID, numChar, numByte int64) *binaryLobWriter {
	return &binaryLobWriter{locID: locID, numChar: numChar, numByte: numByte, readLen: defaultLobChunkSize}
}

func (w *binaryLobWriter) id() locatorID              { return w.locID }
func (w *binaryLobWriter) eof() bool                  { return w.last }
func (w *binaryLobWriter) readOfsLen() (int64, int32) { return w.readOfs, w.readLen }
func (w *binaryLobWriter) Bytes() []byte              { return w.data }

func (w *binaryLobWriter) write(dec *encoding.Decoder, size int, eof bool) error {
	chunk := make([]byte, size)
	dec.Bytes(chunk)
	w.data = append(w.data, chunk...)
	w.readOfs += int64(size)
	w.last = eof
	return dec.Error()
}

type charLobWriter struct {
	locID   locatorID
	numChar int64
	numByte int64
	data    []byte
	readOfs int64
	readLen int32
	last    bool
}

func newCharLobWriter(locID locatorID, numChar, numByte int64) *charLobWriter {
	return &charLobWriter{locID: locID, numChar: numChar, numByte: numByte, readLen: defaultLobChunkSize}
}

func (w *charLobWriter) id() locatorID              { return w.locID }
func (w *charLobWriter) eof() bool                  { return w.last }
func (w *charLobWriter) readOfsLen() (int64, int32) { return w.readOfs, w.readLen }
func (w *charLobWriter) Bytes() []byte              { return w.data }

func (w *charLobWriter) write(dec *encoding.Decoder, size int, eof bool) error {
	chunk, err := dec.CESU8Bytes(size)
	if err != nil {
		return err
	}
	w.data = append(w.data, chunk...)
	w.readOfs += int64(cesu8.Size(chunk))
	w.last = eof
	return nil
}
