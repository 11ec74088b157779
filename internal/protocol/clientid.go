// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

// clientID is the CLIENT_ID part sent as part of the CONNECT message,
// identifying the connecting process to the server.
type clientID []byte

func newClientID() clientID {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return clientID(fmt.Sprintf("%d@%s (%s)", os.Getpid(), host, runtime.GOOS))
}

func (id clientID) String() string { return string(id) }

func (id *clientID) resize(size int) {
	if id == nil || size > cap(*id) {
		*id = make([]byte, size)
	} else {
		*id = (*id)[:size]
	}
}

func (id clientID) size() int { return len(id) }

func (id *clientID) decode(dec *encoding.Decoder, ph *partHeader) error {
	id.resize(int(ph.bufferLength))
	dec.Bytes(*id)
	return dec.Error()
}

func (id clientID) encode(enc *encoding.Encoder) error { enc.Bytes(id); return nil }
