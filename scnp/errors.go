// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package scnp

import (
	"errors"
	"fmt"

	"github.com/hdbnet/scnp/internal/protocol"
)

// TransportError wraps a network-layer failure (dial, read, write, TLS
// handshake). IsTimeout reports what the underlying cause's Timeout()
// method (as on net.Error) returned.
type TransportError struct {
	Cause     error
	IsTimeout bool
}

func (e *TransportError) Error() string { return fmt.Sprintf("scnp: transport error: %v", e.Cause) }
func (e *TransportError) Unwrap() error { return e.Cause }

// ProtocolError reports a framing or codec invariant violation - a reply
// that could not be decoded into the shape a request demands.
type ProtocolError struct {
	Where string
	Cause error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("scnp: protocol error in %s: %v", e.Where, e.Cause)
}
func (e *ProtocolError) Unwrap() error { return e.Cause }

// AuthError reports a failed SCRAM handshake, carrying whatever message the
// server attached to the rejection.
type AuthError struct {
	ServerMessage string
}

func (e *AuthError) Error() string { return fmt.Sprintf("scnp: authentication failed: %s", e.ServerMessage) }

// DatabaseError wraps the structured ERROR-part records a request's reply
// carried; Records() recovers them without naming the engine's unexported
// concrete error type.
type DatabaseError struct {
	records protocol.DatabaseErrors
}

func (e *DatabaseError) Error() string                { return e.records.Error() }
func (e *DatabaseError) Unwrap() error                { return e.records }
func (e *DatabaseError) Records() []protocol.DBError { return e.records.Records() }

// UsageError reports a misuse of the API by the caller (wrong argument
// count, a parameter value that cannot be converted, SQL text that cannot
// be classified, and so on) rather than a server- or transport-reported
// failure.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return fmt.Sprintf("scnp: %s", e.Reason) }

// ErrClosed is returned by the Session, ResultSet and PreparedStatement
// methods that execute statements or fetch rows once the object is closed;
// a repeated Close returns nil.
var ErrClosed = &ClosedError{}

// ClosedError reports that the Session, ResultSet or PreparedStatement the
// call targeted is already closed.
type ClosedError struct{}

func (e *ClosedError) Error() string { return "scnp: use of closed object" }

// classifyErr maps an error surfaced by the internal/protocol layer to one
// of the collaborator-facing error kinds. A DatabaseErrors value always wins
// the classification even if it arrives wrapped by a lower layer.
func classifyErr(where string, err error) error {
	if err == nil {
		return nil
	}
	var dbErrs protocol.DatabaseErrors
	if errors.As(err, &dbErrs) {
		return &DatabaseError{records: dbErrs}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return &TransportError{Cause: err, IsTimeout: netErr.Timeout()}
	}
	return &ProtocolError{Where: where, Cause: err}
}
