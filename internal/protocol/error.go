// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"fmt"
	"strings"

	"github.com/hdbnet/scnp/internal/protocol/encoding"
)

const sqlStateSize = 5

type sqlState [sqlStateSize]byte

func (s sqlState) String() string { return string(s[:]) }

// ErrorLevel classifies the severity of a server-reported error record.
type ErrorLevel int8

// Error levels as reported in an hdbError record.
const (
	HdbWarning    ErrorLevel = 0
	HdbError      ErrorLevel = 1
	HdbFatalError ErrorLevel = 2
)

func (l ErrorLevel) String() string {
	switch l {
	case HdbWarning:
		return "warning"
	case HdbError:
		return "error"
	case HdbFatalError:
		return "fatal error"
	default:
		return "unknown"
	}
}

// hdbError is a single record of an ERROR part: one record per failed
// statement in a batch, correlated back to its statement index via
// setStmtNo once the matching ROWS_AFFECTED part has been read.
type hdbError struct {
	errorCode int32
	errorPos  int32
	level     ErrorLevel
	sqlState  sqlState
	text      []byte
	stmtNo    int
}

func (e *hdbError) String() string {
	return fmt.Sprintf("errorCode %d errorPosition %d level %s sqlState %s text %s",
		e.errorCode, e.errorPos, e.level, e.sqlState, e.text)
}

// Error implements the error interface.
func (e *hdbError) Error() string {
	return fmt.Sprintf("SQL %s %d - %s", e.level, e.errorCode, e.text)
}

// Code returns the server-reported error number.
func (e *hdbError) Code() int { return int(e.errorCode) }

// Position returns the character position within the submitted SQL text
// the server attributes the error to, or -1 if not applicable.
func (e *hdbError) Position() int { return int(e.errorPos) }

// Level returns the error's severity.
func (e *hdbError) Level() ErrorLevel { return e.level }

// Text returns the server-reported error message.
func (e *hdbError) Text() string { return string(e.text) }

// SQLState returns the five-character SQLSTATE code of the record.
func (e *hdbError) SQLState() string { return e.sqlState.String() }

// StmtNo returns the index, within a batch, of the statement this error
// was produced for.
func (e *hdbError) StmtNo() int { return e.stmtNo }

func (e *hdbError) IsWarning() bool { return e.level == HdbWarning }
func (e *hdbError) IsError() bool   { return e.level == HdbError }
func (e *hdbError) IsFatal() bool   { return e.level == HdbFatalError }

// DBError is the collaborator-facing view of one server-reported error or
// warning record, implemented by hdbError.
type DBError interface {
	error
	Code() int
	Position() int
	Level() ErrorLevel
	SQLState() string
	Text() string
	StmtNo() int
	IsWarning() bool
}

var _ DBError = (*hdbError)(nil)

func (e *hdbError) decode(dec *encoding.Decoder) error {
	e.errorCode = dec.Int32()
	e.errorPos = dec.Int32()
	textLength := dec.Int32()
	e.level = ErrorLevel(dec.Int8())
	dec.Bytes(e.sqlState[:])

	// error text is read as raw bytes, not CESU-8: some server errors
	// report invalid CESU-8 sequences inside the text itself.
	e.text = make([]byte, int(textLength))
	dec.Bytes(e.text)
	dec.Skip(1) // part buffer length is one greater than the real text length

	return dec.Error()
}

// hdbErrors is the ERROR part payload: every error/warning record the
// server attached to the current reply segment.
type hdbErrors struct {
	errors []*hdbError
}


func (e *hdbErrors) setNumArg(numArg int) {
	e.errors = make([]*hdbError, numArg)
}

func (e *hdbErrors) decode(dec *encoding.Decoder, ph *partHeader) error {
	e.errors = make([]*hdbError, ph.numArg())
	for i := range e.errors {
		he := &hdbError{}
		if err := he.decode(dec); err != nil {
			return err
		}
		e.errors[i] = he
	}
	return dec.Error()
}

// setStmtNo tags the j-th error record with the statement index i it
// belongs to, correlating a batch's ROWS_AFFECTED entries back to errors.
func (e *hdbErrors) setStmtNo(j, i int) {
	if j < len(e.errors) {
		e.errors[j].stmtNo = i
	}
}

// isWarnings reports whether every record in the part is a warning rather
// than an error - a warnings-only ERROR part does not fail the request.
func (e *hdbErrors) isWarnings() bool {
	for _, he := range e.errors {
		if !he.IsWarning() {
			return false
		}
	}
	return len(e.errors) > 0
}

func (e *hdbErrors) Error() string {
	msgs := make([]string, len(e.errors))
	for i, he := range e.errors {
		msgs[i] = he.Error()
	}
	return strings.Join(msgs, "; ")
}

// DatabaseErrors is the collaborator-facing view of an ERROR part: the
// dynamic type returned as the error value of Session.Exec/Query/Commit/
// Rollback whenever the server reported at least one SQL-level error
// record; a part holding only warnings is traced and not returned. The
// concrete type (*hdbErrors) is unexported; callers recover it with a type
// assertion against this interface.
type DatabaseErrors interface {
	error
	Records() []DBError
}

var _ DatabaseErrors = (*hdbErrors)(nil)

// Records returns every error/warning record of the part, in the order
// the server sent them.
func (e *hdbErrors) Records() []DBError {
	records := make([]DBError, len(e.errors))
	for i, he := range e.errors {
		records[i] = he
	}
	return records
}
