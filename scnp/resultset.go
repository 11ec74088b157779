// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package scnp

import (
	"database/sql/driver"
	"io"

	"github.com/hdbnet/scnp/internal/protocol"
)

// Row is one fetched record, column values in result-set order.
type Row []Value

// ResultSet streams rows back from a query a fetch batch (SessionConfig's
// FetchSize) at a time, hiding the underlying FETCH_NEXT round trips behind
// FetchOne/FetchMany/FetchAll.
type ResultSet struct {
	rows    driver.Rows
	columns []string
	closed  bool
}

func newResultSet(rows driver.Rows) *ResultSet {
	return &ResultSet{rows: rows, columns: rows.Columns()}
}

// Columns returns the result set's column names, in select-list order.
func (r *ResultSet) Columns() []string { return r.columns }

func (r *ResultSet) nextRow() (Row, error) {
	dest := make([]driver.Value, len(r.columns))
	if err := r.rows.Next(dest); err != nil {
		return nil, err
	}
	fr, hasFields := r.rows.(protocol.FieldRows)

	row := make(Row, len(dest))
	for i, dv := range dest {
		var v Value
		var err error
		if hasFields {
			v, err = fromDriverValue(fr.Field(i), dv)
		} else {
			v, err = genericValue(dv)
		}
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// genericValue is the fallback conversion used when the underlying
// driver.Rows does not expose per-column Field descriptors (e.g. the
// no-result sentinel never reaches here, but a future driver.Rows
// implementation might not export field()).
func genericValue(dv interface{}) (Value, error) {
	if dv == nil {
		return Null(), nil
	}
	switch v := dv.(type) {
	case int64:
		return I64(v), nil
	case float64:
		return F64(v), nil
	case string:
		return Str(v), nil
	case []byte:
		return Bytes(v), nil
	default:
		return Value{}, &ProtocolError{Where: "resultset", Cause: io.ErrUnexpectedEOF}
	}
}

// FetchOne returns the next row, or (nil, io.EOF) once exhausted.
func (r *ResultSet) FetchOne() (Row, error) {
	if r.closed {
		return nil, ErrClosed
	}
	row, err := r.nextRow()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, classifyErr("fetch", err)
	}
	return row, nil
}

// FetchMany returns up to n rows, fewer if the result set is exhausted
// first; it never returns io.EOF itself, signalling exhaustion by
// returning fewer than n rows (possibly zero).
func (r *ResultSet) FetchMany(n int) ([]Row, error) {
	if r.closed {
		return nil, ErrClosed
	}
	rows := make([]Row, 0, n)
	for i := 0; i < n; i++ {
		row, err := r.nextRow()
		if err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return rows, classifyErr("fetch", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FetchAll drains the remaining rows.
func (r *ResultSet) FetchAll() ([]Row, error) {
	if r.closed {
		return nil, ErrClosed
	}
	var rows []Row
	for {
		row, err := r.nextRow()
		if err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return rows, classifyErr("fetch", err)
		}
		rows = append(rows, row)
	}
}

// Close releases the server-side resultset handle. Safe to call more than
// once.
func (r *ResultSet) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return classifyErr("close resultset", r.rows.Close())
}
