// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package scnp

import (
	"database/sql/driver"
	"sync"

	"github.com/hdbnet/scnp/internal/protocol"
)

// Session is a single authenticated connection to the database. All
// methods are safe to call from multiple goroutines; the underlying engine
// session serializes request/reply pairs internally, but Session itself
// additionally tracks close state.
type Session struct {
	mu         sync.Mutex
	s          *protocol.Session
	autocommit bool
	closed     bool
}

// Result is the outcome of Execute/ExecutePrepared: either a streamable
// ResultSet (a SELECT or a table-valued CALL) or a row count (DML/DDL).
type Result struct {
	rs   *ResultSet
	rows int64
}

// ResultSet returns the result set and true if this Result carries one.
func (r *Result) ResultSet() (*ResultSet, bool) { return r.rs, r.rs != nil }

// RowsAffected returns the number of rows affected by a DML statement, or 0
// for a result that carries a ResultSet or a DDL statement.
func (r *Result) RowsAffected() int64 { return r.rows }

// PreparedStatement is a server-side compiled statement handle, reusable
// across multiple Execute calls with different parameter values.
type PreparedStatement struct {
	session *Session
	pr      *protocol.PrepareResult
	closed  bool
}

// NumParams returns the number of parameter placeholders the statement
// declares (all positions for a CALL, the IN list otherwise).
func (p *PreparedStatement) NumParams() int { return p.pr.NumField() }

// Close releases the server-side statement handle. Safe to call more than
// once.
func (p *PreparedStatement) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return classifyErr("drop statement", p.session.s.DropStatementID(p.pr.StmtID()))
}

func (s *Session) checkOpen() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Prepare compiles sql on the server and returns a reusable handle.
func (s *Session) Prepare(sql string) (*PreparedStatement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	pr, err := s.s.Prepare(sql)
	if err != nil {
		return nil, classifyErr("prepare", err)
	}
	return &PreparedStatement{session: s, pr: pr}, nil
}

// Execute runs sql directly (params == nil) or, if params is non-empty,
// prepares it first and runs it once with the given parameter values.
func (s *Session) Execute(sql string, params ...Value) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return s.executeDirect(sql)
	}

	ps, err := s.s.Prepare(sql)
	if err != nil {
		return nil, classifyErr("prepare", err)
	}
	return s.executePrepared(ps, [][]Value{params})
}

func (s *Session) executeDirect(sql string) (*Result, error) {
	qd, err := protocol.NewQueryDescr(sql)
	if err != nil {
		return nil, &UsageError{Reason: err.Error()}
	}

	switch qd.Kind() {
	case protocol.QkSelect, protocol.QkCall, protocol.QkID:
		rows, err := s.s.QueryDirect(sql)
		if err != nil {
			return nil, classifyErr("query", err)
		}
		return resultOf(rows), nil
	default:
		res, err := s.s.ExecDirect(sql)
		if err != nil {
			return nil, classifyErr("exec", err)
		}
		n, _ := res.RowsAffected()
		return &Result{rows: n}, nil
	}
}

// ExecutePrepared runs a prepared statement once per row of params,
// supplying one Value per declared parameter position (NumParams()) each
// time - a bulk batch rather than a single-row call.
func (s *Session) ExecutePrepared(ps *PreparedStatement, rows [][]Value) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if ps.closed {
		return nil, ErrClosed
	}
	return s.executePrepared(ps, rows)
}

func (s *Session) executePrepared(ps *PreparedStatement, rows [][]Value) (*Result, error) {
	pr := ps.pr
	n := pr.NumField()
	args := make([]driver.NamedValue, 0, n*len(rows))
	for _, row := range rows {
		if len(row) != n {
			return nil, &UsageError{Reason: "parameter count does not match prepared statement"}
		}
		for i, v := range row {
			dv, err := v.toDriverValue()
			if err != nil {
				return nil, &UsageError{Reason: err.Error()}
			}
			args = append(args, driver.NamedValue{Ordinal: i + 1, Value: dv})
		}
	}

	switch {
	case pr.IsProcedureCall():
		rs, err := s.s.QueryCall(pr, args)
		if err != nil {
			return nil, classifyErr("call", err)
		}
		return resultOf(rs), nil
	case pr.HasResultFields():
		rs, err := s.s.Query(pr, args)
		if err != nil {
			return nil, classifyErr("query", err)
		}
		return resultOf(rs), nil
	default:
		res, err := s.s.Exec(pr, args)
		if err != nil {
			return nil, classifyErr("exec", err)
		}
		cnt, _ := res.RowsAffected()
		return &Result{rows: cnt}, nil
	}
}

func resultOf(rows driver.Rows) *Result {
	if _, ok := rows.(interface{ Columns() []string }); ok && len(rows.Columns()) > 0 {
		return &Result{rs: newResultSet(rows)}
	}
	return &Result{}
}

// Commit commits the current transaction. A no-op, successfully, if no
// transaction is open.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return classifyErr("commit", s.s.Commit())
}

// Rollback rolls back the current transaction. A no-op, successfully, if no
// transaction is open.
func (s *Session) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	return classifyErr("rollback", s.s.Rollback())
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return classifyErr("close", s.s.Close())
}
