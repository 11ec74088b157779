// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package scnp is the collaborator-facing client for the SAP HANA SQL
// Command Network Protocol: Connect opens a Session, Session.Execute runs
// SQL and returns either a ResultSet or a row count, and ResultSet streams
// rows back a batch at a time.
//
// Tracing is a process-wide switch: every Connect call sets it from
// HDB_TRACE in the process environment, or from Options.Trace when that was
// set with SetTrace, and the latest setting applies to all open sessions.
// There is no per-session trace setting.
package scnp

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"

	"github.com/hdbnet/scnp/internal/protocol"
	"github.com/hdbnet/scnp/internal/protocol/sqltrace"
	"github.com/hdbnet/scnp/proxy"
)

// Options customizes a Connect call. The zero value matches the wire
// protocol's own defaults (autocommit on, 30s timeout, 32-row fetch size).
type Options struct {
	// Autocommit is recorded on the Session but not passed to the engine:
	// the engine sets each statement's commit flag to !s.inTx whatever
	// this field holds, so false does not turn auto-commit off.
	Autocommit bool
	// Timeout bounds both the TCP dial and every subsequent read/write.
	Timeout time.Duration
	// FetchSize is the number of rows requested per FETCH_NEXT round trip.
	FetchSize int
	// LobChunkSize is the number of bytes requested per LOB read/write
	// round trip; accepts go-units size strings (e.g. "64KiB") through
	// SetLobChunkSize, or can be left zero to use the engine default.
	LobChunkSize int32
	// Trace overrides the HDB_TRACE environment variable when explicitly
	// set via SetTrace; Connect applies it to the process-wide tracing
	// switch, not to this connection alone.
	Trace      bool
	traceIsSet bool
	// Locale is the client locale sent during authentication.
	Locale string
	// Proxy routes the connection through a SOCKS5 proxy (e.g. the tunnel
	// HANA Cloud connections go through from outside its network) instead
	// of dialing host:port directly. Left nil to dial directly.
	Proxy *proxy.Config
}

// DefaultOptions returns the option set Connect uses when none is supplied.
func DefaultOptions() Options {
	return Options{
		Autocommit: true,
		Timeout:    30 * time.Second,
		FetchSize:  32,
	}
}

// SetTrace makes Connect set the process-wide tracing switch to on instead
// of reading HDB_TRACE.
func (o *Options) SetTrace(on bool) { o.Trace = on; o.traceIsSet = true }

// SetLobChunkSize parses a human-readable byte size (e.g. "64KiB") the way
// the engine's configuration layer parses other size attributes.
func (o *Options) SetLobChunkSize(s string) error {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return fmt.Errorf("scnp: invalid lob_chunk_size %q: %w", s, err)
	}
	o.LobChunkSize = int32(n)
	return nil
}

func envTraceOn() bool {
	v, ok := os.LookupEnv("HDB_TRACE")
	if !ok {
		return false
	}
	on, _ := strconv.ParseBool(v)
	return on
}

// defaultPort returns the SAP HANA default SQL port for the given instance
// number, 3<instance>15 (e.g. instance 00 -> 30015).
func defaultPort(instance int) int { return 30000 + instance*100 + 15 }

// Connect opens a Session against the database instance at host:port,
// authenticating via SCRAM-SHA256. port may be 0 to use instance 00's
// default port (30015).
func Connect(ctx context.Context, host string, port int, user, password string, opts Options) (*Session, error) {
	if port == 0 {
		port = defaultPort(0)
	}
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	if opts.FetchSize <= 0 {
		opts.FetchSize = 32
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	traceOn := envTraceOn()
	if opts.traceIsSet {
		traceOn = opts.Trace
	}
	sqltrace.SetOn(traceOn)

	cfg := protocol.NewConfig(fmt.Sprintf("%s:%d", host, port), user, password).
		SetFetchSize(opts.FetchSize).
		SetTimeout(opts.Timeout)
	if opts.Locale != "" {
		cfg.SetLocale(opts.Locale)
	}
	if opts.LobChunkSize > 0 {
		cfg.SetLobChunkSize(opts.LobChunkSize)
	}
	if opts.Proxy != nil {
		if err := opts.Proxy.Validate(); err != nil {
			return nil, err
		}
		cfg.SetDialer(proxy.AsDialer(proxy.NewDialer(opts.Proxy)))
	}

	s, err := protocol.NewSession(ctx, cfg)
	if err != nil {
		return nil, connectErr(err)
	}
	return &Session{s: s, autocommit: opts.Autocommit}, nil
}

func connectErr(err error) error {
	if ae := classifyErr("authenticate", err); ae != nil {
		if _, ok := ae.(*ProtocolError); ok {
			// authenticate() failures surface as plain fmt.Errorf, not a
			// DatabaseErrors - but they only ever occur mid-handshake, so
			// they are always authentication failures rather than generic
			// protocol corruption.
			return &AuthError{ServerMessage: err.Error()}
		}
		return ae
	}
	return err
}
