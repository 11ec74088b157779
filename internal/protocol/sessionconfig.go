// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"crypto/tls"
	"time"

	"github.com/hdbnet/scnp/internal/transport/dial"
	"github.com/hdbnet/scnp/internal/container/varmap"
)

// Config holds the connection and session options a collaborator supplies
// to open a session; it implements the SessionConfig interface session.go
// consumes.
type Config struct {
	DriverVersion, DriverName string
	ApplicationName           string

	host, username, password string
	locale                   string

	bufferSize, fetchSize, bulkSize int
	lobChunkSize                    int32

	dialer       dial.Dialer
	timeout      time.Duration
	tcpKeepAlive time.Duration

	dfv              int
	SessionVariables *varmap.VarMap
	tlsConfig        *tls.Config
	legacy           bool
}

// NewConfig returns a Config for host with default buffering, fetch and
// bulk sizes; use its setters to customize before opening a session.
func NewConfig(host, username, password string) *Config {
	return &Config{
		host:         host,
		username:     username,
		password:     password,
		bufferSize:   defaultBufferSize,
		fetchSize:    defaultFetchSize,
		bulkSize:     defaultBulkSize,
		lobChunkSize: defaultLobChunkSize,
		timeout:      defaultTimeout,
		dfv:          defaultDfv,
	}
}

const (
	defaultBufferSize = 16 * 1024
	defaultFetchSize  = 128
	defaultBulkSize   = 1000
	defaultTimeout    = 30 * time.Second
	defaultDfv        = 8
)

func (c *Config) Host() string           { return c.host }
func (c *Config) Username() string       { return c.username }
func (c *Config) Password() string       { return c.password }
func (c *Config) Locale() string         { return c.locale }
func (c *Config) BufferSize() int        { return c.bufferSize }
func (c *Config) FetchSize() int         { return c.fetchSize }
func (c *Config) BulkSize() int          { return c.bulkSize }
func (c *Config) LobChunkSize() int32    { return c.lobChunkSize }
func (c *Config) Timeout() int           { return int(c.timeout / time.Second) }
func (c *Config) Dfv() int               { return c.dfv }
func (c *Config) TLSConfig() *tls.Config { return c.tlsConfig }
func (c *Config) Legacy() bool                { return c.legacy }
func (c *Config) Dialer() dial.Dialer         { return c.dialer }
func (c *Config) TCPKeepAlive() time.Duration { return c.tcpKeepAlive }

func (c *Config) SetLocale(locale string) *Config     { c.locale = locale; return c }
func (c *Config) SetFetchSize(n int) *Config          { c.fetchSize = n; return c }
func (c *Config) SetBulkSize(n int) *Config           { c.bulkSize = n; return c }
func (c *Config) SetLobChunkSize(n int32) *Config     { c.lobChunkSize = n; return c }
func (c *Config) SetTimeout(d time.Duration) *Config  { c.timeout = d; return c }
func (c *Config) SetDfv(dfv int) *Config              { c.dfv = dfv; return c }
func (c *Config) SetTLSConfig(tc *tls.Config) *Config { c.tlsConfig = tc; return c }
func (c *Config) SetLegacy(legacy bool) *Config       { c.legacy = legacy; return c }

// SetDialer overrides the default TCP dialer - used to route the connection
// through a SOCKS5 proxy (see the proxy package) or inject a test double.
func (c *Config) SetDialer(d dial.Dialer) *Config { c.dialer = d; return c }

// SetTCPKeepAlive sets the keep-alive interval the default dialer applies;
// ignored by a custom Dialer that manages its own.
func (c *Config) SetTCPKeepAlive(d time.Duration) *Config { c.tcpKeepAlive = d; return c }

var _ SessionConfig = (*Config)(nil)
