package proxy

import (
	"context"
	"net"

	"github.com/hdbnet/scnp/internal/transport/dial"
)

// protocolDialer adapts *Dialer to the internal/transport/dial.Dialer
// interface so a Config can be handed straight to Config.SetDialer: the
// SOCKS5 handshake owns its own connect deadline (see connect's ctx
// handling), so the options argument's Timeout/TCPKeepAlive are unused.
type protocolDialer struct{ d *Dialer }

// AsDialer wraps d so it can be installed via
// internal/protocol.Config.SetDialer, routing the session's TCP connection
// through the SOCKS5 proxy d describes.
func AsDialer(d *Dialer) dial.Dialer { return protocolDialer{d: d} }

func (p protocolDialer) DialContext(ctx context.Context, address string, _ dial.DialerOptions) (net.Conn, error) {
	return p.d.DialContext(ctx, address)
}
