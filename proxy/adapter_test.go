package proxy

import (
	"testing"

	"github.com/hdbnet/scnp/internal/transport/dial"
)

func TestAsDialerSatisfiesDialInterface(t *testing.T) {
	var _ dial.Dialer = AsDialer(NewDialer(&Config{Address: "proxy:1080"}))
}
