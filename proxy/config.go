package proxy

import "errors"

// Config describes the SOCKS5 tunnel proxy a session should dial through
// instead of the database host, and the sub-negotiation credentials to
// authenticate with once connected.
type Config struct {
	// Address is the proxy's own host:port, not the database's.
	Address string
	// JWTToken, if set, selects the custom JWT sub-negotiation
	// (https://bit.ly/37KJb3q) ahead of plain username/password auth.
	JWTToken   string
	LocationID string
	User       string
	Password   string
}

// Validate rejects a Config NewDialer couldn't act on: Address is always
// required, and at most one authentication mode may be configured since
// NewDialer offers the server JWT ahead of Basic when both are set.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("proxy: Address is required")
	}
	if c.JWTToken != "" && c.User != "" {
		return errors.New("proxy: JWTToken and User are mutually exclusive")
	}
	return nil
}
