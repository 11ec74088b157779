package proxy

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"missing address", Config{}, true},
		{"address only", Config{Address: "proxy:1080"}, false},
		{"basic auth", Config{Address: "proxy:1080", User: "u"}, false},
		{"jwt auth", Config{Address: "proxy:1080", JWTToken: "t"}, false},
		{"jwt and basic set", Config{Address: "proxy:1080", JWTToken: "t", User: "u"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDialerAuthMethods(t *testing.T) {
	d := NewDialer(&Config{Address: "proxy:1080"})
	if len(d.authMethods) != 1 || d.authMethods[0] != authNotRequired {
		t.Fatalf("expected only authNotRequired, got %v", d.authMethods)
	}

	d = NewDialer(&Config{Address: "proxy:1080", JWTToken: "t"})
	if len(d.authMethods) != 2 || d.authMethods[1] != authJWT {
		t.Fatalf("expected authNotRequired+authJWT, got %v", d.authMethods)
	}

	d = NewDialer(&Config{Address: "proxy:1080", User: "u"})
	if len(d.authMethods) != 2 || d.authMethods[1] != authBasic {
		t.Fatalf("expected authNotRequired+authBasic, got %v", d.authMethods)
	}
}
