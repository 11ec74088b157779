// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package scnp

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyErrNil(t *testing.T) {
	if err := classifyErr("test", nil); err != nil {
		t.Fatalf("expected nil, got %s", err)
	}
}

func TestClassifyErrProtocol(t *testing.T) {
	err := classifyErr("query", fmt.Errorf("boom"))
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %T", err)
	}
	if pe.Where != "query" {
		t.Fatalf("expected Where %q, got %q", "query", pe.Where)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyErrTransport(t *testing.T) {
	err := classifyErr("connect", timeoutErr{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if !te.IsTimeout {
		t.Fatalf("expected IsTimeout true")
	}
}

func TestErrClosedSingleton(t *testing.T) {
	if ErrClosed.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
	if !errors.Is(ErrClosed, ErrClosed) {
		t.Fatalf("expected ErrClosed to equal itself")
	}
}
