// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/nostr"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// AuthRequest is a nostr wallet auth request: an app asking a wallet
// for a spending connection over a relay, with permission scopes and an
// optional budget.
type AuthRequest struct {
	// Request is the decoded request.
	Request *nostr.AuthRequest
}

func parseAuthRequest(s string) (*AuthRequest, error) {
	req, err := nostr.ParseAuthRequest(s)
	if err != nil {
		return nil, err
	}
	return &AuthRequest{Request: req}, nil
}

// AmountMsat is part of the Descriptor interface. The budget bounds
// future spending, it is not an amount being requested now.
func (a *AuthRequest) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (a *AuthRequest) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (a *AuthRequest) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (a *AuthRequest) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (a *AuthRequest) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (a *AuthRequest) sealed() {}
