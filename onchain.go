// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/bip21"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// OnChainAddress is a bare on-chain address with the network it decoded
// under.
type OnChainAddress struct {
	// Address is the decoded address.
	Address btcutil.Address

	// Params is the network the address belongs to.
	Params *chaincfg.Params
}

func parseOnChain(s string) (*OnChainAddress, error) {
	addr, params, err := bip21.DecodeAddress(s)
	if err != nil {
		return nil, err
	}
	return &OnChainAddress{Address: addr, Params: params}, nil
}

// AmountMsat is part of the Descriptor interface. A bare address never
// carries an amount.
func (a *OnChainAddress) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (a *OnChainAddress) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (a *OnChainAddress) Network() fn.Option[*chaincfg.Params] {
	return fn.Some(a.Params)
}

// RecipientIdentity is part of the Descriptor interface.
func (a *OnChainAddress) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (a *OnChainAddress) ValidForNetwork(
	params *chaincfg.Params) fn.Option[bool] {

	return fn.Some(a.Params.Net == params.Net)
}

func (a *OnChainAddress) sealed() {}
