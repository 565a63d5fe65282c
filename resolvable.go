// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/lnurl"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// ResolvableAddress is an LNURL: a bech32-wrapped callback URL that the
// caller resolves over HTTP to obtain the actual payment parameters.
// This package never performs that resolution.
type ResolvableAddress struct {
	// LNURL is the decoded endpoint.
	LNURL *lnurl.LNURL
}

func parseResolvable(s string) (*ResolvableAddress, error) {
	decoded, err := lnurl.Decode(s)
	if err != nil {
		return nil, err
	}
	return &ResolvableAddress{LNURL: decoded}, nil
}

// IsAuth reports whether the endpoint is an LNURL-auth challenge rather
// than a payment endpoint.
func (r *ResolvableAddress) IsAuth() bool {
	return r.LNURL.IsAuth()
}

// AmountMsat is part of the Descriptor interface. The amount is only
// known after resolving the endpoint.
func (r *ResolvableAddress) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (r *ResolvableAddress) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (r *ResolvableAddress) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (r *ResolvableAddress) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (r *ResolvableAddress) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (r *ResolvableAddress) sealed() {}

// HumanReadableAddress is a lightning address, user@domain, which maps
// deterministically to an LNURL-pay endpoint on that domain.
type HumanReadableAddress struct {
	// Address is the parsed local part and domain.
	Address *lnurl.Address
}

func parseHumanReadable(s string) (*HumanReadableAddress, error) {
	addr, err := lnurl.ParseAddress(s)
	if err != nil {
		return nil, err
	}
	return &HumanReadableAddress{Address: addr}, nil
}

// LNURL returns the address's LNURL-pay endpoint in bech32 form.
func (h *HumanReadableAddress) LNURL() (*lnurl.LNURL, error) {
	return h.Address.LNURL()
}

// AmountMsat is part of the Descriptor interface.
func (h *HumanReadableAddress) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (h *HumanReadableAddress) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (h *HumanReadableAddress) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (h *HumanReadableAddress) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (h *HumanReadableAddress) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (h *HumanReadableAddress) sealed() {}
