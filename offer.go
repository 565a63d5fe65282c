// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/payscan/bolt12"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// chainNetworks maps BOLT12 chain hashes back to network parameters.
var chainNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.SigNetParams,
	&chaincfg.RegressionNetParams,
	&chaincfg.SimNetParams,
}

// paramsForChain resolves a genesis hash to network parameters.
func paramsForChain(hash chainhash.Hash) fn.Option[*chaincfg.Params] {
	for _, params := range chainNetworks {
		if *params.GenesisHash == hash {
			return fn.Some(params)
		}
	}
	return fn.None[*chaincfg.Params]()
}

// Offer is a decoded BOLT12 offer.
type Offer struct {
	// Offer is the decoded offer.
	Offer *bolt12.Offer
}

func parseOffer(s string) (*Offer, error) {
	offer, err := bolt12.DecodeOffer(s)
	if err != nil {
		return nil, err
	}
	return &Offer{Offer: offer}, nil
}

// AmountMsat is part of the Descriptor interface. Fiat denominated
// offers return None, there is no fixed millisatoshi value to report.
func (o *Offer) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	msat, ok := o.Offer.AmountMsat()
	if !ok {
		return fn.None[lnwire.MilliSatoshi]()
	}
	return fn.Some(lnwire.MilliSatoshi(msat))
}

// Memo is part of the Descriptor interface.
func (o *Offer) Memo() fn.Option[string] {
	if o.Offer.Description == "" {
		return fn.None[string]()
	}
	return fn.Some(o.Offer.Description)
}

// Network is part of the Descriptor interface, answered by the offer's
// first supported chain, mainnet when the offer names none.
func (o *Offer) Network() fn.Option[*chaincfg.Params] {
	if len(o.Offer.Chains) == 0 {
		return fn.Some(&chaincfg.MainNetParams)
	}
	return paramsForChain(o.Offer.Chains[0])
}

// RecipientIdentity is part of the Descriptor interface.
func (o *Offer) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	if o.Offer.IssuerID == nil {
		return fn.None[*btcec.PublicKey]()
	}
	return fn.Some(o.Offer.IssuerID)
}

// ValidForNetwork is part of the Descriptor interface.
func (o *Offer) ValidForNetwork(params *chaincfg.Params) fn.Option[bool] {
	return fn.Some(o.Offer.SupportsChain(*params.GenesisHash))
}

func (o *Offer) sealed() {}

// Refund is a decoded BOLT12 refund.
type Refund struct {
	// Refund is the decoded refund.
	Refund *bolt12.Refund
}

func parseRefund(s string) (*Refund, error) {
	refund, err := bolt12.DecodeRefund(s)
	if err != nil {
		return nil, err
	}
	return &Refund{Refund: refund}, nil
}

// chain returns the refund's genesis hash, mainnet when absent.
func (r *Refund) chain() chainhash.Hash {
	if r.Refund.Chain == nil {
		return *chaincfg.MainNetParams.GenesisHash
	}
	return *r.Refund.Chain
}

// AmountMsat is part of the Descriptor interface. Refunds always carry
// an amount.
func (r *Refund) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.Some(lnwire.MilliSatoshi(r.Refund.AmountMsat))
}

// Memo is part of the Descriptor interface.
func (r *Refund) Memo() fn.Option[string] {
	if r.Refund.Description == "" {
		return fn.None[string]()
	}
	return fn.Some(r.Refund.Description)
}

// Network is part of the Descriptor interface.
func (r *Refund) Network() fn.Option[*chaincfg.Params] {
	return paramsForChain(r.chain())
}

// RecipientIdentity is part of the Descriptor interface. The payer id
// identifies who gets paid back, not a routing destination, so nothing
// is reported here.
func (r *Refund) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (r *Refund) ValidForNetwork(params *chaincfg.Params) fn.Option[bool] {
	return fn.Some(r.chain() == *params.GenesisHash)
}

func (r *Refund) sealed() {}
