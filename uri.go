// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"net/url"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/bip21"
	"github.com/btcsuite/payscan/bolt12"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
)

// URIPaymentRequest is a BIP21 URI: an on-chain destination plus
// optional amount, label, message, and the lightning, offer and payjoin
// query extensions.
type URIPaymentRequest struct {
	// URI is the decoded URI.
	URI *bip21.URI
}

func parseURI(s string) (*URIPaymentRequest, error) {
	uri, err := bip21.Parse(s)
	if err != nil {
		return nil, err
	}
	return &URIPaymentRequest{URI: uri}, nil
}

// Address returns the URI's on-chain destination.
func (u *URIPaymentRequest) Address() btcutil.Address {
	return u.URI.Address
}

// Label returns the URI label, when stated.
func (u *URIPaymentRequest) Label() fn.Option[string] {
	return u.URI.Label
}

// EmbeddedInvoice returns the BOLT11 invoice from the lightning
// parameter, if one was present.
func (u *URIPaymentRequest) EmbeddedInvoice() fn.Option[*zpay32.Invoice] {
	if u.URI.Extras.Lightning == nil {
		return fn.None[*zpay32.Invoice]()
	}
	return fn.Some(u.URI.Extras.Lightning)
}

// EmbeddedOffer returns the BOLT12 offer from the b12 parameter, if one
// was present.
func (u *URIPaymentRequest) EmbeddedOffer() fn.Option[*bolt12.Offer] {
	if u.URI.Extras.Offer == nil {
		return fn.None[*bolt12.Offer]()
	}
	return fn.Some(u.URI.Extras.Offer)
}

// PayjoinEndpoint returns the BIP78 endpoint from the pj parameter, if
// one was present.
func (u *URIPaymentRequest) PayjoinEndpoint() fn.Option[*url.URL] {
	if u.URI.Extras.PayjoinEndpoint == nil {
		return fn.None[*url.URL]()
	}
	return fn.Some(u.URI.Extras.PayjoinEndpoint)
}

// OutputSubstitutionDisabled reports the pjos flag, false when absent.
func (u *URIPaymentRequest) OutputSubstitutionDisabled() bool {
	return u.URI.Extras.DisableOutputSubstitution()
}

// AmountMsat is part of the Descriptor interface. Only the URI's own
// amount parameter counts; an embedded invoice's amount is reachable
// through EmbeddedInvoice.
func (u *URIPaymentRequest) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.MapOption(func(amt btcutil.Amount) lnwire.MilliSatoshi {
		return lnwire.NewMSatFromSatoshis(amt)
	})(u.URI.Amount)
}

// Memo is part of the Descriptor interface, answered by the message
// parameter, or the label when no message is present.
func (u *URIPaymentRequest) Memo() fn.Option[string] {
	if u.URI.Message.IsSome() {
		return u.URI.Message
	}
	return u.URI.Label
}

// Network is part of the Descriptor interface.
func (u *URIPaymentRequest) Network() fn.Option[*chaincfg.Params] {
	return fn.Some(u.URI.Params)
}

// RecipientIdentity is part of the Descriptor interface, delegating to
// the embedded invoice's payee key when one is present.
func (u *URIPaymentRequest) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	invoice := u.URI.Extras.Lightning
	if invoice == nil || invoice.Destination == nil {
		return fn.None[*btcec.PublicKey]()
	}
	return fn.Some(invoice.Destination)
}

// ValidForNetwork is part of the Descriptor interface. Address formats
// shared between networks, such as the tb prefix, validate for every
// network they decode under.
func (u *URIPaymentRequest) ValidForNetwork(
	params *chaincfg.Params) fn.Option[bool] {

	return fn.Some(u.URI.Address.IsForNet(params))
}

func (u *URIPaymentRequest) sealed() {}
