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
	"github.com/lightningnetwork/lnd/zpay32"
)

// Invoice is a decoded BOLT11 invoice.
type Invoice struct {
	// Invoice is the decoded invoice.
	Invoice *zpay32.Invoice

	// Params is the network the invoice was minted for.
	Params *chaincfg.Params
}

func parseInvoice(s string) (*Invoice, error) {
	invoice, params, err := bip21.DecodeInvoice(s)
	if err != nil {
		return nil, err
	}
	return &Invoice{Invoice: invoice, Params: params}, nil
}

// FallbackAddress returns the invoice's on-chain fallback address, when
// one is present.
func (i *Invoice) FallbackAddress() fn.Option[btcutil.Address] {
	if i.Invoice.FallbackAddr == nil {
		return fn.None[btcutil.Address]()
	}
	return fn.Some(i.Invoice.FallbackAddr)
}

// AmountMsat is part of the Descriptor interface. Zero-amount invoices
// return None.
func (i *Invoice) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	if i.Invoice.MilliSat == nil {
		return fn.None[lnwire.MilliSatoshi]()
	}
	return fn.Some(*i.Invoice.MilliSat)
}

// Memo is part of the Descriptor interface. Invoices committing only to
// a description hash return None.
func (i *Invoice) Memo() fn.Option[string] {
	if i.Invoice.Description == nil {
		return fn.None[string]()
	}
	return fn.Some(*i.Invoice.Description)
}

// Network is part of the Descriptor interface.
func (i *Invoice) Network() fn.Option[*chaincfg.Params] {
	return fn.Some(i.Params)
}

// RecipientIdentity is part of the Descriptor interface. For an invoice
// the recipient is the payee node key.
func (i *Invoice) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	if i.Invoice.Destination == nil {
		return fn.None[*btcec.PublicKey]()
	}
	return fn.Some(i.Invoice.Destination)
}

// ValidForNetwork is part of the Descriptor interface.
func (i *Invoice) ValidForNetwork(params *chaincfg.Params) fn.Option[bool] {
	return fn.Some(i.Params.Net == params.Net)
}

func (i *Invoice) sealed() {}
