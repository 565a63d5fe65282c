// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// Descriptor is the closed set of payment formats a string can classify
// to. Every variant answers the same semantic questions, returning None
// where the format simply does not carry the answer. The interface is
// sealed: the variant set lives in this package so the per-variant
// accessor implementations stay exhaustive.
type Descriptor interface {
	// AmountMsat returns the amount carried by the payment string in
	// millisatoshis, the lossless sub-unit form.
	AmountMsat() fn.Option[lnwire.MilliSatoshi]

	// Memo returns a human readable description when the format
	// carries one directly. Formats that only commit to a description
	// hash return None.
	Memo() fn.Option[string]

	// Network returns the chain the payment targets, or None for
	// network agnostic formats such as bare identities and tokens.
	Network() fn.Option[*chaincfg.Params]

	// RecipientIdentity returns the recipient's public key when the
	// format embeds or implies one.
	RecipientIdentity() fn.Option[*btcec.PublicKey]

	// ValidForNetwork reports whether the payment can be used on the
	// given network. None means the format is network agnostic and the
	// question does not apply.
	ValidForNetwork(params *chaincfg.Params) fn.Option[bool]

	// sealed restricts implementations to this package.
	sealed()
}

// Amount returns the descriptor's amount in satoshis. Millisatoshi
// precision is floored away, so a 1999 msat invoice reports 1 satoshi.
func Amount(d Descriptor) fn.Option[btcutil.Amount] {
	return fn.MapOption(func(msat lnwire.MilliSatoshi) btcutil.Amount {
		return msat.ToSatoshis()
	})(d.AmountMsat())
}

// As narrows a descriptor to a concrete variant, reporting whether the
// descriptor actually is that variant.
func As[T Descriptor](d Descriptor) (T, bool) {
	v, ok := d.(T)
	return v, ok
}
