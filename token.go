// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/cashu"
	"github.com/btcsuite/payscan/fedimint"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// InviteCode is a validated fedimint federation invite code, kept in
// its original string form.
type InviteCode struct {
	// Code is the bech32m invite string.
	Code string
}

func parseInviteCode(s string) (*InviteCode, error) {
	code, err := fedimint.ParseInviteCode(s)
	if err != nil {
		return nil, err
	}
	return &InviteCode{Code: code}, nil
}

// AmountMsat is part of the Descriptor interface.
func (c *InviteCode) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (c *InviteCode) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (c *InviteCode) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (c *InviteCode) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (c *InviteCode) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (c *InviteCode) sealed() {}

// BearerToken is a cashu ecash token: value carried in the string
// itself, redeemable at the issuing mint.
type BearerToken struct {
	// Token is the decoded token.
	Token *cashu.Token
}

func parseBearerToken(s string) (*BearerToken, error) {
	token, err := cashu.ParseToken(s)
	if err != nil {
		return nil, err
	}
	return &BearerToken{Token: token}, nil
}

// AmountMsat is part of the Descriptor interface. Proof amounts are
// whole satoshis, scaled up here.
func (b *BearerToken) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.Some(lnwire.MilliSatoshi(b.Token.TotalAmount() * 1000))
}

// Memo is part of the Descriptor interface. The token memo is a note
// from the sender, not a payment description, so it is not surfaced
// here.
func (b *BearerToken) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (b *BearerToken) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (b *BearerToken) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (b *BearerToken) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (b *BearerToken) sealed() {}

// RedeemableNotes is a set of fedimint out-of-band ecash notes.
type RedeemableNotes struct {
	// Notes is the decoded note set.
	Notes *fedimint.OOBNotes
}

func parseRedeemableNotes(s string) (*RedeemableNotes, error) {
	notes, err := fedimint.ParseNotes(s)
	if err != nil {
		return nil, err
	}
	return &RedeemableNotes{Notes: notes}, nil
}

// AmountMsat is part of the Descriptor interface.
func (r *RedeemableNotes) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.Some(lnwire.MilliSatoshi(r.Notes.TotalMsat()))
}

// Memo is part of the Descriptor interface.
func (r *RedeemableNotes) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (r *RedeemableNotes) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (r *RedeemableNotes) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (r *RedeemableNotes) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (r *RedeemableNotes) sealed() {}
