// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"encoding/hex"
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/nostr"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// NodeIdentity is a bare lightning node public key with no payment
// context attached.
type NodeIdentity struct {
	// PubKey is the node's identity key.
	PubKey *btcec.PublicKey
}

// parseNodeID accepts a compressed public key in hex, the form node ids
// travel in.
func parseNodeID(s string) (*NodeIdentity, error) {
	if len(s) != 2*btcec.PubKeyBytesLenCompressed {
		return nil, errors.New("node id must be 33 bytes of hex")
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	key, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, err
	}
	return &NodeIdentity{PubKey: key}, nil
}

// AmountMsat is part of the Descriptor interface.
func (n *NodeIdentity) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (n *NodeIdentity) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface. A node id is the same on
// every network.
func (n *NodeIdentity) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface.
func (n *NodeIdentity) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.Some(n.PubKey)
}

// ValidForNetwork is part of the Descriptor interface.
func (n *NodeIdentity) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (n *NodeIdentity) sealed() {}

// OtherIdentity is a social-graph identity: a nostr public key in npub
// or x-only hex form. It identifies a person, not a payment target.
type OtherIdentity struct {
	// PubKey is the x-only key lifted to a full public key.
	PubKey *btcec.PublicKey
}

func parseOtherIdentity(s string) (*OtherIdentity, error) {
	key, err := nostr.ParsePubKey(s)
	if err != nil {
		return nil, err
	}
	return &OtherIdentity{PubKey: key}, nil
}

// AmountMsat is part of the Descriptor interface.
func (o *OtherIdentity) AmountMsat() fn.Option[lnwire.MilliSatoshi] {
	return fn.None[lnwire.MilliSatoshi]()
}

// Memo is part of the Descriptor interface.
func (o *OtherIdentity) Memo() fn.Option[string] {
	return fn.None[string]()
}

// Network is part of the Descriptor interface.
func (o *OtherIdentity) Network() fn.Option[*chaincfg.Params] {
	return fn.None[*chaincfg.Params]()
}

// RecipientIdentity is part of the Descriptor interface. A social key
// is not a routing destination, so nothing is reported.
func (o *OtherIdentity) RecipientIdentity() fn.Option[*btcec.PublicKey] {
	return fn.None[*btcec.PublicKey]()
}

// ValidForNetwork is part of the Descriptor interface.
func (o *OtherIdentity) ValidForNetwork(
	_ *chaincfg.Params) fn.Option[bool] {

	return fn.None[bool]()
}

func (o *OtherIdentity) sealed() {}
