// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bolt12 decodes BOLT12 offers (lno1…) and refunds (lnr1…).
// Decoding recovers the signed fields only; this package does not build
// invoice requests, fetch invoices, or verify merkle signatures.
package bolt12

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/tlv"
)

// Human readable parts for the two encodings.
const (
	offerHRP  = "lno"
	refundHRP = "lnr"
)

// Offer TLV types, per the BOLT12 offer TLV stream.
const (
	typeOfferChains      tlv.Type = 2
	typeOfferMetadata    tlv.Type = 4
	typeOfferCurrency    tlv.Type = 6
	typeOfferAmount      tlv.Type = 8
	typeOfferDescription tlv.Type = 10
	typeOfferFeatures    tlv.Type = 12
	typeOfferExpiry      tlv.Type = 14
	typeOfferPaths       tlv.Type = 16
	typeOfferIssuer      tlv.Type = 18
	typeOfferQuantityMax tlv.Type = 20
	typeOfferIssuerID    tlv.Type = 22
)

// Refund TLV types: the invoice_request fields a refund is allowed to
// carry, plus the shared description type.
const (
	typeRefundMetadata    tlv.Type = 0
	typeRefundDescription tlv.Type = 10
	typeRefundChain       tlv.Type = 80
	typeRefundAmount      tlv.Type = 82
	typeRefundFeatures    tlv.Type = 84
	typeRefundPayerID     tlv.Type = 88
	typeRefundPayerNote   tlv.Type = 89
)

var (
	// ErrNotOffer is returned when a string is not an offer encoding.
	ErrNotOffer = errors.New("not a bolt12 offer")

	// ErrNotRefund is returned when a string is not a refund encoding.
	ErrNotRefund = errors.New("not a bolt12 refund")
)

// Offer is a decoded BOLT12 offer: a reusable, unsigned-amount-optional
// payment destination published by the recipient.
type Offer struct {
	// Chains lists the genesis hashes the offer can be paid on. Empty
	// means Bitcoin mainnet implicitly.
	Chains []chainhash.Hash

	// Metadata is the issuer's opaque blob, echoed back in invoice
	// requests.
	Metadata []byte

	// Currency is an ISO 4217 code when the amount is fiat denominated.
	Currency string

	// Amount is the offer amount. Millisatoshis when Currency is empty,
	// the currency's minor unit otherwise. Valid only when HasAmount.
	Amount uint64

	// HasAmount reports whether the offer carries any amount at all.
	HasAmount bool

	// Description is the human readable description.
	Description string

	// Issuer identifies who published the offer, when stated.
	Issuer string

	// QuantityMax bounds the purchasable quantity, 0 meaning no bound
	// was encoded.
	QuantityMax uint64

	// IssuerID is the signing key invoices will be issued under.
	IssuerID *btcec.PublicKey

	// Paths holds the raw blinded path records; opaque at this layer.
	Paths []byte
}

// AmountMsat returns the offer amount in millisatoshis. It reports false
// when the offer has no amount or the amount is denominated in a fiat
// currency.
func (o *Offer) AmountMsat() (uint64, bool) {
	if !o.HasAmount || o.Currency != "" {
		return 0, false
	}
	return o.Amount, true
}

// SupportsChain reports whether the offer can be paid on the chain with
// the given genesis hash.
func (o *Offer) SupportsChain(hash chainhash.Hash) bool {
	if len(o.Chains) == 0 {
		return hash == *chaincfg.MainNetParams.GenesisHash
	}
	for _, c := range o.Chains {
		if c == hash {
			return true
		}
	}
	return false
}

// DecodeOffer parses an lno1… offer string.
func DecodeOffer(s string) (*Offer, error) {
	hrp, raw, err := decodeNoChecksum(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotOffer, err)
	}
	if hrp != offerHRP {
		return nil, fmt.Errorf("%w: hrp %q", ErrNotOffer, hrp)
	}

	var (
		chains, metadata, currency, amount []byte
		description, features, expiry      []byte
		paths, issuer, quantityMax, nodeID []byte
	)
	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeOfferChains, &chains),
		tlv.MakePrimitiveRecord(typeOfferMetadata, &metadata),
		tlv.MakePrimitiveRecord(typeOfferCurrency, &currency),
		tlv.MakePrimitiveRecord(typeOfferAmount, &amount),
		tlv.MakePrimitiveRecord(typeOfferDescription, &description),
		tlv.MakePrimitiveRecord(typeOfferFeatures, &features),
		tlv.MakePrimitiveRecord(typeOfferExpiry, &expiry),
		tlv.MakePrimitiveRecord(typeOfferPaths, &paths),
		tlv.MakePrimitiveRecord(typeOfferIssuer, &issuer),
		tlv.MakePrimitiveRecord(typeOfferQuantityMax, &quantityMax),
		tlv.MakePrimitiveRecord(typeOfferIssuerID, &nodeID),
	)
	if err != nil {
		return nil, err
	}
	parsed, err := stream.DecodeWithParsedTypes(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotOffer, err)
	}

	offer := &Offer{Metadata: metadata, Paths: paths}

	if offer.Chains, err = parseChains(chains); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotOffer, err)
	}
	if _, ok := parsed[typeOfferCurrency]; ok {
		if len(currency) != 3 {
			return nil, fmt.Errorf("%w: currency %x", ErrNotOffer,
				currency)
		}
		offer.Currency = string(currency)
	}
	if _, ok := parsed[typeOfferAmount]; ok {
		offer.Amount, err = parseTU64(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: amount: %v", ErrNotOffer,
				err)
		}
		offer.HasAmount = true
	}
	if offer.Description, err = parseText(description); err != nil {
		return nil, fmt.Errorf("%w: description: %v", ErrNotOffer, err)
	}
	if offer.Issuer, err = parseText(issuer); err != nil {
		return nil, fmt.Errorf("%w: issuer: %v", ErrNotOffer, err)
	}
	if _, ok := parsed[typeOfferQuantityMax]; ok {
		offer.QuantityMax, err = parseTU64(quantityMax)
		if err != nil {
			return nil, fmt.Errorf("%w: quantity: %v", ErrNotOffer,
				err)
		}
	}
	if _, ok := parsed[typeOfferIssuerID]; ok {
		offer.IssuerID, err = btcec.ParsePubKey(nodeID)
		if err != nil {
			return nil, fmt.Errorf("%w: issuer id: %v",
				ErrNotOffer, err)
		}
	}

	// An offer must state who to request the invoice from, either
	// directly or through a blinded path.
	if offer.IssuerID == nil && len(offer.Paths) == 0 {
		return nil, fmt.Errorf("%w: no issuer id or paths",
			ErrNotOffer)
	}
	// An amount without a description is not payable.
	if offer.HasAmount && offer.Description == "" {
		return nil, fmt.Errorf("%w: amount without description",
			ErrNotOffer)
	}

	return offer, nil
}

// Refund is a decoded BOLT12 refund: an invoice request the payee
// publishes to get money back, so amount and payer identity are mandatory.
type Refund struct {
	// Metadata is the payer's opaque blob.
	Metadata []byte

	// Chain is the genesis hash of the requested chain, nil meaning
	// Bitcoin mainnet.
	Chain *chainhash.Hash

	// AmountMsat is the refund amount in millisatoshis.
	AmountMsat uint64

	// Description explains what is being refunded.
	Description string

	// PayerID is the key the refund invoice must be locked to.
	PayerID *btcec.PublicKey

	// PayerNote is a free-form note from the payer.
	PayerNote string
}

// DecodeRefund parses an lnr1… refund string.
func DecodeRefund(s string) (*Refund, error) {
	hrp, raw, err := decodeNoChecksum(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRefund, err)
	}
	if hrp != refundHRP {
		return nil, fmt.Errorf("%w: hrp %q", ErrNotRefund, hrp)
	}

	var (
		metadata, description, chain []byte
		amount, features             []byte
		payerID, payerNote           []byte
	)
	stream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeRefundMetadata, &metadata),
		tlv.MakePrimitiveRecord(typeRefundDescription, &description),
		tlv.MakePrimitiveRecord(typeRefundChain, &chain),
		tlv.MakePrimitiveRecord(typeRefundAmount, &amount),
		tlv.MakePrimitiveRecord(typeRefundFeatures, &features),
		tlv.MakePrimitiveRecord(typeRefundPayerID, &payerID),
		tlv.MakePrimitiveRecord(typeRefundPayerNote, &payerNote),
	)
	if err != nil {
		return nil, err
	}
	parsed, err := stream.DecodeWithParsedTypes(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRefund, err)
	}

	if _, ok := parsed[typeRefundMetadata]; !ok || len(metadata) == 0 {
		return nil, fmt.Errorf("%w: missing metadata", ErrNotRefund)
	}
	refund := &Refund{Metadata: metadata}

	if refund.Description, err = parseText(description); err != nil {
		return nil, fmt.Errorf("%w: description: %v", ErrNotRefund,
			err)
	}
	if _, ok := parsed[typeRefundDescription]; !ok {
		return nil, fmt.Errorf("%w: missing description", ErrNotRefund)
	}

	if _, ok := parsed[typeRefundChain]; ok {
		hash, err := chainhash.NewHash(chain)
		if err != nil {
			return nil, fmt.Errorf("%w: chain: %v", ErrNotRefund,
				err)
		}
		refund.Chain = hash
	}

	if _, ok := parsed[typeRefundAmount]; !ok {
		return nil, fmt.Errorf("%w: missing amount", ErrNotRefund)
	}
	if refund.AmountMsat, err = parseTU64(amount); err != nil {
		return nil, fmt.Errorf("%w: amount: %v", ErrNotRefund, err)
	}

	if _, ok := parsed[typeRefundPayerID]; !ok {
		return nil, fmt.Errorf("%w: missing payer id", ErrNotRefund)
	}
	if refund.PayerID, err = btcec.ParsePubKey(payerID); err != nil {
		return nil, fmt.Errorf("%w: payer id: %v", ErrNotRefund, err)
	}

	if refund.PayerNote, err = parseText(payerNote); err != nil {
		return nil, fmt.Errorf("%w: payer note: %v", ErrNotRefund, err)
	}

	return refund, nil
}

// parseChains splits a concatenation of 32-byte genesis hashes.
func parseChains(b []byte) ([]chainhash.Hash, error) {
	if len(b)%chainhash.HashSize != 0 {
		return nil, fmt.Errorf("chains field is %d bytes", len(b))
	}
	chains := make([]chainhash.Hash, 0, len(b)/chainhash.HashSize)
	for i := 0; i < len(b); i += chainhash.HashSize {
		var hash chainhash.Hash
		copy(hash[:], b[i:i+chainhash.HashSize])
		chains = append(chains, hash)
	}
	return chains, nil
}

// parseTU64 decodes a truncated big-endian uint64: at most eight bytes
// with no leading zero byte.
func parseTU64(b []byte) (uint64, error) {
	if len(b) > 8 {
		return 0, fmt.Errorf("tu64 is %d bytes", len(b))
	}
	if len(b) > 0 && b[0] == 0 {
		return 0, errors.New("tu64 has a leading zero byte")
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// parseText validates a UTF-8 text field.
func parseText(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", errors.New("not valid utf8")
	}
	return string(b), nil
}
