// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bip21 parses BIP21 payment URIs, including the lightning,
// b12 and payjoin extensions carried in the query string.
package bip21

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/bolt12"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/lightningnetwork/lnd/zpay32"
)

// URIScheme is the BIP21 scheme, matched case-insensitively.
const URIScheme = "bitcoin:"

var (
	// ErrScheme is returned when the input does not start with the
	// bitcoin: scheme.
	ErrScheme = errors.New("missing bitcoin: scheme")

	// ErrMissingEndpoint is returned when pjos appears without pj.
	ErrMissingEndpoint = errors.New("pjos without a pj endpoint")

	// ErrInsecureEndpoint is returned when the pj endpoint is neither
	// https nor an http onion service.
	ErrInsecureEndpoint = errors.New("insecure pj endpoint")

	// ErrNotUTF8 is returned when a percent-decoded query value is not
	// valid UTF-8.
	ErrNotUTF8 = errors.New("query value is not utf8")

	// ErrBadPayjoinFlag is returned when pjos is anything but 0 or 1.
	ErrBadPayjoinFlag = errors.New("pjos must be 0 or 1")
)

// DuplicateParamError is returned when a known query parameter appears
// more than once.
type DuplicateParamError struct {
	Key string
}

// Error implements the error interface.
func (e *DuplicateParamError) Error() string {
	return fmt.Sprintf("duplicate parameter %q", e.Key)
}

// RequiredParamError is returned for an unrecognized req- parameter,
// which BIP21 forbids ignoring.
type RequiredParamError struct {
	Key string
}

// Error implements the error interface.
func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("unknown required parameter %q", e.Key)
}

// addressNetworks is the probe order for address decoding. Testnet
// precedes signet so the shared tb prefix resolves to testnet, matching
// the legacy version byte behavior.
var addressNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.SigNetParams,
	&chaincfg.RegressionNetParams,
	&chaincfg.SimNetParams,
}

// DecodeAddress decodes an on-chain address and reports the network it
// belongs to.
func DecodeAddress(addr string) (btcutil.Address, *chaincfg.Params, error) {
	var firstErr error
	for _, params := range addressNetworks {
		decoded, err := btcutil.DecodeAddress(addr, params)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !decoded.IsForNet(params) {
			continue
		}
		// btcutil also accepts hex-serialized public keys as a pay to
		// pubkey destination. A bare pubkey is an identity, not an
		// address, so it is not recognized here.
		if _, ok := decoded.(*btcutil.AddressPubKey); ok {
			return nil, nil, errors.New("bare pubkey is not an " +
				"address")
		}
		return decoded, params, nil
	}
	if firstErr == nil {
		firstErr = errors.New("unknown address network")
	}
	return nil, nil, firstErr
}

// DecodeInvoice decodes a BOLT11 invoice and reports the network it was
// minted for.
func DecodeInvoice(invoice string) (*zpay32.Invoice, *chaincfg.Params,
	error) {

	// All-uppercase is the QR form; canonicalize before decoding.
	if !strings.ContainsFunc(invoice, unicode.IsLower) {
		invoice = strings.ToLower(invoice)
	}

	var firstErr error
	for _, params := range addressNetworks {
		decoded, err := zpay32.Decode(invoice, params)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return decoded, params, nil
	}
	return nil, nil, firstErr
}

// ExtraParams holds the decoded query string extensions of a URI.
type ExtraParams struct {
	// Lightning is the embedded BOLT11 invoice, if any.
	Lightning *zpay32.Invoice

	// LightningParams is the network the embedded invoice decoded
	// under.
	LightningParams *chaincfg.Params

	// Offer is the embedded BOLT12 offer, if any.
	Offer *bolt12.Offer

	// PayjoinEndpoint is the BIP78 pj endpoint, if any.
	PayjoinEndpoint *url.URL

	pjos fn.Option[bool]
}

// DisableOutputSubstitution reports the pjos flag, defaulting to false
// when absent.
func (e *ExtraParams) DisableOutputSubstitution() bool {
	return e.pjos.UnwrapOr(false)
}

// SupportsPayjoin reports whether the URI carries a payjoin endpoint.
func (e *ExtraParams) SupportsPayjoin() bool {
	return e.PayjoinEndpoint != nil
}

// finalize enforces the cross-parameter payjoin rules after the whole
// query string has been walked.
func (e *ExtraParams) finalize() error {
	if e.PayjoinEndpoint == nil {
		if e.pjos.IsSome() {
			return ErrMissingEndpoint
		}
		return nil
	}
	if secureEndpoint(e.PayjoinEndpoint) {
		return nil
	}
	return ErrInsecureEndpoint
}

// secureEndpoint reports whether an endpoint may carry payjoin traffic:
// https anywhere, plain http only toward an onion service.
func secureEndpoint(u *url.URL) bool {
	switch u.Scheme {
	case "https":
		return true
	case "http":
		return strings.HasSuffix(u.Hostname(), ".onion")
	default:
		return false
	}
}

// URI is a decoded BIP21 payment URI.
type URI struct {
	// Address is the on-chain destination.
	Address btcutil.Address

	// Params is the network the address decoded under.
	Params *chaincfg.Params

	// Amount is the requested amount, when stated.
	Amount fn.Option[btcutil.Amount]

	// Label names the recipient, when stated.
	Label fn.Option[string]

	// Message describes the payment, when stated.
	Message fn.Option[string]

	// Extras holds the recognized query string extensions.
	Extras ExtraParams
}

// Parse decodes a bitcoin: URI. The scheme is matched case-insensitively
// and unknown non-required parameters are ignored.
func Parse(uri string) (*URI, error) {
	if len(uri) < len(URIScheme) ||
		!strings.EqualFold(uri[:len(URIScheme)], URIScheme) {

		return nil, ErrScheme
	}
	rest := uri[len(URIScheme):]

	addrPart := rest
	query := ""
	if idx := strings.IndexByte(rest, '?'); idx != -1 {
		addrPart, query = rest[:idx], rest[idx+1:]
	}
	if addrPart == "" {
		return nil, ErrScheme
	}

	addr, params, err := DecodeAddress(addrPart)
	if err != nil {
		return nil, fmt.Errorf("bad address: %w", err)
	}
	out := &URI{Address: addr, Params: params}

	if query != "" {
		if err := out.parseQuery(query); err != nil {
			return nil, err
		}
	}
	if err := out.Extras.finalize(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseQuery walks the raw query string in order. The standard library
// query parser is not used because it folds duplicates and reorders
// keys, and duplicate detection needs the raw sequence.
func (u *URI) parseQuery(query string) error {
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, rawValue := pair, ""
		if idx := strings.IndexByte(pair, '='); idx != -1 {
			key, rawValue = pair[:idx], pair[idx+1:]
		}
		if err := u.applyParam(key, rawValue); err != nil {
			return err
		}
	}
	return nil
}

func (u *URI) applyParam(key, rawValue string) error {
	switch key {
	case "amount":
		if u.Amount.IsSome() {
			return &DuplicateParamError{Key: key}
		}
		amt, err := parseAmount(rawValue)
		if err != nil {
			return fmt.Errorf("bad amount: %w", err)
		}
		u.Amount = fn.Some(amt)
		return nil

	case "label":
		if u.Label.IsSome() {
			return &DuplicateParamError{Key: key}
		}
		value, err := unescapeText(rawValue)
		if err != nil {
			return fmt.Errorf("bad label: %w", err)
		}
		u.Label = fn.Some(value)
		return nil

	case "message":
		if u.Message.IsSome() {
			return &DuplicateParamError{Key: key}
		}
		value, err := unescapeText(rawValue)
		if err != nil {
			return fmt.Errorf("bad message: %w", err)
		}
		u.Message = fn.Some(value)
		return nil

	case "lightning":
		if u.Extras.Lightning != nil {
			return &DuplicateParamError{Key: key}
		}
		value, err := unescape(rawValue)
		if err != nil {
			return fmt.Errorf("bad lightning invoice: %w", err)
		}
		invoice, params, err := DecodeInvoice(value)
		if err != nil {
			return fmt.Errorf("bad lightning invoice: %w", err)
		}
		u.Extras.Lightning = invoice
		u.Extras.LightningParams = params
		return nil

	case "b12":
		if u.Extras.Offer != nil {
			return &DuplicateParamError{Key: key}
		}
		value, err := unescape(rawValue)
		if err != nil {
			return fmt.Errorf("bad offer: %w", err)
		}
		offer, err := bolt12.DecodeOffer(value)
		if err != nil {
			return fmt.Errorf("bad offer: %w", err)
		}
		u.Extras.Offer = offer
		return nil

	case "pj":
		if u.Extras.PayjoinEndpoint != nil {
			return &DuplicateParamError{Key: key}
		}
		value, err := unescapeText(rawValue)
		if err != nil {
			return ErrNotUTF8
		}
		endpoint, err := url.Parse(value)
		if err != nil {
			return fmt.Errorf("bad pj endpoint: %w", err)
		}
		u.Extras.PayjoinEndpoint = endpoint
		return nil

	case "pjos":
		if u.Extras.pjos.IsSome() {
			return &DuplicateParamError{Key: key}
		}
		switch rawValue {
		case "0":
			u.Extras.pjos = fn.Some(false)
		case "1":
			u.Extras.pjos = fn.Some(true)
		default:
			return ErrBadPayjoinFlag
		}
		return nil

	default:
		// Unknown parameters are ignored unless flagged required.
		if strings.HasPrefix(key, "req-") {
			return &RequiredParamError{Key: key}
		}
		return nil
	}
}

// parseAmount parses a decimal BTC amount. BIP21 only permits plain
// digits and a single decimal point, so the exponent and hex forms that
// ParseFloat would accept are rejected up front.
func parseAmount(s string) (btcutil.Amount, error) {
	if s == "" {
		return 0, errors.New("empty amount")
	}
	dots := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
		default:
			return 0, fmt.Errorf("bad amount character %q", r)
		}
	}
	if dots > 1 {
		return 0, errors.New("multiple decimal points")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return btcutil.NewAmount(f)
}

// unescape percent-decodes a query value. PathUnescape is used instead
// of QueryUnescape so a literal plus stays a plus, per RFC 3986.
func unescape(s string) (string, error) {
	return url.PathUnescape(s)
}

// unescapeText percent-decodes a human readable query value and rejects
// byte sequences that are not valid UTF-8.
func unescapeText(s string) (string, error) {
	value, err := unescape(s)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(value) {
		return "", ErrNotUTF8
	}
	return value, nil
}
