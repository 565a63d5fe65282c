// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnrecognized is returned when no format accepts the input.
	ErrUnrecognized = errors.New("unrecognized payment string")

	// ErrSchemeMismatch is returned when an explicit scheme prefix was
	// present but its payload did not parse as anything valid under
	// that scheme.
	ErrSchemeMismatch = errors.New("payload not valid for scheme")
)

// SchemeError reports which scheme prefix matched when the payload
// failed to parse. It unwraps to ErrSchemeMismatch.
type SchemeError struct {
	// Scheme is the matched prefix, without the trailing colon.
	Scheme string
}

// Error implements the error interface.
func (e *SchemeError) Error() string {
	return fmt.Sprintf("%s: payload not valid for scheme %q",
		ErrSchemeMismatch, e.Scheme)
}

// Unwrap implements the errors.Is chain.
func (e *SchemeError) Unwrap() error {
	return ErrSchemeMismatch
}

// parseFunc attempts to read a string as one concrete format.
type parseFunc func(string) (Descriptor, error)

// try lifts a concrete parser to a parseFunc.
func try[T Descriptor](parse func(string) (T, error)) parseFunc {
	return func(s string) (Descriptor, error) {
		d, err := parse(s)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// schemeParsers maps explicit scheme prefixes to the parsers valid
// under each scheme, in attempt order. A matched scheme never falls
// through to the unprefixed chain: the prefix states the author's
// intent, so a payload that fits nothing under it is an error.
var schemeParsers = []struct {
	scheme  string
	parsers []parseFunc
}{{
	scheme: "lightning:",
	parsers: []parseFunc{
		try(parseInvoice),
		try(parseResolvable),
		try(parseHumanReadable),
		try(parseOffer),
		try(parseRefund),
	},
}, {
	scheme: "lnurl:",
	parsers: []parseFunc{
		try(parseResolvable),
		try(parseHumanReadable),
	},
}, {
	scheme: "lnurlp:",
	parsers: []parseFunc{
		try(parseResolvable),
		try(parseHumanReadable),
	},
}, {
	scheme: "nostr:",
	parsers: []parseFunc{
		try(parseOtherIdentity),
	},
}, {
	scheme: "fedimint:",
	parsers: []parseFunc{
		try(parseInviteCode),
	},
}}

// fallbackParsers is the unprefixed chain. The order is a compatibility
// contract: several formats are structurally ambiguous under naive
// checks (a 33-byte node id and a 32-byte nostr key are both bare hex),
// so the first accepting parser wins deterministically and tests pin
// the sequence.
var fallbackParsers = []parseFunc{
	try(parseOnChain),
	try(parseInvoice),
	try(parseURI),
	try(parseHumanReadable),
	try(parseResolvable),
	try(parseNodeID),
	try(parseOffer),
	try(parseRefund),
	try(parseOtherIdentity),
	try(parseAuthRequest),
	try(parseInviteCode),
	try(parseBearerToken),
	try(parseRedeemableNotes),
}

// Classify decides which payment format a string represents. Exactly
// one descriptor variant is produced, or an error when nothing matches.
// The function is pure: no I/O, no resolution of endpoints, repeated
// calls on the same input yield the same result.
func Classify(raw string) (Descriptor, error) {
	// Only the prefix window is case folded. Payloads stay untouched
	// since bech32 and base64 payloads are case sensitive and are
	// normalized by their own parsers.
	for _, entry := range schemeParsers {
		if !hasScheme(raw, entry.scheme) {
			continue
		}
		payload := raw[len(entry.scheme):]
		for _, parse := range entry.parsers {
			d, err := parse(payload)
			if err == nil {
				log.Tracef("Classified %s input as %T",
					entry.scheme, d)
				return d, nil
			}
		}
		return nil, &SchemeError{
			Scheme: strings.TrimSuffix(entry.scheme, ":"),
		}
	}

	for _, parse := range fallbackParsers {
		d, err := parse(raw)
		if err == nil {
			log.Tracef("Classified input as %T", d)
			return d, nil
		}
	}
	return nil, ErrUnrecognized
}

// hasScheme matches a scheme prefix case-insensitively.
func hasScheme(s, scheme string) bool {
	return len(s) >= len(scheme) &&
		strings.EqualFold(s[:len(scheme)], scheme)
}
