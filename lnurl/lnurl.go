// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package lnurl implements offline decoding of LNURL strings (LUD-01) and
// lightning addresses (LUD-16). No network resolution is performed; callers
// receive the callback URL and decide whether and how to fetch it.
package lnurl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// hrp is the human readable part every LNURL string is encoded under.
const hrp = "lnurl"

var (
	// ErrInvalidHRP is returned when a bech32 string does not carry the
	// lnurl human readable part.
	ErrInvalidHRP = errors.New("incorrect hrp for LNURL")

	// ErrInvalidAddress is returned when a string is not a well formed
	// lightning address.
	ErrInvalidAddress = errors.New("invalid lightning address")
)

// LNURL is a decoded LNURL payload: a direct callback URL for the wallet to
// contact.
type LNURL struct {
	// URL is the decoded callback endpoint.
	URL *url.URL
}

// Decode parses a bech32 encoded LNURL string. The input may be upper or
// lower case, but not mixed, per the bech32 rules.
func Decode(s string) (*LNURL, error) {
	gotHRP, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return nil, err
	}
	if gotHRP != hrp {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrInvalidHRP,
			hrp, gotHRP)
	}

	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(string(conv))
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("lnurl payload %q is not an absolute "+
			"URL", string(conv))
	}

	return &LNURL{URL: u}, nil
}

// Encode converts a raw callback URL into its bech32 LNURL form. The result
// is upper case, the conventional presentation for QR codes.
func Encode(rawURL string) (string, error) {
	conv, err := bech32.ConvertBits([]byte(rawURL), 8, 5, true)
	if err != nil {
		return "", err
	}

	str, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", err
	}

	return strings.ToUpper(str), nil
}

// IsAuth reports whether the decoded endpoint is an LUD-04 authorization
// request rather than a payment endpoint.
func (l *LNURL) IsAuth() bool {
	return l.URL.Query().Get("tag") == "login"
}

// Address is a human readable lightning address of the form user@domain
// (LUD-16). It resolves lazily: LNURLPURL derives the pay endpoint without
// any network traffic.
type Address struct {
	// Local is the user part, left of the @ separator.
	Local string

	// Domain is the host part, right of the @ separator.
	Domain string
}

// validLocal reports whether the user part only uses the character set
// permitted by LUD-16.
func validLocal(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return s != ""
}

// ParseAddress parses a user@domain lightning address. The domain must look
// like a hostname with at least one label separator so that bare words and
// bech32 blobs are not mistaken for addresses.
func ParseAddress(s string) (*Address, error) {
	local, domain, found := strings.Cut(s, "@")
	if !found || strings.Contains(domain, "@") {
		return nil, ErrInvalidAddress
	}
	if !validLocal(strings.ToLower(local)) {
		return nil, fmt.Errorf("%w: bad user part %q",
			ErrInvalidAddress, local)
	}
	if domain == "" || !strings.Contains(domain, ".") ||
		strings.ContainsAny(domain, " /?#") {

		return nil, fmt.Errorf("%w: bad domain %q", ErrInvalidAddress,
			domain)
	}

	return &Address{Local: local, Domain: domain}, nil
}

// LNURLPURL derives the LUD-16 pay endpoint for the address.
func (a *Address) LNURLPURL() *url.URL {
	return &url.URL{
		Scheme: "https",
		Host:   a.Domain,
		Path:   "/.well-known/lnurlp/" + a.Local,
	}
}

// LNURL re-encodes the derived pay endpoint as a bech32 LNURL so that
// callers handling both forms can normalize to one.
func (a *Address) LNURL() (*LNURL, error) {
	u, err := url.Parse(a.LNURLPURL().String())
	if err != nil {
		return nil, err
	}
	return &LNURL{URL: u}, nil
}

// String implements fmt.Stringer.
func (a *Address) String() string {
	return a.Local + "@" + a.Domain
}
