// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lnurl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sampleLNURL = "LNURL1DP68GURN8GHJ7UM9WFMXJCM99E3K7MF0V9CXJ0M385EKVCE" +
		"NXC6R2C35XVUKXEFCV5MKVV34X5EKZD3EV56NYD3HXQURZEPEXEJXXEPNXSC" +
		"RVWFNV9NXZCN9XQ6XYEFHVGCXXCMYXYMNSERXFQ5FNS"

	sampleLNURLTarget = "https://service.com/api?q=3fc3645b439ce8e7f2553a6" +
		"9e5267081d96dcd340693afabe04be7b0ccd178df"
)

func TestDecode(t *testing.T) {
	l, err := Decode(sampleLNURL)
	require.NoError(t, err)
	require.Equal(t, sampleLNURLTarget, l.URL.String())
	require.False(t, l.IsAuth())

	// Lower case must decode to the same endpoint.
	l2, err := Decode(strings.ToLower(sampleLNURL))
	require.NoError(t, err)
	require.Equal(t, l.URL.String(), l2.URL.String())
}

func TestDecodeRejectsWrongHRP(t *testing.T) {
	// A valid bech32 string under a different hrp must not decode.
	_, err := Decode("npub1u8lnhlw5usp3t9vmpz60ejpyt649z33hu82wc2hpv6m5x" +
		"dqmuxhs46turz")
	require.ErrorIs(t, err, ErrInvalidHRP)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("not an lnurl at all")
	require.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	enc, err := Encode(sampleLNURLTarget)
	require.NoError(t, err)
	require.Equal(t, sampleLNURL, enc)
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("ben@opreturnbot.com")
	require.NoError(t, err)
	require.Equal(t, "ben", addr.Local)
	require.Equal(t, "opreturnbot.com", addr.Domain)
	require.Equal(t, "https://opreturnbot.com/.well-known/lnurlp/ben",
		addr.LNURLPURL().String())
	require.Equal(t, "ben@opreturnbot.com", addr.String())
}

func TestParseAddressRejects(t *testing.T) {
	tests := []string{
		"",
		"ben",
		"@opreturnbot.com",
		"ben@",
		"ben@localhost",
		"ben@two@ats.com",
		"spaced name@example.com",
		"ben@bad domain.com",
	}
	for _, test := range tests {
		_, err := ParseAddress(test)
		require.ErrorIsf(t, err, ErrInvalidAddress, "input %q", test)
	}
}
