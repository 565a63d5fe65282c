// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nostr

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/require"
)

const (
	sampleNpub = "npub1u8lnhlw5usp3t9vmpz60ejpyt649z33hu82wc2hpv6m5xdqmux" +
		"hs46turz"
	sampleNpubHex = "e1ff3bfdd4e40315959b08b4fcc8245eaa514637e1d4ec2ae166" +
		"b743341be1af"

	sampleAuth = "nostr+walletauth://b889ff5b1513b641e2a139f661a6613649" +
		"79c5beee91842f8f0ef42ab558e9d4?relay=wss%3A%2F%2Frelay.damus." +
		"io&secret=b8a30fafa48d4795b6c0eec169a383de&required_commands=" +
		"pay_invoice&optional_commands=get_balance&budget=10000%2Fdaily"
)

func TestParsePubKeyNpub(t *testing.T) {
	key, err := ParsePubKey(sampleNpub)
	require.NoError(t, err)
	require.Equal(t, sampleNpubHex,
		hex.EncodeToString(schnorr.SerializePubKey(key)))
}

func TestParsePubKeyHex(t *testing.T) {
	key, err := ParsePubKey(sampleNpubHex)
	require.NoError(t, err)
	require.Equal(t, sampleNpubHex,
		hex.EncodeToString(schnorr.SerializePubKey(key)))
}

func TestParsePubKeyRejects(t *testing.T) {
	tests := []string{
		"",
		"npub1qqqqqqqq", // bad checksum
		"e1ff3bfd",      // short hex
		// Compressed 33-byte secp key, not x-only.
		"03e7156ae33b0a208d0744199163177e909e80176e55d97a2f221ede0f934dd9ad",
	}
	for _, test := range tests {
		_, err := ParsePubKey(test)
		require.Errorf(t, err, "input %q", test)
	}
}

func TestParseAuthRequest(t *testing.T) {
	req, err := ParseAuthRequest(sampleAuth)
	require.NoError(t, err)

	require.Equal(t,
		"b889ff5b1513b641e2a139f661a661364979c5beee91842f8f0ef42ab558e9d4",
		hex.EncodeToString(schnorr.SerializePubKey(req.AppKey)))
	require.Equal(t, "wss://relay.damus.io", req.Relay.String())
	require.Equal(t, "b8a30fafa48d4795b6c0eec169a383de", req.Secret)
	require.Equal(t, []string{"pay_invoice"}, req.RequiredCommands)
	require.Equal(t, []string{"get_balance"}, req.OptionalCommands)
	require.NotNil(t, req.Budget)
	require.Equal(t, uint64(10000), req.Budget.Sats)
	require.Equal(t, BudgetDaily, req.Budget.Period)
}

func TestParseAuthRequestRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{{
		name:  "wrong scheme",
		input: "https://example.com?relay=wss%3A%2F%2Fr.io&secret=x",
	}, {
		name: "missing relay",
		input: "nostr+walletauth://b889ff5b1513b641e2a139f661a66136497" +
			"9c5beee91842f8f0ef42ab558e9d4?secret=x&required_comma" +
			"nds=pay_invoice",
	}, {
		name: "missing secret",
		input: "nostr+walletauth://b889ff5b1513b641e2a139f661a66136497" +
			"9c5beee91842f8f0ef42ab558e9d4?relay=wss%3A%2F%2Fr.io&" +
			"required_commands=pay_invoice",
	}, {
		name: "bad budget",
		input: "nostr+walletauth://b889ff5b1513b641e2a139f661a66136497" +
			"9c5beee91842f8f0ef42ab558e9d4?relay=wss%3A%2F%2Fr.io&" +
			"secret=x&required_commands=pay_invoice&budget=lots",
	}}
	for _, test := range tests {
		_, err := ParseAuthRequest(test.input)
		require.ErrorIsf(t, err, ErrInvalidAuthRequest, "case %s",
			test.name)
	}
}
