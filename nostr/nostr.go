// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nostr decodes the nostr flavored identifiers that show up in
// payment strings: bech32 npub public keys, bare x-only hex keys, and
// nostr+walletauth wallet authorization URIs.
package nostr

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// pubKeyHRP is the bech32 human readable part for nostr public keys
// (NIP-19).
const pubKeyHRP = "npub"

var (
	// ErrInvalidKey is returned when a string is neither a valid hex nor
	// bech32 nostr public key.
	ErrInvalidKey = errors.New("invalid nostr public key")

	// ErrInvalidAuthRequest is returned for malformed wallet
	// authorization URIs.
	ErrInvalidAuthRequest = errors.New("invalid wallet auth request")
)

// ParsePubKey decodes a nostr public key, accepting the 32-byte x-only hex
// form first and the npub bech32 form second.
func ParsePubKey(s string) (*btcec.PublicKey, error) {
	if key, err := parseHexKey(s); err == nil {
		return key, nil
	}
	return parseNpub(s)
}

func parseHexKey(s string) (*btcec.PublicKey, error) {
	if len(s) != hex.EncodedLen(schnorr.PubKeyBytesLen) {
		return nil, fmt.Errorf("%w: wrong hex length %d",
			ErrInvalidKey, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return schnorr.ParsePubKey(raw)
}

func parseNpub(s string) (*btcec.PublicKey, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if hrp != pubKeyHRP {
		return nil, fmt.Errorf("%w: hrp %q", ErrInvalidKey, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != schnorr.PubKeyBytesLen {
		return nil, fmt.Errorf("%w: %d byte payload", ErrInvalidKey,
			len(raw))
	}
	return schnorr.ParsePubKey(raw)
}

// BudgetPeriod is the renewal period of an authorization budget.
type BudgetPeriod string

// Budget renewal periods understood by wallet auth requests.
const (
	BudgetDaily   BudgetPeriod = "daily"
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
	BudgetYearly  BudgetPeriod = "yearly"
)

// Budget is an optional spending cap attached to a wallet authorization,
// denominated in satoshis per period.
type Budget struct {
	Sats   uint64
	Period BudgetPeriod
}

// AuthRequest is a parsed nostr+walletauth URI: an application asking a
// wallet for permission to issue the listed commands over the given relay.
type AuthRequest struct {
	// AppKey is the requesting application's identity key.
	AppKey *btcec.PublicKey

	// Relay is the websocket relay the wallet should answer on.
	Relay *url.URL

	// Secret is the opaque pairing secret echoed back by the wallet.
	Secret string

	// RequiredCommands are the permission scopes the app cannot work
	// without.
	RequiredCommands []string

	// OptionalCommands are scopes the wallet may grant at its
	// discretion.
	OptionalCommands []string

	// Budget is the requested spending cap, nil when the app asked for
	// none.
	Budget *Budget
}

// authScheme is the URI scheme carrying wallet authorization requests.
const authScheme = "nostr+walletauth"

// ParseAuthRequest parses a nostr+walletauth URI. Relay, secret and at
// least one required command are mandatory.
func ParseAuthRequest(s string) (*AuthRequest, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAuthRequest, err)
	}
	if u.Scheme != authScheme {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidAuthRequest,
			u.Scheme)
	}

	appKey, err := parseHexKey(u.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: bad app key: %v",
			ErrInvalidAuthRequest, err)
	}

	q := u.Query()

	relayStr := q.Get("relay")
	if relayStr == "" {
		return nil, fmt.Errorf("%w: missing relay",
			ErrInvalidAuthRequest)
	}
	relay, err := url.Parse(relayStr)
	if err != nil || (relay.Scheme != "wss" && relay.Scheme != "ws") {
		return nil, fmt.Errorf("%w: bad relay %q",
			ErrInvalidAuthRequest, relayStr)
	}

	secret := q.Get("secret")
	if secret == "" {
		return nil, fmt.Errorf("%w: missing secret",
			ErrInvalidAuthRequest)
	}

	required := splitCommands(q.Get("required_commands"))
	if len(required) == 0 {
		return nil, fmt.Errorf("%w: missing required_commands",
			ErrInvalidAuthRequest)
	}

	req := &AuthRequest{
		AppKey:           appKey,
		Relay:            relay,
		Secret:           secret,
		RequiredCommands: required,
		OptionalCommands: splitCommands(q.Get("optional_commands")),
	}

	if b := q.Get("budget"); b != "" {
		budget, err := parseBudget(b)
		if err != nil {
			return nil, err
		}
		req.Budget = budget
	}

	return req, nil
}

// splitCommands splits a command list on spaces or commas, both of which
// appear in the wild.
func splitCommands(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	})
}

func parseBudget(s string) (*Budget, error) {
	amtStr, periodStr, found := strings.Cut(s, "/")
	if !found {
		return nil, fmt.Errorf("%w: budget %q lacks a period",
			ErrInvalidAuthRequest, s)
	}
	sats, err := strconv.ParseUint(amtStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: budget amount %q",
			ErrInvalidAuthRequest, amtStr)
	}

	period := BudgetPeriod(strings.ToLower(periodStr))
	switch period {
	case BudgetDaily, BudgetWeekly, BudgetMonthly, BudgetYearly:
	default:
		return nil, fmt.Errorf("%w: budget period %q",
			ErrInvalidAuthRequest, periodStr)
	}

	return &Budget{Sats: sats, Period: period}, nil
}
