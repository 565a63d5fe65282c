// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cashu decodes cashu ecash tokens (NUT-00, V3 serialization).
// Tokens are bearer instruments: the decoded proofs are the value itself,
// so decoding performs structural validation only and never contacts a
// mint.
package cashu

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// tokenPrefix introduces every V3 serialized token.
const tokenPrefix = "cashuA"

var (
	// ErrNotToken is returned when a string does not carry the cashu V3
	// prefix.
	ErrNotToken = errors.New("not a cashu token")

	// ErrEmptyToken is returned for structurally valid tokens holding no
	// proofs.
	ErrEmptyToken = errors.New("cashu token carries no proofs")
)

// Proof is a single blind signed note. Amount is denominated in the token's
// unit (satoshis for every token this package expects to see).
type Proof struct {
	Amount uint64 `json:"amount"`
	ID     string `json:"id"`
	Secret string `json:"secret"`
	C      string `json:"C"`
}

// Entry groups the proofs issued by one mint.
type Entry struct {
	Mint   string  `json:"mint"`
	Proofs []Proof `json:"proofs"`
}

// Token is a decoded V3 cashu token.
type Token struct {
	Entries []Entry `json:"token"`
	Unit    string  `json:"unit,omitempty"`
	Memo    string  `json:"memo,omitempty"`
}

// ParseToken decodes a cashuA… string. The base64 body is accepted with or
// without padding since both forms circulate.
func ParseToken(s string) (*Token, error) {
	if !strings.HasPrefix(s, tokenPrefix) {
		return nil, ErrNotToken
	}
	body := s[len(tokenPrefix):]

	raw, err := base64.URLEncoding.WithPadding(base64.NoPadding).
		DecodeString(strings.TrimRight(body, "="))
	if err != nil {
		return nil, fmt.Errorf("cashu token body: %w", err)
	}

	var token Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("cashu token json: %w", err)
	}

	total := uint64(0)
	for _, entry := range token.Entries {
		if entry.Mint == "" {
			return nil, errors.New("cashu token entry lacks a mint")
		}
		for _, proof := range entry.Proofs {
			if proof.Amount == 0 || proof.Secret == "" ||
				proof.C == "" {

				return nil, errors.New("cashu token proof is " +
					"incomplete")
			}
			total += proof.Amount
		}
	}
	if total == 0 {
		return nil, ErrEmptyToken
	}

	return &token, nil
}

// TotalAmount sums the value of every proof across all mints, in the
// token's unit.
func (t *Token) TotalAmount() uint64 {
	var total uint64
	for _, entry := range t.Entries {
		for _, proof := range entry.Proofs {
			total += proof.Amount
		}
	}
	return total
}
