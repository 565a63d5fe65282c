// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package payscan classifies a user supplied payment string into one of a
fixed set of formats: on-chain addresses, BIP21 URIs, BOLT11 invoices,
BOLT12 offers and refunds, node ids, LNURLs, lightning addresses, nostr
identities and wallet auth requests, fedimint invite codes and notes,
and cashu tokens.

Classification is structural only. No network calls are made, no
signatures are verified beyond what decoding requires, and no payment
is ever executed. The resulting Descriptor answers the same semantic
questions (amount, memo, network, recipient) across all formats.
*/
package payscan
