// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fedimint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleInvite = "fed11jpr3lgm8tuhcky2r3g287tgk9du7dd7kr95fptdsmkca7cw" +
	"cvyu0lyqeh0e6rgp4u0shxsfaxycpwqpfwaehxw309askcurgvyhx6at5d9h8jmn9ws" +
	"knqvfwv3jhvtnxv4jxjcn5vvhxxmmd9udpnpn49yg9w98dejw9u76hmm9"

// sampleNotes holds two notes (2000 and 8000 msat) under federation prefix
// c8d42396, encoded with the wire framing this package defines.
const sampleNotes = "AgEEyNQjlgCnAv0H0BERERERERERERERERERERERERERERER" +
	"ERERERERERERIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiI" +
	"iIiIiIiIiIi/R9AMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzNEREREREREREREREREREREREREREREREREREREREREREREREREREREREREREREREQ="

func TestParseInviteCode(t *testing.T) {
	code, err := ParseInviteCode(sampleInvite)
	require.NoError(t, err)
	require.Equal(t, sampleInvite, code)
}

func TestParseInviteCodeRejects(t *testing.T) {
	tests := []string{
		"",
		"fed1",
		// Valid bech32, wrong hrp.
		"npub1u8lnhlw5usp3t9vmpz60ejpyt649z33hu82wc2hpv6m5xdqmuxhs46turz",
		// Mangled checksum.
		sampleInvite[:len(sampleInvite)-1] + "x",
	}
	for _, test := range tests {
		_, err := ParseInviteCode(test)
		require.ErrorIsf(t, err, ErrNotInviteCode, "input %q", test)
	}
}

func TestParseNotes(t *testing.T) {
	notes, err := ParseNotes(sampleNotes)
	require.NoError(t, err)

	require.NotNil(t, notes.FederationPrefix)
	require.Equal(t, [4]byte{0xc8, 0xd4, 0x23, 0x96},
		*notes.FederationPrefix)
	require.Len(t, notes.Notes, 2)
	require.Equal(t, uint64(2000), notes.Notes[0].AmountMsat)
	require.Equal(t, uint64(8000), notes.Notes[1].AmountMsat)
	require.Equal(t, uint64(10000), notes.TotalMsat())
}

func TestNotesEncodeRoundTrip(t *testing.T) {
	notes, err := ParseNotes(sampleNotes)
	require.NoError(t, err)

	enc, err := notes.Encode()
	require.NoError(t, err)
	require.Equal(t, sampleNotes, enc)
}

func TestParseNotesRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{{
		name:  "not base64",
		input: "!!!",
	}, {
		name:  "empty",
		input: "",
	}, {
		name: "truncated",
		// Valid base64 of a truncated payload.
		input: sampleNotes[:40],
	}, {
		name: "no notes part",
		// Single federation part, no notes: 01 01 04 c8d42396.
		input: "AQEEyNQjlg==",
	}}
	for _, test := range tests {
		_, err := ParseNotes(test.input)
		require.Errorf(t, err, "case %s", test.name)
	}
}
