// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fedimint decodes the two fedimint identifiers carried in payment
// strings: federation invite codes (bech32m under the fed1 hrp) and
// out-of-band ecash notes. Notes are bearer value, so parsing validates
// structure and sums the denomination of every note without talking to any
// federation.
package fedimint

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/lightningnetwork/lnd/tlv"
)

// inviteHRP is the human readable part of federation invite codes.
const inviteHRP = "fed1"

var (
	// ErrNotInviteCode is returned when a string is not a federation
	// invite code.
	ErrNotInviteCode = errors.New("not a fedimint invite code")

	// ErrNoNotes is returned when a notes payload decodes but contains
	// no spendable notes.
	ErrNoNotes = errors.New("payload carries no notes")
)

// ParseInviteCode checks that the given string is a well formed federation
// invite code and returns it unchanged. The payload guts (guardian URLs,
// federation id) stay opaque; wallets hand the full code to their fedimint
// client.
func ParseInviteCode(s string) (string, error) {
	hrp, data, err := bech32.DecodeNoLimit(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotInviteCode, err)
	}
	if hrp != inviteHRP {
		return "", fmt.Errorf("%w: hrp %q", ErrNotInviteCode, hrp)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrNotInviteCode)
	}
	return s, nil
}

// Wire framing of an out-of-band notes payload. The base64 body is a
// varint-counted vector of tagged parts; unknown tags are skipped so older
// decoders survive additions.
const (
	partTagNotes      = 0
	partTagFederation = 1

	spendKeyLen  = 32
	signatureLen = 48

	// maxNotes bounds a single payload; anything larger is not a real
	// note bundle.
	maxNotes = 1 << 16
)

// Note is a single ecash note: a denomination plus the key pair and mint
// signature that make it spendable.
type Note struct {
	// AmountMsat is the note's denomination in millisatoshis.
	AmountMsat uint64

	// SpendKey is the secret spend key for the note.
	SpendKey [spendKeyLen]byte

	// Signature is the federation's blind signature over the note.
	Signature [signatureLen]byte
}

// OOBNotes is a decoded out-of-band notes payload.
type OOBNotes struct {
	// FederationPrefix identifies the issuing federation, when the
	// sender included it.
	FederationPrefix *[4]byte

	// Notes are the spendable notes, in wire order.
	Notes []Note
}

// ParseNotes decodes a base64 out-of-band notes payload.
func ParseNotes(s string) (*OOBNotes, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("notes body: %w", err)
	}

	r := bytes.NewReader(raw)
	var buf [8]byte

	partCount, err := tlv.ReadVarInt(r, &buf)
	if err != nil {
		return nil, fmt.Errorf("part count: %w", err)
	}
	if partCount == 0 || partCount > 16 {
		return nil, fmt.Errorf("implausible part count %d", partCount)
	}

	var notes *OOBNotes
	for i := uint64(0); i < partCount; i++ {
		tag, err := tlv.ReadVarInt(r, &buf)
		if err != nil {
			return nil, fmt.Errorf("part tag: %w", err)
		}
		length, err := tlv.ReadVarInt(r, &buf)
		if err != nil {
			return nil, fmt.Errorf("part length: %w", err)
		}
		if length > uint64(r.Len()) {
			return nil, fmt.Errorf("part length %d exceeds "+
				"remaining payload", length)
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}

		switch tag {
		case partTagNotes:
			if notes != nil && len(notes.Notes) > 0 {
				return nil, errors.New("duplicate notes part")
			}
			decoded, err := parseNotesPart(payload)
			if err != nil {
				return nil, err
			}
			if notes == nil {
				notes = &OOBNotes{}
			}
			notes.Notes = decoded

		case partTagFederation:
			if len(payload) != 4 {
				return nil, fmt.Errorf("federation prefix is "+
					"%d bytes, want 4", len(payload))
			}
			if notes == nil {
				notes = &OOBNotes{}
			}
			var prefix [4]byte
			copy(prefix[:], payload)
			notes.FederationPrefix = &prefix

		default:
			// Unknown part, skip.
		}
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after final part",
			r.Len())
	}
	if notes == nil || len(notes.Notes) == 0 {
		return nil, ErrNoNotes
	}

	return notes, nil
}

func parseNotesPart(payload []byte) ([]Note, error) {
	r := bytes.NewReader(payload)
	var buf [8]byte

	count, err := tlv.ReadVarInt(r, &buf)
	if err != nil {
		return nil, fmt.Errorf("note count: %w", err)
	}
	if count == 0 || count > maxNotes {
		return nil, fmt.Errorf("implausible note count %d", count)
	}

	notes := make([]Note, 0, count)
	for i := uint64(0); i < count; i++ {
		var note Note
		note.AmountMsat, err = tlv.ReadVarInt(r, &buf)
		if err != nil {
			return nil, fmt.Errorf("note amount: %w", err)
		}
		if note.AmountMsat == 0 {
			return nil, errors.New("zero denomination note")
		}
		if _, err := io.ReadFull(r, note.SpendKey[:]); err != nil {
			return nil, fmt.Errorf("note spend key: %w", err)
		}
		if _, err := io.ReadFull(r, note.Signature[:]); err != nil {
			return nil, fmt.Errorf("note signature: %w", err)
		}
		notes = append(notes, note)
	}
	if r.Len() != 0 {
		return nil, errors.New("trailing bytes in notes part")
	}

	return notes, nil
}

// TotalMsat sums the denomination of every note.
func (n *OOBNotes) TotalMsat() uint64 {
	var total uint64
	for _, note := range n.Notes {
		total += note.AmountMsat
	}
	return total
}

// Encode serializes the notes back into their base64 wire form.
func (n *OOBNotes) Encode() (string, error) {
	var notesPart bytes.Buffer
	var buf [8]byte
	if err := tlv.WriteVarInt(&notesPart, uint64(len(n.Notes)),
		&buf); err != nil {

		return "", err
	}
	for _, note := range n.Notes {
		err := tlv.WriteVarInt(&notesPart, note.AmountMsat, &buf)
		if err != nil {
			return "", err
		}
		if _, err := notesPart.Write(note.SpendKey[:]); err != nil {
			return "", err
		}
		if _, err := notesPart.Write(note.Signature[:]); err != nil {
			return "", err
		}
	}

	var out bytes.Buffer
	partCount := uint64(1)
	if n.FederationPrefix != nil {
		partCount++
	}
	if err := tlv.WriteVarInt(&out, partCount, &buf); err != nil {
		return "", err
	}
	if n.FederationPrefix != nil {
		err := writePart(&out, partTagFederation,
			n.FederationPrefix[:], &buf)
		if err != nil {
			return "", err
		}
	}
	err := writePart(&out, partTagNotes, notesPart.Bytes(), &buf)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

func writePart(w io.Writer, tag uint64, payload []byte,
	buf *[8]byte) error {

	if err := tlv.WriteVarInt(w, tag, buf); err != nil {
		return err
	}
	if err := tlv.WriteVarInt(w, uint64(len(payload)), buf); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
