// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bolt12

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// charset is the bech32 alphabet. BOLT12 strings use the bech32 character
// set but carry no checksum, so the stock decoder cannot be used directly.
const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}
	return rev
}()

// ErrMixedCase is returned for strings mixing upper and lower case, which
// the bech32 rules forbid.
var ErrMixedCase = errors.New("string is mixed case")

// decodeNoChecksum decodes a checksum-less bech32 string into its human
// readable part and 8-bit payload. BOLT12 "+" continuations (optionally
// surrounded by whitespace) are stitched back together first.
func decodeNoChecksum(s string) (string, []byte, error) {
	if parts := strings.Split(s, "+"); len(parts) > 1 {
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		s = strings.Join(parts, "")
	}

	lower := strings.ToLower(s)
	if s != lower && s != strings.ToUpper(s) {
		return "", nil, ErrMixedCase
	}
	s = lower

	sep := strings.LastIndexByte(s, '1')
	if sep < 1 || sep+1 >= len(s) {
		return "", nil, errors.New("missing separator")
	}
	hrp := s[:sep]

	data := make([]byte, 0, len(s)-sep-1)
	for _, c := range s[sep+1:] {
		if c >= 128 || charsetRev[c] == -1 {
			return "", nil, fmt.Errorf("invalid character %q", c)
		}
		data = append(data, byte(charsetRev[c]))
	}

	converted, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, err
	}

	return hrp, converted, nil
}
