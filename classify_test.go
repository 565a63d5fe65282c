// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package payscan

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/payscan/fedimint"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"github.com/stretchr/testify/require"
)

const (
	samplePubKey = "03e7156ae33b0a208d0744199163177e909e80176e55d97a2f2" +
		"21ede0f934dd9ad"

	sampleAddress = "1andreas3batLhQa2FawWjeyjCqyBzypd"

	// sampleInvoice is a 20 millibitcoin mainnet invoice carrying a
	// description hash and an on-chain fallback address.
	sampleInvoice = "lnbc20m1pvjluezsp5zyg3zyg3zyg3zyg3zyg3zyg3zyg3zyg" +
		"3zyg3zyg3zyg3zyg3zygspp5qqqsyqcyq5rqwzqfqqqsyqcyq5rqwzqfqq" +
		"qsyqcyq5rqwzqfqypqhp58yjmdan79s6qqdhdzgynm4zwqd5d7xmw5fk98" +
		"klysy043l2ahrqsfpp3qjmp7lwpagxun9pygexvgpjdc4jdj85fr9yq20q" +
		"82gphp2nflc7jtzrcazrra7wwgzxqc8u7754cdlpfrmccae92qgzqvzq2p" +
		"s8pqqqqqqpqqqqq9qqqvpeuqafqxu92d8lr6fvg0r5gv0heeeqgcrqlnm6" +
		"jhphu9y00rrhy4grqszsvpcgpy9qqqqqqgqqqqq7qqzq9qrsgqdfjcdk6w" +
		"3ak5pca9hwfwfh63zrrz06wwfya0ydlzpgzxkn5xagsqz7x9j4jwe7yj7v" +
		"af2k9lqsdk45kts2fd0fkr28am0u4w95tt2nsq76cqw0"

	sampleOffer = "lno1qgs0v8hw8d368q9yw7sx8tejk2aujlyll8cp7tzzyh5h8xy" +
		"ppqqqqqqgqvqcdgq2qenxzatrv46pvggrv64u366d5c0rr2xjc3fq6vw2h" +
		"h6ce3f9p7z4v4ee0u7avfynjw9q"

	sampleRefund = "lnr1qqsqzqgpqyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqszq" +
		"gpqyqszqg2qdnx7m6jqgp7skppq0n326hr8v9zprg8gsvezcch06gfaqqh" +
		"de2aj730yg0durunfhv66"

	sampleBIP21 = "bitcoin:1andreas3batLhQa2FawWjeyjCqyBzypd?amount=50" +
		"&label=Luke-Jr&message=Donation%20for%20project%20xyz"

	sampleLNURL = "LNURL1DP68GURN8GHJ7UM9WFMXJCM99E3K7MF0V9CXJ0M385EKV" +
		"CENXC6R2C35XVUKXEFCV5MKVV34X5EKZD3EV56NYD3HXQURZEPEXEJXXEP" +
		"NXSCRVWFNV9NXZCN9XQ6XYEFHVGCXXCMYXYMNSERXFQ5FNS"

	sampleLightningAddr = "ben@opreturnbot.com"

	sampleNpub = "npub1u8lnhlw5usp3t9vmpz60ejpyt649z33hu82wc2hpv6m5xdq" +
		"muxhs46turz"

	sampleNpubHex = "e1ff3bfdd4e40315959b08b4fcc8245eaa514637e1d4ec2ae1" +
		"66b743341be1af"

	sampleAuth = "nostr+walletauth://b889ff5b1513b641e2a139f661a6613649" +
		"79c5beee91842f8f0ef42ab558e9d4?relay=wss%3A%2F%2Frelay.dam" +
		"us.io&secret=b8a30fafa48d4795b6c0eec169a383de&required_com" +
		"mands=pay_invoice&optional_commands=get_balance&budget=100" +
		"00%2Fdaily"

	sampleInvite = "fed11jpr3lgm8tuhcky2r3g287tgk9du7dd7kr95fptdsmkca7" +
		"cwcvyu0lyqeh0e6rgp4u0shxsfaxycpwqpfwaehxw309askcurgvyhx6at" +
		"5d9h8jmn9wsknqvfwv3jhvtnxv4jxjcn5vvhxxmmd9udpnpn49yg9w98de" +
		"jw9u76hmm9"

	sampleCashu = "cashuAeyJ0b2tlbiI6W3sibWludCI6Imh0dHBzOi8vODMzMy5zc" +
		"GFjZTozMzM4IiwicHJvb2ZzIjpbeyJhbW91bnQiOjIsImlkIjoiMDA5YTF" +
		"mMjkzMjUzZTQxZSIsInNlY3JldCI6IjQwNzkxNWJjMjEyYmU2MWE3N2UzZ" +
		"TZkMmFlYjRjNzI3OTgwYmRhNTFjZDA2YTZhZmMyOWUyODYxNzY4YTc4Mzc" +
		"iLCJDIjoiMDJiYzkwOTc5OTdkODFhZmIyY2M3MzQ2YjVlNDM0NWE5MzQ2Y" +
		"mQyYTUwNmViNzk1ODU5OGE3MmYwY2Y4NTE2M2VhIn0seyJhbW91bnQiOjg" +
		"sImlkIjoiMDA5YTFmMjkzMjUzZTQxZSIsInNlY3JldCI6ImZlMTUxMDkzM" +
		"TRlNjFkNzc1NmIwZjhlZTBmMjNhNjI0YWNhYTNmNGUwNDJmNjE0MzNjNzI" +
		"4YzcwNTdiOTMxYmUiLCJDIjoiMDI5ZThlNTA1MGI4OTBhN2Q2YzA5NjhkY" +
		"jE2YmMxZDVkNWZhMDQwZWExZGUyODRmNmVjNjlkNjEyOTlmNjcxMDU5In1" +
		"dfV0sInVuaXQiOiJzYXQiLCJtZW1vIjoiVGhhbmsgeW91LiJ9"

	sampleNotes = "AgEEyNQjlgCnAv0H0BERERERERERERERERERERERERERERERERERERERER" +
		"ERIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIiIi" +
		"IiIiIiIi/R9AMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzMzNERE" +
		"RERERERERERERERERERERERERERERERERERERERERERERERERERERERERE" +
		"REQ="
)

func TestClassifyNodePubkey(t *testing.T) {
	d, err := Classify(samplePubKey)
	require.NoError(t, err)

	node, ok := As[*NodeIdentity](d)
	require.True(t, ok)
	require.Equal(t, samplePubKey,
		hex.EncodeToString(node.PubKey.SerializeCompressed()))

	require.True(t, d.AmountMsat().IsNone())
	require.True(t, d.Memo().IsNone())
	require.True(t, d.Network().IsNone())
	require.True(t, d.ValidForNetwork(&chaincfg.MainNetParams).IsNone())
	require.Equal(t, node.PubKey, d.RecipientIdentity().UnwrapOr(nil))
}

func TestClassifyAddress(t *testing.T) {
	d, err := Classify(sampleAddress)
	require.NoError(t, err)

	addr, ok := As[*OnChainAddress](d)
	require.True(t, ok)
	require.Equal(t, sampleAddress, addr.Address.EncodeAddress())
	require.Equal(t, &chaincfg.MainNetParams,
		d.Network().UnwrapOr(nil))
	require.True(t, d.AmountMsat().IsNone())
	require.True(t, d.Memo().IsNone())
	require.True(t, d.RecipientIdentity().IsNone())
	require.True(t,
		d.ValidForNetwork(&chaincfg.MainNetParams).UnwrapOr(false))
	require.False(t,
		d.ValidForNetwork(&chaincfg.TestNet3Params).UnwrapOr(true))
}

func TestClassifyInvoice(t *testing.T) {
	d, err := Classify(sampleInvoice)
	require.NoError(t, err)

	invoice, ok := As[*Invoice](d)
	require.True(t, ok)

	require.EqualValues(t, 2_000_000_000,
		d.AmountMsat().UnwrapOr(0))
	require.Equal(t, btcutil.Amount(2_000_000),
		Amount(d).UnwrapOr(0))

	// Only a description hash is present, so there is no memo.
	require.True(t, d.Memo().IsNone())

	require.Equal(t, &chaincfg.MainNetParams, d.Network().UnwrapOr(nil))
	require.Equal(t, samplePubKey, hex.EncodeToString(
		d.RecipientIdentity().UnwrapOr(nil).SerializeCompressed()))

	fallback := invoice.FallbackAddress()
	require.True(t, fallback.IsSome())
	require.Equal(t, "1RustyRX2oai4EYYDpQGWvEL62BBGqN9T",
		fallback.UnwrapOr(nil).EncodeAddress())
}

func TestClassifyInvoiceWithPrefix(t *testing.T) {
	d, err := Classify("lightning:" + sampleInvoice)
	require.NoError(t, err)
	_, ok := As[*Invoice](d)
	require.True(t, ok)

	// The QR form uppercases everything, prefix included.
	d, err = Classify("LIGHTNING:" + strings.ToUpper(sampleInvoice))
	require.NoError(t, err)
	_, ok = As[*Invoice](d)
	require.True(t, ok)
	require.Equal(t, samplePubKey, hex.EncodeToString(
		d.RecipientIdentity().UnwrapOr(nil).SerializeCompressed()))
}

func TestClassifySchemeMismatch(t *testing.T) {
	// An explicit scheme whose payload fits nothing under it must not
	// fall through to the unprefixed chain: the address would classify
	// fine on its own.
	_, err := Classify("lightning:" + sampleAddress)
	require.ErrorIs(t, err, ErrSchemeMismatch)

	var schemeErr *SchemeError
	require.ErrorAs(t, err, &schemeErr)
	require.Equal(t, "lightning", schemeErr.Scheme)

	_, err = Classify("nostr:" + sampleAddress)
	require.ErrorIs(t, err, ErrSchemeMismatch)

	_, err = Classify("fedimint:" + sampleLNURL)
	require.ErrorIs(t, err, ErrSchemeMismatch)
}

func TestClassifyOffer(t *testing.T) {
	d, err := Classify(sampleOffer)
	require.NoError(t, err)

	offer, ok := As[*Offer](d)
	require.True(t, ok)

	require.EqualValues(t, 100_000, d.AmountMsat().UnwrapOr(0))
	require.Equal(t, btcutil.Amount(100), Amount(d).UnwrapOr(0))
	require.Equal(t, "faucet", d.Memo().UnwrapOr(""))
	require.Equal(t, &chaincfg.SigNetParams, d.Network().UnwrapOr(nil))
	require.True(t,
		d.ValidForNetwork(&chaincfg.SigNetParams).UnwrapOr(false))
	require.False(t,
		d.ValidForNetwork(&chaincfg.MainNetParams).UnwrapOr(true))
	require.NotNil(t, offer.Offer.IssuerID)
}

func TestClassifyRefund(t *testing.T) {
	d, err := Classify(sampleRefund)
	require.NoError(t, err)

	_, ok := As[*Refund](d)
	require.True(t, ok)

	require.EqualValues(t, 1000, d.AmountMsat().UnwrapOr(0))
	require.Equal(t, btcutil.Amount(1), Amount(d).UnwrapOr(0))
	require.Equal(t, "foo", d.Memo().UnwrapOr(""))
	require.Equal(t, &chaincfg.MainNetParams, d.Network().UnwrapOr(nil))
	require.True(t,
		d.ValidForNetwork(&chaincfg.MainNetParams).UnwrapOr(false))
	require.True(t, d.RecipientIdentity().IsNone())
}

func TestClassifyBIP21(t *testing.T) {
	d, err := Classify(sampleBIP21)
	require.NoError(t, err)

	uri, ok := As[*URIPaymentRequest](d)
	require.True(t, ok)

	require.Equal(t, "Donation for project xyz", d.Memo().UnwrapOr(""))
	require.Equal(t, "Luke-Jr", uri.Label().UnwrapOr(""))
	require.Equal(t, btcutil.Amount(50*btcutil.SatoshiPerBitcoin),
		Amount(d).UnwrapOr(0))
	require.Equal(t, &chaincfg.MainNetParams, d.Network().UnwrapOr(nil))
	require.Equal(t, sampleAddress, uri.Address().EncodeAddress())
	require.True(t, uri.EmbeddedInvoice().IsNone())
	require.False(t, uri.OutputSubstitutionDisabled())
}

func TestClassifyBIP21LabelMemo(t *testing.T) {
	// Without a message parameter the label serves as the memo.
	d, err := Classify("bitcoin:" + sampleAddress + "?label=yooo")
	require.NoError(t, err)

	uri, ok := As[*URIPaymentRequest](d)
	require.True(t, ok)
	require.Equal(t, "yooo", d.Memo().UnwrapOr(""))
	require.Equal(t, "yooo", uri.Label().UnwrapOr(""))
}

func TestClassifyBIP21WithInvoice(t *testing.T) {
	d, err := Classify("bitcoin:BC1QYLH3U67J673H6Y6ALV70M0PL2YZ53TZHV" +
		"XGG7U?amount=0.00001&lightning=" +
		strings.ToUpper(sampleInvoice))
	require.NoError(t, err)

	uri, ok := As[*URIPaymentRequest](d)
	require.True(t, ok)

	// The URI's own amount wins over the embedded invoice.
	require.Equal(t, btcutil.Amount(1000), Amount(d).UnwrapOr(0))

	embedded := uri.EmbeddedInvoice()
	require.True(t, embedded.IsSome())
	require.Equal(t, samplePubKey, hex.EncodeToString(
		d.RecipientIdentity().UnwrapOr(nil).SerializeCompressed()))
}

func TestClassifyBIP21UnknownParam(t *testing.T) {
	d, err := Classify(sampleBIP21 + "&somethingyoudontunderstand=50")
	require.NoError(t, err)
	_, ok := As[*URIPaymentRequest](d)
	require.True(t, ok)
}

func TestClassifyLNURL(t *testing.T) {
	for _, input := range []string{
		sampleLNURL,
		"lightning:" + sampleLNURL,
		"lnurl:" + sampleLNURL,
		"lnurlp:" + sampleLNURL,
	} {
		d, err := Classify(input)
		require.NoError(t, err, input)

		resolvable, ok := As[*ResolvableAddress](d)
		require.True(t, ok, input)
		require.False(t, resolvable.IsAuth())
		require.True(t, d.AmountMsat().IsNone())
		require.True(t, d.Network().IsNone())
	}
}

func TestClassifyLightningAddress(t *testing.T) {
	for _, input := range []string{
		sampleLightningAddr,
		"lightning:" + sampleLightningAddr,
		"lnurlp:" + sampleLightningAddr,
	} {
		d, err := Classify(input)
		require.NoError(t, err, input)

		addr, ok := As[*HumanReadableAddress](d)
		require.True(t, ok, input)
		require.Equal(t, sampleLightningAddr, addr.Address.String())
	}
}

func TestClassifyNostrKey(t *testing.T) {
	for _, input := range []string{
		sampleNpub,
		sampleNpubHex,
		"nostr:" + sampleNpub,
		"nostr:" + sampleNpubHex,
	} {
		d, err := Classify(input)
		require.NoError(t, err, input)

		id, ok := As[*OtherIdentity](d)
		require.True(t, ok, input)
		require.Equal(t, sampleNpubHex, hex.EncodeToString(
			id.PubKey.SerializeCompressed()[1:]), input)

		// A social key is not a payment destination.
		require.True(t, d.RecipientIdentity().IsNone())
	}
}

func TestClassifyWalletAuth(t *testing.T) {
	d, err := Classify(sampleAuth)
	require.NoError(t, err)

	auth, ok := As[*AuthRequest](d)
	require.True(t, ok)
	require.Equal(t, "wss://relay.damus.io", auth.Request.Relay.String())
	require.Equal(t, []string{"pay_invoice"},
		auth.Request.RequiredCommands)
	require.True(t, d.AmountMsat().IsNone())
}

func TestClassifyInviteCode(t *testing.T) {
	for _, input := range []string{
		sampleInvite,
		"fedimint:" + sampleInvite,
	} {
		d, err := Classify(input)
		require.NoError(t, err, input)

		code, ok := As[*InviteCode](d)
		require.True(t, ok, input)
		require.Equal(t, sampleInvite, code.Code)
	}
}

func TestClassifyCashuToken(t *testing.T) {
	d, err := Classify(sampleCashu)
	require.NoError(t, err)

	token, ok := As[*BearerToken](d)
	require.True(t, ok)
	require.EqualValues(t, 10, token.Token.TotalAmount())
	require.EqualValues(t, 10_000, d.AmountMsat().UnwrapOr(0))
	require.Equal(t, btcutil.Amount(10), Amount(d).UnwrapOr(0))
	require.True(t, d.Memo().IsNone())
	require.True(t, d.Network().IsNone())
}

func TestClassifyRedeemableNotes(t *testing.T) {
	d, err := Classify(sampleNotes)
	require.NoError(t, err)

	notes, ok := As[*RedeemableNotes](d)
	require.True(t, ok)
	require.Len(t, notes.Notes.Notes, 2)
	require.EqualValues(t, 10_000, d.AmountMsat().UnwrapOr(0))

	var prefix [4]byte
	copy(prefix[:], []byte{0xc8, 0xd4, 0x23, 0x96})
	require.Equal(t, &prefix, notes.Notes.FederationPrefix)
}

func TestClassifyUnrecognized(t *testing.T) {
	for _, input := range []string{
		"",
		"not a payment",
		"bitcoin:",
		"03notactuallyhex0000000000000000000000000000000000000000000000000",
	} {
		_, err := Classify(input)
		require.ErrorIs(t, err, ErrUnrecognized, input)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	first, err := Classify(sampleBIP21)
	require.NoError(t, err)
	second, err := Classify(sampleBIP21)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAmountFloorsMsat(t *testing.T) {
	msat := lnwire.MilliSatoshi(1999)
	d := &Invoice{
		Invoice: &zpay32.Invoice{MilliSat: &msat},
		Params:  &chaincfg.MainNetParams,
	}
	require.Equal(t, btcutil.Amount(1), Amount(d).UnwrapOr(0))

	// Zero-amount invoices report no amount at all.
	empty := &Invoice{
		Invoice: &zpay32.Invoice{},
		Params:  &chaincfg.MainNetParams,
	}
	require.True(t, Amount(empty).IsNone())
}

func TestRedeemableNotesRoundTrip(t *testing.T) {
	notes, err := fedimint.ParseNotes(sampleNotes)
	require.NoError(t, err)
	enc, err := notes.Encode()
	require.NoError(t, err)
	require.Equal(t, sampleNotes, enc)
}
