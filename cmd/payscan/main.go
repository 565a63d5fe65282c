// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// payscan classifies payment strings given as arguments, or read from
// stdin one per line, and prints what they are.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/payscan"
	"github.com/davecgh/go-spew/spew"
	"github.com/jessevdk/go-flags"
)

var newlineBytes = []byte{'\n'}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Stderr.Write(newlineBytes)
	os.Exit(1)
}

// Flags.
var opts = struct {
	Verbose bool `short:"v" long:"verbose" description:"Dump the full decoded descriptor"`
	Debug   bool `long:"debug" description:"Enable library trace logging"`
}{}

func main() {
	args, err := flags.Parse(&opts)
	if err != nil {
		os.Exit(1)
	}
	if opts.Debug {
		backend := btclog.NewBackend(os.Stderr)
		logger := backend.Logger("SCAN")
		logger.SetLevel(btclog.LevelTrace)
		payscan.UseLogger(logger)
	}

	if len(args) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				args = append(args, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fatalf("read stdin: %v", err)
		}
	}
	if len(args) == 0 {
		fatalf("no payment strings given")
	}

	failed := false
	for _, raw := range args {
		if err := classify(raw); err != nil {
			fmt.Fprintf(os.Stderr, "%.40s: %v\n", raw, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func classify(raw string) error {
	d, err := payscan.Classify(raw)
	if err != nil {
		return err
	}

	fmt.Printf("%.40s\n", raw)
	fmt.Printf("  kind: %s\n", kindName(d))
	if amt := payscan.Amount(d); amt.IsSome() {
		fmt.Printf("  amount: %v (%d msat)\n",
			amt.UnwrapOr(0), d.AmountMsat().UnwrapOr(0))
	}
	if memo := d.Memo(); memo.IsSome() {
		fmt.Printf("  memo: %s\n", memo.UnwrapOr(""))
	}
	if network := d.Network(); network.IsSome() {
		fmt.Printf("  network: %s\n", network.UnwrapOr(nil).Name)
	}
	if id := d.RecipientIdentity(); id.IsSome() {
		fmt.Printf("  recipient: %x\n",
			id.UnwrapOr(nil).SerializeCompressed())
	}
	if opts.Verbose {
		spew.Fdump(os.Stdout, d)
	}
	return nil
}

func kindName(d payscan.Descriptor) string {
	switch d.(type) {
	case *payscan.OnChainAddress:
		return "on-chain address"
	case *payscan.URIPaymentRequest:
		return "bip21 uri"
	case *payscan.Invoice:
		return "bolt11 invoice"
	case *payscan.Offer:
		return "bolt12 offer"
	case *payscan.Refund:
		return "bolt12 refund"
	case *payscan.NodeIdentity:
		return "node pubkey"
	case *payscan.ResolvableAddress:
		return "lnurl"
	case *payscan.HumanReadableAddress:
		return "lightning address"
	case *payscan.OtherIdentity:
		return "nostr pubkey"
	case *payscan.AuthRequest:
		return "nostr wallet auth"
	case *payscan.InviteCode:
		return "fedimint invite"
	case *payscan.BearerToken:
		return "cashu token"
	case *payscan.RedeemableNotes:
		return "fedimint notes"
	default:
		return "unknown"
	}
}
