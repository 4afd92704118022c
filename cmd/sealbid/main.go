/*
SPDX-License-Identifier: Apache-2.0
*/

// Command sealbid prints the commitment to submit with SealedBid.
//
//	sealbid --amount=8 --secret=gulf
//
// Keep the secret: the same amount and secret must be given to Reveal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hyperledger/fabric-samples/auction/vickrey-auction-house/chaincode-go/commitment"
)

func main() {
	amount := flag.Uint64("amount", 0, "Bid amount")
	secret := flag.String("secret", "", "Secret that blinds the bid")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "a secret is required")
		os.Exit(2)
	}
	fmt.Println(commitment.Seal(*amount, *secret))
}
