/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import "time"

// Phase is the position of an auction in its life cycle. It is derived from
// the stored flags and the transaction time and never stored.
type Phase string

const (
	Created            Phase = "Created"            // Bidding window open, no bids yet
	BiddingOpen        Phase = "BiddingOpen"        // Bidding window open, sealed bids received
	RevealOpen         Phase = "RevealOpen"         // Bidders open their sealed bids
	AwaitingSettlement Phase = "AwaitingSettlement" // Reveal window over, anyone may end the auction
	Settled            Phase = "Settled"            // Asset handed to the winner or back to the owner
	Cancelled          Phase = "Cancelled"          // Withdrawn by the owner before any bid
)

// Auction data
type Auction struct {
	ID            uint64 `json:"id"`
	AssetID       string `json:"assetId"`
	AssetRegistry string `json:"assetRegistry"` // registry chaincode holding the asset, "name" or "name/channel"
	Description   string `json:"description"`
	Owner         string `json:"owner"` // the seller who opened this auction, receives the proceeds
	IsActive      bool   `json:"isActive"`
	IsFinalized   bool   `json:"isFinalized"`
	IsCancelled   bool   `json:"isCancelled"`
	BiddingEnd    int64  `json:"biddingEnd"` // unix seconds
	RevealEnd     int64  `json:"revealEnd"`  // unix seconds

	// Winner selection, only changed by reveals
	HighestBidder    string `json:"highestBidder"` // empty while nobody leads
	HighestBid       uint64 `json:"highestBid"`
	SecondHighestBid uint64 `json:"secondHighestBid"`

	BidCount uint64 `json:"bidCount"`
}

// PhaseAt returns the phase of the auction at the given time.
func (a *Auction) PhaseAt(now time.Time) Phase {
	switch {
	case a.IsCancelled:
		return Cancelled
	case a.IsFinalized || !a.IsActive:
		return Settled
	}
	switch t := now.Unix(); {
	case t < a.BiddingEnd && a.BidCount == 0:
		return Created
	case t < a.BiddingEnd:
		return BiddingOpen
	case t < a.RevealEnd:
		return RevealOpen
	default:
		return AwaitingSettlement
	}
}

func (a *Auction) hasLeader() bool {
	return a.HighestBidder != ""
}

// Bid data
type Bid struct {
	Bidder           string `json:"bidder"`
	SealedCommitment string `json:"sealedCommitment"` // hex encoded commitment.Seal(amount, secret)
	Deposit          uint64 `json:"deposit"`          // value escrowed with the sealed bid
	Revealed         bool   `json:"revealed"`
}

// AuctionEvent is published as the chaincode event of every state changing
// transaction.
type AuctionEvent struct {
	AuctionID        uint64 `json:"auctionId"`
	Caller           string `json:"caller"`
	AssetID          string `json:"assetId,omitempty"`
	AssetRegistry    string `json:"assetRegistry,omitempty"`
	Amount           uint64 `json:"amount,omitempty"`
	HighestBidder    string `json:"highestBidder,omitempty"`
	HighestBid       uint64 `json:"highestBid,omitempty"`
	SecondHighestBid uint64 `json:"secondHighestBid,omitempty"`
	Recipient        string `json:"recipient,omitempty"` // new holder of the asset after cancel or end
}

// Event names
const (
	EventAssetDeposited   = "AssetDeposited"
	EventAuctionCreated   = "AuctionCreated"
	EventAuctionCancelled = "AuctionCancelled"
	EventBidSealed        = "BidSealed"
	EventBidRevealed      = "BidRevealed"
	EventAuctionEnded     = "AuctionEnded"
	EventRefundWithdrawn  = "RefundWithdrawn"
)
