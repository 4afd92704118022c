/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

import "errors"

// Rejections. Each message starts with the reason name so that clients
// receive it verbatim in the transaction response.
var (
	ErrAssetNotFound          = errors.New("AssetNotFound: asset does not exist")
	ErrNotCustodian           = errors.New("NotCustodian: auction house is not the owner of the asset")
	ErrWrongPriorOwner        = errors.New("WrongPriorOwner: not the correct previous owner of this asset")
	ErrBiddingWindowClosed    = errors.New("BiddingWindowClosed: bidding time is already finished")
	ErrInvalidRevealWindow    = errors.New("InvalidRevealWindow: reveal time must end after bidding time")
	ErrAuctionNotFound        = errors.New("AuctionNotFound: auction does not exist")
	ErrNotOwner               = errors.New("NotOwner: not the correct owner of the auction")
	ErrNotAlive               = errors.New("NotAlive: auction is not alive")
	ErrBidsExist              = errors.New("BidsExist: there are already bids in this auction")
	ErrAuctionNotRunning      = errors.New("AuctionNotRunning: auction is not running")
	ErrAuctionStillRunning    = errors.New("AuctionStillRunning: auction still running")
	ErrOwnerCannotBidOrReveal = errors.New("OwnerCannotBidOrReveal: the owner of an auction is not allowed to bid or reveal")
	ErrAlreadyBid             = errors.New("AlreadyBid: account has already bid on this auction")
	ErrBadReveal              = errors.New("BadReveal: bid was not correctly revealed")
	ErrNothingToWithdraw      = errors.New("NothingToWithdraw: no money to withdraw")
	ErrEmptyCommitment        = errors.New("EmptyCommitment: sealed bid must not be all zeros")
)
