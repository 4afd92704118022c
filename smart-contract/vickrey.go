/*
SPDX-License-Identifier: Apache-2.0
*/

package auction

// revealBid updates the winner selection of a with an opened bid and returns
// the refunds it produces.
//
// A bid that exceeds its deposit cannot be paid and only gets the deposit back.
// Otherwise a bid above the current highest bid takes the lead: the previous
// leader gets back the bid they had locked and the new leader keeps
// deposit-amount claimable until settlement. Any other bid is refunded in full.
//
// The second highest bid only moves when a leader is dethroned. A losing bid
// revealed later never raises it, even if it is above the recorded value.
func revealBid(a *Auction, bidder string, amount uint64, deposit uint64) []credit {
	if amount > deposit || (a.hasLeader() && amount <= a.HighestBid) {
		return []credit{{account: bidder, amount: deposit}}
	}

	var credits []credit
	if a.hasLeader() {
		credits = append(credits, credit{account: a.HighestBidder, amount: a.HighestBid})
		a.SecondHighestBid = a.HighestBid
	}
	a.HighestBidder = bidder
	a.HighestBid = amount
	return append(credits, credit{account: bidder, amount: deposit - amount})
}

// settle returns the payouts of a finished auction: the owner receives the
// second highest bid and the winner gets back what they locked above it.
// Together with the credit from revealBid the winner is owed
// deposit-secondHighestBid.
func settle(a *Auction) []credit {
	if !a.hasLeader() {
		return nil
	}
	return []credit{
		{account: a.Owner, amount: a.SecondHighestBid},
		{account: a.HighestBidder, amount: a.HighestBid - a.SecondHighestBid},
	}
}
