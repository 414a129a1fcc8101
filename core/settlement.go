package core

// Settle computes the outcome of one auction round from the accepted terms
// and every recorded bid.
//
// Processing flow:
//  1. Find the highest bid amount.
//  2. If it is below the reserve price, the item is not sold.
//  3. Otherwise the winner is the bid with the highest amount, earliest
//     arrival rank among ties.
//  4. First-price: the winner pays their own bid. Second-price: the winner
//     pays the highest amount strictly below the winning amount across all
//     recorded bids; when every bid ties at the maximum, the reserve price.
//
// The second-price fallback considers sub-reserve bids on purpose: the
// runner-up amount is taken over the full bid set, not just bids that met
// the reserve.
func Settle(terms Terms, bids []Bid) Outcome {
	if len(bids) == 0 {
		return Outcome{Sold: false}
	}

	winner := bids[0]
	for _, bid := range bids[1:] {
		if bid.Amount > winner.Amount {
			winner = bid
		} else if bid.Amount == winner.Amount && bid.ArrivalRank < winner.ArrivalRank {
			winner = bid
		}
	}

	if !AmountMeetsReserve(winner.Amount, terms.ReservePrice) {
		return Outcome{Sold: false, HighestBid: winner.Amount}
	}

	price := winner.Amount
	if terms.Pricing == SecondPrice {
		if second, ok := maxAmountBelow(bids, winner.Amount); ok {
			price = second
		} else {
			price = terms.ReservePrice
		}
	}

	return Outcome{
		Sold:          true,
		Winner:        winner.Buyer,
		HighestBid:    winner.Amount,
		ClearingPrice: price,
	}
}
