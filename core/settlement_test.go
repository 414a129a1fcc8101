package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestSettle_FirstPriceBasic(t *testing.T) {
	// Three bidders, reserve $100, first-price: the $120 bid wins and pays
	// its own amount.
	terms := Terms{Pricing: FirstPrice, ReservePrice: 100, ExpectedBidders: 3, ItemName: "Widget"}
	bids := []Bid{
		{Buyer: 1, Amount: 50, ArrivalRank: 1},
		{Buyer: 2, Amount: 120, ArrivalRank: 2},
		{Buyer: 3, Amount: 90, ArrivalRank: 3},
	}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, 2, outcome.Winner)
	check.Equal(t, int64(120), outcome.HighestBid)
	check.Equal(t, int64(120), outcome.ClearingPrice)
}

func TestSettle_SecondPriceTieAtTop(t *testing.T) {
	// Two bidders tie at $150; the earlier arrival wins and pays the
	// highest amount strictly below $150, which is the $80 bid.
	terms := Terms{Pricing: SecondPrice, ReservePrice: 100, ExpectedBidders: 3, ItemName: "Widget"}
	bids := []Bid{
		{Buyer: 1, Amount: 150, ArrivalRank: 1},
		{Buyer: 2, Amount: 150, ArrivalRank: 2},
		{Buyer: 3, Amount: 80, ArrivalRank: 3},
	}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, 1, outcome.Winner)
	check.Equal(t, int64(150), outcome.HighestBid)
	check.Equal(t, int64(80), outcome.ClearingPrice)
}

func TestSettle_AllBelowReserve(t *testing.T) {
	terms := Terms{Pricing: FirstPrice, ReservePrice: 500, ExpectedBidders: 3, ItemName: "Vase"}
	bids := []Bid{
		{Buyer: 1, Amount: 100, ArrivalRank: 1},
		{Buyer: 2, Amount: 200, ArrivalRank: 2},
		{Buyer: 3, Amount: 300, ArrivalRank: 3},
	}

	outcome := Settle(terms, bids)

	check.False(t, outcome.Sold)
	check.Equal(t, 0, outcome.Winner)
	check.Equal(t, int64(0), outcome.ClearingPrice)
}

func TestSettle_TieBreakEarliestArrival(t *testing.T) {
	// Winner selection ignores slice order; only arrival rank breaks ties.
	terms := Terms{Pricing: FirstPrice, ReservePrice: 10, ExpectedBidders: 3, ItemName: "Coin"}
	bids := []Bid{
		{Buyer: 3, Amount: 75, ArrivalRank: 3},
		{Buyer: 1, Amount: 75, ArrivalRank: 2},
		{Buyer: 2, Amount: 75, ArrivalRank: 1},
	}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, 2, outcome.Winner)
}

func TestSettle_SecondPriceAllTiedFallsBackToReserve(t *testing.T) {
	// Every bid ties at the maximum, so no amount is strictly below the
	// winning bid: the clearing price falls back to the reserve.
	terms := Terms{Pricing: SecondPrice, ReservePrice: 40, ExpectedBidders: 2, ItemName: "Coin"}
	bids := []Bid{
		{Buyer: 1, Amount: 90, ArrivalRank: 1},
		{Buyer: 2, Amount: 90, ArrivalRank: 2},
	}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, 1, outcome.Winner)
	check.Equal(t, int64(40), outcome.ClearingPrice)
}

func TestSettle_SecondPriceCountsSubReserveBids(t *testing.T) {
	// Only one bid meets the reserve; the runner-up amount is still taken
	// from the full bid set, sub-reserve bids included.
	terms := Terms{Pricing: SecondPrice, ReservePrice: 100, ExpectedBidders: 2, ItemName: "Lamp"}
	bids := []Bid{
		{Buyer: 1, Amount: 120, ArrivalRank: 1},
		{Buyer: 2, Amount: 60, ArrivalRank: 2},
	}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, 1, outcome.Winner)
	check.Equal(t, int64(60), outcome.ClearingPrice)
}

func TestSettle_SingleBidderSecondPrice(t *testing.T) {
	terms := Terms{Pricing: SecondPrice, ReservePrice: 50, ExpectedBidders: 1, ItemName: "Pin"}
	bids := []Bid{{Buyer: 1, Amount: 75, ArrivalRank: 1}}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, 1, outcome.Winner)
	check.Equal(t, int64(50), outcome.ClearingPrice)
}

func TestSettle_HighestEqualsReserve(t *testing.T) {
	// A bid exactly at the reserve sells.
	terms := Terms{Pricing: FirstPrice, ReservePrice: 100, ExpectedBidders: 1, ItemName: "Pin"}
	bids := []Bid{{Buyer: 1, Amount: 100, ArrivalRank: 1}}

	outcome := Settle(terms, bids)

	check.True(t, outcome.Sold)
	check.Equal(t, int64(100), outcome.ClearingPrice)
}

func TestSettle_NoBids(t *testing.T) {
	terms := Terms{Pricing: FirstPrice, ReservePrice: 100, ExpectedBidders: 1, ItemName: "Pin"}

	outcome := Settle(terms, nil)

	check.False(t, outcome.Sold)
}

func TestAmountMeetsReserve(t *testing.T) {
	check.True(t, AmountMeetsReserve(100, 100))
	check.True(t, AmountMeetsReserve(101, 100))
	check.False(t, AmountMeetsReserve(99, 100))
}
