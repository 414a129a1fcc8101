package core

import (
	"github.com/shopspring/decimal"
)

// AmountMeetsReserve returns true if the bid amount meets or exceeds the
// reserve price. The comparison goes through decimal arithmetic so that
// monetary values never touch floating point on their way through the
// settlement path.
func AmountMeetsReserve(amount, reserve int64) bool {
	return decimal.NewFromInt(amount).GreaterThanOrEqual(decimal.NewFromInt(reserve))
}

// maxAmountBelow returns the largest bid amount strictly less than limit,
// or ok=false when no such bid exists.
func maxAmountBelow(bids []Bid, limit int64) (amount int64, ok bool) {
	best := decimal.Decimal{}
	limitDec := decimal.NewFromInt(limit)

	for _, bid := range bids {
		amountDec := decimal.NewFromInt(bid.Amount)
		if amountDec.GreaterThanOrEqual(limitDec) {
			continue
		}
		if !ok || amountDec.GreaterThan(best) {
			best = amountDec
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return best.IntPart(), true
}
