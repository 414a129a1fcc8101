package core

import "fmt"

// PricingRule selects how the clearing price is computed once a winner is
// known. The wire protocol encodes it as the integer 1 or 2.
type PricingRule int

const (
	FirstPrice  PricingRule = 1 // winner pays their own bid
	SecondPrice PricingRule = 2 // winner pays the next-highest bid, or the reserve
)

func (p PricingRule) String() string {
	switch p {
	case FirstPrice:
		return "first-price"
	case SecondPrice:
		return "second-price"
	default:
		return fmt.Sprintf("pricing-rule(%d)", int(p))
	}
}

// Terms holds the seller's auction request. Immutable once accepted.
type Terms struct {
	Pricing         PricingRule `json:"pricing"`
	ReservePrice    int64       `json:"reserve_price"`
	ExpectedBidders int         `json:"expected_bidders"`
	ItemName        string      `json:"item_name"`
}

// Bid is one recorded bid. Buyer is the sequence number assigned at
// admission; ArrivalRank is the global order in which the bid was recorded
// and breaks ties among equal highest amounts (earliest wins).
type Bid struct {
	Buyer       int   `json:"buyer"`
	Amount      int64 `json:"amount"`
	ArrivalRank int   `json:"arrival_rank"`
}

// Outcome is the result of settling one round.
type Outcome struct {
	Sold          bool  `json:"sold"`
	Winner        int   `json:"winner,omitempty"` // buyer sequence number, 0 when not sold
	HighestBid    int64 `json:"highest_bid"`
	ClearingPrice int64 `json:"clearing_price,omitempty"`
}
