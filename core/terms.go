package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTerms parses a seller's auction request message. The format is four
// whitespace-delimited fields: pricing rule (1 or 2), reserve price,
// expected number of bidders, item name.
func ParseTerms(message string) (Terms, error) {
	fields := strings.Fields(message)
	if len(fields) != 4 {
		return Terms{}, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	rule, err := strconv.Atoi(fields[0])
	if err != nil {
		return Terms{}, fmt.Errorf("invalid pricing rule %q: %w", fields[0], err)
	}
	if rule != int(FirstPrice) && rule != int(SecondPrice) {
		return Terms{}, fmt.Errorf("pricing rule must be 1 or 2, got %d", rule)
	}

	reserve, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Terms{}, fmt.Errorf("invalid reserve price %q: %w", fields[1], err)
	}
	if reserve <= 0 {
		return Terms{}, fmt.Errorf("reserve price must be positive, got %d", reserve)
	}

	bidders, err := strconv.Atoi(fields[2])
	if err != nil {
		return Terms{}, fmt.Errorf("invalid bidder count %q: %w", fields[2], err)
	}
	if bidders < 1 {
		return Terms{}, fmt.Errorf("bidder count must be at least 1, got %d", bidders)
	}

	return Terms{
		Pricing:         PricingRule(rule),
		ReservePrice:    reserve,
		ExpectedBidders: bidders,
		ItemName:        fields[3],
	}, nil
}

// ParseBid parses a buyer's bid message. Bids must be positive integers.
func ParseBid(message string) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(message), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bid %q: %w", message, err)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("bid must be positive, got %d", amount)
	}
	return amount, nil
}
