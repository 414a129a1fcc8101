package server

import (
	"fmt"
	"net"
	"strings"
)

// Message text sent to sellers and buyers. The conversation is plain text
// over TCP: one Read call's payload is one logical message, so outcome
// notifications are built as a single string and sent with a single Write.
const (
	msgSubmitRequest  = "submit an auction request"
	msgInvalidRequest = "Invalid auction request!"
	msgServerBusy     = "Server is busy. Try to connect again later."
	msgAuctionFull    = "Server busy, auction in progress!"
	msgWaitingBuyers  = "waiting for other Buyers"
	msgBiddingStart   = "Bidding start! Please submit your bid."
	msgInvalidBid     = "Invalid bid. Please submit a positive integer!"
	msgBidReceived    = "Bid received. Please wait..."
	msgAuctionOver    = "Disconnecting from the Auctioneer server. Auction is over!"
)

func termsAcceptedMessage(request string) string {
	return "Auction request received: " + request
}

func winnerMessage(item string, payment int64) string {
	return fmt.Sprintf("Auction finished!\nYou won the item '%s'! Your payment due is $%d\n%s",
		item, payment, msgAuctionOver)
}

func loserMessage() string {
	return fmt.Sprintf("Auction finished!\nUnfortunately you did not win in the last round.\n%s",
		msgAuctionOver)
}

func sellerSoldMessage(item string, payment int64) string {
	return fmt.Sprintf("Item '%s' sold for $%d.", item, payment)
}

func sellerNotSoldMessage(reserve int64) string {
	return fmt.Sprintf("Item not sold. All bids were below the minimum price of $%d.", reserve)
}

// readMessage reads one logical message: whatever a single Read returns,
// trimmed of surrounding whitespace. Mirrors the recv-per-message framing
// the clients speak; messages never require reassembly across reads.
func readMessage(conn net.Conn) (string, error) {
	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf[:n])), nil
}

func sendMessage(conn net.Conn, message string) error {
	_, err := conn.Write([]byte(message))
	return err
}
