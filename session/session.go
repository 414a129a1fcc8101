// Package session holds the state for a single auction round and the state
// machine that governs it. The server hosts exactly one live Session; every
// read-modify-write against round state goes through its mutex.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cloudx-io/auctiond/core"
)

// State is the phase the auction session is in.
type State int

const (
	// AwaitingSeller: no seller connected; the next connection becomes one.
	AwaitingSeller State = iota
	// CollectingTerms: a seller is connected but has not submitted a valid
	// auction request yet. Buyers are rejected in this phase.
	CollectingTerms
	// AwaitingBuyers: terms accepted; buyers are admitted up to quorum.
	AwaitingBuyers
	// Bidding: the roster is full and every buyer owes exactly one bid.
	Bidding
	// Settling: the last bid arrived; settlement is running.
	Settling
)

func (s State) String() string {
	switch s {
	case AwaitingSeller:
		return "awaiting-seller"
	case CollectingTerms:
		return "collecting-terms"
	case AwaitingBuyers:
		return "awaiting-buyers"
	case Bidding:
		return "bidding"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a connection that cannot take part in the current
	// round: a second seller, or a buyer before terms are finalized or
	// after bidding started.
	ErrBusy = errors.New("auction in progress")

	// ErrRosterFull rejects a buyer arriving after quorum was reached.
	ErrRosterFull = errors.New("buyer roster is full")

	// ErrDuplicateBid marks a second bid from a buyer that already has one
	// recorded. The first valid bid wins.
	ErrDuplicateBid = errors.New("bid already recorded for buyer")

	// ErrUnknownBuyer marks a bid from a sequence number that was never
	// admitted this round.
	ErrUnknownBuyer = errors.New("unknown buyer")
)

// Session is the single shared auction state. All methods are safe for
// concurrent use; none of them blocks while holding the lock.
type Session struct {
	mu sync.Mutex

	state       State
	roundID     uuid.UUID
	terms       core.Terms
	buyerCount  int
	arrivalRank int
	bids        map[int]core.Bid
}

// New returns a Session ready to accept its first seller.
func New() *Session {
	return &Session{
		state: AwaitingSeller,
		bids:  make(map[int]core.Bid),
	}
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RoundID returns the identifier minted when the current round's terms were
// accepted, or uuid.Nil when no terms exist.
func (s *Session) RoundID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundID
}

// RegisterSeller claims the seller role for a new connection. It succeeds
// only in AwaitingSeller and moves the session to CollectingTerms; any
// other phase means a round is already underway.
func (s *Session) RegisterSeller() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != AwaitingSeller {
		return ErrBusy
	}
	s.state = CollectingTerms
	return nil
}

// SetTerms stores the seller's accepted auction request, mints the round
// identifier, and opens buyer admission.
func (s *Session) SetTerms(terms core.Terms) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != CollectingTerms {
		return uuid.Nil, ErrBusy
	}
	s.terms = terms
	s.roundID = uuid.New()
	s.state = AwaitingBuyers
	return s.roundID, nil
}

// Terms returns the accepted auction terms. Only meaningful after SetTerms.
func (s *Session) Terms() core.Terms {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms
}

// AdmitBuyer admits one buyer and assigns their sequence number in arrival
// order. quorum is true for the admission that fills the roster; that call
// also moves the session to Bidding, and the caller is responsible for
// opening the bidding round with every admitted buyer.
func (s *Session) AdmitBuyer() (seq int, quorum bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case AwaitingBuyers:
	case AwaitingSeller, CollectingTerms:
		return 0, false, ErrBusy
	default:
		return 0, false, ErrRosterFull
	}

	s.buyerCount++
	seq = s.buyerCount
	if s.buyerCount == s.terms.ExpectedBidders {
		s.state = Bidding
		quorum = true
	}
	return seq, quorum, nil
}

// BuyerCount returns the number of admitted buyers this round.
func (s *Session) BuyerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buyerCount
}

// RecordBid records one buyer's bid under the session lock: duplicate
// check, arrival-rank assignment, and the settle-once guard all happen in
// the same critical section. settle is true for exactly one call per round,
// the one that brings the bid count to quorum; that call also moves the
// session to Settling, so a second observer of the full count is
// impossible.
func (s *Session) RecordBid(seq int, amount int64) (settle bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Bidding {
		return false, ErrBusy
	}
	if seq < 1 || seq > s.buyerCount {
		return false, ErrUnknownBuyer
	}
	if _, exists := s.bids[seq]; exists {
		return false, ErrDuplicateBid
	}

	s.arrivalRank++
	s.bids[seq] = core.Bid{
		Buyer:       seq,
		Amount:      amount,
		ArrivalRank: s.arrivalRank,
	}

	if len(s.bids) == s.terms.ExpectedBidders {
		s.state = Settling
		settle = true
	}
	return settle, nil
}

// Bids returns a copy of every recorded bid, for settlement.
func (s *Session) Bids() []core.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()

	bids := make([]core.Bid, 0, len(s.bids))
	for _, bid := range s.bids {
		bids = append(bids, bid)
	}
	return bids
}

// Reset clears all per-round state and reopens the session for a new
// seller. It runs under the same lock as bid recording, so a new round
// cannot start while a settlement still reads the old one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = AwaitingSeller
	s.roundID = uuid.Nil
	s.terms = core.Terms{}
	s.buyerCount = 0
	s.arrivalRank = 0
	s.bids = make(map[int]core.Bid)
}
