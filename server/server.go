// Package server runs the auction coordination server: a TCP accept loop
// that assigns each connection a role (seller, buyer, or rejected), drives
// the seller through term collection, collects one sealed bid per buyer,
// and settles the round when the last bid arrives.
package server

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/cloudx-io/auctiond/core"
	"github.com/cloudx-io/auctiond/session"
)

// Server owns the listener, the session state machine, and the table of
// live connections. Each connection is handled by its own goroutine; the
// connection table is only touched at admission and settlement.
type Server struct {
	session  *session.Session
	listener net.Listener

	mu          sync.Mutex
	seller      net.Conn
	buyers      map[int]net.Conn
	biddingOpen chan struct{}
}

// New returns a Server hosting the given session.
func New(sess *session.Session) *Server {
	return &Server{
		session: sess,
		buyers:  make(map[int]net.Conn),
	}
}

// Listen binds the TCP listener.
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	log.Printf("Auctioneer is ready for hosting auctions!")
	return nil
}

// Addr returns the bound listen address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close shuts the listener down. In-flight connections are not touched.
func (s *Server) Close() error {
	return s.listener.Close()
}

// Serve accepts connections until the listener is closed, dispatching each
// to its own handler goroutine. Acceptance never waits on auction logic.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Printf("ERROR: Failed to accept connection: %v", err)
			continue
		}

		go func(c net.Conn) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("ERROR: Panic recovered in connection handler: %v", r)
					if err := c.Close(); err != nil {
						log.Printf("ERROR: Failed to close connection: %v", err)
					}
				}
			}()
			s.handleConnection(c)
		}(conn)
	}
}

// ListenAndServe binds the listener and serves until it is closed.
func (s *Server) ListenAndServe(addr string) error {
	if err := s.Listen(addr); err != nil {
		return err
	}
	return s.Serve()
}

// handleConnection assigns the connection a role. The first connection of a
// round becomes the seller; once terms are in, connections become buyers up
// to quorum; everything else is told the server is busy and disconnected.
// Rejection is terminal for that connection.
func (s *Server) handleConnection(conn net.Conn) {
	if err := s.session.RegisterSeller(); err == nil {
		s.handleSeller(conn)
		return
	}

	// Admission and connection registration happen under one lock so the
	// bidding-open broadcast can never observe an admitted buyer whose
	// connection is not in the table yet.
	s.mu.Lock()
	seq, quorum, err := s.session.AdmitBuyer()
	var open chan struct{}
	if err == nil {
		s.buyers[seq] = conn
		open = s.biddingOpen
	}
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, session.ErrRosterFull) {
			log.Printf("INFO: Extra buyer from %s rejected, roster is full", conn.RemoteAddr())
			_ = sendMessage(conn, msgAuctionFull)
		} else {
			log.Printf("INFO: Buyer from %s rejected, no open auction", conn.RemoteAddr())
			_ = sendMessage(conn, msgServerBusy)
		}
		if err := conn.Close(); err != nil {
			log.Printf("ERROR: Failed to close rejected connection: %v", err)
		}
		return
	}

	s.handleBuyer(conn, seq, quorum, open)
}

// handleSeller collects the auction request. Malformed requests are
// rejected and re-read on the same connection; this is the one retry point
// in the protocol. After valid terms the connection is held open, to be
// notified and closed by settlement.
func (s *Server) handleSeller(conn net.Conn) {
	log.Printf("INFO: Seller is connected from %s", conn.RemoteAddr())

	if err := sendMessage(conn, msgSubmitRequest); err != nil {
		log.Printf("ERROR: Failed to prompt seller: %v", err)
		_ = conn.Close()
		return
	}

	for {
		message, err := readMessage(conn)
		if err != nil {
			log.Printf("ERROR: Seller disconnected during term collection: %v", err)
			_ = conn.Close()
			return
		}

		terms, err := core.ParseTerms(message)
		if err != nil {
			log.Printf("INFO: Invalid auction request %q: %v", message, err)
			if err := sendMessage(conn, msgInvalidRequest); err != nil {
				log.Printf("ERROR: Failed to reject auction request: %v", err)
				_ = conn.Close()
				return
			}
			continue
		}

		// Register the connection and the bidding-open signal before terms
		// open buyer admission, so the first admitted buyer always finds
		// both in place.
		s.mu.Lock()
		s.seller = conn
		s.biddingOpen = make(chan struct{})
		s.mu.Unlock()

		roundID, err := s.session.SetTerms(terms)
		if err != nil {
			log.Printf("ERROR: Failed to store auction terms: %v", err)
			_ = conn.Close()
			return
		}

		if err := sendMessage(conn, termsAcceptedMessage(message)); err != nil {
			log.Printf("ERROR: Failed to acknowledge auction request: %v", err)
		}
		log.Printf("INFO: Round %s: %s auction of %q, reserve $%d, %d bidders",
			roundID, terms.Pricing, terms.ItemName, terms.ReservePrice, terms.ExpectedBidders)
		log.Printf("Auction request received. Now waiting for Buyers.")
		return
	}
}

// handleBuyer runs one admitted buyer: waiting acknowledgment, the
// bidding-open broadcast when this admission fills the roster, then exactly
// one bid read. Invalid bids are rejected and re-read; the first valid bid
// is recorded and the handler whose bid completes the round settles it.
func (s *Server) handleBuyer(conn net.Conn, seq int, quorum bool, open chan struct{}) {
	log.Printf("INFO: Buyer %d is connected from %s", seq, conn.RemoteAddr())

	if err := sendMessage(conn, msgWaitingBuyers); err != nil {
		log.Printf("ERROR: Failed to acknowledge Buyer %d: %v", seq, err)
		_ = conn.Close()
		return
	}

	if quorum {
		log.Printf("Requested number of bidders arrived. Let's start bidding!")
		s.mu.Lock()
		conns := make([]net.Conn, 0, len(s.buyers))
		for _, c := range s.buyers {
			conns = append(conns, c)
		}
		s.mu.Unlock()
		for _, c := range conns {
			if err := sendMessage(c, msgBiddingStart); err != nil {
				log.Printf("ERROR: Failed to announce bidding start: %v", err)
			}
		}
		close(open)
	}

	<-open

	for {
		message, err := readMessage(conn)
		if err != nil {
			log.Printf("ERROR: Buyer %d disconnected before bidding: %v", seq, err)
			_ = conn.Close()
			return
		}

		amount, err := core.ParseBid(message)
		if err != nil {
			if err := sendMessage(conn, msgInvalidBid); err != nil {
				log.Printf("ERROR: Failed to reject bid from Buyer %d: %v", seq, err)
				_ = conn.Close()
				return
			}
			continue
		}

		settle, err := s.session.RecordBid(seq, amount)
		if err != nil {
			// Duplicate bids are ignored; the first valid bid stands.
			log.Printf("INFO: Bid from Buyer %d not recorded: %v", seq, err)
			return
		}

		log.Printf(">> Buyer %d bid $%d", seq, amount)
		if err := sendMessage(conn, msgBidReceived); err != nil {
			log.Printf("ERROR: Failed to acknowledge bid from Buyer %d: %v", seq, err)
		}

		if settle {
			s.settle()
		}
		return
	}
}

// settle runs once per round, on the goroutine whose bid completed the
// roster. It computes the outcome, notifies every party, closes their
// connections after each notification is sent, and resets the session.
func (s *Server) settle() {
	terms := s.session.Terms()
	bids := s.session.Bids()
	roundID := s.session.RoundID()

	outcome := core.Settle(terms, bids)

	record := core.NewSettlementRecord(roundID.String(), terms, bids, outcome)
	if digest, err := record.Digest(); err != nil {
		log.Printf("ERROR: Failed to compute settlement digest: %v", err)
	} else {
		log.Printf("INFO: Round %s settled, record digest %s", roundID, digest)
	}

	s.mu.Lock()
	sellerConn := s.seller
	buyerConns := s.buyers
	s.seller = nil
	s.buyers = make(map[int]net.Conn)
	s.biddingOpen = nil
	s.mu.Unlock()

	// Everything settlement needs is snapshotted above, so the session can
	// reopen for a new seller while the notifications below go out.
	s.session.Reset()

	if outcome.Sold {
		log.Printf(">> Item sold! The highest bid is $%d. The actual payment is $%d",
			outcome.HighestBid, outcome.ClearingPrice)
	} else {
		log.Printf(">> All bids are below the minimum price of $%d. The item is not sold.",
			terms.ReservePrice)
	}

	notifyBuyer := func(seq int, c net.Conn, notice string) {
		if err := sendMessage(c, notice); err != nil {
			log.Printf("ERROR: Failed to notify Buyer %d: %v", seq, err)
		}
		if err := c.Close(); err != nil {
			log.Printf("ERROR: Failed to close Buyer %d connection: %v", seq, err)
		}
	}

	if outcome.Sold {
		if winner, ok := buyerConns[outcome.Winner]; ok {
			notifyBuyer(outcome.Winner, winner, winnerMessage(terms.ItemName, outcome.ClearingPrice))
			delete(buyerConns, outcome.Winner)
		}
	}
	for seq, c := range buyerConns {
		notifyBuyer(seq, c, loserMessage())
	}

	if sellerConn != nil {
		var notice string
		if outcome.Sold {
			notice = sellerSoldMessage(terms.ItemName, outcome.ClearingPrice)
		} else {
			notice = sellerNotSoldMessage(terms.ReservePrice)
		}
		if err := sendMessage(sellerConn, notice); err != nil {
			log.Printf("ERROR: Failed to notify seller: %v", err)
		}
		if err := sellerConn.Close(); err != nil {
			log.Printf("ERROR: Failed to close seller connection: %v", err)
		}
	}

	log.Printf("Auctioneer is ready for hosting auctions!")
}
