package core

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
)

// SettlementRecord is the audit trail for one settled round: everything the
// settlement was computed from, plus the outcome. Encoded deterministically
// so the digest is stable across processes.
type SettlementRecord struct {
	RoundID string  `cbor:"round_id"`
	Terms   Terms   `cbor:"terms"`
	Bids    []Bid   `cbor:"bids"`
	Outcome Outcome `cbor:"outcome"`
}

// NewSettlementRecord builds the audit record for a settled round. Bids are
// normalized into arrival order so equal inputs always produce equal
// encodings regardless of the order the caller collected them in.
func NewSettlementRecord(roundID string, terms Terms, bids []Bid, outcome Outcome) SettlementRecord {
	ordered := make([]Bid, len(bids))
	copy(ordered, bids)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ArrivalRank < ordered[j].ArrivalRank
	})

	return SettlementRecord{
		RoundID: roundID,
		Terms:   terms,
		Bids:    ordered,
		Outcome: outcome,
	}
}

// Encode serializes the record as canonical CBOR.
func (r SettlementRecord) Encode() ([]byte, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to build CBOR encoder: %w", err)
	}
	data, err := mode.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settlement record: %w", err)
	}
	return data, nil
}

// Digest returns the hex SHA-256 of the canonical encoding.
func (r SettlementRecord) Digest() (string, error) {
	data, err := r.Encode()
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// VerifySettlementRecord re-runs settlement over the record's inputs and
// checks both the recorded outcome and the claimed digest. This is the
// offline check an auditor runs against a logged digest.
func VerifySettlementRecord(record SettlementRecord, claimedDigest string) error {
	recomputed := Settle(record.Terms, record.Bids)
	if recomputed != record.Outcome {
		return fmt.Errorf("recorded outcome %+v does not match recomputed outcome %+v",
			record.Outcome, recomputed)
	}

	digest, err := record.Digest()
	if err != nil {
		return err
	}
	if digest != claimedDigest {
		return fmt.Errorf("record digest %s does not match claimed digest %s", digest, claimedDigest)
	}
	return nil
}
