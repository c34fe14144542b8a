package rpc

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/reputation"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// ErrorData carries the module error kind to clients.
type ErrorData struct {
	Kind string `json:"kind"`
}

// BookingJSON is the wire view of a booking.
type BookingJSON struct {
	ID             uint64  `json:"id"`
	OfferID        uint64  `json:"offerId"`
	RequestID      uint64  `json:"requestId"`
	Provider       string  `json:"provider"`
	Requester      string  `json:"requester"`
	Hours          uint64  `json:"hours"`
	EscrowedAmount uint64  `json:"escrowedAmount"`
	Status         string  `json:"status"`
	CreatedBlock   uint64  `json:"createdBlock"`
	StartBlock     *uint64 `json:"startBlock,omitempty"`
	EndBlock       *uint64 `json:"endBlock,omitempty"`
	DisputeBlock   *uint64 `json:"disputeBlock,omitempty"`
	Metadata       string  `json:"metadata,omitempty"`
}

type DisputeJSON struct {
	BookingID    uint64 `json:"bookingId"`
	Reason       string `json:"reason"`
	Initiator    string `json:"initiator"`
	EvidenceHash string `json:"evidenceHash"`
	OpenedAt     uint64 `json:"openedAt"`
}

// BookingResult pairs a booking with its open dispute.
type BookingResult struct {
	Booking *BookingJSON `json:"booking"`
	Dispute *DisputeJSON `json:"dispute,omitempty"`
}

type RecordJSON struct {
	BookingID        uint64   `json:"bookingId"`
	Verified         bool     `json:"verified"`
	Rating           uint64   `json:"rating"`
	Timestamp        uint64   `json:"timestamp"`
	Verifier         string   `json:"verifier"`
	EvidenceHash     string   `json:"evidenceHash,omitempty"`
	DisputeActive    bool     `json:"disputeActive"`
	DisputeEvidence  []string `json:"disputeEvidence"`
	ConsensusCount   uint64   `json:"consensusCount"`
	TotalParties     uint64   `json:"totalParties"`
	Confirmers       []string `json:"confirmers"`
	Finalized        bool     `json:"finalized"`
	Released         bool     `json:"released"`
	OracleCalled     bool     `json:"oracleCalled"`
	Revoked          bool     `json:"revoked"`
	RevocationReason string   `json:"revocationReason,omitempty"`
}

type EscalationJSON struct {
	BookingID           uint64 `json:"bookingId"`
	Initiator           string `json:"initiator"`
	InitiatedAt         uint64 `json:"initiatedAt"`
	TimeoutBlock        uint64 `json:"timeoutBlock"`
	FeePaid             uint64 `json:"feePaid"`
	OracleResponse      *bool  `json:"oracleResponse,omitempty"`
	ResolutionTimestamp uint64 `json:"resolutionTimestamp,omitempty"`
	Resolved            bool   `json:"resolved"`
}

// VerificationResult pairs a record with its escalation.
type VerificationResult struct {
	Record     *RecordJSON     `json:"record"`
	Escalation *EscalationJSON `json:"escalation,omitempty"`
}

type EvidenceJSON struct {
	BookingID    uint64 `json:"bookingId"`
	SubmissionID uint64 `json:"submissionId"`
	Digest       string `json:"digest"`
	Submitter    string `json:"submitter"`
	Timestamp    uint64 `json:"timestamp"`
	Description  string `json:"description"`
	Verified     bool   `json:"verified"`
}

type ProfileJSON struct {
	Account      string `json:"account"`
	RegisteredAt uint64 `json:"registeredAt"`
	RatingCount  uint64 `json:"ratingCount"`
	RatingSum    uint64 `json:"ratingSum"`
	LastScore    uint64 `json:"lastScore"`
	Average      uint64 `json:"average"`
}

// ListingJSON is the wire view of an offer or a request.
type ListingJSON struct {
	ID           uint64 `json:"id"`
	Owner        string `json:"owner"`
	Title        string `json:"title"`
	Hours        uint64 `json:"hours"`
	Active       bool   `json:"active"`
	CreatedBlock uint64 `json:"createdBlock"`
}

type BalanceJSON struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type HeightJSON struct {
	Height    uint64 `json:"height"`
	Timestamp uint64 `json:"timestamp"`
	Hash      string `json:"hash"`
}

func optionalHeight(set bool, v uint64) *uint64 {
	if !set {
		return nil
	}
	return &v
}

func formatHash(h [32]byte) string {
	return "0x" + hex.EncodeToString(h[:])
}

func parseHash(field, value string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil || len(raw) != len(out) {
		return out, fmt.Errorf("%s must be a 32-byte hex digest", field)
	}
	copy(out[:], raw)
	return out, nil
}

func bookingView(b *booking.Booking) *BookingJSON {
	if b == nil {
		return nil
	}
	return &BookingJSON{
		ID:             b.ID,
		OfferID:        b.OfferID,
		RequestID:      b.RequestID,
		Provider:       crypto.FormatAccount(b.Provider),
		Requester:      crypto.FormatAccount(b.Requester),
		Hours:          b.Hours,
		EscrowedAmount: b.EscrowedAmount,
		Status:         b.Status.String(),
		CreatedBlock:   b.CreatedBlock,
		StartBlock:     optionalHeight(b.HasStart, b.StartBlock),
		EndBlock:       optionalHeight(b.HasEnd, b.EndBlock),
		DisputeBlock:   optionalHeight(b.HasDispute, b.DisputeBlock),
		Metadata:       string(b.Metadata),
	}
}

func disputeView(d *booking.Dispute) *DisputeJSON {
	if d == nil {
		return nil
	}
	return &DisputeJSON{
		BookingID:    d.BookingID,
		Reason:       d.Reason,
		Initiator:    crypto.FormatAccount(d.Initiator),
		EvidenceHash: formatHash(d.EvidenceHash),
		OpenedAt:     d.OpenedAt,
	}
}

func recordView(r *verification.Record) *RecordJSON {
	if r == nil {
		return nil
	}
	out := &RecordJSON{
		BookingID:        r.BookingID,
		Verified:         r.Verified,
		Rating:           r.Rating,
		Timestamp:        r.Timestamp,
		Verifier:         crypto.FormatAccount(r.Verifier),
		DisputeActive:    r.DisputeActive,
		DisputeEvidence:  []string{},
		ConsensusCount:   r.ConsensusCount,
		TotalParties:     r.TotalParties,
		Confirmers:       make([]string, 0, len(r.Confirmers)),
		Finalized:        r.Finalized,
		Released:         r.Released,
		OracleCalled:     r.OracleCalled,
		Revoked:          r.Revoked,
		RevocationReason: r.RevocationReason,
	}
	if r.HasEvidence {
		out.EvidenceHash = formatHash(r.EvidenceHash)
	}
	for _, digest := range r.Evidence() {
		out.DisputeEvidence = append(out.DisputeEvidence, formatHash(digest))
	}
	for _, c := range r.Confirmers {
		out.Confirmers = append(out.Confirmers, crypto.FormatAccount(c))
	}
	return out
}

func escalationView(e *verification.Escalation) *EscalationJSON {
	if e == nil {
		return nil
	}
	out := &EscalationJSON{
		BookingID:           e.BookingID,
		Initiator:           crypto.FormatAccount(e.Initiator),
		InitiatedAt:         e.InitiatedAt,
		TimeoutBlock:        e.TimeoutBlock,
		FeePaid:             e.FeePaid,
		ResolutionTimestamp: e.ResolutionTimestamp,
		Resolved:            e.Resolved,
	}
	if e.HasOracleResponse {
		response := e.OracleResponse
		out.OracleResponse = &response
	}
	return out
}

func evidenceView(e verification.EvidenceEntry) EvidenceJSON {
	return EvidenceJSON{
		BookingID:    e.BookingID,
		SubmissionID: e.SubmissionID,
		Digest:       formatHash(e.Digest),
		Submitter:    crypto.FormatAccount(e.Submitter),
		Timestamp:    e.Timestamp,
		Description:  e.Description,
		Verified:     e.Verified,
	}
}

func profileView(p *reputation.Profile) *ProfileJSON {
	if p == nil {
		return nil
	}
	return &ProfileJSON{
		Account:      crypto.FormatAccount(p.Account),
		RegisteredAt: p.RegisteredAt,
		RatingCount:  p.RatingCount,
		RatingSum:    p.RatingSum,
		LastScore:    p.LastScore,
		Average:      p.Average(),
	}
}

func offerView(o *catalog.Offer) *ListingJSON {
	if o == nil {
		return nil
	}
	return &ListingJSON{ID: o.ID, Owner: crypto.FormatAccount(o.Provider), Title: o.Title, Hours: o.Hours, Active: o.Active, CreatedBlock: o.CreatedBlock}
}

func requestView(r *catalog.Request) *ListingJSON {
	if r == nil {
		return nil
	}
	return &ListingJSON{ID: r.ID, Owner: crypto.FormatAccount(r.Requester), Title: r.Title, Hours: r.Hours, Active: r.Active, CreatedBlock: r.CreatedBlock}
}

func headerView(h *types.BlockHeader) (*HeightJSON, error) {
	hash, err := h.Hash()
	if err != nil {
		return nil, err
	}
	return &HeightJSON{Height: h.Height, Timestamp: h.Timestamp, Hash: formatHash(hash)}, nil
}
