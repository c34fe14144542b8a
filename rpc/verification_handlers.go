package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

type initiateParams struct {
	BookingID    uint64  `json:"bookingId"`
	Satisfied    bool    `json:"satisfied"`
	Rating       *uint64 `json:"rating,omitempty"`
	EvidenceHash string  `json:"evidenceHash,omitempty"`
}

type submitEvidenceParams struct {
	BookingID   uint64 `json:"bookingId"`
	Digest      string `json:"digest"`
	Description string `json:"description"`
}

type escalateParams struct {
	BookingID uint64 `json:"bookingId"`
	Fee       uint64 `json:"fee"`
}

type resolveVerificationParams struct {
	BookingID          uint64 `json:"bookingId"`
	InFavorOfRequester bool   `json:"inFavorOfRequester"`
}

type confirmParams struct {
	BookingID uint64 `json:"bookingId"`
	Agrees    bool   `json:"agrees"`
}

type revokeParams struct {
	BookingID uint64 `json:"bookingId"`
	Reason    string `json:"reason"`
}

type totalPartiesParams struct {
	BookingID    uint64 `json:"bookingId"`
	TotalParties uint64 `json:"totalParties"`
}

func (s *Server) verificationResult(bookingID uint64) (*VerificationResult, error) {
	record, ok, err := s.node.Verification(bookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("verification: %w: %d", coreerrors.ErrNotFound, bookingID)
	}
	out := &VerificationResult{Record: recordView(record)}
	esc, ok, err := s.node.Escalation(bookingID)
	if err != nil {
		return nil, err
	}
	if ok {
		out.Escalation = escalationView(esc)
	}
	return out, nil
}

func (s *Server) verificationInitiate(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params initiateParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	in := verification.InitiateParams{Satisfied: params.Satisfied}
	if params.Rating != nil {
		in.Rating = *params.Rating
		in.HasRating = true
	}
	if params.EvidenceHash != "" {
		digest, err := parseHash("evidenceHash", params.EvidenceHash)
		if err != nil {
			return nil, invalidParams(err.Error())
		}
		in.EvidenceHash = digest
		in.HasEvidence = true
	}
	if _, err := s.node.InitiateVerification(caller, params.BookingID, in); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationSubmitEvidence(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params submitEvidenceParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	digest, err := parseHash("digest", params.Digest)
	if err != nil {
		return nil, invalidParams(err.Error())
	}
	entry, err := s.node.SubmitEvidence(caller, params.BookingID, digest, params.Description)
	if err != nil {
		return nil, err
	}
	return evidenceView(*entry), nil
}

func (s *Server) verificationDispute(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params escalateParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if _, err := s.node.EscalateVerification(caller, params.BookingID, params.Fee); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationResolve(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params resolveVerificationParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if _, err := s.node.ResolveVerification(caller, params.BookingID, params.InFavorOfRequester); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationConfirm(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params confirmParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if _, err := s.node.ConfirmConsensus(caller, params.BookingID, params.Agrees); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationRevoke(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params revokeParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if _, err := s.node.RevokeVerification(caller, params.BookingID, params.Reason); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationSetTotalParties(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params totalPartiesParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if _, err := s.node.SetTotalParties(caller, params.BookingID, params.TotalParties); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationCleanup(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params bookingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	if err := s.node.CleanupVerification(caller, params.BookingID); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationGet(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params bookingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	return s.verificationResult(params.BookingID)
}

func (s *Server) verificationEvidence(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params bookingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	entries, err := s.node.Evidence(params.BookingID)
	if err != nil {
		return nil, err
	}
	out := make([]EvidenceJSON, 0, len(entries))
	for _, entry := range entries {
		out = append(out, evidenceView(entry))
	}
	return out, nil
}
