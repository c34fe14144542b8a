package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
)

type bookingIDParams struct {
	BookingID uint64 `json:"bookingId"`
}

type createBookingParams struct {
	OfferID   uint64 `json:"offerId"`
	RequestID uint64 `json:"requestId"`
	Hours     uint64 `json:"hours"`
	Metadata  string `json:"metadata,omitempty"`
}

type disputeBookingParams struct {
	BookingID    uint64 `json:"bookingId"`
	Reason       string `json:"reason"`
	EvidenceHash string `json:"evidenceHash"`
}

type resolveBookingParams struct {
	BookingID         uint64 `json:"bookingId"`
	ReleaseToProvider bool   `json:"releaseToProvider"`
}

type setAdminParams struct {
	Admin string `json:"admin"`
}

func (s *Server) routes() map[string]method {
	return map[string]method{
		"booking_create":        {mutating: true, handle: s.bookingCreate},
		"booking_start":         {mutating: true, handle: s.bookingTransition(s.node.StartBooking)},
		"booking_complete":      {mutating: true, handle: s.bookingTransition(s.node.CompleteBooking)},
		"booking_cancel":        {mutating: true, handle: s.bookingTransition(s.node.CancelBooking)},
		"booking_dispute":       {mutating: true, handle: s.bookingDispute},
		"booking_resolve":       {mutating: true, handle: s.bookingResolve},
		"booking_timeoutRefund": {mutating: true, handle: s.bookingTimeoutRefund},
		"booking_get":           {handle: s.bookingGet},
		"booking_setAdmin":      {mutating: true, handle: s.setAdmin(s.node.SetBookingAdmin)},
		"booking_pause":         {mutating: true, handle: s.adminToggle(s.node.PauseBooking)},
		"booking_unpause":       {mutating: true, handle: s.adminToggle(s.node.UnpauseBooking)},

		"verification_initiate":        {mutating: true, handle: s.verificationInitiate},
		"verification_submitEvidence":  {mutating: true, handle: s.verificationSubmitEvidence},
		"verification_dispute":         {mutating: true, handle: s.verificationDispute},
		"verification_resolve":         {mutating: true, handle: s.verificationResolve},
		"verification_confirm":         {mutating: true, handle: s.verificationConfirm},
		"verification_revoke":          {mutating: true, handle: s.verificationRevoke},
		"verification_setTotalParties": {mutating: true, handle: s.verificationSetTotalParties},
		"verification_cleanup":         {mutating: true, handle: s.verificationCleanup},
		"verification_get":             {handle: s.verificationGet},
		"verification_evidence":        {handle: s.verificationEvidence},
		"verification_setAdmin":        {mutating: true, handle: s.setAdmin(s.node.SetVerificationAdmin)},
		"verification_pause":           {mutating: true, handle: s.adminToggle(s.node.PauseVerification)},
		"verification_unpause":         {mutating: true, handle: s.adminToggle(s.node.UnpauseVerification)},

		"bank_balance":          {handle: s.bankBalance},
		"bank_transfer":         {mutating: true, handle: s.bankTransfer},
		"reputation_register":   {mutating: true, handle: s.reputationRegister},
		"reputation_get":        {handle: s.reputationGet},
		"catalog_createOffer":   {mutating: true, handle: s.catalogCreateOffer},
		"catalog_createRequest": {mutating: true, handle: s.catalogCreateRequest},
		"catalog_cancelOffer":   {mutating: true, handle: s.catalogCancelOffer},
		"catalog_cancelRequest": {mutating: true, handle: s.catalogCancelRequest},
		"catalog_getOffer":      {handle: s.catalogGetOffer},
		"catalog_getRequest":    {handle: s.catalogGetRequest},
		"chain_height":          {handle: s.chainHeight},
	}
}

func (s *Server) bookingResult(b *booking.Booking) (*BookingResult, error) {
	out := &BookingResult{Booking: bookingView(b)}
	dispute, ok, err := s.node.BookingDispute(b.ID)
	if err != nil {
		return nil, err
	}
	if ok {
		out.Dispute = disputeView(dispute)
	}
	return out, nil
}

func (s *Server) bookingCreate(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params createBookingParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	var metadata []byte
	if params.Metadata != "" {
		metadata = []byte(params.Metadata)
	}
	b, err := s.node.CreateBooking(caller, params.OfferID, params.RequestID, params.Hours, metadata)
	if err != nil {
		return nil, err
	}
	return s.bookingResult(b)
}

func (s *Server) bookingTransition(fn func(caller [20]byte, id uint64) (*booking.Booking, error)) handlerFunc {
	return func(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
		var params bookingIDParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		b, err := fn(caller, params.BookingID)
		if err != nil {
			return nil, err
		}
		return s.bookingResult(b)
	}
}

func (s *Server) bookingDispute(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params disputeBookingParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	var evidence [32]byte
	if params.EvidenceHash != "" {
		digest, err := parseHash("evidenceHash", params.EvidenceHash)
		if err != nil {
			return nil, invalidParams(err.Error())
		}
		evidence = digest
	}
	if _, err := s.node.DisputeBooking(caller, params.BookingID, params.Reason, evidence); err != nil {
		return nil, err
	}
	b, ok, err := s.node.Booking(params.BookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("booking: %w: %d", coreerrors.ErrNotFound, params.BookingID)
	}
	return s.bookingResult(b)
}

func (s *Server) bookingResolve(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
	var params resolveBookingParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	b, err := s.node.ResolveBookingDispute(caller, params.BookingID, params.ReleaseToProvider)
	if err != nil {
		return nil, err
	}
	return s.bookingResult(b)
}

func (s *Server) bookingTimeoutRefund(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params bookingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	b, err := s.node.TimeoutRefund(params.BookingID)
	if err != nil {
		return nil, err
	}
	return s.bookingResult(b)
}

func (s *Server) bookingGet(_ context.Context, _ [20]byte, raw json.RawMessage) (interface{}, error) {
	var params bookingIDParams
	if err := decodeParams(raw, &params); err != nil {
		return nil, err
	}
	b, ok, err := s.node.Booking(params.BookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("booking: %w: %d", coreerrors.ErrNotFound, params.BookingID)
	}
	return s.bookingResult(b)
}

func (s *Server) setAdmin(fn func(caller, next [20]byte) error) handlerFunc {
	return func(_ context.Context, caller [20]byte, raw json.RawMessage) (interface{}, error) {
		var params setAdminParams
		if err := decodeParams(raw, &params); err != nil {
			return nil, err
		}
		next, err := parseAccountParam("admin", params.Admin)
		if err != nil {
			return nil, err
		}
		if err := fn(caller, next); err != nil {
			return nil, err
		}
		return map[string]string{"admin": params.Admin}, nil
	}
}

func (s *Server) adminToggle(fn func(caller [20]byte) error) handlerFunc {
	return func(_ context.Context, caller [20]byte, _ json.RawMessage) (interface{}, error) {
		if err := fn(caller); err != nil {
			return nil, err
		}
		return map[string]bool{"ok": true}, nil
	}
}
