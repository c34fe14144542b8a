package core

import (
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/reputation"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

// Operation names double as metric labels and log fields.
const (
	OpBookingCreate        = "booking.create"
	OpBookingStart         = "booking.start"
	OpBookingComplete      = "booking.complete"
	OpBookingCancel        = "booking.cancel"
	OpBookingDispute       = "booking.dispute"
	OpBookingResolve       = "booking.resolve"
	OpBookingTimeoutRefund = "booking.timeout_refund"
	OpBookingSetAdmin      = "booking.set_admin"
	OpBookingPause         = "booking.pause"
	OpBookingUnpause       = "booking.unpause"

	OpVerificationInitiate        = "verification.initiate"
	OpVerificationSubmitEvidence  = "verification.submit_evidence"
	OpVerificationDispute         = "verification.dispute"
	OpVerificationResolve         = "verification.resolve"
	OpVerificationConfirm         = "verification.confirm"
	OpVerificationRevoke          = "verification.revoke"
	OpVerificationSetTotalParties = "verification.set_total_parties"
	OpVerificationCleanup         = "verification.cleanup"
	OpVerificationSetAdmin        = "verification.set_admin"
	OpVerificationPause           = "verification.pause"
	OpVerificationUnpause         = "verification.unpause"

	OpBankTransfer         = "bank.transfer"
	OpReputationRegister   = "reputation.register"
	OpCatalogCreateOffer   = "catalog.create_offer"
	OpCatalogCreateRequest = "catalog.create_request"
	OpCatalogCancelOffer   = "catalog.cancel_offer"
	OpCatalogCancelRequest = "catalog.cancel_request"
)

// --- booking ---

// CreateBooking locks hours of escrow from the requester against an offer.
func (n *Node) CreateBooking(caller [20]byte, offerID, requestID, hours uint64, metadata []byte) (*booking.Booking, error) {
	var out *booking.Booking
	err := n.execute(OpBookingCreate, func(m *modules) error {
		var err error
		out, err = m.booking.Create(caller, offerID, requestID, hours, metadata)
		return err
	})
	return out, err
}

func (n *Node) StartBooking(caller [20]byte, id uint64) (*booking.Booking, error) {
	var out *booking.Booking
	err := n.execute(OpBookingStart, func(m *modules) error {
		var err error
		out, err = m.booking.Start(caller, id)
		return err
	})
	return out, err
}

func (n *Node) CompleteBooking(caller [20]byte, id uint64) (*booking.Booking, error) {
	var out *booking.Booking
	err := n.execute(OpBookingComplete, func(m *modules) error {
		var err error
		out, err = m.booking.Complete(caller, id)
		return err
	})
	return out, err
}

func (n *Node) CancelBooking(caller [20]byte, id uint64) (*booking.Booking, error) {
	var out *booking.Booking
	err := n.execute(OpBookingCancel, func(m *modules) error {
		var err error
		out, err = m.booking.Cancel(caller, id)
		return err
	})
	return out, err
}

func (n *Node) DisputeBooking(caller [20]byte, id uint64, reason string, evidenceHash [32]byte) (*booking.Dispute, error) {
	var out *booking.Dispute
	err := n.execute(OpBookingDispute, func(m *modules) error {
		var err error
		out, err = m.booking.InitiateDispute(caller, id, reason, evidenceHash)
		return err
	})
	return out, err
}

func (n *Node) ResolveBookingDispute(caller [20]byte, id uint64, releaseToProvider bool) (*booking.Booking, error) {
	var out *booking.Booking
	err := n.execute(OpBookingResolve, func(m *modules) error {
		var err error
		out, err = m.booking.ResolveDispute(caller, id, releaseToProvider)
		return err
	})
	return out, err
}

// TimeoutRefund needs no caller; anyone may trigger an expired refund.
func (n *Node) TimeoutRefund(id uint64) (*booking.Booking, error) {
	var out *booking.Booking
	err := n.execute(OpBookingTimeoutRefund, func(m *modules) error {
		var err error
		out, err = m.booking.TimeoutRefund(id)
		return err
	})
	return out, err
}

func (n *Node) SetBookingAdmin(caller, next [20]byte) error {
	return n.execute(OpBookingSetAdmin, func(m *modules) error {
		return m.booking.SetAdmin(caller, next)
	})
}

func (n *Node) PauseBooking(caller [20]byte) error {
	return n.execute(OpBookingPause, func(m *modules) error { return m.booking.Pause(caller) })
}

func (n *Node) UnpauseBooking(caller [20]byte) error {
	return n.execute(OpBookingUnpause, func(m *modules) error { return m.booking.Unpause(caller) })
}

// --- verification ---

func (n *Node) InitiateVerification(caller [20]byte, bookingID uint64, params verification.InitiateParams) (*verification.Record, error) {
	var out *verification.Record
	err := n.execute(OpVerificationInitiate, func(m *modules) error {
		var err error
		out, err = m.verification.InitiateVerification(caller, bookingID, params)
		return err
	})
	return out, err
}

func (n *Node) SubmitEvidence(caller [20]byte, bookingID uint64, digest [32]byte, description string) (*verification.EvidenceEntry, error) {
	var out *verification.EvidenceEntry
	err := n.execute(OpVerificationSubmitEvidence, func(m *modules) error {
		var err error
		out, err = m.verification.SubmitEvidence(caller, bookingID, digest, description)
		return err
	})
	return out, err
}

func (n *Node) EscalateVerification(caller [20]byte, bookingID, fee uint64) (*verification.Escalation, error) {
	var out *verification.Escalation
	err := n.execute(OpVerificationDispute, func(m *modules) error {
		var err error
		out, err = m.verification.InitiateDispute(caller, bookingID, fee)
		return err
	})
	return out, err
}

func (n *Node) ResolveVerification(caller [20]byte, bookingID uint64, inFavorOfRequester bool) (*verification.Record, error) {
	var out *verification.Record
	err := n.execute(OpVerificationResolve, func(m *modules) error {
		var err error
		out, err = m.verification.ResolveDispute(caller, bookingID, inFavorOfRequester)
		return err
	})
	return out, err
}

func (n *Node) ConfirmConsensus(caller [20]byte, bookingID uint64, agrees bool) (*verification.Record, error) {
	var out *verification.Record
	err := n.execute(OpVerificationConfirm, func(m *modules) error {
		var err error
		out, err = m.verification.ConfirmConsensus(caller, bookingID, agrees)
		return err
	})
	return out, err
}

func (n *Node) RevokeVerification(caller [20]byte, bookingID uint64, reason string) (*verification.Record, error) {
	var out *verification.Record
	err := n.execute(OpVerificationRevoke, func(m *modules) error {
		var err error
		out, err = m.verification.RevokeVerification(caller, bookingID, reason)
		return err
	})
	return out, err
}

func (n *Node) SetTotalParties(caller [20]byte, bookingID, total uint64) (*verification.Record, error) {
	var out *verification.Record
	err := n.execute(OpVerificationSetTotalParties, func(m *modules) error {
		var err error
		out, err = m.verification.SetTotalParties(caller, bookingID, total)
		return err
	})
	return out, err
}

func (n *Node) CleanupVerification(caller [20]byte, bookingID uint64) error {
	return n.execute(OpVerificationCleanup, func(m *modules) error {
		return m.verification.CleanupOldVerification(caller, bookingID)
	})
}

func (n *Node) SetVerificationAdmin(caller, next [20]byte) error {
	return n.execute(OpVerificationSetAdmin, func(m *modules) error {
		return m.verification.SetAdmin(caller, next)
	})
}

func (n *Node) PauseVerification(caller [20]byte) error {
	return n.execute(OpVerificationPause, func(m *modules) error { return m.verification.Pause(caller) })
}

func (n *Node) UnpauseVerification(caller [20]byte) error {
	return n.execute(OpVerificationUnpause, func(m *modules) error { return m.verification.Unpause(caller) })
}

// --- ledger, profiles and listings ---

// Transfer moves amount from the caller to another account.
func (n *Node) Transfer(caller, to [20]byte, amount uint64) error {
	return n.execute(OpBankTransfer, func(m *modules) error {
		return m.bank.Transfer(caller, caller, to, amount)
	})
}

func (n *Node) RegisterProfile(caller [20]byte) (*reputation.Profile, error) {
	var out *reputation.Profile
	err := n.execute(OpReputationRegister, func(m *modules) error {
		var err error
		out, err = m.reputation.Register(caller)
		return err
	})
	return out, err
}

func (n *Node) CreateOffer(caller [20]byte, title string, hours uint64) (*catalog.Offer, error) {
	var out *catalog.Offer
	err := n.execute(OpCatalogCreateOffer, func(m *modules) error {
		var err error
		out, err = m.catalog.CreateOffer(caller, title, hours)
		return err
	})
	return out, err
}

func (n *Node) CreateRequest(caller [20]byte, title string, hours uint64) (*catalog.Request, error) {
	var out *catalog.Request
	err := n.execute(OpCatalogCreateRequest, func(m *modules) error {
		var err error
		out, err = m.catalog.CreateRequest(caller, title, hours)
		return err
	})
	return out, err
}

func (n *Node) CancelOffer(caller [20]byte, id uint64) (*catalog.Offer, error) {
	var out *catalog.Offer
	err := n.execute(OpCatalogCancelOffer, func(m *modules) error {
		var err error
		out, err = m.catalog.CancelOffer(caller, id)
		return err
	})
	return out, err
}

func (n *Node) CancelRequest(caller [20]byte, id uint64) (*catalog.Request, error) {
	var out *catalog.Request
	err := n.execute(OpCatalogCancelRequest, func(m *modules) error {
		var err error
		out, err = m.catalog.CancelRequest(caller, id)
		return err
	})
	return out, err
}
