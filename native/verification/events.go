package verification

import (
	"encoding/hex"
	"strconv"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

const (
	EventTypeInitiated         = "verification.initiated"
	EventTypeEvidenceSubmitted = "verification.evidence_submitted"
	EventTypeDisputeEscalated  = "verification.dispute_escalated"
	EventTypeDisputeResolved   = "verification.dispute_resolved"
	EventTypeConfirmed         = "verification.confirmed"
	EventTypeFinalized         = "verification.finalized"
	EventTypeRevoked           = "verification.revoked"
	EventTypePartiesUpdated    = "verification.parties_updated"
	EventTypeCleaned           = "verification.cleaned"
	EventTypeAdminChanged      = "verification.admin_changed"
	EventTypeModulePaused      = "verification.paused"
	EventTypeModuleUnpaused    = "verification.unpaused"
)

func newRecordEvent(kind string, r *Record) *types.Event {
	attrs := make(map[string]string)
	if r != nil {
		attrs["bookingId"] = strconv.FormatUint(r.BookingID, 10)
		attrs["verified"] = strconv.FormatBool(r.Verified)
		attrs["rating"] = strconv.FormatUint(r.Rating, 10)
		attrs["disputeActive"] = strconv.FormatBool(r.DisputeActive)
		attrs["consensus"] = strconv.FormatUint(r.ConsensusCount, 10) + "/" + strconv.FormatUint(r.TotalParties, 10)
	}
	return &types.Event{Type: kind, Attributes: attrs}
}

func newEvidenceEvent(entry *EvidenceEntry) *types.Event {
	return &types.Event{
		Type: EventTypeEvidenceSubmitted,
		Attributes: map[string]string{
			"bookingId":    strconv.FormatUint(entry.BookingID, 10),
			"submissionId": strconv.FormatUint(entry.SubmissionID, 10),
			"digest":       hex.EncodeToString(entry.Digest[:]),
			"submitter":    crypto.FormatAccount(entry.Submitter),
		},
	}
}

func newEscalationEvent(kind string, esc *Escalation) *types.Event {
	attrs := map[string]string{
		"bookingId":    strconv.FormatUint(esc.BookingID, 10),
		"initiator":    crypto.FormatAccount(esc.Initiator),
		"feePaid":      strconv.FormatUint(esc.FeePaid, 10),
		"timeoutBlock": strconv.FormatUint(esc.TimeoutBlock, 10),
	}
	if esc.HasOracleResponse {
		attrs["oracleResponse"] = strconv.FormatBool(esc.OracleResponse)
	}
	return &types.Event{Type: kind, Attributes: attrs}
}

func newAdminEvent(kind string, admin [20]byte) *types.Event {
	return &types.Event{
		Type:       kind,
		Attributes: map[string]string{"admin": crypto.FormatAccount(admin)},
	}
}
