package explorer

import (
	"strings"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/bank"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

var eventLabels = map[string]string{
	booking.EventTypeCreated:                "Booking created",
	booking.EventTypeStarted:                "Care session started",
	booking.EventTypeCompleted:              "Care session completed",
	booking.EventTypeCancelled:              "Booking cancelled",
	booking.EventTypeDisputed:               "Booking disputed",
	booking.EventTypeResolved:               "Dispute resolved",
	booking.EventTypeTimeoutRefund:          "Refunded after timeout",
	verification.EventTypeInitiated:         "Verification opened",
	verification.EventTypeEvidenceSubmitted: "Evidence submitted",
	verification.EventTypeDisputeEscalated:  "Escalated to arbitration",
	verification.EventTypeDisputeResolved:   "Arbitration resolved",
	verification.EventTypeConfirmed:         "Confirmation recorded",
	verification.EventTypeFinalized:         "Verification finalized",
	verification.EventTypeRevoked:           "Verification revoked",
	verification.EventTypeCleaned:           "Escalation cleaned up",
	bank.EventTypeTransfer:                  "Tokens transferred",
}

// Label returns the explorer label for an event type. Unknown types fall
// back to the type itself with dots replaced.
func Label(eventType string) string {
	normalized := strings.ToLower(strings.TrimSpace(eventType))
	if label, ok := eventLabels[normalized]; ok {
		return label
	}
	if normalized == "" {
		return "Event"
	}
	return strings.ReplaceAll(normalized, ".", " ")
}
