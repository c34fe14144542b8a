package booking

import (
	"encoding/hex"
	"strconv"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

const (
	EventTypeCreated        = "booking.created"
	EventTypeStarted        = "booking.started"
	EventTypeCompleted      = "booking.completed"
	EventTypeCancelled      = "booking.cancelled"
	EventTypeDisputed       = "booking.disputed"
	EventTypeResolved       = "booking.resolved"
	EventTypeTimeoutRefund  = "booking.timeout_refunded"
	EventTypeAdminChanged   = "booking.admin_changed"
	EventTypeModulePaused   = "booking.paused"
	EventTypeModuleUnpaused = "booking.unpaused"
)

func newBookingEvent(kind string, b *Booking) *types.Event {
	attrs := make(map[string]string)
	if b != nil {
		attrs["bookingId"] = strconv.FormatUint(b.ID, 10)
		attrs["offerId"] = strconv.FormatUint(b.OfferID, 10)
		attrs["requestId"] = strconv.FormatUint(b.RequestID, 10)
		attrs["provider"] = crypto.FormatAccount(b.Provider)
		attrs["requester"] = crypto.FormatAccount(b.Requester)
		attrs["hours"] = strconv.FormatUint(b.Hours, 10)
		attrs["status"] = b.Status.String()
	}
	return &types.Event{Type: kind, Attributes: attrs}
}

// NewDisputedEvent returns the payload emitted when a booking is disputed.
func NewDisputedEvent(b *Booking, d *Dispute) *types.Event {
	evt := newBookingEvent(EventTypeDisputed, b)
	if d != nil {
		evt.Attributes["initiator"] = crypto.FormatAccount(d.Initiator)
		evt.Attributes["reason"] = d.Reason
		evt.Attributes["evidenceHash"] = hex.EncodeToString(d.EvidenceHash[:])
	}
	return evt
}

// NewResolvedEvent returns the payload emitted when an arbiter or a timeout
// settles a dispute. recipient is the account the escrow was awarded to and
// paid is the amount actually transferred, zero when the escrow had already
// been settled.
func NewResolvedEvent(kind string, b *Booking, recipient [20]byte, paid uint64) *types.Event {
	evt := newBookingEvent(kind, b)
	evt.Attributes["recipient"] = crypto.FormatAccount(recipient)
	evt.Attributes["paid"] = strconv.FormatBool(paid > 0)
	evt.Attributes["amount"] = strconv.FormatUint(paid, 10)
	return evt
}

func newAdminEvent(kind string, admin [20]byte) *types.Event {
	return &types.Event{
		Type:       kind,
		Attributes: map[string]string{"admin": crypto.FormatAccount(admin)},
	}
}
