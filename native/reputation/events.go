package reputation

import (
	"strconv"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

const (
	// EventTypeRegistered is emitted when an account opens a profile.
	EventTypeRegistered = "reputation.registered"
	// EventTypeRated is emitted for every accepted rating.
	EventTypeRated = "reputation.rated"
)

// NewRegisteredEvent returns the canonical event payload for a new profile.
func NewRegisteredEvent(p *Profile) *types.Event {
	attrs := make(map[string]string)
	if p != nil {
		attrs["account"] = crypto.FormatAccount(p.Account)
		attrs["registeredAt"] = strconv.FormatUint(p.RegisteredAt, 10)
	}
	return &types.Event{Type: EventTypeRegistered, Attributes: attrs}
}

// NewRatedEvent returns the canonical event payload for an accepted rating.
func NewRatedEvent(p *Profile) *types.Event {
	attrs := make(map[string]string)
	if p != nil {
		attrs["account"] = crypto.FormatAccount(p.Account)
		attrs["score"] = strconv.FormatUint(p.LastScore, 10)
		attrs["count"] = strconv.FormatUint(p.RatingCount, 10)
		attrs["average"] = strconv.FormatUint(p.Average(), 10)
	}
	return &types.Event{Type: EventTypeRated, Attributes: attrs}
}
