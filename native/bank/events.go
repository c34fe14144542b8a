package bank

import (
	"strconv"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

const (
	EventTypeTransfer = "bank.transfer"
	EventTypeMint     = "bank.mint"
)

// NewTransferEvent returns the canonical payload for a balance transfer.
func NewTransferEvent(from, to [20]byte, amount uint64) *types.Event {
	return &types.Event{
		Type: EventTypeTransfer,
		Attributes: map[string]string{
			"from":   crypto.FormatAccount(from),
			"to":     crypto.FormatAccount(to),
			"amount": strconv.FormatUint(amount, 10),
		},
	}
}

// NewMintEvent returns the canonical payload for a genesis mint.
func NewMintEvent(to [20]byte, amount uint64) *types.Event {
	return &types.Event{
		Type: EventTypeMint,
		Attributes: map[string]string{
			"to":     crypto.FormatAccount(to),
			"amount": strconv.FormatUint(amount, 10),
		},
	}
}
