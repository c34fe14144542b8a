package booking

import (
	"fmt"
	"strings"
)

// Status enumerates the booking lifecycle states.
type Status uint8

const (
	StatusPending Status = iota
	StatusActive
	StatusCompleted
	StatusCancelled
	StatusDisputed
	StatusResolved
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusDisputed:
		return "disputed"
	case StatusResolved:
		return "resolved"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ParseStatus converts the lowercase name returned by String back to a Status.
func ParseStatus(name string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pending":
		return StatusPending, nil
	case "active":
		return StatusActive, nil
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	case "disputed":
		return StatusDisputed, nil
	case "resolved":
		return StatusResolved, nil
	default:
		return 0, fmt.Errorf("booking: unknown status %q", name)
	}
}

// Valid reports whether s is a defined status.
func (s Status) Valid() bool { return s <= StatusResolved }

// Booking is one matched provider/requester deal and its escrow terms.
type Booking struct {
	ID             uint64
	OfferID        uint64
	RequestID      uint64
	Provider       [20]byte
	Requester      [20]byte
	Hours          uint64
	EscrowedAmount uint64
	Status         Status
	CreatedBlock   uint64
	StartBlock     uint64
	EndBlock       uint64
	DisputeBlock   uint64
	HasStart       bool
	HasEnd         bool
	HasDispute     bool
	Metadata       []byte
}

// IsParty reports whether account is the provider or the requester.
func (b *Booking) IsParty(account [20]byte) bool {
	if b == nil {
		return false
	}
	return account == b.Provider || account == b.Requester
}

// Clone returns a deep copy of the booking.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	dup := *b
	dup.Metadata = append([]byte(nil), b.Metadata...)
	return &dup
}

// Dispute is the single-arbiter dispute opened against a booking.
type Dispute struct {
	BookingID    uint64
	Reason       string
	Initiator    [20]byte
	EvidenceHash [32]byte
	OpenedAt     uint64
}

// Clone returns a copy of the dispute.
func (d *Dispute) Clone() *Dispute {
	if d == nil {
		return nil
	}
	dup := *d
	return &dup
}

type storedBooking struct {
	ID             uint64
	OfferID        uint64
	RequestID      uint64
	Provider       [20]byte
	Requester      [20]byte
	Hours          uint64
	EscrowedAmount uint64
	Status         uint8
	CreatedBlock   uint64
	StartBlock     uint64
	EndBlock       uint64
	DisputeBlock   uint64
	HasStart       bool
	HasEnd         bool
	HasDispute     bool
	Metadata       []byte
}

func newStoredBooking(b *Booking) *storedBooking {
	return &storedBooking{
		ID:             b.ID,
		OfferID:        b.OfferID,
		RequestID:      b.RequestID,
		Provider:       b.Provider,
		Requester:      b.Requester,
		Hours:          b.Hours,
		EscrowedAmount: b.EscrowedAmount,
		Status:         uint8(b.Status),
		CreatedBlock:   b.CreatedBlock,
		StartBlock:     b.StartBlock,
		EndBlock:       b.EndBlock,
		DisputeBlock:   b.DisputeBlock,
		HasStart:       b.HasStart,
		HasEnd:         b.HasEnd,
		HasDispute:     b.HasDispute,
		Metadata:       append([]byte(nil), b.Metadata...),
	}
}

func (s *storedBooking) toBooking() (*Booking, error) {
	status := Status(s.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("booking: stored status %d invalid", s.Status)
	}
	return &Booking{
		ID:             s.ID,
		OfferID:        s.OfferID,
		RequestID:      s.RequestID,
		Provider:       s.Provider,
		Requester:      s.Requester,
		Hours:          s.Hours,
		EscrowedAmount: s.EscrowedAmount,
		Status:         status,
		CreatedBlock:   s.CreatedBlock,
		StartBlock:     s.StartBlock,
		EndBlock:       s.EndBlock,
		DisputeBlock:   s.DisputeBlock,
		HasStart:       s.HasStart,
		HasEnd:         s.HasEnd,
		HasDispute:     s.HasDispute,
		Metadata:       append([]byte(nil), s.Metadata...),
	}, nil
}
