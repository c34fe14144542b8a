package core

import (
	"github.com/holiman/uint256"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/reputation"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
)

// Booking returns a booking by id.
func (n *Node) Booking(id uint64) (*booking.Booking, bool, error) {
	var (
		out *booking.Booking
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.booking.Booking(id)
		return err
	})
	return out, ok, err
}

// BookingDispute returns the open booking-engine dispute, if any.
func (n *Node) BookingDispute(id uint64) (*booking.Dispute, bool, error) {
	var (
		out *booking.Dispute
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.booking.Dispute(id)
		return err
	})
	return out, ok, err
}

func (n *Node) Verification(bookingID uint64) (*verification.Record, bool, error) {
	var (
		out *verification.Record
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.verification.Record(bookingID)
		return err
	})
	return out, ok, err
}

func (n *Node) Escalation(bookingID uint64) (*verification.Escalation, bool, error) {
	var (
		out *verification.Escalation
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.verification.Escalation(bookingID)
		return err
	})
	return out, ok, err
}

// Evidence returns the evidence log of a booking in submission order.
func (n *Node) Evidence(bookingID uint64) ([]verification.EvidenceEntry, error) {
	var out []verification.EvidenceEntry
	err := n.view(func(m *modules) error {
		var err error
		out, err = m.verification.Evidence(bookingID)
		return err
	})
	return out, err
}

func (n *Node) Balance(account [20]byte) (*uint256.Int, error) {
	var out *uint256.Int
	err := n.view(func(m *modules) error {
		var err error
		out, err = m.bank.Balance(account)
		return err
	})
	return out, err
}

// EscrowHeld reports the escrow share still held for a booking.
func (n *Node) EscrowHeld(bookingID uint64) (uint64, error) {
	var out uint64
	err := n.view(func(m *modules) error {
		var err error
		out, err = m.vault.Held(bookingID)
		return err
	})
	return out, err
}

func (n *Node) Reputation(account [20]byte) (*reputation.Profile, bool, error) {
	var (
		out *reputation.Profile
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.reputation.Get(account)
		return err
	})
	return out, ok, err
}

func (n *Node) Offer(id uint64) (*catalog.Offer, bool, error) {
	var (
		out *catalog.Offer
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.catalog.GetOffer(id)
		return err
	})
	return out, ok, err
}

func (n *Node) Request(id uint64) (*catalog.Request, bool, error) {
	var (
		out *catalog.Request
		ok  bool
	)
	err := n.view(func(m *modules) error {
		var err error
		out, ok, err = m.catalog.GetRequest(id)
		return err
	})
	return out, ok, err
}

// Admins returns the booking and verification admins.
func (n *Node) Admins() (bookingAdmin, verificationAdmin [20]byte, err error) {
	err = n.view(func(m *modules) error {
		var err error
		if bookingAdmin, _, err = m.booking.Admin(); err != nil {
			return err
		}
		verificationAdmin, _, err = m.verification.Admin()
		return err
	})
	return bookingAdmin, verificationAdmin, err
}
