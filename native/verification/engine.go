package verification

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/common"
)

const (
	// ModuleName scopes the verification admin and pause parameters.
	ModuleName = "verification"
	// EscalationTimeoutBlocks is how long an escalation waits for the oracle.
	EscalationTimeoutBlocks uint64 = 144
	// RevocationWindowBlocks is how long after initiation a record may be revoked.
	RevocationWindowBlocks uint64 = 10
	// AutoEscalationFee is charged when consensus ends in disagreement.
	AutoEscalationFee uint64 = 10
	// DefaultTotalParties is the consensus denominator of a new record.
	DefaultTotalParties uint64 = 2

	reputationMax uint64 = 100

	evidenceSequence = "verification/evidence"
)

var (
	errNilState = errors.New("verification engine: state not configured")
	errNotWired = errors.New("verification engine: collaborators not configured")
)

var (
	recordPrefix     = []byte("verification/record/")
	escalationPrefix = []byte("verification/escalation/")
	evidencePrefix   = []byte("verification/evidence/")
)

func evidenceBookingPrefix(bookingID uint64) []byte {
	return state.Uint64Key(evidencePrefix, bookingID)
}

func evidenceKey(bookingID, submissionID uint64) []byte {
	prefix := evidenceBookingPrefix(bookingID)
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], submissionID)
	return key
}

type engineState interface {
	common.AdminState
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	KVIterate(prefix []byte, fn func(key []byte, decode func(out interface{}) error) error) error
	NextSequence(name string) (uint64, error)
}

// BookingReader exposes the deal terms of a booking without write access.
type BookingReader interface {
	Booking(id uint64) (*booking.Booking, bool, error)
}

// Escrow is the shared per-booking vault.
type Escrow interface {
	Held(bookingID uint64) (uint64, error)
	Release(bookingID uint64, to [20]byte, amount uint64) error
}

// Ledger charges escalation fees.
type Ledger interface {
	Transfer(caller, from, to [20]byte, amount uint64) error
}

// Reputation receives the ratings posted on settlement.
type Reputation interface {
	UpdateRating(account [20]byte, score uint64) error
}

// InitiateParams carries the initial declaration for a booking.
type InitiateParams struct {
	Satisfied    bool
	Rating       uint64
	HasRating    bool
	EvidenceHash [32]byte
	HasEvidence  bool
}

type verificationEvent struct {
	evt *types.Event
}

func (e verificationEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e verificationEvent) Event() *types.Event { return e.evt }

// Engine runs the evidence, consensus and fee-escalated dispute protocol for
// bookings. It reads deal terms through BookingReader and settles through the
// same vault as the booking engine.
type Engine struct {
	state      engineState
	bookings   BookingReader
	escrow     Escrow
	ledger     Ledger
	reputation Reputation
	emitter    events.Emitter
	height     func() uint64
}

// NewEngine creates a verification engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		height:  func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(s engineState) { e.state = s }

// SetBookings configures the read-only booking lookup.
func (e *Engine) SetBookings(b BookingReader) { e.bookings = b }

// SetEscrow configures the shared escrow vault.
func (e *Engine) SetEscrow(v Escrow) { e.escrow = v }

// SetLedger configures the ledger used to charge escalation fees.
func (e *Engine) SetLedger(l Ledger) { e.ledger = l }

// SetReputation configures the reputation store.
func (e *Engine) SetReputation(r Reputation) { e.reputation = r }

// SetHeightFunc overrides the block height source.
func (e *Engine) SetHeightFunc(height func() uint64) {
	if height == nil {
		e.height = func() uint64 { return 0 }
		return
	}
	e.height = height
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(verificationEvent{evt: evt})
}

func (e *Engine) guard() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.bookings == nil || e.escrow == nil || e.ledger == nil || e.reputation == nil {
		return errNotWired
	}
	return common.Guard(e.state, ModuleName)
}

// Record loads the verification record of a booking.
func (e *Engine) Record(bookingID uint64) (*Record, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	var r Record
	ok, err := e.state.KVGet(state.Uint64Key(recordPrefix, bookingID), &r)
	if err != nil || !ok {
		return nil, false, err
	}
	return &r, true, nil
}

// Escalation loads the open escalation of a booking.
func (e *Engine) Escalation(bookingID uint64) (*Escalation, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	var esc Escalation
	ok, err := e.state.KVGet(state.Uint64Key(escalationPrefix, bookingID), &esc)
	if err != nil || !ok {
		return nil, false, err
	}
	return &esc, true, nil
}

// Evidence returns every evidence log entry of a booking in submission order.
func (e *Engine) Evidence(bookingID uint64) ([]EvidenceEntry, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	var out []EvidenceEntry
	err := e.state.KVIterate(evidenceBookingPrefix(bookingID), func(_ []byte, decode func(out interface{}) error) error {
		var entry EvidenceEntry
		if err := decode(&entry); err != nil {
			return err
		}
		out = append(out, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) mustBooking(id uint64) (*booking.Booking, error) {
	b, ok, err := e.bookings.Booking(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("verification: %w: booking %d", coreerrors.ErrNotFound, id)
	}
	return b, nil
}

func (e *Engine) mustRecord(id uint64) (*Record, error) {
	r, ok, err := e.Record(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("verification: %w: no verification for booking %d", coreerrors.ErrNotFound, id)
	}
	return r, nil
}

func (e *Engine) storeRecord(r *Record) error {
	return e.state.KVPut(state.Uint64Key(recordPrefix, r.BookingID), r)
}

func (e *Engine) storeEscalation(esc *Escalation) error {
	return e.state.KVPut(state.Uint64Key(escalationPrefix, esc.BookingID), esc)
}

func (e *Engine) isAdmin(caller [20]byte) (bool, error) {
	admin, ok, err := e.state.ModuleAdmin(ModuleName)
	if err != nil {
		return false, err
	}
	return ok && admin == caller, nil
}

func boundedText(kind, text string) (string, error) {
	text = strings.TrimSpace(text)
	if len(text) > MaxTextBytes {
		return "", fmt.Errorf("verification: %w: %s exceeds %d bytes", coreerrors.ErrTextTooLong, kind, MaxTextBytes)
	}
	return text, nil
}

// reciprocalRating is the score posted to the provider when the requester is
// rated r.
func reciprocalRating(r uint64) uint64 {
	if r > 50 {
		return reputationMax - r
	}
	return r
}

// settle pays the booking's remaining share to recipient. It reports false
// without moving funds when the vault no longer holds anything for the booking.
func (e *Engine) settle(b *booking.Booking, recipient [20]byte) (bool, error) {
	held, err := e.escrow.Held(b.ID)
	if err != nil {
		return false, err
	}
	if held == 0 {
		return false, nil
	}
	if err := e.escrow.Release(b.ID, recipient, held); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) postRatings(b *booking.Booking, rating uint64) error {
	if err := e.reputation.UpdateRating(b.Requester, rating); err != nil {
		return err
	}
	return e.reputation.UpdateRating(b.Provider, reciprocalRating(rating))
}

// InitiateVerification records the caller's declaration for a booking. A
// satisfied declaration releases the escrow to the provider immediately; an
// unsatisfied one opens the dispute track without moving funds.
func (e *Engine) InitiateVerification(caller [20]byte, bookingID uint64, params InitiateParams) (*Record, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	b, err := e.mustBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) {
		return nil, fmt.Errorf("verification: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	if _, exists, err := e.Record(bookingID); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("verification: %w: booking %d", coreerrors.ErrAlreadyVerified, bookingID)
	}
	if _, exists, err := e.Escalation(bookingID); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("verification: %w", coreerrors.ErrDisputeAlreadyActive)
	}
	rating := uint64(0)
	if params.Satisfied {
		rating = reputationMax
	}
	if params.HasRating {
		if params.Rating > reputationMax {
			return nil, fmt.Errorf("verification: %w: rating %d exceeds %d", coreerrors.ErrInvalidRating, params.Rating, reputationMax)
		}
		rating = params.Rating
	}
	held, err := e.escrow.Held(bookingID)
	if err != nil {
		return nil, err
	}
	if held == 0 {
		return nil, fmt.Errorf("verification: %w: booking %d has no active escrow", coreerrors.ErrInvalidStatus, bookingID)
	}

	r := &Record{
		BookingID:      bookingID,
		Verified:       params.Satisfied,
		Rating:         rating,
		Timestamp:      e.height(),
		Verifier:       caller,
		EvidenceHash:   params.EvidenceHash,
		HasEvidence:    params.HasEvidence,
		ConsensusCount: 1,
		TotalParties:   DefaultTotalParties,
		Confirmers:     [][20]byte{caller},
		Dissent:        !params.Satisfied,
	}
	if params.Satisfied {
		paid, err := e.settle(b, b.Provider)
		if err != nil {
			return nil, err
		}
		r.Released = paid
		if err := e.postRatings(b, rating); err != nil {
			return nil, err
		}
	} else {
		r.DisputeActive = true
	}
	if err := e.storeRecord(r); err != nil {
		return nil, err
	}
	e.emit(newRecordEvent(EventTypeInitiated, r))
	return r.Clone(), nil
}

// SubmitEvidence appends a digest to the evidence log. While a dispute is
// active the digest also joins the record's bounded dispute evidence list;
// otherwise it replaces the record's evidence hash.
func (e *Engine) SubmitEvidence(caller [20]byte, bookingID uint64, digest [32]byte, description string) (*EvidenceEntry, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	description, err := boundedText("description", description)
	if err != nil {
		return nil, err
	}
	r, err := e.mustRecord(bookingID)
	if err != nil {
		return nil, err
	}
	b, err := e.mustBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) {
		return nil, fmt.Errorf("verification: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}

	if r.DisputeActive {
		if r.EvidenceCount >= MaxDisputeEvidence {
			return nil, fmt.Errorf("verification: %w: dispute evidence holds %d entries", coreerrors.ErrEvidenceTooLarge, MaxDisputeEvidence)
		}
		r.DisputeEvidence[r.EvidenceCount] = digest
		r.EvidenceCount++
	} else {
		r.EvidenceHash = digest
		r.HasEvidence = true
	}

	submissionID, err := e.state.NextSequence(evidenceSequence)
	if err != nil {
		return nil, err
	}
	entry := &EvidenceEntry{
		BookingID:    bookingID,
		SubmissionID: submissionID,
		Digest:       digest,
		Submitter:    caller,
		Timestamp:    e.height(),
		Description:  description,
		Verified:     r.Verified,
	}
	if err := e.state.KVPut(evidenceKey(bookingID, submissionID), entry); err != nil {
		return nil, err
	}
	if err := e.storeRecord(r); err != nil {
		return nil, err
	}
	e.emit(newEvidenceEvent(entry))
	dup := *entry
	return &dup, nil
}

// InitiateDispute escalates an active dispute to the oracle. The caller pays
// fee to the verification admin.
func (e *Engine) InitiateDispute(caller [20]byte, bookingID uint64, fee uint64) (*Escalation, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if fee == 0 {
		return nil, fmt.Errorf("verification: %w: dispute fee must be positive", coreerrors.ErrInvalidAmount)
	}
	r, err := e.mustRecord(bookingID)
	if err != nil {
		return nil, err
	}
	b, err := e.mustBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) {
		return nil, fmt.Errorf("verification: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	if !r.DisputeActive {
		return nil, fmt.Errorf("verification: %w: no active dispute on booking %d", coreerrors.ErrInvalidStatus, bookingID)
	}
	return e.escalate(r, caller, fee)
}

func (e *Engine) escalate(r *Record, payer [20]byte, fee uint64) (*Escalation, error) {
	if _, exists, err := e.Escalation(r.BookingID); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("verification: %w", coreerrors.ErrDisputeAlreadyActive)
	}
	admin, ok, err := e.state.ModuleAdmin(ModuleName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("verification: %w: admin not configured", coreerrors.ErrNotFound)
	}
	now := e.height()
	if now > math.MaxUint64-EscalationTimeoutBlocks {
		return nil, fmt.Errorf("verification: %w: timeout overflow", coreerrors.ErrInvalidAmount)
	}
	if err := e.ledger.Transfer(payer, payer, admin, fee); err != nil {
		return nil, err
	}
	esc := &Escalation{
		BookingID:    r.BookingID,
		Initiator:    payer,
		InitiatedAt:  now,
		TimeoutBlock: now + EscalationTimeoutBlocks,
		FeePaid:      fee,
	}
	if err := e.storeEscalation(esc); err != nil {
		return nil, err
	}
	e.emit(newEscalationEvent(EventTypeDisputeEscalated, esc))
	return esc.Clone(), nil
}

// ResolveDispute records the oracle's decision and settles the escrow
// accordingly. Only the admin may resolve, and only before the escalation
// times out.
func (e *Engine) ResolveDispute(caller [20]byte, bookingID uint64, inFavorOfRequester bool) (*Record, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if err := common.RequireAdmin(e.state, ModuleName, caller); err != nil {
		return nil, err
	}
	esc, ok, err := e.Escalation(bookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("verification: %w", coreerrors.ErrNoDispute)
	}
	if esc.Resolved {
		return nil, fmt.Errorf("verification: %w: escalation already resolved", coreerrors.ErrInvalidStatus)
	}
	now := e.height()
	if now > esc.TimeoutBlock {
		return nil, fmt.Errorf("verification: %w: escalation timed out at block %d", coreerrors.ErrInvalidStatus, esc.TimeoutBlock)
	}
	r, err := e.mustRecord(bookingID)
	if err != nil {
		return nil, err
	}
	b, err := e.mustBooking(bookingID)
	if err != nil {
		return nil, err
	}

	esc.OracleResponse = !inFavorOfRequester
	esc.HasOracleResponse = true
	esc.ResolutionTimestamp = now
	esc.Resolved = true

	r.Verified = !inFavorOfRequester
	r.Rating = reputationMax
	recipient := b.Provider
	if inFavorOfRequester {
		r.Rating = 0
		recipient = b.Requester
	}
	paid, err := e.settle(b, recipient)
	if err != nil {
		return nil, err
	}
	r.Released = r.Released || paid
	r.OracleCalled = true
	r.DisputeActive = false
	r.Finalized = true

	if err := e.storeEscalation(esc); err != nil {
		return nil, err
	}
	if err := e.storeRecord(r); err != nil {
		return nil, err
	}
	evt := newRecordEvent(EventTypeDisputeResolved, r)
	evt.Attributes["inFavorOfRequester"] = strconv.FormatBool(inFavorOfRequester)
	evt.Attributes["paid"] = strconv.FormatBool(paid)
	e.emit(evt)
	return r.Clone(), nil
}

// ConfirmConsensus counts the caller's confirmation. When the count reaches
// the record's total parties the record finalises: unanimous agreement
// releases the escrow, anything else escalates with AutoEscalationFee paid by
// the final confirmer. Either party or the admin may confirm, once each; a
// record finalised by consensus or by the oracle accepts no further
// confirmations.
func (e *Engine) ConfirmConsensus(caller [20]byte, bookingID uint64, agrees bool) (*Record, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	r, err := e.mustRecord(bookingID)
	if err != nil {
		return nil, err
	}
	b, err := e.mustBooking(bookingID)
	if err != nil {
		return nil, err
	}
	admin, err := e.isAdmin(caller)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) && !admin {
		return nil, fmt.Errorf("verification: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	if r.Finalized || r.OracleCalled || r.ConsensusCount >= r.TotalParties {
		return nil, fmt.Errorf("verification: %w: consensus already reached", coreerrors.ErrInvalidStatus)
	}
	if r.HasConfirmed(caller) {
		return nil, fmt.Errorf("verification: %w: caller already confirmed", coreerrors.ErrAlreadyVerified)
	}
	r.ConsensusCount++
	r.Confirmers = append(r.Confirmers, caller)
	if !agrees {
		r.Dissent = true
	}
	e.emit(newRecordEvent(EventTypeConfirmed, r))

	if r.ConsensusCount == r.TotalParties {
		if err := e.finalize(r, b, caller); err != nil {
			return nil, err
		}
	}
	if err := e.storeRecord(r); err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

func (e *Engine) finalize(r *Record, b *booking.Booking, trigger [20]byte) error {
	r.Finalized = true
	outcome := "agreed"
	if !r.Dissent {
		r.Verified = true
		if !r.Released {
			paid, err := e.settle(b, b.Provider)
			if err != nil {
				return err
			}
			r.Released = paid
			if paid {
				if err := e.postRatings(b, r.Rating); err != nil {
					return err
				}
			}
		}
	} else {
		outcome = "escalated"
		r.Verified = false
		r.DisputeActive = true
		_, exists, err := e.Escalation(r.BookingID)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := e.escalate(r, trigger, AutoEscalationFee); err != nil {
				return err
			}
		}
	}
	evt := newRecordEvent(EventTypeFinalized, r)
	evt.Attributes["outcome"] = outcome
	e.emit(evt)
	return nil
}

// RevokeVerification reverses a declaration within RevocationWindowBlocks of
// its creation. The admin or either party may revoke.
func (e *Engine) RevokeVerification(caller [20]byte, bookingID uint64, reason string) (*Record, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	reason, err := boundedText("reason", reason)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, fmt.Errorf("verification: %w", coreerrors.ErrEmptyReason)
	}
	r, err := e.mustRecord(bookingID)
	if err != nil {
		return nil, err
	}
	b, err := e.mustBooking(bookingID)
	if err != nil {
		return nil, err
	}
	admin, err := e.isAdmin(caller)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) && !admin {
		return nil, fmt.Errorf("verification: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	now := e.height()
	if now < r.Timestamp || now-r.Timestamp > RevocationWindowBlocks {
		return nil, fmt.Errorf("verification: %w: window closed at block %d", coreerrors.ErrRevocationWindowClosed, r.Timestamp+RevocationWindowBlocks)
	}
	r.Verified = false
	r.DisputeActive = true
	r.Dissent = true
	r.Revoked = true
	r.RevocationReason = reason
	if err := e.storeRecord(r); err != nil {
		return nil, err
	}
	evt := newRecordEvent(EventTypeRevoked, r)
	evt.Attributes["reason"] = reason
	e.emit(evt)
	return r.Clone(), nil
}

// SetTotalParties overrides the consensus denominator of an open record.
func (e *Engine) SetTotalParties(caller [20]byte, bookingID, n uint64) (*Record, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if err := common.RequireAdmin(e.state, ModuleName, caller); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("verification: %w: total parties must be positive", coreerrors.ErrInvalidAmount)
	}
	r, err := e.mustRecord(bookingID)
	if err != nil {
		return nil, err
	}
	if r.Finalized || r.ConsensusCount >= r.TotalParties {
		return nil, fmt.Errorf("verification: %w: consensus already reached", coreerrors.ErrInvalidStatus)
	}
	if n <= r.ConsensusCount {
		return nil, fmt.Errorf("verification: %w: total parties must exceed %d confirmations", coreerrors.ErrInvalidAmount, r.ConsensusCount)
	}
	r.TotalParties = n
	if err := e.storeRecord(r); err != nil {
		return nil, err
	}
	e.emit(newRecordEvent(EventTypePartiesUpdated, r))
	return r.Clone(), nil
}

// CleanupOldVerification deletes a booking's record and escalation once the
// escalation has timed out. The evidence log is kept.
func (e *Engine) CleanupOldVerification(caller [20]byte, bookingID uint64) error {
	if err := e.guard(); err != nil {
		return err
	}
	if err := common.RequireAdmin(e.state, ModuleName, caller); err != nil {
		return err
	}
	esc, ok, err := e.Escalation(bookingID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("verification: %w", coreerrors.ErrNoDispute)
	}
	if e.height() <= esc.TimeoutBlock {
		return fmt.Errorf("verification: %w: cleanup opens after block %d", coreerrors.ErrTimeoutNotReached, esc.TimeoutBlock)
	}
	if err := e.state.KVDelete(state.Uint64Key(recordPrefix, bookingID)); err != nil {
		return err
	}
	if err := e.state.KVDelete(state.Uint64Key(escalationPrefix, bookingID)); err != nil {
		return err
	}
	e.emit(&types.Event{
		Type:       EventTypeCleaned,
		Attributes: map[string]string{"bookingId": strconv.FormatUint(bookingID, 10)},
	})
	return nil
}

// Admin returns the configured verification admin.
func (e *Engine) Admin() ([20]byte, bool, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, false, errNilState
	}
	return e.state.ModuleAdmin(ModuleName)
}

// SetAdmin hands the oracle role to another account.
func (e *Engine) SetAdmin(caller, next [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.TransferAdmin(e.state, ModuleName, caller, next); err != nil {
		return err
	}
	e.emit(newAdminEvent(EventTypeAdminChanged, next))
	return nil
}

// Pause disables every mutating verification operation.
func (e *Engine) Pause(caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.SetPaused(e.state, ModuleName, caller, true); err != nil {
		return err
	}
	e.emit(newAdminEvent(EventTypeModulePaused, caller))
	return nil
}

// Unpause re-enables the verification operations.
func (e *Engine) Unpause(caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.SetPaused(e.state, ModuleName, caller, false); err != nil {
		return err
	}
	e.emit(newAdminEvent(EventTypeModuleUnpaused, caller))
	return nil
}
