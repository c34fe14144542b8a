package booking

import (
	"errors"
	"fmt"
	"math"
	"strings"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/common"
)

const (
	// ModuleName scopes the booking admin and pause parameters.
	ModuleName = "booking"
	// DisputeTimeoutBlocks is how long a dispute waits for the arbiter before
	// anyone may refund the requester.
	DisputeTimeoutBlocks uint64 = 144
	// MaxMetadataBytes bounds the opaque metadata attached at creation.
	MaxMetadataBytes = 256
	// MaxReasonBytes bounds dispute reasons.
	MaxReasonBytes = 256
	// CompletionRating is posted to both parties when a booking completes.
	CompletionRating uint64 = 80

	bookingSequence = "booking/id"
)

var (
	errNilState = errors.New("booking engine: state not configured")
	errNotWired = errors.New("booking engine: collaborators not configured")
)

var (
	recordPrefix  = []byte("booking/record/")
	disputePrefix = []byte("booking/dispute/")
)

type engineState interface {
	common.AdminState
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	NextSequence(name string) (uint64, error)
}

// Catalog resolves the listings a booking is created against.
type Catalog interface {
	GetOffer(id uint64) (*catalog.Offer, bool, error)
	GetRequest(id uint64) (*catalog.Request, bool, error)
}

// Escrow holds each booking's share of the custody account.
type Escrow interface {
	Held(bookingID uint64) (uint64, error)
	Lock(bookingID uint64, payer [20]byte, amount uint64) error
	Release(bookingID uint64, to [20]byte, amount uint64) error
}

// Reputation receives the ratings posted on completion.
type Reputation interface {
	UpdateRating(account [20]byte, score uint64) error
}

type bookingEvent struct {
	evt *types.Event
}

func (e bookingEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e bookingEvent) Event() *types.Event { return e.evt }

// Engine drives the booking lifecycle and its single-arbiter dispute path.
type Engine struct {
	state      engineState
	catalog    Catalog
	escrow     Escrow
	reputation Reputation
	emitter    events.Emitter
	height     func() uint64
}

// NewEngine creates a booking engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		height:  func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(s engineState) { e.state = s }

// SetCatalog configures the listing lookup.
func (e *Engine) SetCatalog(c Catalog) { e.catalog = c }

// SetEscrow configures the escrow vault.
func (e *Engine) SetEscrow(v Escrow) { e.escrow = v }

// SetReputation configures the reputation store.
func (e *Engine) SetReputation(r Reputation) { e.reputation = r }

// SetEmitter configures the event emitter. Passing nil resets the emitter to a
// no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetHeightFunc overrides the block height source. Tests use it to pin the
// chain clock.
func (e *Engine) SetHeightFunc(height func() uint64) {
	if height == nil {
		e.height = func() uint64 { return 0 }
		return
	}
	e.height = height
}

func (e *Engine) emit(evt *types.Event) {
	if e == nil || e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(bookingEvent{evt: evt})
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.catalog == nil || e.escrow == nil || e.reputation == nil {
		return errNotWired
	}
	return nil
}

func (e *Engine) guard() error {
	if err := e.ready(); err != nil {
		return err
	}
	return common.Guard(e.state, ModuleName)
}

// Booking loads a booking by id.
func (e *Engine) Booking(id uint64) (*Booking, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	var stored storedBooking
	ok, err := e.state.KVGet(state.Uint64Key(recordPrefix, id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := stored.toBooking()
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Dispute loads the open dispute for a booking.
func (e *Engine) Dispute(id uint64) (*Dispute, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	var d Dispute
	ok, err := e.state.KVGet(state.Uint64Key(disputePrefix, id), &d)
	if err != nil || !ok {
		return nil, false, err
	}
	return &d, true, nil
}

func (e *Engine) mustBooking(id uint64) (*Booking, error) {
	b, ok, err := e.Booking(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("booking: %w: booking %d", coreerrors.ErrNotFound, id)
	}
	return b, nil
}

func (e *Engine) store(b *Booking) error {
	return e.state.KVPut(state.Uint64Key(recordPrefix, b.ID), newStoredBooking(b))
}

// Create books hours against an offer on behalf of the request's requester and
// locks the hours in escrow.
func (e *Engine) Create(caller [20]byte, offerID, requestID, hours uint64, metadata []byte) (*Booking, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if hours == 0 {
		return nil, fmt.Errorf("booking: %w: hours must be positive", coreerrors.ErrInvalidAmount)
	}
	if len(metadata) > MaxMetadataBytes {
		return nil, fmt.Errorf("booking: %w: %d bytes exceeds %d", coreerrors.ErrMetadataTooLarge, len(metadata), MaxMetadataBytes)
	}
	offer, ok, err := e.catalog.GetOffer(offerID)
	if err != nil {
		return nil, err
	}
	if !ok || !offer.Active {
		return nil, fmt.Errorf("booking: %w: offer %d unavailable", coreerrors.ErrInvalidOffer, offerID)
	}
	request, ok, err := e.catalog.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if !ok || !request.Active {
		return nil, fmt.Errorf("booking: %w: request %d unavailable", coreerrors.ErrInvalidRequest, requestID)
	}
	if request.Requester != caller {
		return nil, fmt.Errorf("booking: %w: caller is not the requester", coreerrors.ErrUnauthorized)
	}
	id, err := e.state.NextSequence(bookingSequence)
	if err != nil {
		return nil, err
	}
	b := &Booking{
		ID:             id,
		OfferID:        offerID,
		RequestID:      requestID,
		Provider:       offer.Provider,
		Requester:      caller,
		Hours:          hours,
		EscrowedAmount: hours,
		Status:         StatusPending,
		CreatedBlock:   e.height(),
		Metadata:       append([]byte(nil), metadata...),
	}
	if err := e.escrow.Lock(id, caller, hours); err != nil {
		return nil, err
	}
	if err := e.store(b); err != nil {
		return nil, err
	}
	e.emit(newBookingEvent(EventTypeCreated, b))
	return b.Clone(), nil
}

// Start activates a pending booking. Either party may start it.
func (e *Engine) Start(caller [20]byte, id uint64) (*Booking, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	b, err := e.mustBooking(id)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) {
		return nil, fmt.Errorf("booking: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	if b.Status != StatusPending {
		return nil, fmt.Errorf("booking: %w: cannot start %s booking", coreerrors.ErrInvalidStatus, b.Status)
	}
	b.Status = StatusActive
	b.StartBlock = e.height()
	b.HasStart = true
	if err := e.store(b); err != nil {
		return nil, err
	}
	e.emit(newBookingEvent(EventTypeStarted, b))
	return b.Clone(), nil
}

// Complete finishes an active booking, pays the provider and rates both
// parties. Only the provider may complete.
func (e *Engine) Complete(caller [20]byte, id uint64) (*Booking, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	b, err := e.mustBooking(id)
	if err != nil {
		return nil, err
	}
	if caller != b.Provider {
		return nil, fmt.Errorf("booking: %w: only the provider may complete", coreerrors.ErrUnauthorized)
	}
	if b.Status != StatusActive {
		return nil, fmt.Errorf("booking: %w: cannot complete %s booking", coreerrors.ErrInvalidStatus, b.Status)
	}
	b.Status = StatusCompleted
	b.EndBlock = e.height()
	b.HasEnd = true
	if err := e.escrow.Release(b.ID, b.Provider, b.EscrowedAmount); err != nil {
		return nil, err
	}
	if err := e.reputation.UpdateRating(b.Provider, CompletionRating); err != nil {
		return nil, err
	}
	if err := e.reputation.UpdateRating(b.Requester, CompletionRating); err != nil {
		return nil, err
	}
	if err := e.store(b); err != nil {
		return nil, err
	}
	e.emit(newBookingEvent(EventTypeCompleted, b))
	return b.Clone(), nil
}

// Cancel withdraws a pending booking and refunds the requester.
func (e *Engine) Cancel(caller [20]byte, id uint64) (*Booking, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	b, err := e.mustBooking(id)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) {
		return nil, fmt.Errorf("booking: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	if b.Status != StatusPending {
		return nil, fmt.Errorf("booking: %w: cannot cancel %s booking", coreerrors.ErrInvalidStatus, b.Status)
	}
	b.Status = StatusCancelled
	if err := e.escrow.Release(b.ID, b.Requester, b.EscrowedAmount); err != nil {
		return nil, err
	}
	if err := e.store(b); err != nil {
		return nil, err
	}
	e.emit(newBookingEvent(EventTypeCancelled, b))
	return b.Clone(), nil
}

// InitiateDispute opens a dispute against an active or completed booking.
func (e *Engine) InitiateDispute(caller [20]byte, id uint64, reason string, evidenceHash [32]byte) (*Dispute, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("booking: %w", coreerrors.ErrEmptyReason)
	}
	if len(reason) > MaxReasonBytes {
		return nil, fmt.Errorf("booking: %w: reason exceeds %d bytes", coreerrors.ErrTextTooLong, MaxReasonBytes)
	}
	b, err := e.mustBooking(id)
	if err != nil {
		return nil, err
	}
	if !b.IsParty(caller) {
		return nil, fmt.Errorf("booking: %w: caller is not a party", coreerrors.ErrUnauthorized)
	}
	if _, exists, err := e.Dispute(id); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("booking: %w", coreerrors.ErrDisputeAlreadyActive)
	}
	if b.Status != StatusActive && b.Status != StatusCompleted {
		return nil, fmt.Errorf("booking: %w: cannot dispute %s booking", coreerrors.ErrInvalidStatus, b.Status)
	}
	now := e.height()
	d := &Dispute{
		BookingID:    id,
		Reason:       reason,
		Initiator:    caller,
		EvidenceHash: evidenceHash,
		OpenedAt:     now,
	}
	b.Status = StatusDisputed
	b.DisputeBlock = now
	b.HasDispute = true
	if err := e.state.KVPut(state.Uint64Key(disputePrefix, id), d); err != nil {
		return nil, err
	}
	if err := e.store(b); err != nil {
		return nil, err
	}
	e.emit(NewDisputedEvent(b, d))
	return d.Clone(), nil
}

// ResolveDispute lets the admin settle a dispute in favour of either party.
func (e *Engine) ResolveDispute(caller [20]byte, id uint64, releaseToProvider bool) (*Booking, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if err := common.RequireAdmin(e.state, ModuleName, caller); err != nil {
		return nil, err
	}
	b, err := e.mustBooking(id)
	if err != nil {
		return nil, err
	}
	if _, exists, err := e.Dispute(id); err != nil {
		return nil, err
	} else if !exists {
		return nil, fmt.Errorf("booking: %w", coreerrors.ErrNoDispute)
	}
	if b.Status != StatusDisputed {
		return nil, fmt.Errorf("booking: %w: cannot resolve %s booking", coreerrors.ErrInvalidStatus, b.Status)
	}
	recipient := b.Requester
	if releaseToProvider {
		recipient = b.Provider
	}
	return e.settleDispute(b, recipient, EventTypeResolved)
}

// TimeoutRefund refunds the requester once a dispute has waited longer than
// DisputeTimeoutBlocks. Anyone may call it.
func (e *Engine) TimeoutRefund(id uint64) (*Booking, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	b, err := e.mustBooking(id)
	if err != nil {
		return nil, err
	}
	if _, exists, err := e.Dispute(id); err != nil {
		return nil, err
	} else if !exists || !b.HasDispute {
		return nil, fmt.Errorf("booking: %w", coreerrors.ErrNoDispute)
	}
	if b.Status != StatusDisputed {
		return nil, fmt.Errorf("booking: %w: cannot refund %s booking", coreerrors.ErrInvalidStatus, b.Status)
	}
	if !timeoutElapsed(b.DisputeBlock, e.height()) {
		return nil, fmt.Errorf("booking: %w: refund opens after block %d", coreerrors.ErrTimeoutNotReached, b.DisputeBlock+DisputeTimeoutBlocks)
	}
	return e.settleDispute(b, b.Requester, EventTypeTimeoutRefund)
}

func timeoutElapsed(disputeBlock, height uint64) bool {
	if disputeBlock > math.MaxUint64-DisputeTimeoutBlocks {
		return false
	}
	return height > disputeBlock+DisputeTimeoutBlocks
}

// settleDispute closes the dispute and pays out whatever escrow the booking
// still holds. A booking already paid out by completion or verification
// resolves without a second transfer.
func (e *Engine) settleDispute(b *Booking, recipient [20]byte, kind string) (*Booking, error) {
	held, err := e.escrow.Held(b.ID)
	if err != nil {
		return nil, err
	}
	b.Status = StatusResolved
	if held > 0 {
		if err := e.escrow.Release(b.ID, recipient, held); err != nil {
			return nil, err
		}
	}
	if err := e.state.KVDelete(state.Uint64Key(disputePrefix, b.ID)); err != nil {
		return nil, err
	}
	if err := e.store(b); err != nil {
		return nil, err
	}
	e.emit(NewResolvedEvent(kind, b, recipient, held))
	return b.Clone(), nil
}

// Admin returns the configured booking admin.
func (e *Engine) Admin() ([20]byte, bool, error) {
	if e == nil || e.state == nil {
		return [20]byte{}, false, errNilState
	}
	return e.state.ModuleAdmin(ModuleName)
}

// SetAdmin hands the arbiter role to another account.
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

// Pause disables every mutating booking operation.
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

// Unpause re-enables the booking operations.
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

// Paused reports whether the module kill switch is engaged.
func (e *Engine) Paused() bool {
	if e == nil || e.state == nil {
		return true
	}
	return e.state.IsPaused(ModuleName)
}
