package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

const (
	EventTypeOfferCreated     = "catalog.offer.created"
	EventTypeOfferCancelled   = "catalog.offer.cancelled"
	EventTypeRequestCreated   = "catalog.request.created"
	EventTypeRequestCancelled = "catalog.request.cancelled"

	offerSequence   = "catalog/offer"
	requestSequence = "catalog/request"
)

var errNilState = errors.New("catalog: state not configured")

var (
	offerPrefix   = []byte("catalog/offer/")
	requestPrefix = []byte("catalog/request/")
)

type engineState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	NextSequence(name string) (uint64, error)
}

type catalogEvent struct {
	evt *types.Event
}

func (e catalogEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e catalogEvent) Event() *types.Event { return e.evt }

// Engine manages offer and request listings.
type Engine struct {
	state   engineState
	emitter events.Emitter
	height  func() uint64
}

// NewEngine returns a catalog engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		height:  func() uint64 { return 0 },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(s engineState) { e.state = s }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetHeightFunc configures the block height source.
func (e *Engine) SetHeightFunc(height func() uint64) {
	if height == nil {
		e.height = func() uint64 { return 0 }
		return
	}
	e.height = height
}

func (e *Engine) emit(evt *types.Event) {
	if e.emitter == nil || evt == nil {
		return
	}
	e.emitter.Emit(catalogEvent{evt: evt})
}

func normalizeTitle(title string) (string, error) {
	normalized := norm.NFC.String(strings.TrimSpace(title))
	if normalized == "" {
		return "", errors.New("title required")
	}
	if len(normalized) > MaxTitleBytes {
		return "", fmt.Errorf("%w: title exceeds %d bytes", coreerrors.ErrTextTooLong, MaxTitleBytes)
	}
	return normalized, nil
}

// CreateOffer lists hours the caller is willing to provide.
func (e *Engine) CreateOffer(caller [20]byte, title string, hours uint64) (*Offer, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if hours == 0 {
		return nil, fmt.Errorf("catalog: %w: hours must be positive", coreerrors.ErrInvalidAmount)
	}
	normalized, err := normalizeTitle(title)
	if err != nil {
		if errors.Is(err, coreerrors.ErrTextTooLong) {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		return nil, fmt.Errorf("catalog: %w: %v", coreerrors.ErrInvalidOffer, err)
	}
	id, err := e.state.NextSequence(offerSequence)
	if err != nil {
		return nil, err
	}
	offer := &Offer{
		ID:           id,
		Provider:     caller,
		Title:        normalized,
		Hours:        hours,
		Active:       true,
		CreatedBlock: e.height(),
	}
	if err := e.state.KVPut(state.Uint64Key(offerPrefix, id), offer); err != nil {
		return nil, err
	}
	e.emit(listingEvent(EventTypeOfferCreated, id, caller, hours))
	return offer.Clone(), nil
}

// CreateRequest lists hours the caller needs.
func (e *Engine) CreateRequest(caller [20]byte, title string, hours uint64) (*Request, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if hours == 0 {
		return nil, fmt.Errorf("catalog: %w: hours must be positive", coreerrors.ErrInvalidAmount)
	}
	normalized, err := normalizeTitle(title)
	if err != nil {
		if errors.Is(err, coreerrors.ErrTextTooLong) {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		return nil, fmt.Errorf("catalog: %w: %v", coreerrors.ErrInvalidRequest, err)
	}
	id, err := e.state.NextSequence(requestSequence)
	if err != nil {
		return nil, err
	}
	request := &Request{
		ID:           id,
		Requester:    caller,
		Title:        normalized,
		Hours:        hours,
		Active:       true,
		CreatedBlock: e.height(),
	}
	if err := e.state.KVPut(state.Uint64Key(requestPrefix, id), request); err != nil {
		return nil, err
	}
	e.emit(listingEvent(EventTypeRequestCreated, id, caller, hours))
	return request.Clone(), nil
}

// GetOffer loads an offer by id.
func (e *Engine) GetOffer(id uint64) (*Offer, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	var offer Offer
	ok, err := e.state.KVGet(state.Uint64Key(offerPrefix, id), &offer)
	if err != nil || !ok {
		return nil, false, err
	}
	return &offer, true, nil
}

// GetRequest loads a request by id.
func (e *Engine) GetRequest(id uint64) (*Request, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	var request Request
	ok, err := e.state.KVGet(state.Uint64Key(requestPrefix, id), &request)
	if err != nil || !ok {
		return nil, false, err
	}
	return &request, true, nil
}

// CancelOffer deactivates an offer. Only the provider may cancel it.
func (e *Engine) CancelOffer(caller [20]byte, id uint64) (*Offer, error) {
	offer, ok, err := e.GetOffer(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("catalog: %w: offer %d", coreerrors.ErrNotFound, id)
	}
	if offer.Provider != caller {
		return nil, fmt.Errorf("catalog: %w: caller is not the provider", coreerrors.ErrUnauthorized)
	}
	if !offer.Active {
		return nil, fmt.Errorf("catalog: %w: offer already inactive", coreerrors.ErrInvalidStatus)
	}
	offer.Active = false
	if err := e.state.KVPut(state.Uint64Key(offerPrefix, id), offer); err != nil {
		return nil, err
	}
	e.emit(listingEvent(EventTypeOfferCancelled, id, caller, offer.Hours))
	return offer, nil
}

// CancelRequest deactivates a request. Only the requester may cancel it.
func (e *Engine) CancelRequest(caller [20]byte, id uint64) (*Request, error) {
	request, ok, err := e.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("catalog: %w: request %d", coreerrors.ErrNotFound, id)
	}
	if request.Requester != caller {
		return nil, fmt.Errorf("catalog: %w: caller is not the requester", coreerrors.ErrUnauthorized)
	}
	if !request.Active {
		return nil, fmt.Errorf("catalog: %w: request already inactive", coreerrors.ErrInvalidStatus)
	}
	request.Active = false
	if err := e.state.KVPut(state.Uint64Key(requestPrefix, id), request); err != nil {
		return nil, err
	}
	e.emit(listingEvent(EventTypeRequestCancelled, id, caller, request.Hours))
	return request, nil
}

func listingEvent(kind string, id uint64, owner [20]byte, hours uint64) *types.Event {
	return &types.Event{
		Type: kind,
		Attributes: map[string]string{
			"id":    strconv.FormatUint(id, 10),
			"owner": crypto.FormatAccount(owner),
			"hours": strconv.FormatUint(hours, 10),
		},
	}
}
