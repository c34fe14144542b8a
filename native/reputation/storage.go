package reputation

import (
	"errors"
	"fmt"
	"math"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
)

// storage abstracts the subset of state manager functionality required by the
// reputation ledger.
type storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

var profilePrefix = []byte("reputation/profile/")

func profileKey(account [20]byte) []byte {
	key := make([]byte, len(profilePrefix)+len(account))
	copy(key, profilePrefix)
	copy(key[len(profilePrefix):], account[:])
	return key
}

type reputationEvent struct {
	evt *types.Event
}

func (e reputationEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e reputationEvent) Event() *types.Event { return e.evt }

// Ledger persists reputation profiles.
type Ledger struct {
	store   storage
	emitter events.Emitter
	height  func() uint64
}

// NewLedger constructs a ledger bound to the provided storage backend.
func NewLedger(store storage) *Ledger {
	return &Ledger{
		store:   store,
		emitter: events.NoopEmitter{},
		height:  func() uint64 { return 0 },
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

// SetHeightFunc overrides the block height source recorded on registration.
func (l *Ledger) SetHeightFunc(height func() uint64) {
	if height == nil {
		l.height = func() uint64 { return 0 }
		return
	}
	l.height = height
}

func (l *Ledger) ready() error {
	if l == nil {
		return errors.New("reputation: ledger not initialised")
	}
	if l.store == nil {
		return errors.New("reputation: storage unavailable")
	}
	return nil
}

func (l *Ledger) emit(evt *types.Event) {
	if l.emitter == nil || evt == nil {
		return
	}
	l.emitter.Emit(reputationEvent{evt: evt})
}

// Register creates an empty profile for account.
func (l *Ledger) Register(account [20]byte) (*Profile, error) {
	if err := l.ready(); err != nil {
		return nil, err
	}
	if account == ([20]byte{}) {
		return nil, fmt.Errorf("reputation: %w: account required", coreerrors.ErrInvalidAmount)
	}
	ok, err := l.store.KVGet(profileKey(account), nil)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("reputation: %w: profile registered", coreerrors.ErrAlreadyExists)
	}
	stored := storedProfile{Account: account, RegisteredAt: l.height()}
	if err := l.store.KVPut(profileKey(account), &stored); err != nil {
		return nil, err
	}
	profile := stored.toProfile()
	l.emit(NewRegisteredEvent(profile))
	return profile, nil
}

// UpdateRating records score against a registered account.
func (l *Ledger) UpdateRating(account [20]byte, score uint64) error {
	if err := l.ready(); err != nil {
		return err
	}
	if score > MaxScore {
		return fmt.Errorf("reputation: %w: score %d exceeds %d", coreerrors.ErrInvalidRating, score, MaxScore)
	}
	var stored storedProfile
	ok, err := l.store.KVGet(profileKey(account), &stored)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("reputation: %w", coreerrors.ErrNotRegistered)
	}
	if stored.RatingCount == math.MaxUint64 || stored.RatingSum > math.MaxUint64-score {
		return fmt.Errorf("reputation: %w: rating counters overflow", coreerrors.ErrInvalidRating)
	}
	stored.RatingCount++
	stored.RatingSum += score
	stored.LastScore = score
	if err := l.store.KVPut(profileKey(account), &stored); err != nil {
		return err
	}
	l.emit(NewRatedEvent(stored.toProfile()))
	return nil
}

// Get returns the profile for account.
func (l *Ledger) Get(account [20]byte) (*Profile, bool, error) {
	if err := l.ready(); err != nil {
		return nil, false, err
	}
	var stored storedProfile
	ok, err := l.store.KVGet(profileKey(account), &stored)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return stored.toProfile(), true, nil
}
