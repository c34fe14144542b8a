package escrow

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

// ModuleName identifies the vault's custody account and state namespace.
const ModuleName = "escrow"

const (
	EventTypeLocked   = "escrow.locked"
	EventTypeReleased = "escrow.released"
)

var (
	errNilState  = errors.New("escrow vault: state not configured")
	errNilLedger = errors.New("escrow vault: ledger not configured")
)

var sharePrefix = []byte("escrow/share/")

type vaultState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Ledger is the transfer primitive the vault moves funds through.
type Ledger interface {
	Transfer(caller, from, to [20]byte, amount uint64) error
}

type vaultEvent struct {
	evt *types.Event
}

func (e vaultEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e vaultEvent) Event() *types.Event { return e.evt }

// Vault partitions the pooled custody balance into per-booking shares. Every
// payout debits the booking's share first, so no booking can move more than it
// locked and no booking can touch another's funds.
type Vault struct {
	state   vaultState
	ledger  Ledger
	emitter events.Emitter
	custody [20]byte
}

// NewVault returns a vault using the escrow module custody account.
func NewVault() *Vault {
	return &Vault{
		emitter: events.NoopEmitter{},
		custody: crypto.DeriveModuleAccount(ModuleName),
	}
}

// SetState configures the state backend used by the vault.
func (v *Vault) SetState(s vaultState) { v.state = s }

// SetLedger configures the value ledger.
func (v *Vault) SetLedger(l Ledger) { v.ledger = l }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (v *Vault) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		v.emitter = events.NoopEmitter{}
		return
	}
	v.emitter = emitter
}

// Custody returns the pooled custodial account.
func (v *Vault) Custody() [20]byte { return v.custody }

func (v *Vault) ready() error {
	if v == nil || v.state == nil {
		return errNilState
	}
	if v.ledger == nil {
		return errNilLedger
	}
	return nil
}

// Held returns the amount still locked for bookingID.
func (v *Vault) Held(bookingID uint64) (uint64, error) {
	if v == nil || v.state == nil {
		return 0, errNilState
	}
	var held uint64
	if _, err := v.state.KVGet(state.Uint64Key(sharePrefix, bookingID), &held); err != nil {
		return 0, fmt.Errorf("escrow vault: load share: %w", err)
	}
	return held, nil
}

func (v *Vault) putShare(bookingID, amount uint64) error {
	if err := v.state.KVPut(state.Uint64Key(sharePrefix, bookingID), amount); err != nil {
		return fmt.Errorf("escrow vault: store share: %w", err)
	}
	return nil
}

// Lock pulls amount from payer into custody and credits the booking's share.
func (v *Vault) Lock(bookingID uint64, payer [20]byte, amount uint64) error {
	if err := v.ready(); err != nil {
		return err
	}
	held, err := v.Held(bookingID)
	if err != nil {
		return err
	}
	if amount > math.MaxUint64-held {
		return fmt.Errorf("escrow vault: %w: share overflow", coreerrors.ErrInvalidAmount)
	}
	if err := v.ledger.Transfer(payer, payer, v.custody, amount); err != nil {
		return err
	}
	if err := v.putShare(bookingID, held+amount); err != nil {
		return err
	}
	v.emit(bookingID, EventTypeLocked, payer, amount, held+amount)
	return nil
}

// Release debits the booking's share and pays amount out of custody to the
// recipient. It fails when the share no longer covers the amount, which is the
// case once another settlement path has already paid the booking out.
func (v *Vault) Release(bookingID uint64, to [20]byte, amount uint64) error {
	if err := v.ready(); err != nil {
		return err
	}
	if amount == 0 {
		return fmt.Errorf("escrow vault: %w: release amount must be positive", coreerrors.ErrInvalidAmount)
	}
	held, err := v.Held(bookingID)
	if err != nil {
		return err
	}
	if held < amount {
		return fmt.Errorf("escrow vault: %w: escrow already settled", coreerrors.ErrInvalidStatus)
	}
	if err := v.putShare(bookingID, held-amount); err != nil {
		return err
	}
	if err := v.ledger.Transfer(v.custody, v.custody, to, amount); err != nil {
		return err
	}
	v.emit(bookingID, EventTypeReleased, to, amount, held-amount)
	return nil
}

func (v *Vault) emit(bookingID uint64, kind string, account [20]byte, amount, remaining uint64) {
	if v.emitter == nil {
		return
	}
	v.emitter.Emit(vaultEvent{evt: &types.Event{
		Type: kind,
		Attributes: map[string]string{
			"bookingId": strconv.FormatUint(bookingID, 10),
			"account":   crypto.FormatAccount(account),
			"amount":    strconv.FormatUint(amount, 10),
			"remaining": strconv.FormatUint(remaining, 10),
		},
	}})
}
