package bank

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
)

var errNilState = errors.New("bank: state not configured")

var balancePrefix = []byte("bank/balance/")

func balanceKey(addr [20]byte) []byte {
	key := make([]byte, len(balancePrefix)+len(addr))
	copy(key, balancePrefix)
	copy(key[len(balancePrefix):], addr[:])
	return key
}

type ledgerState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

type bankEvent struct {
	evt *types.Event
}

func (e bankEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e bankEvent) Event() *types.Event { return e.evt }

// Ledger tracks HOUR balances per account.
type Ledger struct {
	state   ledgerState
	emitter events.Emitter
}

// NewLedger returns a ledger with a no-op emitter.
func NewLedger() *Ledger {
	return &Ledger{emitter: events.NoopEmitter{}}
}

// SetState configures the state backend used by the ledger.
func (l *Ledger) SetState(state ledgerState) { l.state = state }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

func (l *Ledger) emit(evt *types.Event) {
	if l == nil || l.emitter == nil || evt == nil {
		return
	}
	l.emitter.Emit(bankEvent{evt: evt})
}

// CustodyAddress returns the custodial account owned by the named module.
func CustodyAddress(module string) [20]byte {
	return crypto.DeriveModuleAccount(module)
}

// Balance returns the balance held by addr. Unknown accounts hold zero.
func (l *Ledger) Balance(addr [20]byte) (*uint256.Int, error) {
	if l == nil || l.state == nil {
		return nil, errNilState
	}
	balance := new(uint256.Int)
	if _, err := l.state.KVGet(balanceKey(addr), balance); err != nil {
		return nil, fmt.Errorf("bank: load balance: %w", err)
	}
	return balance, nil
}

func (l *Ledger) putBalance(addr [20]byte, balance *uint256.Int) error {
	if err := l.state.KVPut(balanceKey(addr), balance); err != nil {
		return fmt.Errorf("bank: store balance: %w", err)
	}
	return nil
}

// Transfer moves amount from one account to another. The caller must be the
// source account; modules moving custody funds pass their custody address as
// both caller and source.
func (l *Ledger) Transfer(caller, from, to [20]byte, amount uint64) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if caller != from {
		return fmt.Errorf("bank: %w: caller is not the source account", coreerrors.ErrUnauthorized)
	}
	if amount == 0 {
		return fmt.Errorf("bank: %w: transfer amount must be positive", coreerrors.ErrInvalidAmount)
	}
	value := uint256.NewInt(amount)
	fromBalance, err := l.Balance(from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(value) {
		return fmt.Errorf("bank: %w: balance %s below %d", coreerrors.ErrInsufficientBalance, fromBalance.Dec(), amount)
	}
	if from != to {
		toBalance, err := l.Balance(to)
		if err != nil {
			return err
		}
		credited, overflow := new(uint256.Int).AddOverflow(toBalance, value)
		if overflow {
			return fmt.Errorf("bank: %w: recipient balance overflow", coreerrors.ErrInvalidAmount)
		}
		if err := l.putBalance(from, new(uint256.Int).Sub(fromBalance, value)); err != nil {
			return err
		}
		if err := l.putBalance(to, credited); err != nil {
			return err
		}
	}
	l.emit(NewTransferEvent(from, to, amount))
	return nil
}

// Mint credits amount to the recipient. Only genesis seeding mints.
func (l *Ledger) Mint(to [20]byte, amount uint64) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if amount == 0 {
		return fmt.Errorf("bank: %w: mint amount must be positive", coreerrors.ErrInvalidAmount)
	}
	balance, err := l.Balance(to)
	if err != nil {
		return err
	}
	credited, overflow := new(uint256.Int).AddOverflow(balance, uint256.NewInt(amount))
	if overflow {
		return fmt.Errorf("bank: %w: balance overflow", coreerrors.ErrInvalidAmount)
	}
	if err := l.putBalance(to, credited); err != nil {
		return err
	}
	l.emit(NewMintEvent(to, amount))
	return nil
}
