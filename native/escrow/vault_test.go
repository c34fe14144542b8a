package escrow

import (
	"errors"
	"testing"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/bank"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

type vaultFixture struct {
	vault  *Vault
	ledger *bank.Ledger
	events *events.Buffer
}

func newVaultFixture(t *testing.T) *vaultFixture {
	t.Helper()
	manager := state.NewManager(storage.NewMemTx())
	buf := &events.Buffer{}
	ledger := bank.NewLedger()
	ledger.SetState(manager)
	vault := NewVault()
	vault.SetState(manager)
	vault.SetLedger(ledger)
	vault.SetEmitter(buf)
	return &vaultFixture{vault: vault, ledger: ledger, events: buf}
}

func account(b byte) [20]byte {
	var out [20]byte
	out[0] = b
	return out
}

func (f *vaultFixture) balance(t *testing.T, a [20]byte) uint64 {
	t.Helper()
	b, err := f.ledger.Balance(a)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b.Uint64()
}

func TestLockAndReleasePartitionsShares(t *testing.T) {
	f := newVaultFixture(t)
	payer, other, payee := account(1), account(2), account(3)
	if err := f.ledger.Mint(payer, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := f.ledger.Mint(other, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := f.vault.Lock(1, payer, 10); err != nil {
		t.Fatalf("lock 1: %v", err)
	}
	if err := f.vault.Lock(2, other, 30); err != nil {
		t.Fatalf("lock 2: %v", err)
	}
	if got := f.balance(t, f.vault.Custody()); got != 40 {
		t.Fatalf("custody balance = %d, want 40", got)
	}

	if err := f.vault.Release(1, payee, 10); err != nil {
		t.Fatalf("release: %v", err)
	}
	if got := f.balance(t, payee); got != 10 {
		t.Fatalf("payee balance = %d, want 10", got)
	}
	held, err := f.vault.Held(2)
	if err != nil {
		t.Fatalf("held: %v", err)
	}
	if held != 30 {
		t.Fatalf("booking 2 share = %d, want 30", held)
	}
}

func TestReleaseCannotExceedShare(t *testing.T) {
	f := newVaultFixture(t)
	payer, payee := account(1), account(2)
	if err := f.ledger.Mint(payer, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := f.vault.Lock(1, payer, 10); err != nil {
		t.Fatalf("lock 1: %v", err)
	}
	if err := f.vault.Lock(2, payer, 40); err != nil {
		t.Fatalf("lock 2: %v", err)
	}
	if err := f.vault.Release(1, payee, 11); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status when exceeding share, got %v", err)
	}
	if err := f.vault.Release(1, payee, 10); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := f.vault.Release(1, payee, 10); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("expected second release to fail, got %v", err)
	}
}

func TestLockRequiresFunds(t *testing.T) {
	f := newVaultFixture(t)
	if err := f.vault.Lock(1, account(9), 5); !errors.Is(err, coreerrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	held, err := f.vault.Held(1)
	if err != nil {
		t.Fatalf("held: %v", err)
	}
	if held != 0 {
		t.Fatalf("share credited despite failed lock: %d", held)
	}
	if len(f.events.Events()) != 0 {
		t.Fatalf("failed lock must not emit events")
	}
}
