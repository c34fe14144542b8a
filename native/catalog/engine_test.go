package catalog

import (
	"errors"
	"strings"
	"testing"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

func newTestEngine() (*Engine, *events.Buffer) {
	engine := NewEngine()
	engine.SetState(state.NewManager(storage.NewMemTx()))
	engine.SetHeightFunc(func() uint64 { return 3 })
	buf := &events.Buffer{}
	engine.SetEmitter(buf)
	return engine, buf
}

func TestCreateAndCancelOffer(t *testing.T) {
	engine, buf := newTestEngine()
	provider := [20]byte{1}

	offer, err := engine.CreateOffer(provider, "  Evening companionship ", 4)
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	if offer.ID != 1 || !offer.Active || offer.Title != "Evening companionship" || offer.CreatedBlock != 3 {
		t.Fatalf("unexpected offer: %+v", offer)
	}
	second, err := engine.CreateOffer(provider, "Groceries", 1)
	if err != nil {
		t.Fatalf("create second offer: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("expected monotonic ids, got %d", second.ID)
	}

	if _, err := engine.CancelOffer([20]byte{2}, offer.ID); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized cancel, got %v", err)
	}
	if _, err := engine.CancelOffer(provider, offer.ID); err != nil {
		t.Fatalf("cancel offer: %v", err)
	}
	if _, err := engine.CancelOffer(provider, offer.ID); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status on repeat cancel, got %v", err)
	}
	stored, ok, err := engine.GetOffer(offer.ID)
	if err != nil || !ok {
		t.Fatalf("get offer: ok=%v err=%v", ok, err)
	}
	if stored.Active {
		t.Fatalf("offer should be inactive")
	}
	if got := len(buf.Events()); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	engine, _ := newTestEngine()
	requester := [20]byte{5}

	if _, err := engine.CreateRequest(requester, "Lift to clinic", 0); !errors.Is(err, coreerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := engine.CreateRequest(requester, "   ", 2); !errors.Is(err, coreerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if _, err := engine.CreateRequest(requester, strings.Repeat("x", MaxTitleBytes+1), 2); !errors.Is(err, coreerrors.ErrTextTooLong) {
		t.Fatalf("expected text too long, got %v", err)
	}
	request, err := engine.CreateRequest(requester, "Cafe\u0301 visit", 2)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if request.Title != "Caf\u00e9 visit" {
		t.Fatalf("title not NFC normalised: %q", request.Title)
	}
	if _, err := engine.CancelRequest(requester, 99); !errors.Is(err, coreerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
