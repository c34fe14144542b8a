package booking

import (
	"bytes"
	"errors"
	"testing"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/bank"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/escrow"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/reputation"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

var (
	provider  = [20]byte{0x01}
	requester = [20]byte{0x02}
	admin     = [20]byte{0x0a}
	stranger  = [20]byte{0x0f}
)

type fixture struct {
	t          *testing.T
	height     uint64
	manager    *state.Manager
	ledger     *bank.Ledger
	vault      *escrow.Vault
	catalog    *catalog.Engine
	reputation *reputation.Ledger
	engine     *Engine
	events     *events.Buffer
	offerID    uint64
	requestID  uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t, height: 1, events: &events.Buffer{}}
	f.manager = state.NewManager(storage.NewMemTx())
	heightFn := func() uint64 { return f.height }

	f.ledger = bank.NewLedger()
	f.ledger.SetState(f.manager)
	f.vault = escrow.NewVault()
	f.vault.SetState(f.manager)
	f.vault.SetLedger(f.ledger)
	f.catalog = catalog.NewEngine()
	f.catalog.SetState(f.manager)
	f.catalog.SetHeightFunc(heightFn)
	f.reputation = reputation.NewLedger(f.manager)

	f.engine = NewEngine()
	f.engine.SetState(f.manager)
	f.engine.SetCatalog(f.catalog)
	f.engine.SetEscrow(f.vault)
	f.engine.SetReputation(f.reputation)
	f.engine.SetEmitter(f.events)
	f.engine.SetHeightFunc(heightFn)

	if err := f.manager.SetModuleAdmin(ModuleName, admin); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if err := f.ledger.Mint(requester, 1000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	for _, acct := range [][20]byte{provider, requester} {
		if _, err := f.reputation.Register(acct); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	offer, err := f.catalog.CreateOffer(provider, "Weekly visit", 10)
	if err != nil {
		t.Fatalf("create offer: %v", err)
	}
	request, err := f.catalog.CreateRequest(requester, "Need weekly visit", 10)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	f.offerID, f.requestID = offer.ID, request.ID
	return f
}

func (f *fixture) balance(a [20]byte) uint64 {
	f.t.Helper()
	b, err := f.ledger.Balance(a)
	if err != nil {
		f.t.Fatalf("balance: %v", err)
	}
	return b.Uint64()
}

func (f *fixture) create() *Booking {
	f.t.Helper()
	b, err := f.engine.Create(requester, f.offerID, f.requestID, 10, []byte("notes"))
	if err != nil {
		f.t.Fatalf("create booking: %v", err)
	}
	return b
}

func (f *fixture) disputed() *Booking {
	f.t.Helper()
	b := f.create()
	if _, err := f.engine.Start(provider, b.ID); err != nil {
		f.t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.InitiateDispute(requester, b.ID, "no show", [32]byte{0xee}); err != nil {
		f.t.Fatalf("dispute: %v", err)
	}
	return b
}

func TestBookingHappyPath(t *testing.T) {
	f := newFixture(t)
	b := f.create()
	if b.Status != StatusPending || b.EscrowedAmount != 10 || b.Provider != provider {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if got := f.balance(requester); got != 990 {
		t.Fatalf("requester balance = %d, want 990", got)
	}
	if got := f.balance(f.vault.Custody()); got != 10 {
		t.Fatalf("custody balance = %d, want 10", got)
	}

	f.height = 5
	started, err := f.engine.Start(provider, b.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusActive || !started.HasStart || started.StartBlock != 5 {
		t.Fatalf("unexpected started booking: %+v", started)
	}

	f.height = 9
	completed, err := f.engine.Complete(provider, b.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != StatusCompleted || completed.EndBlock != 9 {
		t.Fatalf("unexpected completed booking: %+v", completed)
	}
	if got := f.balance(provider); got != 10 {
		t.Fatalf("provider balance = %d, want 10", got)
	}
	if got := f.balance(f.vault.Custody()); got != 0 {
		t.Fatalf("custody should be drained, got %d", got)
	}
	for _, acct := range [][20]byte{provider, requester} {
		profile, ok, err := f.reputation.Get(acct)
		if err != nil || !ok {
			t.Fatalf("profile lookup: ok=%v err=%v", ok, err)
		}
		if profile.LastScore != CompletionRating || profile.RatingCount != 1 {
			t.Fatalf("unexpected profile: %+v", profile)
		}
	}
	stored, ok, err := f.engine.Booking(b.ID)
	if err != nil || !ok {
		t.Fatalf("load booking: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(stored.Metadata, []byte("notes")) {
		t.Fatalf("metadata not persisted: %q", stored.Metadata)
	}
	var kinds []string
	for _, evt := range f.events.Events() {
		kinds = append(kinds, evt.Type)
	}
	want := []string{EventTypeCreated, EventTypeStarted, EventTypeCompleted}
	if len(kinds) != len(want) {
		t.Fatalf("unexpected events: %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name     string
		caller   [20]byte
		offer    uint64
		request  uint64
		hours    uint64
		metadata []byte
		want     error
	}{
		{"zero hours", requester, f.offerID, f.requestID, 0, nil, coreerrors.ErrInvalidAmount},
		{"metadata too large", requester, f.offerID, f.requestID, 1, make([]byte, MaxMetadataBytes+1), coreerrors.ErrMetadataTooLarge},
		{"missing offer", requester, 99, f.requestID, 1, nil, coreerrors.ErrInvalidOffer},
		{"missing request", requester, f.offerID, 99, 1, nil, coreerrors.ErrInvalidRequest},
		{"not requester", stranger, f.offerID, f.requestID, 1, nil, coreerrors.ErrUnauthorized},
		{"insufficient balance", requester, f.offerID, f.requestID, 1001, nil, coreerrors.ErrInsufficientBalance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.engine.Create(tc.caller, tc.offer, tc.request, tc.hours, tc.metadata); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if got := f.balance(requester); got != 1000 {
		t.Fatalf("failed creates moved funds: %d", got)
	}

	if _, err := f.engine.Create(requester, f.offerID, f.requestID, 1, make([]byte, MaxMetadataBytes)); err != nil {
		t.Fatalf("metadata at the limit should be accepted: %v", err)
	}
	if _, err := f.catalog.CancelOffer(provider, f.offerID); err != nil {
		t.Fatalf("cancel offer: %v", err)
	}
	if _, err := f.engine.Create(requester, f.offerID, f.requestID, 1, nil); !errors.Is(err, coreerrors.ErrInvalidOffer) {
		t.Fatalf("expected inactive offer rejection, got %v", err)
	}
}

func TestInvalidTransitionsLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t)
	b := f.create()

	if _, err := f.engine.Complete(provider, b.ID); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("complete from pending: %v", err)
	}
	if _, err := f.engine.InitiateDispute(requester, b.ID, "early", [32]byte{}); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("dispute from pending: %v", err)
	}
	if _, err := f.engine.Start(stranger, b.ID); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("start by stranger: %v", err)
	}
	if _, err := f.engine.Start(provider, 42); !errors.Is(err, coreerrors.ErrNotFound) {
		t.Fatalf("start unknown booking: %v", err)
	}
	if _, err := f.engine.Start(requester, b.ID); err != nil {
		t.Fatalf("start by requester: %v", err)
	}
	if _, err := f.engine.Start(provider, b.ID); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("double start: %v", err)
	}
	if _, err := f.engine.Cancel(requester, b.ID); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("cancel active: %v", err)
	}
	if _, err := f.engine.Complete(requester, b.ID); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("complete by requester: %v", err)
	}

	stored, _, err := f.engine.Booking(b.ID)
	if err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if stored.Status != StatusActive {
		t.Fatalf("status drifted to %s", stored.Status)
	}
	if got := f.balance(f.vault.Custody()); got != 10 {
		t.Fatalf("custody changed: %d", got)
	}
}

func TestCancelRefundsRequester(t *testing.T) {
	f := newFixture(t)
	b := f.create()
	cancelled, err := f.engine.Cancel(provider, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Fatalf("unexpected status %s", cancelled.Status)
	}
	if got := f.balance(requester); got != 1000 {
		t.Fatalf("requester balance = %d, want 1000", got)
	}
	if _, err := f.engine.Start(provider, b.ID); !errors.Is(err, coreerrors.ErrInvalidStatus) {
		t.Fatalf("start cancelled booking: %v", err)
	}
}

func TestDisputeResolvedForRequester(t *testing.T) {
	f := newFixture(t)
	b := f.disputed()

	if _, err := f.engine.InitiateDispute(provider, b.ID, "again", [32]byte{}); !errors.Is(err, coreerrors.ErrDisputeAlreadyActive) {
		t.Fatalf("expected dispute already active, got %v", err)
	}
	if _, err := f.engine.ResolveDispute(requester, b.ID, false); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("non admin resolve: %v", err)
	}
	resolved, err := f.engine.ResolveDispute(admin, b.ID, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != StatusResolved {
		t.Fatalf("unexpected status %s", resolved.Status)
	}
	if got := f.balance(requester); got != 1000 {
		t.Fatalf("requester balance = %d, want 1000", got)
	}
	if _, ok, err := f.engine.Dispute(b.ID); err != nil || ok {
		t.Fatalf("dispute should be removed: ok=%v err=%v", ok, err)
	}
	if _, err := f.engine.ResolveDispute(admin, b.ID, true); !errors.Is(err, coreerrors.ErrNoDispute) {
		t.Fatalf("expected no dispute, got %v", err)
	}
}

func TestDisputeOnCompletedBookingPaysOnce(t *testing.T) {
	f := newFixture(t)
	b := f.create()
	if _, err := f.engine.Start(provider, b.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.Complete(provider, b.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := f.engine.InitiateDispute(requester, b.ID, "poor care", [32]byte{1}); err != nil {
		t.Fatalf("dispute completed booking: %v", err)
	}
	resolved, err := f.engine.ResolveDispute(admin, b.ID, false)
	if err != nil {
		t.Fatalf("resolve settled booking: %v", err)
	}
	if resolved.Status != StatusResolved {
		t.Fatalf("unexpected status %s", resolved.Status)
	}
	if _, ok, _ := f.engine.Dispute(b.ID); ok {
		t.Fatalf("dispute should be removed on resolution")
	}
	if got := f.balance(provider); got != 10 {
		t.Fatalf("provider balance = %d, want 10", got)
	}
	if got := f.balance(requester); got != 990 {
		t.Fatalf("requester refunded after payout: %d", got)
	}
	if _, err := f.engine.ResolveDispute(admin, b.ID, true); !errors.Is(err, coreerrors.ErrNoDispute) {
		t.Fatalf("expected no dispute, got %v", err)
	}
	evts := f.events.Events()
	last := evts[len(evts)-1]
	if last.Type != EventTypeResolved || last.Attributes["paid"] != "false" || last.Attributes["amount"] != "0" {
		t.Fatalf("unexpected resolution event: %+v", last)
	}
}

func TestTimeoutRefundAfterPayoutResolvesWithoutTransfer(t *testing.T) {
	f := newFixture(t)
	b := f.create()
	if _, err := f.engine.Start(provider, b.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.Complete(provider, b.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := f.engine.InitiateDispute(provider, b.ID, "late rating", [32]byte{2}); err != nil {
		t.Fatalf("dispute: %v", err)
	}
	f.height += DisputeTimeoutBlocks + 1
	refunded, err := f.engine.TimeoutRefund(b.ID)
	if err != nil {
		t.Fatalf("timeout refund: %v", err)
	}
	if refunded.Status != StatusResolved {
		t.Fatalf("unexpected status %s", refunded.Status)
	}
	if got := f.balance(provider) + f.balance(requester); got != 1000 {
		t.Fatalf("total supply moved: %d", got)
	}
	if got := f.balance(provider); got != 10 {
		t.Fatalf("provider balance = %d, want 10", got)
	}
}

func TestDisputeRequiresReason(t *testing.T) {
	f := newFixture(t)
	b := f.create()
	if _, err := f.engine.Start(provider, b.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.engine.InitiateDispute(requester, b.ID, "   ", [32]byte{}); !errors.Is(err, coreerrors.ErrEmptyReason) {
		t.Fatalf("expected empty reason, got %v", err)
	}
	if _, err := f.engine.InitiateDispute(requester, b.ID, string(make([]byte, MaxReasonBytes+1)), [32]byte{}); err == nil {
		t.Fatalf("expected oversized reason to fail")
	}
}

func TestTimeoutRefundBoundary(t *testing.T) {
	f := newFixture(t)
	f.height = 100
	b := f.disputed()

	f.height = 100 + DisputeTimeoutBlocks - 1
	if _, err := f.engine.TimeoutRefund(b.ID); !errors.Is(err, coreerrors.ErrTimeoutNotReached) {
		t.Fatalf("expected timeout not reached at +143, got %v", err)
	}
	f.height = 100 + DisputeTimeoutBlocks
	if _, err := f.engine.TimeoutRefund(b.ID); !errors.Is(err, coreerrors.ErrTimeoutNotReached) {
		t.Fatalf("expected timeout not reached at +144, got %v", err)
	}
	f.height = 100 + DisputeTimeoutBlocks + 1
	refunded, err := f.engine.TimeoutRefund(b.ID)
	if err != nil {
		t.Fatalf("timeout refund at +145: %v", err)
	}
	if refunded.Status != StatusResolved {
		t.Fatalf("unexpected status %s", refunded.Status)
	}
	if got := f.balance(requester); got != 1000 {
		t.Fatalf("requester balance = %d, want 1000", got)
	}
	if _, err := f.engine.TimeoutRefund(b.ID); !errors.Is(err, coreerrors.ErrNoDispute) {
		t.Fatalf("expected no dispute after refund, got %v", err)
	}
}

func TestPauseGatesMutations(t *testing.T) {
	f := newFixture(t)
	b := f.create()
	if err := f.engine.Pause(requester); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("non admin pause: %v", err)
	}
	if err := f.engine.Pause(admin); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if !f.engine.Paused() {
		t.Fatalf("engine should report paused")
	}
	if _, err := f.engine.Start(provider, b.ID); !errors.Is(err, coreerrors.ErrPaused) {
		t.Fatalf("expected paused, got %v", err)
	}
	if _, err := f.engine.Create(requester, f.offerID, f.requestID, 1, nil); !errors.Is(err, coreerrors.ErrPaused) {
		t.Fatalf("expected paused create, got %v", err)
	}
	if err := f.engine.Unpause(admin); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if _, err := f.engine.Start(provider, b.ID); err != nil {
		t.Fatalf("start after unpause: %v", err)
	}
}

func TestSetAdmin(t *testing.T) {
	f := newFixture(t)
	if err := f.engine.SetAdmin(admin, admin); !errors.Is(err, coreerrors.ErrAlreadyExists) {
		t.Fatalf("expected self reassignment rejection, got %v", err)
	}
	if err := f.engine.SetAdmin(admin, [20]byte{}); !errors.Is(err, coreerrors.ErrInvalidAmount) {
		t.Fatalf("expected zero admin rejection, got %v", err)
	}
	if err := f.engine.SetAdmin(stranger, stranger); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	next := [20]byte{0x0b}
	if err := f.engine.SetAdmin(admin, next); err != nil {
		t.Fatalf("set admin: %v", err)
	}
	current, ok, err := f.engine.Admin()
	if err != nil || !ok || current != next {
		t.Fatalf("unexpected admin %x ok=%v err=%v", current, ok, err)
	}
	if err := f.engine.Pause(admin); !errors.Is(err, coreerrors.ErrUnauthorized) {
		t.Fatalf("previous admin must lose rights: %v", err)
	}
}

func TestParseStatusRoundTrip(t *testing.T) {
	for s := StatusPending; s <= StatusResolved; s++ {
		parsed, err := ParseStatus(s.String())
		if err != nil || parsed != s {
			t.Fatalf("round trip %s: %v %v", s, parsed, err)
		}
	}
	if _, err := ParseStatus("unknown"); err == nil {
		t.Fatalf("expected unknown status error")
	}
}
