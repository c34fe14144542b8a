package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	coreerrors "github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/errors"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/events"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/genesis"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/state"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/bank"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/booking"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/catalog"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/escrow"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/reputation"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/native/verification"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/storage"
)

// Observer receives operation outcomes and clock ticks. It is satisfied by
// the prometheus registry in observability.
type Observer interface {
	ObserveOperation(op string, kind string, duration time.Duration)
	ObserveHeight(height uint64)
}

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, string, time.Duration) {}
func (noopObserver) ObserveHeight(uint64)                           {}

// EventHook is invoked with the events of every committed operation, in
// commit order.
type EventHook func([]types.Event)

// Option customises a Node.
type Option func(*Node)

// WithLogger routes node logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Node) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithObserver installs a metrics observer.
func WithObserver(observer Observer) Option {
	return func(n *Node) {
		if observer != nil {
			n.observer = observer
		}
	}
}

// WithClock overrides the wall clock used to stamp headers.
func WithClock(now func() time.Time) Option {
	return func(n *Node) {
		if now != nil {
			n.now = now
		}
	}
}

// Node owns the database and runs every public operation as one atomic
// transaction against the bound native modules.
type Node struct {
	mu       sync.RWMutex
	db       storage.Database
	tip      *types.BlockHeader
	now      func() time.Time
	logger   *slog.Logger
	observer Observer

	subMu   sync.Mutex
	subs    map[uint64]chan types.Event
	nextSub uint64
	hooks   []EventHook
}

// modules is the set of engines bound to a single transaction.
type modules struct {
	state        *state.Manager
	chain        chainStore
	bank         *bank.Ledger
	vault        *escrow.Vault
	catalog      *catalog.Engine
	reputation   *reputation.Ledger
	booking      *booking.Engine
	verification *verification.Engine
}

// NewNode opens the chain stored in db. A database without a chain is
// initialised from spec, which is then required.
func NewNode(db storage.Database, spec *genesis.Spec, opts ...Option) (*Node, error) {
	if db == nil {
		return nil, errors.New("core: database must not be nil")
	}
	n := &Node{
		db:       db,
		now:      time.Now,
		logger:   slog.Default(),
		observer: noopObserver{},
		subs:     make(map[uint64]chan types.Event),
	}
	for _, opt := range opts {
		opt(n)
	}

	err := db.View(func(tx storage.Tx) error {
		tip, ok, err := newChainStore(state.NewManager(tx)).Tip()
		if err != nil {
			return err
		}
		if ok {
			n.tip = tip
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("core: load chain tip: %w", err)
	}
	if n.tip == nil {
		if spec == nil {
			return nil, errors.New("core: empty database requires a genesis spec")
		}
		if err := n.initGenesis(spec); err != nil {
			return nil, err
		}
		n.logger.Info("genesis applied", "timestamp", spec.GenesisTimestamp())
	}
	n.observer.ObserveHeight(n.tip.Height)
	return n, nil
}

func (n *Node) initGenesis(spec *genesis.Spec) error {
	var header *types.BlockHeader
	err := n.db.Update(func(tx storage.Tx) error {
		manager := state.NewManager(tx)
		if err := spec.Apply(manager, events.NoopEmitter{}); err != nil {
			return err
		}
		h, err := newChainStore(manager).WriteGenesis(uint64(spec.GenesisTimestamp().Unix()))
		if err != nil {
			return err
		}
		header = h
		return nil
	})
	if err != nil {
		return fmt.Errorf("core: apply genesis: %w", err)
	}
	n.tip = header
	return nil
}

func (n *Node) bind(tx storage.Tx, emitter events.Emitter, height uint64) *modules {
	manager := state.NewManager(tx)
	heightFn := func() uint64 { return height }

	ledger := bank.NewLedger()
	ledger.SetState(manager)
	ledger.SetEmitter(emitter)

	vault := escrow.NewVault()
	vault.SetState(manager)
	vault.SetLedger(ledger)
	vault.SetEmitter(emitter)

	listings := catalog.NewEngine()
	listings.SetState(manager)
	listings.SetEmitter(emitter)
	listings.SetHeightFunc(heightFn)

	profiles := reputation.NewLedger(manager)
	profiles.SetEmitter(emitter)
	profiles.SetHeightFunc(heightFn)

	bookings := booking.NewEngine()
	bookings.SetState(manager)
	bookings.SetCatalog(listings)
	bookings.SetEscrow(vault)
	bookings.SetReputation(profiles)
	bookings.SetEmitter(emitter)
	bookings.SetHeightFunc(heightFn)

	verifier := verification.NewEngine()
	verifier.SetState(manager)
	verifier.SetBookings(bookings)
	verifier.SetEscrow(vault)
	verifier.SetLedger(ledger)
	verifier.SetReputation(profiles)
	verifier.SetEmitter(emitter)
	verifier.SetHeightFunc(heightFn)

	return &modules{
		state:        manager,
		chain:        newChainStore(manager),
		bank:         ledger,
		vault:        vault,
		catalog:      listings,
		reputation:   profiles,
		booking:      bookings,
		verification: verifier,
	}
}

// execute runs fn inside one read-write transaction. Any error discards every
// write fn made and the events it emitted. Batches are published before the
// lock is released so subscribers observe commit order.
func (n *Node) execute(op string, fn func(m *modules) error) error {
	start := time.Now()
	n.mu.Lock()
	defer n.mu.Unlock()
	height := n.tip.Height
	buf := &events.Buffer{}
	err := n.db.Update(func(tx storage.Tx) error {
		m := n.bind(tx, buf, height)
		if err := fn(m); err != nil {
			return err
		}
		return m.chain.countOperation()
	})
	n.observer.ObserveOperation(op, coreerrors.Kind(err), time.Since(start))
	if err != nil {
		n.logger.Warn("operation failed", "op", op, "height", height, "kind", coreerrors.Kind(err), "error", err)
		return err
	}
	committed := buf.Events()
	for i := range committed {
		committed[i].Height = height
	}
	n.logger.Debug("operation committed", "op", op, "height", height, "events", len(committed))
	n.publish(committed)
	return nil
}

// view runs fn against a read-only snapshot. Engines bound here must not be
// asked to write.
func (n *Node) view(fn func(m *modules) error) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	height := n.tip.Height
	return n.db.View(func(tx storage.Tx) error {
		return fn(n.bind(tx, events.NoopEmitter{}, height))
	})
}

// Height returns the committed tip height.
func (n *Node) Height() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tip.Height
}

// Tip returns a copy of the committed tip header.
func (n *Node) Tip() *types.BlockHeader {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.tip.Clone()
}

// Header loads a historical header.
func (n *Node) Header(height uint64) (*types.BlockHeader, bool, error) {
	var (
		header *types.BlockHeader
		ok     bool
	)
	err := n.view(func(m *modules) error {
		var err error
		header, ok, err = m.chain.Header(height)
		return err
	})
	return header, ok, err
}

// ProduceBlock advances the clock by one header.
func (n *Node) ProduceBlock() (*types.BlockHeader, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var header *types.BlockHeader
	err := n.db.Update(func(tx storage.Tx) error {
		h, err := newChainStore(state.NewManager(tx)).Append(uint64(n.now().Unix()))
		if err != nil {
			return err
		}
		header = h
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("core: produce block: %w", err)
	}
	n.tip = header
	n.observer.ObserveHeight(header.Height)
	n.logger.Debug("block produced", "height", header.Height, "operations", header.Operations)
	return header.Clone(), nil
}

// Subscribe streams committed events. Slow subscribers drop events rather
// than stall commits. The returned func cancels the subscription.
func (n *Node) Subscribe(buffer int) (<-chan types.Event, func()) {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan types.Event, buffer)
	n.subMu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = ch
	n.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.subMu.Lock()
			delete(n.subs, id)
			n.subMu.Unlock()
			close(ch)
		})
	}
}

// AddEventHook registers hook for every committed batch.
func (n *Node) AddEventHook(hook EventHook) {
	if hook == nil {
		return
	}
	n.subMu.Lock()
	n.hooks = append(n.hooks, hook)
	n.subMu.Unlock()
}

func (n *Node) publish(batch []types.Event) {
	if len(batch) == 0 {
		return
	}
	n.subMu.Lock()
	defer n.subMu.Unlock()
	for _, hook := range n.hooks {
		hook(batch)
	}
	for id, ch := range n.subs {
		for _, evt := range batch {
			select {
			case ch <- evt.Clone():
			default:
				n.logger.Warn("event subscriber lagging", "subscriber", id, "type", evt.Type)
			}
		}
	}
}
