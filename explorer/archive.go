package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
)

const (
	bookingAttribute = "bookingId"
	hookQueueSize    = 256
	hookWriteTimeout = 5 * time.Second
)

// EventRecord is one archived event row.
type EventRecord struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	BookingID  uint64 `gorm:"index"`
	HasBooking bool   `gorm:"index"`
	Type       string `gorm:"index;not null"`
	Label      string
	Height     uint64 `gorm:"index"`
	Attributes string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (EventRecord) TableName() string { return "care_events" }

// Archive persists committed events for historical queries.
type Archive struct {
	db  *gorm.DB
	now func() time.Time

	startOnce sync.Once
	mu        sync.Mutex
	closed    bool
	queue     chan []types.Event
	wg        sync.WaitGroup
	log       *slog.Logger
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	trimmed := strings.TrimSpace(dsn)
	switch {
	case trimmed == "":
		return nil, errors.New("explorer: archive dsn required")
	case strings.HasPrefix(trimmed, "postgres://"), strings.HasPrefix(trimmed, "postgresql://"), strings.Contains(trimmed, "host="):
		return postgres.Open(trimmed), nil
	default:
		return sqlite.Open(trimmed), nil
	}
}

// Open connects to a postgres DSN, or treats anything else as a sqlite
// path, and migrates the schema.
func Open(dsn string) (*Archive, error) {
	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("explorer: open archive: %w", err)
	}
	return New(db)
}

// New wraps an existing connection.
func New(db *gorm.DB) (*Archive, error) {
	if db == nil {
		return nil, errors.New("explorer: nil database")
	}
	if err := db.AutoMigrate(&EventRecord{}); err != nil {
		return nil, fmt.Errorf("explorer: migrate: %w", err)
	}
	return &Archive{db: db, now: time.Now, queue: make(chan []types.Event, hookQueueSize)}, nil
}

// Close writes any batches still queued by Hook and closes the connection.
func (a *Archive) Close() error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	a.wg.Wait()

	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores a committed batch in one transaction.
func (a *Archive) Record(ctx context.Context, batch []types.Event) error {
	if len(batch) == 0 {
		return nil
	}
	rows := make([]EventRecord, 0, len(batch))
	now := a.now().UTC()
	for _, evt := range batch {
		attrs, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("explorer: encode attributes: %w", err)
		}
		row := EventRecord{
			Type:       evt.Type,
			Label:      Label(evt.Type),
			Height:     evt.Height,
			Attributes: string(attrs),
			CreatedAt:  now,
		}
		if raw, ok := evt.Attributes[bookingAttribute]; ok {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err == nil {
				row.BookingID = id
				row.HasBooking = true
			}
		}
		rows = append(rows, row)
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

// ByBooking returns the events of a booking in commit order.
func (a *Archive) ByBooking(ctx context.Context, bookingID uint64) ([]types.Event, error) {
	var rows []EventRecord
	err := a.db.WithContext(ctx).
		Where("has_booking = ? AND booking_id = ?", true, bookingID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("explorer: query booking %d: %w", bookingID, err)
	}
	out := make([]types.Event, 0, len(rows))
	for _, row := range rows {
		evt := types.Event{Type: row.Type, Height: row.Height, Attributes: map[string]string{}}
		if row.Attributes != "" {
			if err := json.Unmarshal([]byte(row.Attributes), &evt.Attributes); err != nil {
				return nil, fmt.Errorf("explorer: decode attributes of event %d: %w", row.ID, err)
			}
		}
		out = append(out, evt)
	}
	return out, nil
}

// Hook adapts the archive to a node event hook. Batches are queued for a
// single writer goroutine so commits never wait on the database; a full queue
// drops the batch with a warning. Write failures are logged and do not affect
// the committed operation.
func (a *Archive) Hook(log *slog.Logger) func([]types.Event) {
	if log == nil {
		log = slog.Default()
	}
	a.startOnce.Do(func() {
		a.log = log
		a.wg.Add(1)
		go a.writer()
	})
	return func(batch []types.Event) {
		if len(batch) == 0 {
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed {
			log.Warn("event archive closed, batch dropped", "events", len(batch))
			return
		}
		select {
		case a.queue <- batch:
		default:
			log.Warn("event archive queue full, batch dropped", "events", len(batch))
		}
	}
}

func (a *Archive) writer() {
	defer a.wg.Done()
	for batch := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), hookWriteTimeout)
		if err := a.Record(ctx, batch); err != nil {
			a.log.Error("event archive write failed", "events", len(batch), "error", err)
		}
		cancel()
	}
}
