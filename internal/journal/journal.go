package journal

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/optionslab/multileg-client/internal/client"
	"github.com/optionslab/multileg-client/internal/wire"
)

// Direction marks which way an envelope travelled.
type Direction string

const (
	DirectionOutbound Direction = "out"
	DirectionInbound  Direction = "in"
)

// Config holds signal journal settings.
type Config struct {
	BatchSize     int           // Rows per insert batch
	FlushInterval time.Duration // Max time a row waits before flush
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     100,
		FlushInterval: 1 * time.Second,
	}
}

// Stats are journal runtime counters.
type Stats struct {
	Recorded     int64
	RowsWritten  int64
	WriteErrors  int64
	BatchPending int
}

// row is one persisted journal entry.
type row struct {
	ID         string
	Direction  Direction
	Kind       string
	Payload    []byte
	RecordedAt time.Time
}

// Journal batches signal traffic into the signal_events table.
type Journal struct {
	cfg    Config
	logger *slog.Logger
	db     *pgxpool.Pool

	batchMu sync.Mutex
	batch   []row

	recorded    int64
	rowsWritten int64
	writeErrors int64

	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a signal journal writing through db.
func New(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{
		cfg:    cfg,
		logger: logger,
		db:     db,
		batch:  make([]row, 0, cfg.BatchSize),
	}
}

// Attach subscribes the journal to a client's inbound traffic.
func (j *Journal) Attach(c *client.Client) {
	c.OnSignal(func(payload json.RawMessage) {
		j.Record(DirectionInbound, wire.TypeSignal, payload)
	})
	c.OnStatusUpdate(func(payload json.RawMessage) {
		j.Record(DirectionInbound, wire.TypeStatusUpdate, payload)
	})
	c.OnError(func(payload json.RawMessage) {
		j.Record(DirectionInbound, wire.TypeError, payload)
	})
}

// Start begins the background flush loop.
func (j *Journal) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)
	j.flushTicker = time.NewTicker(j.cfg.FlushInterval)

	j.wg.Add(1)
	go j.flushLoop()

	j.logger.Info("signal journal started",
		"batch_size", j.cfg.BatchSize,
		"flush_interval", j.cfg.FlushInterval,
	)
	return nil
}

// Stop drains and shuts the journal down.
func (j *Journal) Stop(ctx context.Context) error {
	j.logger.Info("stopping signal journal")

	if j.cancel != nil {
		j.cancel()
	}
	if j.flushTicker != nil {
		j.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		j.logger.Warn("signal journal stop timed out")
	}

	// Final flush
	j.flush()

	j.logger.Info("signal journal stopped")
	return nil
}

// Record appends one journal entry. Payload is copied, so callers may
// reuse the slice.
func (j *Journal) Record(direction Direction, kind string, payload []byte) {
	r := row{
		ID:         uuid.NewString(),
		Direction:  direction,
		Kind:       kind,
		Payload:    append([]byte(nil), payload...),
		RecordedAt: time.Now(),
	}

	j.batchMu.Lock()
	j.batch = append(j.batch, r)
	j.recorded++
	full := len(j.batch) >= j.cfg.BatchSize
	j.batchMu.Unlock()

	if full {
		j.flush()
	}
}

// Stats returns current counters.
func (j *Journal) Stats() Stats {
	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	return Stats{
		Recorded:     j.recorded,
		RowsWritten:  j.rowsWritten,
		WriteErrors:  j.writeErrors,
		BatchPending: len(j.batch),
	}
}

// flushLoop flushes on the ticker until shutdown.
func (j *Journal) flushLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case <-j.flushTicker.C:
			j.flush()
		}
	}
}

// flush writes the accumulated batch in one round trip.
func (j *Journal) flush() {
	j.batchMu.Lock()
	if len(j.batch) == 0 {
		j.batchMu.Unlock()
		return
	}
	rows := j.batch
	j.batch = make([]row, 0, j.cfg.BatchSize)
	j.batchMu.Unlock()

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(
			`INSERT INTO signal_events (id, direction, kind, payload, recorded_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			r.ID, string(r.Direction), r.Kind, r.Payload, r.RecordedAt,
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := j.db.SendBatch(ctx, batch).Close()

	j.batchMu.Lock()
	if err != nil {
		j.writeErrors++
		j.batchMu.Unlock()
		j.logger.Warn("journal batch write failed", "rows", len(rows), "error", err)
		return
	}
	j.rowsWritten += int64(len(rows))
	j.batchMu.Unlock()

	j.logger.Debug("journal batch written", "rows", len(rows))
}
