package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soldesk/streamsync/internal/store"
)

// Config holds journal configuration.
type Config struct {
	DSN           string        // Postgres connection string
	BatchSize     int           // Rows per insert batch
	FlushInterval time.Duration // Max time a row waits before flush
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     500,
		FlushInterval: time.Second,
	}
}

// Metrics counts journal activity.
type Metrics struct {
	RowsWritten  int64
	WriteErrors  int64
	FlushCount   int64
	DroppedRows  int64
	LastFlushDur time.Duration
}

// eventRow is the table shape for one archived event.
type eventRow struct {
	Domain    string
	Action    string
	Payload   []byte
	CreatedAt int64 // µs since epoch
}

const insertSQL = `
	INSERT INTO sync_events (domain, action, payload, created_at)
	VALUES ($1, $2, $3, $4)`

// Journal archives incremental store events (signals, detected tokens, arb
// opportunities, staking events, notifications) to Postgres in batches.
// Write-only: journal rows are never read back into the store, so store
// state still resets on restart.
type Journal struct {
	cfg    Config
	logger *slog.Logger

	db    *pgxpool.Pool
	input <-chan store.Change

	batch       []eventRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	metrics Metrics
}

// Open connects to Postgres and creates a journal consuming the store's
// change feed.
func Open(ctx context.Context, cfg Config, st *store.Store, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect journal db: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping journal db: %w", err)
	}

	return &Journal{
		cfg:    cfg,
		logger: logger,
		db:     db,
		input:  st.Subscribe(),
		batch:  make([]eventRow, 0, cfg.BatchSize),
	}, nil
}

// Start begins consuming and flushing.
func (j *Journal) Start(ctx context.Context) error {
	j.ctx, j.cancel = context.WithCancel(ctx)
	j.flushTicker = time.NewTicker(j.cfg.FlushInterval)

	j.wg.Add(2)
	go j.consumeLoop()
	go j.flushLoop()

	j.logger.Info("event journal started",
		"batch_size", j.cfg.BatchSize,
		"flush_interval", j.cfg.FlushInterval,
	)
	return nil
}

// Stop drains the journal and closes the pool.
func (j *Journal) Stop(ctx context.Context) error {
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
		j.logger.Warn("journal stop timed out")
	}

	// Final flush
	j.flush()
	j.db.Close()

	j.logger.Info("event journal stopped")
	return nil
}

// Stats returns current metrics.
func (j *Journal) Stats() Metrics {
	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	return j.metrics
}

// consumeLoop reads store changes and accumulates batches.
func (j *Journal) consumeLoop() {
	defer j.wg.Done()

	for {
		select {
		case <-j.ctx.Done():
			return
		case change := <-j.input:
			row, ok := j.transform(change)
			if !ok {
				continue
			}
			j.add(row)
		}
	}
}

// flushLoop periodically flushes the batch.
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

// transform converts a store change into a row. Replace actions carry no
// item and are not journaled; only incremental events are archived.
func (j *Journal) transform(c store.Change) (eventRow, bool) {
	if c.Item == nil {
		return eventRow{}, false
	}

	payload, err := json.Marshal(c.Item)
	if err != nil {
		j.batchMu.Lock()
		j.metrics.DroppedRows++
		j.batchMu.Unlock()
		j.logger.Warn("journal row not serializable", "domain", c.Domain, "action", c.Action)
		return eventRow{}, false
	}

	return eventRow{
		Domain:    c.Domain,
		Action:    c.Action,
		Payload:   payload,
		CreatedAt: time.Now().UnixMicro(),
	}, true
}

// add queues a row and flushes when the batch is full.
func (j *Journal) add(row eventRow) {
	j.batchMu.Lock()
	j.batch = append(j.batch, row)
	shouldFlush := len(j.batch) >= j.cfg.BatchSize
	j.batchMu.Unlock()

	if shouldFlush {
		j.flush()
	}
}

// flush writes the current batch to the database.
func (j *Journal) flush() {
	j.batchMu.Lock()
	if len(j.batch) == 0 {
		j.batchMu.Unlock()
		return
	}
	batch := j.batch
	j.batch = make([]eventRow, 0, j.cfg.BatchSize)
	j.batchMu.Unlock()

	start := time.Now()

	b := &pgx.Batch{}
	for _, r := range batch {
		b.Queue(insertSQL, r.Domain, r.Action, r.Payload, r.CreatedAt)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	br := j.db.SendBatch(ctx, b)
	err := br.Close()

	j.batchMu.Lock()
	j.metrics.FlushCount++
	j.metrics.LastFlushDur = time.Since(start)
	if err != nil {
		j.metrics.WriteErrors++
		j.metrics.DroppedRows += int64(len(batch))
	} else {
		j.metrics.RowsWritten += int64(len(batch))
	}
	j.batchMu.Unlock()

	if err != nil {
		j.logger.Error("journal flush failed", "rows", len(batch), "error", err)
		return
	}

	j.logger.Debug("journal flushed",
		"rows", len(batch),
		"duration", time.Since(start),
	)
}
