package journal

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/soldesk/streamsync/internal/model"
	"github.com/soldesk/streamsync/internal/store"
)

func newTestJournal() *Journal {
	return &Journal{
		cfg:    DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		batch:  make([]eventRow, 0, 16),
	}
}

func TestTransform_AppendEventBecomesRow(t *testing.T) {
	j := newTestJournal()

	sig := model.Signal{ID: "sig-1", Alias: "Whale1"}
	row, ok := j.transform(store.Change{
		Domain: store.DomainCopyTrade,
		Action: "copytrade/signal",
		Item:   sig,
	})
	if !ok {
		t.Fatal("transform rejected an append event")
	}

	if row.Domain != store.DomainCopyTrade || row.Action != "copytrade/signal" {
		t.Errorf("row = %+v", row)
	}
	if row.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}

	var decoded model.Signal
	if err := json.Unmarshal(row.Payload, &decoded); err != nil {
		t.Fatalf("payload not valid JSON: %v", err)
	}
	if decoded.ID != "sig-1" || decoded.Alias != "Whale1" {
		t.Errorf("payload = %+v", decoded)
	}
}

func TestTransform_ReplaceEventSkipped(t *testing.T) {
	j := newTestJournal()

	_, ok := j.transform(store.Change{
		Domain: store.DomainBots,
		Action: "bots/replace",
		Item:   nil,
	})
	if ok {
		t.Error("replace event with nil item was journaled")
	}
	if j.Stats().DroppedRows != 0 {
		t.Error("nil item counted as a drop")
	}
}

func TestTransform_UnserializableItemDropped(t *testing.T) {
	j := newTestJournal()

	_, ok := j.transform(store.Change{
		Domain: store.DomainPrices,
		Action: "prices/update",
		Item:   make(chan int),
	})
	if ok {
		t.Error("unserializable item produced a row")
	}
	if j.Stats().DroppedRows != 1 {
		t.Errorf("DroppedRows = %d, want 1", j.Stats().DroppedRows)
	}
}

func TestAdd_BatchAccumulates(t *testing.T) {
	j := newTestJournal()
	j.cfg.BatchSize = 100 // keep add below the flush threshold

	for i := 0; i < 3; i++ {
		row, ok := j.transform(store.Change{
			Domain: store.DomainIntel,
			Action: "intel/whale",
			Item:   model.WhaleTrade{ID: "w1"},
		})
		if !ok {
			t.Fatal("transform failed")
		}
		j.add(row)
	}

	j.batchMu.Lock()
	defer j.batchMu.Unlock()
	if len(j.batch) != 3 {
		t.Errorf("len(batch) = %d, want 3", len(j.batch))
	}
}
