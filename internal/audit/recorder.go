// internal/audit/recorder.go

// Package audit persists triggered fraud signals. The Postgres log is the
// system of record; Elasticsearch carries a best-effort mirror for search.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
	"github.com/Mahek226/LoanManagementSystem/internal/storage"
)

const signalIndex = "fraud-signals"

// Recorder appends signal audit entries. Entries are immutable once written.
type Recorder struct {
	signals storage.SignalStore
	es      *elasticsearch.Client
	log     logger.Logger
}

// NewRecorder builds the recorder. es may be nil; mirroring is then skipped.
func NewRecorder(signals storage.SignalStore, es *elasticsearch.Client, log logger.Logger) *Recorder {
	return &Recorder{signals: signals, es: es, log: log}
}

// Record appends one audit entry per signal. The Postgres write error is
// returned to the caller; the Elasticsearch mirror never fails the call.
func (r *Recorder) Record(ctx context.Context, applicationID, source string, signals []models.FraudSignal) error {
	if len(signals) == 0 {
		return nil
	}

	now := time.Now().UTC()
	entries := make([]models.AuditEntry, 0, len(signals))
	for _, sig := range signals {
		entries = append(entries, models.AuditEntry{
			EntryID:       uuid.New().String(),
			ApplicationID: applicationID,
			Source:        source,
			Signal:        sig,
			RecordedAt:    now,
		})
	}

	if err := r.signals.AppendSignals(ctx, entries); err != nil {
		return err
	}

	r.mirror(ctx, entries)
	return nil
}

// History returns the full signal log for one application.
func (r *Recorder) History(ctx context.Context, applicationID string) ([]models.AuditEntry, error) {
	return r.signals.SignalsForApplication(ctx, applicationID)
}

func (r *Recorder) mirror(ctx context.Context, entries []models.AuditEntry) {
	if r.es == nil {
		return
	}
	for _, entry := range entries {
		body, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		req := esapi.IndexRequest{
			Index:      signalIndex,
			DocumentID: entry.EntryID,
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, r.es)
		if err != nil {
			r.log.WithError(err).Warn("signal mirror write failed", map[string]interface{}{
				"entry_id": entry.EntryID,
			})
			continue
		}
		if res.IsError() {
			r.log.Warn("signal mirror write rejected", map[string]interface{}{
				"entry_id": entry.EntryID,
				"status":   res.Status(),
			})
		}
		res.Body.Close()
	}
}
