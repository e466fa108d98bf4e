// Package ledger maintains the per-group storage byte counters driven by
// blob-store finalize/delete triggers.
package ledger

import (
	"context"
	"log"

	"notification-service/internal/observability"
	"notification-service/internal/repositories"
)

// ObjectEvent is a blob-store trigger payload: the object path and its size.
// Events are ephemeral; only the derived group id and size matter here.
type ObjectEvent struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// Ledger applies upload/delete events to group storage counters.
type Ledger struct {
	stats        repositories.StatsRepository
	defaultQuota int64
}

// NewLedger constructs a Ledger. defaultQuota seeds quota on first contact
// with a group; read it once at startup via StatsRepository.DefaultQuota.
func NewLedger(stats repositories.StatsRepository, defaultQuota int64) *Ledger {
	return &Ledger{stats: stats, defaultQuota: defaultQuota}
}

// HandleObjectFinalized credits the object's size to its group. Events that
// do not parse, or carry no size, are absorbed as no-ops.
func (l *Ledger) HandleObjectFinalized(ctx context.Context, event ObjectEvent) error {
	groupID, ok := l.groupFor(event)
	if !ok {
		return nil
	}
	if err := l.stats.ApplyUsageDelta(ctx, groupID, event.SizeBytes, l.defaultQuota); err != nil {
		return err
	}
	observability.IncLedgerUpdate("finalize")
	return nil
}

// HandleObjectDeleted debits the object's size from its group. The counter
// floors at zero, so duplicate or out-of-order deletes can never drive it
// negative.
func (l *Ledger) HandleObjectDeleted(ctx context.Context, event ObjectEvent) error {
	groupID, ok := l.groupFor(event)
	if !ok {
		return nil
	}
	if err := l.stats.ApplyUsageDelta(ctx, groupID, -event.SizeBytes, l.defaultQuota); err != nil {
		return err
	}
	observability.IncLedgerUpdate("delete")
	return nil
}

// HandleGroupCreated seeds the stats counter for a newly created group. Merge
// semantics: a row already written by a racing upload event stays untouched.
func (l *Ledger) HandleGroupCreated(ctx context.Context, groupID string) error {
	if groupID == "" {
		return nil
	}
	if err := l.stats.EnsureStats(ctx, groupID, l.defaultQuota); err != nil {
		return err
	}
	log.Printf("storage stats seeded group=%s quota=%d", groupID, l.defaultQuota)
	return nil
}

func (l *Ledger) groupFor(event ObjectEvent) (string, bool) {
	if event.SizeBytes <= 0 {
		return "", false
	}
	parsed, ok := ParseUploadPath(event.Path)
	if !ok {
		return "", false
	}
	return parsed.GroupID, true
}
