package media

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// LedgerStore is the slice of the repository the usage ledger needs.
type LedgerStore interface {
	CreateGenerationLog(ctx context.Context, entry *entity.DbGenerationLog) error
	CountLogsSince(ctx context.Context, since time.Time) (int64, error)
	SumCostSince(ctx context.Context, since time.Time) (float64, error)
}

// LedgerEntry describes one acquisition attempt to be appended to the ledger.
type LedgerEntry struct {
	Type         string
	Size         string
	Quality      string
	Cost         float64
	Success      bool
	ErrorMessage string
	MediaAssetID string
}

// Ledger is the append-only generation log. Writes are fire-and-forget:
// recording failures are logged but never surfaced, so ledger trouble cannot
// break image acquisition.
type Ledger struct {
	store LedgerStore
}

func NewLedger(store LedgerStore) *Ledger {
	return &Ledger{store: store}
}

// Record appends one entry. The write runs on its own deadline detached from
// the caller's context, so a cancelled request still gets its attempt logged.
func (l *Ledger) Record(entry LedgerEntry) {
	row := &entity.DbGenerationLog{
		GenerationType: entry.Type,
		ImageSize:      entry.Size,
		ImageQuality:   entry.Quality,
		Cost:           entry.Cost,
		Success:        entry.Success,
		ErrorMessage:   entry.ErrorMessage,
		MediaAssetID:   entry.MediaAssetID,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.store.CreateGenerationLog(ctx, row); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"generation_type": entry.Type,
			"success":         entry.Success,
		}).Warn("generation_log_write_failed")
	}
}

// CountSince returns the number of entries in the trailing window.
func (l *Ledger) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return l.store.CountLogsSince(ctx, since)
}

// SumCostSince returns the accumulated cost over the trailing window.
func (l *Ledger) SumCostSince(ctx context.Context, since time.Time) (float64, error) {
	return l.store.SumCostSince(ctx, since)
}
