package media

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Decision is the governor's verdict for one prospective generation call.
type Decision struct {
	Allowed           bool
	Reason            string
	RetryAfterSeconds int
}

// Governor enforces the hourly/daily request caps and the daily cost ceiling.
// It is consulted immediately before the generative tier only; search and
// placeholder tiers carry no per-request cost and pass it by.
type Governor struct {
	ledger *Ledger

	maxRequestsPerHour int
	maxRequestsPerDay  int
	maxCostPerDay      float64

	// now is swappable for window tests.
	now func() time.Time
}

func NewGovernor(ledger *Ledger, maxPerHour, maxPerDay int, maxCostPerDay float64) *Governor {
	return &Governor{
		ledger:             ledger,
		maxRequestsPerHour: maxPerHour,
		maxRequestsPerDay:  maxPerDay,
		maxCostPerDay:      maxCostPerDay,
		now:                time.Now,
	}
}

// CheckLimit evaluates the policy in order; the first exceeded limit wins.
// Any error reading the ledger fails open: a broken ledger must not block the
// pipeline, so the request is allowed and the error is only logged.
func (g *Governor) CheckLimit(ctx context.Context) Decision {
	now := g.now()

	hourly, err := g.ledger.CountSince(ctx, now.Add(-time.Hour))
	if err != nil {
		return g.failOpen(err, "hourly_count")
	}
	if hourly >= int64(g.maxRequestsPerHour) {
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("Hourly limit reached (%d/%d requests)", hourly, g.maxRequestsPerHour),
			RetryAfterSeconds: 3600,
		}
	}

	daily, err := g.ledger.CountSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return g.failOpen(err, "daily_count")
	}
	if daily >= int64(g.maxRequestsPerDay) {
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("Daily limit reached (%d/%d requests)", daily, g.maxRequestsPerDay),
			RetryAfterSeconds: 86400,
		}
	}

	cost, err := g.ledger.SumCostSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return g.failOpen(err, "daily_cost")
	}
	if cost >= g.maxCostPerDay {
		return Decision{
			Allowed:           false,
			Reason:            fmt.Sprintf("Daily cost limit reached ($%.2f/$%.2f)", cost, g.maxCostPerDay),
			RetryAfterSeconds: 86400,
		}
	}

	return Decision{Allowed: true}
}

func (g *Governor) failOpen(err error, check string) Decision {
	logrus.WithError(err).WithField("check", check).Warn("rate_governor_ledger_read_failed")
	return Decision{Allowed: true}
}
