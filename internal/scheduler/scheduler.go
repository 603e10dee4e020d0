// Package scheduler wires up the cron job that periodically sweeps offers:
// re-dispatching notifications that never went out, and expiring SENT
// offers whose job deadline has passed.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"talentbridge/offers-service/internal/notify"
)

// notifyGracePeriod is how long a freshly committed offer may sit without a
// notified_at stamp before the sweeper re-publishes it. Keeps the sweeper
// from racing the post-commit dispatch in AllocateOffers.
const notifyGracePeriod = "1 minute"

// Sweeper wraps robfig/cron and manages the periodic offer sweep.
type Sweeper struct {
	cron     *cron.Cron
	pool     *pgxpool.Pool
	notifier notify.Notifier
	spec     string // cron spec, e.g. "@every 5m"
}

// New creates a Sweeper that fires every intervalMinutes minutes.
func New(pool *pgxpool.Pool, notifier notify.Notifier, intervalMinutes int) *Sweeper {
	return &Sweeper{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool:     pool,
		notifier: notifier,
		spec:     fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so a restart picks up anything left over without waiting for
// the first tick.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[sweeper] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	log.Println("[sweeper] Cron stopped")
}

// runSweep executes one full sweep cycle.
func (s *Sweeper) runSweep(ctx context.Context) {
	log.Println("[sweeper] Sweep cycle started")

	retried, err := s.retryNotifications(ctx)
	if err != nil {
		log.Printf("[sweeper] Notification retry error: %v", err)
	}

	expired, err := s.expireOffers(ctx)
	if err != nil {
		log.Printf("[sweeper] Offer expiry error: %v", err)
	}

	log.Printf("[sweeper] Sweep cycle complete — notified=%d expired=%d", retried, expired)
}

// retryNotifications re-publishes OFFER_SENT events for offers that were
// committed but never marked notified. Publishing is idempotent on offer
// id, so a duplicate delivery is harmless.
func (s *Sweeper) retryNotifications(ctx context.Context) (int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT o.id, o.job_id, j.title, o.candidate_id, c.contact_email
		 FROM offers o
		 JOIN jobs j ON j.id = o.job_id
		 JOIN candidates c ON c.id = o.candidate_id
		 WHERE o.notified_at IS NULL
		   AND o.status = 'SENT'
		   AND o.sent_at < NOW() - $1::interval`,
		notifyGracePeriod,
	)
	if err != nil {
		return 0, fmt.Errorf("query unnotified offers: %w", err)
	}
	defer rows.Close()

	var pending []notify.OfferEvent
	for rows.Next() {
		var ev notify.OfferEvent
		if err := rows.Scan(&ev.OfferID, &ev.JobID, &ev.JobTitle, &ev.CandidateID, &ev.Recipient); err != nil {
			return 0, fmt.Errorf("scan unnotified offer: %w", err)
		}
		pending = append(pending, ev)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	retried := 0
	for _, ev := range pending {
		if err := s.notifier.NotifyOfferSent(ctx, ev); err != nil {
			log.Printf("[sweeper] Re-publish failed for offer %s: %v — continuing", ev.OfferID, err)
			continue
		}
		if _, err := s.pool.Exec(ctx,
			`UPDATE offers SET notified_at = NOW() WHERE id = $1`, ev.OfferID); err != nil {
			log.Printf("[sweeper] Mark notified failed for offer %s: %v", ev.OfferID, err)
			continue
		}
		retried++
	}
	return retried, nil
}

// expireOffers transitions SENT offers whose job deadline has passed to
// EXPIRED. Only ACCEPTED offers count against capacity, so expiry never
// changes a job's remaining openings.
func (s *Sweeper) expireOffers(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE offers o
		 SET status = 'EXPIRED', responded_at = NOW()
		 FROM jobs j
		 WHERE j.id = o.job_id
		   AND o.status = 'SENT'
		   AND j.deadline IS NOT NULL
		   AND j.deadline < NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("expire offers: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
