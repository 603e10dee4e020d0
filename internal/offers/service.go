// Package offers contains the pure business logic for offer allocation and
// the offer lifecycle. It is transport-agnostic: used by the HTTP handlers
// (handler.go) and the sweeper (internal/scheduler).
package offers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"talentbridge/offers-service/internal/apperr"
	"talentbridge/offers-service/internal/model"
	"talentbridge/offers-service/internal/notify"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates allocation, capacity and offer-response logic.
type Service struct {
	pool     *pgxpool.Pool
	notifier notify.Notifier
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, notifier notify.Notifier) *Service {
	return &Service{pool: pool, notifier: notifier}
}

// ─── Allocation ──────────────────────────────────────────────────────────────

// AllocateOffers matches eligible candidates to a job and sends offers up to
// remaining capacity. The caller must be the employer who owns the job.
//
// The whole batch runs in a single transaction holding the job row lock, so
// concurrent allocations for the same job serialize. Any insert error rolls
// back every offer created in this call. Notifications are dispatched after
// commit; delivery failures leave notified_at NULL for the sweeper to retry.
func (s *Service) AllocateOffers(ctx context.Context, userID, jobID string) (int, error) {
	employerID, err := s.resolveEmployer(ctx, userID)
	if err != nil {
		return 0, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocateOffers begin: %w", err)
	}
	defer tx.Rollback(ctx)

	job, err := lockJob(ctx, tx, jobID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFoundf("job %s", jobID)
	}
	if err != nil {
		return 0, fmt.Errorf("allocateOffers lock job: %w", err)
	}
	if job.EmployerID != employerID {
		return 0, apperr.ErrUnauthorized
	}

	accepted, err := acceptedCount(ctx, tx, jobID)
	if err != nil {
		return 0, err
	}
	remaining := Remaining(job.Openings, accepted)
	if remaining <= 0 {
		return 0, apperr.Conflictf(apperr.CodeCapacityFilled,
			"job %s has no remaining openings", jobID)
	}

	candidates, err := eligibleCandidates(ctx, tx, job.Domain)
	if err != nil {
		return 0, err
	}

	alreadyOffered, err := offeredCandidateIDs(ctx, tx, jobID, employerID)
	if err != nil {
		return 0, err
	}

	picked := PlanOffers(remaining, job.Domain, candidates, alreadyOffered)
	if len(picked) == 0 {
		return 0, apperr.NotFoundf("no eligible candidates for job %s", jobID)
	}

	sent := make([]notify.OfferEvent, 0, len(picked))
	for _, c := range picked {
		offerID := uuid.New().String()
		_, err := tx.Exec(ctx,
			`INSERT INTO offers (id, job_id, employer_id, candidate_id, status, sent_at)
			 VALUES ($1, $2, $3, $4, 'SENT', NOW())`,
			offerID, jobID, employerID, c.ID,
		)
		if err != nil {
			// Coarse abort: one failed insert discards the whole batch.
			return 0, fmt.Errorf("allocateOffers insert offer for candidate %s: %w", c.ID, err)
		}
		sent = append(sent, notify.OfferEvent{
			OfferID:     offerID,
			JobID:       jobID,
			JobTitle:    job.Title,
			CandidateID: c.ID,
			Recipient:   c.ContactEmail,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("allocateOffers commit: %w", err)
	}

	for _, ev := range sent {
		s.dispatchNotification(ctx, ev)
	}

	return len(sent), nil
}

// dispatchNotification publishes one offer event and stamps notified_at on
// success. Both steps are best-effort: the offer row is already committed
// and the sweeper retries anything still unstamped.
func (s *Service) dispatchNotification(ctx context.Context, ev notify.OfferEvent) {
	if err := s.notifier.NotifyOfferSent(ctx, ev); err != nil {
		slog.Warn("offer notification failed, sweeper will retry",
			"offerId", ev.OfferID, "err", err)
		return
	}
	_, err := s.pool.Exec(ctx,
		`UPDATE offers SET notified_at = NOW() WHERE id = $1`, ev.OfferID)
	if err != nil {
		slog.Warn("mark offer notified failed", "offerId", ev.OfferID, "err", err)
	}
}

// ─── Offer response ──────────────────────────────────────────────────────────

// RespondToOffer records a candidate's accept/reject decision on a SENT
// offer. Accepts re-check remaining capacity under the job row lock in the
// same transaction as the status flip, so two concurrent accepts on the
// same job can never both pass a stale check. An accept that loses the
// capacity race fails with CAPACITY_FILLED and leaves the offer SENT.
func (s *Service) RespondToOffer(ctx context.Context, userID, offerID, decisionStr string) (*model.Offer, error) {
	decision, err := ParseDecision(decisionStr)
	if err != nil {
		return nil, &apperr.ValidationError{Msg: err.Error()}
	}

	candidateID, err := s.resolveCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("respondToOffer begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var jobID, statusStr string
	err = tx.QueryRow(ctx,
		`SELECT job_id, status FROM offers
		 WHERE id = $1 AND candidate_id = $2
		 FOR UPDATE`,
		offerID, candidateID,
	).Scan(&jobID, &statusStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("offer %s", offerID)
	}
	if err != nil {
		return nil, fmt.Errorf("respondToOffer read offer: %w", err)
	}

	current, _ := ParseStatus(statusStr)
	if current != StatusSent {
		return nil, apperr.Conflictf(apperr.CodeAlreadyResponded,
			"offer %s already %s", offerID, current)
	}

	newStatus := StatusRejected
	if decision == DecisionAccept {
		newStatus = StatusAccepted

		job, err := lockJob(ctx, tx, jobID)
		if err != nil {
			return nil, fmt.Errorf("respondToOffer lock job: %w", err)
		}
		accepted, err := acceptedCount(ctx, tx, jobID)
		if err != nil {
			return nil, err
		}
		if Remaining(job.Openings, accepted) <= 0 {
			// Losing accept leaves the offer SENT: a failed request must
			// not mutate state.
			return nil, apperr.Conflictf(apperr.CodeCapacityFilled,
				"job %s has no remaining openings", jobID)
		}
	}

	var offer model.Offer
	err = tx.QueryRow(ctx,
		`UPDATE offers
		 SET status = $1::offer_status, responded_at = NOW()
		 WHERE id = $2 AND status = 'SENT'
		 RETURNING id, job_id, employer_id, candidate_id, status, sent_at, responded_at, notified_at`,
		string(newStatus), offerID,
	).Scan(
		&offer.ID, &offer.JobID, &offer.EmployerID, &offer.CandidateID,
		&offer.Status, &offer.SentAt, &offer.RespondedAt, &offer.NotifiedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Conflictf(apperr.CodeAlreadyResponded,
			"offer %s already responded", offerID)
	}
	if err != nil {
		return nil, fmt.Errorf("respondToOffer update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("respondToOffer commit: %w", err)
	}

	// On accept: mark the candidate employed (non-fatal).
	if newStatus == StatusAccepted {
		if err := s.markCandidateEmployed(ctx, candidateID); err != nil {
			slog.Warn("mark candidate employed failed", "candidateId", candidateID, "err", err)
		}
	}

	return &offer, nil
}

// markCandidateEmployed flips availability after an accepted offer so the
// allocator stops matching the candidate to further jobs.
func (s *Service) markCandidateEmployed(ctx context.Context, candidateID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE candidates SET availability = 'employed' WHERE id = $1`,
		candidateID,
	)
	return err
}

// ─── Reads ───────────────────────────────────────────────────────────────────

// JobCapacity returns openings, accepted and remaining for a job. Reads
// outside a transaction may be stale; write paths always recount under the
// job lock instead of trusting this.
func (s *Service) JobCapacity(ctx context.Context, jobID string) (*model.JobCapacity, error) {
	var jc model.JobCapacity
	err := s.pool.QueryRow(ctx,
		`SELECT j.openings,
		        (SELECT count(*) FROM offers o WHERE o.job_id = j.id AND o.status = 'ACCEPTED')
		 FROM jobs j WHERE j.id = $1`,
		jobID,
	).Scan(&jc.Openings, &jc.Accepted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("job %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("jobCapacity query: %w", err)
	}
	jc.Remaining = Remaining(jc.Openings, jc.Accepted)
	return &jc, nil
}

// ListOffers returns all offers addressed to the caller's candidate
// profile, newest first.
func (s *Service) ListOffers(ctx context.Context, userID string) ([]model.Offer, error) {
	candidateID, err := s.resolveCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, employer_id, candidate_id, status, sent_at, responded_at, notified_at
		 FROM offers
		 WHERE candidate_id = $1
		 ORDER BY sent_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("listOffers query: %w", err)
	}
	defer rows.Close()

	offers := make([]model.Offer, 0)
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(
			&o.ID, &o.JobID, &o.EmployerID, &o.CandidateID,
			&o.Status, &o.SentAt, &o.RespondedAt, &o.NotifiedAt,
		); err != nil {
			return nil, fmt.Errorf("listOffers scan: %w", err)
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

// ─── Store helpers ───────────────────────────────────────────────────────────

// resolveEmployer maps the authenticated user to their employer profile.
func (s *Service) resolveEmployer(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM employers WHERE user_id = $1`, userID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolveEmployer: %w", err)
	}
	return id, nil
}

// resolveCandidate maps the authenticated user to their candidate profile.
func (s *Service) resolveCandidate(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM candidates WHERE user_id = $1`, userID,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("resolveCandidate: %w", err)
	}
	return id, nil
}

// eligibleCandidates loads available candidates whose domain matches the
// job's domain case-insensitively, in ascending id order.
func eligibleCandidates(ctx context.Context, tx pgx.Tx, jobDomain string) ([]model.Candidate, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, user_id, domain, availability, skills, contact_email, email_verified
		 FROM candidates
		 WHERE availability = 'available'
		   AND lower(domain) = lower($1)
		 ORDER BY id`,
		jobDomain,
	)
	if err != nil {
		return nil, fmt.Errorf("eligibleCandidates query: %w", err)
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Domain, &c.Availability,
			&c.Skills, &c.ContactEmail, &c.EmailVerified,
		); err != nil {
			return nil, fmt.Errorf("eligibleCandidates scan: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// offeredCandidateIDs returns the candidates who already hold an offer for
// this (job, employer) pair, keyed by candidate id.
func offeredCandidateIDs(ctx context.Context, tx pgx.Tx, jobID, employerID string) (map[string]bool, error) {
	rows, err := tx.Query(ctx,
		`SELECT candidate_id FROM offers WHERE job_id = $1 AND employer_id = $2`,
		jobID, employerID,
	)
	if err != nil {
		return nil, fmt.Errorf("offeredCandidateIDs query: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("offeredCandidateIDs scan: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
