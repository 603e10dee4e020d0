// Package applications contains the pure business logic for the review
// pipeline. It is transport-agnostic and shares only the jobs table with
// the offer engine: applications never touch offer capacity.
package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"talentbridge/offers-service/internal/apperr"
	"talentbridge/offers-service/internal/model"
)

// ─── Service ─────────────────────────────────────────────────────────────────

// Service encapsulates application-pipeline business logic.
type Service struct {
	pool *pgxpool.Pool
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// ─── Business logic ───────────────────────────────────────────────────────────

// Apply creates an APPLIED application for the caller's candidate profile.
// A second apply for the same (job, candidate) pair returns ALREADY_APPLIED
// and creates no row.
func (s *Service) Apply(ctx context.Context, userID, jobID, coverLetter string) (*model.Application, error) {
	candidateID, err := s.resolveCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("apply job lookup: %w", err)
	}
	if !exists {
		return nil, apperr.NotFoundf("job %s", jobID)
	}

	var a model.Application
	err = s.pool.QueryRow(ctx,
		`INSERT INTO applications (id, job_id, candidate_id, status, cover_letter)
		 VALUES ($1, $2, $3, 'APPLIED', $4)
		 ON CONFLICT (job_id, candidate_id) DO NOTHING
		 RETURNING id, job_id, candidate_id, status, cover_letter, created_at, updated_at`,
		uuid.New().String(), jobID, candidateID, coverLetter,
	).Scan(
		&a.ID, &a.JobID, &a.CandidateID, &a.Status,
		&a.CoverLetter, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returns no row when the pair already exists.
		return nil, apperr.Conflictf(apperr.CodeAlreadyApplied,
			"candidate already applied to job %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("apply insert: %w", err)
	}
	return &a, nil
}

// SetStatus moves an application to a new review status. The caller must
// own the job behind the application; transitions outside the monotone
// pipeline are rejected with FORBIDDEN_TRANSITION and leave state unchanged.
func (s *Service) SetStatus(ctx context.Context, userID, appID, newStatusStr string) (*model.Application, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, &apperr.ValidationError{Msg: err.Error()}
	}

	employerID, err := s.resolveEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Fetch current state (also validates ownership via the job join).
	var currentStatusStr string
	err = s.pool.QueryRow(ctx,
		`SELECT a.status
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.id = $1 AND j.employer_id = $2`,
		appID, employerID,
	).Scan(&currentStatusStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("application %s", appID)
	}
	if err != nil {
		return nil, fmt.Errorf("setStatus read: %w", err)
	}

	currentStatus, _ := ParseStatus(currentStatusStr)
	if !IsTransitionAllowed(currentStatus, newStatus) {
		return nil, apperr.Conflictf(apperr.CodeForbiddenTransition,
			"transition %s -> %s is not allowed", currentStatus, newStatus)
	}

	// The status predicate repeats the current value so a concurrent
	// reviewer cannot slip a second transition under this one.
	var a model.Application
	err = s.pool.QueryRow(ctx,
		`UPDATE applications
		 SET status = $1::application_status, updated_at = NOW()
		 WHERE id = $2 AND status = $3::application_status
		 RETURNING id, job_id, candidate_id, status, cover_letter, created_at, updated_at`,
		string(newStatus), appID, string(currentStatus),
	).Scan(
		&a.ID, &a.JobID, &a.CandidateID, &a.Status,
		&a.CoverLetter, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Conflictf(apperr.CodeForbiddenTransition,
			"application %s changed concurrently", appID)
	}
	if err != nil {
		return nil, fmt.Errorf("setStatus update: %w", err)
	}
	return &a, nil
}

// ListForCandidate returns the caller's applications, newest first.
func (s *Service) ListForCandidate(ctx context.Context, userID string) ([]model.Application, error) {
	candidateID, err := s.resolveCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx,
		`SELECT id, job_id, candidate_id, status, cover_letter, created_at, updated_at
		 FROM applications
		 WHERE candidate_id = $1
		 ORDER BY updated_at DESC`,
		candidateID,
	)
}

// ListForJob returns all applications on a job the caller owns, newest
// first. Used by the employer review board.
func (s *Service) ListForJob(ctx context.Context, userID, jobID string) ([]model.Application, error) {
	employerID, err := s.resolveEmployer(ctx, userID)
	if err != nil {
		return nil, err
	}

	var owner string
	err = s.pool.QueryRow(ctx,
		`SELECT employer_id FROM jobs WHERE id = $1`, jobID,
	).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("job %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("listForJob job lookup: %w", err)
	}
	if owner != employerID {
		return nil, apperr.ErrUnauthorized
	}

	return s.list(ctx,
		`SELECT id, job_id, candidate_id, status, cover_letter, created_at, updated_at
		 FROM applications
		 WHERE job_id = $1
		 ORDER BY updated_at DESC`,
		jobID,
	)
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]model.Application, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("applications query: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0)
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.CandidateID, &a.Status,
			&a.CoverLetter, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("applications scan: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// ─── Store helpers ───────────────────────────────────────────────────────────

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
