package offers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// The capacity ledger derives accepted/remaining counts for a job from
// persisted offer rows. There is no stored counter to drift: every write
// path locks the job row, recounts inside the same transaction, and only
// then mutates.

// lockedJob is the slice of the job row read under lock.
type lockedJob struct {
	EmployerID string
	Title      string
	Domain     string
	Openings   int
}

// lockJob reads the job row while taking a row lock that is held until the
// transaction ends. All concurrent allocations and accepts for the same job
// serialize on this lock, so the count that follows cannot go stale before
// the dependent write commits.
func lockJob(ctx context.Context, tx pgx.Tx, jobID string) (*lockedJob, error) {
	var j lockedJob
	err := tx.QueryRow(ctx,
		`SELECT employer_id, title, domain, openings FROM jobs WHERE id = $1 FOR UPDATE`,
		jobID,
	).Scan(&j.EmployerID, &j.Title, &j.Domain, &j.Openings)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// acceptedCount counts ACCEPTED offers for a job. Must run inside the same
// transaction as the write that depends on it, after lockJob.
func acceptedCount(ctx context.Context, tx pgx.Tx, jobID string) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT count(*) FROM offers WHERE job_id = $1 AND status = 'ACCEPTED'`,
		jobID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("acceptedCount: %w", err)
	}
	return n, nil
}

// Remaining computes openings − accepted, floored at zero.
func Remaining(openings, accepted int) int {
	r := openings - accepted
	if r < 0 {
		return 0
	}
	return r
}
