// Package verify issues and confirms contact verification codes.
//
// Codes live in redis under a per-user key with a TTL, so expiry is
// handled by the store instead of an in-process map that never compacts.
// A confirmed code marks the candidate's contact email verified, which is
// what makes the candidate deliverable to the allocation engine.
package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"talentbridge/offers-service/internal/notify"
)

// codeDigits is the length of an issued verification code.
const codeDigits = 6

// Service issues and confirms verification codes.
type Service struct {
	pool     *pgxpool.Pool
	rdb      *redis.Client
	notifier notify.Notifier
	ttl      time.Duration
}

// NewService returns a configured Service. ttl bounds how long an issued
// code stays confirmable.
func NewService(pool *pgxpool.Pool, rdb *redis.Client, notifier notify.Notifier, ttl time.Duration) *Service {
	return &Service{pool: pool, rdb: rdb, notifier: notifier, ttl: ttl}
}

// key returns the redis key holding the pending code for a user.
func key(userID string) string { return "verify:" + userID }

// GenerateCode returns a random zero-padded numeric code.
func GenerateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

// Issue stores a fresh code for the user, replacing any pending one, and
// hands it to the mailer. Issuing fails if the code cannot be dispatched:
// a code nobody receives is not worth storing.
func (s *Service) Issue(ctx context.Context, userID string) error {
	code, err := GenerateCode()
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key(userID), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	if err := s.notifier.NotifyVerifyCode(ctx, notify.VerifyEvent{UserID: userID, Code: code}); err != nil {
		return fmt.Errorf("dispatch verification code: %w", err)
	}
	return nil
}

// Confirm checks the submitted code against the pending one. On match the
// code is consumed and the candidate's email is marked verified. A missing,
// expired or mismatched code returns false with no side effects.
func (s *Service) Confirm(ctx context.Context, userID, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read verification code: %w", err)
	}
	if stored != code {
		return false, nil
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE candidates SET email_verified = true WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("mark email verified: %w", err)
	}

	// Consume the code; failure only means it expires on its own.
	_ = s.rdb.Del(ctx, key(userID)).Err()

	return true, nil
}
