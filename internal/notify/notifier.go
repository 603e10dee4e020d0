// Package notify is the outbound notification port of the offers service.
//
// Delivery is best-effort and decoupled from the offer-creation transaction:
// the service publishes an OFFER_SENT event after commit, and the sweeper
// re-publishes for offers whose notified_at is still NULL. Publish failures
// are logged, never propagated as transaction failures.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Channels the gateway's mailer subscribes to.
const (
	ChannelOfferSent  = "EVENT_OFFER_SENT"
	ChannelVerifyCode = "EVENT_VERIFY_CODE"
)

// OfferEvent is the JSON payload published for each sent offer. Retries are
// idempotent on OfferID.
type OfferEvent struct {
	Type        string `json:"type"`
	OfferID     string `json:"offerId"`
	JobID       string `json:"jobId"`
	JobTitle    string `json:"jobTitle"`
	CandidateID string `json:"candidateId"`
	Recipient   string `json:"recipient"`
}

// VerifyEvent is the payload published when a contact verification code is
// issued.
type VerifyEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

// Notifier sends offer and verification notifications. Implementations
// must be safe for concurrent use.
type Notifier interface {
	NotifyOfferSent(ctx context.Context, ev OfferEvent) error
	NotifyVerifyCode(ctx context.Context, ev VerifyEvent) error
}

// RedisNotifier publishes offer events to a redis channel.
type RedisNotifier struct {
	rdb *redis.Client
}

// NewRedisNotifier returns a Notifier backed by the given redis client.
func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// NotifyOfferSent publishes ev to the OFFER_SENT channel.
func (n *RedisNotifier) NotifyOfferSent(ctx context.Context, ev OfferEvent) error {
	ev.Type = "EVENT_OFFER_SENT"
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal offer event: %w", err)
	}
	if err := n.rdb.Publish(ctx, ChannelOfferSent, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelOfferSent, err)
	}
	return nil
}

// NotifyVerifyCode publishes ev to the VERIFY_CODE channel.
func (n *RedisNotifier) NotifyVerifyCode(ctx context.Context, ev VerifyEvent) error {
	ev.Type = "EVENT_VERIFY_CODE"
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal verify event: %w", err)
	}
	if err := n.rdb.Publish(ctx, ChannelVerifyCode, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelVerifyCode, err)
	}
	return nil
}
