package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

var _ domain.DismissalStore = (*RedisDismissalStore)(nil)

// RedisDismissalStore keeps each user's dismissed suggestion names in a Redis
// set, so dismissals survive restarts and are shared across instances.
type RedisDismissalStore struct {
	client *redis.Client
}

func NewRedisDismissalStore(client *redis.Client) *RedisDismissalStore {
	return &RedisDismissalStore{client: client}
}

func (s *RedisDismissalStore) key(userID string) string {
	return fmt.Sprintf("dismissed:%s", userID)
}

func (s *RedisDismissalStore) Dismiss(ctx context.Context, userID, name string) error {
	if err := s.client.SAdd(ctx, s.key(userID), name).Err(); err != nil {
		return fmt.Errorf("dismissal store: sadd failed: %w", err)
	}
	return nil
}

func (s *RedisDismissalStore) IsDismissed(ctx context.Context, userID, name string) (bool, error) {
	member, err := s.client.SIsMember(ctx, s.key(userID), name).Result()
	if err != nil {
		return false, fmt.Errorf("dismissal store: sismember failed: %w", err)
	}
	return member, nil
}

func (s *RedisDismissalStore) ListDismissed(ctx context.Context, userID string) ([]string, error) {
	names, err := s.client.SMembers(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("dismissal store: smembers failed: %w", err)
	}
	return names, nil
}

func (s *RedisDismissalStore) Reset(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("dismissal store: del failed: %w", err)
	}
	return nil
}
