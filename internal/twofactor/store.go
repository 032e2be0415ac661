package twofactor

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInvalidCode = errors.New("invalid or expired verification code")

// CodeStore keeps pending login codes in Redis. A code can be used once.
type CodeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCodeStore(rdb *redis.Client, ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CodeStore{rdb: rdb, ttl: ttl}
}

func (s *CodeStore) TTL() time.Duration {
	return s.ttl
}

func key(userID string) string {
	return "2fa:code:" + userID
}

// Issue generates a six digit code for userID, replacing any pending one.
func (s *CodeStore) Issue(ctx context.Context, userID string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.rdb.Set(ctx, key(userID), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}
	return code, nil
}

// Verify consumes the pending code for userID when it matches.
func (s *CodeStore) Verify(ctx context.Context, userID, code string) error {
	stored, err := s.rdb.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("failed to read code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrInvalidCode
	}

	deleted, err := s.rdb.Del(ctx, key(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to consume code: %w", err)
	}
	// A concurrent verify already used it.
	if deleted == 0 {
		return ErrInvalidCode
	}
	return nil
}
