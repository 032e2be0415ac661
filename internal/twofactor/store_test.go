package twofactor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, ttl time.Duration) (*CodeStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCodeStore(rdb, ttl), mr
}

func TestIssueAndVerify(t *testing.T) {
	store, _ := newStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	assert.ErrorIs(t, store.Verify(ctx, "user-1", "not-it"), ErrInvalidCode)
	require.NoError(t, store.Verify(ctx, "user-1", code))

	// single use
	assert.ErrorIs(t, store.Verify(ctx, "user-1", code), ErrInvalidCode)
}

func TestVerify_Expired(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	code, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, store.Verify(ctx, "user-1", code), ErrInvalidCode)
}

func TestIssue_ReplacesPending(t *testing.T) {
	store, mr := newStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)

	stored, err := mr.Get("2fa:code:user-1")
	require.NoError(t, err)
	assert.Equal(t, second, stored)
}
