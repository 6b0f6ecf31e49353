package bank

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/congo_ledger/internal/ledger"
)

// Sequence allocates account identifiers. Identifiers are unique and never
// handed out twice, even when the account using one fails to persist.
type Sequence interface {
	Next(ctx context.Context) (ledger.AccountID, error)
}

// AtomicSequence is an in-process counter. Concurrent callers receive
// distinct, contiguous identifiers.
type AtomicSequence struct {
	last atomic.Uint64
}

// NewAtomicSequence returns a sequence whose first identifier is after+1.
func NewAtomicSequence(after uint64) *AtomicSequence {
	s := &AtomicSequence{}
	s.last.Store(after)
	return s
}

func (s *AtomicSequence) Next(context.Context) (ledger.AccountID, error) {
	return ledger.AccountID(s.last.Add(1)), nil
}

// RedisSequence allocates identifiers with INCR so several bank processes
// sharing one repository never collide.
type RedisSequence struct {
	client *redis.Client
	key    string
}

// NewRedisSequence builds a sequence stored under key.
func NewRedisSequence(client *redis.Client, key string) *RedisSequence {
	return &RedisSequence{client: client, key: key}
}

func (s *RedisSequence) Next(ctx context.Context) (ledger.AccountID, error) {
	n, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", s.key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("sequence %s returned non-positive id %d", s.key, n)
	}
	return ledger.AccountID(n), nil
}
