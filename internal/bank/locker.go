package bank

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/congo_ledger/internal/ledger"
)

// Locker serialises read-modify-write sequences per account. Lock acquires
// every id in ascending order, so two callers locking the same pair can never
// deadlock. The returned func releases all of them.
type Locker interface {
	Lock(ctx context.Context, ids ...ledger.AccountID) (unlock func(), err error)
}

func orderedIDs(ids []ledger.AccountID) []ledger.AccountID {
	out := make([]ledger.AccountID, 0, len(ids))
	seen := make(map[ledger.AccountID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LocalLocker keeps one mutex per account inside the process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[ledger.AccountID]*sync.Mutex
}

// NewLocalLocker builds an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[ledger.AccountID]*sync.Mutex)}
}

func (l *LocalLocker) Lock(_ context.Context, ids ...ledger.AccountID) (func(), error) {
	ordered := orderedIDs(ids)
	held := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		m := l.mutexFor(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}, nil
}

func (l *LocalLocker) mutexFor(id ledger.AccountID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

const redisLockPrefix = "ledger:lock:account:"

// compare-and-delete so a holder whose lock expired cannot release someone
// else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds account locks in Redis with SET NX PX, for deployments
// where several bank processes front one repository.
type RedisLocker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	maxRetries    int
}

// NewRedisLocker builds a Redis-backed locker. Each key expires after ttl so
// a crashed holder cannot block an account forever. Acquisition is attempted
// maxRetries times, retryInterval apart.
func NewRedisLocker(client *redis.Client, ttl, retryInterval time.Duration, maxRetries int) *RedisLocker {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &RedisLocker{client: client, ttl: ttl, retryInterval: retryInterval, maxRetries: maxRetries}
}

func (l *RedisLocker) Lock(ctx context.Context, ids ...ledger.AccountID) (func(), error) {
	token := uuid.NewString()
	ordered := orderedIDs(ids)
	held := make([]string, 0, len(ordered))

	for _, id := range ordered {
		key := fmt.Sprintf("%s%d", redisLockPrefix, id)
		if err := l.acquire(ctx, key, token); err != nil {
			l.release(held, token)
			return nil, fmt.Errorf("lock account %d: %w", id, err)
		}
		held = append(held, key)
	}

	return func() { l.release(held, token) }, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	for i := 0; i < l.maxRetries; i++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if i == l.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
	return ErrAccountBusy
}

func (l *RedisLocker) release(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for i := len(keys) - 1; i >= 0; i-- {
		// best effort: an unreleased key expires after ttl
		_ = releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err()
	}
}
