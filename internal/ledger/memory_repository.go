package ledger

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is the in-memory Repository implementation.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[AccountID]Account
	poisoned bool
}

// NewMemoryRepository creates a concurrency-safe in-memory account store. A
// single RWMutex guards the whole map: Get shares it, writes take it
// exclusively.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[AccountID]Account)}
}

func (r *MemoryRepository) Create(_ context.Context, account Account) error {
	return r.write(func(accounts map[AccountID]Account) {
		accounts[account.ID] = account
	})
}

func (r *MemoryRepository) Get(_ context.Context, id AccountID) (Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.poisoned {
		return Account{}, false, ErrLockPoisoned
	}
	account, ok := r.accounts[id]
	return account, ok, nil
}

func (r *MemoryRepository) Update(_ context.Context, account Account) error {
	return r.write(func(accounts map[AccountID]Account) {
		accounts[account.ID] = account
	})
}

// UpdateAll writes every account inside one critical section.
func (r *MemoryRepository) UpdateAll(_ context.Context, batch ...Account) error {
	return r.write(func(accounts map[AccountID]Account) {
		for _, account := range batch {
			accounts[account.ID] = account
		}
	})
}

// Snapshot returns copies of all accounts ordered by id.
func (r *MemoryRepository) Snapshot(_ context.Context) ([]Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.poisoned {
		return nil, ErrLockPoisoned
	}
	out := make([]Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// write runs fn under the exclusive lock. A panic inside fn poisons the
// repository before it propagates; every later call fails with ErrLockPoisoned.
func (r *MemoryRepository) write(fn func(map[AccountID]Account)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.poisoned {
		return ErrLockPoisoned
	}

	completed := false
	defer func() {
		if !completed {
			r.poisoned = true
		}
	}()
	fn(r.accounts)
	completed = true
	return nil
}
