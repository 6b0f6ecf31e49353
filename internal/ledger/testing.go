package ledger

import (
	"context"
	"sync"
)

// Operation names a Repository method for fault injection.
type Operation string

const (
	OpCreate Operation = "create"
	OpGet    Operation = "get"
	OpUpdate Operation = "update"
)

type fault struct {
	skip      int
	remaining int // <= 0 means every call fails
}

// FaultyRepository is a test double that wraps a Repository and makes chosen
// operations fail with ErrLockPoisoned. It does not implement BatchUpdater,
// so callers use single-account writes.
type FaultyRepository struct {
	inner Repository

	mu     sync.Mutex
	faults map[Operation]*fault
	calls  map[Operation]int
}

// NewFaultyRepository wraps inner without any faults armed.
func NewFaultyRepository(inner Repository) *FaultyRepository {
	return &FaultyRepository{
		inner:  inner,
		faults: make(map[Operation]*fault),
		calls:  make(map[Operation]int),
	}
}

// Inject arms op to fail after skip further successful calls. times limits
// how many calls fail; zero or less fails forever until Heal.
func (r *FaultyRepository) Inject(op Operation, skip, times int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults[op] = &fault{skip: skip, remaining: times}
}

// Heal disarms every fault.
func (r *FaultyRepository) Heal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = make(map[Operation]*fault)
}

// Calls reports how many times op was invoked, failed or not.
func (r *FaultyRepository) Calls(op Operation) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

func (r *FaultyRepository) Create(ctx context.Context, account Account) error {
	if r.trip(OpCreate) {
		return ErrLockPoisoned
	}
	return r.inner.Create(ctx, account)
}

func (r *FaultyRepository) Get(ctx context.Context, id AccountID) (Account, bool, error) {
	if r.trip(OpGet) {
		return Account{}, false, ErrLockPoisoned
	}
	return r.inner.Get(ctx, id)
}

func (r *FaultyRepository) Update(ctx context.Context, account Account) error {
	if r.trip(OpUpdate) {
		return ErrLockPoisoned
	}
	return r.inner.Update(ctx, account)
}

func (r *FaultyRepository) trip(op Operation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[op]++

	f, ok := r.faults[op]
	if !ok {
		return false
	}
	if f.skip > 0 {
		f.skip--
		return false
	}
	if f.remaining > 0 {
		f.remaining--
		if f.remaining == 0 {
			delete(r.faults, op)
		}
	}
	return true
}
