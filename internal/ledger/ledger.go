package ledger

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNegativeAmount occurs when a mutation is requested with an amount that
	// is zero or below.
	ErrNegativeAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds occurs when a withdrawal exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrClosedAccount indicates the account is closed and its balance can no
	// longer move.
	ErrClosedAccount = errors.New("account is closed")

	// ErrFrozenAccount indicates the account is frozen and cannot be debited.
	ErrFrozenAccount = errors.New("account is frozen")

	// ErrUnsupported is returned when a transaction cannot be applied to a
	// single account, e.g. a transfer.
	ErrUnsupported = errors.New("operation not supported on a single account")

	// ErrAccountNotFound is matched by NotFoundError.
	ErrAccountNotFound = errors.New("account not found")

	// ErrLockPoisoned indicates a writer panicked while holding the storage
	// lock, leaving the store in an unknown state.
	ErrLockPoisoned = errors.New("storage lock poisoned")

	// ErrNonZeroBalance prevents closing an account that still holds funds.
	ErrNonZeroBalance = errors.New("account balance must be zero")

	// ErrInvalidStatusTransition is returned for status changes that make no
	// sense from the current status.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

// AccountID identifies an account. Identifiers are allocated by the bank and
// never reused.
type AccountID uint64

// CustomerID references the owning customer.
type CustomerID uint64

// NotFoundError names the account that could not be located.
type NotFoundError struct {
	ID AccountID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %d not found", e.ID)
}

// Is reports whether target is ErrAccountNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// Repository stores accounts by identifier. Implementations hand out copies:
// mutating an Account returned by Get has no effect until it is written back
// with Update.
//
// Create and Update never check for existence; both write the account under
// its id.
type Repository interface {
	Create(ctx context.Context, account Account) error
	Get(ctx context.Context, id AccountID) (Account, bool, error)
	Update(ctx context.Context, account Account) error
}

// BatchUpdater is implemented by repositories that can write several accounts
// in one all-or-nothing step.
type BatchUpdater interface {
	UpdateAll(ctx context.Context, accounts ...Account) error
}

// Snapshotter is implemented by repositories that can list every account.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]Account, error)
}
