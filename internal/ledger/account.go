package ledger

import (
	"fmt"

	"github.com/congo-pay/congo_ledger/internal/money"
)

// Status gates which balance movements an account accepts.
type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
	StatusClosed Status = "closed"
)

// AcceptsCredits reports whether deposits are allowed. Frozen accounts keep
// receiving funds; only closed accounts refuse them.
func (s Status) AcceptsCredits() bool {
	return s == StatusActive || s == StatusFrozen
}

// AcceptsDebits reports whether withdrawals are allowed.
func (s Status) AcceptsDebits() bool {
	return s == StatusActive
}

func (s Status) valid() bool {
	switch s {
	case StatusActive, StatusFrozen, StatusClosed:
		return true
	default:
		return false
	}
}

// Account is the unit of balance ownership. The balance never goes negative:
// every mutation validates before it changes anything.
type Account struct {
	ID      AccountID
	Owner   CustomerID
	Balance money.Money
	Status  Status
}

// Deposit credits amount and returns the new balance.
func (a *Account) Deposit(amount money.Money) (money.Money, error) {
	if !amount.IsPositive() {
		return a.Balance, ErrNegativeAmount
	}
	if !a.Status.AcceptsCredits() {
		return a.Balance, ErrClosedAccount
	}
	a.Balance = a.Balance.Add(amount)
	return a.Balance, nil
}

// Withdraw debits amount and returns the new balance. Checks run in a fixed
// order: amount, then funds, then status. An over-limit withdrawal from a
// frozen account therefore reports ErrInsufficientFunds.
func (a *Account) Withdraw(amount money.Money) (money.Money, error) {
	if !amount.IsPositive() {
		return a.Balance, ErrNegativeAmount
	}
	if amount.GreaterThan(a.Balance) {
		return a.Balance, ErrInsufficientFunds
	}
	switch a.Status {
	case StatusClosed:
		return a.Balance, ErrClosedAccount
	case StatusFrozen:
		return a.Balance, ErrFrozenAccount
	}
	a.Balance = a.Balance.Sub(amount)
	return a.Balance, nil
}

// Apply dispatches a single-account transaction. Transfers involve two
// accounts and are rejected with ErrUnsupported.
func (a *Account) Apply(txn Transaction) (money.Money, error) {
	switch txn.Kind {
	case KindDeposit:
		return a.Deposit(txn.Amount)
	case KindWithdraw:
		return a.Withdraw(txn.Amount)
	default:
		return a.Balance, fmt.Errorf("%s: %w", txn.Kind, ErrUnsupported)
	}
}

// Freeze blocks debits on an active account.
func (a *Account) Freeze() error {
	return a.transition(StatusActive, StatusFrozen)
}

// Unfreeze reactivates a frozen account.
func (a *Account) Unfreeze() error {
	return a.transition(StatusFrozen, StatusActive)
}

// Close moves the account to its terminal status. Only empty accounts close.
func (a *Account) Close() error {
	if a.Status == StatusClosed {
		return ErrClosedAccount
	}
	if !a.Balance.IsZero() {
		return ErrNonZeroBalance
	}
	a.Status = StatusClosed
	return nil
}

func (a *Account) transition(from, to Status) error {
	if a.Status == StatusClosed {
		return ErrClosedAccount
	}
	if a.Status != from {
		return fmt.Errorf("%s -> %s: %w", a.Status, to, ErrInvalidStatusTransition)
	}
	a.Status = to
	return nil
}

// Builder assembles an Account. Balance defaults to zero and status to active.
type Builder struct {
	id      AccountID
	owner   CustomerID
	balance money.Money
	status  Status
}

// NewAccount starts building an account for owner.
func NewAccount(id AccountID, owner CustomerID) *Builder {
	return &Builder{id: id, owner: owner, status: StatusActive}
}

// Balance sets the opening balance.
func (b *Builder) Balance(balance money.Money) *Builder {
	b.balance = balance
	return b
}

// Status sets the opening status.
func (b *Builder) Status(status Status) *Builder {
	b.status = status
	return b
}

// Build validates and returns the account.
func (b *Builder) Build() (Account, error) {
	if b.balance.IsNegative() {
		return Account{}, ErrNegativeAmount
	}
	if !b.status.valid() {
		return Account{}, fmt.Errorf("unknown status %q", b.status)
	}
	return Account{ID: b.id, Owner: b.owner, Balance: b.balance, Status: b.status}, nil
}
