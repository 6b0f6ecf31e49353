package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/congo_ledger/internal/ledger"
	"github.com/congo-pay/congo_ledger/internal/money"
	"github.com/congo-pay/congo_ledger/internal/notification"
)

var (
	// ErrTransferToSelf rejects transfers whose source and destination match.
	ErrTransferToSelf = errors.New("cannot transfer to the same account")

	// ErrTransferPartiallyFailed means the source was debited in storage but
	// neither the credit nor the compensating restore could be written. The
	// returned error also wraps the storage failures.
	ErrTransferPartiallyFailed = errors.New("transfer partially applied")

	// ErrAccountBusy is returned when an account lock could not be acquired.
	ErrAccountBusy = errors.New("account is busy")
)

// Deps aggregates the collaborators of a Bank. Only Repo is required.
type Deps struct {
	Repo     ledger.Repository
	Sequence Sequence
	Locker   Locker
	Notifier notification.Notifier
	Logger   *slog.Logger
}

// Bank creates accounts and moves money between them. It is the only
// component that works with more than one account at a time.
type Bank struct {
	repo     ledger.Repository
	seq      Sequence
	locker   Locker
	notifier notification.Notifier
	logger   *slog.Logger
}

// New builds a Bank. Missing optional collaborators default to an
// AtomicSequence starting at 1, a LocalLocker and a LoggerNotifier.
func New(d Deps) (*Bank, error) {
	if d.Repo == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Sequence == nil {
		d.Sequence = NewAtomicSequence(0)
	}
	if d.Locker == nil {
		d.Locker = NewLocalLocker()
	}
	if d.Notifier == nil {
		d.Notifier = notification.NewLoggerNotifier(d.Logger)
	}
	return &Bank{
		repo:     d.Repo,
		seq:      d.Sequence,
		locker:   d.Locker,
		notifier: d.Notifier,
		logger:   d.Logger,
	}, nil
}

// TransferResult captures the outcome of a transfer.
type TransferResult struct {
	TransferID  string
	From        ledger.AccountID
	To          ledger.AccountID
	Amount      money.Money
	FromBalance money.Money
	ToBalance   money.Money
	CompletedAt time.Time
}

// CreateAccount opens an empty, active account for owner and returns its id.
func (b *Bank) CreateAccount(ctx context.Context, owner ledger.CustomerID) (ledger.AccountID, error) {
	id, err := b.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("allocate account id: %w", err)
	}
	account, err := ledger.NewAccount(id, owner).Build()
	if err != nil {
		return 0, err
	}
	if err := b.repo.Create(ctx, account); err != nil {
		return 0, fmt.Errorf("create account %d: %w", id, err)
	}
	b.logger.Debug("account created", slog.Uint64("account_id", uint64(id)), slog.Uint64("owner_id", uint64(owner)))
	return id, nil
}

// Account returns a copy of the stored account.
func (b *Bank) Account(ctx context.Context, id ledger.AccountID) (ledger.Account, error) {
	return b.load(ctx, id)
}

// Balance returns the stored balance of an account.
func (b *Bank) Balance(ctx context.Context, id ledger.AccountID) (money.Money, error) {
	account, err := b.load(ctx, id)
	if err != nil {
		return money.Zero, err
	}
	return account.Balance, nil
}

// Process applies txn to the account. Deposits and withdrawals return the new
// balance; transfers are routed through Transfer and return the source balance
// after the transfer.
func (b *Bank) Process(ctx context.Context, id ledger.AccountID, txn ledger.Transaction) (money.Money, error) {
	if _, err := b.load(ctx, id); err != nil {
		return money.Zero, err
	}

	if txn.Kind == ledger.KindTransfer {
		res, err := b.Transfer(ctx, id, txn.To, txn.Amount)
		if err != nil {
			return money.Zero, err
		}
		return res.FromBalance, nil
	}

	var balance money.Money
	err := b.mutate(ctx, id, func(account *ledger.Account) error {
		var err error
		balance, err = account.Apply(txn)
		return err
	})
	if err != nil {
		return money.Zero, err
	}
	return balance, nil
}

// Freeze blocks withdrawals and outgoing transfers. Deposits still succeed.
func (b *Bank) Freeze(ctx context.Context, id ledger.AccountID) error {
	return b.mutate(ctx, id, (*ledger.Account).Freeze)
}

// Unfreeze reactivates a frozen account.
func (b *Bank) Unfreeze(ctx context.Context, id ledger.AccountID) error {
	return b.mutate(ctx, id, (*ledger.Account).Unfreeze)
}

// Close permanently closes an empty account.
func (b *Bank) Close(ctx context.Context, id ledger.AccountID) error {
	return b.mutate(ctx, id, (*ledger.Account).Close)
}

// Transfer moves amount from one account to another, all or nothing.
//
// Both accounts stay locked for the whole read-validate-write sequence, so
// concurrent transfers cannot withdraw against a stale balance. When the
// repository implements ledger.BatchUpdater both accounts are written in one
// step. Otherwise the source is written first; if the destination write fails
// the source is restored, and if that restore fails too the error matches
// ErrTransferPartiallyFailed.
func (b *Bank) Transfer(ctx context.Context, from, to ledger.AccountID, amount money.Money) (TransferResult, error) {
	if from == to {
		return TransferResult{}, ErrTransferToSelf
	}

	unlock, err := b.locker.Lock(ctx, from, to)
	if err != nil {
		return TransferResult{}, err
	}
	defer unlock()

	src, err := b.load(ctx, from)
	if err != nil {
		return TransferResult{}, err
	}
	dst, err := b.load(ctx, to)
	if err != nil {
		return TransferResult{}, err
	}
	original := src

	if _, err := src.Withdraw(amount); err != nil {
		return TransferResult{}, fmt.Errorf("withdraw from account %d: %w", from, err)
	}
	if _, err := dst.Deposit(amount); err != nil {
		return TransferResult{}, fmt.Errorf("deposit into account %d: %w", to, err)
	}

	res := TransferResult{
		TransferID:  uuid.NewString(),
		From:        from,
		To:          to,
		Amount:      amount,
		FromBalance: src.Balance,
		ToBalance:   dst.Balance,
	}

	if err := b.commit(ctx, original, src, dst); err != nil {
		if errors.Is(err, ErrTransferPartiallyFailed) {
			b.notify(ctx, res, notification.KindTransferPartiallyFailed, err.Error())
		}
		return TransferResult{}, err
	}

	res.CompletedAt = time.Now().UTC()
	b.logger.Info("transfer completed",
		slog.String("transfer_id", res.TransferID),
		slog.Uint64("from", uint64(from)),
		slog.Uint64("to", uint64(to)),
		slog.String("amount", amount.String()),
	)
	b.notify(ctx, res, notification.KindTransferCompleted, "")
	return res, nil
}

func (b *Bank) commit(ctx context.Context, original, src, dst ledger.Account) error {
	if batch, ok := b.repo.(ledger.BatchUpdater); ok {
		if err := batch.UpdateAll(ctx, src, dst); err != nil {
			return fmt.Errorf("commit transfer: %w", err)
		}
		return nil
	}

	if err := b.repo.Update(ctx, src); err != nil {
		return fmt.Errorf("update source account %d: %w", src.ID, err)
	}
	if err := b.repo.Update(ctx, dst); err != nil {
		creditErr := fmt.Errorf("update destination account %d: %w", dst.ID, err)
		if restoreErr := b.repo.Update(ctx, original); restoreErr != nil {
			b.logger.Error("transfer left source debited",
				slog.Uint64("from", uint64(src.ID)),
				slog.Uint64("to", uint64(dst.ID)),
				slog.Any("error", creditErr),
				slog.Any("restore_error", restoreErr),
			)
			return errors.Join(
				ErrTransferPartiallyFailed,
				creditErr,
				fmt.Errorf("restore source account %d: %w", original.ID, restoreErr),
			)
		}
		b.logger.Warn("transfer rolled back",
			slog.Uint64("from", uint64(src.ID)),
			slog.Uint64("to", uint64(dst.ID)),
			slog.Any("error", creditErr),
		)
		return creditErr
	}
	return nil
}

// mutate runs fn against a locked, freshly read copy of the account and
// writes the result back.
func (b *Bank) mutate(ctx context.Context, id ledger.AccountID, fn func(*ledger.Account) error) error {
	unlock, err := b.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	account, err := b.load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(&account); err != nil {
		return err
	}
	if err := b.repo.Update(ctx, account); err != nil {
		return fmt.Errorf("update account %d: %w", id, err)
	}
	return nil
}

func (b *Bank) load(ctx context.Context, id ledger.AccountID) (ledger.Account, error) {
	account, ok, err := b.repo.Get(ctx, id)
	if err != nil {
		return ledger.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	if !ok {
		return ledger.Account{}, &ledger.NotFoundError{ID: id}
	}
	return account, nil
}

func (b *Bank) notify(ctx context.Context, res TransferResult, kind, detail string) {
	event := notification.Event{
		Kind:       kind,
		TransferID: res.TransferID,
		From:       uint64(res.From),
		To:         uint64(res.To),
		Amount:     res.Amount,
		OccurredAt: time.Now().UTC(),
		Detail:     detail,
	}
	if err := b.notifier.Send(ctx, event); err != nil {
		b.logger.Warn("notification failed", slog.String("transfer_id", res.TransferID), slog.Any("error", err))
	}
}
