package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/congo_ledger/internal/bank"
	"github.com/congo-pay/congo_ledger/internal/config"
	"github.com/congo-pay/congo_ledger/internal/infra"
	"github.com/congo-pay/congo_ledger/internal/ledger"
	"github.com/congo-pay/congo_ledger/internal/logging"
	"github.com/congo-pay/congo_ledger/internal/money"
	"github.com/congo-pay/congo_ledger/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	deps := bank.Deps{
		Repo:   ledger.NewMemoryRepository(),
		Logger: logger,
	}

	if cfg.UsesRedis() {
		cache, err := infra.NewRedisClient(ctx, cfg.RedisURL, cfg.AppName)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
		withRedis(&deps, cfg, cache)
	}

	if err := run(ctx, deps, logger); err != nil {
		logger.Error("ledger run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ledger exited cleanly")
}

func withRedis(deps *bank.Deps, cfg config.Config, client *redis.Client) {
	deps.Sequence = bank.NewRedisSequence(client, cfg.SequenceKey)
	deps.Locker = bank.NewRedisLocker(client, cfg.LockTTL, cfg.LockRetryInterval, cfg.LockMaxRetries)
	deps.Notifier = notification.NewRedisStreamNotifier(client, cfg.EventStream)
}

// run opens two accounts, funds the first and moves part of it to the second.
func run(ctx context.Context, deps bank.Deps, logger *slog.Logger) error {
	b, err := bank.New(deps)
	if err != nil {
		return fmt.Errorf("build bank: %w", err)
	}

	alice, err := b.CreateAccount(ctx, 1)
	if err != nil {
		return err
	}
	if _, err := b.Process(ctx, alice, ledger.Deposit(money.FromInt(100))); err != nil {
		return fmt.Errorf("fund account %d: %w", alice, err)
	}
	bob, err := b.CreateAccount(ctx, 2)
	if err != nil {
		return err
	}

	res, err := b.Transfer(ctx, alice, bob, money.FromInt(40))
	if err != nil {
		return err
	}
	logger.Info("balances",
		slog.String("transfer_id", res.TransferID),
		slog.Uint64("from", uint64(alice)),
		slog.String("from_balance", res.FromBalance.String()),
		slog.Uint64("to", uint64(bob)),
		slog.String("to_balance", res.ToBalance.String()),
	)

	if snap, ok := deps.Repo.(ledger.Snapshotter); ok {
		accounts, err := snap.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		for _, a := range accounts {
			logger.Info("account",
				slog.Uint64("id", uint64(a.ID)),
				slog.Uint64("owner", uint64(a.Owner)),
				slog.String("balance", a.Balance.String()),
				slog.String("status", string(a.Status)),
			)
		}
	}
	return nil
}
