package openid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// runInteraction runs f inside a transaction labelled desc. The transaction
// is committed when f succeeds and rolled back otherwise, including when f
// panics or the commit fails.
func runInteraction(ctx context.Context, s Store, logger *slog.Logger, desc string, opts TxOptions, f func(tx Tx) error) (err error) {
	start := time.Now()
	defer func() {
		logger.DebugContext(ctx, "storage interaction",
			"desc", desc,
			"readOnly", opts.ReadOnly,
			"duration", time.Since(start),
			"error", err,
		)
	}()

	tx, err := s.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", desc, err)
	}

	released := false
	defer func() {
		if released {
			return
		}

		rErr := tx.Rollback()
		if rErr != nil {
			logger.DebugContext(ctx, "failed to roll back transaction", "desc", desc, "error", rErr)
		}
	}()

	err = f(tx)
	if err != nil {
		released = true
		return fmt.Errorf("%s: %w", desc, rollback(tx, err))
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", desc, err)
	}

	released = true
	return nil
}

func rollback(tx Tx, err error) error {
	rErr := tx.Rollback()
	if rErr != nil {
		return errors.Join(err, rErr)
	}

	return err
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
