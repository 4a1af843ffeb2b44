package economy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

const defaultTxTimeout = 15 * time.Second

// TransactionOptions configures transaction behavior
type TransactionOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

// TransactionManager provides standardized transaction utilities for
// coin and inventory mutations. Every balance write goes through here
// so concurrent requests serialize on the user row.
type TransactionManager struct {
	db *bun.DB
}

func NewTransactionManager(db *bun.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// StandardTransactionOptions returns default transaction options
func StandardTransactionOptions() *TransactionOptions {
	return &TransactionOptions{
		IsolationLevel: sql.LevelReadCommitted,
		Timeout:        defaultTxTimeout,
	}
}

// WithTransaction executes a function within a database transaction
func (tm *TransactionManager) WithTransaction(ctx context.Context, opts *TransactionOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = StandardTransactionOptions()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := tm.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LockUser loads the user row under FOR UPDATE so the caller can apply
// read-modify-write changes safely within tx.
func (tm *TransactionManager) LockUser(ctx context.Context, tx bun.Tx, userID string) (*models.User, error) {
	user := new(models.User)
	err := tx.NewSelect().
		Model(user).
		Where("id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("User not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return user, nil
}

// AddCardToInventory adds one copy of a card with UPSERT logic: bump
// the copy count when the card is already owned, insert otherwise. The
// collected timestamp is refreshed either way.
func (tm *TransactionManager) AddCardToInventory(ctx context.Context, tx bun.Tx, userID, cardID string) error {
	now := time.Now()
	result, err := tx.NewUpdate().
		Model((*models.UserCard)(nil)).
		Set("copies = copies + 1").
		Set("collected_at = ?", now).
		Set("updated_at = ?", now).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update card copies: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		_, err = tx.NewInsert().
			Model(&models.UserCard{
				UserID:      userID,
				CardID:      cardID,
				Copies:      1,
				CollectedAt: now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to add new card: %w", err)
		}
	}

	return nil
}

// ValidateAndUpdateCoins locks the user row, validates the balance for
// deductions and applies the delta. A negative amount spends coins.
func (tm *TransactionManager) ValidateAndUpdateCoins(ctx context.Context, tx bun.Tx, userID string, amount int64, insufficientMsg string) error {
	var user models.User
	err := tx.NewSelect().
		Model(&user).
		Column("coins").
		Where("id = ?", userID).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("User not found", err)
	}
	if err != nil {
		return fmt.Errorf("failed to get user coins: %w", err)
	}

	if amount < 0 && user.Coins < -amount {
		return apperrors.Forbidden(insufficientMsg, nil)
	}

	result, err := tx.NewUpdate().
		Model((*models.User)(nil)).
		Set("coins = coins + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update coins: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.NotFound("User not found", nil)
	}

	return nil
}

// GetDB returns the underlying database connection
func (tm *TransactionManager) GetDB() *bun.DB {
	return tm.db
}
