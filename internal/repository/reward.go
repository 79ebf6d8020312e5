package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type ActivityEntry struct {
	UserID           int64     `db:"user_id"`
	Day              time.Time `db:"day"`
	WorkoutCompleted bool      `db:"workout_completed"`
	MealPlanFollowed bool      `db:"meal_plan_followed"`
	Steps            int       `db:"steps"`
}

type RewardAccount struct {
	UserID      int64     `db:"user_id"`
	CoinBalance int       `db:"coin_balance"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type LedgerEntry struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Type        string    `db:"type"`
	Coins       int       `db:"coins"`
	Date        time.Time `db:"date"`
	Description string    `db:"description"`
}

// RewardMutation computes the change to persist from a locked snapshot.
// Returning a nil change writes nothing; returning an error rolls back.
type RewardMutation func(snapshot *model.RewardSnapshot) (*model.RewardChange, error)

// ApplyRewards runs mutate against the user's progress and reward account while
// holding the user's row lock, then persists the returned change in the same
// transaction. Concurrent callers for the same user are serialized by Postgres.
func (r *Repository) ApplyRewards(ctx context.Context, userID int64, mutate RewardMutation) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}

		snapshot, err := loadRewardSnapshot(ctx, tx, userID)
		if err != nil {
			return err
		}

		change, err := mutate(snapshot)
		if err != nil {
			return err
		}
		if change == nil {
			return nil
		}

		if change.Entry != nil {
			if err := upsertActivityEntry(ctx, tx, change.Entry); err != nil {
				return err
			}
		}

		if len(change.Ledger) > 0 {
			if err := appendLedger(ctx, tx, userID, change.Ledger, change.Coins()); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *Repository) GetRewardSnapshot(ctx context.Context, userID int64) (*model.RewardSnapshot, error) {
	var snapshot *model.RewardSnapshot

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := r.getUser(ctx, tx, squirrel.Eq{"id": userID}); err != nil {
			return err
		}

		var err error
		snapshot, err = loadRewardSnapshot(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *Repository) GetOrCreateRewardAccount(ctx context.Context, userID int64) (*model.RewardAccount, error) {
	var account *model.RewardAccount

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := lockUser(ctx, tx, userID); err != nil {
			return err
		}

		query, args, err := squirrel.
			Insert("reward_accounts").
			Columns("user_id", "coin_balance").
			Values(userID, 0).
			Suffix("ON CONFLICT (user_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to create reward account: %w", err)
		}

		account, err = loadRewardAccount(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *Repository) ListProgress(ctx context.Context, userID int64) ([]model.ActivityEntry, error) {
	if _, err := r.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return listProgress(ctx, r.db, userID)
}

func lockUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	query, args, err := squirrel.
		Select("id").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

func listProgress(ctx context.Context, q sqlx.QueryerContext, userID int64) ([]model.ActivityEntry, error) {
	query, args, err := squirrel.
		Select("user_id", "day", "workout_completed", "meal_plan_followed", "steps").
		From("activity_entries").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("day DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []ActivityEntry
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}

	out := make([]model.ActivityEntry, len(rows))
	for i, e := range rows {
		out[i] = model.ActivityEntry{
			UserID:           e.UserID,
			Date:             model.CalendarDay(e.Day),
			WorkoutCompleted: e.WorkoutCompleted,
			MealPlanFollowed: e.MealPlanFollowed,
			Steps:            e.Steps,
		}
	}

	return out, nil
}

func loadRewardAccount(ctx context.Context, q sqlx.QueryerContext, userID int64) (*model.RewardAccount, error) {
	query, args, err := squirrel.
		Select("user_id", "coin_balance", "created_at", "updated_at").
		From("reward_accounts").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var account RewardAccount
	if err := sqlx.GetContext(ctx, q, &account, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ledgerQuery, ledgerArgs, err := squirrel.
		Select("id", "user_id", "type", "coins", "date", "description").
		From("reward_ledger").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var ledger []LedgerEntry
	if err := sqlx.SelectContext(ctx, q, &ledger, ledgerQuery, ledgerArgs...); err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}

	out := &model.RewardAccount{
		UserID:      account.UserID,
		CoinBalance: account.CoinBalance,
		ActivityLog: make([]model.LedgerEntry, len(ledger)),
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
	for i, e := range ledger {
		out.ActivityLog[i] = model.LedgerEntry{
			ID:          e.ID,
			UserID:      e.UserID,
			Type:        e.Type,
			Coins:       e.Coins,
			Date:        e.Date,
			Description: e.Description,
		}
	}

	return out, nil
}

func loadRewardSnapshot(ctx context.Context, q sqlx.QueryerContext, userID int64) (*model.RewardSnapshot, error) {
	progress, err := listProgress(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	account, err := loadRewardAccount(ctx, q, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return &model.RewardSnapshot{
		UserID:   userID,
		Progress: progress,
		Account:  account,
	}, nil
}

func upsertActivityEntry(ctx context.Context, tx *sqlx.Tx, e *model.ActivityEntry) error {
	query, args, err := squirrel.
		Insert("activity_entries").
		Columns("user_id", "day", "workout_completed", "meal_plan_followed", "steps").
		Values(e.UserID, model.CalendarDay(e.Date), e.WorkoutCompleted, e.MealPlanFollowed, e.Steps).
		Suffix(`ON CONFLICT (user_id, day) DO UPDATE SET
			workout_completed = EXCLUDED.workout_completed,
			meal_plan_followed = EXCLUDED.meal_plan_followed,
			steps = EXCLUDED.steps`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert activity entry: %w", err)
	}

	return nil
}

func appendLedger(ctx context.Context, tx *sqlx.Tx, userID int64, entries []model.LedgerEntry, coins int) error {
	accountQuery, accountArgs, err := squirrel.
		Insert("reward_accounts").
		Columns("user_id", "coin_balance").
		Values(userID, coins).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			coin_balance = reward_accounts.coin_balance + EXCLUDED.coin_balance,
			updated_at = now()`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, accountQuery, accountArgs...); err != nil {
		return fmt.Errorf("failed to update reward account: %w", err)
	}

	builder := squirrel.
		Insert("reward_ledger").
		Columns("user_id", "type", "coins", "date", "description")

	for _, e := range entries {
		builder = builder.Values(userID, e.Type, e.Coins, e.Date, e.Description)
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert ledger entries: %w", err)
	}

	return nil
}
