package repository

import (
	"context"
	"testing"
	"time"

	"fittrack/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewWithDB(sqlx.NewDb(db, "pgx")), mock
}

var testTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func userRow(id int64, email string) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).
		AddRow(id, email, "hash", "Ann", model.RoleUser, false, 31, nil, 64.5, "weight_loss", nil, testTime, testTime)
}

func TestRepository_GetUserByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(userRow(7, "ann@example.com"))

		user, err := repo.GetUserByID(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "ann@example.com", user.Email)
		if assert.NotNil(t, user.Age) {
			assert.Equal(t, 31, *user.Age)
		}
		assert.Nil(t, user.HeightCm)
		assert.Nil(t, user.TelegramID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		_, err := repo.GetUserByID(context.Background(), 8)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CreateUser(t *testing.T) {
	t.Run("Inserted", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`INSERT INTO users .* RETURNING id, created_at, updated_at`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(12, testTime, testTime))

		user := &model.User{Email: "bo@example.com", PasswordHash: "hash", Name: "Bo"}
		err := repo.CreateUser(context.Background(), user)

		require.NoError(t, err)
		assert.Equal(t, int64(12), user.ID)
		assert.Equal(t, model.RoleUser, user.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation, Message: "duplicate key value"})

		err := repo.CreateUser(context.Background(), &model.User{Email: "bo@example.com", Name: "Bo"})

		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ListWorkouts(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT .* FROM workouts WHERE category = \$1 ORDER BY id ASC`).
		WithArgs("cardio").
		WillReturnRows(sqlmock.NewRows(workoutColumns).
			AddRow(2, "HIIT Cardio Blast", "", "cardio", "intermediate", 25, 320, `{Burpees,"Mountain climbers"}`, testTime))

	workouts, err := repo.ListWorkouts(context.Background(), model.WorkoutFilter{Category: "cardio"})

	require.NoError(t, err)
	if assert.Len(t, workouts, 1) {
		assert.Equal(t, []string{"Burpees", "Mountain climbers"}, workouts[0].Exercises)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ApplyRewards(t *testing.T) {
	ledgerColumns := []string{"id", "user_id", "type", "coins", "date", "description"}
	accountColumns := []string{"user_id", "coin_balance", "created_at", "updated_at"}
	progressColumns := []string{"user_id", "day", "workout_completed", "meal_plan_followed", "steps"}

	t.Run("Persists change in one transaction", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		day := model.CalendarDay(testTime)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`SELECT .* FROM activity_entries WHERE user_id = \$1 ORDER BY day DESC`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(progressColumns).AddRow(1, day.AddDate(0, 0, -1), true, false, 0))
		mock.ExpectQuery(`SELECT .* FROM reward_accounts WHERE user_id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(1, 5, testTime, testTime))
		mock.ExpectQuery(`SELECT .* FROM reward_ledger WHERE user_id = \$1 ORDER BY id ASC`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(ledgerColumns).AddRow(1, 1, model.LedgerWorkout, 5, testTime, "Completed workout"))
		mock.ExpectExec(`INSERT INTO activity_entries .* ON CONFLICT \(user_id, day\) DO UPDATE`).
			WithArgs(int64(1), day, true, false, 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO reward_accounts .* ON CONFLICT \(user_id\) DO UPDATE`).
			WithArgs(int64(1), 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO reward_ledger`).
			WithArgs(int64(1), model.LedgerWorkout, 5, testTime, "Completed workout").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		var seen *model.RewardSnapshot
		err := repo.ApplyRewards(context.Background(), 1, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
			seen = snap
			return &model.RewardChange{
				Entry: &model.ActivityEntry{UserID: 1, Date: day, WorkoutCompleted: true},
				Ledger: []model.LedgerEntry{
					{Type: model.LedgerWorkout, Coins: 5, Date: testTime, Description: "Completed workout"},
				},
			}, nil
		})

		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Len(t, seen.Progress, 1)
		if assert.NotNil(t, seen.Account) {
			assert.Equal(t, 5, seen.Account.CoinBalance)
			assert.Len(t, seen.Account.ActivityLog, 1)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown user rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1 FOR UPDATE`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		called := false
		err := repo.ApplyRewards(context.Background(), 9, func(*model.RewardSnapshot) (*model.RewardChange, error) {
			called = true
			return nil, nil
		})

		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Mutation error rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`SELECT .* FROM activity_entries`).
			WillReturnRows(sqlmock.NewRows(progressColumns))
		mock.ExpectQuery(`SELECT .* FROM reward_accounts`).
			WillReturnRows(sqlmock.NewRows(accountColumns))
		mock.ExpectRollback()

		err := repo.ApplyRewards(context.Background(), 1, func(snap *model.RewardSnapshot) (*model.RewardChange, error) {
			assert.Nil(t, snap.Account)
			return nil, assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nil change writes nothing", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1 FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`SELECT .* FROM activity_entries`).
			WillReturnRows(sqlmock.NewRows(progressColumns))
		mock.ExpectQuery(`SELECT .* FROM reward_accounts`).
			WillReturnRows(sqlmock.NewRows(accountColumns))
		mock.ExpectCommit()

		err := repo.ApplyRewards(context.Background(), 1, func(*model.RewardSnapshot) (*model.RewardChange, error) {
			return nil, nil
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_CompletePayment(t *testing.T) {
	paymentColumns := []string{"order_id", "user_id", "plan", "amount", "currency", "receipt", "status", "payment_id", "created_at", "paid_at"}

	t.Run("Marks paid and grants membership", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM payments WHERE order_id = \$1 FOR UPDATE`).
			WithArgs("order_1").
			WillReturnRows(sqlmock.NewRows(paymentColumns).
				AddRow("order_1", 4, "monthly", 49900, "INR", "rcpt_1", model.PaymentCreated, nil, testTime, nil))
		mock.ExpectExec(`UPDATE payments SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE users SET is_member = \$1`).
			WithArgs(true, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		payment, err := repo.CompletePayment(context.Background(), "order_1", "pay_1")

		require.NoError(t, err)
		assert.Equal(t, model.PaymentPaid, payment.Status)
		if assert.NotNil(t, payment.PaymentID) {
			assert.Equal(t, "pay_1", *payment.PaymentID)
		}
		assert.NotNil(t, payment.PaidAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already paid is a no-op", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM payments WHERE order_id = \$1 FOR UPDATE`).
			WithArgs("order_1").
			WillReturnRows(sqlmock.NewRows(paymentColumns).
				AddRow("order_1", 4, "monthly", 49900, "INR", "rcpt_1", model.PaymentPaid, "pay_0", testTime, testTime))
		mock.ExpectCommit()

		payment, err := repo.CompletePayment(context.Background(), "order_1", "pay_1")

		require.NoError(t, err)
		assert.Equal(t, "pay_0", *payment.PaymentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown order", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT .* FROM payments`).
			WillReturnRows(sqlmock.NewRows(paymentColumns))
		mock.ExpectRollback()

		_, err := repo.CompletePayment(context.Background(), "order_x", "pay_1")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStaticCatalog(t *testing.T) {
	catalog := NewStaticCatalog()
	ctx := context.Background()

	workouts, err := catalog.ListWorkouts(ctx, model.WorkoutFilter{Category: "strength"})
	require.NoError(t, err)
	for _, w := range workouts {
		assert.Equal(t, "strength", w.Category)
	}
	assert.NotEmpty(t, workouts)

	workouts[0].Exercises[0] = "changed"
	again, err := catalog.GetWorkout(ctx, workouts[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Exercises[0])

	_, err = catalog.GetMeal(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	breakfasts, err := catalog.ListMeals(ctx, model.MealFilter{Type: "breakfast"})
	require.NoError(t, err)
	assert.Len(t, breakfasts, 2)
}
