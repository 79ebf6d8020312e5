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

type User struct {
	ID           int64           `db:"id"`
	Email        string          `db:"email"`
	PasswordHash string          `db:"password_hash"`
	Name         string          `db:"name"`
	Role         string          `db:"role"`
	IsMember     bool            `db:"is_member"`
	Age          sql.NullInt64   `db:"age"`
	HeightCm     sql.NullFloat64 `db:"height_cm"`
	WeightKg     sql.NullFloat64 `db:"weight_kg"`
	Goal         string          `db:"goal"`
	TelegramID   sql.NullInt64   `db:"telegram_id"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

var userColumns = []string{
	"id", "email", "password_hash", "name", "role", "is_member",
	"age", "height_cm", "weight_kg", "goal", "telegram_id", "created_at", "updated_at",
}

func (u *User) toModel() *model.User {
	out := &model.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         u.Role,
		IsMember:     u.IsMember,
		Goal:         u.Goal,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Age.Valid {
		age := int(u.Age.Int64)
		out.Age = &age
	}
	if u.HeightCm.Valid {
		out.HeightCm = &u.HeightCm.Float64
	}
	if u.WeightKg.Valid {
		out.WeightKg = &u.WeightKg.Float64
	}
	if u.TelegramID.Valid {
		out.TelegramID = &u.TelegramID.Int64
	}
	return out
}

type Measurement struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Date      time.Time       `db:"date"`
	WeightKg  sql.NullFloat64 `db:"weight_kg"`
	BodyFat   sql.NullFloat64 `db:"body_fat"`
	ChestCm   sql.NullFloat64 `db:"chest_cm"`
	WaistCm   sql.NullFloat64 `db:"waist_cm"`
	CreatedAt time.Time       `db:"created_at"`
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"name":          user.Name,
			"role":          role,
			"is_member":     user.IsMember,
			"goal":          user.Goal,
			"telegram_id":   user.TelegramID,
		}).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	user.Role = role

	return nil
}

func (r *Repository) getUser(ctx context.Context, q sqlx.QueryerContext, where squirrel.Sqlizer) (*model.User, error) {
	var user User
	query, args, err := squirrel.
		Select(userColumns...).
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, q, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user.toModel(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, r.db, squirrel.Eq{"id": id})
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, r.db, squirrel.Eq{"email": email})
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return r.getUser(ctx, r.db, squirrel.Eq{"telegram_id": telegramID})
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id int64, upd model.ProfileUpdate) (*model.User, error) {
	var out *model.User

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		set := map[string]interface{}{
			"updated_at": squirrel.Expr("now()"),
		}
		if upd.Name != nil {
			set["name"] = *upd.Name
		}
		if upd.Age != nil {
			set["age"] = *upd.Age
		}
		if upd.HeightCm != nil {
			set["height_cm"] = *upd.HeightCm
		}
		if upd.WeightKg != nil {
			set["weight_kg"] = *upd.WeightKg
		}
		if upd.Goal != nil {
			set["goal"] = *upd.Goal
		}
		if upd.TelegramID != nil {
			set["telegram_id"] = *upd.TelegramID
		}

		query, args, err := squirrel.
			Update("users").
			SetMap(set).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return err
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotFound
		}

		out, err = r.getUser(ctx, tx, squirrel.Eq{"id": id})
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Repository) SetMembership(ctx context.Context, id int64, isMember bool) error {
	query, args, err := squirrel.
		Update("users").
		Set("is_member", isMember).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) AddMeasurement(ctx context.Context, m *model.Measurement) error {
	query, args, err := squirrel.
		Insert("measurements").
		SetMap(map[string]interface{}{
			"user_id":   m.UserID,
			"date":      m.Date,
			"weight_kg": m.WeightKg,
			"body_fat":  m.BodyFat,
			"chest_cm":  m.ChestCm,
			"waist_cm":  m.WaistCm,
		}).
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build measurement insert query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert measurement: %w", err)
	}

	return nil
}

func (r *Repository) ListMeasurements(ctx context.Context, userID int64) ([]*model.Measurement, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "date", "weight_kg", "body_fat", "chest_cm", "waist_cm", "created_at").
		From("measurements").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC", "id DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []Measurement
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}

	out := make([]*model.Measurement, len(rows))
	for i, m := range rows {
		out[i] = &model.Measurement{
			ID:        m.ID,
			UserID:    m.UserID,
			Date:      m.Date,
			WeightKg:  nullFloat(m.WeightKg),
			BodyFat:   nullFloat(m.BodyFat),
			ChestCm:   nullFloat(m.ChestCm),
			WaistCm:   nullFloat(m.WaistCm),
			CreatedAt: m.CreatedAt,
		}
	}

	return out, nil
}
