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

type Payment struct {
	OrderID   string         `db:"order_id"`
	UserID    int64          `db:"user_id"`
	Plan      string         `db:"plan"`
	Amount    int64          `db:"amount"`
	Currency  string         `db:"currency"`
	Receipt   string         `db:"receipt"`
	Status    string         `db:"status"`
	PaymentID sql.NullString `db:"payment_id"`
	CreatedAt time.Time      `db:"created_at"`
	PaidAt    sql.NullTime   `db:"paid_at"`
}

func (p *Payment) toModel() *model.Payment {
	out := &model.Payment{
		OrderID:   p.OrderID,
		UserID:    p.UserID,
		Plan:      p.Plan,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Receipt:   p.Receipt,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
	if p.PaymentID.Valid {
		out.PaymentID = &p.PaymentID.String
	}
	if p.PaidAt.Valid {
		out.PaidAt = &p.PaidAt.Time
	}
	return out
}

func (r *Repository) CreatePayment(ctx context.Context, p *model.Payment) error {
	query, args, err := squirrel.
		Insert("payments").
		SetMap(map[string]interface{}{
			"order_id": p.OrderID,
			"user_id":  p.UserID,
			"plan":     p.Plan,
			"amount":   p.Amount,
			"currency": p.Currency,
			"receipt":  p.Receipt,
			"status":   p.Status,
		}).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build payment insert query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

func (r *Repository) GetPayment(ctx context.Context, orderID string) (*model.Payment, error) {
	return getPayment(ctx, r.db, orderID, false)
}

func getPayment(ctx context.Context, q sqlx.QueryerContext, orderID string, forUpdate bool) (*model.Payment, error) {
	builder := squirrel.
		Select("order_id", "user_id", "plan", "amount", "currency", "receipt", "status", "payment_id", "created_at", "paid_at").
		From("payments").
		Where(squirrel.Eq{"order_id": orderID})
	if forUpdate {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	var p Payment
	if err := sqlx.GetContext(ctx, q, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p.toModel(), nil
}

// CompletePayment marks the order paid and grants membership to its owner in
// one transaction. Completing an already paid order is a no-op.
func (r *Repository) CompletePayment(ctx context.Context, orderID, paymentID string) (*model.Payment, error) {
	var out *model.Payment

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		p, err := getPayment(ctx, tx, orderID, true)
		if err != nil {
			return err
		}

		if p.Status == model.PaymentPaid {
			out = p
			return nil
		}

		now := time.Now().UTC()
		updateQuery, updateArgs, err := squirrel.
			Update("payments").
			SetMap(map[string]interface{}{
				"status":     model.PaymentPaid,
				"payment_id": paymentID,
				"paid_at":    now,
			}).
			Where(squirrel.Eq{"order_id": orderID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, updateQuery, updateArgs...); err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		memberQuery, memberArgs, err := squirrel.
			Update("users").
			Set("is_member", true).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": p.UserID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, memberQuery, memberArgs...); err != nil {
			return fmt.Errorf("failed to grant membership: %w", err)
		}

		p.Status = model.PaymentPaid
		p.PaymentID = &paymentID
		p.PaidAt = &now
		out = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
