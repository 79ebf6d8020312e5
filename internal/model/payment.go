package model

import "time"

const (
	PaymentCreated = "created"
	PaymentPaid    = "paid"
)

type Payment struct {
	OrderID   string
	UserID    int64
	Plan      string
	Amount    int64
	Currency  string
	Receipt   string
	Status    string
	PaymentID *string
	CreatedAt time.Time
	PaidAt    *time.Time
}
