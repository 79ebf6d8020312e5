package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         string
	IsMember     bool
	Age          *int
	HeightCm     *float64
	WeightKg     *float64
	Goal         string
	TelegramID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type ProfileUpdate struct {
	Name       *string
	Age        *int
	HeightCm   *float64
	WeightKg   *float64
	Goal       *string
	TelegramID *int64
}

type Measurement struct {
	ID        int64
	UserID    int64
	Date      time.Time
	WeightKg  *float64
	BodyFat   *float64
	ChestCm   *float64
	WaistCm   *float64
	CreatedAt time.Time
}
