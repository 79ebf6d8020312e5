package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"fittrack/internal/model"
	"fittrack/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type UserService struct {
	repo   UserRepository
	tokens TokenIssuer
}

func NewUserService(repo UserRepository, tokens TokenIssuer) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

func (s *UserService) Register(ctx context.Context, email, password, name string) (*model.User, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", validationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, "", validationError("password must be at least %d characters", minPasswordLength)
	}
	if name == "" {
		return nil, "", validationError("name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         model.RoleUser,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", persistenceError("failed to create user", err)
	}

	return s.withToken(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", persistenceError("failed to get user by email", err)
	}

	if user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return s.withToken(user)
}

// LoginTelegram signs in the user linked to an already verified Telegram
// account.
func (s *UserService) LoginTelegram(ctx context.Context, telegramID int64) (*model.User, string, error) {
	user, err := s.repo.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", persistenceError("failed to get user by telegram ID", err)
	}

	return s.withToken(user)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapUserError("failed to get user", err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id int64, upd model.ProfileUpdate) (*model.User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		upd.Name = &name
	}
	if upd.Age != nil && (*upd.Age <= 0 || *upd.Age > 150) {
		return nil, validationError("age must be between 1 and 150")
	}
	if upd.HeightCm != nil && *upd.HeightCm <= 0 {
		return nil, validationError("height must be positive")
	}
	if upd.WeightKg != nil && *upd.WeightKg <= 0 {
		return nil, validationError("weight must be positive")
	}
	if upd.Goal != nil {
		if _, ok := planCategories[*upd.Goal]; !ok {
			return nil, validationError("unknown goal %q", *upd.Goal)
		}
	}

	user, err := s.repo.UpdateUserProfile(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrTelegramIDTaken
		}
		return nil, mapUserError("failed to update profile", err)
	}

	return user, nil
}

func (s *UserService) SetMembership(ctx context.Context, id int64, isMember bool) error {
	if err := s.repo.SetMembership(ctx, id, isMember); err != nil {
		return mapUserError("failed to update membership", err)
	}
	return nil
}

func (s *UserService) AddMeasurement(ctx context.Context, m *model.Measurement) error {
	if m.WeightKg == nil && m.BodyFat == nil && m.ChestCm == nil && m.WaistCm == nil {
		return validationError("at least one measurement is required")
	}
	for _, v := range []*float64{m.WeightKg, m.BodyFat, m.ChestCm, m.WaistCm} {
		if v != nil && *v <= 0 {
			return validationError("measurements must be positive")
		}
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}

	if _, err := s.repo.GetUserByID(ctx, m.UserID); err != nil {
		return mapUserError("failed to get user", err)
	}

	if err := s.repo.AddMeasurement(ctx, m); err != nil {
		return persistenceError("failed to add measurement", err)
	}

	return nil
}

func (s *UserService) ListMeasurements(ctx context.Context, userID int64) ([]*model.Measurement, error) {
	measurements, err := s.repo.ListMeasurements(ctx, userID)
	if err != nil {
		return nil, persistenceError("failed to list measurements", err)
	}
	return measurements, nil
}

func (s *UserService) ListProgress(ctx context.Context, userID int64) ([]model.ActivityEntry, error) {
	progress, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, mapUserError("failed to list progress", err)
	}
	return progress, nil
}

func (s *UserService) withToken(user *model.User) (*model.User, string, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapUserError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return persistenceError(op, err)
}
