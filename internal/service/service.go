package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/model"
	"fittrack/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrUserNotFound          = errors.New("user not found")
	ErrRewardAccountNotFound = errors.New("reward account not found")
	ErrInsufficientBalance   = errors.New("insufficient coin balance")
	ErrUpstream              = errors.New("upstream service failure")
	ErrPersistence           = errors.New("persistence failure")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTelegramIDTaken    = errors.New("telegram account already linked to another user")
	ErrForbidden          = errors.New("forbidden")
	ErrWorkoutNotFound    = errors.New("workout not found")
	ErrMealNotFound       = errors.New("meal not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrOrderNotFound      = errors.New("payment order not found")
	ErrUnknownPlan        = errors.New("unknown membership plan")
	ErrInvalidSignature   = errors.New("payment signature mismatch")
	ErrStoreUnavailable   = errors.New("data store unavailable")
)

// ValidationError is a rejected request field. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

type TokenIssuer interface {
	Issue(userID int64, role string) (string, error)
}

type UserServiceI interface {
	Register(ctx context.Context, email, password, name string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	LoginTelegram(ctx context.Context, telegramID int64) (*model.User, string, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, upd model.ProfileUpdate) (*model.User, error)
	SetMembership(ctx context.Context, id int64, isMember bool) error
	AddMeasurement(ctx context.Context, m *model.Measurement) error
	ListMeasurements(ctx context.Context, userID int64) ([]*model.Measurement, error)
	ListProgress(ctx context.Context, userID int64) ([]model.ActivityEntry, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int64, upd model.ProfileUpdate) (*model.User, error)
	SetMembership(ctx context.Context, id int64, isMember bool) error
	AddMeasurement(ctx context.Context, m *model.Measurement) error
	ListMeasurements(ctx context.Context, userID int64) ([]*model.Measurement, error)
	ListProgress(ctx context.Context, userID int64) ([]model.ActivityEntry, error)
}

type DailyActivityInput struct {
	Date             *time.Time
	WorkoutCompleted *bool
	MealPlanFollowed *bool
}

type RewardServiceI interface {
	RecordDailyActivity(ctx context.Context, userID int64, in DailyActivityInput) (*model.DailyActivityResult, error)
	RecordSteps(ctx context.Context, userID int64, date *time.Time, steps int) (*model.StepsResult, error)
	GetStreaksAndBadges(ctx context.Context, userID int64) (*model.StreakStatus, error)
	SpendCoins(ctx context.Context, userID int64, amount int, item string) (int, error)
	AddManualActivity(ctx context.Context, userID int64, activityType string, coins int, description string) (int, error)
	GetAccount(ctx context.Context, userID int64) (*model.RewardAccount, error)
}

type RewardRepository interface {
	ApplyRewards(ctx context.Context, userID int64, mutate repository.RewardMutation) error
	GetRewardSnapshot(ctx context.Context, userID int64) (*model.RewardSnapshot, error)
	GetOrCreateRewardAccount(ctx context.Context, userID int64) (*model.RewardAccount, error)
}

type CatalogServiceI interface {
	Source(ctx context.Context) model.DataSource
	ListWorkouts(ctx context.Context, filter model.WorkoutFilter) ([]*model.Workout, model.DataSource, error)
	GetWorkout(ctx context.Context, id int64) (*model.Workout, model.DataSource, error)
	CreateWorkout(ctx context.Context, w *model.Workout) error
	UpdateWorkout(ctx context.Context, w *model.Workout) error
	DeleteWorkout(ctx context.Context, id int64) error
	ListMeals(ctx context.Context, filter model.MealFilter) ([]*model.Meal, model.DataSource, error)
	GetMeal(ctx context.Context, id int64) (*model.Meal, model.DataSource, error)
	CreateMeal(ctx context.Context, m *model.Meal) error
	UpdateMeal(ctx context.Context, m *model.Meal) error
	DeleteMeal(ctx context.Context, id int64) error
	GeneratePlan(ctx context.Context, goal string) (*model.Plan, error)
}

type CatalogReader interface {
	ListWorkouts(ctx context.Context, filter model.WorkoutFilter) ([]*model.Workout, error)
	GetWorkout(ctx context.Context, id int64) (*model.Workout, error)
	ListMeals(ctx context.Context, filter model.MealFilter) ([]*model.Meal, error)
	GetMeal(ctx context.Context, id int64) (*model.Meal, error)
}

type CatalogRepository interface {
	CatalogReader
	Ping(ctx context.Context) error
	CreateWorkout(ctx context.Context, w *model.Workout) error
	UpdateWorkout(ctx context.Context, w *model.Workout) error
	DeleteWorkout(ctx context.Context, id int64) error
	CreateMeal(ctx context.Context, m *model.Meal) error
	UpdateMeal(ctx context.Context, m *model.Meal) error
	DeleteMeal(ctx context.Context, id int64) error
}

type FeedServiceI interface {
	ListPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*model.Post, error)
	CreatePost(ctx context.Context, userID int64, content, imageURL string) (*model.Post, error)
	DeletePost(ctx context.Context, userID int64, postID uuid.UUID) error
	ToggleLike(ctx context.Context, userID int64, postID uuid.UUID) (*model.Post, error)
	AddComment(ctx context.Context, userID int64, postID uuid.UUID, content string) (*model.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
}

type FeedRepository interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	CreatePost(ctx context.Context, p *model.Post) error
	ListPosts(ctx context.Context, viewerID int64, limit, offset uint64) ([]*model.Post, error)
	GetPost(ctx context.Context, id uuid.UUID, viewerID int64) (*model.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ToggleLike(ctx context.Context, postID uuid.UUID, userID int64) (*model.Post, error)
	CreateComment(ctx context.Context, c *model.Comment) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error)
}

// ActivityRewarder credits coins for non-streak activities.
type ActivityRewarder interface {
	AddManualActivity(ctx context.Context, userID int64, activityType string, coins int, description string) (int, error)
}

// FeedPublisher fans feed events out to live subscribers.
type FeedPublisher interface {
	Publish(eventType string, payload map[string]any)
}

type PaymentServiceI interface {
	CreateOrder(ctx context.Context, userID int64, plan string) (*model.Payment, error)
	VerifyPayment(ctx context.Context, userID int64, orderID, paymentID, signature string) (*model.Payment, error)
	KeyID() string
}

type PaymentRepository interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	CreatePayment(ctx context.Context, p *model.Payment) error
	GetPayment(ctx context.Context, orderID string) (*model.Payment, error)
	CompletePayment(ctx context.Context, orderID, paymentID string) (*model.Payment, error)
}

// PaymentGateway creates orders with the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
}

// MembershipNotifier tells a user their membership is active.
type MembershipNotifier interface {
	NotifyMembership(ctx context.Context, user *model.User, payment *model.Payment) error
}
