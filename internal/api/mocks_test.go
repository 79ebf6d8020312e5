package api

import (
	"context"
	"time"

	"fittrack/internal/model"
	"fittrack/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, email, password, name string) (*model.User, string, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockUserService) LoginTelegram(ctx context.Context, telegramID int64) (*model.User, string, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *mockUserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, id int64, upd model.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserService) SetMembership(ctx context.Context, id int64, isMember bool) error {
	args := m.Called(ctx, id, isMember)
	return args.Error(0)
}

func (m *mockUserService) AddMeasurement(ctx context.Context, measurement *model.Measurement) error {
	args := m.Called(ctx, measurement)
	return args.Error(0)
}

func (m *mockUserService) ListMeasurements(ctx context.Context, userID int64) ([]*model.Measurement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Measurement), args.Error(1)
}

func (m *mockUserService) ListProgress(ctx context.Context, userID int64) ([]model.ActivityEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivityEntry), args.Error(1)
}

type mockRewardService struct {
	mock.Mock
}

func (m *mockRewardService) RecordDailyActivity(ctx context.Context, userID int64, in service.DailyActivityInput) (*model.DailyActivityResult, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DailyActivityResult), args.Error(1)
}

func (m *mockRewardService) RecordSteps(ctx context.Context, userID int64, date *time.Time, steps int) (*model.StepsResult, error) {
	args := m.Called(ctx, userID, date, steps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StepsResult), args.Error(1)
}

func (m *mockRewardService) GetStreaksAndBadges(ctx context.Context, userID int64) (*model.StreakStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StreakStatus), args.Error(1)
}

func (m *mockRewardService) SpendCoins(ctx context.Context, userID int64, amount int, item string) (int, error) {
	args := m.Called(ctx, userID, amount, item)
	return args.Int(0), args.Error(1)
}

func (m *mockRewardService) AddManualActivity(ctx context.Context, userID int64, activityType string, coins int, description string) (int, error) {
	args := m.Called(ctx, userID, activityType, coins, description)
	return args.Int(0), args.Error(1)
}

func (m *mockRewardService) GetAccount(ctx context.Context, userID int64) (*model.RewardAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RewardAccount), args.Error(1)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) Source(ctx context.Context) model.DataSource {
	args := m.Called(ctx)
	return args.Get(0).(model.DataSource)
}

func (m *mockCatalogService) ListWorkouts(ctx context.Context, filter model.WorkoutFilter) ([]*model.Workout, model.DataSource, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]*model.Workout), args.Get(1).(model.DataSource), args.Error(2)
}

func (m *mockCatalogService) GetWorkout(ctx context.Context, id int64) (*model.Workout, model.DataSource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.Workout), args.Get(1).(model.DataSource), args.Error(2)
}

func (m *mockCatalogService) CreateWorkout(ctx context.Context, w *model.Workout) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockCatalogService) UpdateWorkout(ctx context.Context, w *model.Workout) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *mockCatalogService) DeleteWorkout(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCatalogService) ListMeals(ctx context.Context, filter model.MealFilter) ([]*model.Meal, model.DataSource, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]*model.Meal), args.Get(1).(model.DataSource), args.Error(2)
}

func (m *mockCatalogService) GetMeal(ctx context.Context, id int64) (*model.Meal, model.DataSource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.Meal), args.Get(1).(model.DataSource), args.Error(2)
}

func (m *mockCatalogService) CreateMeal(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *mockCatalogService) UpdateMeal(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *mockCatalogService) DeleteMeal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCatalogService) GeneratePlan(ctx context.Context, goal string) (*model.Plan, error) {
	args := m.Called(ctx, goal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Plan), args.Error(1)
}

type mockFeedService struct {
	mock.Mock
}

func (m *mockFeedService) ListPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*model.Post, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *mockFeedService) CreatePost(ctx context.Context, userID int64, content, imageURL string) (*model.Post, error) {
	args := m.Called(ctx, userID, content, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockFeedService) DeletePost(ctx context.Context, userID int64, postID uuid.UUID) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *mockFeedService) ToggleLike(ctx context.Context, userID int64, postID uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *mockFeedService) AddComment(ctx context.Context, userID int64, postID uuid.UUID, content string) (*model.Comment, error) {
	args := m.Called(ctx, userID, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *mockFeedService) ListComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) CreateOrder(ctx context.Context, userID int64, plan string) (*model.Payment, error) {
	args := m.Called(ctx, userID, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *mockPaymentService) VerifyPayment(ctx context.Context, userID int64, orderID, paymentID, signature string) (*model.Payment, error) {
	args := m.Called(ctx, userID, orderID, paymentID, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *mockPaymentService) KeyID() string {
	return m.Called().String(0)
}
