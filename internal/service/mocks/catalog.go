package mocks

import (
	"context"

	"fittrack/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListWorkouts(ctx context.Context, filter model.WorkoutFilter) ([]*model.Workout, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Workout), args.Error(1)
}

func (m *MockCatalogRepository) GetWorkout(ctx context.Context, id int64) (*model.Workout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workout), args.Error(1)
}

func (m *MockCatalogRepository) CreateWorkout(ctx context.Context, w *model.Workout) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpdateWorkout(ctx context.Context, w *model.Workout) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteWorkout(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogRepository) ListMeals(ctx context.Context, filter model.MealFilter) ([]*model.Meal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Meal), args.Error(1)
}

func (m *MockCatalogRepository) GetMeal(ctx context.Context, id int64) (*model.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockCatalogRepository) CreateMeal(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockCatalogRepository) UpdateMeal(ctx context.Context, meal *model.Meal) error {
	args := m.Called(ctx, meal)
	return args.Error(0)
}

func (m *MockCatalogRepository) DeleteMeal(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
