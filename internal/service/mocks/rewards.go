package mocks

import (
	"context"

	"fittrack/internal/model"
	"fittrack/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockRewardRepository struct {
	mock.Mock
}

// ApplyRewards expects Return(snapshot, err). A non-nil snapshot is handed to
// mutate the way the real repository would.
func (m *MockRewardRepository) ApplyRewards(ctx context.Context, userID int64, mutate repository.RewardMutation) error {
	args := m.Called(ctx, userID, mutate)
	if err := args.Error(1); err != nil {
		return err
	}
	snapshot, _ := args.Get(0).(*model.RewardSnapshot)
	if snapshot == nil {
		return nil
	}
	_, err := mutate(snapshot)
	return err
}

func (m *MockRewardRepository) GetRewardSnapshot(ctx context.Context, userID int64) (*model.RewardSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RewardSnapshot), args.Error(1)
}

func (m *MockRewardRepository) GetOrCreateRewardAccount(ctx context.Context, userID int64) (*model.RewardAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RewardAccount), args.Error(1)
}

type MockActivityRewarder struct {
	mock.Mock
}

func (m *MockActivityRewarder) AddManualActivity(ctx context.Context, userID int64, activityType string, coins int, description string) (int, error) {
	args := m.Called(ctx, userID, activityType, coins, description)
	return args.Int(0), args.Error(1)
}
