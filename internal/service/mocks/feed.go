package mocks

import (
	"context"

	"fittrack/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockFeedRepository) CreatePost(ctx context.Context, p *model.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockFeedRepository) ListPosts(ctx context.Context, viewerID int64, limit, offset uint64) ([]*model.Post, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Post), args.Error(1)
}

func (m *MockFeedRepository) GetPost(ctx context.Context, id uuid.UUID, viewerID int64) (*model.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockFeedRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeedRepository) ToggleLike(ctx context.Context, postID uuid.UUID, userID int64) (*model.Post, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockFeedRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockFeedRepository) ListComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Comment), args.Error(1)
}

type MockFeedPublisher struct {
	mock.Mock
}

func (m *MockFeedPublisher) Publish(eventType string, payload map[string]any) {
	m.Called(eventType, payload)
}
