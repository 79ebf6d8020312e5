package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"fittrack/internal/model"
	"fittrack/internal/repository"
	"fittrack/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	postCoins    = 2
	commentCoins = 1

	defaultFeedLimit = 20
	maxFeedLimit     = 100
	maxPostLength    = 2000
	maxCommentLength = 500
)

// Feed event types pushed to live subscribers.
const (
	EventPostCreated    = "POST_CREATED"
	EventPostDeleted    = "POST_DELETED"
	EventPostLiked      = "POST_LIKED"
	EventCommentCreated = "COMMENT_CREATED"
)

type FeedService struct {
	repo      FeedRepository
	rewards   ActivityRewarder
	publisher FeedPublisher
}

func NewFeedService(repo FeedRepository, rewards ActivityRewarder, publisher FeedPublisher) *FeedService {
	return &FeedService{
		repo:      repo,
		rewards:   rewards,
		publisher: publisher,
	}
}

func (s *FeedService) ListPosts(ctx context.Context, viewerID int64, limit, offset int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	posts, err := s.repo.ListPosts(ctx, viewerID, uint64(limit), uint64(offset))
	if err != nil {
		return nil, persistenceError("failed to list posts", err)
	}
	return posts, nil
}

func (s *FeedService) CreatePost(ctx context.Context, userID int64, content, imageURL string) (*model.Post, error) {
	content = strings.TrimSpace(content)
	imageURL = strings.TrimSpace(imageURL)

	if content == "" {
		return nil, validationError("content is required")
	}
	if len(content) > maxPostLength {
		return nil, validationError("content must be at most %d characters", maxPostLength)
	}
	if imageURL != "" {
		if u, err := url.ParseRequestURI(imageURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return nil, validationError("image url must be an http(s) url")
		}
	}

	author, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserError("failed to get author", err)
	}

	post := &model.Post{
		ID:         uuid.New(),
		UserID:     userID,
		AuthorName: author.Name,
		Content:    content,
		ImageURL:   imageURL,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, persistenceError("failed to create post", err)
	}

	s.reward(ctx, userID, model.LedgerPost, postCoins, "Shared a post")
	s.publish(EventPostCreated, map[string]any{
		"post_id": post.ID.String(),
		"user_id": userID,
		"author":  post.AuthorName,
	})

	return post, nil
}

func (s *FeedService) DeletePost(ctx context.Context, userID int64, postID uuid.UUID) error {
	post, err := s.repo.GetPost(ctx, postID, userID)
	if err != nil {
		return mapPostError("failed to get post", err)
	}

	if post.UserID != userID {
		user, err := s.repo.GetUserByID(ctx, userID)
		if err != nil {
			return mapUserError("failed to get user", err)
		}
		if !user.IsAdmin() {
			return ErrForbidden
		}
	}

	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return mapPostError("failed to delete post", err)
	}

	s.publish(EventPostDeleted, map[string]any{"post_id": postID.String()})

	return nil
}

func (s *FeedService) ToggleLike(ctx context.Context, userID int64, postID uuid.UUID) (*model.Post, error) {
	post, err := s.repo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, mapPostError("failed to toggle like", err)
	}

	s.publish(EventPostLiked, map[string]any{
		"post_id":    postID.String(),
		"like_count": post.LikeCount,
	})

	return post, nil
}

func (s *FeedService) AddComment(ctx context.Context, userID int64, postID uuid.UUID, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("content is required")
	}
	if len(content) > maxCommentLength {
		return nil, validationError("comment must be at most %d characters", maxCommentLength)
	}

	if _, err := s.repo.GetPost(ctx, postID, userID); err != nil {
		return nil, mapPostError("failed to get post", err)
	}

	author, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserError("failed to get author", err)
	}

	comment := &model.Comment{
		ID:         uuid.New(),
		PostID:     postID,
		UserID:     userID,
		AuthorName: author.Name,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, persistenceError("failed to create comment", err)
	}

	s.reward(ctx, userID, model.LedgerComment, commentCoins, "Commented on a post")
	s.publish(EventCommentCreated, map[string]any{
		"post_id":    postID.String(),
		"comment_id": comment.ID.String(),
		"user_id":    userID,
	})

	return comment, nil
}

func (s *FeedService) ListComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	if _, err := s.repo.GetPost(ctx, postID, 0); err != nil {
		return nil, mapPostError("failed to get post", err)
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, persistenceError("failed to list comments", err)
	}
	return comments, nil
}

// reward credits social coins. The post or comment is already stored, so a
// failure is logged rather than returned.
func (s *FeedService) reward(ctx context.Context, userID int64, activityType string, coins int, description string) {
	if s.rewards == nil {
		return
	}
	if _, err := s.rewards.AddManualActivity(ctx, userID, activityType, coins, description); err != nil {
		logger.Logger().Error("Failed to credit feed activity",
			zap.Int64("user_id", userID),
			zap.String("type", activityType),
			zap.Error(err),
		)
	}
}

func (s *FeedService) publish(eventType string, payload map[string]any) {
	if s.publisher != nil {
		s.publisher.Publish(eventType, payload)
	}
}

func mapPostError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return persistenceError(op, err)
}
