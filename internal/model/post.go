package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID           uuid.UUID
	UserID       int64
	AuthorName   string
	Content      string
	ImageURL     string
	LikeCount    int
	CommentCount int
	LikedByMe    bool
	CreatedAt    time.Time
}

type Comment struct {
	ID         uuid.UUID
	PostID     uuid.UUID
	UserID     int64
	AuthorName string
	Content    string
	CreatedAt  time.Time
}
