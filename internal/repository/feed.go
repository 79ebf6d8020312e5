package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type post struct {
	ID           uuid.UUID `db:"id"`
	UserID       int64     `db:"user_id"`
	AuthorName   string    `db:"author_name"`
	Content      string    `db:"content"`
	ImageURL     string    `db:"image_url"`
	LikeCount    int       `db:"like_count"`
	CommentCount int       `db:"comment_count"`
	LikedByMe    bool      `db:"liked_by_me"`
	CreatedAt    time.Time `db:"created_at"`
}

func (p *post) toModel() *model.Post {
	return &model.Post{
		ID:           p.ID,
		UserID:       p.UserID,
		AuthorName:   p.AuthorName,
		Content:      p.Content,
		ImageURL:     p.ImageURL,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		LikedByMe:    p.LikedByMe,
		CreatedAt:    p.CreatedAt,
	}
}

type comment struct {
	ID         uuid.UUID `db:"id"`
	PostID     uuid.UUID `db:"post_id"`
	UserID     int64     `db:"user_id"`
	AuthorName string    `db:"author_name"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}

func postSelect(viewerID int64) squirrel.SelectBuilder {
	return squirrel.
		Select(
			"p.id", "p.user_id", "u.name AS author_name", "p.content", "p.image_url", "p.created_at",
			"(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count",
			"(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count",
		).
		Column(squirrel.Expr(
			"EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = ?) AS liked_by_me", viewerID,
		)).
		From("posts p").
		Join("users u ON u.id = p.user_id")
}

func (r *Repository) CreatePost(ctx context.Context, p *model.Post) error {
	query, args, err := squirrel.
		Insert("posts").
		SetMap(map[string]interface{}{
			"id":         p.ID,
			"user_id":    p.UserID,
			"content":    p.Content,
			"image_url":  p.ImageURL,
			"created_at": p.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build post insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

func (r *Repository) ListPosts(ctx context.Context, viewerID int64, limit, offset uint64) ([]*model.Post, error) {
	query, args, err := postSelect(viewerID).
		OrderBy("p.created_at DESC").
		Limit(limit).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []post
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := make([]*model.Post, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}

	return out, nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID, viewerID int64) (*model.Post, error) {
	return getPost(ctx, r.db, id, viewerID)
}

func getPost(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID, viewerID int64) (*model.Post, error) {
	query, args, err := postSelect(viewerID).
		Where(squirrel.Eq{"p.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var p post
	if err := sqlx.GetContext(ctx, q, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p.toModel(), nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	query, args, err := squirrel.
		Delete("posts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	return r.execAffectingOne(ctx, query, args)
}

// ToggleLike flips the user's like on a post and returns the new state.
func (r *Repository) ToggleLike(ctx context.Context, postID uuid.UUID, userID int64) (*model.Post, error) {
	var out *model.Post

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		deleteQuery, args, err := squirrel.
			Delete("post_likes").
			Where(squirrel.Eq{"post_id": postID, "user_id": userID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, deleteQuery, args...)
		if err != nil {
			return fmt.Errorf("failed to remove like: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if rows == 0 {
			insertQuery, insertArgs, err := squirrel.
				Insert("post_likes").
				Columns("post_id", "user_id").
				Values(postID, userID).
				Suffix("ON CONFLICT DO NOTHING").
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
		}

		out, err = getPost(ctx, tx, postID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *Repository) CreateComment(ctx context.Context, c *model.Comment) error {
	query, args, err := squirrel.
		Insert("comments").
		SetMap(map[string]interface{}{
			"id":         c.ID,
			"post_id":    c.PostID,
			"user_id":    c.UserID,
			"content":    c.Content,
			"created_at": c.CreatedAt,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build comment insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*model.Comment, error) {
	query, args, err := squirrel.
		Select("c.id", "c.post_id", "c.user_id", "u.name AS author_name", "c.content", "c.created_at").
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where(squirrel.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []comment
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	out := make([]*model.Comment, len(rows))
	for i, c := range rows {
		out[i] = &model.Comment{
			ID:         c.ID,
			PostID:     c.PostID,
			UserID:     c.UserID,
			AuthorName: c.AuthorName,
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
		}
	}

	return out, nil
}
