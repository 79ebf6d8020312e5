package api

import (
	"net/http"
	"strconv"

	"fittrack/internal/realtime"
	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type feedRoutes struct {
	fs  service.FeedServiceI
	hub *realtime.Hub
}

func NewFeedRoutes(handler *gin.RouterGroup, fs service.FeedServiceI, hub *realtime.Hub, a *auth.JWTAuth) {
	r := &feedRoutes{fs: fs, hub: hub}
	h := handler.Group("/feed")
	h.Use(a.BearerAuthMiddleware())
	{
		h.GET("", r.ListPosts)
		h.POST("", r.CreatePost)
		h.GET("/ws", r.Subscribe)
		h.DELETE("/:id", r.DeletePost)
		h.POST("/:id/like", r.ToggleLike)
		h.GET("/:id/comments", r.ListComments)
		h.POST("/:id/comments", r.AddComment)
	}
}

type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

func (r *feedRoutes) ListPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	posts, err := r.fs.ListPosts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list posts")
		return
	}

	out := make([]postResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}

	c.JSON(http.StatusOK, out)
}

func (r *feedRoutes) CreatePost(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	post, err := r.fs.CreatePost(c.Request.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		respondError(c, err, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

func (r *feedRoutes) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, ok := paramUUID(c)
	if !ok {
		return
	}

	if err := r.fs.DeletePost(c.Request.Context(), userID, postID); err != nil {
		respondError(c, err, "failed to delete post")
		return
	}

	c.Status(http.StatusNoContent)
}

func (r *feedRoutes) ToggleLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, ok := paramUUID(c)
	if !ok {
		return
	}

	post, err := r.fs.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, err, "failed to toggle like")
		return
	}

	c.JSON(http.StatusOK, toPostResponse(post))
}

func (r *feedRoutes) ListComments(c *gin.Context) {
	postID, ok := paramUUID(c)
	if !ok {
		return
	}

	comments, err := r.fs.ListComments(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err, "failed to list comments")
		return
	}

	out := make([]commentResponse, len(comments))
	for i, cm := range comments {
		out[i] = toCommentResponse(cm)
	}

	c.JSON(http.StatusOK, out)
}

func (r *feedRoutes) AddComment(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, ok := paramUUID(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	comment, err := r.fs.AddComment(c.Request.Context(), userID, postID, req.Content)
	if err != nil {
		respondError(c, err, "failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Subscribe upgrades the request to a websocket receiving feed events.
func (r *feedRoutes) Subscribe(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := r.hub.Serve(c.Writer, c.Request, userID); err != nil {
		// The upgrader has already written the error response.
		log.Info("websocket upgrade failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func paramUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		logger.Logger().Info("invalid uuid parameter", zap.String("id", c.Param("id")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
