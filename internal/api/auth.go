package api

import (
	"net/http"

	"fittrack/internal/model"
	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authRoutes struct {
	us service.UserServiceI
}

func NewAuthRoutes(handler *gin.RouterGroup, us service.UserServiceI, tg *auth.TelegramAuth) {
	r := &authRoutes{us: us}
	h := handler.Group("/auth")
	{
		h.POST("/register", r.Register)
		h.POST("/login", r.Login)
		h.POST("/telegram", tg.TelegramAuthMiddleware(), r.LoginTelegram)
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (r *authRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, password and name are required"})
		return
	}

	user, token, err := r.us.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err, "failed to register user")
		return
	}

	log.Info("user registered", zap.Int64("user_id", user.ID))
	c.JSON(http.StatusCreated, authResponse(user, token))
}

func (r *authRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, token, err := r.us.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, authResponse(user, token))
}

func (r *authRoutes) LoginTelegram(c *gin.Context) {
	log := logger.Logger()

	tgUser, ok := auth.TelegramUser(c)
	if !ok {
		log.Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user, token, err := r.us.LoginTelegram(c.Request.Context(), tgUser.ID)
	if err != nil {
		respondError(c, err, "failed to log in with telegram")
		return
	}

	c.JSON(http.StatusOK, authResponse(user, token))
}

func authResponse(user *model.User, token string) AuthResponse {
	return AuthResponse{Token: token, User: toUserResponse(user)}
}
