package api

import (
	"net/http"
	"time"

	"fittrack/internal/middleware"
	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type rewardRoutes struct {
	rs service.RewardServiceI
}

func NewRewardRoutes(handler *gin.RouterGroup, rs service.RewardServiceI, a *auth.JWTAuth, authz *middleware.Authorization) {
	r := &rewardRoutes{rs: rs}
	h := handler.Group("/rewards")
	h.Use(a.BearerAuthMiddleware())
	{
		h.GET("", r.GetAccount)
		h.POST("/track-activity", r.TrackActivity)
		h.POST("/steps", r.RecordSteps)
		h.GET("/streaks", r.GetStreaks)
		h.POST("/spend", r.SpendCoins)

		h.POST("/manual", authz.AdminOnly(), r.AddManualActivity)
	}
}

type TrackActivityRequest struct {
	WorkoutCompleted *bool   `json:"workoutCompleted"`
	MealPlanFollowed *bool   `json:"mealPlanFollowed"`
	Date             *string `json:"date"`
}

type TrackActivityResponse struct {
	Success       bool            `json:"success"`
	DateRecorded  string          `json:"dateRecorded"`
	Streaks       streaksResponse `json:"streaks"`
	RewardsEarned int             `json:"rewardsEarned"`
	RewardMessage *string         `json:"rewardMessage"`
	Badges        []badgeResponse `json:"badges"`
}

type StepsRequest struct {
	Steps int     `json:"steps"`
	Date  *string `json:"date"`
}

type StreaksResponse struct {
	Streaks    streaksResponse `json:"streaks"`
	LoginCount int             `json:"loginCount"`
	Badges     []badgeResponse `json:"badges"`
}

type SpendRequest struct {
	Amount int    `json:"amount"`
	Item   string `json:"item"`
}

type ManualActivityRequest struct {
	UserID      int64  `json:"userId" binding:"required"`
	Type        string `json:"type"`
	Coins       int    `json:"coins"`
	Description string `json:"description"`
}

func (r *rewardRoutes) GetAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	account, err := r.rs.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get reward account")
		return
	}

	c.JSON(http.StatusOK, toRewardAccount(account))
}

func (r *rewardRoutes) TrackActivity(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req TrackActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := r.rs.RecordDailyActivity(c.Request.Context(), userID, service.DailyActivityInput{
		Date:             date,
		WorkoutCompleted: req.WorkoutCompleted,
		MealPlanFollowed: req.MealPlanFollowed,
	})
	if err != nil {
		respondError(c, err, "failed to record daily activity")
		return
	}

	log.Debug("daily activity recorded",
		zap.Int64("user_id", userID),
		zap.Int("rewards_earned", result.RewardsEarned),
	)

	c.JSON(http.StatusOK, TrackActivityResponse{
		Success:       true,
		DateRecorded:  result.Date.Format(time.DateOnly),
		Streaks:       streaksResponse{Workout: result.Streaks.Workout, Meal: result.Streaks.Meal},
		RewardsEarned: result.RewardsEarned,
		RewardMessage: result.RewardMessage,
		Badges:        toBadges(result.Badges),
	})
}

func (r *rewardRoutes) RecordSteps(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req StepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := r.rs.RecordSteps(c.Request.Context(), userID, date, req.Steps)
	if err != nil {
		respondError(c, err, "failed to record steps")
		return
	}

	if result.CoinsEarned == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":     result.Message,
			"coinsEarned": 0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     result.Message,
		"coinsEarned": result.CoinsEarned,
		"totalCoins":  result.TotalCoins,
	})
}

func (r *rewardRoutes) GetStreaks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := r.rs.GetStreaksAndBadges(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get streaks")
		return
	}

	badges := toBadges(status.Badges)
	if badges == nil {
		badges = []badgeResponse{}
	}

	c.JSON(http.StatusOK, StreaksResponse{
		Streaks:    streaksResponse{Workout: status.Streaks.Workout, Meal: status.Streaks.Meal},
		LoginCount: status.LoginCount,
		Badges:     badges,
	})
}

func (r *rewardRoutes) SpendCoins(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	remaining, err := r.rs.SpendCoins(c.Request.Context(), userID, req.Amount, req.Item)
	if err != nil {
		respondError(c, err, "failed to spend coins")
		return
	}

	log.Info("coins redeemed",
		zap.Int64("user_id", userID),
		zap.Int("amount", req.Amount),
		zap.String("item", req.Item),
	)

	c.JSON(http.StatusOK, gin.H{"remainingCoins": remaining})
}

func (r *rewardRoutes) AddManualActivity(c *gin.Context) {
	log := logger.Logger()

	var req ManualActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	balance, err := r.rs.AddManualActivity(c.Request.Context(), req.UserID, req.Type, req.Coins, req.Description)
	if err != nil {
		respondError(c, err, "failed to add manual activity")
		return
	}

	c.JSON(http.StatusOK, gin.H{"coinBalance": balance})
}
