package api

import (
	"net/http"
	"strconv"

	"fittrack/internal/middleware"
	"fittrack/internal/model"
	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type userRoutes struct {
	us service.UserServiceI
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, a *auth.JWTAuth, authz *middleware.Authorization) {
	r := &userRoutes{us: us}
	h := handler.Group("/users")
	h.Use(a.BearerAuthMiddleware())
	{
		h.GET("/me", r.GetMe)
		h.PUT("/me", r.UpdateMe)
		h.GET("/me/measurements", r.ListMeasurements)
		h.POST("/me/measurements", r.AddMeasurement)
		h.GET("/me/progress", r.ListProgress)

		h.PUT("/:id/membership", authz.AdminOnly(), r.SetMembership)
	}
}

type UpdateProfileRequest struct {
	Name       *string  `json:"name"`
	Age        *int     `json:"age"`
	HeightCm   *float64 `json:"heightCm"`
	WeightKg   *float64 `json:"weightKg"`
	Goal       *string  `json:"goal"`
	TelegramID *int64   `json:"telegramId"`
}

type AddMeasurementRequest struct {
	Date     *string  `json:"date"`
	WeightKg *float64 `json:"weightKg"`
	BodyFat  *float64 `json:"bodyFat"`
	ChestCm  *float64 `json:"chestCm"`
	WaistCm  *float64 `json:"waistCm"`
}

type SetMembershipRequest struct {
	IsMember *bool `json:"isMember" binding:"required"`
}

func (r *userRoutes) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := r.us.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (r *userRoutes) UpdateMe(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.UpdateProfile(c.Request.Context(), userID, model.ProfileUpdate{
		Name:       req.Name,
		Age:        req.Age,
		HeightCm:   req.HeightCm,
		WeightKg:   req.WeightKg,
		Goal:       req.Goal,
		TelegramID: req.TelegramID,
	})
	if err != nil {
		respondError(c, err, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (r *userRoutes) ListMeasurements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	measurements, err := r.us.ListMeasurements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list measurements")
		return
	}

	out := make([]measurementResponse, len(measurements))
	for i, m := range measurements {
		out[i] = toMeasurementResponse(m)
	}

	c.JSON(http.StatusOK, out)
}

func (r *userRoutes) AddMeasurement(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddMeasurementRequest
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

	m := &model.Measurement{
		UserID:   userID,
		WeightKg: req.WeightKg,
		BodyFat:  req.BodyFat,
		ChestCm:  req.ChestCm,
		WaistCm:  req.WaistCm,
	}
	if date != nil {
		m.Date = *date
	}

	if err := r.us.AddMeasurement(c.Request.Context(), m); err != nil {
		respondError(c, err, "failed to add measurement")
		return
	}

	c.JSON(http.StatusCreated, toMeasurementResponse(m))
}

func (r *userRoutes) ListProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	progress, err := r.us.ListProgress(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list progress")
		return
	}

	c.JSON(http.StatusOK, toActivityEntries(progress))
}

func (r *userRoutes) SetMembership(c *gin.Context) {
	log := logger.Logger()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		log.Info("failed to parse user id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req SetMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "isMember is required"})
		return
	}

	if err := r.us.SetMembership(c.Request.Context(), id, *req.IsMember); err != nil {
		respondError(c, err, "failed to update membership")
		return
	}

	log.Info("membership updated", zap.Int64("user_id", id), zap.Bool("is_member", *req.IsMember))
	c.JSON(http.StatusOK, gin.H{"id": id, "isMember": *req.IsMember})
}

func toMeasurementResponse(m *model.Measurement) measurementResponse {
	return measurementResponse{
		ID:       m.ID,
		Date:     m.Date,
		WeightKg: m.WeightKg,
		BodyFat:  m.BodyFat,
		ChestCm:  m.ChestCm,
		WaistCm:  m.WaistCm,
	}
}
