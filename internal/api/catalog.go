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

type catalogRoutes struct {
	cs service.CatalogServiceI
}

// NewCatalogRoutes serves workouts and meals. Reads are public; writes need an admin.
func NewCatalogRoutes(handler *gin.RouterGroup, cs service.CatalogServiceI, a *auth.JWTAuth, authz *middleware.Authorization) {
	r := &catalogRoutes{cs: cs}
	admin := []gin.HandlerFunc{a.BearerAuthMiddleware(), authz.AdminOnly()}

	w := handler.Group("/workouts")
	{
		w.GET("", r.ListWorkouts)
		w.GET("/:id", r.GetWorkout)
		w.POST("", append(admin, r.CreateWorkout)...)
		w.PUT("/:id", append(admin, r.UpdateWorkout)...)
		w.DELETE("/:id", append(admin, r.DeleteWorkout)...)
	}

	m := handler.Group("/meals")
	{
		m.GET("", r.ListMeals)
		m.GET("/:id", r.GetMeal)
		m.POST("", append(admin, r.CreateMeal)...)
		m.PUT("/:id", append(admin, r.UpdateMeal)...)
		m.DELETE("/:id", append(admin, r.DeleteMeal)...)
	}
}

func (r *catalogRoutes) ListWorkouts(c *gin.Context) {
	workouts, source, err := r.cs.ListWorkouts(c.Request.Context(), model.WorkoutFilter{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
	})
	if err != nil {
		respondError(c, err, "failed to list workouts")
		return
	}

	out := make([]workoutPayload, len(workouts))
	for i, w := range workouts {
		out[i] = toWorkoutPayload(w)
	}

	c.JSON(http.StatusOK, gin.H{"workouts": out, "source": source})
}

func (r *catalogRoutes) GetWorkout(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	workout, source, err := r.cs.GetWorkout(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get workout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workout": toWorkoutPayload(workout), "source": source})
}

func (r *catalogRoutes) CreateWorkout(c *gin.Context) {
	log := logger.Logger()

	var req workoutPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	w := req.toModel()
	if err := r.cs.CreateWorkout(c.Request.Context(), w); err != nil {
		respondError(c, err, "failed to create workout")
		return
	}

	c.JSON(http.StatusCreated, toWorkoutPayload(w))
}

func (r *catalogRoutes) UpdateWorkout(c *gin.Context) {
	log := logger.Logger()

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req workoutPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	w := req.toModel()
	w.ID = id
	if err := r.cs.UpdateWorkout(c.Request.Context(), w); err != nil {
		respondError(c, err, "failed to update workout")
		return
	}

	c.JSON(http.StatusOK, toWorkoutPayload(w))
}

func (r *catalogRoutes) DeleteWorkout(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := r.cs.DeleteWorkout(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete workout")
		return
	}

	c.Status(http.StatusNoContent)
}

func (r *catalogRoutes) ListMeals(c *gin.Context) {
	meals, source, err := r.cs.ListMeals(c.Request.Context(), model.MealFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err, "failed to list meals")
		return
	}

	out := make([]mealPayload, len(meals))
	for i, m := range meals {
		out[i] = toMealPayload(m)
	}

	c.JSON(http.StatusOK, gin.H{"meals": out, "source": source})
}

func (r *catalogRoutes) GetMeal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	meal, source, err := r.cs.GetMeal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "failed to get meal")
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": toMealPayload(meal), "source": source})
}

func (r *catalogRoutes) CreateMeal(c *gin.Context) {
	log := logger.Logger()

	var req mealPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and type are required"})
		return
	}

	m := req.toModel()
	if err := r.cs.CreateMeal(c.Request.Context(), m); err != nil {
		respondError(c, err, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, toMealPayload(m))
}

func (r *catalogRoutes) UpdateMeal(c *gin.Context) {
	log := logger.Logger()

	id, ok := paramID(c)
	if !ok {
		return
	}

	var req mealPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and type are required"})
		return
	}

	m := req.toModel()
	m.ID = id
	if err := r.cs.UpdateMeal(c.Request.Context(), m); err != nil {
		respondError(c, err, "failed to update meal")
		return
	}

	c.JSON(http.StatusOK, toMealPayload(m))
}

func (r *catalogRoutes) DeleteMeal(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := r.cs.DeleteMeal(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete meal")
		return
	}

	c.Status(http.StatusNoContent)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		logger.Logger().Info("invalid id parameter", zap.String("id", c.Param("id")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
