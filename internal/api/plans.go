package api

import (
	"net/http"

	"fittrack/internal/middleware"
	"fittrack/internal/model"
	"fittrack/internal/service"
	"fittrack/pkg/auth"

	"github.com/gin-gonic/gin"
)

type planRoutes struct {
	cs service.CatalogServiceI
}

func NewPlanRoutes(handler *gin.RouterGroup, cs service.CatalogServiceI, a *auth.JWTAuth, authz *middleware.Authorization) {
	r := &planRoutes{cs: cs}
	h := handler.Group("/plans")
	h.Use(a.BearerAuthMiddleware(), authz.MembersOnly())
	{
		h.GET("/generate", r.Generate)
	}
}

type planDayResponse struct {
	Day     int             `json:"day"`
	Workout *workoutPayload `json:"workout"`
	Meals   []mealPayload   `json:"meals"`
}

func (r *planRoutes) Generate(c *gin.Context) {
	plan, err := r.cs.GeneratePlan(c.Request.Context(), c.Query("goal"))
	if err != nil {
		respondError(c, err, "failed to generate plan")
		return
	}

	days := make([]planDayResponse, len(plan.Days))
	for i, d := range plan.Days {
		days[i] = toPlanDay(d)
	}

	c.JSON(http.StatusOK, gin.H{"goal": plan.Goal, "days": days})
}

func toPlanDay(d model.PlanDay) planDayResponse {
	out := planDayResponse{Day: d.Day, Meals: make([]mealPayload, len(d.Meals))}
	if d.Workout != nil {
		w := toWorkoutPayload(d.Workout)
		out.Workout = &w
	}
	for i := range d.Meals {
		out.Meals[i] = toMealPayload(&d.Meals[i])
	}
	return out
}
