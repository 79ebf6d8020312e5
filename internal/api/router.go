package api

import (
	"net/http"
	"time"

	"fittrack/internal/metrics"
	"fittrack/internal/middleware"
	"fittrack/internal/realtime"
	"fittrack/internal/service"
	"fittrack/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Users    service.UserServiceI
	Rewards  service.RewardServiceI
	Catalog  service.CatalogServiceI
	Feed     service.FeedServiceI
	Payments service.PaymentServiceI
}

type RouterDeps struct {
	Services
	JWT      *auth.JWTAuth
	Telegram *auth.TelegramAuth
	Hub      *realtime.Hub
	Limiter  *middleware.RateLimiter
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Middleware())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	authz := middleware.NewAuthorization(d.Users)

	a := router.Group("/api/v1")
	if d.Limiter != nil {
		a.Use(d.Limiter.Handler())
	}

	NewHealthRoutes(a, d.Catalog)
	NewAuthRoutes(a, d.Users, d.Telegram)
	NewUserRoutes(a, d.Users, d.JWT, authz)
	NewRewardRoutes(a, d.Rewards, d.JWT, authz)
	NewCatalogRoutes(a, d.Catalog, d.JWT, authz)
	NewPlanRoutes(a, d.Catalog, d.JWT, authz)
	NewFeedRoutes(a, d.Feed, d.Hub, d.JWT)
	NewPaymentRoutes(a, d.Payments, d.JWT)

	return router
}
