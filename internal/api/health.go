package api

import (
	"net/http"

	"fittrack/internal/service"

	"github.com/gin-gonic/gin"
)

type healthRoutes struct {
	cs service.CatalogServiceI
}

func NewHealthRoutes(handler *gin.RouterGroup, cs service.CatalogServiceI) {
	r := &healthRoutes{cs: cs}
	handler.GET("/health", r.Health)
}

func (r *healthRoutes) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"source": r.cs.Source(c.Request.Context()),
	})
}
