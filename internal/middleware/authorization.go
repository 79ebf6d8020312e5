package middleware

import (
	"context"
	"errors"
	"net/http"

	"fittrack/internal/model"
	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserGetter loads the current state of a user.
type UserGetter interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

type Authorization struct {
	users UserGetter
}

func NewAuthorization(users UserGetter) *Authorization {
	return &Authorization{
		users: users,
	}
}

// AdminOnly re-reads the user so a role change applies to tokens issued
// before it.
func (a *Authorization) AdminOnly() gin.HandlerFunc {
	return a.require("admin access required", func(u *model.User) bool {
		return u.IsAdmin()
	})
}

// MembersOnly admits paying members and admins.
func (a *Authorization) MembersOnly() gin.HandlerFunc {
	return a.require("membership required", func(u *model.User) bool {
		return u.IsMember || u.IsAdmin()
	})
}

func (a *Authorization) require(denied string, allowed func(*model.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		userID, ok := auth.UserID(c)
		if !ok {
			log.Error("user id not found in context")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := a.users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
			log.Error("failed to get user data", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if !allowed(user) {
			log.Info("forbidden access attempt",
				zap.Int64("user_id", userID),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": denied})
			return
		}

		c.Set(auth.RoleKey, user.Role)
		c.Next()
	}
}
