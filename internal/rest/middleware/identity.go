package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/go-social-feed/domain"
)

// HeaderUserID carries the caller's identity, supplied by the upstream
// authentication collaborator. This service trusts the value once the user is
// known to exist.
const HeaderUserID = "X-User-ID"

// ContextUserID is the gin context key handlers read the identity from.
const ContextUserID = "user_id"

// Identity requires the X-User-ID header and verifies the user exists.
// Concurrent lookups for the same user are collapsed with singleflight.
func Identity(users domain.UserRepository) gin.HandlerFunc {
	var group singleflight.Group

	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("x-user-id header is required"))
			return
		}

		v, err, _ := group.Do(userID, func() (any, error) {
			return users.Exists(c.Request.Context(), userID)
		})
		if err != nil {
			logrus.Errorf("failed to verify user %s: %v", userID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": domain.ErrInternalServerError.Error()})
			return
		}
		if !v.(bool) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized("unknown user"))
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func unauthorized(message string) gin.H {
	return gin.H{
		"status":    http.StatusUnauthorized,
		"error":     http.StatusText(http.StatusUnauthorized),
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
