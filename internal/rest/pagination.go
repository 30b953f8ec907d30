package rest

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	LimitMax     = 100
)

// pagination reads ?page&limit with clamped defaults and derives the offset.
func pagination(c *gin.Context) (page, limit, offset int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > LimitMax {
		limit = LimitMax
	}

	return page, limit, (page - 1) * limit
}

// callerID reads the identity stashed by the middleware; empty when the
// route is not behind it.
func callerID(c *gin.Context) string {
	v, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}
