package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-social-feed/domain"
	"github.com/Guyuepp/go-social-feed/internal/rest/response"
)

// LikeHandler represent the http handler for likes
type LikeHandler struct {
	Service domain.LikeUsecase
}

func NewLikeHandler(svc domain.LikeUsecase) *LikeHandler {
	return &LikeHandler{
		Service: svc,
	}
}

// Like records an explicit like; a duplicate is a 409, not a silent success.
func (h *LikeHandler) Like(c *gin.Context) {
	postID := c.Param("id")
	userID := callerID(c)

	status, err := h.Service.Like(c.Request.Context(), userID, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success("Post liked successfully", gin.H{"status": status}))
}

// Unlike removes an explicit like; unliking a post never liked is a 404.
func (h *LikeHandler) Unlike(c *gin.Context) {
	postID := c.Param("id")
	userID := callerID(c)

	status, err := h.Service.Unlike(c.Request.Context(), userID, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("Post unliked successfully", gin.H{"status": status}))
}

// Toggle flips the caller's like state and reports the resulting one.
func (h *LikeHandler) Toggle(c *gin.Context) {
	postID := c.Param("id")
	userID := callerID(c)

	status, err := h.Service.Toggle(c.Request.Context(), userID, postID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// ListLikers returns the users who liked a post, most recent first.
func (h *LikeHandler) ListLikers(c *gin.Context) {
	postID := c.Param("id")
	page, limit, offset := pagination(c)

	users, total, err := h.Service.ListLikers(c.Request.Context(), postID, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]response.User, len(users))
	for i := range users {
		items[i] = response.NewUserFromDomain(&users[i])
	}
	c.JSON(http.StatusOK, response.NewPaginated(items, total, page, limit))
}
