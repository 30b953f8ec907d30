package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-social-feed/domain"
	"github.com/Guyuepp/go-social-feed/internal/rest/response"
)

// NotificationHandler represent the http handler for notifications
type NotificationHandler struct {
	Service domain.NotificationUsecase
}

func NewNotificationHandler(svc domain.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{
		Service: svc,
	}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c)

	notifications, total, err := h.Service.ListForUser(c.Request.Context(), callerID(c), limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}

	items := make([]response.Notification, len(notifications))
	for i := range notifications {
		items[i] = response.NewNotificationFromDomain(&notifications[i])
	}
	c.JSON(http.StatusOK, response.NewPaginated(items, total, page, limit))
}

// MarkRead flags a notification as read. Unknown IDs succeed silently.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.Service.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("Notification marked as read", nil))
}

// UnreadCount returns the caller's number of unread notifications.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.Service.UnreadCount(c.Request.Context(), callerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success("Unread count fetched", gin.H{"count": count}))
}
