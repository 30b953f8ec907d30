package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-social-feed/domain"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newResponseError(code int, message string) ResponseError {
	return ResponseError{
		Status:    code,
		Error:     http.StatusText(code),
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// abortWithError maps a service error onto the structured error response.
// Expected 4xx outcomes are warnings at most; 5xx failures are logged with
// the real cause and answered with a generic message.
func abortWithError(c *gin.Context, err error) {
	code := getStatusCode(err)
	if code >= http.StatusInternalServerError {
		logrus.WithField("path", c.FullPath()).Errorf("request failed: %v", err)
		c.JSON(code, newResponseError(code, domain.ErrInternalServerError.Error()))
		return
	}

	logrus.WithField("path", c.FullPath()).Warnf("request rejected: %v", err)
	c.JSON(code, newResponseError(code, err.Error()))
}

// getStatusCode will get the http status code of the given service error
func getStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
