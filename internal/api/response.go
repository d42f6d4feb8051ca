package api

import (
	"errors"
	"net/http"

	apperrors "childcare-assistant/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func failure(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, APIResponse{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message},
	})
}

// failWithError maps the error taxonomy onto HTTP statuses. Details of
// unexpected errors are not exposed.
func failWithError(c *gin.Context, err error) {
	std := apperrors.ToStandardError(err)
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrUnsupportedEntity):
		failure(c, http.StatusBadRequest, string(std.Code), err.Error())
	case errors.Is(err, apperrors.ErrNetwork), errors.Is(err, apperrors.ErrParse):
		failure(c, http.StatusBadGateway, string(std.Code), std.Message)
	default:
		failure(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream service failed")
	}
}
