package util

import (
	"net/http"
	"test_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the failure payload. The SPA reads the human message from
// "error" and switches UI behavior on "code", so both are always set.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Success writes the payload bare. The client consumes response bodies
// directly (arrays included), so there is no envelope around data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorBody{Error: message, Code: code})
}

func Unauthorized(c *gin.Context) {
	Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Fail(c, http.StatusForbidden, "FORBIDDEN", "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}
