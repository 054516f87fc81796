package resp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/igRoy3/SmartWasteManagement/pkg/apperr"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, gin.H{"ok": false, "error": msg})
}
func ValidationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "validation failed", "fields": fields})
}
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// Error maps a service error onto the HTTP taxonomy. Anything outside the
// known sentinels is a 500.
func Error(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		ValidationFailed(c, ve.Fields)
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, apperr.ErrUnauthorized):
		Forbidden(c, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		Conflict(c, err.Error())
	default:
		ServerError(c, err)
	}
}
