package resp

import (
	"errors"
	"net/http"

	"github.com/Ram-SrinivasChandran/cos-spring-project/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": msg})
}
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": msg})
}
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": msg})
}
func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, gin.H{"ok": false, "error": msg})
}
func ServerError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
}

// Error writes err with the status code of its kind.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Error(), "fields": verr.Violations})
	case errors.Is(err, services.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		Conflict(c, err.Error())
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
