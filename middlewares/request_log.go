package middlewares

import (
	"time"

	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (taken from X-Request-ID or
// generated) and writes one structured log line when it completes.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(utils.CtxRequestID, id)
		c.Request = c.Request.WithContext(utils.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(log.Fields{
			"requestId": id,
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    status,
			"latency":   time.Since(start).String(),
			"userId":    utils.CurrentUserID(c),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		if status >= 500 {
			entry.Error("request")
			return
		}
		entry.Info("request")
	}
}
