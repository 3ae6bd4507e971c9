package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// requestID keeps a client id only when it is a UUID; anything else is replaced.
func requestID(header string) string {
	if len(header) <= 36 {
		if id, err := uuid.Parse(header); err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}

// RequestLogger tags each request with an id (kept from the client when it is a UUID)
// and logs it once the handler chain has finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := requestID(c.GetHeader(RequestIDHeader))
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(ContextWithRequestID(c.Request.Context(), id))

		c.Next()

		status := c.Writer.Status()
		ev := Ctx(c.Request.Context()).Info()
		if status >= 500 {
			ev = Ctx(c.Request.Context()).Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
