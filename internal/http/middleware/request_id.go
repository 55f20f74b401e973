package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-tutor/internal/platform/requestid"
)

// AttachRequestID keeps a well-formed X-Request-ID from the caller or mints one, stores it
// on the request context and echoes it on the response.
func AttachRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestid.Sanitize(c.GetHeader(requestid.Header))
		if reqID == "" {
			reqID = requestid.New()
		}
		c.Request = c.Request.WithContext(requestid.WithContext(c.Request.Context(), reqID))
		c.Set("request_id", reqID)
		c.Writer.Header().Set(requestid.Header, reqID)
		c.Next()
	}
}
