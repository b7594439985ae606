package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/harborbank/banking/shared/correlation"
	"github.com/harborbank/banking/shared/utils"
)

// CorrelationMiddleware reuses an inbound X-Correlation-ID or mints a new one,
// attaches it to the request context and echoes it on the response. Downstream
// clients read it back via correlation.FromContext.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(correlation.Header)
		if id == "" {
			id = utils.NewCorrelationID()
		}
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), id))
		c.Writer.Header().Set(correlation.Header, id)
		c.Next()
	}
}
