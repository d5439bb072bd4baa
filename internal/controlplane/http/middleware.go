package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	ctxClientID = "clientID"
)

// secretAuthMiddleware implements §6's shared-secret operator auth:
// header `x-sfu-secret: <secret>`.
func secretAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("x-sfu-secret") != secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// tenantMiddleware resolves the caller's clientId from the query string or
// the x-sfu-client header (§6 tenant disambiguation).
func tenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.Query("clientId")
		if clientID == "" {
			clientID = c.GetHeader("x-sfu-client")
		}
		c.Set(ctxClientID, domain.ClientID(clientID))
		c.Next()
	}
}

func clientIDFrom(c *gin.Context) domain.ClientID {
	v, _ := c.Get(ctxClientID)
	id, _ := v.(domain.ClientID)
	return id
}
