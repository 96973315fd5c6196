package middlewares

import (
	"strings"

	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/resp"
	"github.com/Ram-SrinivasChandran/cos-spring-project/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a Bearer token signed with secret and puts
// userId and role on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			c.Abort()
			return
		}
		authenticate(c, strings.TrimPrefix(h, "Bearer "), secret)
	}
}

// WSAuthMiddleware also accepts the token as ?token=, since browsers cannot
// set headers on a websocket handshake.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			resp.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		authenticate(c, tokenStr, secret)
	}
}

func authenticate(c *gin.Context, tokenStr, secret string) {
	claims, err := utils.ParseToken(tokenStr, secret)
	if err != nil {
		resp.Unauthorized(c, "invalid token")
		c.Abort()
		return
	}
	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxRole, claims.Role)
	c.Next()
}
