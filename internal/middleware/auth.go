package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	auth "geoqr/pkg/jwt"
)

// 上下文中的用户信息键
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextPlan     = "plan"
)

// OptionalAuth JWT认证中间件
// 没有 Authorization 头时按匿名请求放行, 携带了但无效则返回 401
func OptionalAuth(jwtManager *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 提取Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortUnauthorized(c, "认证格式错误")
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "无效的认证令牌")
			return
		}

		// 将用户信息存入上下文
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextPlan, claims.Plan)

		c.Next()
	}
}

// CurrentUser 返回已认证的用户 ID 和套餐, 匿名请求返回空串
func CurrentUser(c *gin.Context) (userID, plan string) {
	return c.GetString(ContextUserID), c.GetString(ContextPlan)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "reason": "unauthorized"})
}
