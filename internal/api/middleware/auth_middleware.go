package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"jobly/internal/auth"
)

const identityKey = "identity"

// TokenValidator 校验访问令牌，由 *auth.AuthService 实现。
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.TokenClaims, error)
}

// Authenticate 解析 Bearer 令牌并把身份注入上下文。
// 它只做识别不做拦截：令牌缺失、格式错误、过期或伪造时身份为空，请求照常继续。
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := identityFromHeader(tokens, c.GetHeader("Authorization")); id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

func identityFromHeader(tokens TokenValidator, header string) *auth.Identity {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	claims, err := tokens.ValidateToken(parts[1])
	if err != nil {
		return nil
	}
	return claims.Identity()
}

// IdentityFromContext 返回当前请求的身份，匿名请求返回 nil。
func IdentityFromContext(c *gin.Context) *auth.Identity {
	if value, ok := c.Get(identityKey); ok {
		if id, ok := value.(*auth.Identity); ok {
			return id
		}
	}
	return nil
}
