package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobly/internal/auth"
)

// Require 在处理器之前评估路由的访问策略，拒绝时统一返回 401。
func Require(policyFor func(c *gin.Context) auth.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := policyFor(c).Allow(IdentityFromContext(c)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

// RequirePublic 放行所有请求，用于在路由表中显式声明公开接口。
func RequirePublic() gin.HandlerFunc {
	policy := auth.Public()
	return Require(func(*gin.Context) auth.Policy { return policy })
}

// RequireAdmin 仅允许管理员。
func RequireAdmin() gin.HandlerFunc {
	policy := auth.AdminOnly()
	return Require(func(*gin.Context) auth.Policy { return policy })
}

// RequireSelfOrAdmin 允许路径参数 param 所指的用户本人或管理员。
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return Require(func(c *gin.Context) auth.Policy {
		return auth.SelfOrAdmin(c.Param(param))
	})
}
