package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobportal/internal/core/auth"
	"jobportal/internal/domain"
	resp "jobportal/internal/transport/http/response"
)

// gin context keys set by the auth middlewares
const (
	KeyUserID = "userId"
	KeyRole   = "role"
	KeyClaims = "claims"
)

// AuthJWT 要求合法 Bearer token；requireRole 为空时不限角色
func AuthJWT(j *auth.JWTer, requireRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Fail(resp.CodeUnauthorized, string(domain.KindUnauthorized), "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Fail(resp.CodeUnauthorized, string(domain.KindUnauthorized), "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Fail(resp.CodeForbidden, string(domain.KindForbidden), "forbidden"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// AuthOptional 无 token 时按匿名放行；带了 token 就必须合法
func AuthOptional(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusOK, resp.Fail(resp.CodeUnauthorized, string(domain.KindUnauthorized), "malformed authorization header"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Fail(resp.CodeUnauthorized, string(domain.KindUnauthorized), "invalid token"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.UID)
	c.Set(KeyRole, string(claims.Role))
}

// Identity returns the caller resolved by AuthJWT or AuthOptional, anonymous otherwise.
func Identity(c *gin.Context) domain.Identity {
	return domain.Identity{ID: c.GetString(KeyUserID), Role: domain.Role(c.GetString(KeyRole))}
}
