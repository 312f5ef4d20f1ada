package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/auth"
	"portal-noticias/config"
)

const (
	ContextSubject = "subject"
	ContextRole    = "role"
)

// TokenParser 는 auth.JWTManager 가 구현한다.
type TokenParser interface {
	Parse(token string) (subject string, role string, err error)
}

// AdminAuthMiddleware 는 요청 헤더의 JWT를 검증하고, role이 'admin'인지 확인합니다.
// 토큰 문제는 401, 권한 부족은 403 이며 어떤 작업도 하기 전에 중단한다.
func AdminAuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}
		if !authorizeAdmin(c, tokens, token) {
			return
		}
		c.Next()
	}
}

// CronOrAdminMiddleware 는 수집 트리거용이다. Bearer 값이 CRON_SECRET 과 같으면 통과하고,
// 아니면 관리자 JWT 로 검증한다. cronSecret 이 비어 있으면 관리자만 허용한다.
func CronOrAdminMiddleware(cronSecret string, tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}
		if cronSecret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(cronSecret)) == 1 {
			c.Set(ContextSubject, "cron")
			c.Next()
			return
		}
		if !authorizeAdmin(c, tokens, token) {
			return
		}
		c.Next()
	}
}

func authorizeAdmin(c *gin.Context, tokens TokenParser, token string) bool {
	subject, role, err := tokens.Parse(token)
	if err != nil {
		config.Logger.Warnf("token parse error: %v", err)
		auth.AbortWithUnauthorized(c, auth.ErrInvalidToken)
		return false
	}
	if role != auth.RoleAdmin {
		config.Logger.Warnf("access denied: %s has role %q, want admin", subject, role)
		auth.AbortWithForbidden(c)
		return false
	}
	c.Set(ContextSubject, subject)
	c.Set(ContextRole, role)
	return true
}
