package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

// SubjectKey is the gin context key holding the subject of the verified token.
const SubjectKey = "auth.subject"

// Authenticator requires a bearer JWT signed with secret (HMAC) and carrying
// an expiration.
func Authenticator(secret []byte) gin.HandlerFunc {
	log := zap.S().Named("auth")
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, srvErrors.NewUnauthorizedError("missing bearer token"))
			return
		}

		claims := &jwt.RegisteredClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			log.Debugw("token rejected", "path", c.Request.URL.Path, "error", err)
			abort(c, srvErrors.NewUnauthorizedError("invalid token"))
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}
