package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"

	cfgpkg "github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/response"
	"github.com/bitforce/ambassador/pkg/types"
)

const (
	KeyEmail = "email"
	KeyRole  = "role"
)

// Claims are issued by the external auth service; Subject is the user id.
type Claims struct {
	Email string     `json:"email"`
	Role  types.Role `json:"role"`
	jwt.StandardClaims
}

func parseToken(raw string, cfg cfgpkg.AuthConfig) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	if claims.Role == "" {
		claims.Role = types.RoleAmbassador
	}
	return claims, nil
}

// AuthMiddleware validates the Bearer token and stores user_id, email and role
// on both gin.Context and the request context.
func AuthMiddleware(cfg *cfgpkg.Config, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" || cfg.Auth.JWTSecret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		claims, err := parseToken(strings.TrimSpace(raw), cfg.Auth)
		if err != nil {
			logctx.FromGin(c, base).Infow("auth_rejected", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		c.Set(logctx.KeyUserID, claims.Subject)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)
		ctx := context.WithValue(c.Request.Context(), logctx.KeyUserID, claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		setLogger(c, logctx.FromGin(c, base).With("user_id", claims.Subject))
		c.Next()
	}
}

// RequireRole rejects authenticated users without role.
func RequireRole(role types.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r, _ := c.Get(KeyRole); r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, "forbidden"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id.
func UserID(c *gin.Context) string { return c.GetString(logctx.KeyUserID) }

// Email returns the authenticated user's email claim.
func Email(c *gin.Context) string { return c.GetString(KeyEmail) }
