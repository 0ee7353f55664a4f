package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"resourceshop/internal/app/config"
	"resourceshop/internal/app/ds"
	"resourceshop/internal/app/dto"
	"resourceshop/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextToken    = "token"
)

// Blacklist reports revoked tokens.
type Blacklist interface {
	IsJWTBlacklisted(ctx context.Context, token string) (bool, error)
}

type AuthMiddleware struct {
	Blacklist Blacklist
	Config    config.JWTConfig
}

// NewAuthMiddleware builds the middleware. blacklist may be nil when redis is not configured.
func NewAuthMiddleware(blacklist Blacklist, cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{
		Blacklist: blacklist,
		Config:    cfg,
	}
}

// WithAuthCheck rejects requests without a valid token and, when roles are
// given, requests whose token carries none of them.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		jwtStr := BearerToken(gCtx.GetHeader("Authorization"))
		if jwtStr == "" {
			abort(gCtx, http.StatusUnauthorized, "authorization header missing")
			return
		}

		if am.Blacklist != nil {
			revoked, err := am.Blacklist.IsJWTBlacklisted(gCtx.Request.Context(), jwtStr)
			if err != nil {
				logrus.WithError(err).Error("failed to check token blacklist")
				abort(gCtx, http.StatusUnauthorized, "token could not be verified")
				return
			}
			if revoked {
				abort(gCtx, http.StatusUnauthorized, "token revoked")
				return
			}
		}

		claims, err := am.ParseToken(jwtStr)
		if err != nil {
			abort(gCtx, http.StatusUnauthorized, "invalid token")
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(claims.Role, assignedRoles) {
			abort(gCtx, http.StatusForbidden, "insufficient role")
			return
		}

		gCtx.Set(ContextUserID, claims.UserID)
		gCtx.Set(ContextUserRole, claims.Role)
		gCtx.Set(ContextToken, jwtStr)

		gCtx.Next()
	}
}

// ParseToken validates an HMAC signed token and returns its claims.
func (am *AuthMiddleware) ParseToken(tokenString string) (*ds.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(am.Config.Token), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token has no user")
	}
	return claims, nil
}

// BearerToken strips the optional "Bearer " prefix of an Authorization header.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}

func abort(gCtx *gin.Context, status int, message string) {
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	gCtx.AbortWithStatusJSON(status, dto.ErrorResponse{
		Status:  "fail",
		Code:    code,
		Message: message,
	})
}
