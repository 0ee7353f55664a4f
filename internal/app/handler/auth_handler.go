package handler

import (
	"context"
	"net/http"
	"time"

	"resourceshop/internal/app/dto"
	"resourceshop/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Revoker blacklists tokens until they expire.
type Revoker interface {
	WriteJWTToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler ends sessions. Tokens themselves are issued by the hosting panel.
type AuthHandler struct {
	Revoker Revoker
	Auth    *middleware.AuthMiddleware
}

// NewAuthHandler builds the handler. revoker may be nil when redis is not configured.
func NewAuthHandler(revoker Revoker, auth *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		Revoker: revoker,
		Auth:    auth,
	}
}

// LogoutUser revokes the current token
// @Summary Logout
// @Description Adds the token to the redis blacklist until it expires
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 501 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	if h.Revoker == nil {
		h.errorHandler(ctx, http.StatusNotImplemented, "LOGOUT_UNAVAILABLE", "token revocation is not configured")
		return
	}

	tokenString := ctx.GetString(middleware.ContextToken)
	claims, err := h.Auth.ParseToken(tokenString)
	if err != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl > 0 {
		if err := h.Revoker.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl); err != nil {
			logrus.WithError(err).Error("failed to blacklist token")
			h.errorHandler(ctx, http.StatusInternalServerError, "INTERNAL_ERROR", "logout failed")
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: "logged out",
	})
}

func (h *AuthHandler) errorHandler(ctx *gin.Context, status int, code, message string) {
	ctx.JSON(status, dto.ErrorResponse{
		Status:  "fail",
		Code:    code,
		Message: message,
	})
}
