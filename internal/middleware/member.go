package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// MemberLoader resolves the member behind an authenticated token subject.
type MemberLoader interface {
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
}

// MemberContext loads the authenticated member once per request.
// It must run after AuthMiddleware.
func MemberContext(loader MemberLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		memberID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": apperrors.CodeUnauthorized})
			return
		}

		member, err := loader.GetMemberByID(c.Request.Context(), memberID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Token subject does not resolve to a member")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown member", "code": apperrors.CodeUnauthorized})
				return
			}
			logger.Error("Failed to load member for request", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member", "code": apperrors.CodeInternal})
			return
		}

		c.Set(string(memberKey), *member)
		c.Next()
	}
}

// RequireActive rejects members that are deactivated or still awaiting approval.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetMemberFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": apperrors.CodeUnauthorized})
			return
		}
		if !member.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not active", "code": apperrors.CodeForbidden})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects anyone but active admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := GetMemberFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": apperrors.CodeUnauthorized})
			return
		}
		if err := member.EnsureAdmin(); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Admin route denied", slog.String("member_id", member.MemberID))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required", "code": apperrors.CodeForbidden})
			return
		}
		c.Next()
	}
}
