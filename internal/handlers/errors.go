package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its status and stable code. Internal errors are
// logged and replaced by fallback so storage details never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	body := ErrorResponse{Error: err.Error(), Code: apperrors.Code(err)}
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		body.Error = fallback
	} else {
		logger.Warn("Request failed", slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.AbortWithStatusJSON(status, body)
}

// respondBindError reports malformed JSON, query or path input.
func respondBindError(c *gin.Context, err error, what string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error: "Invalid " + what + ": " + err.Error(),
		Code:  apperrors.CodeValidation,
	})
}

// currentMember returns the member loaded by MemberContext.
func currentMember(c *gin.Context) (member domain.Member, ok bool) {
	member, ok = middleware.GetMemberFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: apperrors.CodeUnauthorized})
	}
	return member, ok
}
