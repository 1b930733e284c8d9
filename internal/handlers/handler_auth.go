package handlers

import (
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const initDataScheme = "tma "

// authHandler handles authentication related requests.
type authHandler struct {
	authService portssvc.AuthSvc
}

func newAuthHandler(as portssvc.AuthSvc) *authHandler {
	return &authHandler{authService: as}
}

// registerAuthRoutes sets up the public login route behind its own limiter.
func registerAuthRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvc, limit gin.HandlerFunc) {
	h := newAuthHandler(authService)

	auth := rg.Group("/auth")
	{
		auth.POST("/telegram", limit, h.loginTelegram)
	}
}

// loginTelegram godoc
// @Summary Log in with Telegram Mini App init data
// @Description Verifies the signed init data sent as "Authorization: tma <initData>" and returns a session token.
// @Description Unknown users are registered as inactive and must be approved by an admin.
// @Tags auth
// @Produce json
// @Param Authorization header string true "tma <initData>"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/telegram [post]
func (h *authHandler) loginTelegram(c *gin.Context) {
	header := c.GetHeader("Authorization")
	initData := ""
	if len(header) >= len(initDataScheme) && strings.EqualFold(header[:len(initDataScheme)], initDataScheme) {
		initData = strings.TrimSpace(header[len(initDataScheme):])
	}

	resp, err := h.authService.LoginWithInitData(c.Request.Context(), initData)
	if err != nil {
		respondError(c, err, "Failed to log in")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Login succeeded")
	c.JSON(http.StatusOK, resp)
}
