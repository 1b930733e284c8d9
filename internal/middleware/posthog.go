package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/club_tab_app/internal/utils"
	"github.com/gin-gonic/gin"
)

var untrackedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware reports each successful API call by an identified member.
// The event is named after the route template, e.g. "PUT api_v1_fiscal-debts_:id_approve".
func PosthogMiddleware(analytics *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if !analytics.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest || c.FullPath() == "" {
			return
		}
		member, ok := GetMemberFromContext(c)
		if !ok {
			return
		}

		route := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		analytics.Capture(member.MemberID, c.Request.Method+" "+route, member.IsAdmin, map[string]any{
			"status_code": c.Writer.Status(),
			"is_active":   member.IsActive,
		})
	}
}
