package middleware

import (
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated member's ID.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// memberKey stores the resolved member loaded by MemberContext.
const memberKey = contextKey("member")

// GetUserIDFromContext retrieves the authenticated member ID from the Gin context.
// It returns the ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if v, ok := c.Request.Context().Value(userIDKey).(string); ok && v != "" {
			return v, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// GetMemberFromContext retrieves the member resolved for this request.
func GetMemberFromContext(c *gin.Context) (domain.Member, bool) {
	v, exists := c.Get(string(memberKey))
	if !exists {
		return domain.Member{}, false
	}
	m, ok := v.(domain.Member)
	return m, ok
}
