package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// memberHandler handles HTTP requests related to members.
type memberHandler struct {
	memberService portssvc.MemberSvcFacade
}

func newMemberHandler(ms portssvc.MemberSvcFacade) *memberHandler {
	return &memberHandler{memberService: ms}
}

// registerMemberRoutes registers member routes. authed accepts any logged-in member,
// active requires an approved member and admin an active admin.
func registerMemberRoutes(authed, active, admin *gin.RouterGroup, memberService portssvc.MemberSvcFacade) {
	h := newMemberHandler(memberService)

	authed.GET("/me", h.getMe)
	active.GET("/leaderboard", h.leaderboard)

	members := admin.Group("/members")
	{
		members.GET("", h.listMembers)
		members.POST("", h.createMember)
		members.POST("/deactivate-non-admins", h.deactivateNonAdmins)
		members.PUT("/:id/activate", h.activateMember)
		members.PUT("/:id/deactivate", h.deactivateMember)
		members.PUT("/:id/promote", h.promoteMember)
		members.PUT("/:id/demote", h.demoteMember)
	}
}

// getMe godoc
// @Summary Get the logged-in member
// @Description Returns the caller, including members still waiting for approval.
// @Tags members
// @Produce json
// @Success 200 {object} dto.MemberResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *memberHandler) getMe(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberResponse(&member))
}

// leaderboard godoc
// @Summary Balance leaderboard
// @Description Lists active members by balance, lowest first.
// @Tags members
// @Produce json
// @Param limit query int false "Maximum members" default(50)
// @Success 200 {array} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /leaderboard [get]
func (h *memberHandler) leaderboard(c *gin.Context) {
	member, ok := currentMember(c)
	if !ok {
		return
	}
	var params dto.LeaderboardParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	members, err := h.memberService.Leaderboard(c.Request.Context(), member, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to load leaderboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberListResponse(members))
}

// listMembers godoc
// @Summary List members
// @Description Lists members by first name. status=pending lists members awaiting approval.
// @Tags members
// @Produce json
// @Param status query string false "all, active or pending" default(all)
// @Success 200 {array} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /members [get]
func (h *memberHandler) listMembers(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	var params dto.ListMembersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "query parameters")
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), admin, params)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToMemberListResponse(members))
}

// createMember godoc
// @Summary Add a member
// @Description Adds an active member by Telegram id.
// @Tags members
// @Accept json
// @Produce json
// @Param member body dto.CreateMemberRequest true "Member details"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Telegram id already registered"
// @Security BearerAuth
// @Router /members [post]
func (h *memberHandler) createMember(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	member, err := h.memberService.CreateMember(c.Request.Context(), admin, req)
	if err != nil {
		respondError(c, err, "Failed to create member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

type memberAction func(ctx context.Context, admin domain.Member, memberID string) (*domain.Member, error)

func (h *memberHandler) runAction(c *gin.Context, action memberAction, name string) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	memberID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_member_id", memberID))

	member, err := action(c.Request.Context(), admin, memberID)
	if err != nil {
		respondError(c, err, "Failed to "+name+" member")
		return
	}
	logger.Info("Member "+name+" succeeded")
	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

// activateMember godoc
// @Summary Approve or reactivate a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Member is already active"
// @Security BearerAuth
// @Router /members/{id}/activate [put]
func (h *memberHandler) activateMember(c *gin.Context) {
	h.runAction(c, h.memberService.ActivateMember, "activate")
}

// deactivateMember godoc
// @Summary Deactivate a member
// @Description The balance is kept. The last active admin cannot be deactivated.
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id}/deactivate [put]
func (h *memberHandler) deactivateMember(c *gin.Context) {
	h.runAction(c, h.memberService.DeactivateMember, "deactivate")
}

// promoteMember godoc
// @Summary Grant admin rights
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id}/promote [put]
func (h *memberHandler) promoteMember(c *gin.Context) {
	h.runAction(c, h.memberService.PromoteMember, "promote")
}

// demoteMember godoc
// @Summary Revoke admin rights
// @Description The last active admin cannot be demoted.
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} dto.MemberResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/{id}/demote [put]
func (h *memberHandler) demoteMember(c *gin.Context) {
	h.runAction(c, h.memberService.DemoteMember, "demote")
}

// deactivateNonAdmins godoc
// @Summary Deactivate every non-admin
// @Description Deactivates all active non-admin members and zeroes their balances.
// @Tags members
// @Produce json
// @Success 200 {object} dto.DeactivateNonAdminsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /members/deactivate-non-admins [post]
func (h *memberHandler) deactivateNonAdmins(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	n, err := h.memberService.DeactivateNonAdmins(c.Request.Context(), admin)
	if err != nil {
		respondError(c, err, "Failed to deactivate members")
		return
	}
	c.JSON(http.StatusOK, dto.DeactivateNonAdminsResponse{Deactivated: n})
}
