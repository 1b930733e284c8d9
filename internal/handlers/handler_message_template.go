package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type messageTemplateHandler struct {
	templateService portssvc.MessageTemplateSvcFacade
}

func registerMessageTemplateRoutes(admin *gin.RouterGroup, templateService portssvc.MessageTemplateSvcFacade) {
	h := &messageTemplateHandler{templateService: templateService}

	templates := admin.Group("/message-templates")
	{
		templates.GET("", h.listTemplates)
		templates.PUT("/:id", h.updateTemplate)
	}
}

// listTemplates godoc
// @Summary List notification templates
// @Tags message-templates
// @Produce json
// @Success 200 {array} dto.MessageTemplateResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /message-templates [get]
func (h *messageTemplateHandler) listTemplates(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	templates, err := h.templateService.ListTemplates(c.Request.Context(), admin)
	if err != nil {
		respondError(c, err, "Failed to list message templates")
		return
	}
	c.JSON(http.StatusOK, dto.ToMessageTemplateListResponse(templates))
}

// updateTemplate godoc
// @Summary Update a notification template
// @Description Placeholders are written as {name}. Deactivated templates suppress their notification.
// @Tags message-templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param template body dto.UpdateMessageTemplateRequest true "Changed fields"
// @Success 200 {object} dto.MessageTemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /message-templates/{id} [put]
func (h *messageTemplateHandler) updateTemplate(c *gin.Context) {
	admin, ok := currentMember(c)
	if !ok {
		return
	}
	var req dto.UpdateMessageTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	tmpl, err := h.templateService.UpdateTemplate(c.Request.Context(), admin, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update message template")
		return
	}
	c.JSON(http.StatusOK, dto.ToMessageTemplateResponse(tmpl))
}
