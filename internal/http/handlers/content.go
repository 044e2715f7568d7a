package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylepath-backend/internal/http/response"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type ContentHandler struct {
	content services.ContentService
}

func NewContentHandler(content services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// GET /api/sections/:id/content?style_id=
func (h *ContentHandler) GetSectionContent(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "invalid_section_id")
	if !ok {
		return
	}
	styleID, ok := optionalQueryID(c, "style_id")
	if !ok {
		return
	}
	out, err := h.content.ResolveForLearner(c.Request.Context(), learnerID, sectionID, styleID)
	if err != nil {
		response.RespondErr(c, "resolve_content_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"section":       out.Section,
		"status":        out.Resolution.Status,
		"style_matched": out.Resolution.StyleMatched,
		"variant":       out.Resolution.Variant,
	})
}
