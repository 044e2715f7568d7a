package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/http/response"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type LearnerHandler struct {
	learners services.LearnerService
}

func NewLearnerHandler(learners services.LearnerService) *LearnerHandler {
	return &LearnerHandler{learners: learners}
}

// GET /api/me
func (h *LearnerHandler) GetMe(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	me, err := h.learners.GetMe(c.Request.Context(), learnerID)
	if err != nil {
		response.RespondErr(c, "get_me_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PUT /api/me/style
// body: { "style_id": "..." | null }
func (h *LearnerHandler) SetStyle(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	var req struct {
		StyleID *uuid.UUID `json:"style_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	me, err := h.learners.SetStyle(c.Request.Context(), learnerID, req.StyleID)
	if err != nil {
		response.RespondErr(c, "set_style_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/learning-styles
func (h *LearnerHandler) ListStyles(c *gin.Context) {
	styles, err := h.learners.ListStyles(c.Request.Context())
	if err != nil {
		response.RespondErr(c, "list_styles_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"styles": styles})
}
