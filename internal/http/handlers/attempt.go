package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/http/response"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type AttemptHandler struct {
	attempts services.AttemptService
}

func NewAttemptHandler(attempts services.AttemptService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts}
}

type submitAttemptRequest struct {
	VariantID *uuid.UUID       `json:"variant_id"`
	Responses []types.Response `json:"responses"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
}

// POST /api/sections/:id/attempts
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "invalid_section_id")
	if !ok {
		return
	}
	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.attempts.SubmitAttempt(c.Request.Context(), services.SubmitAttemptInput{
		LearnerID: learnerID,
		SectionID: sectionID,
		VariantID: req.VariantID,
		Responses: req.Responses,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		response.RespondErr(c, "submit_attempt_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"attempt_id": res.Attempt.ID,
		"score":      res.Score,
		"result":     res,
	})
}

// GET /api/sections/:id/attempts
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "invalid_section_id")
	if !ok {
		return
	}
	hist, err := h.attempts.History(c.Request.Context(), learnerID, sectionID)
	if err != nil {
		response.RespondErr(c, "list_attempts_failed", err)
		return
	}
	response.RespondOK(c, hist)
}

// GET /api/attempts/:id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	attemptID, ok := pathID(c, "invalid_attempt_id")
	if !ok {
		return
	}
	a, err := h.attempts.GetAttempt(c.Request.Context(), learnerID, attemptID)
	if err != nil {
		response.RespondErr(c, "get_attempt_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"attempt": a})
}
