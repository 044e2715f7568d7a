package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/http/response"
	types "github.com/yungbote/stylepath-backend/internal/domain"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

type completeSectionRequest struct {
	CourseID *uuid.UUID `json:"course_id" binding:"required"`
	Kind     string     `json:"kind" binding:"required"`
	Score    *int       `json:"score"`
}

// POST /api/sections/:id/complete
// body: { "course_id": "...", "kind": "learn|test|quiz", "score": 0..100 }
func (h *ProgressHandler) CompleteSection(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	sectionID, ok := pathID(c, "invalid_section_id")
	if !ok {
		return
	}
	var req completeSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in := services.MarkCompletedInput{
		LearnerID: learnerID,
		CourseID:  *req.CourseID,
		SectionID: sectionID,
		Kind:      types.SectionKind(req.Kind),
		Score:     req.Score,
	}
	if !in.Kind.Valid() {
		response.RespondError(c, http.StatusBadRequest, "invalid_kind", nil)
		return
	}
	res, err := h.progress.MarkCompleted(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, "complete_section_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": res})
}

// GET /api/courses/:id/progress
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	out, err := h.progress.GetProgress(c.Request.Context(), learnerID, courseID)
	if err != nil {
		response.RespondErr(c, "get_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}

// POST /api/courses/:id/progress/reset
func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	out, err := h.progress.ResetProgress(c.Request.Context(), learnerID, courseID)
	if err != nil {
		response.RespondErr(c, "reset_progress_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}

// POST /api/courses/:id/enroll
func (h *ProgressHandler) Enroll(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	out, err := h.progress.Enroll(c.Request.Context(), learnerID, courseID)
	if err != nil {
		response.RespondErr(c, "enroll_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"progress": out})
}

// DELETE /api/courses/:id/enroll
func (h *ProgressHandler) Unenroll(c *gin.Context) {
	learnerID, ok := requireLearner(c)
	if !ok {
		return
	}
	courseID, ok := pathID(c, "invalid_course_id")
	if !ok {
		return
	}
	if _, err := h.progress.Unenroll(c.Request.Context(), learnerID, courseID); err != nil {
		response.RespondErr(c, "unenroll_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
