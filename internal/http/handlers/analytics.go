package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylepath-backend/internal/data/repos"
	"github.com/yungbote/stylepath-backend/internal/http/response"
	"github.com/yungbote/stylepath-backend/internal/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GET /api/analytics?scope=overview|detailed|learning-style&course_id=&learner_id=&style_basis=&limit=
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	if _, ok := requireLearner(c); !ok {
		return
	}
	courseID, ok := optionalQueryID(c, "course_id")
	if !ok {
		return
	}
	learnerID, ok := optionalQueryID(c, "learner_id")
	if !ok {
		return
	}
	filter := repos.AnalyticsFilter{CourseID: courseID, LearnerID: learnerID}
	ctx := c.Request.Context()

	scope := strings.TrimSpace(c.DefaultQuery("scope", "overview"))
	switch scope {
	case "overview":
		out, err := h.analytics.Overview(ctx, filter)
		if err != nil {
			response.RespondErr(c, "analytics_failed", err)
			return
		}
		response.RespondOK(c, gin.H{"scope": scope, "overview": out})
	case "detailed":
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
				return
			}
			limit = n
		}
		rows, err := h.analytics.Detailed(ctx, filter, limit)
		if err != nil {
			response.RespondErr(c, "analytics_failed", err)
			return
		}
		response.RespondOK(c, gin.H{"scope": scope, "answers": rows})
	case "learning-style":
		basis, err := services.ParseStyleBasis(c.Query("style_basis"))
		if err != nil {
			response.RespondErr(c, "invalid_style_basis", err)
			return
		}
		stats, err := h.analytics.ByLearningStyle(ctx, filter, basis)
		if err != nil {
			response.RespondErr(c, "analytics_failed", err)
			return
		}
		response.RespondOK(c, gin.H{"scope": scope, "style_basis": basis, "styles": stats})
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_scope", nil)
	}
}
