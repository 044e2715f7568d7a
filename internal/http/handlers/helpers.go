package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/http/response"
	"github.com/yungbote/stylepath-backend/internal/platform/ctxutil"
)

// requireLearner returns the authenticated learner id or writes a 401.
func requireLearner(c *gin.Context) (uuid.UUID, bool) {
	id := ctxutil.GetIdentity(c.Request.Context())
	if id == nil || id.LearnerID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return id.LearnerID, true
}

func pathID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || id == uuid.Nil {
		if err == nil {
			err = errors.New("id is required")
		}
		response.RespondError(c, http.StatusBadRequest, code, err)
		return uuid.Nil, false
	}
	return id, true
}

// optionalQueryID parses an optional uuid query parameter.
func optionalQueryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, err)
		return nil, false
	}
	return &id, true
}
