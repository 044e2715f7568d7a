package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/stylepath-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxRequestIDLen = 64
)

// AttachTraceContext stamps every request with a trace id and request id. An
// active otel span wins over a client-supplied trace header; client request ids
// are kept only when short and printable.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rt := ctxutil.RequestTrace{
			TraceID:   spanTraceID(c),
			RequestID: cleanRequestID(c.GetHeader(headerRequestID)),
		}
		if rt.TraceID == "" {
			rt.TraceID = cleanRequestID(c.GetHeader(headerTraceID))
		}
		if rt.TraceID == "" {
			rt.TraceID = uuid.NewString()
		}
		if rt.RequestID == "" {
			rt.RequestID = uuid.NewString()
		}

		c.Request = c.Request.WithContext(ctxutil.WithRequestTrace(c.Request.Context(), rt))
		c.Writer.Header().Set(headerTraceID, rt.TraceID)
		c.Writer.Header().Set(headerRequestID, rt.RequestID)
		c.Next()
	}
}

func spanTraceID(c *gin.Context) string {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func cleanRequestID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxRequestIDLen {
		return ""
	}
	for _, r := range raw {
		if r < 0x21 || r > 0x7e {
			return ""
		}
	}
	return raw
}
