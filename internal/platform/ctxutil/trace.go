package ctxutil

import "context"

type requestTraceKey struct{}

// RequestTrace ties engine writes and published events back to the HTTP request
// that caused them.
type RequestTrace struct {
	TraceID   string
	RequestID string
}

func WithRequestTrace(ctx context.Context, rt RequestTrace) context.Context {
	return context.WithValue(Default(ctx), requestTraceKey{}, rt)
}

func RequestTraceFrom(ctx context.Context) (RequestTrace, bool) {
	if ctx == nil {
		return RequestTrace{}, false
	}
	rt, ok := ctx.Value(requestTraceKey{}).(RequestTrace)
	return rt, ok
}

// LogFields returns the non-empty ids as logger key/value pairs.
func (rt RequestTrace) LogFields() []interface{} {
	out := make([]interface{}, 0, 4)
	if rt.TraceID != "" {
		out = append(out, "trace_id", rt.TraceID)
	}
	if rt.RequestID != "" {
		out = append(out, "request_id", rt.RequestID)
	}
	return out
}
