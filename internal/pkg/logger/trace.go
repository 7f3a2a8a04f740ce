package logger

import (
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// Context 以及日志记录中使用的 Key
const (
	TraceIDKey  = "trace_id"
	JobKey      = "job"
	PlatformKey = "platform"
)

// ContextHandler 包装器，用于从 ctx 中提取 trace_id 和任务名
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
		if job, ok := ctx.Value(JobKey).(string); ok {
			r.AddAttrs(log.String(JobKey, job))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// WithTraceID 把 trace_id 放进 ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	//nolint:staticcheck
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// NewJobContext 定时任务使用的 ctx，trace_id 形如 job-<name>-<uuid>，日志中另带 job=<name>
func NewJobContext(name string) context.Context {
	//nolint:staticcheck
	ctx := context.WithValue(context.Background(), JobKey, name)
	return WithTraceID(ctx, "job-"+name+"-"+uuid.New().String())
}
