package logger

import (
	"context"
	"errors"
	log "log/slog"
)

// TeeHandler 将日志分发到多个 Handler，单个 Handler 失败不影响其它 Handler
type TeeHandler struct {
	handlers []log.Handler
}

func (s *TeeHandler) Enabled(ctx context.Context, level log.Level) bool {
	for _, h := range s.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (s *TeeHandler) Handle(ctx context.Context, r log.Record) error {
	var errs []error
	for _, h := range s.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *TeeHandler) WithAttrs(attrs []log.Attr) log.Handler {
	handlers := make([]log.Handler, len(s.handlers))
	for i, h := range s.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: handlers}
}

func (s *TeeHandler) WithGroup(name string) log.Handler {
	handlers := make([]log.Handler, len(s.handlers))
	for i, h := range s.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: handlers}
}

// remoteKeys 带有任一属性的记录才上报 Logstash：请求链路、定时任务以及采集过程
var remoteKeys = map[string]struct{}{
	TraceIDKey:  {},
	JobKey:      {},
	PlatformKey: {},
}

// RemoteFilterHandler 只转发可以关联到请求、任务或平台的日志
type RemoteFilterHandler struct {
	next log.Handler
	// bound WithAttrs 已经带上了可关联的属性
	bound bool
}

func (s *RemoteFilterHandler) Enabled(ctx context.Context, level log.Level) bool {
	return s.next.Enabled(ctx, level)
}

func (s *RemoteFilterHandler) Handle(ctx context.Context, r log.Record) error {
	if !s.bound && !hasRemoteKey(r) {
		return nil
	}
	return s.next.Handle(ctx, r)
}

func hasRemoteKey(r log.Record) bool {
	found := false
	r.Attrs(func(a log.Attr) bool {
		if _, ok := remoteKeys[a.Key]; ok && a.Value.String() != "" {
			found = true
			return false
		}
		return true
	})
	return found
}

func (s *RemoteFilterHandler) WithAttrs(attrs []log.Attr) log.Handler {
	bound := s.bound
	for _, a := range attrs {
		if _, ok := remoteKeys[a.Key]; ok && a.Value.String() != "" {
			bound = true
		}
	}
	return &RemoteFilterHandler{next: s.next.WithAttrs(attrs), bound: bound}
}

func (s *RemoteFilterHandler) WithGroup(name string) log.Handler {
	return &RemoteFilterHandler{next: s.next.WithGroup(name), bound: s.bound}
}
