// Package internalcall shows why a decorator only sees calls made through
// it: a method calling another method on its own receiver never crosses the
// wrapper, so whatever the wrapper adds is skipped.
package internalcall

import (
	"context"
	"log/slog"

	"webservicepoc/src/trace"
)

type Internal interface {
	Internal(ctx context.Context)
}

type InternalService struct {
	logger *slog.Logger
}

func NewInternalService(logger *slog.Logger) *InternalService {
	return &InternalService{logger: logger}
}

func (s *InternalService) Internal(ctx context.Context) {
	s.logger.InfoContext(ctx, "call internal")
}

// TracedInternal wraps any Internal with a trace step.
type TracedInternal struct {
	target   Internal
	logTrace *trace.LogTrace
}

func NewTracedInternal(target Internal, logTrace *trace.LogTrace) *TracedInternal {
	return &TracedInternal{target: target, logTrace: logTrace}
}

func (t *TracedInternal) Internal(ctx context.Context) {
	ctx, status := t.logTrace.Begin(ctx, "InternalService.Internal()")
	t.target.Internal(ctx)
	t.logTrace.End(status)
}

// SelfCallService calls Internal on its own receiver. Wrapping it in a
// TracedInternal traces direct Internal calls, but never the one made from
// External.
type SelfCallService struct {
	*InternalService
	logger *slog.Logger
}

func NewSelfCallService(logger *slog.Logger) *SelfCallService {
	return &SelfCallService{InternalService: NewInternalService(logger), logger: logger}
}

func (s *SelfCallService) External(ctx context.Context) {
	s.logger.InfoContext(ctx, "call external")
	s.Internal(ctx)
}

// CallService depends on the Internal interface, so a decorated collaborator
// is always reached through its wrapper.
type CallService struct {
	logger   *slog.Logger
	internal Internal
}

func NewCallService(logger *slog.Logger, internal Internal) *CallService {
	return &CallService{logger: logger, internal: internal}
}

func (s *CallService) External(ctx context.Context) {
	s.logger.InfoContext(ctx, "call external")
	s.internal.Internal(ctx)
}
