package order

import (
	"context"

	"webservicepoc/src/trace"
)

// The decorators below wrap each layer with a LogTrace step and forward to
// the wrapped implementation. Wiring them around each other gives:
//
//	controller trace -> controller -> service trace -> service -> repository trace -> repository

type OrderRepositoryTrace struct {
	target   OrderRepository
	logTrace *trace.LogTrace
}

func NewOrderRepositoryTrace(target OrderRepository, logTrace *trace.LogTrace) *OrderRepositoryTrace {
	return &OrderRepositoryTrace{target: target, logTrace: logTrace}
}

func (r *OrderRepositoryTrace) Save(ctx context.Context, itemID string) error {
	ctx, status := r.logTrace.Begin(ctx, "OrderRepository.Save()")
	if err := r.target.Save(ctx, itemID); err != nil {
		r.logTrace.Exception(status, err)
		return err
	}
	r.logTrace.End(status)
	return nil
}

type OrderServiceTrace struct {
	target   OrderService
	logTrace *trace.LogTrace
}

func NewOrderServiceTrace(target OrderService, logTrace *trace.LogTrace) *OrderServiceTrace {
	return &OrderServiceTrace{target: target, logTrace: logTrace}
}

func (s *OrderServiceTrace) OrderItem(ctx context.Context, itemID string) error {
	ctx, status := s.logTrace.Begin(ctx, "OrderService.OrderItem()")
	if err := s.target.OrderItem(ctx, itemID); err != nil {
		s.logTrace.Exception(status, err)
		return err
	}
	s.logTrace.End(status)
	return nil
}

type OrderControllerTrace struct {
	target   OrderController
	logTrace *trace.LogTrace
}

func NewOrderControllerTrace(target OrderController, logTrace *trace.LogTrace) *OrderControllerTrace {
	return &OrderControllerTrace{target: target, logTrace: logTrace}
}

func (c *OrderControllerTrace) Request(ctx context.Context, itemID string) (string, error) {
	ctx, status := c.logTrace.Begin(ctx, "OrderController.Request()")
	result, err := c.target.Request(ctx, itemID)
	if err != nil {
		c.logTrace.Exception(status, err)
		return "", err
	}
	c.logTrace.End(status)
	return result, nil
}

// NoLog is forwarded without a trace step.
func (c *OrderControllerTrace) NoLog(ctx context.Context) string {
	return c.target.NoLog(ctx)
}

// NewTracedChain wires the three layers, each behind its trace decorator.
func NewTracedChain(repository OrderRepository, logTrace *trace.LogTrace) OrderController {
	tracedRepository := NewOrderRepositoryTrace(repository, logTrace)
	tracedService := NewOrderServiceTrace(NewOrderServiceV1(tracedRepository), logTrace)
	return NewOrderControllerTrace(NewOrderControllerV1(tracedService), logTrace)
}

var (
	_ OrderRepository = (*OrderRepositoryTrace)(nil)
	_ OrderService    = (*OrderServiceTrace)(nil)
	_ OrderController = (*OrderControllerTrace)(nil)
)
