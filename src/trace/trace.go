package trace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	startPrefix     = "-->"
	completePrefix  = "<--"
	exceptionPrefix = "<X-"
)

// TraceID identifies one request chain; Level is the call depth inside it.
type TraceID struct {
	ID    string
	Level int
}

func newTraceID() TraceID {
	return TraceID{ID: uuid.NewString()[:8]}
}

func (t TraceID) next() TraceID {
	return TraceID{ID: t.ID, Level: t.Level + 1}
}

func (t TraceID) IsFirstLevel() bool {
	return t.Level == 0
}

// TraceStatus is returned by Begin and handed back to End or Exception.
type TraceStatus struct {
	TraceID   TraceID
	StartTime time.Time
	Message   string
}

type traceKey struct{}

// FromContext returns the trace of the innermost Begin that produced ctx.
func FromContext(ctx context.Context) (TraceID, bool) {
	traceID, ok := ctx.Value(traceKey{}).(TraceID)
	return traceID, ok
}

// LogTrace logs the start, end and failure of nested calls, indenting each
// line by its depth in the chain:
//
//	[5a1c2f3e] OrderController.Request()
//	[5a1c2f3e] |-->OrderService.OrderItem()
//	[5a1c2f3e] |   |-->OrderRepository.Save()
//	[5a1c2f3e] |   |<--OrderRepository.Save() time=1001ms
type LogTrace struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewLogTrace(logger *slog.Logger) *LogTrace {
	return &LogTrace{
		logger: logger,
		now:    time.Now,
	}
}

// Begin opens a trace step. The returned context must be passed to the
// nested calls so they log one level deeper under the same id.
func (t *LogTrace) Begin(ctx context.Context, message string) (context.Context, TraceStatus) {
	traceID, ok := FromContext(ctx)
	if ok {
		traceID = traceID.next()
	} else {
		traceID = newTraceID()
	}

	t.logger.Info(fmt.Sprintf("[%s] %s%s", traceID.ID, addSpace(startPrefix, traceID.Level), message),
		"trace_id", traceID.ID,
		"depth", traceID.Level)

	status := TraceStatus{
		TraceID:   traceID,
		StartTime: t.now(),
		Message:   message,
	}

	return context.WithValue(ctx, traceKey{}, traceID), status
}

func (t *LogTrace) End(status TraceStatus) {
	t.complete(status, nil)
}

func (t *LogTrace) Exception(status TraceStatus, err error) {
	t.complete(status, err)
}

func (t *LogTrace) complete(status TraceStatus, err error) {
	elapsed := t.now().Sub(status.StartTime).Milliseconds()
	traceID := status.TraceID

	if err == nil {
		t.logger.Info(fmt.Sprintf("[%s] %s%s time=%dms", traceID.ID, addSpace(completePrefix, traceID.Level), status.Message, elapsed),
			"trace_id", traceID.ID,
			"depth", traceID.Level,
			"elapsed_ms", elapsed)
		return
	}

	t.logger.Error(fmt.Sprintf("[%s] %s%s time=%dms ex=%s", traceID.ID, addSpace(exceptionPrefix, traceID.Level), status.Message, elapsed, err),
		"trace_id", traceID.ID,
		"depth", traceID.Level,
		"elapsed_ms", elapsed,
		"error", err)
}

// addSpace renders the indentation for a depth:
// level 0 "", level 1 "|-->", level 2 "|   |-->".
func addSpace(prefix string, level int) string {
	var sb strings.Builder
	for i := 0; i < level; i++ {
		if i == level-1 {
			sb.WriteString("|" + prefix)
		} else {
			sb.WriteString("|   ")
		}
	}
	return sb.String()
}
