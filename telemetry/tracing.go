package telemetry

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanProcessor writes every finished span to a go-kit logger at debug level, and at
// warn level when the span ended with an error status.
type LogSpanProcessor struct {
	logger log.Logger
}

var _ sdktrace.SpanProcessor = (*LogSpanProcessor)(nil)

// NewLogSpanProcessor creates a LogSpanProcessor.
func NewLogSpanProcessor(logger log.Logger) *LogSpanProcessor {
	return &LogSpanProcessor{logger: log.With(logger, "component", "Tracing")}
}

func (p *LogSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *LogSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	kv := []any{
		"msg", "span finished",
		"span", s.Name(),
		"trace_id", s.SpanContext().TraceID().String(),
		"elapsed", s.EndTime().Sub(s.StartTime()).Round(time.Microsecond),
	}
	for _, attr := range s.Attributes() {
		kv = append(kv, string(attr.Key), attr.Value.Emit())
	}
	if s.Status().Code == codes.Error {
		_ = level.Warn(p.logger).Log(append(kv, "err", s.Status().Description)...)
		return
	}
	_ = level.Debug(p.logger).Log(kv...)
}

func (p *LogSpanProcessor) Shutdown(context.Context) error { return nil }

func (p *LogSpanProcessor) ForceFlush(context.Context) error { return nil }

// NewTracerProvider builds the process tracer provider. Spans are sampled according to the
// parent, always for root spans.
func NewTracerProvider(logger log.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithSpanProcessor(NewLogSpanProcessor(logger)),
	)
}
