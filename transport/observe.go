package transport

import (
	"context"
	"strconv"
	"time"

	"myregistry/service"
	"myregistry/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Metrics records the count and latency of each request as seen by the caller, after every
// retry. The outcome is the status class of the answer, "no_server" when every server failed,
// or "error".
func Metrics(m *telemetry.Metrics) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			m.TransportRequest(string(req.Kind), outcome(resp, err), time.Since(start))
			return resp, err
		}
	}
}

func outcome(resp *Response, err error) string {
	switch {
	case service.IsNoAvailableServerError(err):
		return "no_server"
	case err != nil:
		return "error"
	default:
		return strconv.Itoa(resp.StatusCode/100) + "xx"
	}
}

// Tracing wraps each request in a span named after its kind.
func Tracing(tracer trace.Tracer) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			ctx, span := tracer.Start(ctx, "transport."+string(req.Kind),
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.path", req.Path),
				))
			defer span.End()

			resp, err := next(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(
				attribute.Int("http.status_code", resp.StatusCode),
				attribute.String("endpoint", resp.Endpoint),
			)
			return resp, nil
		}
	}
}
