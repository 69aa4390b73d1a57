// Package transport is the client side of the registry REST surface: a single request type
// flowing through an explicit middleware pipeline (metrics, tracing, session, retry with
// quarantine, redirect, HTTP) and the typed RegistryClient built on it.
package transport

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"go.opentelemetry.io/otel/trace"
)

// RequestKind classifies a request for server status evaluation, metrics and spans.
type RequestKind string

const (
	KindRegister             RequestKind = "register"
	KindCancel               RequestKind = "cancel"
	KindHeartbeat            RequestKind = "heartbeat"
	KindStatusUpdate         RequestKind = "status_update"
	KindDeleteStatusOverride RequestKind = "delete_status_override"
	KindFullFetch            RequestKind = "full_fetch"
	KindDeltaFetch           RequestKind = "delta_fetch"
	KindAppFetch             RequestKind = "app_fetch"
	KindInstanceFetch        RequestKind = "instance_fetch"
	KindReplicationBatch     RequestKind = "replication_batch"
)

// IsQuery reports whether the request only reads the registry.
func (k RequestKind) IsQuery() bool {
	switch k {
	case KindFullFetch, KindDeltaFetch, KindAppFetch, KindInstanceFetch:
		return true
	}
	return false
}

// Request is one call to a registry server. Endpoint is empty when the request enters the
// pipeline and is filled in by the retry stage.
type Request struct {
	Kind     RequestKind
	Method   string
	Path     string
	Query    url.Values
	Header   http.Header
	Body     []byte
	Endpoint string
}

// withEndpoint returns a shallow copy of r targeting endpoint.
func (r *Request) withEndpoint(endpoint string) *Request {
	out := *r
	out.Endpoint = endpoint
	return &out
}

// Response is the reply of a registry server. Endpoint is the server that produced it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Endpoint   string
}

// Handler executes a request.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain composes middlewares so that the first one is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// Config holds the settings of the client pipeline.
type Config struct {
	// NumberOfRetries is the number of servers tried per request.
	NumberOfRetries int `yaml:"number_of_retries"`
	// QuarantineRefreshPercentage is the share of quarantined candidates at which the
	// quarantine is cleared.
	QuarantineRefreshPercentage float64 `yaml:"quarantine_refresh_percentage"`
	// SessionDuration is the base period after which quarantine and redirect pins are reset.
	SessionDuration time.Duration `yaml:"session_duration"`
	MaxRedirects    int           `yaml:"max_redirects"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		NumberOfRetries:             3,
		QuarantineRefreshPercentage: 0.66,
		SessionDuration:             20 * time.Minute,
		MaxRedirects:                10,
		ConnectTimeout:              5 * time.Second,
		ReadTimeout:                 8 * time.Second,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.NumberOfRetries <= 0:
		return errors.New("number_of_retries must be positive")
	case c.QuarantineRefreshPercentage <= 0 || c.QuarantineRefreshPercentage > 1:
		return errors.New("quarantine_refresh_percentage must be in (0, 1]")
	case c.SessionDuration <= 0:
		return errors.New("session_duration must be positive")
	case c.MaxRedirects < 0:
		return errors.New("max_redirects must not be negative")
	case c.ConnectTimeout <= 0 || c.ReadTimeout <= 0:
		return errors.New("connect_timeout and read_timeout must be positive")
	}
	return nil
}

// Pipeline is the composed client pipeline. Handler is the entry point; the stateful stages
// are exposed for inspection.
type Pipeline struct {
	Handler    Handler
	Retrier    *Retrier
	Redirector *Redirector
}

// NewPipeline composes metrics → tracing → session → retry → redirect → HTTP over resolver.
// Panics on an invalid config or nil resolver, clock, tracer or logger; metrics may be nil.
//
// Called from cmd/myregistry once per role (client traffic, peer replication).
func NewPipeline(cfg Config, resolver interfaces.EndpointResolver, clock interfaces.TimeProvider, tracer trace.Tracer, metrics *telemetry.Metrics, logger log.Logger) *Pipeline {
	if err := cfg.Validate(); err != nil {
		panic("transport.pipeline.go: " + err.Error())
	}
	logger = log.With(helpers.NilPanic(logger, "transport.pipeline.go: logger is required"), "component", "Transport")
	retrier := NewRetrier(cfg, resolver, DefaultServerStatusEvaluator, metrics, logger)
	redirector := NewRedirector(cfg.MaxRedirects, logger)
	chain := Chain(
		Metrics(metrics),
		Tracing(helpers.NilPanic(tracer, "transport.pipeline.go: tracer is required")),
		Session(cfg.SessionDuration, clock, logger, retrier, redirector),
		retrier.Middleware(),
		redirector.Middleware(),
	)
	return &Pipeline{
		Handler:    chain(HTTPHandler(NewHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout))),
		Retrier:    retrier,
		Redirector: redirector,
	}
}
