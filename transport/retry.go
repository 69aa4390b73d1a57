package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ServerStatusEvaluator reports whether statusCode is an acceptable answer for a request of
// kind. A rejected answer counts as a server failure: the server is quarantined and the request
// goes to the next candidate.
type ServerStatusEvaluator func(statusCode int, kind RequestKind) bool

// DefaultServerStatusEvaluator accepts every answer below 500. Queries also accept 5xx and stay
// with the current server; cancels are best effort and accept anything.
func DefaultServerStatusEvaluator(statusCode int, kind RequestKind) bool {
	switch {
	case statusCode < http.StatusInternalServerError:
		return true
	case kind.IsQuery():
		return true
	case kind == KindCancel:
		return true
	}
	return false
}

// Retrier is the retry stage. Each request is tried on at most NumberOfRetries servers. The
// server that last answered acceptably is reused until it fails; failed servers join a
// quarantine that is skipped when choosing the next candidate, and cleared once it covers
// QuarantineRefreshPercentage of the resolver endpoints.
//
// Fields: resolver, evaluator, retries, refreshPct, metrics, logger; under mu: quarantine,
// current.
type Retrier struct {
	resolver   interfaces.EndpointResolver
	evaluator  ServerStatusEvaluator
	retries    int
	refreshPct float64
	metrics    *telemetry.Metrics
	logger     log.Logger

	mu         sync.Mutex
	quarantine map[string]struct{}
	current    string
}

// NewRetrier creates the retry stage. Panics on nil resolver, evaluator or logger.
func NewRetrier(cfg Config, resolver interfaces.EndpointResolver, evaluator ServerStatusEvaluator, metrics *telemetry.Metrics, logger log.Logger) *Retrier {
	return &Retrier{
		resolver:   helpers.NilPanic(resolver, "transport.retry.go: resolver is required"),
		evaluator:  helpers.NilPanic(evaluator, "transport.retry.go: evaluator is required"),
		retries:    cfg.NumberOfRetries,
		refreshPct: cfg.QuarantineRefreshPercentage,
		metrics:    metrics,
		logger:     helpers.NilPanic(logger, "transport.retry.go: logger is required"),
		quarantine: make(map[string]struct{}),
	}
}

// Middleware returns the stage as a Middleware.
func (r *Retrier) Middleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			return r.do(ctx, req, next)
		}
	}
}

func (r *Retrier) do(ctx context.Context, req *Request, next Handler) (*Response, error) {
	var candidates []string
	idx := 0
	var lastErr error
	for attempt := 0; attempt < r.retries; attempt++ {
		endpoint := r.currentEndpoint()
		if endpoint == "" {
			if candidates == nil {
				candidates = r.candidates()
			}
			if idx >= len(candidates) {
				break
			}
			endpoint = candidates[idx]
			idx++
		}

		resp, err := next(ctx, req.withEndpoint(endpoint))
		if err == nil && r.evaluator(resp.StatusCode, req.Kind) {
			r.succeeded(endpoint)
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			err = fmt.Errorf("%s answered %d", endpoint, resp.StatusCode)
		}
		lastErr = err
		r.failed(endpoint)
		level.Warn(r.logger).Log("msg", "request failed, trying next server", "kind", req.Kind, "endpoint", endpoint,
			"attempt", attempt+1, "err", err)
	}
	if lastErr == nil {
		lastErr = errors.New("no known server")
	}
	return nil, service.NewNoAvailableServerError(fmt.Sprintf("Cannot execute %s on any known server", req.Kind), lastErr)
}

// candidates returns the resolver endpoints without the quarantined ones. The quarantine is
// first pruned of endpoints the resolver no longer lists, and cleared when it reaches the
// refresh threshold.
func (r *Retrier) candidates() []string {
	endpoints := r.resolver.Endpoints()
	r.mu.Lock()
	defer r.mu.Unlock()
	for e := range r.quarantine {
		if !slices.Contains(endpoints, e) {
			delete(r.quarantine, e)
		}
	}
	threshold := float64(len(endpoints)) * r.refreshPct
	if len(r.quarantine) > 0 && float64(len(r.quarantine)) >= threshold {
		level.Info(r.logger).Log("msg", "quarantine cleared", "quarantined", len(r.quarantine), "endpoints", len(endpoints))
		clear(r.quarantine)
	}
	r.metrics.QuarantineSize(len(r.quarantine))
	out := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		if _, ok := r.quarantine[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *Retrier) currentEndpoint() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Retrier) succeeded(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = endpoint
	delete(r.quarantine, endpoint)
}

func (r *Retrier) failed(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == endpoint {
		r.current = ""
	}
	r.quarantine[endpoint] = struct{}{}
	r.metrics.QuarantineSize(len(r.quarantine))
}

// Quarantined returns the quarantined endpoints, sorted.
func (r *Retrier) Quarantined() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.quarantine))
	for e := range r.quarantine {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Current returns the server requests are sticking to, or "".
func (r *Retrier) Current() string {
	return r.currentEndpoint()
}

// Reset forgets the quarantine and the current server.
func (r *Retrier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.quarantine)
	r.current = ""
	r.metrics.QuarantineSize(0)
}
