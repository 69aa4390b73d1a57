package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Redirector is the redirect stage. 302, 303 and 307 answers are followed up to maxHops times;
// once a redirect chain ends at another server, the original endpoint is pinned to it and later
// requests go straight to the target. A transport error on a pinned target unpins it.
type Redirector struct {
	maxHops int
	logger  log.Logger

	mu   sync.Mutex
	pins map[string]string
}

// NewRedirector creates the redirect stage.
func NewRedirector(maxHops int, logger log.Logger) *Redirector {
	return &Redirector{
		maxHops: maxHops,
		logger:  logger,
		pins:    make(map[string]string),
	}
}

func isRedirect(status int) bool {
	return status == http.StatusFound || status == http.StatusSeeOther || status == http.StatusTemporaryRedirect
}

// Middleware returns the stage as a Middleware.
func (r *Redirector) Middleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if target, ok := r.Pinned(req.Endpoint); ok {
				resp, err := next(ctx, req.withEndpoint(target))
				if err != nil {
					r.unpin(req.Endpoint)
					level.Info(r.logger).Log("msg", "pinned redirect target failed, unpinned", "endpoint", req.Endpoint, "target", target, "err", err)
				}
				return resp, err
			}
			return r.follow(ctx, req, next)
		}
	}
}

func (r *Redirector) follow(ctx context.Context, req *Request, next Handler) (*Response, error) {
	target := req.Endpoint
	for hop := 0; ; hop++ {
		resp, err := next(ctx, req.withEndpoint(target))
		if err != nil {
			return nil, err
		}
		if !isRedirect(resp.StatusCode) {
			if target != req.Endpoint {
				r.pin(req.Endpoint, target)
			}
			return resp, nil
		}
		if hop >= r.maxHops {
			return nil, fmt.Errorf("too many redirects from %s (%d)", req.Endpoint, r.maxHops)
		}
		location, err := baseURL(resp.Header.Get("Location"))
		if err != nil {
			return nil, fmt.Errorf("invalid redirect from %s: %w", target, err)
		}
		level.Debug(r.logger).Log("msg", "following redirect", "from", target, "to", location, "hop", hop+1)
		target = location
	}
}

// baseURL reduces a Location header to scheme://host; registry paths are rooted at "/".
func baseURL(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("location %q is not absolute", location)
	}
	return u.Scheme + "://" + u.Host, nil
}

// Pinned returns the target endpoint is pinned to.
func (r *Redirector) Pinned(endpoint string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.pins[endpoint]
	return target, ok
}

func (r *Redirector) pin(endpoint, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pins[endpoint] = target
	level.Info(r.logger).Log("msg", "endpoint pinned to redirect target", "endpoint", endpoint, "target", target)
}

func (r *Redirector) unpin(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pins, endpoint)
}

// Reset drops every pin.
func (r *Redirector) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.pins)
}
