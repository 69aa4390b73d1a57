package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"myregistry/domain"
	"myregistry/interfaces"
	"myregistry/transport"
)

// httpHealthCheck reports UP while GET url answers 2xx and DOWN otherwise.
type httpHealthCheck struct {
	url    string
	client *http.Client
}

var _ interfaces.HealthCheckHandler = (*httpHealthCheck)(nil)

func newHTTPHealthCheck(url string, connectTimeout, readTimeout time.Duration) *httpHealthCheck {
	return &httpHealthCheck{url: url, client: transport.NewHTTPClient(connectTimeout, readTimeout)}
}

// Status implements interfaces.HealthCheckHandler. A check that cannot be sent is an error, so
// the instance is published DOWN.
func (h *httpHealthCheck) Status(ctx context.Context, current domain.InstanceStatus) (domain.InstanceStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return current, err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return current, fmt.Errorf("health check %s: %w", h.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.StatusDown, nil
	}
	return domain.StatusUp, nil
}
