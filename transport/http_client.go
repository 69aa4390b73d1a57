package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"myregistry/helpers"
)

const maxResponseBytes = 64 << 20

// NewHTTPClient creates the HTTP client of the terminal stage: connectTimeout bounds dialing,
// readTimeout bounds the wait for response headers. Redirects are returned to the caller so the
// redirect stage can follow and pin them.
func NewHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}).DialContext
	transport.ResponseHeaderTimeout = readTimeout
	return &http.Client{
		Transport: transport,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// HTTPHandler is the terminal stage: it sends req to req.Endpoint + req.Path and reads the
// whole body. Panics on nil client.
//
// Returns: (*Response, nil) for every answer, whatever its status; (nil, error) on request
// building, network or body read errors.
func HTTPHandler(client *http.Client) Handler {
	client = helpers.NilPanic(client, "transport.http_client.go: http client is required")
	return func(ctx context.Context, req *Request) (*Response, error) {
		reqURL := req.Endpoint + req.Path
		if len(req.Query) > 0 {
			reqURL += "?" + req.Query.Encode()
		}
		var body io.Reader
		if req.Body != nil {
			body = bytes.NewReader(req.Body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, body)
		if err != nil {
			return nil, err
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
		httpReq.Header.Set("Accept", "application/json")
		if req.Body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}

		resp, err := client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       payload,
			Endpoint:   req.Endpoint,
		}, nil
	}
}
