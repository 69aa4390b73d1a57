package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"
)

// RegistryClient implements interfaces.RegistryClient over a pipeline Handler.
//
// A client created with NewReplicationClient marks every request as peer traffic (replication
// header and query flag, peer name header) so the receiving server does not replicate it again.
type RegistryClient struct {
	handler  Handler
	peerName string
}

var _ interfaces.RegistryClient = (*RegistryClient)(nil)

// NewRegistryClient creates a client for instance traffic. Panics on nil handler.
//
// Called from cmd/myregistry for the agent (registration, heartbeat, fetch).
func NewRegistryClient(handler Handler) *RegistryClient {
	return &RegistryClient{handler: helpers.NilPanic(handler, "transport.registry_client.go: handler is required")}
}

// NewReplicationClient creates a client for peer traffic sent by the node called peerName.
// Panics on nil handler or empty peerName.
//
// Called from replication for every peer and from cmd/myregistry for the startup sync.
func NewReplicationClient(handler Handler, peerName string) *RegistryClient {
	return &RegistryClient{
		handler:  helpers.NilPanic(handler, "transport.registry_client.go: handler is required"),
		peerName: helpers.StrPanic(peerName, "transport.registry_client.go: peerName is required"),
	}
}

func appPath(appName string) string {
	return "/apps/" + url.PathEscape(appName)
}

func instancePath(appName, id string) string {
	return appPath(appName) + "/" + url.PathEscape(id)
}

func (c *RegistryClient) newRequest(kind RequestKind, method, path string, query url.Values, body any) (*Request, error) {
	req := &Request{Kind: kind, Method: method, Path: path, Query: query, Header: http.Header{}}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, service.NewInternalServerError("Failed to encode request", err)
		}
		req.Body = payload
	}
	if c.peerName != "" {
		if req.Query == nil {
			req.Query = url.Values{}
		}
		req.Query.Set("replication", "true")
		req.Header.Set(api.ReplicationHeader, "true")
		req.Header.Set(api.PeerNameHeader, c.peerName)
	}
	return req, nil
}

func (c *RegistryClient) send(ctx context.Context, kind RequestKind, method, path string, query url.Values, body any) (*Response, error) {
	req, err := c.newRequest(kind, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.handler(ctx, req)
}

// statusError converts a non-2xx answer into a MyError, preferring the error rendered by the
// server.
func statusError(resp *Response) error {
	var rendered service.ErrResponse
	if err := json.Unmarshal(resp.Body, &rendered); err == nil && rendered.Error != nil && rendered.Error.Code != "" {
		return rendered.Error
	}
	msg := fmt.Sprintf("%s answered %d", resp.Endpoint, resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return service.NewEntityNotFoundError(msg, nil)
	case resp.StatusCode == http.StatusConflict:
		return service.NewConflictError(msg, nil)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return service.NewBadParameterError(msg, nil)
	default:
		return service.NewInternalServerError(msg, nil)
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Register implements interfaces.RegistryClient.
func (c *RegistryClient) Register(ctx context.Context, in *domain.InstanceInfo) error {
	resp, err := c.send(ctx, KindRegister, http.MethodPost, appPath(in.AppName), nil, api.RegisterRequest{Instance: api.FromInstance(in)})
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

// Cancel implements interfaces.RegistryClient.
func (c *RegistryClient) Cancel(ctx context.Context, appName, id string) error {
	resp, err := c.send(ctx, KindCancel, http.MethodDelete, instancePath(appName, id), nil, nil)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

// SendHeartbeat implements interfaces.RegistryClient.
func (c *RegistryClient) SendHeartbeat(ctx context.Context, in *domain.InstanceInfo, overriddenStatus domain.InstanceStatus) (int, *domain.InstanceInfo, error) {
	query := url.Values{}
	query.Set("status", string(in.Status))
	query.Set("lastDirtyTimestamp", strconv.FormatInt(in.LastDirtyTimestamp, 10))
	if overriddenStatus != "" {
		query.Set("overriddenstatus", string(overriddenStatus))
	}
	resp, err := c.send(ctx, KindHeartbeat, http.MethodPut, instancePath(in.AppName, in.InstanceID), query, nil)
	if err != nil {
		return 0, nil, err
	}
	switch {
	case isSuccess(resp.StatusCode), resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, nil, nil
	case resp.StatusCode == http.StatusConflict:
		var body api.InstanceResponse
		if err := json.Unmarshal(resp.Body, &body); err != nil || body.Instance.InstanceID == "" {
			return resp.StatusCode, nil, nil
		}
		return resp.StatusCode, api.ToInstance(body.Instance), nil
	default:
		return resp.StatusCode, nil, statusError(resp)
	}
}

func statusQuery(status domain.InstanceStatus, lastDirtyTimestamp int64) url.Values {
	query := url.Values{}
	if status != "" {
		query.Set("value", string(status))
	}
	query.Set("lastDirtyTimestamp", strconv.FormatInt(lastDirtyTimestamp, 10))
	return query
}

// StatusUpdate implements interfaces.RegistryClient.
func (c *RegistryClient) StatusUpdate(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64) error {
	resp, err := c.send(ctx, KindStatusUpdate, http.MethodPut, instancePath(appName, id)+"/status", statusQuery(status, lastDirtyTimestamp), nil)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

// DeleteStatusOverride implements interfaces.RegistryClient.
func (c *RegistryClient) DeleteStatusOverride(ctx context.Context, appName, id string, status domain.InstanceStatus, lastDirtyTimestamp int64) error {
	resp, err := c.send(ctx, KindDeleteStatusOverride, http.MethodDelete, instancePath(appName, id)+"/status", statusQuery(status, lastDirtyTimestamp), nil)
	if err != nil {
		return err
	}
	if !isSuccess(resp.StatusCode) {
		return statusError(resp)
	}
	return nil
}

func (c *RegistryClient) fetch(ctx context.Context, kind RequestKind, path string) (*domain.Applications, error) {
	resp, err := c.send(ctx, kind, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp)
	}
	var body api.ApplicationsResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, service.NewInternalServerError("Malformed registry payload from "+resp.Endpoint, err)
	}
	return api.ToApplications(body.Applications), nil
}

// Applications implements interfaces.RegistryClient.
func (c *RegistryClient) Applications(ctx context.Context) (*domain.Applications, error) {
	return c.fetch(ctx, KindFullFetch, "/apps")
}

// Delta implements interfaces.RegistryClient.
func (c *RegistryClient) Delta(ctx context.Context) (*domain.Applications, error) {
	return c.fetch(ctx, KindDeltaFetch, "/apps/delta")
}

// SubmitBatch implements interfaces.RegistryClient.
//
// Returns the per-entry results in request order; an error when the batch as a whole failed or
// the answer does not list one result per entry.
func (c *RegistryClient) SubmitBatch(ctx context.Context, entries []domain.ReplicationInstance) ([]domain.ReplicationResult, error) {
	list := api.ReplicationList{ReplicationList: make([]api.ReplicationInstance, 0, len(entries))}
	for _, e := range entries {
		list.ReplicationList = append(list.ReplicationList, api.FromReplicationInstance(e))
	}
	resp, err := c.send(ctx, KindReplicationBatch, http.MethodPost, "/peerreplication/batch/", nil, list)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, statusError(resp)
	}
	var body api.ReplicationListResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, service.NewInternalServerError("Malformed batch response from "+resp.Endpoint, err)
	}
	if len(body.ResponseList) != len(entries) {
		return nil, service.NewInternalServerError(fmt.Sprintf("Batch response from %s lists %d results for %d entries",
			resp.Endpoint, len(body.ResponseList), len(entries)), nil)
	}
	out := make([]domain.ReplicationResult, 0, len(entries))
	for _, r := range body.ResponseList {
		out = append(out, domain.ReplicationResult{StatusCode: r.StatusCode, Instance: api.ToInstancePtr(r.ResponseEntity)})
	}
	return out, nil
}
