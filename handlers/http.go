package handlers

import (
	"context"
	"net/http"
	"strings"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/registry"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// NodeStatus exposes the lease accounting shown by GET /status. Implemented by
// registry.LeaseStore.
type NodeStatus interface {
	Size() int
	ExpectedClients() int
	Threshold() int
	RenewsLastMinute() int
	IsLeaseExpirationEnabled() bool
}

// HTTPServer serves the registry REST API.
type HTTPServer struct {
	registry interfaces.InstanceRegistry
	status   NodeStatus
	peers    func() []string
	nodeName string
	logger   log.Logger
}

// NewHTTPServer creates a new HTTPServer. peers lists the replication peers for GET /status and
// may be nil.
func NewHTTPServer(registry interfaces.InstanceRegistry, status NodeStatus, peers func() []string, nodeName string, logger log.Logger) *HTTPServer {
	logger = log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "HTTPServer")
	return &HTTPServer{
		registry: helpers.NilPanic(registry, "handlers.http.go: registry is required"),
		status:   helpers.NilPanic(status, "handlers.http.go: status is required"),
		peers:    peers,
		nodeName: helpers.StrPanic(nodeName, "handlers.http.go: nodeName is required"),
		logger:   logger,
	}
}

// RegisterHandlers adds the registry routes to e.
func RegisterHandlers(e *echo.Echo, h *HTTPServer) {
	e.GET("/apps", h.GetApplications)
	e.GET("/apps/delta", h.GetApplicationDeltas)
	e.GET("/apps/:appName", h.GetApplication)
	e.POST("/apps/:appName", h.RegisterInstance)
	e.GET("/apps/:appName/:instanceId", h.GetInstance)
	e.PUT("/apps/:appName/:instanceId", h.RenewLease)
	e.DELETE("/apps/:appName/:instanceId", h.CancelLease)
	e.PUT("/apps/:appName/:instanceId/status", h.StatusUpdate)
	e.DELETE("/apps/:appName/:instanceId/status", h.DeleteStatusOverride)
	e.POST("/peerreplication/batch/", h.BatchReplication)
	e.GET("/status", h.GetStatus)
}

// source tells direct client traffic from traffic replayed by a peer.
func (h *HTTPServer) source(ectx echo.Context) domain.Source {
	req := ectx.Request()
	if req.URL.Query().Get("replication") == "true" || req.Header.Get(api.ReplicationHeader) == "true" {
		return domain.ReplicatedSource(peerName(ectx))
	}
	return domain.LocalSource(h.nodeName)
}

func peerName(ectx echo.Context) string {
	if name := ectx.Request().Header.Get(api.PeerNameHeader); name != "" {
		return name
	}
	return ectx.RealIP()
}

// GetApplications (GET /apps) returns the full registry.
func (h *HTTPServer) GetApplications(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, api.ApplicationsResponse{Applications: api.FromApplications(h.registry.Applications())})
}

// GetApplicationDeltas (GET /apps/delta) returns the recent changes and the full-registry hash.
func (h *HTTPServer) GetApplicationDeltas(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, api.ApplicationsResponse{Applications: api.FromApplications(h.registry.Delta())})
}

// GetApplication (GET /apps/{appName}) returns the instances of one application.
func (h *HTTPServer) GetApplication(ectx echo.Context) error {
	app, ok := h.registry.Applications().Application(strings.ToUpper(ectx.Param("appName")))
	if !ok {
		return service.NewEntityNotFoundError("application not found", nil)
	}
	return ectx.JSON(http.StatusOK, api.ApplicationResponse{Application: api.FromApplication(app)})
}

// GetInstance (GET /apps/{appName}/{instanceId}) returns one instance.
func (h *HTTPServer) GetInstance(ectx echo.Context) error {
	in, ok := h.registry.Instance(ectx.Param("appName"), ectx.Param("instanceId"))
	if !ok {
		return service.NewEntityNotFoundError("instance not found", nil)
	}
	return ectx.JSON(http.StatusOK, api.InstanceResponse{Instance: api.FromInstance(in)})
}

// RegisterInstance (POST /apps/{appName}) admits or replaces an instance. Returns 204 on
// success, 400 on validation error, 409 with the local copy when a replicated record is older.
func (h *HTTPServer) RegisterInstance(ectx echo.Context) error {
	var req api.RegisterRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	in, err := fromRegisterRequest(ectx.Param("appName"), req)
	if err != nil {
		return err
	}
	if err := h.registry.Register(ectx.Request().Context(), in, h.source(ectx)); err != nil {
		return conflictOr(ectx, err)
	}
	return ectx.NoContent(http.StatusNoContent)
}

// RenewLease (PUT /apps/{appName}/{instanceId}) records a heartbeat. Returns 200, 404 when the
// client must register again, or 409 with the local copy.
func (h *HTTPServer) RenewLease(ectx echo.Context) error {
	lastDirty, err := fromLastDirtyTimestamp(ectx.QueryParam("lastDirtyTimestamp"))
	if err != nil {
		return err
	}
	overridden, err := fromStatusParam(ectx.QueryParam("overriddenstatus"), false)
	if err != nil {
		return err
	}
	if err := h.heartbeat(ectx.Request().Context(), ectx.Param("appName"), ectx.Param("instanceId"), lastDirty, overridden, h.source(ectx)); err != nil {
		return conflictOr(ectx, err)
	}
	return ectx.NoContent(http.StatusOK)
}

// CancelLease (DELETE /apps/{appName}/{instanceId}) removes a lease.
func (h *HTTPServer) CancelLease(ectx echo.Context) error {
	if !h.registry.Cancel(ectx.Request().Context(), ectx.Param("appName"), ectx.Param("instanceId"), h.source(ectx)) {
		return service.NewEntityNotFoundError("instance not found", nil)
	}
	return ectx.NoContent(http.StatusOK)
}

// StatusUpdate (PUT /apps/{appName}/{instanceId}/status?value=) stores an operator override.
func (h *HTTPServer) StatusUpdate(ectx echo.Context) error {
	status, err := fromStatusParam(ectx.QueryParam("value"), true)
	if err != nil {
		return err
	}
	lastDirty, err := fromLastDirtyTimestamp(ectx.QueryParam("lastDirtyTimestamp"))
	if err != nil {
		return err
	}
	if !h.registry.StatusUpdate(ectx.Request().Context(), ectx.Param("appName"), ectx.Param("instanceId"), status, lastDirty, h.source(ectx)) {
		return service.NewEntityNotFoundError("instance not found", nil)
	}
	return ectx.NoContent(http.StatusOK)
}

// DeleteStatusOverride (DELETE /apps/{appName}/{instanceId}/status) removes an override; the
// record takes value, or UNKNOWN when value is absent.
func (h *HTTPServer) DeleteStatusOverride(ectx echo.Context) error {
	status, err := fromStatusParam(ectx.QueryParam("value"), false)
	if err != nil {
		return err
	}
	lastDirty, err := fromLastDirtyTimestamp(ectx.QueryParam("lastDirtyTimestamp"))
	if err != nil {
		return err
	}
	if !h.registry.DeleteStatusOverride(ectx.Request().Context(), ectx.Param("appName"), ectx.Param("instanceId"), status, lastDirty, h.source(ectx)) {
		return service.NewEntityNotFoundError("instance not found", nil)
	}
	return ectx.NoContent(http.StatusOK)
}

// GetStatus (GET /status) reports the lease accounting of this node.
func (h *HTTPServer) GetStatus(ectx echo.Context) error {
	peers := []string{}
	if h.peers != nil {
		peers = h.peers()
	}
	return ectx.JSON(http.StatusOK, api.StatusResponse{
		Node:                   h.nodeName,
		Instances:              h.status.Size(),
		ExpectedClients:        h.status.ExpectedClients(),
		RenewsThreshold:        h.status.Threshold(),
		RenewsLastMinute:       h.status.RenewsLastMinute(),
		LeaseExpirationEnabled: h.status.IsLeaseExpirationEnabled(),
		Peers:                  peers,
	})
}

// heartbeat checks the sender's lastDirtyTimestamp against the stored record, then renews. A
// replicated heartbeat carrying an override this node does not hold yet stores that override.
//
// Returns: nil when renewed; entity_not_found when the sender must register; conflict with the
// local copy when a replicated heartbeat is older.
func (h *HTTPServer) heartbeat(ctx context.Context, appName, id string, lastDirty int64, overridden domain.InstanceStatus, source domain.Source) error {
	if err := h.registry.ValidateDirtyTimestamp(appName, id, lastDirty, source.IsReplication()); err != nil {
		return err
	}
	if !h.registry.Renew(ctx, appName, id, source) {
		return service.NewEntityNotFoundError("instance not found", nil)
	}
	if !source.IsReplication() || overridden == "" || overridden == domain.StatusUnknown {
		return nil
	}
	if in, ok := h.registry.Instance(appName, id); ok && in.OverriddenStatus != overridden {
		level.Info(h.logger).Log("msg", "Applying override carried by a replicated heartbeat", "app", appName, "id", id, "override", overridden)
		h.registry.StatusUpdate(ctx, appName, id, overridden, lastDirty, source)
	}
	return nil
}

// conflictOr answers a conflict with 409 and the local copy, and hands every other error to the
// error handler.
func conflictOr(ectx echo.Context, err error) error {
	if local, ok := registry.ConflictingInstance(err); ok {
		return ectx.JSON(http.StatusConflict, api.InstanceResponse{Instance: api.FromInstance(local)})
	}
	return err
}

var _ NodeStatus = (*registry.LeaseStore)(nil)
