package handlers

import (
	"context"
	"net/http"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/service"

	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// BatchReplication (POST /peerreplication/batch/) applies a peer's batch in order. Every entry
// gets its own result; a failing entry does not stop the batch.
func (h *HTTPServer) BatchReplication(ectx echo.Context) error {
	var req api.ReplicationList
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}
	ctx := ectx.Request().Context()
	source := domain.ReplicatedSource(peerName(ectx))
	results := make([]domain.ReplicationResult, 0, len(req.ReplicationList))
	for _, raw := range req.ReplicationList {
		entry, err := api.ToReplicationInstance(raw)
		if err != nil {
			results = append(results, toReplicationResult(service.NewBadParameterError("invalid replication entry", err)))
			continue
		}
		results = append(results, toReplicationResult(h.dispatch(ctx, entry, source)))
	}
	level.Debug(h.logger).Log("msg", "replication batch applied", "peer", source.Name, "entries", len(results))
	return ectx.JSON(http.StatusOK, toReplicationListResponse(results))
}

func (h *HTTPServer) dispatch(ctx context.Context, e domain.ReplicationInstance, source domain.Source) error {
	switch e.Action {
	case domain.ActionRegister:
		if e.Instance == nil {
			return service.NewBadParameterError("register entry without instance", nil)
		}
		return h.registry.Register(ctx, e.Instance, source)
	case domain.ActionHeartbeat:
		return h.heartbeat(ctx, e.AppName, e.ID, e.LastDirtyTimestamp, e.OverriddenStatus, source)
	case domain.ActionCancel:
		if !h.registry.Cancel(ctx, e.AppName, e.ID, source) {
			return service.NewEntityNotFoundError("instance not found", nil)
		}
	case domain.ActionStatusUpdate:
		if !e.Status.Valid() {
			return service.NewBadParameterError("status update entry without status", nil)
		}
		if !h.registry.StatusUpdate(ctx, e.AppName, e.ID, e.Status, e.LastDirtyTimestamp, source) {
			return service.NewEntityNotFoundError("instance not found", nil)
		}
	case domain.ActionDeleteStatusOverride:
		status := e.Status
		if status == "" {
			status = domain.StatusUnknown
		}
		if !h.registry.DeleteStatusOverride(ctx, e.AppName, e.ID, status, e.LastDirtyTimestamp, source) {
			return service.NewEntityNotFoundError("instance not found", nil)
		}
	default:
		return service.NewBadParameterError("unknown action "+string(e.Action), nil)
	}
	return nil
}
