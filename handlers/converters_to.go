package handlers

import (
	"net/http"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/registry"
	"myregistry/service"
)

// toReplicationResult maps the outcome of one batch entry to the status the peer expects.
func toReplicationResult(err error) domain.ReplicationResult {
	if err == nil {
		return domain.ReplicationResult{StatusCode: http.StatusOK}
	}
	if local, ok := registry.ConflictingInstance(err); ok {
		return domain.ReplicationResult{StatusCode: http.StatusConflict, Instance: local}
	}
	switch {
	case service.IsEntityNotFoundError(err):
		return domain.ReplicationResult{StatusCode: http.StatusNotFound}
	case service.IsBadParameterError(err):
		return domain.ReplicationResult{StatusCode: http.StatusBadRequest}
	case service.IsConflictError(err):
		return domain.ReplicationResult{StatusCode: http.StatusConflict}
	default:
		return domain.ReplicationResult{StatusCode: http.StatusInternalServerError}
	}
}

// toReplicationListResponse converts the batch results, in request order.
func toReplicationListResponse(results []domain.ReplicationResult) api.ReplicationListResponse {
	out := make([]api.ReplicationInstanceResponse, 0, len(results))
	for _, r := range results {
		out = append(out, api.ReplicationInstanceResponse{StatusCode: r.StatusCode, ResponseEntity: api.FromInstancePtr(r.Instance)})
	}
	return api.ReplicationListResponse{ResponseList: out}
}
