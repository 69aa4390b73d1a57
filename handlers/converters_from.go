package handlers

import (
	"strconv"
	"strings"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/service"
)

// fromRegisterRequest converts RegisterRequest to a domain record of the app named by the path.
// Returns service.BadParameterError on validation failure.
func fromRegisterRequest(appName string, req api.RegisterRequest) (*domain.InstanceInfo, error) {
	if req.Instance.InstanceID == "" {
		return nil, service.NewBadParameterError("instanceId is required", nil)
	}
	if req.Instance.HostName == "" {
		return nil, service.NewBadParameterError("hostName is required", nil)
	}
	if req.Instance.App == "" {
		req.Instance.App = appName
	}
	if !strings.EqualFold(req.Instance.App, appName) {
		return nil, service.NewBadParameterError("app does not match the path", nil)
	}
	if req.Instance.Status != "" && !domain.InstanceStatus(req.Instance.Status).Valid() {
		return nil, service.NewBadParameterError("invalid status "+req.Instance.Status, nil)
	}
	return api.ToInstance(req.Instance), nil
}

// fromLastDirtyTimestamp parses the optional lastDirtyTimestamp query parameter; absent is 0.
func fromLastDirtyTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ts < 0 {
		return 0, service.NewBadParameterError("invalid lastDirtyTimestamp", err)
	}
	return ts, nil
}

// fromStatusParam parses a status query parameter. An absent optional value is UNKNOWN.
func fromStatusParam(s string, required bool) (domain.InstanceStatus, error) {
	if s == "" {
		if required {
			return "", service.NewBadParameterError("value is required", nil)
		}
		return domain.StatusUnknown, nil
	}
	status := domain.InstanceStatus(s)
	if !status.Valid() {
		return "", service.NewBadParameterError("invalid status "+s, nil)
	}
	return status, nil
}
