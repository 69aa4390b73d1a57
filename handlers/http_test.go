package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/interfaces/mock"
	"myregistry/registry"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNode = "http://a:8761"

func newTestStore() *registry.LeaseStore {
	return registry.NewLeaseStore(registry.DefaultConfig(testNode), helpers.NewFakeClock(helpers.TestNow()), nil, log.NewNopLogger())
}

func newTestEcho(t *testing.T, reg interfaces.InstanceRegistry, status NodeStatus) *echo.Echo {
	e := echo.New()
	service.RegisterErrorHandler(e, log.NewNopLogger())
	validator, err := NewRequestValidator(api.OpenAPISpec)
	require.NoError(t, err)
	e.Use(validator)
	RegisterHandlers(e, NewHTTPServer(reg, status, func() []string { return []string{"http://b:8761"} }, testNode, log.NewNopLogger()))
	return e
}

func do(e *echo.Echo, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.NotEmpty(t, body.Error.Message)
	return body.Error.Code
}

const registerBody = `{"instance":{"instanceId":"i-1","app":"ORDERS","hostName":"orders-1","ipAddr":"10.0.0.1","port":8080,"status":"UP","lastDirtyTimestamp":1000}}`

func TestNewHTTPServer_Panics(t *testing.T) {
	store := newTestStore()
	assert.PanicsWithValue(t, "handlers.http.go: registry is required", func() {
		NewHTTPServer(nil, store, nil, testNode, log.NewNopLogger())
	})
	assert.PanicsWithValue(t, "handlers.http.go: nodeName is required", func() {
		NewHTTPServer(store, store, nil, "", log.NewNopLogger())
	})
}

func TestHTTPServer_RegisterInstance(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "ok", path: "/apps/ORDERS", body: registerBody, expectedStatus: http.StatusNoContent},
		{name: "ok lower case path", path: "/apps/orders", body: registerBody, expectedStatus: http.StatusNoContent},
		{name: "400 invalid JSON", path: "/apps/ORDERS", body: `{invalid`, expectedStatus: http.StatusBadRequest, expectedCode: service.ErrBadParameter},
		{
			name:           "400 missing hostName",
			path:           "/apps/ORDERS",
			body:           `{"instance":{"instanceId":"i-1","app":"ORDERS"}}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 invalid status",
			path:           "/apps/ORDERS",
			body:           `{"instance":{"instanceId":"i-1","app":"ORDERS","hostName":"h","status":"SLEEPING"}}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{name: "400 app does not match path", path: "/apps/BILLING", body: registerBody, expectedStatus: http.StatusBadRequest, expectedCode: service.ErrBadParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			e := newTestEcho(t, store, store)

			rec := do(e, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, rec))
				assert.Equal(t, 0, store.Size())
				return
			}
			in, ok := store.Instance("ORDERS", "i-1")
			require.True(t, ok)
			assert.Equal(t, "orders-1", in.HostName)
			assert.Equal(t, int64(1000), in.LastDirtyTimestamp)
		})
	}
}

func TestHTTPServer_RegisterInstance_InternalError(t *testing.T) {
	reg := &mock.InstanceRegistryMock{
		RegisterFunc: func(ctx context.Context, in *domain.InstanceInfo, source domain.Source) error {
			return assert.AnError
		},
	}
	e := newTestEcho(t, reg, newTestStore())

	rec := do(e, http.MethodPost, "/apps/ORDERS", registerBody, api.ReplicationHeader, "true", api.PeerNameHeader, "http://b:8761")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, service.ErrInternalServerError, errorCode(t, rec))
	require.Len(t, reg.RegisterCalls(), 1)
	assert.Equal(t, domain.ReplicatedSource("http://b:8761"), reg.RegisterCalls()[0].Source)
}

func TestHTTPServer_Queries(t *testing.T) {
	store := newTestStore()
	e := newTestEcho(t, store, store)
	require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/apps/ORDERS", registerBody).Code)

	t.Run("full registry", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/apps", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.ApplicationsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Applications.Applications, 1)
		assert.Equal(t, "ORDERS", resp.Applications.Applications[0].Name)
		assert.Equal(t, store.Applications().ComputeHashCode(), resp.Applications.AppsHashCode)
	})

	t.Run("delta", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/apps/delta", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.ApplicationsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Applications.Applications, 1)
		assert.Equal(t, "UP_1_", resp.Applications.AppsHashCode)
	})

	t.Run("application", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/apps/orders", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.ApplicationResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Application.Instances, 1)
	})

	t.Run("unknown application", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/apps/BILLING", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, service.ErrEntityNotFound, errorCode(t, rec))
	})

	t.Run("instance", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/apps/ORDERS/i-1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.InstanceResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "i-1", resp.Instance.InstanceID)
		require.NotNil(t, resp.Instance.LeaseInfo)
		assert.Equal(t, helpers.TestNow().UnixMilli(), resp.Instance.LeaseInfo.RegistrationTimestamp)
	})

	t.Run("status", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.StatusResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, testNode, resp.Node)
		assert.Equal(t, 1, resp.Instances)
		assert.Equal(t, []string{"http://b:8761"}, resp.Peers)
	})
}

func TestHTTPServer_RenewLease(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		header         []string
		expectedStatus int
		wantLocalCopy  bool
	}{
		{name: "ok", target: "/apps/ORDERS/i-1?status=UP&lastDirtyTimestamp=1000", expectedStatus: http.StatusOK},
		{name: "ok without timestamp", target: "/apps/ORDERS/i-1", expectedStatus: http.StatusOK},
		{name: "404 unknown lease", target: "/apps/ORDERS/i-9", expectedStatus: http.StatusNotFound},
		{name: "404 newer client record", target: "/apps/ORDERS/i-1?lastDirtyTimestamp=2000", expectedStatus: http.StatusNotFound},
		{name: "ok older client record", target: "/apps/ORDERS/i-1?lastDirtyTimestamp=500", expectedStatus: http.StatusOK},
		{
			name:           "409 older replicated record",
			target:         "/apps/ORDERS/i-1?lastDirtyTimestamp=500&replication=true",
			header:         []string{api.PeerNameHeader, "http://b:8761"},
			expectedStatus: http.StatusConflict,
			wantLocalCopy:  true,
		},
		{name: "400 malformed timestamp", target: "/apps/ORDERS/i-1?lastDirtyTimestamp=soon", expectedStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore()
			e := newTestEcho(t, store, store)
			require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/apps/ORDERS", registerBody).Code)

			rec := do(e, http.MethodPut, tt.target, "", tt.header...)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantLocalCopy {
				var resp api.InstanceResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, int64(1000), resp.Instance.LastDirtyTimestamp)
			}
		})
	}
}

func TestHTTPServer_CancelLease(t *testing.T) {
	store := newTestStore()
	e := newTestEcho(t, store, store)
	require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/apps/ORDERS", registerBody).Code)

	assert.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/apps/ORDERS/i-1", "").Code)
	assert.Equal(t, 0, store.Size())

	rec := do(e, http.MethodDelete, "/apps/ORDERS/i-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.ErrEntityNotFound, errorCode(t, rec))
}

func TestHTTPServer_StatusOverride(t *testing.T) {
	store := newTestStore()
	e := newTestEcho(t, store, store)
	require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/apps/ORDERS", registerBody).Code)

	rec := do(e, http.MethodPut, "/apps/ORDERS/i-1/status", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "value is required")
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPut, "/apps/ORDERS/i-1/status?value=SLEEPING", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodPut, "/apps/ORDERS/i-9/status?value=DOWN", "").Code)

	require.Equal(t, http.StatusOK, do(e, http.MethodPut, "/apps/ORDERS/i-1/status?value=OUT_OF_SERVICE&lastDirtyTimestamp=1500", "").Code)
	in, ok := store.Instance("ORDERS", "i-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusOutOfService, in.Status)
	assert.Equal(t, domain.StatusOutOfService, in.OverriddenStatus)

	require.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/apps/ORDERS/i-1/status?value=UP", "").Code)
	in, ok = store.Instance("ORDERS", "i-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusUp, in.Status)
	assert.False(t, in.HasOverride())
}
