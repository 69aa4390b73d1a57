package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"myregistry/api"
	"myregistry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPServer_BatchReplication(t *testing.T) {
	store := newTestStore()
	e := newTestEcho(t, store, store)
	require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/apps/ORDERS", registerBody).Code)

	peerCopy := api.InstanceInfo{InstanceID: "i-2", App: "ORDERS", HostName: "orders-2", Status: "UP", LastDirtyTimestamp: 3000}
	stale := api.InstanceInfo{InstanceID: "i-1", App: "ORDERS", HostName: "orders-1-old", Status: "UP", LastDirtyTimestamp: 400}
	list := api.ReplicationList{ReplicationList: []api.ReplicationInstance{
		{Action: string(domain.ActionRegister), AppName: "ORDERS", ID: "i-2", InstanceInfo: &peerCopy},
		{Action: string(domain.ActionHeartbeat), AppName: "ORDERS", ID: "i-2", LastDirtyTimestamp: 3000, Status: "UP"},
		{Action: string(domain.ActionRegister), AppName: "ORDERS", ID: "i-1", InstanceInfo: &stale},
		{Action: string(domain.ActionHeartbeat), AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 900},
		{Action: string(domain.ActionStatusUpdate), AppName: "ORDERS", ID: "i-9", Status: "DOWN"},
		{Action: string(domain.ActionStatusUpdate), AppName: "ORDERS", ID: "i-2", Status: "OUT_OF_SERVICE", LastDirtyTimestamp: 3000},
		{Action: string(domain.ActionDeleteStatusOverride), AppName: "ORDERS", ID: "i-2", LastDirtyTimestamp: 3000},
		{Action: string(domain.ActionCancel), AppName: "ORDERS", ID: "i-2"},
		{Action: string(domain.ActionCancel), AppName: "ORDERS", ID: "i-2"},
		{Action: string(domain.ActionRegister), AppName: "ORDERS", ID: "i-3"},
	}}
	body, err := json.Marshal(list)
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "/peerreplication/batch/", string(body), api.PeerNameHeader, "http://b:8761")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.ReplicationListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.ResponseList, len(list.ReplicationList))
	codes := make([]int, 0, len(resp.ResponseList))
	for _, r := range resp.ResponseList {
		codes = append(codes, r.StatusCode)
	}
	assert.Equal(t, []int{
		http.StatusOK,
		http.StatusOK,
		http.StatusConflict,
		http.StatusConflict,
		http.StatusNotFound,
		http.StatusOK,
		http.StatusOK,
		http.StatusOK,
		http.StatusNotFound,
		http.StatusBadRequest,
	}, codes)
	require.NotNil(t, resp.ResponseList[2].ResponseEntity, "a conflict carries the local copy")
	assert.Equal(t, "orders-1", resp.ResponseList[2].ResponseEntity.HostName)
	assert.Equal(t, int64(1000), resp.ResponseList[3].ResponseEntity.LastDirtyTimestamp)

	in, ok := store.Instance("ORDERS", "i-1")
	require.True(t, ok)
	assert.Equal(t, "orders-1", in.HostName, "the older replicated record did not replace the local one")
	_, ok = store.Instance("ORDERS", "i-2")
	assert.False(t, ok)
}

func TestHTTPServer_BatchReplication_Invalid(t *testing.T) {
	store := newTestStore()
	e := newTestEcho(t, store, store)

	rec := do(e, http.MethodPost, "/peerreplication/batch/", `{"replicationList":[{"action":"Evict","appName":"ORDERS","id":"i-1"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown actions are rejected by the API document")

	rec = do(e, http.MethodPost, "/peerreplication/batch/", `{"replicationList":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.ReplicationListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.ResponseList)
}

func TestHTTPServer_BatchReplication_HeartbeatCarriesOverride(t *testing.T) {
	store := newTestStore()
	e := newTestEcho(t, store, store)
	require.Equal(t, http.StatusNoContent, do(e, http.MethodPost, "/apps/ORDERS", registerBody).Code)

	// a client heartbeat never sets an override
	require.Equal(t, http.StatusOK, do(e, http.MethodPut, "/apps/ORDERS/i-1?lastDirtyTimestamp=1000&overriddenstatus=DOWN", "").Code)
	in, ok := store.Instance("ORDERS", "i-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusUp, in.Status)

	list := api.ReplicationList{ReplicationList: []api.ReplicationInstance{
		{Action: string(domain.ActionHeartbeat), AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 1000, OverriddenStatus: "OUT_OF_SERVICE"},
		{Action: string(domain.ActionHeartbeat), AppName: "ORDERS", ID: "i-1", LastDirtyTimestamp: 1000, OverriddenStatus: "UNKNOWN"},
	}}
	body, err := json.Marshal(list)
	require.NoError(t, err)
	rec := do(e, http.MethodPost, "/peerreplication/batch/", string(body), api.PeerNameHeader, "http://b:8761")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.ReplicationListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.ResponseList, 2)
	assert.Equal(t, http.StatusOK, resp.ResponseList[0].StatusCode)
	assert.Equal(t, http.StatusOK, resp.ResponseList[1].StatusCode)

	in, ok = store.Instance("ORDERS", "i-1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusOutOfService, in.OverriddenStatus)
	assert.Equal(t, domain.StatusOutOfService, in.Status, "UNKNOWN does not clear the override")

	// the same override again changes nothing
	rec = do(e, http.MethodPut, "/apps/ORDERS/i-1?lastDirtyTimestamp=1000&overriddenstatus=OUT_OF_SERVICE&replication=true", "", api.PeerNameHeader, "http://b:8761")
	require.Equal(t, http.StatusOK, rec.Code)
	again, ok := store.Instance("ORDERS", "i-1")
	require.True(t, ok)
	assert.Equal(t, in.LastUpdatedTimestamp, again.LastUpdatedTimestamp)
	assert.Equal(t, domain.StatusOutOfService, again.Status)
}
