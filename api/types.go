// Package api holds the JSON wire model of the registry REST surface and the OpenAPI document
// used to validate incoming requests.
package api

import _ "embed"

// OpenAPISpec is the registry OpenAPI document.
//
//go:embed registry.openapi.yaml
var OpenAPISpec []byte

// ReplicationHeader marks requests replayed by a peer node.
const ReplicationHeader = "X-Discovery-Replication"

// PeerNameHeader carries the name of the replaying peer.
const PeerNameHeader = "X-Discovery-Peer"

// LeaseInfo is the lease object of an instance.
type LeaseInfo struct {
	RenewalIntervalInSecs int   `json:"renewalIntervalInSecs"`
	DurationInSecs        int   `json:"durationInSecs"`
	RegistrationTimestamp int64 `json:"registrationTimestamp"`
	LastRenewalTimestamp  int64 `json:"lastRenewalTimestamp"`
	EvictionTimestamp     int64 `json:"evictionTimestamp"`
	ServiceUpTimestamp    int64 `json:"serviceUpTimestamp"`
}

// InstanceInfo is the instance object.
type InstanceInfo struct {
	InstanceID           string            `json:"instanceId"`
	App                  string            `json:"app"`
	HostName             string            `json:"hostName"`
	IPAddr               string            `json:"ipAddr"`
	Port                 int               `json:"port"`
	SecurePort           int               `json:"securePort,omitempty"`
	VIPAddress           string            `json:"vipAddress,omitempty"`
	SecureVIPAddress     string            `json:"secureVipAddress,omitempty"`
	Status               string            `json:"status"`
	OverriddenStatus     string            `json:"overriddenStatus,omitempty"`
	LeaseInfo            *LeaseInfo        `json:"leaseInfo,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	LastUpdatedTimestamp int64             `json:"lastUpdatedTimestamp,omitempty"`
	LastDirtyTimestamp   int64             `json:"lastDirtyTimestamp"`
	ActionType           string            `json:"actionType,omitempty"`
}

// Application groups the instances of one app.
type Application struct {
	Name      string         `json:"name"`
	Instances []InstanceInfo `json:"instance"`
}

// Applications is the full or delta registry payload.
type Applications struct {
	VersionsDelta int64         `json:"versions__delta"`
	AppsHashCode  string        `json:"apps__hashcode"`
	Applications  []Application `json:"application"`
}

// ApplicationsResponse wraps Applications the way the registry renders it.
type ApplicationsResponse struct {
	Applications Applications `json:"applications"`
}

// ApplicationResponse wraps one Application.
type ApplicationResponse struct {
	Application Application `json:"application"`
}

// InstanceResponse wraps one InstanceInfo.
type InstanceResponse struct {
	Instance InstanceInfo `json:"instance"`
}

// RegisterRequest is the body of POST /apps/{appName}.
type RegisterRequest struct {
	Instance InstanceInfo `json:"instance"`
}

// ReplicationInstance is one entry of a replication batch.
type ReplicationInstance struct {
	Action             string        `json:"action"`
	AppName            string        `json:"appName"`
	ID                 string        `json:"id"`
	LastDirtyTimestamp int64         `json:"lastDirtyTimestamp,omitempty"`
	OverriddenStatus   string        `json:"overriddenStatus,omitempty"`
	Status             string        `json:"status,omitempty"`
	InstanceInfo       *InstanceInfo `json:"instanceInfo,omitempty"`
}

// ReplicationList is the body of POST /peerreplication/batch/.
type ReplicationList struct {
	ReplicationList []ReplicationInstance `json:"replicationList"`
}

// ReplicationInstanceResponse is the outcome of one batch entry.
type ReplicationInstanceResponse struct {
	StatusCode     int           `json:"statusCode"`
	ResponseEntity *InstanceInfo `json:"responseEntity,omitempty"`
}

// ReplicationListResponse is parallel to ReplicationList.
type ReplicationListResponse struct {
	ResponseList []ReplicationInstanceResponse `json:"responseList"`
}

// Interest is the subscription filter of the interest stream as written in configuration.
type Interest struct {
	Kind     string `json:"kind"`
	Pattern  string `json:"pattern,omitempty"`
	Operator string `json:"operator,omitempty"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Node                   string   `json:"node"`
	Instances              int      `json:"instances"`
	ExpectedClients        int      `json:"expectedClients"`
	RenewsThreshold        int      `json:"renewsThreshold"`
	RenewsLastMinute       int      `json:"renewsLastMinute"`
	LeaseExpirationEnabled bool     `json:"leaseExpirationEnabled"`
	Peers                  []string `json:"peers"`
}
