package domain

import (
	"maps"
	"time"
)

// InstanceStatus is the self-reported or operator-forced state of an instance.
type InstanceStatus string

const (
	StatusUp           InstanceStatus = "UP"
	StatusDown         InstanceStatus = "DOWN"
	StatusStarting     InstanceStatus = "STARTING"
	StatusOutOfService InstanceStatus = "OUT_OF_SERVICE"
	StatusUnknown      InstanceStatus = "UNKNOWN"
)

// ParseInstanceStatus converts s to an InstanceStatus. Unrecognized values map to UNKNOWN.
func ParseInstanceStatus(s string) InstanceStatus {
	switch InstanceStatus(s) {
	case StatusUp, StatusDown, StatusStarting, StatusOutOfService, StatusUnknown:
		return InstanceStatus(s)
	default:
		return StatusUnknown
	}
}

// Valid reports whether s is one of the known statuses.
func (s InstanceStatus) Valid() bool {
	return ParseInstanceStatus(string(s)) == s && s != ""
}

// ActionType tags an instance inside a delta with how it changed.
type ActionType string

const (
	ActionAdded    ActionType = "ADDED"
	ActionModified ActionType = "MODIFIED"
	ActionDeleted  ActionType = "DELETED"
)

const (
	// DefaultRenewalIntervalInSecs is the client heartbeat period.
	DefaultRenewalIntervalInSecs = 30
	// DefaultDurationInSecs is the lease expiry window.
	DefaultDurationInSecs = 90
)

// LeaseInfo is the lease part of an instance record as seen by clients. Timestamps are unix ms.
type LeaseInfo struct {
	RenewalIntervalInSecs int
	DurationInSecs        int
	RegistrationTimestamp int64
	LastRenewalTimestamp  int64
	EvictionTimestamp     int64
	ServiceUpTimestamp    int64
}

// RenewalInterval returns the declared heartbeat period, defaulting to 30s.
func (l *LeaseInfo) RenewalInterval() time.Duration {
	if l == nil || l.RenewalIntervalInSecs <= 0 {
		return DefaultRenewalIntervalInSecs * time.Second
	}
	return time.Duration(l.RenewalIntervalInSecs) * time.Second
}

// Duration returns the declared expiry window, defaulting to 90s.
func (l *LeaseInfo) Duration() time.Duration {
	if l == nil || l.DurationInSecs <= 0 {
		return DefaultDurationInSecs * time.Second
	}
	return time.Duration(l.DurationInSecs) * time.Second
}

// InstanceInfo is the identity and metadata of one service instance.
//
// Records admitted to the registry are never mutated in place: updates are whole-record
// replacements built with Clone and carry a newer LastDirtyTimestamp.
type InstanceInfo struct {
	InstanceID       string // unique, immutable
	AppName          string // upper-cased logical application name
	HostName         string
	IPAddr           string
	Port             int
	SecurePort       int
	VIPAddress       string
	SecureVIPAddress string
	Status           InstanceStatus
	OverriddenStatus InstanceStatus // operator-forced; UNKNOWN or empty when not set
	LeaseInfo        *LeaseInfo
	Metadata         map[string]string

	LastUpdatedTimestamp int64 // unix ms, set by the registry
	LastDirtyTimestamp   int64 // unix ms, set by the owning instance on every change
	ActionType           ActionType
}

// Clone returns a deep copy of the instance.
func (i *InstanceInfo) Clone() *InstanceInfo {
	if i == nil {
		return nil
	}
	out := *i
	if i.LeaseInfo != nil {
		lease := *i.LeaseInfo
		out.LeaseInfo = &lease
	}
	if i.Metadata != nil {
		out.Metadata = maps.Clone(i.Metadata)
	}
	return &out
}

// HasOverride reports whether an operator override is set.
func (i *InstanceInfo) HasOverride() bool {
	return i.OverriddenStatus != "" && i.OverriddenStatus != StatusUnknown
}

// MarkDirty stamps the instance as changed at now.
func (i *InstanceInfo) MarkDirty(now time.Time) {
	i.LastDirtyTimestamp = now.UnixMilli()
}
