package domain

import (
	"fmt"
	"maps"
)

// Field names one updatable part of an InstanceInfo.
type Field string

const (
	FieldStatus           Field = "status"
	FieldOverriddenStatus Field = "overriddenStatus"
	FieldHostName         Field = "hostName"
	FieldIPAddr           Field = "ipAddr"
	FieldPort             Field = "port"
	FieldVIPAddress       Field = "vipAddress"
	FieldMetadata         Field = "metadata"
)

// Delta is a named-field partial update of one instance.
type Delta struct {
	ID    string
	Field Field
	Value any
}

// Apply returns a copy of in with the delta applied. in is not modified.
func (d Delta) Apply(in *InstanceInfo) (*InstanceInfo, error) {
	if in == nil {
		return nil, fmt.Errorf("apply delta %s to nil instance", d.Field)
	}
	if d.ID != "" && d.ID != in.InstanceID {
		return nil, fmt.Errorf("delta for %q applied to instance %q", d.ID, in.InstanceID)
	}
	out := in.Clone()
	switch d.Field {
	case FieldStatus, FieldOverriddenStatus:
		status, ok := d.Value.(InstanceStatus)
		if !ok {
			return nil, fmt.Errorf("delta %s: expected InstanceStatus, got %T", d.Field, d.Value)
		}
		if d.Field == FieldStatus {
			out.Status = status
		} else {
			out.OverriddenStatus = status
		}
	case FieldHostName, FieldIPAddr, FieldVIPAddress:
		s, ok := d.Value.(string)
		if !ok {
			return nil, fmt.Errorf("delta %s: expected string, got %T", d.Field, d.Value)
		}
		switch d.Field {
		case FieldHostName:
			out.HostName = s
		case FieldIPAddr:
			out.IPAddr = s
		default:
			out.VIPAddress = s
		}
	case FieldPort:
		port, ok := d.Value.(int)
		if !ok {
			return nil, fmt.Errorf("delta %s: expected int, got %T", d.Field, d.Value)
		}
		out.Port = port
	case FieldMetadata:
		md, ok := d.Value.(map[string]string)
		if !ok {
			return nil, fmt.Errorf("delta %s: expected map[string]string, got %T", d.Field, d.Value)
		}
		out.Metadata = maps.Clone(md)
	default:
		return nil, fmt.Errorf("unknown delta field %q", d.Field)
	}
	return out, nil
}

// ApplyAll applies deltas in order.
func ApplyAll(in *InstanceInfo, deltas []Delta) (*InstanceInfo, error) {
	out := in
	for _, d := range deltas {
		next, err := d.Apply(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// Diff lists the deltas that turn prev into next. Both must describe the same instance.
func Diff(prev, next *InstanceInfo) []Delta {
	if prev == nil || next == nil {
		return nil
	}
	id := next.InstanceID
	var out []Delta
	if prev.Status != next.Status {
		out = append(out, Delta{ID: id, Field: FieldStatus, Value: next.Status})
	}
	if prev.OverriddenStatus != next.OverriddenStatus {
		out = append(out, Delta{ID: id, Field: FieldOverriddenStatus, Value: next.OverriddenStatus})
	}
	if prev.HostName != next.HostName {
		out = append(out, Delta{ID: id, Field: FieldHostName, Value: next.HostName})
	}
	if prev.IPAddr != next.IPAddr {
		out = append(out, Delta{ID: id, Field: FieldIPAddr, Value: next.IPAddr})
	}
	if prev.Port != next.Port {
		out = append(out, Delta{ID: id, Field: FieldPort, Value: next.Port})
	}
	if prev.VIPAddress != next.VIPAddress {
		out = append(out, Delta{ID: id, Field: FieldVIPAddress, Value: next.VIPAddress})
	}
	if !maps.Equal(prev.Metadata, next.Metadata) {
		out = append(out, Delta{ID: id, Field: FieldMetadata, Value: maps.Clone(next.Metadata)})
	}
	return out
}
