package api

import (
	"fmt"
	"maps"
	"strings"

	"myregistry/domain"
)

// FromInstance maps a domain instance to its wire form.
func FromInstance(in *domain.InstanceInfo) InstanceInfo {
	out := InstanceInfo{
		InstanceID:           in.InstanceID,
		App:                  in.AppName,
		HostName:             in.HostName,
		IPAddr:               in.IPAddr,
		Port:                 in.Port,
		SecurePort:           in.SecurePort,
		VIPAddress:           in.VIPAddress,
		SecureVIPAddress:     in.SecureVIPAddress,
		Status:               string(in.Status),
		OverriddenStatus:     string(in.OverriddenStatus),
		Metadata:             maps.Clone(in.Metadata),
		LastUpdatedTimestamp: in.LastUpdatedTimestamp,
		LastDirtyTimestamp:   in.LastDirtyTimestamp,
		ActionType:           string(in.ActionType),
	}
	if in.LeaseInfo != nil {
		out.LeaseInfo = &LeaseInfo{
			RenewalIntervalInSecs: in.LeaseInfo.RenewalIntervalInSecs,
			DurationInSecs:        in.LeaseInfo.DurationInSecs,
			RegistrationTimestamp: in.LeaseInfo.RegistrationTimestamp,
			LastRenewalTimestamp:  in.LeaseInfo.LastRenewalTimestamp,
			EvictionTimestamp:     in.LeaseInfo.EvictionTimestamp,
			ServiceUpTimestamp:    in.LeaseInfo.ServiceUpTimestamp,
		}
	}
	return out
}

// ToInstance maps a wire instance to the domain. The app name is upper-cased and unknown
// statuses become UNKNOWN; no validation is done here.
func ToInstance(in InstanceInfo) *domain.InstanceInfo {
	out := &domain.InstanceInfo{
		InstanceID:           in.InstanceID,
		AppName:              strings.ToUpper(in.App),
		HostName:             in.HostName,
		IPAddr:               in.IPAddr,
		Port:                 in.Port,
		SecurePort:           in.SecurePort,
		VIPAddress:           in.VIPAddress,
		SecureVIPAddress:     in.SecureVIPAddress,
		Status:               domain.ParseInstanceStatus(in.Status),
		Metadata:             maps.Clone(in.Metadata),
		LastUpdatedTimestamp: in.LastUpdatedTimestamp,
		LastDirtyTimestamp:   in.LastDirtyTimestamp,
		ActionType:           domain.ActionType(in.ActionType),
	}
	if in.Status == "" {
		out.Status = domain.StatusUp
	}
	if in.OverriddenStatus != "" {
		out.OverriddenStatus = domain.ParseInstanceStatus(in.OverriddenStatus)
	}
	if in.LeaseInfo != nil {
		out.LeaseInfo = &domain.LeaseInfo{
			RenewalIntervalInSecs: in.LeaseInfo.RenewalIntervalInSecs,
			DurationInSecs:        in.LeaseInfo.DurationInSecs,
			RegistrationTimestamp: in.LeaseInfo.RegistrationTimestamp,
			LastRenewalTimestamp:  in.LeaseInfo.LastRenewalTimestamp,
			EvictionTimestamp:     in.LeaseInfo.EvictionTimestamp,
			ServiceUpTimestamp:    in.LeaseInfo.ServiceUpTimestamp,
		}
	}
	return out
}

// FromInstancePtr is FromInstance for optional values.
func FromInstancePtr(in *domain.InstanceInfo) *InstanceInfo {
	if in == nil {
		return nil
	}
	out := FromInstance(in)
	return &out
}

// ToInstancePtr is ToInstance for optional values.
func ToInstancePtr(in *InstanceInfo) *domain.InstanceInfo {
	if in == nil {
		return nil
	}
	return ToInstance(*in)
}

// FromApplication maps one application.
func FromApplication(app *domain.Application) Application {
	instances := app.Instances()
	out := Application{Name: app.Name, Instances: make([]InstanceInfo, 0, len(instances))}
	for _, in := range instances {
		out.Instances = append(out.Instances, FromInstance(in))
	}
	return out
}

// FromApplications maps the aggregate.
func FromApplications(apps *domain.Applications) Applications {
	list := apps.List()
	out := Applications{
		VersionsDelta: apps.Version,
		AppsHashCode:  apps.HashCode,
		Applications:  make([]Application, 0, len(list)),
	}
	for _, app := range list {
		out.Applications = append(out.Applications, FromApplication(app))
	}
	return out
}

// ToApplications maps the wire aggregate back to the domain.
func ToApplications(in Applications) *domain.Applications {
	out := domain.NewApplications()
	out.Version = in.VersionsDelta
	out.HashCode = in.AppsHashCode
	for _, app := range in.Applications {
		for _, inst := range app.Instances {
			d := ToInstance(inst)
			if d.AppName == "" {
				d.AppName = strings.ToUpper(app.Name)
			}
			out.Add(d)
		}
	}
	return out
}

// FromReplicationInstance maps one outgoing batch entry.
func FromReplicationInstance(in domain.ReplicationInstance) ReplicationInstance {
	return ReplicationInstance{
		Action:             string(in.Action),
		AppName:            in.AppName,
		ID:                 in.ID,
		LastDirtyTimestamp: in.LastDirtyTimestamp,
		OverriddenStatus:   string(in.OverriddenStatus),
		Status:             string(in.Status),
		InstanceInfo:       FromInstancePtr(in.Instance),
	}
}

// ToReplicationInstance maps one incoming batch entry.
func ToReplicationInstance(in ReplicationInstance) (domain.ReplicationInstance, error) {
	action := domain.ReplicationAction(in.Action)
	switch action {
	case domain.ActionRegister, domain.ActionCancel, domain.ActionHeartbeat,
		domain.ActionStatusUpdate, domain.ActionDeleteStatusOverride:
	default:
		return domain.ReplicationInstance{}, fmt.Errorf("unknown replication action %q", in.Action)
	}
	out := domain.ReplicationInstance{
		Action:             action,
		AppName:            strings.ToUpper(in.AppName),
		ID:                 in.ID,
		LastDirtyTimestamp: in.LastDirtyTimestamp,
		Instance:           ToInstancePtr(in.InstanceInfo),
	}
	if in.OverriddenStatus != "" {
		out.OverriddenStatus = domain.ParseInstanceStatus(in.OverriddenStatus)
	}
	if in.Status != "" {
		out.Status = domain.ParseInstanceStatus(in.Status)
	}
	return out, nil
}

// ToInterest maps an interest back and validates it.
func ToInterest(in Interest) (domain.Interest, error) {
	out := domain.Interest{
		Kind:     domain.InterestKind(in.Kind),
		Pattern:  in.Pattern,
		Operator: domain.MatchOperator(in.Operator),
	}
	if out.Operator == "" {
		out.Operator = domain.MatchEquals
	}
	if out.Kind == domain.InterestApplication && out.Operator == domain.MatchEquals {
		out.Pattern = strings.ToUpper(out.Pattern)
	}
	if err := out.Validate(); err != nil {
		return domain.Interest{}, err
	}
	return out, nil
}
