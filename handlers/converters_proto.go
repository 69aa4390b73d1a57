package handlers

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"myregistry/api"
	"myregistry/domain"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// ToSubscribeRequest builds the request of an interest stream.
func ToSubscribeRequest(interests domain.Interests, localOnly bool, subscriber string) *SubscribeRequest {
	req := &SubscribeRequest{
		Interests:  make([]*Interest, 0, len(interests)),
		LocalOnly:  localOnly,
		Subscriber: subscriber,
	}
	for _, i := range interests {
		req.Interests = append(req.Interests, toInterestProto(i))
	}
	return req
}

// FromSubscribeRequest validates the requested interests.
func FromSubscribeRequest(req *SubscribeRequest) (domain.Interests, error) {
	interests := make(domain.Interests, 0, len(req.GetInterests()))
	for _, i := range req.GetInterests() {
		interest, err := fromInterestProto(i)
		if err != nil {
			return nil, err
		}
		interests = append(interests, interest)
	}
	return interests, nil
}

func toInterestProto(i domain.Interest) *Interest {
	return &Interest{Kind: string(i.Kind), Pattern: i.Pattern, Operator: string(i.Operator)}
}

func fromInterestProto(i *Interest) (domain.Interest, error) {
	return api.ToInterest(api.Interest{Kind: i.GetKind(), Pattern: i.GetPattern(), Operator: i.GetOperator()})
}

var changeKinds = map[domain.NotificationKind]ChangeKind{
	domain.KindAdd:         ChangeKind_ADD,
	domain.KindModify:      ChangeKind_MODIFY,
	domain.KindDelete:      ChangeKind_DELETE,
	domain.KindBufferStart: ChangeKind_BUFFER_START,
	domain.KindBufferEnd:   ChangeKind_BUFFER_END,
}

// ToNotification maps a change notification to its stream message. Markers carry their
// interest; Deltas are not sent, the receiver gets the whole record.
func ToNotification(n domain.ChangeNotification) *Notification {
	out := &Notification{Kind: changeKinds[n.Kind], Instance: toInstanceProto(n.Instance)}
	if n.IsMarker() {
		out.Interest = toInterestProto(n.Interest)
	}
	if !n.Source.IsZero() {
		out.Source = &Source{Origin: string(n.Source.Origin), Name: n.Source.Name, Id: n.Source.ID}
	}
	return out
}

// FromNotification maps a stream message back. Unknown kinds and changes without an instance
// are errors.
func FromNotification(in *Notification) (domain.ChangeNotification, error) {
	var kind domain.NotificationKind
	for k, v := range changeKinds {
		if v == in.GetKind() {
			kind = k
		}
	}
	if kind == 0 {
		return domain.ChangeNotification{}, fmt.Errorf("unknown notification kind %s", in.GetKind())
	}
	out := domain.ChangeNotification{Kind: kind, Instance: fromInstanceProto(in.GetInstance())}
	if !out.IsMarker() && out.Instance == nil {
		return domain.ChangeNotification{}, fmt.Errorf("%s notification without instance", kind)
	}
	if in.GetInterest() != nil {
		interest, err := fromInterestProto(in.GetInterest())
		if err != nil {
			return domain.ChangeNotification{}, err
		}
		out.Interest = interest
	}
	if s := in.GetSource(); s != nil {
		out.Source = domain.Source{Origin: domain.Origin(s.GetOrigin()), Name: s.GetName(), ID: s.GetId()}
	}
	return out, nil
}

func toInstanceProto(in *domain.InstanceInfo) *Instance {
	if in == nil {
		return nil
	}
	out := &Instance{
		InstanceId:           in.InstanceID,
		App:                  in.AppName,
		HostName:             in.HostName,
		IpAddr:               in.IPAddr,
		Port:                 int32(in.Port),
		SecurePort:           int32(in.SecurePort),
		VipAddress:           in.VIPAddress,
		SecureVipAddress:     in.SecureVIPAddress,
		Status:               string(in.Status),
		OverriddenStatus:     string(in.OverriddenStatus),
		Metadata:             maps.Clone(in.Metadata),
		LastUpdatedTimestamp: in.LastUpdatedTimestamp,
		LastDirtyTimestamp:   in.LastDirtyTimestamp,
		ActionType:           string(in.ActionType),
	}
	if l := in.LeaseInfo; l != nil {
		out.Lease = &Lease{
			RenewalIntervalSecs: int32(l.RenewalIntervalInSecs),
			DurationSecs:        int32(l.DurationInSecs),
			RegistrationTime:    toTimestamp(l.RegistrationTimestamp),
			LastRenewalTime:     toTimestamp(l.LastRenewalTimestamp),
			EvictionTime:        toTimestamp(l.EvictionTimestamp),
			ServiceUpTime:       toTimestamp(l.ServiceUpTimestamp),
		}
	}
	return out
}

// fromInstanceProto follows api.ToInstance: upper-cased app, UP when no status is given,
// unknown statuses become UNKNOWN.
func fromInstanceProto(in *Instance) *domain.InstanceInfo {
	if in == nil {
		return nil
	}
	out := &domain.InstanceInfo{
		InstanceID:           in.GetInstanceId(),
		AppName:              strings.ToUpper(in.GetApp()),
		HostName:             in.GetHostName(),
		IPAddr:               in.GetIpAddr(),
		Port:                 int(in.GetPort()),
		SecurePort:           int(in.GetSecurePort()),
		VIPAddress:           in.GetVipAddress(),
		SecureVIPAddress:     in.GetSecureVipAddress(),
		Status:               domain.StatusUp,
		Metadata:             maps.Clone(in.GetMetadata()),
		LastUpdatedTimestamp: in.GetLastUpdatedTimestamp(),
		LastDirtyTimestamp:   in.GetLastDirtyTimestamp(),
		ActionType:           domain.ActionType(in.GetActionType()),
	}
	if in.GetStatus() != "" {
		out.Status = domain.ParseInstanceStatus(in.GetStatus())
	}
	if in.GetOverriddenStatus() != "" {
		out.OverriddenStatus = domain.ParseInstanceStatus(in.GetOverriddenStatus())
	}
	if l := in.GetLease(); l != nil {
		out.LeaseInfo = &domain.LeaseInfo{
			RenewalIntervalInSecs: int(l.GetRenewalIntervalSecs()),
			DurationInSecs:        int(l.GetDurationSecs()),
			RegistrationTimestamp: fromTimestamp(l.GetRegistrationTime()),
			LastRenewalTimestamp:  fromTimestamp(l.GetLastRenewalTime()),
			EvictionTimestamp:     fromTimestamp(l.GetEvictionTime()),
			ServiceUpTimestamp:    fromTimestamp(l.GetServiceUpTime()),
		}
	}
	return out
}

// toTimestamp maps epoch milliseconds; zero means unset.
func toTimestamp(ms int64) *timestamppb.Timestamp {
	if ms == 0 {
		return nil
	}
	return timestamppb.New(time.UnixMilli(ms))
}

func fromTimestamp(ts *timestamppb.Timestamp) int64 {
	if ts == nil {
		return 0
	}
	return ts.AsTime().UnixMilli()
}
