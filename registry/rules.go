package registry

import "myregistry/domain"

// statusRule computes the status a record should carry given the stored lease and override.
// ok is false when the rule does not apply.
type statusRule func(in *domain.InstanceInfo, existing *domain.Lease[*domain.InstanceInfo], override domain.InstanceStatus, isReplication bool) (status domain.InstanceStatus, ok bool)

// downOrStartingRule keeps a self-reported status that is neither UP nor OUT_OF_SERVICE:
// an instance that is not ready is never forced UP by an override.
func downOrStartingRule(in *domain.InstanceInfo, _ *domain.Lease[*domain.InstanceInfo], _ domain.InstanceStatus, _ bool) (domain.InstanceStatus, bool) {
	if in.Status != domain.StatusUp && in.Status != domain.StatusOutOfService {
		return in.Status, true
	}
	return "", false
}

// overrideExistsRule applies an operator override.
func overrideExistsRule(_ *domain.InstanceInfo, _ *domain.Lease[*domain.InstanceInfo], override domain.InstanceStatus, _ bool) (domain.InstanceStatus, bool) {
	if override != "" && override != domain.StatusUnknown {
		return override, true
	}
	return "", false
}

// leaseExistsRule keeps the stored UP or OUT_OF_SERVICE status for direct client traffic, so a
// client cannot undo an override another node already applied to its record.
func leaseExistsRule(_ *domain.InstanceInfo, existing *domain.Lease[*domain.InstanceInfo], _ domain.InstanceStatus, isReplication bool) (domain.InstanceStatus, bool) {
	if isReplication || existing == nil {
		return "", false
	}
	status := existing.Holder.Status
	if status == domain.StatusUp || status == domain.StatusOutOfService {
		return status, true
	}
	return "", false
}

func alwaysMatchRule(in *domain.InstanceInfo, _ *domain.Lease[*domain.InstanceInfo], _ domain.InstanceStatus, _ bool) (domain.InstanceStatus, bool) {
	return in.Status, true
}

// firstMatch chains rules; the first one that applies wins.
func firstMatch(rules ...statusRule) statusRule {
	return func(in *domain.InstanceInfo, existing *domain.Lease[*domain.InstanceInfo], override domain.InstanceStatus, isReplication bool) (domain.InstanceStatus, bool) {
		for _, rule := range rules {
			if status, ok := rule(in, existing, override, isReplication); ok {
				return status, true
			}
		}
		return domain.StatusUnknown, true
	}
}

var defaultStatusRule = firstMatch(downOrStartingRule, overrideExistsRule, leaseExistsRule, alwaysMatchRule)

// effectiveStatus resolves the status to store for in.
func effectiveStatus(in *domain.InstanceInfo, existing *domain.Lease[*domain.InstanceInfo], override domain.InstanceStatus, isReplication bool) domain.InstanceStatus {
	status, _ := defaultStatusRule(in, existing, override, isReplication)
	return status
}
