package registry

import (
	"fmt"
	"time"
)

// Config holds the server-side registry settings.
type Config struct {
	// NodeName identifies this node as a replication source (usually its self URL).
	NodeName string `yaml:"-"`
	// SelfPreservation suspends eviction while renewals fall below the threshold.
	SelfPreservation bool `yaml:"self_preservation"`
	// RenewalPercentThreshold is the fraction of expected renewals required to keep eviction
	// enabled. It also bounds how much of the registry one sweep may evict.
	RenewalPercentThreshold float64 `yaml:"renewal_percent_threshold"`
	// ExpectedClientRenewalInterval is the heartbeat period assumed when computing the
	// expected renewals per minute.
	ExpectedClientRenewalInterval time.Duration `yaml:"expected_client_renewal_interval"`
	// EvictionInterval is the period of the eviction sweep.
	EvictionInterval time.Duration `yaml:"eviction_interval"`
	// EvictionSlack is added to every lease duration when the sweep checks expiry.
	EvictionSlack time.Duration `yaml:"eviction_slack"`
	// RenewalThresholdUpdateInterval is the period of the task that recomputes the expected
	// number of renewing clients from the registry size.
	RenewalThresholdUpdateInterval time.Duration `yaml:"renewal_threshold_update_interval"`
	// DeltaRetention is how long a change stays visible to delta fetches.
	DeltaRetention time.Duration `yaml:"delta_retention"`
	// DeltaCleanupInterval is the period of the task that drops expired changes.
	DeltaCleanupInterval time.Duration `yaml:"delta_cleanup_interval"`
	// SyncRetries and SyncRetryWait bound the startup copy of a peer registry.
	SyncRetries   int           `yaml:"sync_retries"`
	SyncRetryWait time.Duration `yaml:"sync_retry_wait"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig(nodeName string) Config {
	return Config{
		NodeName:                       nodeName,
		SelfPreservation:               true,
		RenewalPercentThreshold:        0.85,
		ExpectedClientRenewalInterval:  30 * time.Second,
		EvictionInterval:               60 * time.Second,
		EvictionSlack:                  0,
		RenewalThresholdUpdateInterval: 15 * time.Minute,
		DeltaRetention:                 3 * time.Minute,
		DeltaCleanupInterval:           30 * time.Second,
		SyncRetries:                    5,
		SyncRetryWait:                  30 * time.Second,
	}
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.NodeName == "" {
		return fmt.Errorf("node name is required")
	}
	if c.RenewalPercentThreshold <= 0 || c.RenewalPercentThreshold > 1 {
		return fmt.Errorf("renewal percent threshold must be in (0, 1], got %v", c.RenewalPercentThreshold)
	}
	if c.ExpectedClientRenewalInterval <= 0 {
		return fmt.Errorf("expected client renewal interval must be positive")
	}
	if c.EvictionInterval <= 0 {
		return fmt.Errorf("eviction interval must be positive")
	}
	if c.DeltaRetention <= 0 || c.DeltaCleanupInterval <= 0 {
		return fmt.Errorf("delta retention and cleanup interval must be positive")
	}
	return nil
}
