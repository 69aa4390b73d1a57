// Package client holds the client side of the registry: the polled registry cache, the
// interest-stream registry, and the components that keep the local instance registered.
package client

import (
	"errors"
	"time"
)

// Config holds the client settings shared by the cache and the registration components.
type Config struct {
	// FetchInterval is the period of the registry poll.
	FetchInterval time.Duration `yaml:"fetch_interval"`
	// FetchTimeout bounds one poll.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// MaxBackoffMultiplier caps the poll and heartbeat back-off at this many intervals.
	MaxBackoffMultiplier int `yaml:"max_backoff_multiplier"`
	// DisableDelta makes every poll a full fetch.
	DisableDelta bool `yaml:"disable_delta"`
	// EnforceFetchAtInit makes Init fail when neither a server nor the backup registry
	// provides a snapshot.
	EnforceFetchAtInit bool `yaml:"enforce_fetch_at_init"`
	// EnforceRegistrationAtInit makes Start fail when the first registration fails.
	EnforceRegistrationAtInit bool `yaml:"enforce_registration_at_init"`

	// ReplicationInterval is the period of the self-registration push. It is also the refill
	// period of the on-demand token bucket.
	ReplicationInterval time.Duration `yaml:"replication_interval"`
	// InitialReplicationDelay is the delay of the first periodic push.
	InitialReplicationDelay time.Duration `yaml:"initial_replication_delay"`
	// OnDemandBurstSize is the number of on-demand pushes allowed at once; after that one more
	// is allowed per ReplicationInterval.
	OnDemandBurstSize int `yaml:"on_demand_burst_size"`

	// StreamRetryDelay and StreamMaxRetryDelay bound the reconnect back-off of interest streams.
	StreamRetryDelay    time.Duration `yaml:"stream_retry_delay"`
	StreamMaxRetryDelay time.Duration `yaml:"stream_max_retry_delay"`
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		FetchInterval:           30 * time.Second,
		FetchTimeout:            10 * time.Second,
		MaxBackoffMultiplier:    10,
		ReplicationInterval:     30 * time.Second,
		InitialReplicationDelay: 40 * time.Second,
		OnDemandBurstSize:       2,
		StreamRetryDelay:        500 * time.Millisecond,
		StreamMaxRetryDelay:     30 * time.Second,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.FetchInterval <= 0 || c.FetchTimeout <= 0:
		return errors.New("fetch_interval and fetch_timeout must be positive")
	case c.MaxBackoffMultiplier < 1:
		return errors.New("max_backoff_multiplier must be at least 1")
	case c.ReplicationInterval <= 0:
		return errors.New("replication_interval must be positive")
	case c.InitialReplicationDelay < 0:
		return errors.New("initial_replication_delay must not be negative")
	case c.OnDemandBurstSize <= 0:
		return errors.New("on_demand_burst_size must be positive")
	case c.StreamRetryDelay <= 0 || c.StreamMaxRetryDelay < c.StreamRetryDelay:
		return errors.New("stream_retry_delay must be positive and not exceed stream_max_retry_delay")
	}
	return nil
}
