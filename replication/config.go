// Package replication replays local registry changes to the peer nodes of a cluster and
// applies the interest streams of peers to the local registry.
//
// Outbound, a Replicator listens to registry mutations and hands each one to a PeerNode per
// peer; a PeerNode batches them and submits the batches through the transport pipeline.
// Inbound, a Receiver subscribes to the locally registered instances of one peer and applies
// them on a serial task queue.
package replication

import (
	"errors"
	"time"
)

// Config holds the replication settings.
type Config struct {
	// MaxBufferSize bounds the pending tasks of one peer; on overflow the oldest task is dropped.
	MaxBufferSize int `yaml:"max_buffer_size"`
	// MaxBatchSize is the largest number of entries sent in one batch.
	MaxBatchSize int `yaml:"max_batch_size"`
	// MaxBatchDelay is how long the oldest pending task may wait for its batch to fill up.
	MaxBatchDelay time.Duration `yaml:"max_batch_delay"`
	// MaxTaskAge drops tasks that could not be delivered in time. Heartbeats expire earlier,
	// after the renewal interval of their instance.
	MaxTaskAge time.Duration `yaml:"max_task_age"`
	// RetryDelay is the first back-off after a failed batch; it doubles on each consecutive
	// failure up to MaxRetryDelay.
	RetryDelay    time.Duration `yaml:"retry_delay"`
	MaxRetryDelay time.Duration `yaml:"max_retry_delay"`
	// PeerRefreshInterval is the period at which the peer set is read again from the resolver.
	PeerRefreshInterval time.Duration `yaml:"peer_refresh_interval"`
	// ReceiverQueueSize bounds the notifications a Receiver has not applied yet.
	ReceiverQueueSize int `yaml:"receiver_queue_size"`
}

// DefaultConfig returns the replication defaults.
func DefaultConfig() Config {
	return Config{
		MaxBufferSize:       10000,
		MaxBatchSize:        250,
		MaxBatchDelay:       500 * time.Millisecond,
		MaxTaskAge:          30 * time.Second,
		RetryDelay:          100 * time.Millisecond,
		MaxRetryDelay:       30 * time.Second,
		PeerRefreshInterval: 10 * time.Minute,
		ReceiverQueueSize:   4096,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.MaxBufferSize <= 0 || c.MaxBatchSize <= 0:
		return errors.New("max_buffer_size and max_batch_size must be positive")
	case c.MaxBatchSize > c.MaxBufferSize:
		return errors.New("max_batch_size must not exceed max_buffer_size")
	case c.MaxBatchDelay <= 0:
		return errors.New("max_batch_delay must be positive")
	case c.MaxTaskAge <= 0:
		return errors.New("max_task_age must be positive")
	case c.RetryDelay <= 0 || c.MaxRetryDelay < c.RetryDelay:
		return errors.New("retry_delay must be positive and not exceed max_retry_delay")
	case c.PeerRefreshInterval <= 0:
		return errors.New("peer_refresh_interval must be positive")
	case c.ReceiverQueueSize <= 0:
		return errors.New("receiver_queue_size must be positive")
	}
	return nil
}
