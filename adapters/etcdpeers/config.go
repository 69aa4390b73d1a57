// Package etcdpeers keeps the set of registry servers in etcd: every server announces its base
// URL under a leased key and resolves its peers by watching the key prefix.
package etcdpeers

import (
	"errors"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Config is the etcd part of the server config.
type Config struct {
	Endpoints   []string      `yaml:"endpoints"`
	Prefix      string        `yaml:"prefix"`
	LeaseTTL    time.Duration `yaml:"lease_ttl"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// DefaultConfig returns the defaults for everything but Endpoints.
func DefaultConfig() Config {
	return Config{
		Prefix:      "/myregistry/peers",
		LeaseTTL:    10 * time.Second,
		DialTimeout: 5 * time.Second,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.New("etcd endpoints are required")
	}
	if c.Prefix == "" {
		return errors.New("etcd prefix is required")
	}
	if c.LeaseTTL < time.Second {
		return errors.New("etcd lease_ttl must be at least 1s")
	}
	if c.DialTimeout <= 0 {
		return errors.New("etcd dial_timeout must be positive")
	}
	return nil
}

// NewClient connects to the etcd cluster of cfg.
func NewClient(cfg Config) (*clientv3.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
}

func peerKey(prefix, nodeName string) string {
	return prefix + "/" + nodeName
}
