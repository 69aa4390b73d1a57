package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"myregistry/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	cfgPath := filepath.Join(t.TempDir(), "myregistry.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	t.Setenv(envConfigPath, cfgPath)
}

func clearEnv(t *testing.T) {
	for _, name := range []string{envConfigPath, envHTTPPort, envGRPCPort, envRedisAddr, envEtcdEndpoints, envLogLevel} {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8761, cfg.Server.HTTPPort)
	assert.Equal(t, 9761, cfg.Server.GRPCPort)
	assert.Equal(t, "http://localhost:8761", cfg.Server.SelfURL)
	assert.Equal(t, cfg.Server.SelfURL, cfg.Server.Registry.NodeName)
	assert.True(t, cfg.Server.Registry.SelfPreservation)
	assert.Equal(t, 0.85, cfg.Server.Registry.RenewalPercentThreshold)
	assert.False(t, cfg.Server.UseEtcd())
	assert.Equal(t, 250, cfg.Server.Replication.MaxBatchSize)
	assert.Equal(t, 3, cfg.Agent.Transport.NumberOfRetries)
	assert.Equal(t, 30*time.Second, cfg.Agent.Client.FetchInterval)
	assert.Equal(t, domain.StatusUp, cfg.Agent.Instance.Status)
	assert.Equal(t, 30, cfg.Agent.Instance.LeaseInfo.RenewalIntervalInSecs)
	assert.Equal(t, 90, cfg.Agent.Instance.LeaseInfo.DurationInSecs)
	require.NoError(t, cfg.ValidateServer())
	assert.EqualError(t, cfg.ValidateAgent(), "client.service_urls is required")
}

func TestLoadConfig_YAML(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
log_level: debug
server:
  http_port: 8080
  grpc_port: 9090
  self_url: http://node-a:8080/
  peers:
    - http://node-b:8080
    - " "
  stream_replication: true
  registry:
    self_preservation: false
    renewal_percent_threshold: 0.5
    eviction_interval: 10s
  replication:
    max_batch_size: 50
  transport:
    number_of_retries: 2
client:
  service_urls: [http://node-a:8080, http://node-b:8080]
  health_check_url: http://localhost:3000/health
  metrics_port: 9100
  backup_redis:
    addr: redis://localhost:6379
  interests:
    - kind: application
      pattern: orders
    - kind: vip
      pattern: "orders.*"
      operator: like
  settings:
    fetch_interval: 5s
    disable_delta: true
instance:
  id: orders-1
  app: orders
  host_name: orders-1.local
  port: 8080
  vip_address: orders
  renewal_interval: 10s
  duration: 30s
  metadata:
    zone: a
`)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, "http://node-a:8080", cfg.Server.SelfURL)
	assert.Equal(t, []string{"http://node-b:8080"}, cfg.Server.Peers)
	assert.True(t, cfg.Server.StreamReplication)
	assert.False(t, cfg.Server.Registry.SelfPreservation)
	assert.Equal(t, 0.5, cfg.Server.Registry.RenewalPercentThreshold)
	assert.Equal(t, 10*time.Second, cfg.Server.Registry.EvictionInterval)
	assert.Equal(t, 3*time.Minute, cfg.Server.Registry.DeltaRetention, "absent keys keep their default")
	assert.Equal(t, 50, cfg.Server.Replication.MaxBatchSize)
	assert.Equal(t, 2, cfg.Server.Transport.NumberOfRetries)

	assert.Equal(t, []string{"http://node-a:8080", "http://node-b:8080"}, cfg.Agent.ServiceURLs)
	assert.Equal(t, 9100, cfg.Agent.MetricsPort)
	assert.Equal(t, "redis://localhost:6379", cfg.Agent.Redis.Addr)
	assert.Equal(t, "myregistry", cfg.Agent.Redis.Prefix)
	require.Len(t, cfg.Agent.Interests, 2)
	assert.Equal(t, domain.ForApplication("orders"), cfg.Agent.Interests[0])
	assert.Equal(t, domain.MatchLike, cfg.Agent.Interests[1].Operator)
	assert.Equal(t, 5*time.Second, cfg.Agent.Client.FetchInterval)
	assert.True(t, cfg.Agent.Client.DisableDelta)

	in := cfg.Agent.Instance
	assert.Equal(t, "orders-1", in.InstanceID)
	assert.Equal(t, "ORDERS", in.AppName)
	assert.Equal(t, 10, in.LeaseInfo.RenewalIntervalInSecs)
	assert.Equal(t, 30, in.LeaseInfo.DurationInSecs)
	assert.Equal(t, "a", in.Metadata["zone"])

	require.NoError(t, cfg.ValidateServer())
	require.NoError(t, cfg.ValidateAgent())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
server:
  http_port: 8080
client:
  grpc_port: 9090
`)
	t.Setenv(envHTTPPort, "7000")
	t.Setenv(envGRPCPort, "7001")
	t.Setenv(envRedisAddr, "redis://other:6380")
	t.Setenv(envEtcdEndpoints, "etcd-1:2379, etcd-2:2379,")
	t.Setenv(envLogLevel, "warn")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.HTTPPort)
	assert.Equal(t, 7001, cfg.Server.GRPCPort)
	assert.Equal(t, 7001, cfg.Agent.GRPCPort)
	assert.Equal(t, "http://localhost:7000", cfg.Server.SelfURL)
	assert.Equal(t, "redis://other:6380", cfg.Agent.Redis.Addr)
	assert.Equal(t, []string{"etcd-1:2379", "etcd-2:2379"}, cfg.Server.Etcd.Endpoints)
	assert.True(t, cfg.Server.UseEtcd())
	assert.Equal(t, "/myregistry/peers", cfg.Server.Etcd.Prefix)
	assert.Equal(t, "warn", cfg.LogLevel)
	require.NoError(t, cfg.ValidateServer())
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr string
	}{
		{name: "invalid http port", env: map[string]string{envHTTPPort: "not-a-number"}, wantErr: envHTTPPort},
		{name: "invalid grpc port", env: map[string]string{envGRPCPort: "x"}, wantErr: envGRPCPort},
		{name: "malformed yaml", yaml: "server: [", wantErr: "load config"},
		{name: "unknown interest kind", yaml: "client:\n  interests:\n    - kind: zone\n", wantErr: "client.interests"},
		{name: "invalid interest regexp", yaml: "client:\n  interests:\n    - kind: vip\n      pattern: \"(\"\n      operator: like\n", wantErr: "client.interests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if tt.yaml != "" {
				writeConfig(t, tt.yaml)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestConfig_Validate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		clearEnv(t)
		cfg, err := LoadConfig()
		require.NoError(t, err)
		cfg.Agent.ServiceURLs = []string{"http://node-a:8761"}
		cfg.Agent.Instance.AppName = "ORDERS"
		cfg.Agent.Instance.HostName = "orders-1"
		return cfg
	}
	tests := []struct {
		name     string
		mutate   func(c *Config)
		validate func(c *Config) error
		wantErr  string
	}{
		{name: "server ok", mutate: func(c *Config) {}, validate: (*Config).ValidateServer},
		{name: "agent ok", mutate: func(c *Config) {}, validate: (*Config).ValidateAgent},
		{name: "http port range", mutate: func(c *Config) { c.Server.HTTPPort = 70000 }, validate: (*Config).ValidateServer, wantErr: envHTTPPort},
		{name: "grpc port zero", mutate: func(c *Config) { c.Server.GRPCPort = 0 }, validate: (*Config).ValidateServer, wantErr: envGRPCPort},
		{name: "registry threshold", mutate: func(c *Config) { c.Server.Registry.RenewalPercentThreshold = 1.5 }, validate: (*Config).ValidateServer, wantErr: "server.registry"},
		{name: "replication batch", mutate: func(c *Config) { c.Server.Replication.MaxBatchSize = 0 }, validate: (*Config).ValidateServer, wantErr: "server.replication"},
		{name: "server transport", mutate: func(c *Config) { c.Server.Transport.NumberOfRetries = 0 }, validate: (*Config).ValidateServer, wantErr: "server.transport"},
		{name: "etcd ttl", mutate: func(c *Config) {
			c.Server.Etcd.Endpoints = []string{"localhost:2379"}
			c.Server.Etcd.LeaseTTL = time.Millisecond
		}, validate: (*Config).ValidateServer, wantErr: "server.etcd"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, validate: (*Config).ValidateServer, wantErr: "log_level"},
		{name: "app required", mutate: func(c *Config) { c.Agent.Instance.AppName = "" }, validate: (*Config).ValidateAgent, wantErr: "instance.app is required"},
		{name: "host required", mutate: func(c *Config) { c.Agent.Instance.HostName = "" }, validate: (*Config).ValidateAgent, wantErr: "instance.host_name is required"},
		{name: "stream port", mutate: func(c *Config) {
			c.Agent.Interests = domain.Interests{domain.FullRegistryInterest()}
			c.Agent.GRPCPort = 0
		}, validate: (*Config).ValidateAgent, wantErr: "client.grpc_port"},
		{name: "metrics port", mutate: func(c *Config) { c.Agent.MetricsPort = -1 }, validate: (*Config).ValidateAgent, wantErr: "client.metrics_port"},
		{name: "client settings", mutate: func(c *Config) { c.Agent.Client.OnDemandBurstSize = 0 }, validate: (*Config).ValidateAgent, wantErr: "client.settings"},
		{name: "client transport", mutate: func(c *Config) { c.Agent.Transport.SessionDuration = 0 }, validate: (*Config).ValidateAgent, wantErr: "client.transport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := tt.validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"", "debug", "INFO", "warn", "error"} {
		_, err := parseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := parseLevel("trace")
	assert.Error(t, err)
}

func TestAnnounceName(t *testing.T) {
	assert.Equal(t, "node-a:8761", announceName("http://node-a:8761"))
	assert.Equal(t, "node-a", announceName("node-a"))
}
