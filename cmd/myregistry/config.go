package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"myregistry/adapters/etcdpeers"
	"myregistry/adapters/myredis"
	"myregistry/api"
	"myregistry/client"
	"myregistry/domain"
	"myregistry/registry"
	"myregistry/replication"
	"myregistry/transport"

	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envConfigPath    = "CONFIG_PATH"
	envHTTPPort      = "SERVICE_PORT_HTTP"
	envGRPCPort      = "SERVICE_PORT_GRPC"
	envRedisAddr     = "REDIS_ADDR"
	envEtcdEndpoints = "ETCD_ENDPOINTS"
	envLogLevel      = "LOG_LEVEL"
)

// Config is the process configuration: the YAML file at CONFIG_PATH (optional) with the env
// overrides applied on top of the defaults. Server is used by the server command, Agent by the
// agent command; each is validated by its command only.
type Config struct {
	LogLevel string
	Server   ServerConfig
	Agent    AgentConfig
}

// ServerConfig configures a registry node.
type ServerConfig struct {
	HTTPPort int
	GRPCPort int
	// SelfURL is the base URL peers reach this node at; it is also the node name.
	SelfURL string
	// Peers is the static peer list, used when Etcd has no endpoints.
	Peers []string
	Etcd  etcdpeers.Config
	// StreamReplication subscribes to the local-only interest stream of every peer.
	StreamReplication bool

	Registry    registry.Config
	Replication replication.Config
	Transport   transport.Config
}

// AgentConfig configures the client process that keeps one instance registered.
type AgentConfig struct {
	ServiceURLs []string
	// GRPCPort is the port of the servers' interest stream.
	GRPCPort int
	// HealthCheckURL is requested before every registration push; empty means always UP.
	HealthCheckURL string
	// MetricsPort serves /metrics and /healthz of the agent; 0 disables it.
	MetricsPort int
	// Redis holds the backup registry; no Addr means no backup.
	Redis     myredis.RedisConfig
	Interests domain.Interests

	Client    client.Config
	Transport transport.Config
	Instance  *domain.InstanceInfo
}

type yamlConfig struct {
	LogLevel string       `yaml:"log_level"`
	Server   yamlServer   `yaml:"server"`
	Client   yamlClient   `yaml:"client"`
	Instance yamlInstance `yaml:"instance"`
}

type yamlServer struct {
	HTTPPort          int                `yaml:"http_port"`
	GRPCPort          int                `yaml:"grpc_port"`
	SelfURL           string             `yaml:"self_url"`
	Peers             []string           `yaml:"peers"`
	Etcd              etcdpeers.Config   `yaml:"etcd"`
	StreamReplication bool               `yaml:"stream_replication"`
	Registry          registry.Config    `yaml:"registry"`
	Replication       replication.Config `yaml:"replication"`
	Transport         transport.Config   `yaml:"transport"`
}

type yamlClient struct {
	ServiceURLs    []string            `yaml:"service_urls"`
	GRPCPort       int                 `yaml:"grpc_port"`
	HealthCheckURL string              `yaml:"health_check_url"`
	MetricsPort    int                 `yaml:"metrics_port"`
	Redis          myredis.RedisConfig `yaml:"backup_redis"`
	Interests      []yamlInterest      `yaml:"interests"`
	Settings       client.Config       `yaml:"settings"`
	Transport      transport.Config    `yaml:"transport"`
}

type yamlInterest struct {
	Kind     string `yaml:"kind"`
	Pattern  string `yaml:"pattern"`
	Operator string `yaml:"operator"`
}

type yamlInstance struct {
	ID               string            `yaml:"id"`
	App              string            `yaml:"app"`
	HostName         string            `yaml:"host_name"`
	IPAddr           string            `yaml:"ip_addr"`
	Port             int               `yaml:"port"`
	SecurePort       int               `yaml:"secure_port"`
	VIPAddress       string            `yaml:"vip_address"`
	SecureVIPAddress string            `yaml:"secure_vip_address"`
	Status           string            `yaml:"status"`
	RenewalInterval  time.Duration     `yaml:"renewal_interval"`
	Duration         time.Duration     `yaml:"duration"`
	Metadata         map[string]string `yaml:"metadata"`
}

// defaultYAML is what an absent file or an absent key leaves in place.
func defaultYAML() yamlConfig {
	return yamlConfig{
		LogLevel: "info",
		Server: yamlServer{
			HTTPPort:    8761,
			GRPCPort:    9761,
			Etcd:        etcdpeers.DefaultConfig(),
			Registry:    registry.DefaultConfig(""),
			Replication: replication.DefaultConfig(),
			Transport:   transport.DefaultConfig(),
		},
		Client: yamlClient{
			GRPCPort: 9761,
			Redis: myredis.RedisConfig{
				Prefix: "myregistry",
				TTL:    24 * time.Hour,
			},
			Settings:  client.DefaultConfig(),
			Transport: transport.DefaultConfig(),
		},
		Instance: yamlInstance{
			Status:          string(domain.StatusUp),
			RenewalInterval: domain.DefaultRenewalIntervalInSecs * time.Second,
			Duration:        domain.DefaultDurationInSecs * time.Second,
		},
	}
}

// loadYAMLConfig unmarshals the file at path over the defaults.
func loadYAMLConfig(path string) (*yamlConfig, error) {
	out := defaultYAML()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfig builds the config from the YAML file at CONFIG_PATH, when set, and the
// SERVICE_PORT_HTTP, SERVICE_PORT_GRPC, REDIS_ADDR, ETCD_ENDPOINTS and LOG_LEVEL overrides.
//
// Returns: (*Config, nil) on success; (nil, error) on a file that cannot be read or parsed, a
// malformed override or a malformed interest. Role-specific checks are left to
// ValidateServer and ValidateAgent.
//
// Called from the server and agent commands at startup.
func LoadConfig() (*Config, error) {
	raw := defaultYAML()
	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, err := filepath.Abs(configPath)
			if err != nil {
				return nil, err
			}
			configPath = abs
		}
		loaded, err := loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		raw = *loaded
	}
	if err := applyEnv(&raw); err != nil {
		return nil, err
	}

	interests := make(domain.Interests, 0, len(raw.Client.Interests))
	for _, in := range raw.Client.Interests {
		interest, err := api.ToInterest(api.Interest{Kind: in.Kind, Pattern: in.Pattern, Operator: in.Operator})
		if err != nil {
			return nil, fmt.Errorf("client.interests: %w", err)
		}
		interests = append(interests, interest)
	}

	selfURL := strings.TrimSpace(raw.Server.SelfURL)
	if selfURL == "" {
		selfURL = fmt.Sprintf("http://localhost:%d", raw.Server.HTTPPort)
	}
	selfURL = transport.NormalizeEndpoint(selfURL)
	registryCfg := raw.Server.Registry
	registryCfg.NodeName = selfURL

	return &Config{
		LogLevel: raw.LogLevel,
		Server: ServerConfig{
			HTTPPort:          raw.Server.HTTPPort,
			GRPCPort:          raw.Server.GRPCPort,
			SelfURL:           selfURL,
			Peers:             trimAll(raw.Server.Peers),
			Etcd:              raw.Server.Etcd,
			StreamReplication: raw.Server.StreamReplication,
			Registry:          registryCfg,
			Replication:       raw.Server.Replication,
			Transport:         raw.Server.Transport,
		},
		Agent: AgentConfig{
			ServiceURLs:    trimAll(raw.Client.ServiceURLs),
			GRPCPort:       raw.Client.GRPCPort,
			HealthCheckURL: strings.TrimSpace(raw.Client.HealthCheckURL),
			MetricsPort:    raw.Client.MetricsPort,
			Redis:          raw.Client.Redis,
			Interests:      interests,
			Client:         raw.Client.Settings,
			Transport:      raw.Client.Transport,
			Instance:       raw.Instance.toInstance(),
		},
	}, nil
}

func applyEnv(raw *yamlConfig) error {
	if v := strings.TrimSpace(os.Getenv(envHTTPPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envHTTPPort, err)
		}
		raw.Server.HTTPPort = port
	}
	if v := strings.TrimSpace(os.Getenv(envGRPCPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envGRPCPort, err)
		}
		raw.Server.GRPCPort = port
		raw.Client.GRPCPort = port
	}
	if v := strings.TrimSpace(os.Getenv(envRedisAddr)); v != "" {
		raw.Client.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(envEtcdEndpoints)); v != "" {
		raw.Server.Etcd.Endpoints = trimAll(strings.Split(v, ","))
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		raw.LogLevel = v
	}
	return nil
}

func (y yamlInstance) toInstance() *domain.InstanceInfo {
	return &domain.InstanceInfo{
		InstanceID:       strings.TrimSpace(y.ID),
		AppName:          strings.ToUpper(strings.TrimSpace(y.App)),
		HostName:         strings.TrimSpace(y.HostName),
		IPAddr:           strings.TrimSpace(y.IPAddr),
		Port:             y.Port,
		SecurePort:       y.SecurePort,
		VIPAddress:       strings.TrimSpace(y.VIPAddress),
		SecureVIPAddress: strings.TrimSpace(y.SecureVIPAddress),
		Status:           domain.ParseInstanceStatus(strings.TrimSpace(y.Status)),
		LeaseInfo: &domain.LeaseInfo{
			RenewalIntervalInSecs: int(y.RenewalInterval / time.Second),
			DurationInSecs:        int(y.Duration / time.Second),
		},
		Metadata: y.Metadata,
	}
}

// UseEtcd reports whether peers are resolved through etcd instead of the static list.
func (c ServerConfig) UseEtcd() bool {
	return len(c.Etcd.Endpoints) > 0
}

// ValidateServer checks the settings the server command needs.
func (c *Config) ValidateServer() error {
	if err := validatePort(envHTTPPort, c.Server.HTTPPort); err != nil {
		return err
	}
	if err := validatePort(envGRPCPort, c.Server.GRPCPort); err != nil {
		return err
	}
	if err := c.Server.Registry.Validate(); err != nil {
		return fmt.Errorf("server.registry: %w", err)
	}
	if err := c.Server.Replication.Validate(); err != nil {
		return fmt.Errorf("server.replication: %w", err)
	}
	if err := c.Server.Transport.Validate(); err != nil {
		return fmt.Errorf("server.transport: %w", err)
	}
	if c.Server.UseEtcd() {
		if err := c.Server.Etcd.Validate(); err != nil {
			return fmt.Errorf("server.etcd: %w", err)
		}
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateAgent checks the settings the agent command needs.
func (c *Config) ValidateAgent() error {
	if len(c.Agent.ServiceURLs) == 0 {
		return errors.New("client.service_urls is required")
	}
	if c.Agent.Instance.AppName == "" {
		return errors.New("instance.app is required")
	}
	if c.Agent.Instance.HostName == "" {
		return errors.New("instance.host_name is required")
	}
	if len(c.Agent.Interests) > 0 {
		if err := validatePort("client.grpc_port", c.Agent.GRPCPort); err != nil {
			return err
		}
	}
	if c.Agent.MetricsPort != 0 {
		if err := validatePort("client.metrics_port", c.Agent.MetricsPort); err != nil {
			return err
		}
	}
	if err := c.Agent.Client.Validate(); err != nil {
		return fmt.Errorf("client.settings: %w", err)
	}
	if err := c.Agent.Transport.Validate(); err != nil {
		return fmt.Errorf("client.transport: %w", err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func validatePort(name string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be 1-65535, got %d", name, port)
	}
	return nil
}

// parseLevel maps log_level to a go-kit level filter.
func parseLevel(s string) (level.Option, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return level.AllowDebug(), nil
	case "", "info":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	default:
		return nil, fmt.Errorf("log_level must be debug|info|warn|error, got %q", s)
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
