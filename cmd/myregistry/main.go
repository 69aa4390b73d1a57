package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds the graceful stop of the servers and the final unregistration.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "myregistry",
		Short:         "Service registry with peer replication and lease-based instance liveness",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serverCmd(), agentCmd())
	return cmd
}

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run a registry node",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup((*Config).ValidateServer)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := runServer(ctx, config, utcClock(), logger); err != nil {
				level.Error(logger).Log("msg", "Server failed", "err", err)
				return err
			}
			return nil
		},
	}
}

func agentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Keep one instance registered and follow the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup((*Config).ValidateAgent)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := runAgent(ctx, config, utcClock(), logger); err != nil {
				level.Error(logger).Log("msg", "Agent failed", "err", err)
				return err
			}
			return nil
		},
	}
}

// setup loads and validates the config and builds the root logger.
func setup(validate func(*Config) error) (*Config, log.Logger, error) {
	logger := newLogger(level.AllowInfo())
	config, err := LoadConfig()
	if err == nil {
		err = validate(config)
	}
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		return nil, nil, err
	}
	filter, _ := parseLevel(config.LogLevel)
	return config, newLogger(filter), nil
}

func newLogger(filter level.Option) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, filter)
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)
	return logger
}

func utcClock() interfaces.TimeProvider {
	return service.NewTimeProvider(func() time.Time {
		return time.Now().UTC()
	})
}
