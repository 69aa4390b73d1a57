package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"myregistry/adapters/grpcstream"
	"myregistry/adapters/myredis"
	"myregistry/client"
	"myregistry/domain"
	"myregistry/interfaces"
	"myregistry/service"
	"myregistry/telemetry"
	"myregistry/transport"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
)

// runAgent keeps the configured instance registered, follows the registry and blocks until ctx
// is done. On shutdown the instance is unregistered.
func runAgent(ctx context.Context, config *Config, clock interfaces.TimeProvider, logger log.Logger) error {
	cfg := config.Agent
	instance := cfg.Instance.Clone()
	if instance.InstanceID == "" {
		instance.InstanceID = uuid.NewString()
	}
	level.Info(logger).Log(
		"msg", "Starting agent",
		"app", instance.AppName,
		"id", instance.InstanceID,
		"service_urls", fmt.Sprint(cfg.ServiceURLs),
		"redis_addr", cfg.Redis.Addr,
		"interests", len(cfg.Interests),
	)

	metrics := telemetry.NewMetrics()
	tracerProvider := telemetry.NewTracerProvider(logger)
	defer tracerProvider.Shutdown(context.Background())

	var registryClient interfaces.RegistryClient
	{
		pipeline := transport.NewPipeline(cfg.Transport, transport.NewStaticResolver(cfg.ServiceURLs...), clock,
			tracerProvider.Tracer("myregistry/agent"), metrics, logger)
		registryClient = transport.NewRegistryClient(pipeline.Handler)
	}

	var backup interfaces.BackupRegistry
	if cfg.Redis.Addr != "" {
		redisClient, err := myredis.NewRedisUniversalClient(cfg.Redis.Addr, myredis.WithTimeouts(cfg.Transport.ConnectTimeout, cfg.Transport.ReadTimeout))
		if err != nil {
			return fmt.Errorf("create redis client: %w", err)
		}
		defer redisClient.Close()
		backup = myredis.NewBackupRegistry(redisClient, cfg.Redis.Prefix, cfg.Redis.TTL)
	}

	var health interfaces.HealthCheckHandler
	if cfg.HealthCheckURL != "" {
		health = newHTTPHealthCheck(cfg.HealthCheckURL, cfg.Transport.ConnectTimeout, cfg.Transport.ReadTimeout)
	}

	holder := client.NewInstanceHolder(instance, clock)
	selfRegistration := client.NewSelfRegistration(cfg.Client, holder, registryClient, health, clock, metrics, logger)
	heartbeater := client.NewHeartbeater(cfg.Client, holder, registryClient, clock, logger)

	cache := client.NewRegistryCache(cfg.Client, registryClient, backup, clock, metrics, logger)
	cache.AddListener(func(apps *domain.Applications) {
		level.Debug(logger).Log("msg", "Registry cache refreshed", "instances", apps.Size(), "hash", apps.ComputeHashCode())
	})
	if err := cache.Init(ctx); err != nil {
		return err
	}
	if err := selfRegistration.Start(ctx); err != nil {
		return err
	}

	loopCtx, cancelLoops := context.WithCancel(context.Background())
	defer cancelLoops()
	var loops sync.WaitGroup
	goLoop := func(run func(ctx context.Context)) {
		loops.Add(1)
		go func() {
			defer loops.Done()
			run(loopCtx)
		}()
	}
	goLoop(cache.Run)
	goLoop(selfRegistration.Run)
	goLoop(heartbeater.Run)

	if len(cfg.Interests) > 0 {
		streamer, conns, err := dialStreams(cfg.ServiceURLs, cfg.GRPCPort, instance.InstanceID, logger)
		if err != nil {
			return err
		}
		defer func() {
			for _, conn := range conns {
				conn.Close()
			}
		}()
		interestRegistry := client.NewInterestRegistry(streamer, cfg.Interests, cfg.Client, logger)
		interestRegistry.AddListener(func(n domain.ChangeNotification) {
			level.Debug(logger).Log("msg", "Interest change", "kind", n.Kind, "app", n.Instance.AppName, "id", n.Instance.InstanceID)
		})
		goLoop(interestRegistry.Run)
	}

	var e *echo.Echo
	serveErr := make(chan error, 1)
	if cfg.MetricsPort != 0 {
		e = echo.New()
		e.HideBanner = true
		e.HidePort = true
		service.RegisterErrorHandler(e, logger)
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
		e.GET("/healthz", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{
				"status":         string(holder.Status()),
				"lastHeartbeat":  heartbeater.LastSuccessfulHeartbeat().String(),
				"lastFetch":      cache.LastSuccessfulFetch().String(),
				"nextSelfUpdate": selfRegistration.NextRun().String(),
			})
		})
		go func() {
			addr := fmt.Sprintf(":%d", cfg.MetricsPort)
			level.Info(logger).Log("msg", "Starting metrics server", "addr", addr)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}
	level.Info(logger).Log("msg", "Shutting down...")

	cancelLoops()
	loops.Wait()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if e != nil {
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			level.Error(logger).Log("msg", "Error during metrics server shutdown", "err", shutdownErr)
		}
	}
	if unregisterErr := selfRegistration.Unregister(shutdownCtx); unregisterErr != nil {
		level.Warn(logger).Log("msg", "Failed to unregister instance", "err", unregisterErr)
	}

	level.Info(logger).Log("msg", "Agent stopped")
	return err
}

// dialStreams opens one gRPC connection per server and returns a failover streamer over them.
func dialStreams(serviceURLs []string, grpcPort int, subscriber string, logger log.Logger) (interfaces.InterestStreamer, []*grpc.ClientConn, error) {
	conns := make([]*grpc.ClientConn, 0, len(serviceURLs))
	streamers := make([]interfaces.InterestStreamer, 0, len(serviceURLs))
	for _, serviceURL := range serviceURLs {
		target, err := grpcstream.TargetFor(serviceURL, grpcPort)
		if err == nil {
			var conn *grpc.ClientConn
			if conn, err = grpcstream.Dial(target); err == nil {
				conns = append(conns, conn)
				streamers = append(streamers, grpcstream.NewClient(conn, subscriber, log.With(logger, "server", serviceURL)))
				continue
			}
		}
		for _, conn := range conns {
			conn.Close()
		}
		return nil, nil, fmt.Errorf("interest stream of %s: %w", serviceURL, err)
	}
	return grpcstream.NewFailover(streamers...), conns, nil
}
