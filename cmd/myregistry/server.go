package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"myregistry/adapters/etcdpeers"
	"myregistry/adapters/grpcstream"
	"myregistry/api"
	"myregistry/handlers"
	"myregistry/interfaces"
	"myregistry/notification"
	"myregistry/registry"
	"myregistry/replication"
	"myregistry/service"
	"myregistry/telemetry"
	"myregistry/transport"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// runServer wires a registry node and blocks until ctx is done.
//
// Startup order: peer discovery, registry sync from the peers, listeners, background loops.
// Shutdown order: health NOT_SERVING, subscriptions closed, HTTP and gRPC stopped, background
// loops cancelled, etcd key withdrawn.
func runServer(ctx context.Context, config *Config, clock interfaces.TimeProvider, logger log.Logger) error {
	cfg := config.Server
	level.Info(logger).Log(
		"msg", "Starting registry node",
		"self_url", cfg.SelfURL,
		"service_port_http", cfg.HTTPPort,
		"service_port_grpc", cfg.GRPCPort,
		"etcd", cfg.UseEtcd(),
		"stream_replication", cfg.StreamReplication,
	)

	metrics := telemetry.NewMetrics()
	tracerProvider := telemetry.NewTracerProvider(logger)
	defer tracerProvider.Shutdown(context.Background())
	tracer := tracerProvider.Tracer("myregistry/server")

	store := registry.NewLeaseStore(cfg.Registry, clock, metrics, logger)
	broker := notification.NewBroker(store, cfg.SelfURL, metrics, logger)
	store.AddListener(broker)

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

	var peers interfaces.EndpointResolver
	{
		if cfg.UseEtcd() {
			etcdClient, err := etcdpeers.NewClient(cfg.Etcd)
			if err != nil {
				return fmt.Errorf("connect to etcd: %w", err)
			}
			defer etcdClient.Close()

			announcer := etcdpeers.NewAnnouncer(cfg.Etcd, etcdClient, announceName(cfg.SelfURL), cfg.SelfURL, logger)
			if err := announcer.Announce(loopCtx); err != nil {
				return err
			}
			defer func() {
				withdrawCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := announcer.Withdraw(withdrawCtx); err != nil {
					level.Warn(logger).Log("msg", "Failed to withdraw peer announcement", "err", err)
				}
			}()

			resolver := etcdpeers.NewResolver(cfg.Etcd, etcdClient, logger)
			revision, err := resolver.Load(ctx)
			if err != nil {
				return err
			}
			goLoop(func(ctx context.Context) { resolver.Run(ctx, revision) })
			peers = resolver
		} else {
			peers = transport.NewStaticResolver(cfg.Peers...)
		}
		peers = transport.Excluding(peers, cfg.SelfURL)
	}

	{
		syncPipeline := transport.NewPipeline(cfg.Transport, peers, clock, tracer, metrics, logger)
		count := 0
		if len(peers.Endpoints()) > 0 {
			n, err := store.SyncUp(ctx, transport.NewReplicationClient(syncPipeline.Handler, cfg.SelfURL))
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				level.Warn(logger).Log("msg", "Registry sync failed, starting empty", "err", err)
			}
			count = n
		}
		store.OpenForTraffic(count)
	}

	replicator := replication.NewReplicator(cfg.Replication, peers, store,
		func(peerURL string) interfaces.RegistryClient {
			p := transport.NewPipeline(cfg.Transport, transport.NewStaticResolver(peerURL), clock, tracer, metrics, log.With(logger, "peer", peerURL))
			return transport.NewReplicationClient(p.Handler, cfg.SelfURL)
		},
		clock, metrics, logger)
	store.AddListener(replicator)

	var e *echo.Echo
	{
		validator, err := handlers.NewRequestValidator(api.OpenAPISpec)
		if err != nil {
			return fmt.Errorf("load openapi document: %w", err)
		}
		e = echo.New()
		e.HideBanner = true
		e.HidePort = true
		service.RegisterErrorHandler(e, logger)
		e.Use(telemetry.Instrument(metrics), validator)
		handlers.RegisterHandlers(e, handlers.NewHTTPServer(store, store, replicator.Peers, cfg.SelfURL, logger))
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
		e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	}

	var (
		grpcServer   *grpc.Server
		healthServer *health.Server
	)
	{
		grpcServer = grpc.NewServer(grpc.ChainStreamInterceptor(service.MyErrorToGRPCStreamInterceptor(logger)))
		handlers.RegisterInterestServiceServer(grpcServer, handlers.NewGrpcServer(broker, logger))

		healthServer = health.NewServer()
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

		reflection.Register(grpcServer)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	goLoop(store.Run)
	goLoop(replicator.Run)
	if cfg.StreamReplication {
		goLoop(func(ctx context.Context) {
			runReceivers(ctx, cfg, peers, store, logger)
		})
	}

	serveErr := make(chan error, 2)
	go func() {
		level.Info(logger).Log("msg", "Starting gRPC server", "addr", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			serveErr <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		err = nil
	case err = <-serveErr:
	}
	level.Info(logger).Log("msg", "Shutting down...")

	healthServer.Shutdown()
	broker.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		level.Error(logger).Log("msg", "Error during HTTP server shutdown", "err", shutdownErr)
	}
	grpcServer.GracefulStop()
	cancelLoops()
	loops.Wait()

	level.Info(logger).Log("msg", "Server stopped")
	return err
}

// runReceivers keeps one replication.Receiver per peer, following the peer set every
// PeerRefreshInterval. Peers are reached on the same gRPC port as this node.
func runReceivers(ctx context.Context, cfg ServerConfig, peers interfaces.EndpointResolver, store interfaces.ReplicaRegistry, logger log.Logger) {
	type running struct {
		cancel context.CancelFunc
		conn   *grpc.ClientConn
	}
	receivers := make(map[string]running)
	var wg sync.WaitGroup
	defer func() {
		for _, r := range receivers {
			r.cancel()
		}
		wg.Wait()
		for _, r := range receivers {
			r.conn.Close()
		}
	}()

	refresh := func() {
		endpoints := peers.Endpoints()
		for peerURL, r := range receivers {
			if !slices.Contains(endpoints, peerURL) {
				r.cancel()
				r.conn.Close()
				delete(receivers, peerURL)
			}
		}
		for _, peerURL := range endpoints {
			if _, ok := receivers[peerURL]; ok {
				continue
			}
			target, err := grpcstream.TargetFor(peerURL, cfg.GRPCPort)
			if err != nil {
				level.Warn(logger).Log("msg", "Skipping peer stream", "peer", peerURL, "err", err)
				continue
			}
			conn, err := grpcstream.Dial(target)
			if err != nil {
				level.Warn(logger).Log("msg", "Skipping peer stream", "peer", peerURL, "err", err)
				continue
			}
			receiver := replication.NewReceiver(peerURL, grpcstream.NewClient(conn, cfg.SelfURL, logger), store, cfg.Replication, logger)
			peerCtx, cancel := context.WithCancel(ctx)
			receivers[peerURL] = running{cancel: cancel, conn: conn}
			wg.Add(1)
			go func() {
				defer wg.Done()
				receiver.Run(peerCtx)
			}()
		}
	}

	refresh()
	ticker := time.NewTicker(cfg.Replication.PeerRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// announceName is the etcd key suffix of a node: the host:port of its URL.
func announceName(selfURL string) string {
	u, err := url.Parse(selfURL)
	if err != nil || u.Host == "" {
		return selfURL
	}
	return u.Host
}
