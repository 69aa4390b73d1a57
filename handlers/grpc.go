// Package handlers contains the REST and gRPC surfaces of a registry node.
//
//go:generate protoc --proto_path=.. --go_out=.. --go-grpc_out=.. --go_opt=module=myregistry --go-grpc_opt=module=myregistry ../api/registry.proto
package handlers

import (
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// GrpcServer implements InterestServiceServer over an InterestStreamer (the node's Broker).
type GrpcServer struct {
	UnimplementedInterestServiceServer
	streamer interfaces.InterestStreamer
	logger   log.Logger
}

var _ InterestServiceServer = (*GrpcServer)(nil)

// NewGrpcServer creates the interest stream server.
func NewGrpcServer(streamer interfaces.InterestStreamer, logger log.Logger) *GrpcServer {
	return &GrpcServer{
		streamer: helpers.NilPanic(streamer, "handlers.grpc.go: streamer is required"),
		logger:   log.WithPrefix(helpers.NilPanic(logger, "handlers.grpc.go: logger is required"), "component", "GrpcServer"),
	}
}

// Subscribe sends the snapshot and the live changes of the requested interests until the client
// goes away. A subscriber that falls behind is cut off with no_available_server and must
// subscribe again.
func (s *GrpcServer) Subscribe(req *SubscribeRequest, stream InterestService_SubscribeServer) error {
	if len(req.GetInterests()) == 0 {
		return service.NewBadParameterError("interests are required", nil)
	}
	interests, err := FromSubscribeRequest(req)
	if err != nil {
		return service.NewBadParameterError("invalid interest", err)
	}

	ctx := stream.Context()
	ch, err := s.streamer.Subscribe(ctx, interests, req.GetLocalOnly())
	if err != nil {
		return err
	}
	level.Debug(s.logger).Log("msg", "interest stream opened", "subscriber", req.GetSubscriber(), "interests", len(interests), "local_only", req.GetLocalOnly())

	for n := range ch {
		if err := stream.Send(ToNotification(n)); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return service.NewNoAvailableServerError("interest stream closed by the server", nil)
}
