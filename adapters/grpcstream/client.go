// Package grpcstream subscribes to the interest stream of a remote registry node.
package grpcstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"

	"myregistry/domain"
	"myregistry/handlers"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const defaultBuffer = 256

// Dial creates a connection to a node's gRPC port.
func Dial(target string) (*grpc.ClientConn, error) {
	return grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// TargetFor derives the gRPC target of a node from its REST base URL: same host, grpcPort.
func TargetFor(baseURL string, grpcPort int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid node url %q: %w", baseURL, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("node url %q has no host", baseURL)
	}
	return net.JoinHostPort(u.Hostname(), strconv.Itoa(grpcPort)), nil
}

// Client implements interfaces.InterestStreamer over one gRPC connection.
type Client struct {
	client     handlers.InterestServiceClient
	subscriber string
	logger     log.Logger
}

var _ interfaces.InterestStreamer = (*Client)(nil)

// NewClient creates the stream client. subscriber names this side in the server logs.
func NewClient(conn grpc.ClientConnInterface, subscriber string, logger log.Logger) *Client {
	return &Client{
		client:     handlers.NewInterestServiceClient(helpers.NilPanic(conn, "grpcstream.client.go: conn is required")),
		subscriber: subscriber,
		logger:     log.With(helpers.NilPanic(logger, "grpcstream.client.go: logger is required"), "component", "StreamClient"),
	}
}

// Subscribe implements interfaces.InterestStreamer.
//
// Returns no_available_server when the stream cannot be opened. A rejection by the server shows
// up as an immediately closed channel.
func (c *Client) Subscribe(ctx context.Context, interests domain.Interests, localOnly bool) (<-chan domain.ChangeNotification, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.client.Subscribe(streamCtx, handlers.ToSubscribeRequest(interests, localOnly, c.subscriber))
	if err != nil {
		cancel()
		return nil, service.NewNoAvailableServerError("Cannot open interest stream", err)
	}

	out := make(chan domain.ChangeNotification, defaultBuffer)
	go func() {
		defer cancel()
		defer close(out)
		for {
			msg, err := stream.Recv()
			if err != nil {
				c.logEnd(streamCtx, err)
				return
			}
			n, err := handlers.FromNotification(msg)
			if err != nil {
				level.Warn(c.logger).Log("msg", "dropping malformed notification", "err", err)
				continue
			}
			select {
			case out <- n:
			case <-streamCtx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Client) logEnd(ctx context.Context, err error) {
	if errors.Is(err, io.EOF) || ctx.Err() != nil {
		return
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.Canceled {
		return
	}
	level.Warn(c.logger).Log("msg", "interest stream ended", "err", err)
}
