package service

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const msgInternalError = "internal error"

// myErrorCodeToGRPCCode maps MyError codes to gRPC status codes.
func myErrorCodeToGRPCCode(code string) codes.Code {
	switch code {
	case ErrBadParameter:
		return codes.InvalidArgument
	case ErrEntityNotFound:
		return codes.NotFound
	case ErrConflict:
		return codes.FailedPrecondition
	case ErrNoAvailableServer:
		return codes.Unavailable
	case ErrInternalServerError:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// MyErrorToGRPC converts a handler error to a gRPC status error.
//
// nil stays nil; an existing gRPC status is returned as-is; context cancellation becomes
// Canceled or DeadlineExceeded; a MyError anywhere in the chain is mapped by code with its
// message; everything else becomes Internal with a generic message.
func MyErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Err()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	if myErr := ToMyError(err); myErr != nil {
		return status.Error(myErrorCodeToGRPCCode(myErr.Code), myErr.Message)
	}
	return status.Error(codes.Internal, msgInternalError)
}

// MyErrorToGRPCStreamInterceptor returns a stream server interceptor that runs the handler,
// logs a returned error and maps it through MyErrorToGRPC.
func MyErrorToGRPCStreamInterceptor(logger log.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		err := handler(srv, ss)
		if err != nil {
			level.Info(logger).Log(
				"msg", "stream handler error",
				"method", info.FullMethod,
				"err", err,
			)
			err = MyErrorToGRPC(err)
		}
		return err
	}
}
