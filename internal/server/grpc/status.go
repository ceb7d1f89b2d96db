package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/courier-mq/courier/internal/delivery"
	"github.com/courier-mq/courier/internal/messagelog"
	"github.com/courier-mq/courier/internal/registry"
	publishersvc "github.com/courier-mq/courier/internal/services/publisher"
	subscribersvc "github.com/courier-mq/courier/internal/services/subscriber"
	"github.com/courier-mq/courier/pkg/log"
)

// statusInterceptor maps service errors to gRPC status codes and logs
// failures. Rejections expected in normal operation log at debug.
func statusInterceptor(logger log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		st := toStatus(err)
		if st.Code() == codes.Internal {
			logger.Error("rpc failed", log.Str("method", info.FullMethod), log.Err(err))
		} else {
			logger.Debug("rpc rejected",
				log.Str("method", info.FullMethod), log.Str("code", st.Code().String()), log.Err(err))
		}
		return nil, st.Err()
	}
}

func toStatus(err error) *status.Status {
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		return st
	}
	switch {
	case errors.Is(err, registry.ErrNotFound),
		errors.Is(err, delivery.ErrUnknownSubscription),
		errors.Is(err, messagelog.ErrNotFound):
		return status.New(codes.NotFound, err.Error())
	case errors.Is(err, registry.ErrAlreadyExists):
		return status.New(codes.AlreadyExists, err.Error())
	case errors.Is(err, registry.ErrInvalidName),
		errors.Is(err, registry.ErrBadPageToken),
		errors.Is(err, publishersvc.ErrNoMessages),
		errors.Is(err, subscribersvc.ErrInvalidDeadline),
		errors.Is(err, subscribersvc.ErrInvalidFilter),
		errors.Is(err, subscribersvc.ErrNoMaxMessages):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, delivery.ErrOverloaded):
		return status.New(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err)
	}
	return status.New(codes.Internal, err.Error())
}
