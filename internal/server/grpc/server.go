package grpcserver

import (
	"context"
	"net"

	"google.golang.org/grpc"

	pubsubv1 "github.com/courier-mq/courier/api/pubsub/v1"
	"github.com/courier-mq/courier/internal/runtime"
	publishersvc "github.com/courier-mq/courier/internal/services/publisher"
	subscribersvc "github.com/courier-mq/courier/internal/services/subscriber"
	"github.com/courier-mq/courier/pkg/log"
)

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt   *runtime.Runtime
	grpc *grpc.Server
	lis  net.Listener
}

// New constructs a gRPC server and registers the Publisher and Subscriber
// services. The JSON codec is forced on every RPC and service errors are
// mapped to status codes by the interceptor.
func New(rt *runtime.Runtime, opts ...grpc.ServerOption) *Server {
	logger := rt.Logger().With(log.Component("grpc"))
	base := []grpc.ServerOption{
		grpc.ForceServerCodec(pubsubv1.Codec{}),
		grpc.ChainUnaryInterceptor(statusInterceptor(logger)),
	}
	s := &Server{rt: rt, grpc: grpc.NewServer(append(base, opts...)...)}
	pubsubv1.RegisterPublisherServer(s.grpc, publishersvc.New(rt.Registry(), rt.Delivery(), rt.Logger()))
	pubsubv1.RegisterSubscriberServer(s.grpc, subscribersvc.New(rt.Registry(), rt.Delivery(), rt.Logger()))
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Serve serves on an existing listener until it fails or the server stops.
func (s *Server) Serve(l net.Listener) error {
	s.lis = l
	return s.grpc.Serve(l)
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
