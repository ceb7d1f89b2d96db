package pubsubv1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	Publisher_CreateTopic_FullMethodName            = "/pubsub.v1.Publisher/CreateTopic"
	Publisher_GetTopic_FullMethodName               = "/pubsub.v1.Publisher/GetTopic"
	Publisher_DeleteTopic_FullMethodName            = "/pubsub.v1.Publisher/DeleteTopic"
	Publisher_ListTopics_FullMethodName             = "/pubsub.v1.Publisher/ListTopics"
	Publisher_ListTopicSubscriptions_FullMethodName = "/pubsub.v1.Publisher/ListTopicSubscriptions"
	Publisher_Publish_FullMethodName                = "/pubsub.v1.Publisher/Publish"
)

// PublisherServer is the server API for the Publisher service: topic
// administration and message publication.
type PublisherServer interface {
	CreateTopic(context.Context, *Topic) (*Topic, error)
	GetTopic(context.Context, *GetTopicRequest) (*Topic, error)
	DeleteTopic(context.Context, *DeleteTopicRequest) (*Empty, error)
	ListTopics(context.Context, *ListTopicsRequest) (*ListTopicsResponse, error)
	ListTopicSubscriptions(context.Context, *ListTopicSubscriptionsRequest) (*ListTopicSubscriptionsResponse, error)
	Publish(context.Context, *PublishRequest) (*PublishResponse, error)
}

func RegisterPublisherServer(s grpc.ServiceRegistrar, srv PublisherServer) {
	s.RegisterService(&Publisher_ServiceDesc, srv)
}

func _Publisher_CreateTopic_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Topic)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublisherServer).CreateTopic(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Publisher_CreateTopic_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublisherServer).CreateTopic(ctx, req.(*Topic))
	}
	return interceptor(ctx, in, info, handler)
}

func _Publisher_GetTopic_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetTopicRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublisherServer).GetTopic(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Publisher_GetTopic_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublisherServer).GetTopic(ctx, req.(*GetTopicRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Publisher_DeleteTopic_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteTopicRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublisherServer).DeleteTopic(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Publisher_DeleteTopic_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublisherServer).DeleteTopic(ctx, req.(*DeleteTopicRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Publisher_ListTopics_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListTopicsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublisherServer).ListTopics(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Publisher_ListTopics_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublisherServer).ListTopics(ctx, req.(*ListTopicsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Publisher_ListTopicSubscriptions_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListTopicSubscriptionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublisherServer).ListTopicSubscriptions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Publisher_ListTopicSubscriptions_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublisherServer).ListTopicSubscriptions(ctx, req.(*ListTopicSubscriptionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Publisher_Publish_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PublishRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublisherServer).Publish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Publisher_Publish_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PublisherServer).Publish(ctx, req.(*PublishRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Publisher_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pubsub.v1.Publisher",
	HandlerType: (*PublisherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateTopic", Handler: _Publisher_CreateTopic_Handler},
		{MethodName: "GetTopic", Handler: _Publisher_GetTopic_Handler},
		{MethodName: "DeleteTopic", Handler: _Publisher_DeleteTopic_Handler},
		{MethodName: "ListTopics", Handler: _Publisher_ListTopics_Handler},
		{MethodName: "ListTopicSubscriptions", Handler: _Publisher_ListTopicSubscriptions_Handler},
		{MethodName: "Publish", Handler: _Publisher_Publish_Handler},
	},
	Streams: []grpc.StreamDesc{},
}

// PublisherClient is the client API for the Publisher service.
type PublisherClient interface {
	CreateTopic(ctx context.Context, in *Topic, opts ...grpc.CallOption) (*Topic, error)
	GetTopic(ctx context.Context, in *GetTopicRequest, opts ...grpc.CallOption) (*Topic, error)
	DeleteTopic(ctx context.Context, in *DeleteTopicRequest, opts ...grpc.CallOption) (*Empty, error)
	ListTopics(ctx context.Context, in *ListTopicsRequest, opts ...grpc.CallOption) (*ListTopicsResponse, error)
	ListTopicSubscriptions(ctx context.Context, in *ListTopicSubscriptionsRequest, opts ...grpc.CallOption) (*ListTopicSubscriptionsResponse, error)
	Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error)
}

type publisherClient struct {
	cc grpc.ClientConnInterface
}

func NewPublisherClient(cc grpc.ClientConnInterface) PublisherClient {
	return &publisherClient{cc}
}

func (c *publisherClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	return c.cc.Invoke(ctx, method, in, out, append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)...)
}

func (c *publisherClient) CreateTopic(ctx context.Context, in *Topic, opts ...grpc.CallOption) (*Topic, error) {
	out := new(Topic)
	if err := c.invoke(ctx, Publisher_CreateTopic_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *publisherClient) GetTopic(ctx context.Context, in *GetTopicRequest, opts ...grpc.CallOption) (*Topic, error) {
	out := new(Topic)
	if err := c.invoke(ctx, Publisher_GetTopic_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *publisherClient) DeleteTopic(ctx context.Context, in *DeleteTopicRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, Publisher_DeleteTopic_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *publisherClient) ListTopics(ctx context.Context, in *ListTopicsRequest, opts ...grpc.CallOption) (*ListTopicsResponse, error) {
	out := new(ListTopicsResponse)
	if err := c.invoke(ctx, Publisher_ListTopics_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *publisherClient) ListTopicSubscriptions(ctx context.Context, in *ListTopicSubscriptionsRequest, opts ...grpc.CallOption) (*ListTopicSubscriptionsResponse, error) {
	out := new(ListTopicSubscriptionsResponse)
	if err := c.invoke(ctx, Publisher_ListTopicSubscriptions_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *publisherClient) Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error) {
	out := new(PublishResponse)
	if err := c.invoke(ctx, Publisher_Publish_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
