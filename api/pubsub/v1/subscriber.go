package pubsubv1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	Subscriber_CreateSubscription_FullMethodName = "/pubsub.v1.Subscriber/CreateSubscription"
	Subscriber_GetSubscription_FullMethodName    = "/pubsub.v1.Subscriber/GetSubscription"
	Subscriber_DeleteSubscription_FullMethodName = "/pubsub.v1.Subscriber/DeleteSubscription"
	Subscriber_ListSubscriptions_FullMethodName  = "/pubsub.v1.Subscriber/ListSubscriptions"
	Subscriber_ModifyPushConfig_FullMethodName   = "/pubsub.v1.Subscriber/ModifyPushConfig"
	Subscriber_Pull_FullMethodName               = "/pubsub.v1.Subscriber/Pull"
	Subscriber_Acknowledge_FullMethodName        = "/pubsub.v1.Subscriber/Acknowledge"
	Subscriber_ModifyAckDeadline_FullMethodName  = "/pubsub.v1.Subscriber/ModifyAckDeadline"
)

// SubscriberServer is the server API for the Subscriber service:
// subscription administration, message consumption, and acknowledgment.
type SubscriberServer interface {
	CreateSubscription(context.Context, *Subscription) (*Subscription, error)
	GetSubscription(context.Context, *GetSubscriptionRequest) (*Subscription, error)
	DeleteSubscription(context.Context, *DeleteSubscriptionRequest) (*Empty, error)
	ListSubscriptions(context.Context, *ListSubscriptionsRequest) (*ListSubscriptionsResponse, error)
	ModifyPushConfig(context.Context, *ModifyPushConfigRequest) (*Empty, error)
	Pull(context.Context, *PullRequest) (*PullResponse, error)
	Acknowledge(context.Context, *AcknowledgeRequest) (*Empty, error)
	ModifyAckDeadline(context.Context, *ModifyAckDeadlineRequest) (*Empty, error)
}

func RegisterSubscriberServer(s grpc.ServiceRegistrar, srv SubscriberServer) {
	s.RegisterService(&Subscriber_ServiceDesc, srv)
}

func _Subscriber_CreateSubscription_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Subscription)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).CreateSubscription(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_CreateSubscription_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).CreateSubscription(ctx, req.(*Subscription))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_GetSubscription_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetSubscriptionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).GetSubscription(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_GetSubscription_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).GetSubscription(ctx, req.(*GetSubscriptionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_DeleteSubscription_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteSubscriptionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).DeleteSubscription(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_DeleteSubscription_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).DeleteSubscription(ctx, req.(*DeleteSubscriptionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_ListSubscriptions_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListSubscriptionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).ListSubscriptions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_ListSubscriptions_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).ListSubscriptions(ctx, req.(*ListSubscriptionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_ModifyPushConfig_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ModifyPushConfigRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).ModifyPushConfig(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_ModifyPushConfig_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).ModifyPushConfig(ctx, req.(*ModifyPushConfigRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_Pull_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PullRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).Pull(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_Pull_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).Pull(ctx, req.(*PullRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_Acknowledge_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AcknowledgeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).Acknowledge(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_Acknowledge_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).Acknowledge(ctx, req.(*AcknowledgeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Subscriber_ModifyAckDeadline_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ModifyAckDeadlineRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SubscriberServer).ModifyAckDeadline(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Subscriber_ModifyAckDeadline_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SubscriberServer).ModifyAckDeadline(ctx, req.(*ModifyAckDeadlineRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var Subscriber_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pubsub.v1.Subscriber",
	HandlerType: (*SubscriberServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSubscription", Handler: _Subscriber_CreateSubscription_Handler},
		{MethodName: "GetSubscription", Handler: _Subscriber_GetSubscription_Handler},
		{MethodName: "DeleteSubscription", Handler: _Subscriber_DeleteSubscription_Handler},
		{MethodName: "ListSubscriptions", Handler: _Subscriber_ListSubscriptions_Handler},
		{MethodName: "ModifyPushConfig", Handler: _Subscriber_ModifyPushConfig_Handler},
		{MethodName: "Pull", Handler: _Subscriber_Pull_Handler},
		{MethodName: "Acknowledge", Handler: _Subscriber_Acknowledge_Handler},
		{MethodName: "ModifyAckDeadline", Handler: _Subscriber_ModifyAckDeadline_Handler},
	},
	Streams: []grpc.StreamDesc{},
}

// SubscriberClient is the client API for the Subscriber service.
type SubscriberClient interface {
	CreateSubscription(ctx context.Context, in *Subscription, opts ...grpc.CallOption) (*Subscription, error)
	GetSubscription(ctx context.Context, in *GetSubscriptionRequest, opts ...grpc.CallOption) (*Subscription, error)
	DeleteSubscription(ctx context.Context, in *DeleteSubscriptionRequest, opts ...grpc.CallOption) (*Empty, error)
	ListSubscriptions(ctx context.Context, in *ListSubscriptionsRequest, opts ...grpc.CallOption) (*ListSubscriptionsResponse, error)
	ModifyPushConfig(ctx context.Context, in *ModifyPushConfigRequest, opts ...grpc.CallOption) (*Empty, error)
	Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (*PullResponse, error)
	Acknowledge(ctx context.Context, in *AcknowledgeRequest, opts ...grpc.CallOption) (*Empty, error)
	ModifyAckDeadline(ctx context.Context, in *ModifyAckDeadlineRequest, opts ...grpc.CallOption) (*Empty, error)
}

type subscriberClient struct {
	cc grpc.ClientConnInterface
}

func NewSubscriberClient(cc grpc.ClientConnInterface) SubscriberClient {
	return &subscriberClient{cc}
}

func (c *subscriberClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	return c.cc.Invoke(ctx, method, in, out, append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)...)
}

func (c *subscriberClient) CreateSubscription(ctx context.Context, in *Subscription, opts ...grpc.CallOption) (*Subscription, error) {
	out := new(Subscription)
	if err := c.invoke(ctx, Subscriber_CreateSubscription_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) GetSubscription(ctx context.Context, in *GetSubscriptionRequest, opts ...grpc.CallOption) (*Subscription, error) {
	out := new(Subscription)
	if err := c.invoke(ctx, Subscriber_GetSubscription_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) DeleteSubscription(ctx context.Context, in *DeleteSubscriptionRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, Subscriber_DeleteSubscription_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) ListSubscriptions(ctx context.Context, in *ListSubscriptionsRequest, opts ...grpc.CallOption) (*ListSubscriptionsResponse, error) {
	out := new(ListSubscriptionsResponse)
	if err := c.invoke(ctx, Subscriber_ListSubscriptions_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) ModifyPushConfig(ctx context.Context, in *ModifyPushConfigRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, Subscriber_ModifyPushConfig_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) Pull(ctx context.Context, in *PullRequest, opts ...grpc.CallOption) (*PullResponse, error) {
	out := new(PullResponse)
	if err := c.invoke(ctx, Subscriber_Pull_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) Acknowledge(ctx context.Context, in *AcknowledgeRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, Subscriber_Acknowledge_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subscriberClient) ModifyAckDeadline(ctx context.Context, in *ModifyAckDeadlineRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, Subscriber_ModifyAckDeadline_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
