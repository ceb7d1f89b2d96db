// Package subscriber implements the Subscriber service: subscription
// administration, pull consumption, and acknowledgment.
package subscriber

import (
	"context"
	"errors"
	"fmt"
	"time"

	pubsubv1 "github.com/courier-mq/courier/api/pubsub/v1"
	"github.com/courier-mq/courier/internal/delivery"
	"github.com/courier-mq/courier/internal/registry"
	"github.com/courier-mq/courier/pkg/log"
)

var (
	// ErrInvalidDeadline rejects negative ack deadlines.
	ErrInvalidDeadline = errors.New("subscriber: ack deadline must not be negative")
	// ErrInvalidFilter rejects a filter expression that does not compile.
	ErrInvalidFilter = errors.New("subscriber: filter does not compile")
	// ErrNoMaxMessages rejects a pull asking for no messages.
	ErrNoMaxMessages = errors.New("subscriber: max messages must be positive")
)

// defaultAckDeadlineSeconds is stored when a subscription is created
// without a deadline.
const defaultAckDeadlineSeconds = 60

// Service answers the Subscriber RPCs against the registry and the
// delivery engine.
type Service struct {
	reg    *registry.Store
	eng    *delivery.Manager
	logger log.Logger
}

func New(reg *registry.Store, eng *delivery.Manager, logger log.Logger) *Service {
	return &Service{reg: reg, eng: eng, logger: logger.With(log.Component("subscriber"))}
}

// CreateSubscription validates and stores the subscription, then registers
// it with the delivery engine. A zero ack deadline selects the engine
// default.
func (s *Service) CreateSubscription(ctx context.Context, in *pubsubv1.Subscription) (*pubsubv1.Subscription, error) {
	if in.AckDeadlineSeconds < 0 {
		return nil, ErrInvalidDeadline
	}
	if _, err := delivery.NewFilter(in.Filter); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	deadline := in.AckDeadlineSeconds
	if deadline == 0 {
		deadline = defaultAckDeadlineSeconds
	}
	sub := registry.Subscription{
		Name:               in.Name,
		Topic:              in.Topic,
		AckDeadlineSeconds: deadline,
		Filter:             in.Filter,
		CreatedMs:          time.Now().UnixMilli(),
	}
	if in.PushConfig != nil {
		sub.Push = registry.PushConfig{Endpoint: in.PushConfig.PushEndpoint, Attributes: in.PushConfig.Attributes}
	}
	stored, err := s.reg.CreateSubscription(sub)
	if err != nil {
		return nil, err
	}
	if err := s.eng.Register(stored.Name); err != nil {
		return nil, err
	}
	s.logger.Info("subscription created",
		log.Str("subscription", stored.Name), log.Str("topic", stored.Topic))
	return apiSubscription(stored), nil
}

func (s *Service) GetSubscription(ctx context.Context, in *pubsubv1.GetSubscriptionRequest) (*pubsubv1.Subscription, error) {
	sub, err := s.reg.GetSubscription(in.Subscription)
	if err != nil {
		return nil, err
	}
	return apiSubscription(sub), nil
}

// DeleteSubscription drops the subscription's backlog and leases along
// with its registration. Deleting an absent subscription succeeds.
func (s *Service) DeleteSubscription(ctx context.Context, in *pubsubv1.DeleteSubscriptionRequest) (*pubsubv1.Empty, error) {
	if err := s.eng.Remove(ctx, in.Subscription); err != nil {
		return nil, err
	}
	if err := s.reg.DeleteSubscription(in.Subscription); err != nil {
		return nil, err
	}
	s.logger.Info("subscription deleted", log.Str("subscription", in.Subscription))
	return &pubsubv1.Empty{}, nil
}

func (s *Service) ListSubscriptions(ctx context.Context, in *pubsubv1.ListSubscriptionsRequest) (*pubsubv1.ListSubscriptionsResponse, error) {
	subs, next, err := s.reg.ListSubscriptions(int(in.PageSize), in.PageToken)
	if err != nil {
		return nil, err
	}
	out := &pubsubv1.ListSubscriptionsResponse{NextPageToken: next}
	for _, sub := range subs {
		out.Subscriptions = append(out.Subscriptions, apiSubscription(sub))
	}
	return out, nil
}

// ModifyPushConfig switches the subscription between push and pull
// delivery. Clearing the endpoint stops the push loop; its backlog then
// accumulates for Pull.
func (s *Service) ModifyPushConfig(ctx context.Context, in *pubsubv1.ModifyPushConfigRequest) (*pubsubv1.Empty, error) {
	var push registry.PushConfig
	if in.PushConfig != nil {
		push = registry.PushConfig{Endpoint: in.PushConfig.PushEndpoint, Attributes: in.PushConfig.Attributes}
	}
	if err := s.reg.SetPushConfig(in.Subscription, push); err != nil {
		return nil, err
	}
	if err := s.eng.RefreshPush(in.Subscription); err != nil {
		return nil, err
	}
	s.logger.Info("push config updated",
		log.Str("subscription", in.Subscription), log.Str("endpoint", push.Endpoint))
	return &pubsubv1.Empty{}, nil
}

// Pull leases up to MaxMessages backlogged messages. Unless
// ReturnImmediately is set, an empty backlog blocks the call until a
// message arrives or the server's wait bound elapses.
func (s *Service) Pull(ctx context.Context, in *pubsubv1.PullRequest) (*pubsubv1.PullResponse, error) {
	if in.MaxMessages <= 0 {
		return nil, ErrNoMaxMessages
	}
	msgs, err := s.eng.Pull(ctx, in.Subscription, int(in.MaxMessages), !in.ReturnImmediately)
	if err != nil {
		return nil, err
	}

	out := &pubsubv1.PullResponse{}
	for _, rm := range msgs {
		out.ReceivedMessages = append(out.ReceivedMessages, &pubsubv1.ReceivedMessage{
			AckID: rm.AckID,
			Message: &pubsubv1.PubsubMessage{
				Data:        rm.Message.Data,
				Attributes:  rm.Message.Attributes,
				MessageID:   rm.Message.ID,
				PublishTime: time.UnixMilli(rm.Message.PublishMs).UTC().Format(time.RFC3339Nano),
			},
			DeliveryAttempt: rm.DeliveryAttempts,
		})
	}
	return out, nil
}

func (s *Service) Acknowledge(ctx context.Context, in *pubsubv1.AcknowledgeRequest) (*pubsubv1.Empty, error) {
	if err := s.eng.Acknowledge(ctx, in.Subscription, in.AckIDs); err != nil {
		return nil, err
	}
	return &pubsubv1.Empty{}, nil
}

func (s *Service) ModifyAckDeadline(ctx context.Context, in *pubsubv1.ModifyAckDeadlineRequest) (*pubsubv1.Empty, error) {
	if in.AckDeadlineSeconds < 0 {
		return nil, ErrInvalidDeadline
	}
	if err := s.eng.ModifyAckDeadline(ctx, in.Subscription, in.AckIDs, in.AckDeadlineSeconds); err != nil {
		return nil, err
	}
	return &pubsubv1.Empty{}, nil
}

func apiSubscription(sub registry.Subscription) *pubsubv1.Subscription {
	out := &pubsubv1.Subscription{
		Name:               sub.Name,
		Topic:              sub.Topic,
		AckDeadlineSeconds: sub.AckDeadlineSeconds,
		Filter:             sub.Filter,
	}
	if sub.Push.Endpoint != "" {
		out.PushConfig = &pubsubv1.PushConfig{PushEndpoint: sub.Push.Endpoint, Attributes: sub.Push.Attributes}
	}
	return out
}
