// Package publisher implements the Publisher service: topic administration
// and message publication.
package publisher

import (
	"context"
	"errors"

	pubsubv1 "github.com/courier-mq/courier/api/pubsub/v1"
	"github.com/courier-mq/courier/internal/delivery"
	"github.com/courier-mq/courier/internal/messagelog"
	"github.com/courier-mq/courier/internal/registry"
	"github.com/courier-mq/courier/pkg/id"
	"github.com/courier-mq/courier/pkg/log"
)

// ErrNoMessages rejects a publish request with an empty batch.
var ErrNoMessages = errors.New("publisher: publish requires at least one message")

// Service answers the Publisher RPCs against the registry and the delivery
// engine.
type Service struct {
	reg    *registry.Store
	eng    *delivery.Manager
	logger log.Logger
}

func New(reg *registry.Store, eng *delivery.Manager, logger log.Logger) *Service {
	return &Service{reg: reg, eng: eng, logger: logger.With(log.Component("publisher"))}
}

func (s *Service) CreateTopic(ctx context.Context, in *pubsubv1.Topic) (*pubsubv1.Topic, error) {
	t, err := s.reg.CreateTopic(in.Name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("topic created", log.Str("topic", t.Name))
	return &pubsubv1.Topic{Name: t.Name}, nil
}

func (s *Service) GetTopic(ctx context.Context, in *pubsubv1.GetTopicRequest) (*pubsubv1.Topic, error) {
	t, err := s.reg.GetTopic(in.Topic)
	if err != nil {
		return nil, err
	}
	return &pubsubv1.Topic{Name: t.Name}, nil
}

// DeleteTopic detaches the topic's subscriptions and removes it. Deleting
// an absent topic succeeds.
func (s *Service) DeleteTopic(ctx context.Context, in *pubsubv1.DeleteTopicRequest) (*pubsubv1.Empty, error) {
	if err := s.reg.DeleteTopic(in.Topic); err != nil {
		return nil, err
	}
	s.logger.Info("topic deleted", log.Str("topic", in.Topic))
	return &pubsubv1.Empty{}, nil
}

func (s *Service) ListTopics(ctx context.Context, in *pubsubv1.ListTopicsRequest) (*pubsubv1.ListTopicsResponse, error) {
	topics, next, err := s.reg.ListTopics(int(in.PageSize), in.PageToken)
	if err != nil {
		return nil, err
	}
	out := &pubsubv1.ListTopicsResponse{NextPageToken: next}
	for _, t := range topics {
		out.Topics = append(out.Topics, &pubsubv1.Topic{Name: t.Name})
	}
	return out, nil
}

func (s *Service) ListTopicSubscriptions(ctx context.Context, in *pubsubv1.ListTopicSubscriptionsRequest) (*pubsubv1.ListTopicSubscriptionsResponse, error) {
	if _, err := s.reg.GetTopic(in.Topic); err != nil {
		return nil, err
	}
	names, next, err := s.reg.ListTopicSubscriptions(in.Topic, int(in.PageSize), in.PageToken)
	if err != nil {
		return nil, err
	}
	return &pubsubv1.ListTopicSubscriptionsResponse{Subscriptions: names, NextPageToken: next}, nil
}

// Publish appends the batch to the topic and fans it out. Message IDs are
// assigned in batch order.
func (s *Service) Publish(ctx context.Context, in *pubsubv1.PublishRequest) (*pubsubv1.PublishResponse, error) {
	if len(in.Messages) == 0 {
		return nil, ErrNoMessages
	}
	if _, err := s.reg.GetTopic(in.Topic); err != nil {
		return nil, err
	}

	msgs := make([]messagelog.Incoming, len(in.Messages))
	for i, m := range in.Messages {
		msgs[i] = messagelog.Incoming{Data: m.Data, Attributes: m.Attributes}
	}
	seqs, err := s.eng.Publish(ctx, in.Topic, msgs)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(seqs))
	for i, seq := range seqs {
		ids[i] = id.Message(seq)
	}
	s.logger.Debug("published", log.Str("topic", in.Topic), log.Int("messages", len(ids)))
	return &pubsubv1.PublishResponse{MessageIDs: ids}, nil
}
