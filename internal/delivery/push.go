package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/courier-mq/courier/internal/registry"
	"github.com/courier-mq/courier/pkg/log"
)

// pushEnvelope is the JSON body POSTed to a push endpoint.
type pushEnvelope struct {
	Message      pushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

type pushMessage struct {
	Data        []byte            `json:"data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
}

// RefreshPush re-reads a subscription's push configuration, starting or
// stopping its delivery loop to match.
func (m *Manager) RefreshPush(name string) error {
	s := m.get(name)
	if s == nil {
		return ErrUnknownSubscription
	}
	sub, err := m.cp.GetSubscription(name)
	if err != nil {
		return err
	}
	if sub.Push.Endpoint == "" {
		m.stopPushLoop(s)
		return nil
	}
	m.startPushLoop(s)
	s.mu.Lock()
	s.notifyLocked()
	s.mu.Unlock()
	return nil
}

func (m *Manager) startPushLoop(s *subState) {
	s.mu.Lock()
	if s.pushStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.pushStop = stop
	s.mu.Unlock()

	m.wg.Add(1)
	go m.pushLoop(s, stop)
}

func (m *Manager) stopPushLoop(s *subState) {
	s.mu.Lock()
	if s.pushStop != nil {
		close(s.pushStop)
		s.pushStop = nil
	}
	s.mu.Unlock()
}

// pushLoop drains the backlog and POSTs each message to the subscription's
// endpoint. A 2xx response acknowledges; anything else leaves the lease to
// expire and be redelivered. The loop re-reads the push configuration every
// cycle and exits once it is cleared.
func (m *Manager) pushLoop(s *subState, stop chan struct{}) {
	defer m.wg.Done()
	defer func() {
		s.mu.Lock()
		if s.pushStop == stop {
			s.pushStop = nil
		}
		s.mu.Unlock()
	}()

	ctx := context.Background()
	for {
		select {
		case <-stop:
			return
		case <-m.stop:
			return
		default:
		}

		sub, err := m.cp.GetSubscription(s.name)
		if err != nil || sub.Push.Endpoint == "" {
			return
		}

		batch, err := m.drain(ctx, s, m.opts.PushBatch)
		if err != nil {
			m.logger.Warn("push drain failed", log.Str("subscription", s.name), log.Err(err))
		}
		if len(batch) == 0 {
			s.mu.Lock()
			notify := s.notify
			s.mu.Unlock()
			select {
			case <-notify:
			case <-stop:
				return
			case <-m.stop:
				return
			case <-time.After(2 * time.Second):
				// Periodic wakeup to notice endpoint changes.
			}
			continue
		}

		m.metrics.RecordDelivered(s.name, "push", len(batch))
		for _, rm := range batch {
			if err := m.deliverPush(ctx, s.name, sub.Push, rm); err != nil {
				m.metrics.RecordPushDelivery(s.name, "error")
				m.logger.Debug("push delivery failed, lease left to expire",
					log.Str("subscription", s.name), log.Str("messageId", rm.Message.ID), log.Err(err))
				continue
			}
			m.metrics.RecordPushDelivery(s.name, "ok")
			if err := m.Acknowledge(ctx, s.name, []string{rm.AckID}); err != nil {
				// The lease stays put and the sweeper requeues it; the loop
				// itself must outlive a failed commit.
				m.logger.Debug("push ack failed, lease left to expire",
					log.Str("subscription", s.name), log.Str("ackId", rm.AckID), log.Err(err))
			}
		}
	}
}

func (m *Manager) deliverPush(ctx context.Context, subscription string, cfg registry.PushConfig, rm ReceivedMessage) error {
	body, err := json.Marshal(pushEnvelope{
		Message: pushMessage{
			Data:        rm.Message.Data,
			Attributes:  rm.Message.Attributes,
			MessageID:   rm.Message.ID,
			PublishTime: time.UnixMilli(rm.Message.PublishMs).UTC().Format(time.RFC3339Nano),
		},
		Subscription: subscription,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.opts.PushTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range cfg.Attributes {
		req.Header.Set("X-Courier-"+k, v)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %s", resp.Status)
	}
	return nil
}
