package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/courier-mq/courier/internal/messagelog"
	"github.com/courier-mq/courier/pkg/id"
)

// Pull leases up to max backlogged messages. With an empty backlog and
// wait set it blocks until a message arrives, the context is cancelled, or
// the engine's wait bound elapses; without wait it returns an empty batch
// immediately. Waiting calls still count against the subscription's
// admission cap.
func (m *Manager) Pull(ctx context.Context, subscription string, max int, wait bool) ([]ReceivedMessage, error) {
	s := m.get(subscription)
	if s == nil {
		return nil, ErrUnknownSubscription
	}

	s.mu.Lock()
	if s.pulls >= m.opts.MaxPullsPerSubscription {
		s.mu.Unlock()
		m.metrics.RecordPullRejected(subscription)
		return nil, ErrOverloaded
	}
	s.pulls++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.pulls--
		s.mu.Unlock()
	}()

	deadline := time.NewTimer(m.opts.MaxPullWait)
	defer deadline.Stop()
	for {
		out, err := m.drain(ctx, s, max)
		if err != nil {
			return nil, err
		}
		if len(out) > 0 {
			m.metrics.RecordPull(subscription, "ok")
			m.metrics.RecordDelivered(subscription, "pull", len(out))
			return out, nil
		}
		if !wait {
			m.metrics.RecordPull(subscription, "empty")
			return nil, nil
		}

		s.mu.Lock()
		notify := s.notify
		s.mu.Unlock()
		select {
		case <-notify:
			// Removed subscriptions wake waiters too; re-check before
			// draining a purged keyspace.
			if m.get(subscription) != s {
				return nil, ErrUnknownSubscription
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			m.metrics.RecordPull(subscription, "empty")
			return nil, nil
		}
	}
}

// drain moves up to max backlog entries into the lease table, minting a
// fresh ack token per message. Entries whose message is gone or corrupt are
// dropped; any other read error aborts the drain so the entries survive for
// a later attempt.
func (m *Manager) drain(ctx context.Context, s *subState, max int) ([]ReceivedMessage, error) {
	if max <= 0 {
		max = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := backlogPrefix(s.name)
	iter, err := m.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	b := m.db.NewBatch()
	defer b.Close()
	nowMs := time.Now().UnixMilli()
	out := make([]ReceivedMessage, 0, max)
	for ok := iter.First(); ok && len(out) < max; ok = iter.Next() {
		key := append([]byte(nil), iter.Key()...)
		entry, okDec := decodeBacklogEntry(iter.Value())
		if !okDec {
			b.Delete(key, nil)
			continue
		}
		msg, err := m.message(entry.Topic, entry.Seq)
		if err != nil {
			if errors.Is(err, messagelog.ErrNotFound) || errors.Is(err, messagelog.ErrCorrupt) {
				b.Delete(key, nil)
				continue
			}
			return nil, err
		}

		token := id.AckToken()
		exp := nowMs + s.ackDeadline.Milliseconds()
		l := lease{Topic: entry.Topic, Seq: entry.Seq, Attempts: entry.Attempts + 1, ExpiresMs: exp}
		if err := b.Set(leaseKey(s.name, token), encodeLease(l), nil); err != nil {
			return nil, err
		}
		if err := b.Set(leaseIndexKey(s.name, exp, token), nil, nil); err != nil {
			return nil, err
		}
		b.Delete(key, nil)
		out = append(out, ReceivedMessage{AckID: token, Message: msg, DeliveryAttempts: entry.Attempts})
	}
	if b.Count() == 0 {
		return nil, nil
	}
	if err := m.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	return out, nil
}
