package delivery

import (
	"context"
	"time"
)

// Acknowledge retires leases by ack token. Tokens that are expired, already
// acknowledged, or simply unknown are skipped; the call is idempotent and
// never reports them as errors.
func (m *Manager) Acknowledge(ctx context.Context, subscription string, ackIDs []string) error {
	s := m.get(subscription)
	if s == nil {
		return ErrUnknownSubscription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := m.db.NewBatch()
	defer b.Close()
	acked := 0
	for _, ackID := range ackIDs {
		raw, err := m.db.Get(leaseKey(subscription, ackID))
		if err != nil {
			continue
		}
		b.Delete(leaseKey(subscription, ackID), nil)
		if l, ok := decodeLease(raw); ok {
			b.Delete(leaseIndexKey(subscription, l.ExpiresMs, ackID), nil)
		}
		acked++
	}
	if acked == 0 {
		return nil
	}
	if err := m.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	m.metrics.RecordAcks(subscription, acked)
	return nil
}

// ModifyAckDeadline re-times live leases: the new deadline is measured from
// now, replacing the original. Zero seconds makes the lease eligible for
// the next sweep, an immediate negative acknowledgment. Unknown tokens are
// skipped.
func (m *Manager) ModifyAckDeadline(ctx context.Context, subscription string, ackIDs []string, seconds int32) error {
	s := m.get(subscription)
	if s == nil {
		return ErrUnknownSubscription
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exp := time.Now().UnixMilli() + int64(seconds)*1000
	b := m.db.NewBatch()
	defer b.Close()
	moved := 0
	for _, ackID := range ackIDs {
		raw, err := m.db.Get(leaseKey(subscription, ackID))
		if err != nil {
			continue
		}
		l, ok := decodeLease(raw)
		if !ok {
			continue
		}
		b.Delete(leaseIndexKey(subscription, l.ExpiresMs, ackID), nil)
		l.ExpiresMs = exp
		if err := b.Set(leaseKey(subscription, ackID), encodeLease(l), nil); err != nil {
			return err
		}
		if err := b.Set(leaseIndexKey(subscription, exp, ackID), nil, nil); err != nil {
			return err
		}
		moved++
	}
	if moved == 0 {
		return nil
	}
	return m.db.CommitBatch(ctx, b)
}
