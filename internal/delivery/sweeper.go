package delivery

import (
	"context"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/courier-mq/courier/pkg/log"
)

func (m *Manager) sweepLoop() {
	defer m.wg.Done()
	for {
		// Jitter keeps several node-local engines from sweeping in phase.
		interval := m.opts.SweepInterval + time.Duration(rand.Int63n(int64(m.opts.SweepInterval)/4+1))
		select {
		case <-m.stop:
			return
		case <-time.After(interval):
		}
		m.sweepOnce(context.Background(), time.Now().UnixMilli())
	}
}

// sweepOnce requeues expired leases across every served subscription.
func (m *Manager) sweepOnce(ctx context.Context, nowMs int64) {
	for _, s := range m.snapshot() {
		n, err := m.sweepSub(ctx, s, nowMs)
		if err != nil {
			m.logger.Warn("lease sweep failed", log.Str("subscription", s.name), log.Err(err))
			continue
		}
		if n > 0 {
			m.metrics.RecordRedeliveries(s.name, n)
			m.logger.Debug("requeued expired leases",
				log.Str("subscription", s.name), log.Int("count", n))
		}
	}
}

// sweepSub walks the expiry index in deadline order and moves each lease
// expiring at or before nowMs back to the backlog tail, carrying the
// lease's attempt count so the next delivery reports the redelivery.
func (m *Manager) sweepSub(ctx context.Context, s *subState, nowMs int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := leaseIndexPrefix(s.name)
	iter, err := m.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	b := m.db.NewBatch()
	defer b.Close()
	moved := 0
	next := s.lastBacklogSeq
	for ok := iter.First(); ok; ok = iter.Next() {
		key := iter.Key()
		if len(key) < len(prefix)+8 {
			b.Delete(append([]byte(nil), key...), nil)
			continue
		}
		exp := int64(binary.BigEndian.Uint64(key[len(prefix) : len(prefix)+8]))
		if exp > nowMs {
			break
		}
		ackID := string(key[len(prefix)+8:])
		b.Delete(append([]byte(nil), key...), nil)

		raw, err := m.db.Get(leaseKey(s.name, ackID))
		if err != nil {
			// Orphaned index entry, the lease was already retired.
			continue
		}
		l, okDec := decodeLease(raw)
		if !okDec || l.ExpiresMs != exp {
			// Stale index entry left behind by a deadline change.
			continue
		}
		next++
		entry := backlogEntry{Topic: l.Topic, Seq: l.Seq, Attempts: l.Attempts}
		if err := b.Set(backlogKey(s.name, next), encodeBacklogEntry(entry), nil); err != nil {
			return 0, err
		}
		b.Delete(leaseKey(s.name, ackID), nil)
		moved++
		if moved >= m.opts.SweepBudget {
			break
		}
	}
	if b.Count() == 0 {
		return 0, nil
	}
	if moved > 0 {
		var meta [8]byte
		binary.BigEndian.PutUint64(meta[:], next)
		if err := b.Set(backlogMetaKey(s.name), meta[:], nil); err != nil {
			return 0, err
		}
	}
	if err := m.db.CommitBatch(ctx, b); err != nil {
		return 0, err
	}
	if moved > 0 {
		s.lastBacklogSeq = next
		s.notifyLocked()
	}
	return moved, nil
}
