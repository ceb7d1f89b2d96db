package delivery

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/courier-mq/courier/internal/messagelog"
	"github.com/courier-mq/courier/pkg/log"
)

// Publish appends the batch to the topic log and fans a backlog reference
// out to every bound subscription whose filter admits the message. The
// per-topic lock orders concurrent publishes against subscription creation:
// a subscription either sees a message in its backlog or was created after
// it, never half of a batch.
func (m *Manager) Publish(ctx context.Context, topic string, msgs []messagelog.Incoming) ([]uint64, error) {
	t, err := m.topic(topic)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	seqs, err := t.log.Append(ctx, msgs, time.Now().UnixMilli())
	if err != nil {
		return nil, err
	}

	names, err := m.cp.Subscribers(topic)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		s := m.get(name)
		if s == nil {
			continue
		}
		if err := m.enqueue(ctx, s, topic, msgs, seqs); err != nil {
			m.logger.Warn("backlog enqueue failed",
				log.Str("subscription", name), log.Str("topic", topic), log.Err(err))
		}
	}
	m.metrics.RecordPublish(topic, "ok", len(msgs))
	return seqs, nil
}

// enqueue appends backlog entries for the admitted subset of the batch and
// wakes waiting pulls.
func (m *Manager) enqueue(ctx context.Context, s *subState, topic string, msgs []messagelog.Incoming, seqs []uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := m.db.NewBatch()
	defer b.Close()
	admitted := 0
	next := s.lastBacklogSeq
	for i := range msgs {
		if !s.filter.Eval(topic, msgs[i].Attributes, len(msgs[i].Data)) {
			continue
		}
		next++
		if err := b.Set(backlogKey(s.name, next), encodeBacklogEntry(backlogEntry{Topic: topic, Seq: seqs[i]}), nil); err != nil {
			return err
		}
		admitted++
	}
	if admitted == 0 {
		return nil
	}
	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], next)
	if err := b.Set(backlogMetaKey(s.name), meta[:], nil); err != nil {
		return err
	}
	if err := m.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	s.lastBacklogSeq = next
	s.notifyLocked()
	return nil
}
