package messagelog

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	pebblestore "github.com/courier-mq/courier/internal/storage/pebble"
	"github.com/courier-mq/courier/pkg/id"
)

// ErrNotFound reports a sequence with no stored message.
var ErrNotFound = errors.New("messagelog: message not found")

// ErrCorrupt reports a stored record that fails to decode.
var ErrCorrupt = errors.New("messagelog: corrupt record")

// Incoming is a message as supplied by a publisher: payload plus attributes.
type Incoming struct {
	Data       []byte
	Attributes map[string]string
}

// Message is a stored message read back from the log.
type Message struct {
	Seq        uint64
	ID         string
	Data       []byte
	Attributes map[string]string
	PublishMs  int64
}

// Log provides append and point-read operations for one topic.
type Log struct {
	db    *pebblestore.DB
	topic string

	mu      sync.Mutex
	lastSeq uint64
}

// Open initializes a Log and restores lastSeq from metadata if present.
func Open(db *pebblestore.DB, topic string) (*Log, error) {
	l := &Log{db: db, topic: topic}
	if meta, err := db.Get(KeyMeta(topic)); err == nil && len(meta) >= 8 {
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return l, nil
}

// Append stores the batch atomically, stamping publish time, and returns the
// assigned sequences in input order.
func (l *Log) Append(ctx context.Context, msgs []Incoming, nowMs int64) ([]uint64, error) {
	if len(msgs) == 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	seqs := make([]uint64, len(msgs))
	for i, m := range msgs {
		l.lastSeq++
		seq := l.lastSeq
		val, err := encodeRecord(nowMs, m.Attributes, m.Data)
		if err != nil {
			return nil, err
		}
		if err := b.Set(KeyEntry(l.topic, seq), val, nil); err != nil {
			return nil, err
		}
		seqs[i] = seq
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], l.lastSeq)
	if err := b.Set(KeyMeta(l.topic), meta[:], nil); err != nil {
		return nil, err
	}
	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	return seqs, nil
}

// LastSeq returns the sequence of the most recently appended message.
func (l *Log) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeq
}

// Get reads one message by sequence.
func (l *Log) Get(seq uint64) (Message, error) {
	val, err := l.db.Get(KeyEntry(l.topic, seq))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	publishMs, attrs, payload, ok := decodeRecord(val)
	if !ok {
		return Message{}, ErrCorrupt
	}
	return Message{
		Seq:        seq,
		ID:         id.Message(seq),
		Data:       payload,
		Attributes: attrs,
		PublishMs:  publishMs,
	}, nil
}
