package delivery

import (
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/courier-mq/courier/internal/messagelog"
	"github.com/courier-mq/courier/internal/metrics"
	"github.com/courier-mq/courier/internal/registry"
	pebblestore "github.com/courier-mq/courier/internal/storage/pebble"
	"github.com/courier-mq/courier/pkg/log"
)

var (
	// ErrOverloaded is the admission-control rejection: too many Pull calls
	// are already outstanding for the subscription. Callers should retry
	// with backoff.
	ErrOverloaded = errors.New("delivery: too many concurrent pulls")
	// ErrUnknownSubscription reports an operation against a subscription
	// the engine does not serve.
	ErrUnknownSubscription = errors.New("delivery: unknown subscription")
)

// ControlPlane is the read-only registry lookup the engine consumes: the
// subscriptions bound to a topic at publish time, and per-subscription
// settings.
type ControlPlane interface {
	Subscribers(topic string) ([]string, error)
	GetSubscription(name string) (registry.Subscription, error)
}

// Options tunes the engine.
type Options struct {
	DefaultAckDeadline      time.Duration // lease length when the subscription has none
	MaxPullsPerSubscription int           // admission cap for concurrent Pull calls
	MaxPullWait             time.Duration // bound on a blocking Pull with an empty backlog
	SweepInterval           time.Duration // lease expiry polling granularity
	SweepBudget             int           // max leases requeued per subscription per tick
	PushTimeout             time.Duration // HTTP timeout for one push delivery
	PushBatch               int           // messages drained per push cycle
}

func (o *Options) normalize() {
	if o.DefaultAckDeadline <= 0 {
		o.DefaultAckDeadline = 60 * time.Second
	}
	if o.MaxPullsPerSubscription <= 0 {
		o.MaxPullsPerSubscription = 32
	}
	if o.MaxPullWait <= 0 {
		o.MaxPullWait = 30 * time.Second
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = 500 * time.Millisecond
	}
	if o.SweepBudget <= 0 {
		o.SweepBudget = 1024
	}
	if o.PushTimeout <= 0 {
		o.PushTimeout = 10 * time.Second
	}
	if o.PushBatch <= 0 {
		o.PushBatch = 16
	}
}

// ReceivedMessage pairs a leased message with its single-use ack token.
type ReceivedMessage struct {
	AckID   string
	Message messagelog.Message
	// DeliveryAttempts counts deliveries before this one: 0 on first
	// delivery, 1 after one redelivery, and so on.
	DeliveryAttempts int32
}

type topicState struct {
	mu  sync.Mutex
	log *messagelog.Log
}

type subState struct {
	name string

	// mu serializes the five backlog/lease mutations for this
	// subscription: drain, ack, deadline-modify, expiry requeue, and
	// fan-out enqueue.
	mu             sync.Mutex
	notify         chan struct{}
	lastBacklogSeq uint64
	pulls          int
	ackDeadline    time.Duration
	filter         Filter
	pushStop       chan struct{} // non-nil while a push loop runs
}

// notifyLocked wakes every waiter. Callers hold s.mu.
func (s *subState) notifyLocked() {
	close(s.notify)
	s.notify = make(chan struct{})
}

// Manager is the subscription delivery and acknowledgment engine: backlogs,
// the lease table, the expiry sweeper, and the pull/push dispatchers.
type Manager struct {
	db      *pebblestore.DB
	cp      ControlPlane
	logger  log.Logger
	metrics *metrics.Registry
	opts    Options
	client  *http.Client

	mu     sync.Mutex
	subs   map[string]*subState
	topics map[string]*topicState

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewManager wires the engine. Call Register for every known subscription,
// then Start to launch the sweeper.
func NewManager(db *pebblestore.DB, cp ControlPlane, logger log.Logger, reg *metrics.Registry, opts Options) *Manager {
	opts.normalize()
	return &Manager{
		db:      db,
		cp:      cp,
		logger:  logger,
		metrics: reg,
		opts:    opts,
		client:  &http.Client{Timeout: opts.PushTimeout},
		subs:    make(map[string]*subState),
		topics:  make(map[string]*topicState),
		stop:    make(chan struct{}),
	}
}

// Start launches the background lease-expiry sweeper.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.sweepLoop()
}

// Stop halts the sweeper and all push loops and waits for them.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
	m.client.CloseIdleConnections()
}

// Register makes the engine serve a subscription: restores its backlog
// cursor, compiles its filter, and starts a push loop when configured.
func (m *Manager) Register(name string) error {
	sub, err := m.cp.GetSubscription(name)
	if err != nil {
		return err
	}

	s := &subState{
		name:        name,
		notify:      make(chan struct{}),
		ackDeadline: m.opts.DefaultAckDeadline,
	}
	if sub.AckDeadlineSeconds > 0 {
		s.ackDeadline = time.Duration(sub.AckDeadlineSeconds) * time.Second
	}
	if f, err := NewFilter(sub.Filter); err != nil {
		m.logger.Warn("stored filter does not compile, admitting all messages",
			log.Str("subscription", name), log.Err(err))
	} else {
		s.filter = f
	}
	if meta, err := m.db.Get(backlogMetaKey(name)); err == nil && len(meta) >= 8 {
		s.lastBacklogSeq = binary.BigEndian.Uint64(meta[:8])
	}

	m.mu.Lock()
	if _, exists := m.subs[name]; exists {
		m.mu.Unlock()
		return nil
	}
	m.subs[name] = s
	m.mu.Unlock()

	if sub.Push.Endpoint != "" {
		m.startPushLoop(s)
	}
	return nil
}

// Remove discards a subscription's backlog and lease table atomically and
// wakes any waiting Pull calls.
func (m *Manager) Remove(ctx context.Context, name string) error {
	m.mu.Lock()
	s := m.subs[name]
	delete(m.subs, name)
	m.mu.Unlock()
	if s == nil {
		return nil
	}

	m.stopPushLoop(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := subPrefix(name)
	b := m.db.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(prefix, keyUpperBound(prefix), nil); err != nil {
		return err
	}
	if err := m.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	s.notifyLocked()
	return nil
}

func (m *Manager) get(name string) *subState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subs[name]
}

// snapshot returns the currently served subscriptions.
func (m *Manager) snapshot() []*subState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*subState, 0, len(m.subs))
	for _, s := range m.subs {
		out = append(out, s)
	}
	return out
}

// topic returns the state for a topic, opening its log on first use.
func (m *Manager) topic(name string) (*topicState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.topics[name]; ok {
		return t, nil
	}
	l, err := messagelog.Open(m.db, name)
	if err != nil {
		return nil, err
	}
	t := &topicState{log: l}
	m.topics[name] = t
	return t, nil
}

// message loads one logged message by reference.
func (m *Manager) message(topic string, seq uint64) (messagelog.Message, error) {
	t, err := m.topic(topic)
	if err != nil {
		return messagelog.Message{}, err
	}
	return t.log.Get(seq)
}
