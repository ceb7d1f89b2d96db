package registry

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	pebblestore "github.com/courier-mq/courier/internal/storage/pebble"
)

// DeletedTopic is the sentinel stored in a subscription's topic field once
// its topic has been deleted. The subscription keeps draining its backlog.
const DeletedTopic = "_deleted-topic_"

var (
	ErrNotFound      = errors.New("registry: not found")
	ErrAlreadyExists = errors.New("registry: already exists")
	ErrInvalidName   = errors.New("registry: invalid name")
	ErrBadPageToken  = errors.New("registry: malformed page token")
)

// Topic is a named message log accepting publishes.
type Topic struct {
	Name      string `json:"name"`
	CreatedMs int64  `json:"createdMs"`
}

// PushConfig holds the push delivery settings; an empty endpoint means the
// subscription is pull-only.
type PushConfig struct {
	Endpoint   string            `json:"endpoint,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Subscription binds a named consumer to a topic.
type Subscription struct {
	Name               string     `json:"name"`
	Topic              string     `json:"topic"`
	AckDeadlineSeconds int32      `json:"ackDeadlineSeconds"`
	Push               PushConfig `json:"push"`
	Filter             string     `json:"filter,omitempty"`
	CreatedMs          int64      `json:"createdMs"`
}

// Store is the Pebble-backed registry. Mutations serialize on one mutex;
// reads go straight to storage.
type Store struct {
	db *pebblestore.DB
	mu sync.Mutex
}

// New creates a Store over db.
func New(db *pebblestore.DB) *Store {
	return &Store{db: db}
}

// ValidateName enforces the shared resource-name rules: 3 to 255 characters,
// no reserved "goog" prefix, and no key-delimiter characters. Names become
// raw segments of storage keys, so "/" and NUL would let one resource's scan
// prefix overlap another's.
func ValidateName(name string) error {
	if len(name) < 3 || len(name) > 255 {
		return fmt.Errorf("%w: %q must be 3-255 characters", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, "goog") {
		return fmt.Errorf("%w: %q must not begin with \"goog\"", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("%w: %q must not contain \"/\" or NUL", ErrInvalidName, name)
	}
	return nil
}

// CreateTopic registers a new topic.
func (s *Store) CreateTopic(name string) (Topic, error) {
	if err := ValidateName(name); err != nil {
		return Topic{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Get(topicKey(name)); err == nil {
		return Topic{}, fmt.Errorf("%w: topic %q", ErrAlreadyExists, name)
	}
	t := Topic{Name: name, CreatedMs: time.Now().UnixMilli()}
	raw, err := json.Marshal(t)
	if err != nil {
		return Topic{}, err
	}
	if err := s.db.Set(topicKey(name), raw); err != nil {
		return Topic{}, err
	}
	return t, nil
}

// GetTopic looks a topic up by name.
func (s *Store) GetTopic(name string) (Topic, error) {
	raw, err := s.db.Get(topicKey(name))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Topic{}, fmt.Errorf("%w: topic %q", ErrNotFound, name)
		}
		return Topic{}, err
	}
	var t Topic
	if err := json.Unmarshal(raw, &t); err != nil {
		return Topic{}, err
	}
	return t, nil
}

// DeleteTopic removes a topic. Bound subscriptions are kept: their topic
// field is rewritten to the DeletedTopic sentinel and the binding index is
// dropped, all in one batch. Deleting an absent topic succeeds.
func (s *Store) DeleteTopic(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Get(topicKey(name)); err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return nil
		}
		return err
	}

	subs, err := s.subscribersLocked(name)
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	defer b.Close()
	for _, subName := range subs {
		sub, err := s.getSubscription(subName)
		if err != nil {
			continue
		}
		sub.Topic = DeletedTopic
		raw, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		if err := b.Set(subKey(subName), raw, nil); err != nil {
			return err
		}
		if err := b.Delete(bindKey(name, subName), nil); err != nil {
			return err
		}
	}
	if err := b.Delete(topicKey(name), nil); err != nil {
		return err
	}
	return s.db.CommitBatch(context.Background(), b)
}

// ListTopics returns one page of topics ordered by name.
func (s *Store) ListTopics(pageSize int, pageToken string) ([]Topic, string, error) {
	names, next, err := s.listNames([]byte(topicPrefix), pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	topics := make([]Topic, 0, len(names))
	for _, n := range names {
		t, err := s.GetTopic(n)
		if err != nil {
			continue
		}
		topics = append(topics, t)
	}
	return topics, next, nil
}

// CreateSubscription registers a subscription bound to an existing topic.
func (s *Store) CreateSubscription(sub Subscription) (Subscription, error) {
	if err := ValidateName(sub.Name); err != nil {
		return Subscription{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Get(topicKey(sub.Topic)); err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Subscription{}, fmt.Errorf("%w: topic %q", ErrNotFound, sub.Topic)
		}
		return Subscription{}, err
	}
	if _, err := s.db.Get(subKey(sub.Name)); err == nil {
		return Subscription{}, fmt.Errorf("%w: subscription %q", ErrAlreadyExists, sub.Name)
	}

	sub.CreatedMs = time.Now().UnixMilli()
	raw, err := json.Marshal(sub)
	if err != nil {
		return Subscription{}, err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(subKey(sub.Name), raw, nil); err != nil {
		return Subscription{}, err
	}
	if err := b.Set(bindKey(sub.Topic, sub.Name), nil, nil); err != nil {
		return Subscription{}, err
	}
	if err := s.db.CommitBatch(context.Background(), b); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// GetSubscription looks a subscription up by name.
func (s *Store) GetSubscription(name string) (Subscription, error) {
	return s.getSubscription(name)
}

func (s *Store) getSubscription(name string) (Subscription, error) {
	raw, err := s.db.Get(subKey(name))
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Subscription{}, fmt.Errorf("%w: subscription %q", ErrNotFound, name)
		}
		return Subscription{}, err
	}
	var sub Subscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// DeleteSubscription removes a subscription record and its binding.
// Deleting an absent subscription succeeds.
func (s *Store) DeleteSubscription(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.getSubscription(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Delete(subKey(name), nil); err != nil {
		return err
	}
	if sub.Topic != DeletedTopic {
		if err := b.Delete(bindKey(sub.Topic, name), nil); err != nil {
			return err
		}
	}
	return s.db.CommitBatch(context.Background(), b)
}

// ListSubscriptions returns one page of subscriptions ordered by name.
func (s *Store) ListSubscriptions(pageSize int, pageToken string) ([]Subscription, string, error) {
	names, next, err := s.listNames([]byte(subPrefix), pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	subs := make([]Subscription, 0, len(names))
	for _, n := range names {
		sub, err := s.getSubscription(n)
		if err != nil {
			continue
		}
		subs = append(subs, sub)
	}
	return subs, next, nil
}

// ListTopicSubscriptions returns one page of names of subscriptions bound
// to the topic.
func (s *Store) ListTopicSubscriptions(topic string, pageSize int, pageToken string) ([]string, string, error) {
	if _, err := s.GetTopic(topic); err != nil {
		return nil, "", err
	}
	return s.listNames(bindTopicPrefix(topic), pageSize, pageToken)
}

// SetPushConfig replaces the subscription's push configuration. An empty
// endpoint converts it to pull mode.
func (s *Store) SetPushConfig(name string, push PushConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, err := s.getSubscription(name)
	if err != nil {
		return err
	}
	sub.Push = push
	raw, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return s.db.Set(subKey(name), raw)
}

// Subscribers returns the names of subscriptions currently bound to the
// topic. This is the point-in-time snapshot publish fan-out consumes.
func (s *Store) Subscribers(topic string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscribersLocked(topic)
}

func (s *Store) subscribersLocked(topic string) ([]string, error) {
	prefix := bindTopicPrefix(topic)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: keyUpperBound(prefix)})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []string
	for ok := iter.First(); ok; ok = iter.Next() {
		out = append(out, string(iter.Key()[len(prefix):]))
	}
	return out, nil
}

// listNames pages through names under prefix in lexical order. The returned
// token resumes after the last listed name; an empty token means done.
func (s *Store) listNames(prefix []byte, pageSize int, pageToken string) ([]string, string, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	after, err := decodePageToken(pageToken)
	if err != nil {
		return nil, "", err
	}

	low := prefix
	if after != "" {
		low = append(append([]byte{}, prefix...), after...)
		low = append(low, 0x00)
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: keyUpperBound(prefix)})
	if err != nil {
		return nil, "", err
	}
	defer iter.Close()

	var names []string
	more := false
	for ok := iter.First(); ok; ok = iter.Next() {
		if len(names) == pageSize {
			more = true
			break
		}
		names = append(names, string(iter.Key()[len(prefix):]))
	}
	next := ""
	if more && len(names) > 0 {
		next = encodePageToken(names[len(names)-1])
	}
	return names, next, nil
}

func encodePageToken(lastName string) string {
	return base64.URLEncoding.EncodeToString([]byte(lastName))
}

func decodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadPageToken, token)
	}
	return string(raw), nil
}
