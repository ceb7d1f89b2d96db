package registry

import (
	"errors"
	"testing"

	pebblestore "github.com/courier-mq/courier/internal/storage/pebble"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func TestTopicCRUD(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateTopic("orders"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateTopic("orders"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if _, err := s.GetTopic("orders"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := s.GetTopic("absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := s.DeleteTopic("orders"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// repeated delete is a no-op
	if err := s.DeleteTopic("orders"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := s.GetTopic("orders"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestNameRules(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateTopic("ab"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("short name: %v", err)
	}
	if _, err := s.CreateTopic("goog-reserved"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("reserved prefix: %v", err)
	}

	// A "/" would make one resource's storage-key prefix cover another's
	// (e.g. subscription "sub" scanning s/sub/bl/ sees all of "sub/bl").
	if _, err := s.CreateTopic("orders/bl"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("slash in topic name: %v", err)
	}
	if _, err := s.CreateTopic("bad\x00name"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("NUL in topic name: %v", err)
	}
	if _, err := s.CreateTopic("orders"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateSubscription(Subscription{Name: "workers/bl", Topic: "orders"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("slash in subscription name: %v", err)
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateTopic("orders"); err != nil {
		t.Fatalf("topic: %v", err)
	}

	if _, err := s.CreateSubscription(Subscription{Name: "workers", Topic: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing topic, got %v", err)
	}
	if _, err := s.CreateSubscription(Subscription{Name: "workers", Topic: "orders", AckDeadlineSeconds: 60}); err != nil {
		t.Fatalf("create sub: %v", err)
	}
	if _, err := s.CreateSubscription(Subscription{Name: "workers", Topic: "orders"}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}

	subs, err := s.Subscribers("orders")
	if err != nil || len(subs) != 1 || subs[0] != "workers" {
		t.Fatalf("subscribers: %v %v", subs, err)
	}

	if err := s.DeleteSubscription("workers"); err != nil {
		t.Fatalf("delete sub: %v", err)
	}
	if err := s.DeleteSubscription("workers"); err != nil {
		t.Fatalf("repeat delete sub: %v", err)
	}
	subs, _ = s.Subscribers("orders")
	if len(subs) != 0 {
		t.Fatalf("binding should be gone: %v", subs)
	}
}

func TestDeleteTopicMarksSubscriptions(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateTopic("orders"); err != nil {
		t.Fatalf("topic: %v", err)
	}
	if _, err := s.CreateSubscription(Subscription{Name: "workers", Topic: "orders", AckDeadlineSeconds: 60}); err != nil {
		t.Fatalf("sub: %v", err)
	}
	if err := s.DeleteTopic("orders"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sub, err := s.GetSubscription("workers")
	if err != nil {
		t.Fatalf("get sub: %v", err)
	}
	if sub.Topic != DeletedTopic {
		t.Fatalf("topic field = %q, want sentinel", sub.Topic)
	}

	// recreating the topic does not rebind the orphaned subscription
	if _, err := s.CreateTopic("orders"); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	subs, _ := s.Subscribers("orders")
	if len(subs) != 0 {
		t.Fatalf("unexpected rebinding: %v", subs)
	}
}

func TestPagination(t *testing.T) {
	s := newTestStore(t)
	names := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	for _, n := range names {
		if _, err := s.CreateTopic(n); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
	}

	var got []string
	token := ""
	for {
		page, next, err := s.ListTopics(2, token)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for _, p := range page {
			got = append(got, p.Name)
		}
		if next == "" {
			break
		}
		token = next
	}
	if len(got) != len(names) {
		t.Fatalf("walked %v, want %v", got, names)
	}
	for i := range names {
		if got[i] != names[i] {
			t.Fatalf("order mismatch at %d: %v", i, got)
		}
	}

	if _, _, err := s.ListTopics(2, "not-base64!!"); !errors.Is(err, ErrBadPageToken) {
		t.Fatalf("want ErrBadPageToken, got %v", err)
	}
}

func TestSetPushConfig(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateTopic("orders"); err != nil {
		t.Fatalf("topic: %v", err)
	}
	if _, err := s.CreateSubscription(Subscription{Name: "workers", Topic: "orders"}); err != nil {
		t.Fatalf("sub: %v", err)
	}
	if err := s.SetPushConfig("workers", PushConfig{Endpoint: "http://example.test/handler"}); err != nil {
		t.Fatalf("set push: %v", err)
	}
	sub, _ := s.GetSubscription("workers")
	if sub.Push.Endpoint != "http://example.test/handler" {
		t.Fatalf("push config not stored: %+v", sub.Push)
	}
	if err := s.SetPushConfig("ghost", PushConfig{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
