package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pubsubv1 "github.com/courier-mq/courier/api/pubsub/v1"
	cfgpkg "github.com/courier-mq/courier/internal/config"
	"github.com/courier-mq/courier/internal/registry"
	"github.com/courier-mq/courier/internal/runtime"
	"github.com/courier-mq/courier/pkg/log"
)

const bufSize = 1 << 20

type testEnv struct {
	pub pubsubv1.PublisherClient
	sub pubsubv1.SubscriberClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.Fsync = "always"
	cfg.Delivery.SweepInterval = 50 * time.Millisecond
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: log.Discard()})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	srv := New(rt)
	lis := bufconn.Listen(bufSize)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Close)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &testEnv{pub: pubsubv1.NewPublisherClient(conn), sub: pubsubv1.NewSubscriberClient(conn)}
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if status.Code(err) != code {
		t.Fatalf("got %v (%v), want %v", status.Code(err), err, code)
	}
}

func TestPublishPullAckOverGRPC(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if _, err := env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders"}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	res, err := env.pub.Publish(ctx, &pubsubv1.PublishRequest{
		Topic: "orders",
		Messages: []*pubsubv1.PubsubMessage{
			{Data: []byte("a"), Attributes: map[string]string{"k": "v"}},
			{Data: []byte("b")},
			{Data: []byte("c")},
		},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(res.MessageIDs) != 3 || res.MessageIDs[0] != "1" || res.MessageIDs[2] != "3" {
		t.Fatalf("message ids: %v", res.MessageIDs)
	}

	pull, err := env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 10, ReturnImmediately: true})
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(pull.ReceivedMessages) != 3 {
		t.Fatalf("got %d messages, want 3", len(pull.ReceivedMessages))
	}
	first := pull.ReceivedMessages[0]
	if string(first.Message.Data) != "a" || first.Message.Attributes["k"] != "v" || first.Message.MessageID != "1" {
		t.Fatalf("first message: %+v", first.Message)
	}
	if first.Message.PublishTime == "" {
		t.Fatal("missing publish time")
	}

	ackIDs := make([]string, 0, 3)
	for _, rm := range pull.ReceivedMessages {
		ackIDs = append(ackIDs, rm.AckID)
	}
	if _, err := env.sub.Acknowledge(ctx, &pubsubv1.AcknowledgeRequest{Subscription: "workers", AckIDs: ackIDs}); err != nil {
		t.Fatalf("ack: %v", err)
	}
	pull, err = env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 10, ReturnImmediately: true})
	if err != nil {
		t.Fatalf("pull after ack: %v", err)
	}
	if len(pull.ReceivedMessages) != 0 {
		t.Fatalf("backlog not empty after ack: %d", len(pull.ReceivedMessages))
	}
}

func TestBlockingPullWokenByPublish(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if _, err := env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders"}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	type result struct {
		res *pubsubv1.PullResponse
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 1})
		done <- result{res, err}
	}()

	time.Sleep(100 * time.Millisecond)
	if _, err := env.pub.Publish(ctx, &pubsubv1.PublishRequest{
		Topic:    "orders",
		Messages: []*pubsubv1.PubsubMessage{{Data: []byte("wake")}},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case r := <-done:
		if r.err != nil || len(r.res.ReceivedMessages) != 1 {
			t.Fatalf("woken pull: %v / %+v", r.err, r.res)
		}
		if string(r.res.ReceivedMessages[0].Message.Data) != "wake" {
			t.Fatalf("woken pull payload: %q", r.res.ReceivedMessages[0].Message.Data)
		}
	case <-time.After(8 * time.Second):
		t.Fatal("blocking pull never returned")
	}
}

func TestStatusCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := env.pub.GetTopic(ctx, &pubsubv1.GetTopicRequest{Topic: "absent-topic"})
	wantCode(t, err, codes.NotFound)

	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	_, err = env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"})
	wantCode(t, err, codes.AlreadyExists)
	_, err = env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "ab"})
	wantCode(t, err, codes.InvalidArgument)
	_, err = env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "goog-reserved"})
	wantCode(t, err, codes.InvalidArgument)

	_, err = env.pub.Publish(ctx, &pubsubv1.PublishRequest{
		Topic:    "absent-topic",
		Messages: []*pubsubv1.PubsubMessage{{Data: []byte("x")}},
	})
	wantCode(t, err, codes.NotFound)
	_, err = env.pub.Publish(ctx, &pubsubv1.PublishRequest{Topic: "orders"})
	wantCode(t, err, codes.InvalidArgument)

	_, err = env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "absent-topic"})
	wantCode(t, err, codes.NotFound)
	_, err = env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders", AckDeadlineSeconds: -1})
	wantCode(t, err, codes.InvalidArgument)
	_, err = env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders", Filter: "not a filter ["})
	wantCode(t, err, codes.InvalidArgument)

	if _, err := env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders"}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	_, err = env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 0})
	wantCode(t, err, codes.InvalidArgument)
	_, err = env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "nobody", MaxMessages: 1, ReturnImmediately: true})
	wantCode(t, err, codes.NotFound)
	_, err = env.sub.ModifyAckDeadline(ctx, &pubsubv1.ModifyAckDeadlineRequest{Subscription: "workers", AckIDs: []string{"x"}, AckDeadlineSeconds: -1})
	wantCode(t, err, codes.InvalidArgument)

	_, err = env.pub.ListTopics(ctx, &pubsubv1.ListTopicsRequest{PageToken: "%%%not-base64%%%"})
	wantCode(t, err, codes.InvalidArgument)
}

func TestDeleteTopicDetachesSubscriptions(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if _, err := env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders"}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if _, err := env.pub.Publish(ctx, &pubsubv1.PublishRequest{
		Topic:    "orders",
		Messages: []*pubsubv1.PubsubMessage{{Data: []byte("survivor")}},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if _, err := env.pub.DeleteTopic(ctx, &pubsubv1.DeleteTopicRequest{Topic: "orders"}); err != nil {
		t.Fatalf("delete topic: %v", err)
	}
	// repeated delete succeeds
	if _, err := env.pub.DeleteTopic(ctx, &pubsubv1.DeleteTopicRequest{Topic: "orders"}); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	_, err := env.pub.Publish(ctx, &pubsubv1.PublishRequest{
		Topic:    "orders",
		Messages: []*pubsubv1.PubsubMessage{{Data: []byte("late")}},
	})
	wantCode(t, err, codes.NotFound)

	got, err := env.sub.GetSubscription(ctx, &pubsubv1.GetSubscriptionRequest{Subscription: "workers"})
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if got.Topic != registry.DeletedTopic {
		t.Fatalf("detached topic: %q", got.Topic)
	}

	// Already-fanned-out messages remain pullable after the topic is gone.
	pull, err := env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 1, ReturnImmediately: true})
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(pull.ReceivedMessages) != 1 || string(pull.ReceivedMessages[0].Message.Data) != "survivor" {
		t.Fatalf("detached backlog: %+v", pull.ReceivedMessages)
	}

	// Recreating the topic does not re-bind the detached subscription.
	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("recreate topic: %v", err)
	}
	ls, err := env.pub.ListTopicSubscriptions(ctx, &pubsubv1.ListTopicSubscriptionsRequest{Topic: "orders"})
	if err != nil {
		t.Fatalf("list topic subscriptions: %v", err)
	}
	if len(ls.Subscriptions) != 0 {
		t.Fatalf("recreated topic has subscriptions: %v", ls.Subscriptions)
	}
}

func TestModifyPushConfigRoundtrip(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	created, err := env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders"})
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if created.AckDeadlineSeconds != 60 {
		t.Fatalf("default ack deadline: %d", created.AckDeadlineSeconds)
	}

	if _, err := env.sub.ModifyPushConfig(ctx, &pubsubv1.ModifyPushConfigRequest{
		Subscription: "workers",
		PushConfig:   &pubsubv1.PushConfig{PushEndpoint: "http://127.0.0.1:1/push"},
	}); err != nil {
		t.Fatalf("modify push config: %v", err)
	}
	got, err := env.sub.GetSubscription(ctx, &pubsubv1.GetSubscriptionRequest{Subscription: "workers"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PushConfig == nil || got.PushConfig.PushEndpoint != "http://127.0.0.1:1/push" {
		t.Fatalf("push config not stored: %+v", got.PushConfig)
	}

	// Clearing the config flips back to pull delivery.
	if _, err := env.sub.ModifyPushConfig(ctx, &pubsubv1.ModifyPushConfigRequest{Subscription: "workers"}); err != nil {
		t.Fatalf("clear push config: %v", err)
	}
	got, err = env.sub.GetSubscription(ctx, &pubsubv1.GetSubscriptionRequest{Subscription: "workers"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PushConfig != nil {
		t.Fatalf("push config not cleared: %+v", got.PushConfig)
	}
}

func TestExpiredLeaseRedeliveredOverGRPC(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if _, err := env.pub.CreateTopic(ctx, &pubsubv1.Topic{Name: "orders"}); err != nil {
		t.Fatalf("create topic: %v", err)
	}
	if _, err := env.sub.CreateSubscription(ctx, &pubsubv1.Subscription{Name: "workers", Topic: "orders", AckDeadlineSeconds: 1}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if _, err := env.pub.Publish(ctx, &pubsubv1.PublishRequest{
		Topic:    "orders",
		Messages: []*pubsubv1.PubsubMessage{{Data: []byte("retry-me")}},
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	first, err := env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 1, ReturnImmediately: true})
	if err != nil || len(first.ReceivedMessages) != 1 {
		t.Fatalf("first pull: %v / %+v", err, first)
	}
	if first.ReceivedMessages[0].DeliveryAttempt != 0 {
		t.Fatalf("first delivery attempt: %d", first.ReceivedMessages[0].DeliveryAttempt)
	}

	// Never ack; the 1s lease expires and the sweeper requeues. The
	// blocking pull picks the redelivery up.
	second, err := env.sub.Pull(ctx, &pubsubv1.PullRequest{Subscription: "workers", MaxMessages: 1})
	if err != nil || len(second.ReceivedMessages) != 1 {
		t.Fatalf("second pull: %v / %+v", err, second)
	}
	rm := second.ReceivedMessages[0]
	if rm.DeliveryAttempt != 1 {
		t.Fatalf("redelivery attempt: %d", rm.DeliveryAttempt)
	}
	if rm.AckID == first.ReceivedMessages[0].AckID {
		t.Fatal("ack token reused across deliveries")
	}
	if _, err := env.sub.Acknowledge(ctx, &pubsubv1.AcknowledgeRequest{Subscription: "workers", AckIDs: []string{rm.AckID}}); err != nil {
		t.Fatalf("ack: %v", err)
	}
}
