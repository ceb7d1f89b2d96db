package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/courier-mq/courier/internal/config"
	"github.com/courier-mq/courier/internal/messagelog"
	"github.com/courier-mq/courier/internal/registry"
	"github.com/courier-mq/courier/pkg/log"
)

func testConfig(dir string) cfgpkg.Config {
	cfg := cfgpkg.Default()
	cfg.DataDir = dir
	cfg.Fsync = "always"
	return cfg
}

func TestOpenAndHealth(t *testing.T) {
	rt, err := Open(Options{Config: testConfig(t.TempDir()), Logger: log.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestRestartRestoresSubscriptions(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	rt, err := Open(Options{Config: testConfig(dir), Logger: log.Discard()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rt.Registry().CreateTopic("orders"); err != nil {
		t.Fatalf("topic: %v", err)
	}
	if _, err := rt.Registry().CreateSubscription(registry.Subscription{Name: "workers", Topic: "orders"}); err != nil {
		t.Fatalf("subscription: %v", err)
	}
	if err := rt.Delivery().Register("workers"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := rt.Delivery().Publish(ctx, "orders", []messagelog.Incoming{{Data: []byte("persisted")}}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rt, err = Open(Options{Config: testConfig(dir), Logger: log.Discard()})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer rt.Close()

	// The subscription was restored without an explicit Register call.
	got, err := rt.Delivery().Pull(ctx, "workers", 1, false)
	if err != nil {
		t.Fatalf("pull: %v", err)
	}
	if len(got) != 1 || string(got[0].Message.Data) != "persisted" {
		t.Fatalf("backlog lost across restart: %+v", got)
	}
}
