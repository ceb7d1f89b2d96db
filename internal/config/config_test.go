package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GRPCAddr != ":8085" || cfg.HTTPAddr != ":8086" {
		t.Fatalf("unexpected default addrs: %q %q", cfg.GRPCAddr, cfg.HTTPAddr)
	}
	if cfg.Delivery.DefaultAckDeadlineSeconds != 60 {
		t.Fatalf("default ack deadline: %d", cfg.Delivery.DefaultAckDeadlineSeconds)
	}
}

func TestFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"grpcAddr":":9000","delivery":{"defaultAckDeadlineSeconds":15,"maxPullWait":5000000000}}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GRPCAddr != ":9000" {
		t.Fatalf("file overlay ignored: %q", cfg.GRPCAddr)
	}
	if cfg.Delivery.DefaultAckDeadlineSeconds != 15 || cfg.Delivery.MaxPullWait != 5*time.Second {
		t.Fatalf("delivery overlay ignored: %+v", cfg.Delivery)
	}
	// untouched fields keep their defaults
	if cfg.HTTPAddr != ":8086" {
		t.Fatalf("default lost: %q", cfg.HTTPAddr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"grpcAddr":":9000"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("COURIER_GRPC_ADDR", ":7000")
	t.Setenv("COURIER_SWEEP_INTERVAL", "250ms")
	t.Setenv("COURIER_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GRPCAddr != ":7000" {
		t.Fatalf("env did not win: %q", cfg.GRPCAddr)
	}
	if cfg.Delivery.SweepInterval != 250*time.Millisecond {
		t.Fatalf("duration env ignored: %v", cfg.Delivery.SweepInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log env ignored: %q", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("want error for missing file")
	}
}
