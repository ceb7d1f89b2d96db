package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/courier-mq/courier/pkg/log"
)

// Config is the top-level broker configuration, loaded from an optional
// JSON file with COURIER_* environment variables overlaid on top.
type Config struct {
	DataDir  string `json:"dataDir" env:"COURIER_DATA_DIR"`
	GRPCAddr string `json:"grpcAddr" env:"COURIER_GRPC_ADDR"`
	HTTPAddr string `json:"httpAddr" env:"COURIER_HTTP_ADDR"`
	// Fsync is one of "always", "interval", or "never".
	Fsync    string     `json:"fsync" env:"COURIER_FSYNC"`
	Log      log.Config `json:"log"`
	Delivery Delivery   `json:"delivery"`
}

// Delivery tunes the delivery engine.
type Delivery struct {
	DefaultAckDeadlineSeconds int           `json:"defaultAckDeadlineSeconds" env:"COURIER_DEFAULT_ACK_DEADLINE_SECONDS"`
	MaxPullsPerSubscription   int           `json:"maxPullsPerSubscription" env:"COURIER_MAX_PULLS_PER_SUBSCRIPTION"`
	MaxPullWait               time.Duration `json:"maxPullWait" env:"COURIER_MAX_PULL_WAIT"`
	SweepInterval             time.Duration `json:"sweepInterval" env:"COURIER_SWEEP_INTERVAL"`
	SweepBudget               int           `json:"sweepBudget" env:"COURIER_SWEEP_BUDGET"`
	PushTimeout               time.Duration `json:"pushTimeout" env:"COURIER_PUSH_TIMEOUT"`
	PushBatch                 int           `json:"pushBatch" env:"COURIER_PUSH_BATCH"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		GRPCAddr: ":8085",
		HTTPAddr: ":8086",
		Fsync:    "interval",
		Log:      log.Config{Level: "info", Format: "text"},
		Delivery: Delivery{
			DefaultAckDeadlineSeconds: 60,
			MaxPullsPerSubscription:   32,
			MaxPullWait:               30 * time.Second,
			SweepInterval:             500 * time.Millisecond,
			SweepBudget:               1024,
			PushTimeout:               10 * time.Second,
			PushBatch:                 16,
		},
	}
}

// Load reads configuration: defaults, then the JSON file at path (if any),
// then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
