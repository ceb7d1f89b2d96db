package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/courier-mq/courier/internal/config"
	"github.com/courier-mq/courier/internal/delivery"
	"github.com/courier-mq/courier/internal/metrics"
	"github.com/courier-mq/courier/internal/registry"
	pebblestore "github.com/courier-mq/courier/internal/storage/pebble"
	"github.com/courier-mq/courier/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	Logger log.Logger
}

// Runtime wires storage, the registry, the delivery engine, and metrics
// for a single-node broker.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	logger  log.Logger
	metrics *metrics.Registry
	reg     *registry.Store
	eng     *delivery.Manager
}

// Open initializes storage, restores every stored subscription into the
// delivery engine, and starts the lease sweeper.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromConfig(opts.Config.Log)
	}
	fsync, err := pebblestore.ParseFsyncMode(opts.Config.Fsync)
	if err != nil {
		return nil, err
	}
	m := metrics.NewRegistry()
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir: opts.Config.DataDir,
		Fsync:   fsync,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}

	reg := registry.New(db)
	eng := delivery.NewManager(db, reg, logger, m, delivery.Options{
		DefaultAckDeadline:      time.Duration(opts.Config.Delivery.DefaultAckDeadlineSeconds) * time.Second,
		MaxPullsPerSubscription: opts.Config.Delivery.MaxPullsPerSubscription,
		MaxPullWait:             opts.Config.Delivery.MaxPullWait,
		SweepInterval:           opts.Config.Delivery.SweepInterval,
		SweepBudget:             opts.Config.Delivery.SweepBudget,
		PushTimeout:             opts.Config.Delivery.PushTimeout,
		PushBatch:               opts.Config.Delivery.PushBatch,
	})
	rt := &Runtime{db: db, config: opts.Config, logger: logger, metrics: m, reg: reg, eng: eng}

	if err := rt.restoreSubscriptions(); err != nil {
		_ = db.Close()
		return nil, err
	}
	eng.Start()
	return rt, nil
}

// restoreSubscriptions re-registers every stored subscription so backlogs
// and leases survive a restart.
func (r *Runtime) restoreSubscriptions() error {
	token := ""
	for {
		subs, next, err := r.reg.ListSubscriptions(0, token)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			if err := r.eng.Register(sub.Name); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
		token = next
	}
}

// Close stops the delivery engine and closes storage.
func (r *Runtime) Close() error {
	if r.eng != nil {
		r.eng.Stop()
	}
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple storage health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// Registry returns the topic/subscription store.
func (r *Runtime) Registry() *registry.Store { return r.reg }

// Delivery returns the delivery engine.
func (r *Runtime) Delivery() *delivery.Manager { return r.eng }

// Metrics returns the metrics registry.
func (r *Runtime) Metrics() *metrics.Registry { return r.metrics }

// Logger returns the runtime logger.
func (r *Runtime) Logger() log.Logger { return r.logger }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
