// Package runtime is the composition root for a single-node broker:
// storage, registry, delivery engine, metrics, and logging wired together
// with subscriptions restored from disk at startup.
package runtime
