// Package log provides Courier's structured logging facade.
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context, backed by the standard library's
// slog. Keeping the facade thin lets the rest of the codebase stay
// independent of the handler in use.
//
// Quick start
//
//	l := log.New(log.WithLevel(log.InfoLevel), log.WithFormat("text"))
//	l = l.With(log.Component("server"))
//	l.Info("server started", log.Str("addr", ":8085"))
//
// Use FromConfig to build a logger from declarative configuration, and
// RedirectStdLog to capture standard library log output (Pebble uses it)
// into the structured logger.
package log
