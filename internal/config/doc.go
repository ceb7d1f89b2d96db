// Package config loads broker configuration from defaults, an optional
// JSON file, and COURIER_* environment variables, in that order.
package config
