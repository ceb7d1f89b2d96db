// Package id mints the identifiers courier hands to clients: message IDs
// scoped to a topic and single-use acknowledgment tokens.
package id

import (
	"strconv"

	"github.com/rs/xid"
)

// Message renders a log sequence as the message identifier returned to
// publishers. Sequences are assigned monotonically per topic, so the
// identifier is unique within its topic.
func Message(seq uint64) string {
	return strconv.FormatUint(seq, 10)
}

// AckToken returns a fresh opaque acknowledgment token. Tokens are unique
// per delivery attempt; a redelivered message carries a new token and the
// old one becomes a no-op.
func AckToken() string {
	return xid.New().String()
}
