// Package delivery implements the per-subscription delivery engine: the
// backlog of undelivered message references, the lease table keyed by
// single-use ack tokens, the expiry sweeper that turns missed deadlines
// into redeliveries, and the pull and push dispatch paths.
//
// All state lives in the shared key-value store under the subscription's
// key prefix, so a restart resumes exactly where the previous process
// stopped: backlogged messages stay backlogged and outstanding leases
// expire on schedule.
package delivery
