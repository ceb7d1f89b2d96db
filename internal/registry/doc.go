// Package registry is the broker's control plane: topic and subscription
// records, the per-topic binding index consumed by publish fan-out, and
// pagination cursors for the list operations. The delivery engine treats
// it as a read-only lookup; all mutation goes through the service layer.
//
// # Keyspace
//
//	reg/topic/{name}        - topic record
//	reg/sub/{name}          - subscription record
//	reg/tsub/{topic}/{sub}  - topic-to-subscription binding index
//
// Deleting a topic removes its bindings and rewrites each bound
// subscription's topic to the DeletedTopic sentinel; the subscriptions and
// their backlogs survive. Recreating a topic with the same name starts
// with no subscriptions.
//
// List operations paginate with opaque resume-after tokens and return
// names in lexicographic order.
package registry
