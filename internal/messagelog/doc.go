// Package messagelog implements the per-topic append-only message log.
//
// # Overview
//
// Each topic owns a log persisted in Pebble. Keys are lexicographically
// ordered for efficient range scans:
//   - t/{topic}/m           (topic metadata: lastSeq)
//   - t/{topic}/e/{seq_be8} (messages)
//
// Records are stored as: varint headerLen | header | payload |
// crc32c(header|payload), where header = publishMs (8B BE) followed by the
// attributes as JSON. Sequence numbers start at 1 and double as message
// IDs in their decimal form.
//
// API surface (internal)
//
//	l, _ := Open(db, topic)
//	seqs, _ := l.Append(ctx, []Incoming{{Data: p, Attributes: a}}, nowMs)
//	msg, _ := l.Get(seqs[0])
//
// Messages are retained regardless of delivery state; subscriptions hold
// references by sequence, never copies.
package messagelog
