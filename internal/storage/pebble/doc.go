// Package pebblestore provides a thin wrapper around Pebble with fsync
// policy, batches, and a minimal metrics hook. All broker state (message
// logs, backlogs, leases, and the topic/subscription registry) shares one
// keyspace behind this wrapper.
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(context.Background(), b)
//	b.Close()
package pebblestore
