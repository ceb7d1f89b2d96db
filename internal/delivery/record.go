package delivery

import "encoding/json"

// backlogEntry references a logged message awaiting delivery (or
// redelivery) on one subscription. Attempts counts prior deliveries.
type backlogEntry struct {
	Topic    string `json:"topic"`
	Seq      uint64 `json:"seq"`
	Attempts int32  `json:"attempts"`
}

// lease is an outstanding delivery attempt. Attempts here already includes
// the delivery that created the lease, so an expiring lease requeues its
// entry with the counter incremented.
type lease struct {
	Topic     string `json:"topic"`
	Seq       uint64 `json:"seq"`
	Attempts  int32  `json:"attempts"`
	ExpiresMs int64  `json:"expiresMs"`
}

func encodeBacklogEntry(e backlogEntry) []byte {
	raw, _ := json.Marshal(e)
	return raw
}

func decodeBacklogEntry(raw []byte) (backlogEntry, bool) {
	var e backlogEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return backlogEntry{}, false
	}
	return e, true
}

func encodeLease(l lease) []byte {
	raw, _ := json.Marshal(l)
	return raw
}

func decodeLease(raw []byte) (lease, bool) {
	var l lease
	if err := json.Unmarshal(raw, &l); err != nil {
		return lease{}, false
	}
	return l, true
}
