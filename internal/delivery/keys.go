package delivery

import "encoding/binary"

// Keyspace per subscription.
//
// Layout (byte-wise, lexicographically sortable):
// - s/{sub}/bl/{bseq_be8}       backlog entry, FIFO by backlog sequence
// - s/{sub}/blm                 backlog metadata (last backlog sequence)
// - s/{sub}/ls/{ackID}          lease record
// - s/{sub}/lx/{exp_be8}/{ackID} lease expiry index
const (
	subRoot       = "s/"
	backlogSeg    = "/bl/"
	backlogMeta   = "/blm"
	leaseSeg      = "/ls/"
	leaseIndexSeg = "/lx/"
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// subPrefix covers every key owned by one subscription. Deleting the
// subscription range-deletes this prefix.
func subPrefix(sub string) []byte {
	return []byte(subRoot + sub + "/")
}

func backlogKey(sub string, bseq uint64) []byte {
	k := make([]byte, 0, len(sub)+24)
	k = append(k, subRoot...)
	k = append(k, sub...)
	k = append(k, backlogSeg...)
	return appendBE8(k, bseq)
}

func backlogPrefix(sub string) []byte {
	return []byte(subRoot + sub + backlogSeg)
}

func backlogMetaKey(sub string) []byte {
	return []byte(subRoot + sub + backlogMeta)
}

func leaseKey(sub, ackID string) []byte {
	return []byte(subRoot + sub + leaseSeg + ackID)
}

func leaseIndexKey(sub string, expiresMs int64, ackID string) []byte {
	k := make([]byte, 0, len(sub)+len(ackID)+24)
	k = append(k, subRoot...)
	k = append(k, sub...)
	k = append(k, leaseIndexSeg...)
	k = appendBE8(k, uint64(expiresMs))
	return append(k, ackID...)
}

func leaseIndexPrefix(sub string) []byte {
	return []byte(subRoot + sub + leaseIndexSeg)
}

// keyUpperBound returns the exclusive upper bound for a prefix scan.
func keyUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
