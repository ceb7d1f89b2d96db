package registry

// Keyspace:
// - reg/topic/{name}        topic metadata JSON
// - reg/sub/{name}          subscription metadata JSON
// - reg/tsub/{topic}/{sub}  binding index, empty value
const (
	topicPrefix = "reg/topic/"
	subPrefix   = "reg/sub/"
	bindPrefix  = "reg/tsub/"
)

func topicKey(name string) []byte { return []byte(topicPrefix + name) }
func subKey(name string) []byte   { return []byte(subPrefix + name) }

func bindKey(topic, sub string) []byte {
	return []byte(bindPrefix + topic + "/" + sub)
}

func bindTopicPrefix(topic string) []byte {
	return []byte(bindPrefix + topic + "/")
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
