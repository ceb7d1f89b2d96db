package messagelog

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload)
// where header = publishMs (8B BE) | attributes JSON (may be empty).

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func encodeRecord(publishMs int64, attributes map[string]string, payload []byte) ([]byte, error) {
	header := make([]byte, 8)
	binary.BigEndian.PutUint64(header, uint64(publishMs))
	if len(attributes) > 0 {
		ab, err := json.Marshal(attributes)
		if err != nil {
			return nil, err
		}
		header = append(header, ab...)
	}

	out := make([]byte, 0, 10+len(header)+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(header)))
	out = append(out, tmp[:n]...)
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out, nil
}

func decodeRecord(b []byte) (publishMs int64, attributes map[string]string, payload []byte, ok bool) {
	if len(b) < 1+8+4 {
		return 0, nil, nil, false
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen < 8 || n+int(hlen)+4 > len(b) {
		return 0, nil, nil, false
	}
	header := b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]

	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return 0, nil, nil, false
	}

	publishMs = int64(binary.BigEndian.Uint64(header[:8]))
	if len(header) > 8 {
		if err := json.Unmarshal(header[8:], &attributes); err != nil {
			return 0, nil, nil, false
		}
	}
	return publishMs, attributes, append([]byte(nil), payload...), true
}
