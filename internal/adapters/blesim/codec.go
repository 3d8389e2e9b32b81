package blesim

import (
	"encoding/binary"
	"fmt"
)

// Wire encoding for the three characteristic operations (§6.2). All
// integers are little-endian, matching the assumed GATT payload layout.

// encodeCountPayload builds a count-read response payload: a uint32 total
// followed by no trailer (the real characteristic may carry more bytes;
// only the first four matter).
func encodeCountPayload(total uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, total)
	return buf
}

// decodeCountPayload reads the uint32 total from the front of payload.
// Returns an error for any payload shorter than four bytes.
func decodeCountPayload(payload []byte) (uint32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("blesim: count payload too short: %d bytes", len(payload))
	}
	return binary.LittleEndian.Uint32(payload[0:4]), nil
}

// encodePageRequest builds the 8-byte page request write: offset || count.
func encodePageRequest(offset, count uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], offset)
	binary.LittleEndian.PutUint32(buf[4:8], count)
	return buf
}

// decodePageRequest is the simulator-side counterpart used to validate what
// was written before manufacturing a response.
func decodePageRequest(payload []byte) (offset, count uint32, err error) {
	if len(payload) != 8 {
		return 0, 0, fmt.Errorf("blesim: page request must be 8 bytes, got %d", len(payload))
	}
	return binary.LittleEndian.Uint32(payload[0:4]), binary.LittleEndian.Uint32(payload[4:8]), nil
}

// encodeAckPayload builds the 4-byte ack write: upTo.
func encodeAckPayload(upTo uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, upTo)
	return buf
}

// decodeAckPayload is the simulator-side counterpart used to validate an
// incoming ack write.
func decodeAckPayload(payload []byte) (uint32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("blesim: ack payload too short: %d bytes", len(payload))
	}
	return binary.LittleEndian.Uint32(payload[0:4]), nil
}
