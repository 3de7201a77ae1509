package proto

import "encoding/binary"

// AppendAlarmTick appends a MsgAlarmTick payload to dst.
//
// Layout (little-endian):
//   - u64: alarm tick number
func AppendAlarmTick(dst []byte, tick uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, tick)
}

// DecodeAlarmTick decodes an AppendAlarmTick payload.
func DecodeAlarmTick(payload []byte) (tick uint64, ok bool) {
	if len(payload) < 8 {
		return 0, false
	}
	return binary.LittleEndian.Uint64(payload[0:8]), true
}

// AppendStatusRequest appends a MsgStatusRequest payload to dst.
//
// Layout (little-endian):
//   - u32: request sequence number
func AppendStatusRequest(dst []byte, seq uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, seq)
}

// DecodeStatusRequest decodes an AppendStatusRequest payload.
func DecodeStatusRequest(payload []byte) (seq uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}
