package protocol

import "time"

// ActivateInfo carries the license key presented with an activate command.
type ActivateInfo struct {
	License string `json:"license_key"`
}

// StopInfo carries the shutdown delay requested by a stop_service command.
type StopInfo struct {
	Delay uint64 `json:"delay"`
}

// ClientPingInfo is the payload of a ping request sent by the orchestrator.
type ClientPingInfo struct {
	Timestamp int64 `json:"timestamp"`
}

// NewClientPingInfo returns a ping payload stamped with the current time.
func NewClientPingInfo() ClientPingInfo {
	return ClientPingInfo{Timestamp: time.Now().UTC().Unix()}
}

// ServerPingInfo is the structured payload of a ping response sent back
// by a worker; it reports the worker's own clock for health/latency checks.
type ServerPingInfo struct {
	Timestamp int64 `json:"timestamp"`
}

// NewServerPingInfo returns a ping response payload stamped with the current time.
func NewServerPingInfo() ServerPingInfo {
	return ServerPingInfo{Timestamp: time.Now().UTC().Unix()}
}

// StreamCommandInfo addresses a stream-directed command to one stream.
type StreamCommandInfo struct {
	StreamID string `json:"id"`
}

// GetLogInfo asks the receiver to deliver its log to the given URL.
type GetLogInfo struct {
	Path string `json:"path"`
}
