package protocol

// Method names form the fixed command catalog of the control protocol.
// They are wire-level constants and must not change between releases.
const (
	MethodActivate      = "activate"
	MethodStopService   = "stop_service"
	MethodPing          = "ping"
	MethodGetLogService = "get_log_service"
	MethodSyncService   = "sync_service"
	MethodStateService  = "state_service"

	MethodStartStream   = "start_stream"
	MethodStopStream    = "stop_stream"
	MethodRestartStream = "restart_stream"
	MethodGetLogStream  = "get_log_stream"
)
