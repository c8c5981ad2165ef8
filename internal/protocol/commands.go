package protocol

// One typed builder per catalog command. All builders are free functions
// without shared state and are safe to call concurrently. Every builder
// returns a fully populated envelope; the only failure modes are the
// SeqInvalid precondition and, for fail responses, empty error text.
//
// Each command keeps its own builder pair so its wire shape can evolve
// independently of the rest of the catalog.

// NewActivateRequest encodes an activation command.
func NewActivateRequest(id SequenceID, params ActivateInfo) (Request, error) {
	return newRequest(id, MethodActivate, params)
}

// NewStopServiceRequest encodes a service shutdown command.
func NewStopServiceRequest(id SequenceID, params StopInfo) (Request, error) {
	return newRequest(id, MethodStopService, params)
}

// NewPingRequest encodes a liveness probe.
func NewPingRequest(id SequenceID, params ClientPingInfo) (Request, error) {
	return newRequest(id, MethodPing, params)
}

// NewGetLogServiceRequest asks the service to upload its log to path.
func NewGetLogServiceRequest(id SequenceID, params GetLogInfo) (Request, error) {
	return newRequest(id, MethodGetLogService, params)
}

// NewStartStreamRequest encodes a start command for one stream.
func NewStartStreamRequest(id SequenceID, params StreamCommandInfo) (Request, error) {
	return newRequest(id, MethodStartStream, params)
}

// NewStopStreamRequest encodes a stop command for one stream.
func NewStopStreamRequest(id SequenceID, params StreamCommandInfo) (Request, error) {
	return newRequest(id, MethodStopStream, params)
}

// NewRestartStreamRequest encodes a restart command for one stream.
func NewRestartStreamRequest(id SequenceID, params StreamCommandInfo) (Request, error) {
	return newRequest(id, MethodRestartStream, params)
}

// NewGetLogStreamRequest asks one stream to upload its log to path.
func NewGetLogStreamRequest(id SequenceID, params GetLogInfo) (Request, error) {
	return newRequest(id, MethodGetLogStream, params)
}

// Service responses.

// NewActivateResponse reports a successful activation with its result text.
func NewActivateResponse(id SequenceID, result string) (Response, error) {
	return newSuccessResponse(id, result)
}

// NewActivateResponseFail reports a failed activation.
func NewActivateResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewStopServiceResponseSuccess acknowledges a stop_service command.
func NewStopServiceResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// NewStopServiceResponseFail reports a failed stop_service command.
func NewStopServiceResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewGetLogServiceResponseSuccess acknowledges a service log upload.
func NewGetLogServiceResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// NewGetLogServiceResponseFail reports a failed service log upload.
func NewGetLogServiceResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewPingServiceResponse answers a ping with the worker's own clock.
func NewPingServiceResponse(id SequenceID, ping ServerPingInfo) (Response, error) {
	return newSuccessResponse(id, ping)
}

// NewPingServiceResponseFail reports a failed ping.
func NewPingServiceResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewStateServiceResponse reports observed service state (directories).
// State reporting is one-way: it describes what is, not the outcome of a
// command, so it deliberately has no fail counterpart.
func NewStateServiceResponse(id SequenceID, result string) (Response, error) {
	return newSuccessResponse(id, result)
}

// NewSyncServiceResponseSuccess acknowledges a config sync.
func NewSyncServiceResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// Stream responses.

// NewStartStreamResponseSuccess acknowledges a start_stream command.
func NewStartStreamResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// NewStartStreamResponseFail reports a failed start_stream command.
func NewStartStreamResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewStopStreamResponseSuccess acknowledges a stop_stream command.
func NewStopStreamResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// NewStopStreamResponseFail reports a failed stop_stream command.
func NewStopStreamResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewRestartStreamResponseSuccess acknowledges a restart_stream command.
func NewRestartStreamResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// NewRestartStreamResponseFail reports a failed restart_stream command.
func NewRestartStreamResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}

// NewGetLogStreamResponseSuccess acknowledges a stream log upload.
func NewGetLogStreamResponseSuccess(id SequenceID) (Response, error) {
	return newSuccessResponse(id, nil)
}

// NewGetLogStreamResponseFail reports a failed stream log upload.
func NewGetLogStreamResponseFail(id SequenceID, errorText string) (Response, error) {
	return newFailResponse(id, errorText)
}
