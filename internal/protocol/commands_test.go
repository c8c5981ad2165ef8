package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestBuilders(t *testing.T) {
	tests := []struct {
		name       string
		build      func(SequenceID) (Request, error)
		wantMethod string
	}{
		{"activate", func(id SequenceID) (Request, error) {
			return NewActivateRequest(id, ActivateInfo{License: "abc"})
		}, MethodActivate},
		{"stop service", func(id SequenceID) (Request, error) {
			return NewStopServiceRequest(id, StopInfo{Delay: 5})
		}, MethodStopService},
		{"ping", func(id SequenceID) (Request, error) {
			return NewPingRequest(id, NewClientPingInfo())
		}, MethodPing},
		{"get log service", func(id SequenceID) (Request, error) {
			return NewGetLogServiceRequest(id, GetLogInfo{Path: "http://logs/svc"})
		}, MethodGetLogService},
		{"start stream", func(id SequenceID) (Request, error) {
			return NewStartStreamRequest(id, StreamCommandInfo{StreamID: "s1"})
		}, MethodStartStream},
		{"stop stream", func(id SequenceID) (Request, error) {
			return NewStopStreamRequest(id, StreamCommandInfo{StreamID: "s1"})
		}, MethodStopStream},
		{"restart stream", func(id SequenceID) (Request, error) {
			return NewRestartStreamRequest(id, StreamCommandInfo{StreamID: "s1"})
		}, MethodRestartStream},
		{"get log stream", func(id SequenceID) (Request, error) {
			return NewGetLogStreamRequest(id, GetLogInfo{Path: "http://logs/s1"})
		}, MethodGetLogStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.build(7)
			require.NoError(t, err)
			assert.Equal(t, SequenceID(7), req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.NotEmpty(t, req.Params)

			_, err = tt.build(SeqInvalid)
			assert.ErrorIs(t, err, ErrInvalidSequenceID)
		})
	}
}

func TestSuccessResponseBuilders(t *testing.T) {
	builders := map[string]func(SequenceID) (Response, error){
		"stop service":   NewStopServiceResponseSuccess,
		"get log svc":    NewGetLogServiceResponseSuccess,
		"sync service":   NewSyncServiceResponseSuccess,
		"start stream":   NewStartStreamResponseSuccess,
		"stop stream":    NewStopStreamResponseSuccess,
		"restart stream": NewRestartStreamResponseSuccess,
		"get log stream": NewGetLogStreamResponseSuccess,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			resp, err := build(3)
			require.NoError(t, err)
			assert.Equal(t, SequenceID(3), resp.ID)
			assert.False(t, resp.IsFail())
			assert.Empty(t, resp.Error)

			_, err = build(SeqInvalid)
			assert.ErrorIs(t, err, ErrInvalidSequenceID)
		})
	}
}

func TestFailResponseBuilders(t *testing.T) {
	builders := map[string]func(SequenceID, string) (Response, error){
		"activate":       NewActivateResponseFail,
		"stop service":   NewStopServiceResponseFail,
		"get log svc":    NewGetLogServiceResponseFail,
		"ping":           NewPingServiceResponseFail,
		"start stream":   NewStartStreamResponseFail,
		"stop stream":    NewStopStreamResponseFail,
		"restart stream": NewRestartStreamResponseFail,
		"get log stream": NewGetLogStreamResponseFail,
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			resp, err := build(4, "stream failed to start")
			require.NoError(t, err)
			assert.Equal(t, SequenceID(4), resp.ID)
			assert.True(t, resp.IsFail())
			assert.Equal(t, "stream failed to start", resp.Error)
			assert.Nil(t, resp.Result)

			_, err = build(4, "")
			assert.ErrorIs(t, err, ErrEmptyErrorText)

			_, err = build(SeqInvalid, "boom")
			assert.ErrorIs(t, err, ErrInvalidSequenceID)
		})
	}
}

func TestPingRequestResponseCorrelation(t *testing.T) {
	req, err := NewPingRequest(42, ClientPingInfo{Timestamp: 100})
	require.NoError(t, err)

	info := ServerPingInfo{Timestamp: 101}
	resp, err := NewPingServiceResponse(req.ID, info)
	require.NoError(t, err)

	assert.Equal(t, req.ID, resp.ID)

	var got ServerPingInfo
	require.NoError(t, json.Unmarshal(resp.Result, &got))
	assert.Equal(t, info, got)
}

func TestActivateResponseCarriesResult(t *testing.T) {
	resp, err := NewActivateResponse(8, "OK")
	require.NoError(t, err)
	assert.False(t, resp.IsFail())

	var result string
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "OK", result)
}

func TestStateServiceResponseIsOneWay(t *testing.T) {
	resp, err := NewStateServiceResponse(12, "/var/lib/streamd,/var/log/streamd")
	require.NoError(t, err)
	assert.False(t, resp.IsFail())
	assert.Equal(t, SequenceID(12), resp.ID)
}
