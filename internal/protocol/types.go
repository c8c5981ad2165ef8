// Package protocol defines the JSON control-protocol envelope exchanged
// between the orchestrator and stream workers: sequence-correlated
// requests and their success/fail responses.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
)

// SequenceID correlates a request with its eventual response. It is
// unique per connection and carried unchanged from request to response.
type SequenceID uint64

// SeqInvalid is the reserved sentinel; no valid request ever carries it.
const SeqInvalid SequenceID = 0

// IsValid reports whether the sequence ID may be used on the wire.
func (s SequenceID) IsValid() bool {
	return s != SeqInvalid
}

// ErrInvalidSequenceID is returned by builders when the reserved
// sentinel is passed. This is a caller bug, not a runtime condition.
var ErrInvalidSequenceID = errors.New("protocol: invalid sequence id")

// ErrEmptyErrorText is returned by fail-response builders when no
// human-readable error text is supplied.
var ErrEmptyErrorText = errors.New("protocol: error text is required")

// Allocator hands out monotonically increasing sequence IDs for one
// connection. The zero value is ready to use; the first ID is 1 so the
// invalid sentinel is never allocated. Safe for concurrent use.
type Allocator struct {
	last atomic.Uint64
}

// Next returns the next sequence ID.
func (a *Allocator) Next() SequenceID {
	return SequenceID(a.last.Add(1))
}

// Request is a command envelope addressed to a worker.
type Request struct {
	ID     SequenceID      `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response reports the outcome of a request. Exactly one of Result and
// Error is present on the wire.
type Response struct {
	ID     SequenceID
	Result json.RawMessage
	Error  string
	failed bool
}

// IsFail reports whether the response carries the error variant.
func (r Response) IsFail() bool {
	return r.failed
}

type wireResponse struct {
	ID     SequenceID       `json:"id"`
	Result *json.RawMessage `json:"result,omitempty"`
	Error  *string          `json:"error,omitempty"`
}

// MarshalJSON encodes the response with exactly one of result/error.
func (r Response) MarshalJSON() ([]byte, error) {
	wire := wireResponse{ID: r.ID}
	if r.failed {
		e := r.Error
		wire.Error = &e
	} else {
		res := r.Result
		if res == nil {
			res = json.RawMessage("null")
		}
		wire.Result = &res
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a response, enforcing the exactly-one-of
// result/error envelope invariant. The invariant is about key presence:
// a null result is a legal payload-less success, so presence has to be
// checked on the raw object rather than on decoded pointer fields.
func (r *Response) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var id SequenceID
	if rawID, ok := fields["id"]; ok {
		if err := json.Unmarshal(rawID, &id); err != nil {
			return fmt.Errorf("protocol: decode response id: %w", err)
		}
	}

	result, hasResult := fields["result"]
	rawError, hasError := fields["error"]
	if hasResult && hasError {
		return fmt.Errorf("protocol: response %d carries both result and error", id)
	}
	if !hasResult && !hasError {
		return fmt.Errorf("protocol: response %d carries neither result nor error", id)
	}

	r.ID = id
	if hasError {
		var text string
		if err := json.Unmarshal(rawError, &text); err != nil {
			return fmt.Errorf("protocol: decode response %d error text: %w", id, err)
		}
		r.failed = true
		r.Error = text
		r.Result = nil
		return nil
	}
	r.failed = false
	r.Error = ""
	r.Result = result
	return nil
}

func newRequest(id SequenceID, method string, params any) (Request, error) {
	if !id.IsValid() {
		return Request{}, ErrInvalidSequenceID
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return Request{}, fmt.Errorf("protocol: encode %s params: %w", method, err)
	}
	return Request{ID: id, Method: method, Params: raw}, nil
}

func newSuccessResponse(id SequenceID, result any) (Response, error) {
	if !id.IsValid() {
		return Response{}, ErrInvalidSequenceID
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return Response{}, fmt.Errorf("protocol: encode result: %w", err)
	}
	return Response{ID: id, Result: raw}, nil
}

func newFailResponse(id SequenceID, errorText string) (Response, error) {
	if !id.IsValid() {
		return Response{}, ErrInvalidSequenceID
	}
	if errorText == "" {
		return Response{}, ErrEmptyErrorText
	}
	return Response{ID: id, Error: errorText, failed: true}, nil
}
