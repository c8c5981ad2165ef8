// Package stream models configured streams and their runtime lifecycle,
// including the type-dependent cleanup that runs at teardown.
package stream

import (
	"encoding/json"
	"fmt"
)

// Type identifies the kind of work a configured stream performs.
type Type string

// Stream type constants define all supported stream kinds.
const (
	// TypeRelay forwards a live input to its outputs unchanged.
	TypeRelay Type = "relay"

	// TypeEncode transcodes a live input before publishing.
	TypeEncode Type = "encode"

	// TypeTimeshiftPlayer plays back a previously recorded timeshift window.
	TypeTimeshiftPlayer Type = "timeshift_player"

	// TypeVODEncode transcodes a file-backed asset.
	TypeVODEncode Type = "vod_encode"

	// TypeVODRelay forwards a file-backed asset unchanged.
	TypeVODRelay Type = "vod_relay"

	// TypeCatchup records a live input for later catchup playback.
	TypeCatchup Type = "catchup"

	// TypeTimeshiftRecorder records a live input into a timeshift window.
	TypeTimeshiftRecorder Type = "timeshift_recorder"

	// TypeTestLife is a synthetic stream used for liveness testing.
	TypeTestLife Type = "test_life"

	// TypeScreen renders a static placeholder screen.
	TypeScreen Type = "screen"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid checks whether the stream type is one of the defined constants.
func (t Type) IsValid() bool {
	switch t {
	case TypeRelay, TypeEncode, TypeTimeshiftPlayer, TypeVODEncode, TypeVODRelay,
		TypeCatchup, TypeTimeshiftRecorder, TypeTestLife, TypeScreen:
		return true
	default:
		return false
	}
}

// cleanupExempt lists the stream types whose teardown must leave the
// file system untouched: they either produce no removable artifacts or
// their artifacts are reclaimed by another subsystem. The set is closed;
// any type absent from it is subject to cleanup.
var cleanupExempt = map[Type]bool{
	TypeVODEncode:         true,
	TypeVODRelay:          true,
	TypeCatchup:           true,
	TypeTimeshiftRecorder: true,
	TypeTestLife:          true,
	TypeScreen:            true,
}

// NeedsCleanup reports whether streams of this type reclaim their http
// output directories at teardown.
func (t Type) NeedsCleanup() bool {
	return !cleanupExempt[t]
}

// MarshalJSON implements json.Marshaler.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Type) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	typ := Type(str)
	if !typ.IsValid() {
		return fmt.Errorf("invalid stream type: %q", str)
	}

	*t = typ
	return nil
}

// ParseType parses a string into a stream Type.
func ParseType(s string) (Type, error) {
	typ := Type(s)
	if !typ.IsValid() {
		return "", fmt.Errorf("invalid stream type: %q", s)
	}
	return typ, nil
}

// AllTypes returns all defined stream types.
func AllTypes() []Type {
	return []Type{
		TypeRelay,
		TypeEncode,
		TypeTimeshiftPlayer,
		TypeVODEncode,
		TypeVODRelay,
		TypeCatchup,
		TypeTimeshiftRecorder,
		TypeTestLife,
		TypeScreen,
	}
}
