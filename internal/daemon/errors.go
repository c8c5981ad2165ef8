package daemon

import "errors"

var (
	// ErrAlreadyRunning is returned when Run is called on an App that
	// is already serving.
	ErrAlreadyRunning = errors.New("daemon: already running")

	// ErrNoListenAddr is returned when the configuration carries an
	// empty listen address.
	ErrNoListenAddr = errors.New("daemon: listen address not configured")
)
