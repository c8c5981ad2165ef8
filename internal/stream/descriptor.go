package stream

import (
	"errors"
	"fmt"
	"net/url"
)

// SchemeHTTP marks outputs that publish through the local HTTP root.
// Output schemes are free-form URL schemes; only http has teardown
// consequences in this daemon.
const SchemeHTTP = "http"

// Output is one destination a stream publishes to.
type Output struct {
	// URL is the sink destination (http, rtmp, file, udp, ...).
	URL string `json:"uri" yaml:"uri"`

	// HTTPRoot is the local directory backing an http output. It is
	// meaningful only when the URL scheme is http and may be empty,
	// in which case there is nothing to reclaim at teardown.
	HTTPRoot string `json:"http_root,omitempty" yaml:"http_root,omitempty"`
}

// Scheme returns the URL scheme of the output, or "" if the URL does
// not parse.
func (o Output) Scheme() string {
	u, err := url.Parse(o.URL)
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Descriptor is the static configuration of one stream.
type Descriptor struct {
	ID      string   `json:"id" yaml:"id"`
	Type    Type     `json:"type" yaml:"type"`
	Outputs []Output `json:"output" yaml:"output"`
}

// ErrMissingStreamID is returned when a descriptor has no stream ID.
var ErrMissingStreamID = errors.New("stream: descriptor id is required")

// Validate checks the descriptor for configuration errors.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return ErrMissingStreamID
	}
	if !d.Type.IsValid() {
		return fmt.Errorf("stream %s: invalid type %q", d.ID, string(d.Type))
	}
	for i, out := range d.Outputs {
		if out.URL == "" {
			return fmt.Errorf("stream %s: output %d has no uri", d.ID, i)
		}
		if _, err := url.Parse(out.URL); err != nil {
			return fmt.Errorf("stream %s: output %d: %w", d.ID, i, err)
		}
	}
	return nil
}
