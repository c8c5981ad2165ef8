// Package overlay describes logo overlays rendered on top of a stream.
package overlay

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// JSON field names of the logo descriptor.
const (
	fieldPath     = "path"
	fieldPosition = "position"
	fieldSize     = "size"
)

// Point is an x/y position on the video surface, encoded as "x,y".
type Point struct {
	X int
	Y int
}

// ParsePoint parses the "x,y" encoding.
func ParsePoint(s string) (Point, error) {
	var p Point
	if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
		return Point{}, fmt.Errorf("overlay: invalid point %q: %w", s, err)
	}
	return p, nil
}

// String returns the "x,y" encoding.
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Size is a width/height pair, encoded as "WxH".
type Size struct {
	Width  int
	Height int
}

// ParseSize parses the "WxH" encoding.
func ParseSize(s string) (Size, error) {
	var sz Size
	if _, err := fmt.Sscanf(s, "%dx%d", &sz.Width, &sz.Height); err != nil {
		return Size{}, fmt.Errorf("overlay: invalid size %q: %w", s, err)
	}
	return sz, nil
}

// String returns the "WxH" encoding.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Logo is a logo overlay descriptor: the image location, where to draw
// it, and an optional rendering size.
type Logo struct {
	Path     string
	Position Point
	Size     *Size
}

// Equal reports whether two logos reference the same image.
func (l Logo) Equal(other Logo) bool {
	return l.Path == other.Path
}

// FromMap builds a logo from a generic JSON object. A nil map means no
// logo is configured. Malformed fields are skipped rather than failing
// the whole parse; the remaining fields keep their zero values.
func FromMap(m map[string]any) (Logo, bool) {
	if m == nil {
		return Logo{}, false
	}

	var logo Logo
	if raw, ok := m[fieldPath].(string); ok {
		if u, err := url.Parse(raw); err == nil {
			logo.Path = u.String()
		}
	}
	if raw, ok := m[fieldPosition].(string); ok {
		if pt, err := ParsePoint(raw); err == nil {
			logo.Position = pt
		}
	}
	if raw, ok := m[fieldSize].(string); ok {
		if sz, err := ParseSize(raw); err == nil {
			logo.Size = &sz
		}
	}
	return logo, true
}

type logoJSON struct {
	Path     string `json:"path"`
	Position string `json:"position"`
	Size     string `json:"size,omitempty"`
}

// MarshalJSON implements json.Marshaler. Size is omitted when unset.
func (l Logo) MarshalJSON() ([]byte, error) {
	out := logoJSON{
		Path:     l.Path,
		Position: l.Position.String(),
	}
	if l.Size != nil {
		out.Size = l.Size.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler with the same lenient field
// handling as FromMap.
func (l *Logo) UnmarshalJSON(data []byte) error {
	var in logoJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var logo Logo
	if u, err := url.Parse(in.Path); err == nil {
		logo.Path = u.String()
	}
	if pt, err := ParsePoint(in.Position); err == nil {
		logo.Position = pt
	}
	if in.Size != "" {
		if sz, err := ParseSize(in.Size); err == nil {
			logo.Size = &sz
		}
	}
	*l = logo
	return nil
}
