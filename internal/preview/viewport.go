// Package preview serves compiled pages inside a sandboxed frame, keeps the
// per-session page and viewport state, and relays navigation clicks from
// the frame back to the server over a websocket.
package preview

import "fmt"

// Viewport is one of the fixed preview widths.
type Viewport string

const (
	Desktop Viewport = "desktop"
	Tablet  Viewport = "tablet"
	Mobile  Viewport = "mobile"
)

// Viewports lists the viewports in display order.
var Viewports = []Viewport{Desktop, Tablet, Mobile}

// Width returns the frame width in CSS pixels.
func (v Viewport) Width() int {
	switch v {
	case Tablet:
		return 768
	case Mobile:
		return 375
	default:
		return 1200
	}
}

// ParseViewport maps a name to a Viewport. The empty string is Desktop.
func ParseViewport(s string) (Viewport, error) {
	switch Viewport(s) {
	case "", Desktop:
		return Desktop, nil
	case Tablet:
		return Tablet, nil
	case Mobile:
		return Mobile, nil
	}
	return "", fmt.Errorf("unknown viewport %q", s)
}
