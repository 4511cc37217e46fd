package hue

import (
	"errors"
	"fmt"
)

// Bridge error types returned in the v1 error envelope.
const (
	ErrorTypeUnauthorized         = 1
	ErrorTypeLinkButtonNotPressed = 101
)

// Common errors
var (
	// ErrLinkButtonNotPressed matches an *APIError of type 101.
	ErrLinkButtonNotPressed = errors.New("link button not pressed")
	// ErrUnauthorized matches an *APIError of type 1.
	ErrUnauthorized = errors.New("unauthorized user")
	// ErrNoBridge is returned when discovery finds nothing.
	ErrNoBridge = errors.New("no bridge found")
)

// APIError is an error reported by the bridge inside a 200 response.
type APIError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bridge error %d at %s: %s", e.Type, e.Address, e.Description)
}

// Is lets errors.Is match the well-known error types.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrLinkButtonNotPressed:
		return e.Type == ErrorTypeLinkButtonNotPressed
	case ErrUnauthorized:
		return e.Type == ErrorTypeUnauthorized
	}
	return false
}

// LightCommand is the body of a light state change. Nil fields are left untouched by the bridge.
type LightCommand struct {
	On bool `json:"on"`
	// Hue 0-65535
	Hue *uint16 `json:"hue,omitempty"`
	// Sat 0-255
	Sat *uint8 `json:"sat,omitempty"`
	// Bri 0-255
	Bri *uint8 `json:"bri,omitempty"`
	// TransitionTime in tenths of a second
	TransitionTime *uint16 `json:"transitiontime,omitempty"`
}

// LightState is the state reported for a light.
type LightState struct {
	On        bool   `json:"on"`
	Bri       uint8  `json:"bri"`
	Hue       uint16 `json:"hue"`
	Sat       uint8  `json:"sat"`
	ColorMode string `json:"colormode,omitempty"`
	Reachable bool   `json:"reachable"`
}

// Light is a light known to the bridge.
type Light struct {
	ID       int        `json:"-"`
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	ModelID  string     `json:"modelid"`
	UniqueID string     `json:"uniqueid"`
	State    LightState `json:"state"`
}

// BridgeConfig is the unauthenticated bridge description from /api/config.
type BridgeConfig struct {
	Name       string `json:"name"`
	BridgeID   string `json:"bridgeid"`
	ModelID    string `json:"modelid"`
	APIVersion string `json:"apiversion"`
	SWVersion  string `json:"swversion"`
}

// BridgeInfo identifies a discovered bridge.
type BridgeInfo struct {
	ID      string
	Name    string
	Address string
	// Source names the discovery mechanism that found the bridge.
	Source string
}

// apiResponse is one entry of the v1 success/error array.
type apiResponse struct {
	Success map[string]any `json:"success,omitempty"`
	Error   *APIError      `json:"error,omitempty"`
}
