// Package huetest provides an in-process Hue bridge for tests.
package huetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StateCall records one PUT to /api/<user>/lights/<id>/state.
type StateCall struct {
	LightID int
	Body    map[string]any
	At      time.Time
}

// Bridge is a fake bridge serving the v1 calls used by huemodoro.
type Bridge struct {
	Server *httptest.Server

	mu           sync.Mutex
	username     string
	lights       map[int]string
	calls        []StateCall
	failLight    int
	pressAfter   int
	createCalls  int
	lightsStatus int
}

// NewBridge starts a bridge that accepts username and knows the given light
// names keyed by id. Close it with b.Close().
func NewBridge(username string, lights map[int]string) *Bridge {
	b := &Bridge{
		username: username,
		lights:   lights,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

// Close shuts the server down.
func (b *Bridge) Close() {
	b.Server.Close()
}

// Address returns host:port of the server.
func (b *Bridge) Address() string {
	return strings.TrimPrefix(b.Server.URL, "http://")
}

// FailLight makes state changes to id answer with a bridge error.
func (b *Bridge) FailLight(id int) {
	b.mu.Lock()
	b.failLight = id
	b.mu.Unlock()
}

// PressLinkButtonAfter makes the first n registrations fail with error 101.
func (b *Bridge) PressLinkButtonAfter(n int) {
	b.mu.Lock()
	b.pressAfter = n
	b.mu.Unlock()
}

// FailLightList makes GET /lights answer with status.
func (b *Bridge) FailLightList(status int) {
	b.mu.Lock()
	b.lightsStatus = status
	b.mu.Unlock()
}

// Calls returns every recorded state change in order.
func (b *Bridge) Calls() []StateCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]StateCall, len(b.calls))
	copy(out, b.calls)
	return out
}

// CreateCalls returns the number of registration attempts.
func (b *Bridge) CreateCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createCalls
}

func (b *Bridge) serve(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "api":
		b.serveCreateUser(w, r)
	case r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "config":
		json.NewEncoder(w).Encode(map[string]any{
			"name":       "Philips hue",
			"bridgeid":   "001788FFFE123456",
			"modelid":    "BSB002",
			"apiversion": "1.65.0",
			"swversion":  "1965111030",
		})
	case len(parts) >= 3 && parts[0] == "api" && parts[2] == "lights":
		if parts[1] != b.username {
			writeError(w, 1, "/lights", "unauthorized user")
			return
		}
		switch {
		case r.Method == http.MethodGet && len(parts) == 3:
			b.serveLights(w)
		case r.Method == http.MethodPut && len(parts) == 5 && parts[4] == "state":
			b.serveSetState(w, r, parts[3])
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (b *Bridge) serveCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeviceType string `json:"devicetype"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DeviceType == "" {
		writeError(w, 5, "/", "invalid/missing parameters in body")
		return
	}

	b.mu.Lock()
	b.createCalls++
	pressed := b.createCalls > b.pressAfter
	b.mu.Unlock()

	if !pressed {
		writeError(w, 101, "", "link button not pressed")
		return
	}
	json.NewEncoder(w).Encode([]map[string]any{
		{"success": map[string]any{"username": b.username}},
	})
}

func (b *Bridge) serveLights(w http.ResponseWriter) {
	b.mu.Lock()
	status := b.lightsStatus
	b.mu.Unlock()
	if status != 0 {
		http.Error(w, "unavailable", status)
		return
	}

	out := make(map[string]any, len(b.lights))
	for id, name := range b.lights {
		out[strconv.Itoa(id)] = map[string]any{
			"name":     name,
			"type":     "Extended color light",
			"modelid":  "LCT015",
			"uniqueid": fmt.Sprintf("00:17:88:01:00:00:00:%02x-0b", id),
			"state": map[string]any{
				"on":        false,
				"bri":       254,
				"hue":       8418,
				"sat":       140,
				"colormode": "hs",
				"reachable": true,
			},
		}
	}
	json.NewEncoder(w).Encode(out)
}

func (b *Bridge) serveSetState(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeError(w, 3, "/lights/"+rawID, "resource not available")
		return
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 2, "/lights/"+rawID+"/state", "body contains invalid json")
		return
	}

	b.mu.Lock()
	b.calls = append(b.calls, StateCall{LightID: id, Body: body, At: time.Now()})
	fail := b.failLight == id
	_, known := b.lights[id]
	b.mu.Unlock()

	if fail || !known {
		writeError(w, 201, fmt.Sprintf("/lights/%d/state/on", id), "parameter, on, is not modifiable. Device is set to off.")
		return
	}

	results := make([]map[string]any, 0, len(body))
	for k, v := range body {
		results = append(results, map[string]any{
			"success": map[string]any{fmt.Sprintf("/lights/%d/state/%s", id, k): v},
		})
	}
	json.NewEncoder(w).Encode(results)
}

func writeError(w http.ResponseWriter, typ int, address, description string) {
	json.NewEncoder(w).Encode([]map[string]any{
		{"error": map[string]any{"type": typ, "address": address, "description": description}},
	})
}
