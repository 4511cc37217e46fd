package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"
)

// Client handles HTTP communication with a Hue bridge through the v1 API
type Client struct {
	baseURL    string
	username   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new client for the bridge at address (host or host:port).
// An empty username is enough for registration and /api/config.
func NewClient(address, username string, logger *slog.Logger, httpClient ...*http.Client) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	var hc *http.Client
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	} else {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		baseURL:    fmt.Sprintf("http://%s/api", address),
		username:   username,
		httpClient: hc,
		logger:     logger,
	}
}

// WithUser returns a copy of the client authenticating as username.
func (c *Client) WithUser(username string) *Client {
	cp := *c
	cp.username = username
	return &cp
}

// Username returns the user the client authenticates as.
func (c *Client) Username() string {
	return c.username
}

// GetConfig retrieves the public bridge description.
func (c *Client) GetConfig(ctx context.Context) (*BridgeConfig, error) {
	var cfg BridgeConfig
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/config", nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to get bridge config: %w", err)
	}
	return &cfg, nil
}

// GetAllLights lists every light known to the bridge, ordered by id.
func (c *Client) GetAllLights(ctx context.Context) ([]Light, error) {
	var raw map[string]Light
	if err := c.do(ctx, http.MethodGet, c.userURL("/lights"), nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get lights: %w", err)
	}

	lights := make([]Light, 0, len(raw))
	for key, light := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			c.logger.Warn("hue: skipping light with non-numeric id", "id", key)
			continue
		}
		light.ID = id
		lights = append(lights, light)
	}
	sort.Slice(lights, func(i, j int) bool { return lights[i].ID < lights[j].ID })

	c.logger.Debug("hue: /lights response", "count", len(lights))
	return lights, nil
}

// SetLightState sends cmd to a single light.
func (c *Client) SetLightState(ctx context.Context, id int, cmd LightCommand) error {
	jsonData, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.userURL(fmt.Sprintf("/lights/%d/state", id))
	c.logger.Debug("hue: setting light state", "url", url, "payload", string(jsonData))

	var results []apiResponse
	if err := c.do(ctx, http.MethodPut, url, jsonData, &results); err != nil {
		return fmt.Errorf("failed to set state of light %d: %w", id, err)
	}
	return nil
}

// CreateUser registers deviceType with the bridge and returns the new username.
// Until the link button is pressed the bridge answers with ErrLinkButtonNotPressed.
func (c *Client) CreateUser(ctx context.Context, deviceType string) (string, error) {
	jsonData, err := json.Marshal(map[string]string{"devicetype": deviceType})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var results []apiResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL, jsonData, &results); err != nil {
		return "", fmt.Errorf("failed to register user: %w", err)
	}
	for _, r := range results {
		if name, ok := r.Success["username"].(string); ok && name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("failed to register user: no username in response")
}

func (c *Client) userURL(path string) string {
	return c.baseURL + "/" + c.username + path
}

// do performs a request and decodes the JSON response into out. An error
// envelope is returned as *APIError whatever shape out expects.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("hue: request failed", "method", method, "url", url, "error", err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(data))
	}

	if apiErr := firstError(data); apiErr != nil {
		return apiErr
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// firstError returns the first error of a v1 response array, if the body is one.
func firstError(data []byte) *APIError {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var results []apiResponse
	if err := json.Unmarshal(trimmed, &results); err != nil {
		return nil
	}
	for _, r := range results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}
