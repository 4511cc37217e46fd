package hue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	serviceName = "_hue._tcp"
	domain      = "local."
)

// Discoverer locates a bridge on the network.
type Discoverer interface {
	Discover(ctx context.Context) (*BridgeInfo, error)
}

// StaticDiscoverer returns a fixed address without touching the network.
type StaticDiscoverer struct {
	Address string
}

// Discover returns the configured address.
func (s StaticDiscoverer) Discover(_ context.Context) (*BridgeInfo, error) {
	if s.Address == "" {
		return nil, ErrNoBridge
	}
	return &BridgeInfo{Address: s.Address, Source: "static"}, nil
}

// MDNSDiscoverer browses the local network for _hue._tcp services.
type MDNSDiscoverer struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

// Discover returns the first bridge announcing an IPv4 address before the timeout.
func (d MDNSDiscoverer) Discover(ctx context.Context) (*BridgeInfo, error) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	browseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 10)
	if err := resolver.Browse(browseCtx, serviceName, domain, entries); err != nil {
		return nil, fmt.Errorf("failed to start discovery: %w", err)
	}

	for {
		select {
		case <-browseCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrNoBridge
		case entry, ok := <-entries:
			if !ok {
				return nil, ErrNoBridge
			}
			if entry == nil || len(entry.AddrIPv4) == 0 {
				continue
			}
			info := &BridgeInfo{
				ID:      txtValue(entry.Text, "bridgeid"),
				Name:    entry.Instance,
				Address: entry.AddrIPv4[0].String(),
				Source:  "mdns",
			}
			logger.Debug("hue: bridge found via mDNS", "id", info.ID, "addr", info.Address, "instance", entry.Instance)
			return info, nil
		}
	}
}

func txtValue(records []string, key string) string {
	prefix := key + "="
	for _, r := range records {
		if strings.HasPrefix(r, prefix) {
			return strings.TrimPrefix(r, prefix)
		}
	}
	return ""
}

// CloudDiscoverer asks the vendor's N-UPnP endpoint for bridges on the caller's network.
type CloudDiscoverer struct {
	URL        string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type cloudEntry struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
	Port              int    `json:"port"`
}

// Discover returns the first bridge listed by the endpoint.
func (d CloudDiscoverer) Discover(ctx context.Context) (*BridgeInfo, error) {
	hc := d.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query discovery endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from discovery endpoint: %d", resp.StatusCode)
	}

	var entries []cloudEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode discovery response: %w", err)
	}
	for _, e := range entries {
		if e.InternalIPAddress == "" {
			continue
		}
		return &BridgeInfo{ID: e.ID, Address: e.InternalIPAddress, Source: "cloud"}, nil
	}
	return nil, ErrNoBridge
}

// ChainDiscoverer tries each discoverer in order and returns the first bridge found.
type ChainDiscoverer struct {
	Discoverers []Discoverer
	Logger      *slog.Logger
}

// Discover walks the chain, joining the errors of every failed attempt.
func (c ChainDiscoverer) Discover(ctx context.Context) (*BridgeInfo, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var errs []error
	for _, d := range c.Discoverers {
		info, err := d.Discover(ctx)
		if err == nil {
			logger.Info("hue: bridge discovered", "addr", info.Address, "id", info.ID, "source", info.Source)
			return info, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("hue: discovery attempt failed", "discoverer", fmt.Sprintf("%T", d), "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNoBridge
	}
	return nil, errors.Join(append([]error{ErrNoBridge}, errs...)...)
}

// NewDiscoverer returns a StaticDiscoverer when address is set, otherwise
// mDNS followed by the cloud endpoint (when discoveryURL is not empty).
func NewDiscoverer(address string, timeout time.Duration, discoveryURL string, logger *slog.Logger) Discoverer {
	if address != "" {
		return StaticDiscoverer{Address: address}
	}
	chain := ChainDiscoverer{Logger: logger}
	chain.Discoverers = append(chain.Discoverers, MDNSDiscoverer{Timeout: timeout, Logger: logger})
	if discoveryURL != "" {
		chain.Discoverers = append(chain.Discoverers, CloudDiscoverer{URL: discoveryURL, Logger: logger})
	}
	return chain
}
