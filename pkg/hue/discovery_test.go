package hue_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/huemodoro/pkg/hue"
)

type stubDiscoverer struct {
	info  *hue.BridgeInfo
	err   error
	calls int
}

func (s *stubDiscoverer) Discover(_ context.Context) (*hue.BridgeInfo, error) {
	s.calls++
	return s.info, s.err
}

func TestStaticDiscoverer(t *testing.T) {
	info, err := hue.StaticDiscoverer{Address: "10.0.0.5"}.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", info.Address)
	assert.Equal(t, "static", info.Source)

	_, err = hue.StaticDiscoverer{}.Discover(context.Background())
	assert.ErrorIs(t, err, hue.ErrNoBridge)
}

func TestCloudDiscoverer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "ecb5fafffe000001", "internalipaddress": "", "port": 443},
			{"id": "ecb5fafffe000002", "internalipaddress": "192.168.1.20", "port": 443},
		})
	}))
	defer srv.Close()

	info, err := hue.CloudDiscoverer{URL: srv.URL, Logger: testLogger()}.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", info.Address)
	assert.Equal(t, "ecb5fafffe000002", info.ID)
	assert.Equal(t, "cloud", info.Source)
}

func TestCloudDiscovererEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	_, err := hue.CloudDiscoverer{URL: srv.URL}.Discover(context.Background())
	assert.ErrorIs(t, err, hue.ErrNoBridge)
}

func TestCloudDiscovererBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := hue.CloudDiscoverer{URL: srv.URL}.Discover(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChainDiscovererFallsThrough(t *testing.T) {
	first := &stubDiscoverer{err: errors.New("mdns timeout")}
	second := &stubDiscoverer{info: &hue.BridgeInfo{Address: "10.0.0.9", Source: "cloud"}}
	third := &stubDiscoverer{err: errors.New("unused")}

	chain := hue.ChainDiscoverer{Discoverers: []hue.Discoverer{first, second, third}, Logger: testLogger()}
	info, err := chain.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.9", info.Address)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestChainDiscovererAllFail(t *testing.T) {
	mdnsErr := errors.New("mdns timeout")
	cloudErr := errors.New("cloud unreachable")
	chain := hue.ChainDiscoverer{
		Discoverers: []hue.Discoverer{&stubDiscoverer{err: mdnsErr}, &stubDiscoverer{err: cloudErr}},
		Logger:      testLogger(),
	}
	_, err := chain.Discover(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, hue.ErrNoBridge)
	assert.ErrorIs(t, err, mdnsErr)
	assert.ErrorIs(t, err, cloudErr)
}

func TestChainDiscovererEmpty(t *testing.T) {
	_, err := hue.ChainDiscoverer{}.Discover(context.Background())
	assert.ErrorIs(t, err, hue.ErrNoBridge)
}

func TestNewDiscoverer(t *testing.T) {
	d := hue.NewDiscoverer("10.0.0.5", time.Second, "https://example.invalid", testLogger())
	assert.IsType(t, hue.StaticDiscoverer{}, d)

	d = hue.NewDiscoverer("", time.Second, "https://example.invalid", testLogger())
	chain, ok := d.(hue.ChainDiscoverer)
	require.True(t, ok)
	require.Len(t, chain.Discoverers, 2)
	assert.IsType(t, hue.MDNSDiscoverer{}, chain.Discoverers[0])
	assert.IsType(t, hue.CloudDiscoverer{}, chain.Discoverers[1])

	d = hue.NewDiscoverer("", time.Second, "", testLogger())
	chain, ok = d.(hue.ChainDiscoverer)
	require.True(t, ok)
	assert.Len(t, chain.Discoverers, 1)
}
