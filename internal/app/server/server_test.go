package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-validator/internal/config"
	"campaign-validator/internal/storage"
	"campaign-validator/internal/validation"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(t.TempDir())
	require.NoError(t, err)
	cfg.Server.Addr = "127.0.0.1:0"
	return cfg
}

func TestServer_HTTPHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantValid bool
	}{
		{
			name:      "valid product targeting",
			body:      `{"context":{"campaignType":"SP_PT_COMP_ASIN","match":"PT","productTargets":["B0ABC123DE"]}}`,
			wantValid: true,
		},
		{
			name: "invalid performance",
			body: `{"context":{"campaignType":"SP_EXACT_PERFORMANCE","match":"EXACT","bidStrategy":"down"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMemoryAudit(10)
			srv := New(testConfig(t), validation.NewValidator(), mem)

			ts := httptest.NewServer(srv.Handler())
			defer ts.Close()

			resp, err := http.Post(ts.URL+"/v1/validate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var res validation.Result
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.Equal(t, tt.wantValid, res.IsValid)
			assert.Len(t, mem.Records(), 1)
		})
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	srv := New(testConfig(t), validation.NewValidator(), storage.NewMemoryAudit(0))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Addr = "256.0.0.1:bad"
	err := Run(context.Background(), cfg)
	assert.Error(t, err)
}
