package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/production-records/internal/config"
)

// useServeConfig points the package-level config at an in-memory badger
// store and the given HTTP address, with gRPC disabled.
func useServeConfig(t *testing.T, httpAddr string) {
	t.Helper()

	prevCfg, prevLogger := cfg, logger
	t.Cleanup(func() { cfg, logger = prevCfg, prevLogger })

	cfg = &config.Config{
		HTTP: config.HTTPConfig{Addr: httpAddr, AllowedOrigins: []string{"*"}},
		Auth: config.AuthConfig{Secret: "serve-secret", TokenTTL: time.Hour},
		Store: config.StoreConfig{
			Driver:     config.DriverBadger,
			Collection: "uretim_kayitlari",
			Timeout:    time.Second,
		},
	}
	logger = zap.NewNop()
}

func TestRunServe_HTTPBindFailure(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	useServeConfig(t, lis.Addr().String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	serveCmd.SetContext(ctx)

	err = runServe(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
	assert.NoError(t, ctx.Err(), "runServe should fail on bind, not on the test deadline")
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	useServeConfig(t, "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	serveCmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- runServe(serveCmd, nil) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runServe did not return after cancel")
	}
}
