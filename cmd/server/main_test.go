package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Skufu/harmonycare/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "BACKEND_URL", "ENABLE_DB", "DATABASE_URL", "BACKEND_TIMEOUT", "TOP_RISK_N", "MAX_UPLOAD_BYTES", "SESSION_TTL", "MAX_SESSIONS"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENABLE_DB", "true")
	if _, err := loadConfig(newRootCmd()); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := loadConfig(newRootCmd())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:5000" {
		t.Fatalf("unexpected backend url %s", cfg.BackendURL)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--port", "9090", "--backend-url", "http://ml:5000/"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected flag port 9090, got %s", cfg.Port)
	}
	if cfg.BackendURL != "http://ml:5000" {
		t.Fatalf("expected trimmed backend url, got %s", cfg.BackendURL)
	}
}

func TestFlagCannotBlankBackendURL(t *testing.T) {
	clearEnv(t)
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--backend-url", ""}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := loadConfig(cmd); err == nil {
		t.Fatal("expected error for an empty backend url")
	}
}

func TestHTTPServerTimeoutsCoverBackendCalls(t *testing.T) {
	cfg := &config.Config{Port: "8080", BackendTimeout: 30 * time.Second}
	srv := newHTTPServer(cfg, http.NotFoundHandler())
	if srv.Addr != ":8080" {
		t.Fatalf("unexpected addr %s", srv.Addr)
	}
	if srv.WriteTimeout <= cfg.BackendTimeout {
		t.Fatalf("write timeout %s does not cover backend timeout %s", srv.WriteTimeout, cfg.BackendTimeout)
	}
}

func TestWaitForShutdownStopsOnContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := &http.Server{Handler: http.NotFoundHandler()}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := waitForShutdown(ctx, server, serveErr, zap.NewNop()); err != nil {
		t.Fatalf("unexpected shutdown error: %v", err)
	}
	if _, ok := <-serveErr; ok {
		t.Fatal("server still reporting after shutdown")
	}
}
