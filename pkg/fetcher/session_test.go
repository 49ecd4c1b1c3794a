package fetcher

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/monshunter/ephemfetch/pkg/config"
	"github.com/monshunter/ephemfetch/pkg/ftps"
	"github.com/monshunter/ephemfetch/pkg/ftps/ftpstest"
)

func TestConnectFailureIsSessionError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	cfg.Email = "me@example.org"
	cfg.Timeout = 2 * time.Second

	var client *ftps.Client
	captureStdout(t, func() {
		client, err = Connect(context.Background(), cfg)
	})
	if !IsKind(err, KindSession) {
		t.Fatalf("expected session error, got %v", err)
	}
	if client != nil {
		t.Error("no client should be returned on failure")
	}
}

func TestConnectLoginRejectedIsSessionError(t *testing.T) {
	srv, err := ftpstest.NewServer(map[string]string{"PASS": "530 Login incorrect"})
	if err != nil {
		t.Fatalf("failed to start test server: %v", err)
	}
	defer srv.Close()

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = srv.Port()
	cfg.Email = "me@example.org"
	cfg.Timeout = 5 * time.Second
	cfg.InsecureSkipVerify = true

	var client *ftps.Client
	captureStdout(t, func() {
		client, err = Connect(context.Background(), cfg)
	})
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindSession {
		t.Fatalf("expected session error, got %v", err)
	}
	if fe.Path != cfg.Address() {
		t.Errorf("error path = %q, want %q", fe.Path, cfg.Address())
	}
	if client != nil {
		t.Error("no client should be returned on failure")
	}

	commands := srv.Wait()
	if len(commands) == 0 || commands[len(commands)-1] != "QUIT" {
		t.Errorf("the half-open connection should be quit, got %v", commands)
	}
}
