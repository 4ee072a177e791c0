//go:build integration

package integration

import (
	"context"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	testcontainers "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	containerUser     = "user"
	containerPassword = "pass"
	containerDatabase = "app"
)

func integrationDriverEnabled(name string) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv("INTEGRATION_DRIVER")))
	if value == "" || value == "all" {
		return true
	}
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == name {
			return true
		}
	}
	return false
}

func startContainer(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest, port nat.Port) string {
	t.Helper()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s container: %v", req.Image, err)
	}
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = container.Terminate(shutdownCtx)
	})
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("%s container host: %v", req.Image, err)
	}
	mapped, err := container.MappedPort(ctx, port)
	if err != nil {
		t.Fatalf("%s container port: %v", req.Image, err)
	}
	return net.JoinHostPort(host, mapped.Port())
}

func startPostgresContainer(t *testing.T, ctx context.Context) string {
	t.Helper()
	port := nat.Port("5432/tcp")
	return startContainer(t, ctx, testcontainers.ContainerRequest{
		Image: "postgres:16-bookworm",
		Env: map[string]string{
			"POSTGRES_PASSWORD": containerPassword,
			"POSTGRES_USER":     containerUser,
			"POSTGRES_DB":       containerDatabase,
		},
		ExposedPorts: []string{string(port)},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(port).WithStartupTimeout(60*time.Second),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	}, port)
}

func startMySQLContainer(t *testing.T, ctx context.Context) string {
	t.Helper()
	port := nat.Port("3306/tcp")
	return startContainer(t, ctx, testcontainers.ContainerRequest{
		Image: "mysql:8",
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": containerPassword,
			"MYSQL_DATABASE":      containerDatabase,
			"MYSQL_USER":          containerUser,
			"MYSQL_PASSWORD":      containerPassword,
		},
		ExposedPorts: []string{string(port)},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(port).WithStartupTimeout(90*time.Second),
			wait.ForLog("ready for connections").WithOccurrence(2).WithStartupTimeout(90*time.Second),
		),
	}, port)
}

// retry runs fn until it succeeds or timeout passes; the databases accept
// TCP connections slightly before they accept logins.
func retry(timeout, interval time.Duration, fn func() error) error {
	deadline := time.Now().Add(timeout)
	for {
		err := fn()
		if err == nil || time.Now().After(deadline) {
			return err
		}
		time.Sleep(interval)
	}
}
