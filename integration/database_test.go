//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// runSessionFlow drives a persisted session through the CLI against the given stores.
func runSessionFlow(t *testing.T, env []string) {
	t.Helper()

	_, err := runReadiness(t, env, "sessions", "clear")
	require.NoError(t, err)
	_, err = runReadiness(t, env, "runs", "clear")
	require.NoError(t, err)
	// Fresh database: the first migration creates both run tables in one file.
	out, err := runReadiness(t, env, "runs", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "to version 2")
	out, err = runReadiness(t, env, "runs", "migrate", "--target-version", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "to version 1")
	_, err = runReadiness(t, env, "runs", "migrate")
	require.NoError(t, err)

	sessionID, err := runReadiness(t, env, "session", "new")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)
	env = append(env, "READINESS_SESSION="+sessionID)

	for _, q := range accessibilityQuestions {
		_, err = runReadiness(t, env, "answer", q, "5")
		require.NoError(t, err)
	}
	_, err = runReadiness(t, env, "session", "weight", "accessibility", "2")
	require.NoError(t, err)

	out, err = runReadiness(t, env, "score", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "1,accessibility,Accessibility,5.00,2.00,5.00,Ready")

	out, err = runReadiness(t, env, "sessions", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Sessions: 1")

	out, err = runReadiness(t, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 1")

	_, err = runReadiness(t, env, "session", "delete")
	require.NoError(t, err)
}

// TestReadinessWithMySQL tests the readiness CLI with a MySQL backend.
func TestReadinessWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "readiness",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/readiness?parseTime=true", host, port.Port())
	runSessionFlow(t, []string{
		"READINESS_SESSION_BACKEND=mysql",
		"READINESS_SESSION_DB_CONNECT=" + connStr,
		"READINESS_RUN_BACKEND=mysql",
		"READINESS_RUN_DB_CONNECT=" + connStr,
	})
}

// TestReadinessWithPostgres tests the readiness CLI with a PostgreSQL backend.
func TestReadinessWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432:5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()
	time.Sleep(5 * time.Second)

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port.Port())
	runSessionFlow(t, []string{
		"READINESS_SESSION_BACKEND=postgresql",
		"READINESS_SESSION_DB_CONNECT=" + connStr,
		"READINESS_RUN_BACKEND=postgresql",
		"READINESS_RUN_DB_CONNECT=" + connStr,
	})
}
