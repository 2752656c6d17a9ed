package engine

import (
	"context"
	"net/http"
	"testing"

	"github.com/creasty/defaults"
	"github.com/ethpandaops/injuryboard/internal/testutil"
	"github.com/ethpandaops/injuryboard/pkg/clickhouse"
	"github.com/ethpandaops/injuryboard/pkg/injuries"
	"github.com/ethpandaops/injuryboard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T, url string) *Config {
	t.Helper()

	cfg := &Config{}
	require.NoError(t, defaults.Set(cfg))

	cfg.ClickHouse.URL = url
	cfg.API.Addr = "127.0.0.1:0"
	cfg.Server.MetricsAddr = "127.0.0.1:0"

	return cfg
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, defaults.Set(cfg))

	assert.Equal(t, "info", cfg.Logging)
	assert.Equal(t, ":9091", cfg.Server.MetricsAddr)
	assert.Equal(t, "injuries", cfg.ClickHouse.Database)
	assert.Equal(t, "injuries_complete", cfg.Queries.Tables.Injuries)
	assert.Equal(t, 15, cfg.Queries.PreviewLimit)
	assert.Equal(t, "injuryboard_session", cfg.Session.CookieName)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.True(t, cfg.Frontend.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	cfg := newTestConfig(t, "")
	assert.ErrorIs(t, cfg.Validate(), clickhouse.ErrURLRequired)

	cfg = newTestConfig(t, "http://localhost:8123")
	cfg.Queries.PreviewLimit = 0
	assert.ErrorIs(t, cfg.Validate(), injuries.ErrInvalidLimit)

	cfg = newTestConfig(t, "http://localhost:8123")
	cfg.Session.MaxSessions = 0
	assert.ErrorIs(t, cfg.Validate(), session.ErrInvalidMaxSessions)

	cfg = newTestConfig(t, "http://localhost:8123")
	require.NoError(t, cfg.Validate())
}

func TestNewService_DatabasePrefix(t *testing.T) {
	t.Setenv(clickhouse.DatabasePrefixEnv, "dev_")

	svc, err := NewService(testutil.NewLogger(t), newTestConfig(t, "http://localhost:8123"))
	require.NoError(t, err)

	text, err := svc.Queries().Text(injuries.QueryPreview)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM dev_injuries.injuries_serie_a LIMIT 15", text)
}

func TestService_Lifecycle(t *testing.T) {
	fake := testutil.NewFakeClickHouse(t)
	t.Setenv(clickhouse.DatabasePrefixEnv, "")

	svc, err := NewService(testutil.NewLogger(t), newTestConfig(t, fake.URL()))
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, svc.Start(ctx))
	assert.Equal(t, 1, fake.Count("SELECT 1"))

	require.NoError(t, svc.Ready(ctx))

	text, err := svc.Queries().Text(injuries.QueryInjuries)
	require.NoError(t, err)
	fake.Respond(text, testutil.InjuriesResponse())

	view, err := svc.Dashboard().View(ctx, session.DefaultSelection())
	require.NoError(t, err)
	assert.Equal(t, 5, view.Table.Total)

	require.NoError(t, svc.Stop())
}

func TestService_StartFailsWithoutWarehouse(t *testing.T) {
	fake := testutil.NewFakeClickHouse(t)
	fake.Fail("SELECT 1", http.StatusServiceUnavailable, "Code: 210. DB::NetException: Connection refused")

	svc, err := NewService(testutil.NewLogger(t), newTestConfig(t, fake.URL()))
	require.NoError(t, err)

	require.Error(t, svc.Start(context.Background()))
	require.Error(t, svc.Ready(context.Background()))
}
