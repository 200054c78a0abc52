package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/collecta/pdp-insights/store/postgres"
)

// Integration test; needs a live database with the agent_connected_times
// table. Set PDP_TEST_POSTGRES_URL to run it.
func TestStore_Records_Integration(t *testing.T) {
	url := os.Getenv("PDP_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("PDP_TEST_POSTGRES_URL not set")
	}

	store, err := postgres.New(url, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, store.Ping(ctx))

	start := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	records, err := store.Records(ctx, start, end)
	require.NoError(t, err)

	for _, r := range records {
		require.False(t, r.Date.Before(start))
		require.False(t, r.Date.After(end))
		require.GreaterOrEqual(t, r.ConnectedSeconds, int64(0))
	}
}
