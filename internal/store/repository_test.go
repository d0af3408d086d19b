package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jugesdebnath7/powercast/pkg/config"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// testDB connects to the database named by POWERCAST_TEST_DATABASE_URL,
// skipping the test when it is unset.
func testDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("POWERCAST_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("POWERCAST_TEST_DATABASE_URL not set, skipping integration test")
	}

	cfg := &config.Config{Database: config.DatabaseConfig{
		URL:             url,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}}

	db, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestRepository_SaveAndLoadRun(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db, logger.Nop())
	ctx := context.Background()

	require.NoError(t, repo.Migrate(ctx))

	stamp := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	preds := []Prediction{
		{Datetime: stamp, Value: 123.4},
		{Datetime: stamp.Add(time.Hour), Value: 125.0},
	}

	runID, err := repo.SaveRun(ctx, "v1", preds)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	latest, err := repo.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, runID, latest.ID)
	assert.Equal(t, "v1", latest.ModelVersion)
	assert.Equal(t, 2, latest.Rows)

	got, err := repo.RunPredictions(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 123.4, got[0].Value)
	assert.True(t, got[0].Datetime.Equal(stamp))
}
