package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// ErrNoRuns is returned when no forecast run has been persisted yet.
var ErrNoRuns = errors.New("no forecast runs recorded")

// Run is a persisted forecast run.
type Run struct {
	ID           int64     `json:"id"`
	ModelVersion string    `json:"model_version"`
	Rows         int       `json:"rows"`
	CreatedAt    time.Time `json:"created_at"`
}

// Prediction is one persisted forecast point.
type Prediction struct {
	Datetime time.Time `json:"datetime"`
	Value    float64   `json:"prediction"`
}

// Repository persists forecast runs and their predictions.
type Repository struct {
	db  *DB
	log *logger.Logger
}

// NewRepository creates a repository over an open database.
func NewRepository(db *DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// Migrate creates the forecast tables if they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS forecast_runs (
		id            BIGSERIAL PRIMARY KEY,
		model_version TEXT NOT NULL,
		rows          INT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS forecast_predictions (
		run_id     BIGINT NOT NULL REFERENCES forecast_runs(id) ON DELETE CASCADE,
		datetime   TIMESTAMPTZ NOT NULL,
		prediction DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, datetime)
	);`
	if _, err := r.db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create forecast tables: %w", err)
	}
	return nil
}

// SaveRun records one forecast run and all of its predictions, returning
// the new run ID.
func (r *Repository) SaveRun(ctx context.Context, modelVersion string, preds []Prediction) (int64, error) {
	var runID int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO forecast_runs (model_version, rows) VALUES ($1, $2) RETURNING id`,
		modelVersion, len(preds),
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("insert forecast run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, p := range preds {
		batch.Queue(
			`INSERT INTO forecast_predictions (run_id, datetime, prediction) VALUES ($1, $2, $3)`,
			runID, p.Datetime, p.Value,
		)
	}
	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()
	for range preds {
		if _, err := results.Exec(); err != nil {
			return 0, fmt.Errorf("insert prediction for run %d: %w", runID, err)
		}
	}

	r.log.WithFields(map[string]interface{}{
		"run_id":      runID,
		"predictions": len(preds),
	}).Info("Forecast run saved")
	return runID, nil
}

// LatestRun returns the most recent forecast run.
func (r *Repository) LatestRun(ctx context.Context) (*Run, error) {
	var run Run
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, model_version, rows, created_at FROM forecast_runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &run.ModelVersion, &run.Rows, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}
	return &run, nil
}

// RunPredictions returns the predictions of one run in time order.
func (r *Repository) RunPredictions(ctx context.Context, runID int64) ([]Prediction, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT datetime, prediction FROM forecast_predictions WHERE run_id = $1 ORDER BY datetime`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query predictions for run %d: %w", runID, err)
	}
	defer rows.Close()

	var out []Prediction
	for rows.Next() {
		var p Prediction
		if err := rows.Scan(&p.Datetime, &p.Value); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
