package quality

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wonny/equityrank/internal/contracts"
)

// DB is the part of pgxpool.Pool the repository uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository handles data quality snapshot persistence
// ⭐ SSOT: 품질 스냅샷 저장/조회
type Repository struct {
	db DB
}

// NewRepository creates a new quality repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// SaveSnapshot saves a data quality snapshot (one per day)
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *contracts.DataQualitySnapshot) error {
	coverageJSON, err := json.Marshal(snapshot.Coverage)
	if err != nil {
		return fmt.Errorf("marshal coverage: %w", err)
	}

	query := `
		INSERT INTO data.quality_snapshots (
			snapshot_date, total_companies, coverage, quality_score
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (snapshot_date) DO UPDATE SET
			total_companies = EXCLUDED.total_companies,
			coverage = EXCLUDED.coverage,
			quality_score = EXCLUDED.quality_score,
			updated_at = NOW()
	`

	_, err = r.db.Exec(ctx, query,
		snapshot.Date,
		snapshot.TotalCompanies,
		coverageJSON,
		snapshot.QualityScore,
	)
	if err != nil {
		return fmt.Errorf("save quality snapshot: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent quality snapshot
func (r *Repository) GetLatest(ctx context.Context) (*contracts.DataQualitySnapshot, error) {
	query := `
		SELECT snapshot_date, total_companies, coverage, quality_score
		FROM data.quality_snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	snapshot := &contracts.DataQualitySnapshot{}
	var coverageJSON []byte

	err := r.db.QueryRow(ctx, query).Scan(
		&snapshot.Date,
		&snapshot.TotalCompanies,
		&coverageJSON,
		&snapshot.QualityScore,
	)
	if err != nil {
		return nil, fmt.Errorf("get latest quality snapshot: %w", err)
	}

	if err := json.Unmarshal(coverageJSON, &snapshot.Coverage); err != nil {
		return nil, fmt.Errorf("unmarshal coverage: %w", err)
	}

	return snapshot, nil
}
