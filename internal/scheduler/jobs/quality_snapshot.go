package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/equityrank/internal/contracts"
	"github.com/wonny/equityrank/internal/s0_data/quality"
	"github.com/wonny/equityrank/pkg/logger"
)

// SnapshotSaver persists quality snapshots
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snapshot *contracts.DataQualitySnapshot) error
}

// QualitySnapshotJob records daily metric coverage of the stored universe
type QualitySnapshotJob struct {
	repo   contracts.MetricsRepository
	gate   *quality.QualityGate
	saver  SnapshotSaver
	logger *logger.Logger
}

// NewQualitySnapshotJob creates a new quality snapshot job
func NewQualitySnapshotJob(repo contracts.MetricsRepository, gate *quality.QualityGate, saver SnapshotSaver, log *logger.Logger) *QualitySnapshotJob {
	return &QualitySnapshotJob{
		repo:   repo,
		gate:   gate,
		saver:  saver,
		logger: log,
	}
}

// Name returns the job name
func (j *QualitySnapshotJob) Name() string {
	return "quality_snapshot"
}

// Schedule returns the cron schedule (daily at 06:30)
func (j *QualitySnapshotJob) Schedule() string {
	return "0 30 6 * * *"
}

// Run measures coverage and stores the snapshot. A failing gate is logged, not returned.
func (j *QualitySnapshotJob) Run(ctx context.Context) error {
	companies, err := j.repo.ListMetricSets(ctx, "")
	if err != nil {
		return fmt.Errorf("load companies: %w", err)
	}

	report := j.gate.Check(companies, nil)
	if err := j.saver.SaveSnapshot(ctx, report.Snapshot); err != nil {
		return err
	}

	log := j.logger.WithFields(map[string]interface{}{
		"companies":     report.Snapshot.TotalCompanies,
		"quality_score": report.Snapshot.QualityScore,
		"low_coverage":  report.LowCoverage,
	})
	if !report.Passed {
		log.Warn("Data quality below threshold")
		return nil
	}
	log.Info("Quality snapshot saved")

	return nil
}
