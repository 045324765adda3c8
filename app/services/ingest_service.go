package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/land-resolver/app/models"
	"github.com/land-resolver/internal/community"
	"github.com/land-resolver/internal/ingest"
)

// JobStatus tracks one background ingestion job.
type JobStatus struct {
	JobID     string
	Status    string
	Counters  ingest.Counters
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IngestService runs ingestion jobs in the background. Jobs are
// serialized: the enricher owns the dedup key index, two concurrent
// batches would race it.
type IngestService struct {
	enricher *ingest.Enricher
	matcher  *community.Matcher
	logger   *zap.Logger

	mu   sync.Mutex
	jobs map[string]*JobStatus

	runMu sync.Mutex
}

func NewIngestService(enricher *ingest.Enricher, matcher *community.Matcher, logger *zap.Logger) *IngestService {
	return &IngestService{
		enricher: enricher,
		matcher:  matcher,
		logger:   logger,
		jobs:     make(map[string]*JobStatus),
	}
}

// StartJob registers a pending job; the caller launches ProcessJob in a
// goroutine.
func (is *IngestService) StartJob(jobID string) {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.jobs[jobID] = &JobStatus{
		JobID:     jobID,
		Status:    "pending",
		Message:   "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// ProcessJob reads the file, runs the batch through the enricher and
// refreshes the community snapshot. Meant to run in a goroutine after
// StartJob.
func (is *IngestService) ProcessJob(jobID, path, source, mode, cityCode string) {
	is.runMu.Lock()
	defer is.runMu.Unlock()

	is.setStatus(jobID, "running", "ingesting", nil)

	records, err := is.readFile(path, source, cityCode)
	if err != nil {
		is.logger.Error("ingest job read failed", zap.String("job_id", jobID), zap.Error(err))
		is.setStatus(jobID, "failed", err.Error(), nil)
		return
	}

	ingestMode := ingest.ModeIncremental
	if mode == string(ingest.ModeRebuild) {
		ingestMode = ingest.ModeRebuild
	}

	ctx := context.Background()
	if ingestMode == ingest.ModeIncremental {
		if err := is.enricher.LoadIndex(ctx); err != nil {
			is.setStatus(jobID, "failed", err.Error(), nil)
			return
		}
	}

	counters, err := is.enricher.IngestBatch(ctx, records, ingestMode)
	if err != nil {
		is.logger.Error("ingest job failed", zap.String("job_id", jobID), zap.Error(err))
		is.setStatus(jobID, "failed", err.Error(), &counters)
		return
	}

	if err := is.matcher.Refresh(ctx); err != nil {
		is.logger.Warn("community snapshot refresh failed", zap.Error(err))
	}

	is.setStatus(jobID, "done", "completed", &counters)
	is.logger.Info("ingest job done",
		zap.String("job_id", jobID),
		zap.Int("inserted", counters.Inserted),
		zap.Int("enriched", counters.Enriched),
		zap.Int("discarded", counters.Discarded))
}

// GetJobStatus looks up one job.
func (is *IngestService) GetJobStatus(jobID string) (*JobStatus, error) {
	is.mu.Lock()
	defer is.mu.Unlock()
	job, ok := is.jobs[jobID]
	if !ok {
		return nil, errors.New("job not found")
	}
	copied := *job
	return &copied, nil
}

func (is *IngestService) readFile(path, source, cityCode string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ingest file: %w", err)
	}
	defer f.Close()

	switch source {
	case "csv":
		return ingest.ReadCSV(f, cityCode)
	case "api":
		return ingest.ReadAPI(f)
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func (is *IngestService) setStatus(jobID, status, message string, counters *ingest.Counters) {
	is.mu.Lock()
	defer is.mu.Unlock()
	job, ok := is.jobs[jobID]
	if !ok {
		return
	}
	job.Status = status
	job.Message = message
	if counters != nil {
		job.Counters = *counters
	}
	job.UpdatedAt = time.Now()
}
