package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/challenge-league/internal/domain/challenge"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
	"github.com/riskibarqy/challenge-league/internal/platform/metrics"
)

const (
	importStatusSuccess = "success"
	importStatusFailed  = "failed"
	importStatusSkipped = "skipped"

	defaultImportWorkers = 4
	maxImportWorkers     = 32
)

type ImportInput struct {
	Items      []challenge.Challenge
	MaxWorkers int
	// DryRun validates rows without writing them.
	DryRun bool
}

type ImportResult struct {
	Total        int               `json:"total"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	SkippedCount int               `json:"skipped_count"`
	WorkerCount  int               `json:"worker_count"`
	Rows         []ImportRowResult `json:"rows"`
}

type ImportRowResult struct {
	Row         int    `json:"row"`
	ChallengeID string `json:"challenge_id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	DurationMs  int64  `json:"duration_ms"`
	Message     string `json:"message,omitempty"`
}

type ChallengeImportService struct {
	challengeRepo challenge.Repository
	logger        *logging.Logger
}

func NewChallengeImportService(challengeRepo challenge.Repository, logger *logging.Logger) *ChallengeImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChallengeImportService{
		challengeRepo: challengeRepo,
		logger:        logger,
	}
}

// Import upserts challenges concurrently. Row failures are reported in the
// result; only pool setup errors abort the run.
func (s *ChallengeImportService) Import(ctx context.Context, input ImportInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeImportService.Import")
	defer span.End()

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultImportWorkers
	}
	if workerCount > maxImportWorkers {
		workerCount = maxImportWorkers
	}

	result := ImportResult{
		Total:       len(input.Items),
		WorkerCount: workerCount,
		Rows:        make([]ImportRowResult, 0, len(input.Items)),
	}
	if len(input.Items) == 0 {
		return result, nil
	}

	results := make(chan ImportRowResult, len(input.Items))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for i, item := range input.Items {
		row := i + 1
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			out := ImportRowResult{Row: row, ChallengeID: item.ID, Name: item.Name}
			out.Status, out.Message = s.importOne(ctx, item, input.DryRun)
			out.DurationMs = time.Since(start).Milliseconds()

			switch out.Status {
			case importStatusSuccess:
				successCount.Add(1)
			case importStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}
			results <- out
		}); err != nil {
			workers.Done()
			return ImportResult{}, fmt.Errorf("submit import task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for out := range results {
		result.Rows = append(result.Rows, out)
	}
	sort.SliceStable(result.Rows, func(i, j int) bool {
		return result.Rows[i].Row < result.Rows[j].Row
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	metrics.RecordImport(importStatusSuccess, result.SuccessCount)
	metrics.RecordImport(importStatusFailed, result.FailedCount)
	metrics.RecordImport(importStatusSkipped, result.SkippedCount)
	s.logger.InfoContext(ctx, "challenge import finished",
		"total", result.Total,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
		"dry_run", input.DryRun,
	)
	return result, nil
}

func (s *ChallengeImportService) importOne(ctx context.Context, item challenge.Challenge, dryRun bool) (string, string) {
	if item.MaxCount == 0 {
		item.MaxCount = challenge.DefaultMaxCount
	}
	if err := item.Validate(); err != nil {
		return importStatusFailed, err.Error()
	}
	if dryRun {
		return importStatusSkipped, "dry run"
	}
	if err := s.challengeRepo.Upsert(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "challenge import row failed",
			"challenge_id", item.ID,
			"error", err,
		)
		return importStatusFailed, err.Error()
	}
	return importStatusSuccess, ""
}
