package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/scudettolab/seriea-predictor/internal/domain/predict"
	idgen "github.com/scudettolab/seriea-predictor/internal/platform/id"
	"github.com/scudettolab/seriea-predictor/internal/platform/logging"
)

const (
	maxSimulationFixtures = 200

	fixtureStatusOK     = "ok"
	fixtureStatusFailed = "failed"
)

// SimulateInput is a batch of hypothetical fixtures to estimate in
// one call.
type SimulateInput struct {
	Fixtures   []PredictInput
	MaxWorkers int
}

// FixtureResult is the outcome for one fixture of the batch, in input
// order. Failed fixtures carry a message instead of a prediction.
type FixtureResult struct {
	Index      int
	Prediction *predict.Prediction
	Status     string
	Message    string
}

// SimulationResult summarizes one batch run.
type SimulationResult struct {
	RunID        string
	FixtureCount int
	SuccessCount int
	FailedCount  int
	WorkerCount  int
	DurationMs   int64
	Fixtures     []FixtureResult
}

// SimulationService fans a fixture batch out over a bounded worker
// pool. Prediction is a pure read, so fixtures run fully in parallel.
type SimulationService struct {
	predictor  *PredictorService
	ids        idgen.Generator
	maxWorkers int
	logger     *logging.Logger
}

func NewSimulationService(predictor *PredictorService, ids idgen.Generator, maxWorkers int, logger *logging.Logger) *SimulationService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	return &SimulationService{
		predictor:  predictor,
		ids:        ids,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (s *SimulationService) Simulate(ctx context.Context, input SimulateInput) (SimulationResult, error) {
	if len(input.Fixtures) == 0 {
		return SimulationResult{}, fmt.Errorf("%w: at least one fixture is required", ErrInvalidInput)
	}
	if len(input.Fixtures) > maxSimulationFixtures {
		return SimulationResult{}, fmt.Errorf("%w: at most %d fixtures per run", ErrInvalidInput, maxSimulationFixtures)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return SimulationResult{}, fmt.Errorf("generate run id: %w", err)
	}

	workerCount := s.maxWorkers
	if input.MaxWorkers > 0 && input.MaxWorkers < workerCount {
		workerCount = input.MaxWorkers
	}
	if workerCount > len(input.Fixtures) {
		workerCount = len(input.Fixtures)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SimulationResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	started := time.Now()
	fixtures := make([]FixtureResult, len(input.Fixtures))
	var successCount, failedCount atomic.Int32

	var workers sync.WaitGroup
	for i, fixture := range input.Fixtures {
		i, fixture := i, fixture
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := FixtureResult{Index: i}
			prediction, err := s.predictor.Predict(ctx, fixture)
			if err != nil {
				row.Status = fixtureStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Status = fixtureStatusOK
				row.Prediction = &prediction
				successCount.Add(1)
			}
			fixtures[i] = row
		}); err != nil {
			workers.Done()
			fixtures[i] = FixtureResult{Index: i, Status: fixtureStatusFailed, Message: err.Error()}
			failedCount.Add(1)
		}
	}
	workers.Wait()

	result := SimulationResult{
		RunID:        runID,
		FixtureCount: len(fixtures),
		SuccessCount: int(successCount.Load()),
		FailedCount:  int(failedCount.Load()),
		WorkerCount:  workerCount,
		DurationMs:   time.Since(started).Milliseconds(),
		Fixtures:     fixtures,
	}

	s.logger.InfoContext(ctx, "simulation run finished",
		"run_id", result.RunID,
		"fixtures", result.FixtureCount,
		"succeeded", result.SuccessCount,
		"failed", result.FailedCount,
		"workers", result.WorkerCount,
		"duration_ms", result.DurationMs,
	)

	return result, nil
}
