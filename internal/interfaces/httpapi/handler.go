package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/scudettolab/seriea-predictor/internal/domain/predict"
	"github.com/scudettolab/seriea-predictor/internal/platform/logging"
	"github.com/scudettolab/seriea-predictor/internal/usecase"
)

type Handler struct {
	predictorService  *usecase.PredictorService
	analyticsService  *usecase.AnalyticsService
	simulationService *usecase.SimulationService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	predictorService *usecase.PredictorService,
	analyticsService *usecase.AnalyticsService,
	simulationService *usecase.SimulationService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		predictorService:  predictorService,
		analyticsService:  analyticsService,
		simulationService: simulationService,
		logger:            logger,
		validator:         validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type matchRequest struct {
	Team         string `json:"team" validate:"required"`
	Opponent     string `json:"opponent" validate:"required"`
	Venue        string `json:"venue" validate:"required,oneof=Home Away"`
	Formation    string `json:"formation" validate:"required"`
	OppFormation string `json:"oppFormation" validate:"required"`
}

func (r matchRequest) toInput() usecase.PredictInput {
	return usecase.PredictInput{
		Team:         r.Team,
		Opponent:     r.Opponent,
		Venue:        r.Venue,
		Formation:    r.Formation,
		OppFormation: r.OppFormation,
	}
}

type simulateRequest struct {
	Fixtures   []matchRequest `json:"fixtures" validate:"required,min=1,max=200,dive"`
	MaxWorkers int            `json:"maxWorkers" validate:"omitempty,min=1,max=64"`
}

type predictionDTO struct {
	Team                  string  `json:"team"`
	Opponent              string  `json:"opponent"`
	Venue                 string  `json:"venue"`
	Formation             string  `json:"formation"`
	OppFormation          string  `json:"opp_formation"`
	PredGoalsFor          float64 `json:"pred_goals_for"`
	PredGoalsAgainst      float64 `json:"pred_goals_against"`
	PredGoalsForRound     int     `json:"pred_goals_for_round"`
	PredGoalsAgainstRound int     `json:"pred_goals_against_round"`
	Result                string  `json:"result"`
}

func predictionToDTO(p predict.Prediction) predictionDTO {
	return predictionDTO{
		Team:                  p.Team,
		Opponent:              p.Opponent,
		Venue:                 p.Venue,
		Formation:             p.Formation,
		OppFormation:          p.OppFormation,
		PredGoalsFor:          p.GoalsFor,
		PredGoalsAgainst:      p.GoalsAgainst,
		PredGoalsForRound:     p.GoalsForRound,
		PredGoalsAgainstRound: p.GoalsAgainstRound,
		Result:                p.Result,
	}
}

type fixtureResultDTO struct {
	Index      int            `json:"index"`
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Prediction *predictionDTO `json:"prediction,omitempty"`
}

type simulationDTO struct {
	RunID        string             `json:"run_id"`
	FixtureCount int                `json:"fixture_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
	DurationMs   int64              `json:"duration_ms"`
	Fixtures     []fixtureResultDTO `json:"fixtures"`
}

func simulationToDTO(result usecase.SimulationResult) simulationDTO {
	fixtures := make([]fixtureResultDTO, 0, len(result.Fixtures))
	for _, fixture := range result.Fixtures {
		row := fixtureResultDTO{
			Index:   fixture.Index,
			Status:  fixture.Status,
			Message: fixture.Message,
		}
		if fixture.Prediction != nil {
			dto := predictionToDTO(*fixture.Prediction)
			row.Prediction = &dto
		}
		fixtures = append(fixtures, row)
	}

	return simulationDTO{
		RunID:        result.RunID,
		FixtureCount: result.FixtureCount,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		WorkerCount:  result.WorkerCount,
		DurationMs:   result.DurationMs,
		Fixtures:     fixtures,
	}
}

type teamSummaryDTO struct {
	Team     string  `json:"team"`
	Matches  int     `json:"matches"`
	AvgGF    float64 `json:"avg_gf"`
	AvgGA    float64 `json:"avg_ga"`
	AvgXG    float64 `json:"avg_xg"`
	TotalGF  int     `json:"total_gf"`
	TotalGA  int     `json:"total_ga"`
	WinRate  float64 `json:"win_rate"`
	DrawRate float64 `json:"draw_rate"`
	GoalDiff int     `json:"goal_diff"`
}

func teamSummaryToDTO(s usecase.TeamSummary) teamSummaryDTO {
	return teamSummaryDTO{
		Team:     s.Team,
		Matches:  s.Matches,
		AvgGF:    s.AvgGoalsFor,
		AvgGA:    s.AvgGoalsAgainst,
		AvgXG:    s.AvgXG,
		TotalGF:  s.TotalGoalsFor,
		TotalGA:  s.TotalGoalsAgainst,
		WinRate:  s.WinRate,
		DrawRate: s.DrawRate,
		GoalDiff: s.GoalDiff,
	}
}

type headToHeadDTO struct {
	Date     string `json:"date"`
	Team     string `json:"team"`
	Opponent string `json:"opponent"`
	GF       int    `json:"gf"`
	GA       int    `json:"ga"`
	Result   string `json:"result"`
}

func headToHeadToDTO(e usecase.HeadToHeadEntry) headToHeadDTO {
	return headToHeadDTO{
		Date:     e.Date.Format(time.DateOnly),
		Team:     e.Team,
		Opponent: e.Opponent,
		GF:       e.GoalsFor,
		GA:       e.GoalsAgainst,
		Result:   e.Result,
	}
}
