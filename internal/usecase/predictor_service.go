package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/scudettolab/seriea-predictor/internal/domain/match"
	"github.com/scudettolab/seriea-predictor/internal/domain/predict"
	"github.com/scudettolab/seriea-predictor/internal/platform/logging"
)

// Rounded goal estimates are clamped to this range before the result
// label is derived.
const (
	minRoundedGoals = 0
	maxRoundedGoals = 15
)

// PredictInput describes one hypothetical fixture from the requesting
// team's perspective.
type PredictInput struct {
	Team         string
	Opponent     string
	Venue        string
	Formation    string
	OppFormation string
}

// PredictorService assembles feature records from the derived history
// and runs them through the fitted artifacts. It holds no mutable
// state, so one instance serves concurrent callers.
type PredictorService struct {
	history      match.History
	encoder      predict.Encoder
	goalsFor     predict.Regressor
	goalsAgainst predict.Regressor
	logger       *logging.Logger
}

func NewPredictorService(
	history match.History,
	encoder predict.Encoder,
	goalsFor predict.Regressor,
	goalsAgainst predict.Regressor,
	logger *logging.Logger,
) *PredictorService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictorService{
		history:      history,
		encoder:      encoder,
		goalsFor:     goalsFor,
		goalsAgainst: goalsAgainst,
		logger:       logger,
	}
}

func (s *PredictorService) Predict(ctx context.Context, input PredictInput) (predict.Prediction, error) {
	if s.encoder == nil || s.goalsFor == nil || s.goalsAgainst == nil {
		return predict.Prediction{}, ErrModelNotReady
	}

	input, err := normalizePredictInput(input)
	if err != nil {
		return predict.Prediction{}, err
	}

	record, err := s.assembleFeatures(ctx, input)
	if err != nil {
		return predict.Prediction{}, fmt.Errorf("assemble features: %w", err)
	}

	features, err := s.encoder.Transform(record)
	if err != nil {
		return predict.Prediction{}, fmt.Errorf("encode features: %w", err)
	}

	rawGF, err := s.goalsFor.Predict(features)
	if err != nil {
		return predict.Prediction{}, fmt.Errorf("predict goals for: %w", err)
	}
	rawGA, err := s.goalsAgainst.Predict(features)
	if err != nil {
		return predict.Prediction{}, fmt.Errorf("predict goals against: %w", err)
	}

	roundGF := roundClampGoals(rawGF)
	roundGA := roundClampGoals(rawGA)

	return predict.Prediction{
		Team:              input.Team,
		Opponent:          input.Opponent,
		Venue:             input.Venue,
		Formation:         input.Formation,
		OppFormation:      input.OppFormation,
		GoalsFor:          rawGF,
		GoalsAgainst:      rawGA,
		GoalsForRound:     roundGF,
		GoalsAgainstRound: roundGA,
		// The label compares the rounded integers, not the raw
		// floats, so it always agrees with the displayed scoreline.
		Result: match.Outcome(roundGF, roundGA),
	}, nil
}

func (s *PredictorService) ListTeams(ctx context.Context) ([]string, error) {
	teams, err := s.history.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (s *PredictorService) ListFormations(ctx context.Context) ([]string, error) {
	formations, err := s.history.Formations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}
	return formations, nil
}

// assembleFeatures composes the resolved form values with the
// caller-supplied match context, in the fixed schema order. Unknown
// teams and opponents never fail: they degrade to default forms.
func (s *PredictorService) assembleFeatures(ctx context.Context, input PredictInput) (predict.FeatureRecord, error) {
	teamForm, err := s.teamForm(ctx, input.Team)
	if err != nil {
		return predict.FeatureRecord{}, err
	}
	matchupForm, err := s.matchupForm(ctx, input.Team, input.Opponent)
	if err != nil {
		return predict.FeatureRecord{}, err
	}

	return predict.FeatureRecord{
		Venue:        input.Venue,
		Team:         input.Team,
		Opponent:     input.Opponent,
		Formation:    input.Formation,
		OppFormation: input.OppFormation,
		Form:         teamForm,
		Matchup:      matchupForm,
	}, nil
}

// teamForm returns the team's latest form snapshot, or the dataset
// defaults when the team has no history at all.
func (s *PredictorService) teamForm(ctx context.Context, team string) (match.FormSnapshot, error) {
	row, found, err := s.history.LatestByTeam(ctx, team)
	if err != nil {
		return match.FormSnapshot{}, fmt.Errorf("latest row for %s: %w", team, err)
	}
	if found {
		return row.Form, nil
	}

	defaults, err := s.history.Defaults(ctx)
	if err != nil {
		return match.FormSnapshot{}, fmt.Errorf("default forms: %w", err)
	}
	s.logger.DebugContext(ctx, "team has no history, using default forms", "team", team)
	return defaults.Team, nil
}

// matchupForm returns the latest matchup snapshot for the pairing.
// With no shared history it assumes the opponent plays like the
// team's generic recent form, rather than falling to the global
// defaults.
func (s *PredictorService) matchupForm(ctx context.Context, team, opponent string) (match.MatchupSnapshot, error) {
	row, found, err := s.history.LatestByMatchup(ctx, team, opponent)
	if err != nil {
		return match.MatchupSnapshot{}, fmt.Errorf("latest matchup row for %s vs %s: %w", team, opponent, err)
	}
	if found {
		return row.Matchup, nil
	}

	teamForm, err := s.teamForm(ctx, team)
	if err != nil {
		return match.MatchupSnapshot{}, err
	}
	return match.MatchupSnapshot{
		GoalsFor:     teamForm.GoalsFor,
		GoalsAgainst: teamForm.GoalsAgainst,
		XG:           teamForm.XG,
		XGA:          teamForm.XGA,
	}, nil
}

func normalizePredictInput(input PredictInput) (PredictInput, error) {
	input.Team = strings.TrimSpace(input.Team)
	input.Opponent = strings.TrimSpace(input.Opponent)
	input.Venue = strings.TrimSpace(input.Venue)
	input.Formation = strings.TrimSpace(input.Formation)
	input.OppFormation = strings.TrimSpace(input.OppFormation)

	if input.Team == "" || input.Opponent == "" {
		return PredictInput{}, fmt.Errorf("%w: team and opponent are required", ErrInvalidInput)
	}
	if input.Team == input.Opponent {
		return PredictInput{}, fmt.Errorf("%w: a team cannot play against itself", ErrInvalidInput)
	}
	if input.Venue != match.VenueHome && input.Venue != match.VenueAway {
		return PredictInput{}, fmt.Errorf("%w: venue must be %s or %s", ErrInvalidInput, match.VenueHome, match.VenueAway)
	}

	return input, nil
}

// roundClampGoals rounds half to even, then clamps to the presentable
// goal range.
func roundClampGoals(raw float64) int {
	rounded := int(math.RoundToEven(raw))
	if rounded < minRoundedGoals {
		return minRoundedGoals
	}
	if rounded > maxRoundedGoals {
		return maxRoundedGoals
	}
	return rounded
}
