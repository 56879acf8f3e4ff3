// Package predict defines the feature schema shared between the
// offline trainer and the serving path, plus the black-box contracts
// the fitted artifacts must satisfy.
package predict

import "github.com/scudettolab/seriea-predictor/internal/domain/match"

// CategoricalColumns is the encoder's categorical input, in contract
// order. Order and presence are part of the fitted-artifact contract
// and must match the training job exactly.
var CategoricalColumns = []string{"venue", "team", "opponent", "formation", "opp_formation"}

// NumericColumns is the numeric tail of the feature vector, passed
// through the encoder unchanged, in contract order.
var NumericColumns = []string{
	"gm_form", "ga_form", "xg_form", "xga_form",
	"gf_vs_opp", "ga_vs_opp", "xg_vs_opp", "xga_vs_opp",
}

// FeatureRecord is one fully assembled inference input.
type FeatureRecord struct {
	Venue        string
	Team         string
	Opponent     string
	Formation    string
	OppFormation string

	Form    match.FormSnapshot
	Matchup match.MatchupSnapshot
}

// CategoricalValue returns the record's value for a categorical
// column name.
func (r FeatureRecord) CategoricalValue(column string) (string, bool) {
	switch column {
	case "venue":
		return r.Venue, true
	case "team":
		return r.Team, true
	case "opponent":
		return r.Opponent, true
	case "formation":
		return r.Formation, true
	case "opp_formation":
		return r.OppFormation, true
	default:
		return "", false
	}
}

// NumericValues returns the numeric tail in NumericColumns order.
func (r FeatureRecord) NumericValues() []float64 {
	return []float64{
		r.Form.GoalsFor, r.Form.GoalsAgainst, r.Form.XG, r.Form.XGA,
		r.Matchup.GoalsFor, r.Matchup.GoalsAgainst, r.Matchup.XG, r.Matchup.XGA,
	}
}

// Encoder turns a feature record into the numeric vector the fitted
// regressors consume. Unknown categorical values must encode to an
// all-zero indicator block, never an error: novel teams and
// formations degrade, they do not fail.
type Encoder interface {
	Transform(record FeatureRecord) ([]float64, error)
}

// Regressor scores one encoded feature vector.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// Prediction is the scoreline estimate for one hypothetical fixture.
// Rounded goals are clamped to [0,15]; Result compares the rounded
// integers, matching the scoreline a caller would display.
type Prediction struct {
	Team         string
	Opponent     string
	Venue        string
	Formation    string
	OppFormation string

	GoalsFor          float64
	GoalsAgainst      float64
	GoalsForRound     int
	GoalsAgainstRound int
	Result            string
}
