package match

import "time"

// Venue values as they appear in the historical data.
const (
	VenueHome = "Home"
	VenueAway = "Away"
)

// Result labels, always from a single team's perspective.
const (
	ResultWin  = "W"
	ResultDraw = "D"
	ResultLoss = "L"
)

// Record is one row of the historical match log. The same real match
// appears twice in a full dataset, once per side.
type Record struct {
	Date         time.Time
	Team         string
	Opponent     string
	Venue        string
	Formation    string
	OppFormation string
	GoalsFor     int
	GoalsAgainst int
	XG           float64
	XGA          float64
}

// FormSnapshot holds a team's exponentially-weighted recent profile
// over goals scored, goals conceded, xG and xGA. Values for a given
// row are computed from strictly earlier matches only.
type FormSnapshot struct {
	GoalsFor     float64
	GoalsAgainst float64
	XG           float64
	XGA          float64
}

// MatchupSnapshot is the same four metrics scoped to one
// (team, opponent) pairing.
type MatchupSnapshot struct {
	GoalsFor     float64
	GoalsAgainst float64
	XG           float64
	XGA          float64
}

// DefaultForms carries the dataset-wide mean of every derived form
// column, used when a team or matchup has no prior history at all.
type DefaultForms struct {
	Team    FormSnapshot
	Matchup MatchupSnapshot
}

// Row is a Record enriched with its derived form columns.
type Row struct {
	Record
	Form    FormSnapshot
	Matchup MatchupSnapshot
}

// Outcome classifies a scoreline from the scoring side's perspective.
func Outcome(goalsFor, goalsAgainst int) string {
	switch {
	case goalsFor > goalsAgainst:
		return ResultWin
	case goalsFor < goalsAgainst:
		return ResultLoss
	default:
		return ResultDraw
	}
}
