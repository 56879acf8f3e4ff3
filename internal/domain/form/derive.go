// Package form derives the time-decayed form columns served by the
// predictor from the raw historical match log.
package form

import (
	"math"
	"sort"

	"github.com/scudettolab/seriea-predictor/internal/domain/match"
	"github.com/sourcegraph/conc"
)

const (
	// TeamSpan is the smoothing span of the team-level moving average.
	TeamSpan = 5
	// MatchupAlpha is the decay factor of the matchup-level moving
	// average.
	MatchupAlpha = 0.6
)

// alphaFromSpan converts a span-based smoothing window into its decay
// factor: alpha = 2/(span+1).
func alphaFromSpan(span float64) float64 {
	return 2 / (span + 1)
}

type metric struct {
	name    string
	valueOf func(match.Record) float64
}

var metrics = []metric{
	{name: "gf", valueOf: func(r match.Record) float64 { return float64(r.GoalsFor) }},
	{name: "ga", valueOf: func(r match.Record) float64 { return float64(r.GoalsAgainst) }},
	{name: "xg", valueOf: func(r match.Record) float64 { return r.XG }},
	{name: "xga", valueOf: func(r match.Record) float64 { return r.XGA }},
}

// Derive computes the eight form columns for every record and the
// dataset-wide default forms.
//
// For each of gf/ga/xg/xga it computes a per-team exponentially
// weighted moving average with span 5 and a per-(team, opponent) one
// with alpha 0.6. Both are shifted by one: the value stored on a row
// uses strictly earlier matches of the same group, so a match never
// leaks its own outcome into its own features. Rows with no prior
// group history are then filled in three tiers: the team's mean over
// the column's defined values, then the column mean after the team
// fill, then 0.
//
// Returned rows keep the input order.
func Derive(records []match.Record) ([]match.Row, match.DefaultForms) {
	n := len(records)
	if n == 0 {
		return nil, match.DefaultForms{}
	}

	byTeam := groupIndices(records, func(r match.Record) string { return r.Team })
	byMatchup := groupIndices(records, func(r match.Record) string { return r.Team + "\x00" + r.Opponent })

	teamAlpha := alphaFromSpan(TeamSpan)
	teamCols := make([][]float64, len(metrics))
	matchupCols := make([][]float64, len(metrics))

	// The eight derived columns are independent of each other, so each
	// one is computed on its own goroutine.
	var wg conc.WaitGroup
	for i, m := range metrics {
		i, m := i, m
		wg.Go(func() {
			teamCols[i] = deriveColumn(records, byTeam, m.valueOf, teamAlpha)
		})
		wg.Go(func() {
			matchupCols[i] = deriveColumn(records, byMatchup, m.valueOf, MatchupAlpha)
		})
	}
	wg.Wait()

	for _, col := range teamCols {
		fillMissing(col, byTeam)
	}
	for _, col := range matchupCols {
		fillMissing(col, byTeam)
	}

	rows := make([]match.Row, n)
	for i, rec := range records {
		rows[i] = match.Row{
			Record: rec,
			Form: match.FormSnapshot{
				GoalsFor:     teamCols[0][i],
				GoalsAgainst: teamCols[1][i],
				XG:           teamCols[2][i],
				XGA:          teamCols[3][i],
			},
			Matchup: match.MatchupSnapshot{
				GoalsFor:     matchupCols[0][i],
				GoalsAgainst: matchupCols[1][i],
				XG:           matchupCols[2][i],
				XGA:          matchupCols[3][i],
			},
		}
	}

	defaults := match.DefaultForms{
		Team: match.FormSnapshot{
			GoalsFor:     meanOf(teamCols[0]),
			GoalsAgainst: meanOf(teamCols[1]),
			XG:           meanOf(teamCols[2]),
			XGA:          meanOf(teamCols[3]),
		},
		Matchup: match.MatchupSnapshot{
			GoalsFor:     meanOf(matchupCols[0]),
			GoalsAgainst: meanOf(matchupCols[1]),
			XG:           meanOf(matchupCols[2]),
			XGA:          meanOf(matchupCols[3]),
		},
	}

	return rows, defaults
}

// groupIndices buckets record indices by key, each bucket sorted by
// date ascending.
func groupIndices(records []match.Record, keyOf func(match.Record) string) map[string][]int {
	groups := make(map[string][]int)
	for i, rec := range records {
		key := keyOf(rec)
		groups[key] = append(groups[key], i)
	}
	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			return records[idx[a]].Date.Before(records[idx[b]].Date)
		})
	}
	return groups
}

// deriveColumn computes the shifted EWM for one metric across every
// group. Positions with no prior group history hold NaN until the
// fill pass.
func deriveColumn(records []match.Record, groups map[string][]int, valueOf func(match.Record) float64, alpha float64) []float64 {
	col := make([]float64, len(records))
	for i := range col {
		col[i] = math.NaN()
	}
	for _, idx := range groups {
		ewm := math.NaN()
		for j, pos := range idx {
			if j == 0 {
				continue
			}
			prev := valueOf(records[idx[j-1]])
			if j == 1 {
				ewm = prev
			} else {
				ewm = alpha*prev + (1-alpha)*ewm
			}
			col[pos] = ewm
		}
	}
	return col
}

// fillMissing applies the three-tier fallback in place: team mean,
// then column mean computed after the team fill, then zero.
func fillMissing(col []float64, byTeam map[string][]int) {
	for _, idx := range byTeam {
		teamMean, ok := meanAt(col, idx)
		if !ok {
			continue
		}
		for _, pos := range idx {
			if math.IsNaN(col[pos]) {
				col[pos] = teamMean
			}
		}
	}

	colMean := meanOf(col)
	for i := range col {
		if math.IsNaN(col[i]) {
			col[i] = colMean
		}
	}
}

// meanAt averages the defined values of col at the given positions.
func meanAt(col []float64, idx []int) (float64, bool) {
	sum, count := 0.0, 0
	for _, pos := range idx {
		if math.IsNaN(col[pos]) {
			continue
		}
		sum += col[pos]
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// meanOf averages the defined values of the whole column, or 0 when
// none are defined.
func meanOf(col []float64) float64 {
	sum, count := 0.0, 0
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
