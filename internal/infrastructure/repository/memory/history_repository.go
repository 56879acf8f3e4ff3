package memory

import (
	"context"
	"sort"

	"github.com/scudettolab/seriea-predictor/internal/domain/match"
)

type matchupKey struct {
	team     string
	opponent string
}

// HistoryRepository is the immutable in-memory snapshot of the
// derived match table. It is built once at startup; every method is a
// pure read, so concurrent use needs no locking.
type HistoryRepository struct {
	rows       []match.Row
	byTeam     map[string][]int
	byMatchup  map[matchupKey][]int
	teams      []string
	formations []string
	defaults   match.DefaultForms
}

func NewHistoryRepository(rows []match.Row, defaults match.DefaultForms) *HistoryRepository {
	repo := &HistoryRepository{
		rows:      append([]match.Row(nil), rows...),
		byTeam:    make(map[string][]int),
		byMatchup: make(map[matchupKey][]int),
		defaults:  defaults,
	}

	teamSet := make(map[string]struct{})
	formationSet := make(map[string]struct{})
	for i, row := range repo.rows {
		repo.byTeam[row.Team] = append(repo.byTeam[row.Team], i)
		key := matchupKey{team: row.Team, opponent: row.Opponent}
		repo.byMatchup[key] = append(repo.byMatchup[key], i)

		teamSet[row.Team] = struct{}{}
		if row.Formation != "" {
			formationSet[row.Formation] = struct{}{}
		}
		if row.OppFormation != "" {
			formationSet[row.OppFormation] = struct{}{}
		}
	}

	for _, idx := range repo.byTeam {
		repo.sortByDateAsc(idx)
	}
	for _, idx := range repo.byMatchup {
		repo.sortByDateAsc(idx)
	}

	repo.teams = sortedKeys(teamSet)
	repo.formations = sortedKeys(formationSet)

	return repo
}

func (r *HistoryRepository) Rows(_ context.Context) ([]match.Row, error) {
	out := make([]match.Row, 0, len(r.rows))
	out = append(out, r.rows...)
	return out, nil
}

func (r *HistoryRepository) LatestByTeam(_ context.Context, team string) (match.Row, bool, error) {
	idx := r.byTeam[team]
	if len(idx) == 0 {
		return match.Row{}, false, nil
	}
	return r.rows[idx[len(idx)-1]], true, nil
}

func (r *HistoryRepository) LatestByMatchup(_ context.Context, team, opponent string) (match.Row, bool, error) {
	idx := r.byMatchup[matchupKey{team: team, opponent: opponent}]
	if len(idx) == 0 {
		return match.Row{}, false, nil
	}
	return r.rows[idx[len(idx)-1]], true, nil
}

func (r *HistoryRepository) ListByTeamDesc(_ context.Context, team string, limit int) ([]match.Row, error) {
	return r.collectDesc(r.byTeam[team], limit), nil
}

func (r *HistoryRepository) ListHeadToHeadDesc(_ context.Context, team, opponent string, limit int) ([]match.Row, error) {
	forward := r.byMatchup[matchupKey{team: team, opponent: opponent}]
	reverse := r.byMatchup[matchupKey{team: opponent, opponent: team}]

	merged := make([]int, 0, len(forward)+len(reverse))
	merged = append(merged, forward...)
	merged = append(merged, reverse...)
	r.sortByDateAsc(merged)

	return r.collectDesc(merged, limit), nil
}

func (r *HistoryRepository) Teams(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(r.teams))
	out = append(out, r.teams...)
	return out, nil
}

func (r *HistoryRepository) Formations(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(r.formations))
	out = append(out, r.formations...)
	return out, nil
}

func (r *HistoryRepository) Defaults(_ context.Context) (match.DefaultForms, error) {
	return r.defaults, nil
}

// collectDesc walks date-ascending indices backwards, newest first.
func (r *HistoryRepository) collectDesc(idx []int, limit int) []match.Row {
	count := len(idx)
	if limit > 0 && limit < count {
		count = limit
	}
	out := make([]match.Row, 0, count)
	for i := len(idx) - 1; i >= 0 && len(out) < count; i-- {
		out = append(out, r.rows[idx[i]])
	}
	return out
}

func (r *HistoryRepository) sortByDateAsc(idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		return r.rows[idx[a]].Date.Before(r.rows[idx[b]].Date)
	})
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
