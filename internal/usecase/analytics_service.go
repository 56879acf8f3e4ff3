package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scudettolab/seriea-predictor/internal/domain/match"
)

const defaultResultLimit = 5

// TeamSummary aggregates one team's rows. Rates are percentages.
type TeamSummary struct {
	Team              string
	Matches           int
	AvgGoalsFor       float64
	AvgGoalsAgainst   float64
	AvgXG             float64
	TotalGoalsFor     int
	TotalGoalsAgainst int
	WinRate           float64
	DrawRate          float64
	GoalDiff          int
}

// HeadToHeadEntry is one shared-history row. Result is computed from
// the row's own team field, which is not necessarily the queried
// team: callers that need "did the queried team win" compare Team
// against their query.
type HeadToHeadEntry struct {
	Date         time.Time
	Team         string
	Opponent     string
	GoalsFor     int
	GoalsAgainst int
	Result       string
}

// AnalyticsService serves the read-only reporting views over the
// derived history. None of its output feeds inference.
type AnalyticsService struct {
	history match.History
}

func NewAnalyticsService(history match.History) *AnalyticsService {
	return &AnalyticsService{history: history}
}

// TeamSummary aggregates every team's rows, sorted by team name. The
// grouping key is the raw team identifier, case included.
func (s *AnalyticsService) TeamSummary(ctx context.Context) ([]TeamSummary, error) {
	rows, err := s.history.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rows: %w", err)
	}

	byTeam := make(map[string]*TeamSummary)
	xgByTeam := make(map[string]float64)
	winsByTeam := make(map[string]int)
	drawsByTeam := make(map[string]int)
	for _, row := range rows {
		summary, ok := byTeam[row.Team]
		if !ok {
			summary = &TeamSummary{Team: row.Team}
			byTeam[row.Team] = summary
		}
		summary.Matches++
		summary.TotalGoalsFor += row.GoalsFor
		summary.TotalGoalsAgainst += row.GoalsAgainst
		xgByTeam[row.Team] += row.XG
		switch match.Outcome(row.GoalsFor, row.GoalsAgainst) {
		case match.ResultWin:
			winsByTeam[row.Team]++
		case match.ResultDraw:
			drawsByTeam[row.Team]++
		}
	}

	out := make([]TeamSummary, 0, len(byTeam))
	for team, summary := range byTeam {
		matches := float64(summary.Matches)
		summary.AvgGoalsFor = float64(summary.TotalGoalsFor) / matches
		summary.AvgGoalsAgainst = float64(summary.TotalGoalsAgainst) / matches
		summary.AvgXG = xgByTeam[team] / matches
		summary.WinRate = float64(winsByTeam[team]) / matches * 100
		summary.DrawRate = float64(drawsByTeam[team]) / matches * 100
		summary.GoalDiff = summary.TotalGoalsFor - summary.TotalGoalsAgainst
		out = append(out, *summary)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Team < out[b].Team })

	return out, nil
}

// RecentResults returns the team's latest outcomes, newest first. An
// unknown team yields an empty sequence, not an error.
func (s *AnalyticsService) RecentResults(ctx context.Context, team string, limit int) ([]string, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}
	limit = normalizeLimit(limit)

	rows, err := s.history.ListByTeamDesc(ctx, team, limit)
	if err != nil {
		return nil, fmt.Errorf("list rows for %s: %w", team, err)
	}

	results := make([]string, 0, len(rows))
	for _, row := range rows {
		results = append(results, match.Outcome(row.GoalsFor, row.GoalsAgainst))
	}
	return results, nil
}

// HeadToHead returns the shared history of the two teams in either
// orientation, newest first. No shared history yields an empty
// sequence.
func (s *AnalyticsService) HeadToHead(ctx context.Context, team, opponent string, limit int) ([]HeadToHeadEntry, error) {
	team = strings.TrimSpace(team)
	opponent = strings.TrimSpace(opponent)
	if team == "" || opponent == "" {
		return nil, fmt.Errorf("%w: team and opponent are required", ErrInvalidInput)
	}
	limit = normalizeLimit(limit)

	rows, err := s.history.ListHeadToHeadDesc(ctx, team, opponent, limit)
	if err != nil {
		return nil, fmt.Errorf("list head-to-head for %s vs %s: %w", team, opponent, err)
	}

	entries := make([]HeadToHeadEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HeadToHeadEntry{
			Date:         row.Date,
			Team:         row.Team,
			Opponent:     row.Opponent,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			Result:       match.Outcome(row.GoalsFor, row.GoalsAgainst),
		})
	}
	return entries, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultResultLimit
	}
	return limit
}
