package usecase

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/scudettolab/seriea-predictor/internal/domain/match"
	"github.com/scudettolab/seriea-predictor/internal/infrastructure/repository/memory"
)

func analyticsRow(date time.Time, team, opponent string, gf, ga int, xg float64) match.Row {
	return match.Row{
		Record: match.Record{
			Date: date, Team: team, Opponent: opponent,
			Venue: match.VenueHome, Formation: "4-3-3", OppFormation: "4-4-2",
			GoalsFor: gf, GoalsAgainst: ga, XG: xg, XGA: 1.0,
		},
	}
}

func analyticsHistory() *memory.HistoryRepository {
	rows := []match.Row{
		analyticsRow(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), "Roma", "Lazio", 2, 0, 1.8),
		analyticsRow(time.Date(2025, 8, 8, 0, 0, 0, 0, time.UTC), "Roma", "Milan", 1, 1, 1.2),
		analyticsRow(time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), "Roma", "Napoli", 0, 3, 0.6),
		analyticsRow(time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC), "Lazio", "Roma", 1, 0, 1.1),
	}
	return memory.NewHistoryRepository(rows, match.DefaultForms{})
}

func TestAnalyticsService_TeamSummary(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	summaries, err := svc.TeamSummary(t.Context())
	if err != nil {
		t.Fatalf("team summary: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(summaries))
	}
	if summaries[0].Team != "Lazio" || summaries[1].Team != "Roma" {
		t.Fatalf("expected sorted teams, got %s then %s", summaries[0].Team, summaries[1].Team)
	}

	roma := summaries[1]
	if roma.Matches != 3 {
		t.Fatalf("unexpected match count: %d", roma.Matches)
	}
	if roma.TotalGoalsFor != 3 || roma.TotalGoalsAgainst != 4 {
		t.Fatalf("unexpected goal totals: %d-%d", roma.TotalGoalsFor, roma.TotalGoalsAgainst)
	}
	if roma.GoalDiff != -1 {
		t.Fatalf("unexpected goal diff: %d", roma.GoalDiff)
	}
	if math.Abs(roma.AvgGoalsFor-1.0) > 1e-9 {
		t.Fatalf("unexpected avg gf: %v", roma.AvgGoalsFor)
	}
	if math.Abs(roma.AvgXG-1.2) > 1e-9 {
		t.Fatalf("unexpected avg xg: %v", roma.AvgXG)
	}
	// One win, one draw, one loss over three matches.
	if math.Abs(roma.WinRate-100.0/3.0) > 1e-9 {
		t.Fatalf("unexpected win rate: %v", roma.WinRate)
	}
	if math.Abs(roma.DrawRate-100.0/3.0) > 1e-9 {
		t.Fatalf("unexpected draw rate: %v", roma.DrawRate)
	}
}

func TestAnalyticsService_RecentResults(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	results, err := svc.RecentResults(t.Context(), "Roma", 2)
	if err != nil {
		t.Fatalf("recent results: %v", err)
	}
	// Newest first: the Napoli loss, then the Milan draw.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0] != match.ResultLoss || results[1] != match.ResultDraw {
		t.Fatalf("unexpected results: %v", results)
	}
}

func TestAnalyticsService_RecentResults_DefaultLimit(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	results, err := svc.RecentResults(t.Context(), "Roma", 0)
	if err != nil {
		t.Fatalf("recent results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected all 3 results under the default limit, got %d", len(results))
	}
}

func TestAnalyticsService_RecentResults_UnknownTeam(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	results, err := svc.RecentResults(t.Context(), "Atalanta", 5)
	if err != nil {
		t.Fatalf("recent results: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty results for unknown team, got %v", results)
	}
}

func TestAnalyticsService_RecentResults_EmptyTeam(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	_, err := svc.RecentResults(t.Context(), "  ", 5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyticsService_HeadToHead(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	entries, err := svc.HeadToHead(t.Context(), "Roma", "Lazio", 5)
	if err != nil {
		t.Fatalf("head to head: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(entries))
	}
	// Newest first, and the result reflects the row's own team: the
	// Lazio row is a Lazio win.
	if entries[0].Team != "Lazio" || entries[0].Result != match.ResultWin {
		t.Fatalf("unexpected newest entry: %+v", entries[0])
	}
	if entries[1].Team != "Roma" || entries[1].Result != match.ResultWin {
		t.Fatalf("unexpected older entry: %+v", entries[1])
	}
}

func TestAnalyticsService_HeadToHead_NoSharedHistory(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	entries, err := svc.HeadToHead(t.Context(), "Milan", "Napoli", 5)
	if err != nil {
		t.Fatalf("head to head: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no shared history, got %v", entries)
	}
}

func TestAnalyticsService_HeadToHead_InputValidation(t *testing.T) {
	svc := NewAnalyticsService(analyticsHistory())

	_, err := svc.HeadToHead(t.Context(), "Roma", "", 5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
