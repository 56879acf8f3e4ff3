package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/scudettolab/seriea-predictor/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.predictorService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teams)
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormations")
	defer span.End()

	formations, err := h.predictorService.ListFormations(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list formations failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formations)
}

func (h *Handler) TeamSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamSummary")
	defer span.End()

	summaries, err := h.analyticsService.TeamSummary(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "team summary failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, teamSummaryToDTO(summary))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) RecentResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecentResults")
	defer span.End()

	team := strings.TrimSpace(r.PathValue("team"))
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.analyticsService.RecentResults(ctx, team, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "recent results failed", "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"team":    team,
		"results": results,
	})
}

func (h *Handler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.HeadToHead")
	defer span.End()

	query := r.URL.Query()
	team := strings.TrimSpace(query.Get("team"))
	opponent := strings.TrimSpace(query.Get("opponent"))
	limit, err := parseLimit(query.Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.analyticsService.HeadToHead(ctx, team, opponent, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "head to head failed", "team", team, "opponent", opponent, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]headToHeadDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, headToHeadToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"team":     team,
		"opponent": opponent,
		"matches":  items,
	})
}

// parseLimit reads an optional positive limit query parameter; zero
// means "use the service default".
func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}
