package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	// Estimate one hypothetical fixture.
	mux.HandleFunc("POST /v1/predictions", handler.Predict)
	// Estimate a batch of hypothetical fixtures over a worker pool.
	mux.HandleFunc("POST /v1/predictions/batch", handler.PredictBatch)
}

func registerAnalyticsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/formations", handler.ListFormations)
	mux.HandleFunc("GET /v1/teams/summary", handler.TeamSummary)
	mux.HandleFunc("GET /v1/teams/{team}/recent", handler.RecentResults)
	mux.HandleFunc("GET /v1/head-to-head", handler.HeadToHead)
}
