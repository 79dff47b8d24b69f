package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRaceRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/races", handler.ListRaces)
	mux.HandleFunc("GET /v1/races/{raceKey}/riders", handler.ListRiders)
	mux.HandleFunc("GET /v1/races/{raceKey}/outliers", handler.ListOutliers)
	mux.HandleFunc("GET /v1/races/{raceKey}/value-picks", handler.ListValuePicks)
	mux.HandleFunc("GET /v1/races/{raceKey}/summary", handler.GetRaceSummary)
	mux.HandleFunc("GET /v1/races/{raceKey}/riders/{name}/match", handler.GetRiderMatch)
}

// Runs are synchronous: the response carries the full pipeline result.
func registerPipelineRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/pipeline/runs", handler.RunPipeline)
}
