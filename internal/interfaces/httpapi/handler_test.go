package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/analytics"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/matching"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
	usecasemock "github.com/riskibarqy/fantasy-cycling/internal/mocks/usecase"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

const testRaceKey = "TDF_FEMMES_2025"

type recordedRequest struct {
	route  string
	method string
	status int
}

type fakeMetrics struct {
	requests []recordedRequest
}

func (f *fakeMetrics) ObserveHTTPRequest(route, method string, status int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{route: route, method: method, status: status})
}

func (f *fakeMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pipeline_runs_total 1\n"))
	})
}

func raceResult() usecase.DataLoadResult {
	records := make([]analytics.Record, 0, 6)
	for i, points := range []float64{0, 0, 0, 0, 0, 50} {
		records = append(records, analytics.Record{
			FantasyName:    "rider-" + string(rune('a'+i)),
			Stars:          2,
			TotalPCSPoints: points,
			PCSPerStar:     points / 2,
		})
	}
	return usecase.DataLoadResult{
		RidersTable: records,
		PipelineState: usecase.PipelineState{
			RaceKey:        testRaceKey,
			OverallSuccess: true,
			Stages:         []usecase.PipelineStage{{Name: usecase.StageLoading, Success: true}},
		},
		MatchedData: usecase.MatchedData{Riders: map[string]matching.RiderMatchInfo{
			"KOPECKY Lotte": {
				Rider:         rider.FantasyRider{FantasyName: "KOPECKY Lotte"},
				CanonicalName: "Kopecky Lotte",
				HasRaceData:   true,
			},
		}},
		Summary:  usecase.ResultSummary{OverallSuccess: true, TotalRiders: 6},
		Warnings: []string{},
		Errors:   []string{},
	}
}

func newTestRouter(t *testing.T, runner usecase.PipelineRunner, metrics MetricsExporter) http.Handler {
	t.Helper()

	queries := usecase.NewRaceQueryService(runner, nil, usecase.DefaultPipelineConfig(""), logging.NewNop())
	return NewRouter(NewHandler(queries, logging.NewNop()), logging.NewNop(), []string{"*"}, metrics)
}

func serve(t *testing.T, router http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response body: %v", err)
		}
	}
	return rec, out
}

func TestHandler_ValuePicksUsesDefaults(t *testing.T) {
	runner := usecasemock.NewPipelineRunner(t)
	runner.On("Run", mock.Anything, mock.Anything).Return(raceResult()).Once()
	router := newTestRouter(t, runner, nil)

	rec, body := serve(t, router, http.MethodGet, "/v1/races/"+testRaceKey+"/value-picks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	picks, ok := body.Data.([]any)
	if !ok || len(picks) != 1 {
		t.Fatalf("expected one value pick, got %v", body.Data)
	}
	pick := picks[0].(map[string]any)
	if pick["fantasy_name"] != "rider-f" {
		t.Fatalf("unexpected value pick %v", pick)
	}

	// Second query is served from the cached run.
	rec, body = serve(t, router, http.MethodGet, "/v1/races/"+testRaceKey+"/outliers?threshold=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	outliers := body.Data.(map[string]any)
	if outliers["threshold"] != float64(2) {
		t.Fatalf("expected threshold 2 echoed, got %v", outliers["threshold"])
	}
	if over, _ := outliers["overperformers"].([]any); over == nil || len(over) != 0 {
		t.Fatalf("expected empty overperformers list, got %v", outliers["overperformers"])
	}
}

func TestHandler_QueryValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "threshold not a number", target: "/v1/races/" + testRaceKey + "/outliers?threshold=abc", status: http.StatusBadRequest},
		{name: "zero threshold", target: "/v1/races/" + testRaceKey + "/outliers?threshold=0", status: http.StatusBadRequest},
		{name: "max stars not an integer", target: "/v1/races/" + testRaceKey + "/value-picks?max_stars=1.5", status: http.StatusBadRequest},
		{name: "negative min points", target: "/v1/races/" + testRaceKey + "/value-picks?min_points=-1", status: http.StatusBadRequest},
		{name: "unknown race", target: "/v1/races/GIRO_2030/riders", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, usecasemock.NewPipelineRunner(t), nil)

			rec, body := serve(t, router, http.MethodGet, tt.target, nil)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if body.Error == nil {
				t.Fatalf("expected error envelope")
			}
		})
	}
}

func TestHandler_RiderMatch(t *testing.T) {
	runner := usecasemock.NewPipelineRunner(t)
	runner.On("Run", mock.Anything, mock.Anything).Return(raceResult()).Once()
	router := newTestRouter(t, runner, nil)

	rec, body := serve(t, router, http.MethodGet, "/v1/races/"+testRaceKey+"/riders/kopecky%20lotte/match", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	info := body.Data.(map[string]any)
	if info["canonical_name"] != "Kopecky Lotte" || info["has_race_data"] != true {
		t.Fatalf("unexpected match info %v", info)
	}

	rec, _ = serve(t, router, http.MethodGet, "/v1/races/"+testRaceKey+"/riders/NOBODY/match", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown rider, got %d", rec.Code)
	}
}

func TestHandler_QueryReportsFailedRun(t *testing.T) {
	failed := usecase.DataLoadResult{
		PipelineState: usecase.PipelineState{RaceKey: testRaceKey},
		Errors:        []string{"loading: fantasy roster unavailable"},
	}
	runner := usecasemock.NewPipelineRunner(t)
	runner.On("Run", mock.Anything, mock.Anything).Return(failed).Once()
	router := newTestRouter(t, runner, nil)

	rec, body := serve(t, router, http.MethodGet, "/v1/races/"+testRaceKey+"/summary", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if body.Error.Status != "UNAVAILABLE" {
		t.Fatalf("unexpected error status %v", body.Error.Status)
	}
}

func TestHandler_RunPipeline(t *testing.T) {
	runner := usecasemock.NewPipelineRunner(t)
	runner.On("Run", mock.Anything, mock.MatchedBy(func(cfg usecase.PipelineConfig) bool {
		return cfg.RaceKey == testRaceKey &&
			cfg.ForceRefresh &&
			cfg.FuzzyThreshold == 0.9 &&
			!cfg.UseEnhancedAnalytics &&
			cfg.CalculateTrends
	})).Return(raceResult()).Once()
	router := newTestRouter(t, runner, nil)

	payload := []byte(`{"race_key":"TDF_FEMMES_2025","force_refresh":true,"fuzzy_threshold":0.9,"use_enhanced_analytics":false}`)
	rec, body := serve(t, router, http.MethodPost, "/v1/pipeline/runs", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := body.Data.(map[string]any)
	summary := result["summary"].(map[string]any)
	if summary["overall_success"] != true {
		t.Fatalf("expected successful run, got %v", summary)
	}

	// The triggered run is cached for later reads.
	rec, _ = serve(t, router, http.MethodGet, "/v1/races/"+testRaceKey+"/riders", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected cached riders, got %d", rec.Code)
	}
}

func TestHandler_RunPipelineRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "invalid json", payload: `{"race_key":`},
		{name: "missing race key", payload: `{"force_refresh":true}`},
		{name: "threshold above one", payload: `{"race_key":"TDF_FEMMES_2025","fuzzy_threshold":1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, usecasemock.NewPipelineRunner(t), nil)

			rec, body := serve(t, router, http.MethodPost, "/v1/pipeline/runs", []byte(tt.payload))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if body.Error.Status != "INVALID_ARGUMENT" {
				t.Fatalf("unexpected error status %v", body.Error.Status)
			}
		})
	}
}

func TestHandler_RunPipelineConfigurationError(t *testing.T) {
	rejected := usecase.DataLoadResult{
		Summary: usecase.ResultSummary{Error: "invalid pipeline configuration: unknown race"},
		Errors:  []string{"invalid pipeline configuration: unknown race"},
	}
	runner := usecasemock.NewPipelineRunner(t)
	runner.On("Run", mock.Anything, mock.Anything).Return(rejected).Once()
	router := newTestRouter(t, runner, nil)

	rec, body := serve(t, router, http.MethodPost, "/v1/pipeline/runs", []byte(`{"race_key":"GIRO_2030"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if body.Error.Status != "FAILED_PRECONDITION" {
		t.Fatalf("unexpected error status %v", body.Error.Status)
	}
	if body.Error.Message != "invalid pipeline configuration: unknown race" {
		t.Fatalf("unexpected error message %v", body.Error.Message)
	}
}

func TestRouter_MetricsAndRequestObservation(t *testing.T) {
	metrics := &fakeMetrics{}
	router := newTestRouter(t, usecasemock.NewPipelineRunner(t), metrics)

	rec, _ := serve(t, router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("pipeline_runs_total")) {
		t.Fatalf("expected metrics exposition, got %d %q", rec.Code, rec.Body.String())
	}

	rec, _ = serve(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}

	_, _ = serve(t, router, http.MethodGet, "/v1/nothing-here", nil)

	if len(metrics.requests) != 3 {
		t.Fatalf("expected 3 observed requests, got %+v", metrics.requests)
	}
	if got := metrics.requests[1]; got.route != "GET /healthz" || got.status != http.StatusOK {
		t.Fatalf("unexpected healthz observation %+v", got)
	}
	if got := metrics.requests[2]; got.route != "unmatched" || got.status != http.StatusNotFound {
		t.Fatalf("unexpected unmatched observation %+v", got)
	}
}

func TestRouter_ListRaces(t *testing.T) {
	router := newTestRouter(t, usecasemock.NewPipelineRunner(t), nil)

	rec, body := serve(t, router, http.MethodGet, "/v1/races", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	races := body.Data.([]any)
	if len(races) == 0 {
		t.Fatalf("expected at least one supported race")
	}
	first := races[0].(map[string]any)
	if first["key"] != testRaceKey {
		t.Fatalf("unexpected race %v", first)
	}
}
