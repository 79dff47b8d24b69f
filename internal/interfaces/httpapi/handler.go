package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/analytics"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
	"github.com/riskibarqy/fantasy-cycling/internal/usecase"
)

const maxRunRequestBytes = 1 << 16

type Handler struct {
	queries   *usecase.RaceQueryService
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(queries *usecase.RaceQueryService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		queries:   queries,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListRaces")
	defer span.End()

	keys := race.SupportedKeys()
	items := make([]raceDTO, 0, len(keys))
	for _, key := range keys {
		def, ok := race.Lookup(key)
		if !ok {
			continue
		}
		items = append(items, raceToDTO(def))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// RunPipeline runs the pipeline synchronously. A run that fails inside a
// stage still answers 200: the result carries the partial state and errors.
func (h *Handler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RunPipeline")
	defer span.End()

	var req runPipelineRequest
	body := http.MaxBytesReader(w, r.Body, maxRunRequestBytes)
	if err := sonic.ConfigDefault.NewDecoder(body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload", usecase.ErrInvalidInput))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	cfg := req.toConfig(h.queries.Config(strings.TrimSpace(req.RaceKey)))
	result := h.queries.Trigger(ctx, cfg)
	if len(result.PipelineState.Stages) == 0 && len(result.Errors) > 0 {
		h.logger.WarnContext(ctx, "pipeline run rejected", "race_key", cfg.RaceKey, "errors", result.Errors)
		writeError(ctx, w, resultError{sentinel: usecase.ErrConfiguration, msg: strings.Join(result.Errors, "; ")})
		return
	}
	if !result.Summary.OverallSuccess {
		h.logger.WarnContext(ctx, "pipeline run failed", "race_key", cfg.RaceKey, "errors", result.Errors)
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListRiders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListRiders")
	defer span.End()

	raceKey := r.PathValue("raceKey")
	riders, err := h.queries.Riders(ctx, raceKey)
	if err != nil {
		h.logger.WarnContext(ctx, "list riders failed", "race_key", raceKey, "error", err)
		writeError(ctx, w, err)
		return
	}
	if riders == nil {
		riders = []analytics.Record{}
	}

	writeSuccess(ctx, w, http.StatusOK, riders)
}

func (h *Handler) ListOutliers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListOutliers")
	defer span.End()

	threshold, err := parseFloatQuery(r, "threshold", analytics.DefaultZThreshold)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	raceKey := r.PathValue("raceKey")
	outliers, err := h.queries.Outliers(ctx, raceKey, threshold)
	if err != nil {
		h.logger.WarnContext(ctx, "list outliers failed", "race_key", raceKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outliersToDTO(outliers, threshold))
}

func (h *Handler) ListValuePicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListValuePicks")
	defer span.End()

	minPoints, err := parseFloatQuery(r, "min_points", analytics.DefaultMinPoints)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	maxStars, err := parseIntQuery(r, "max_stars", analytics.DefaultMaxStars)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	raceKey := r.PathValue("raceKey")
	picks, err := h.queries.ValuePicks(ctx, raceKey, minPoints, maxStars)
	if err != nil {
		h.logger.WarnContext(ctx, "list value picks failed", "race_key", raceKey, "error", err)
		writeError(ctx, w, err)
		return
	}
	if picks == nil {
		picks = []analytics.ValuePick{}
	}

	writeSuccess(ctx, w, http.StatusOK, picks)
}

func (h *Handler) GetRaceSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetRaceSummary")
	defer span.End()

	raceKey := r.PathValue("raceKey")
	overview, err := h.queries.Overview(ctx, raceKey)
	if err != nil {
		h.logger.WarnContext(ctx, "get race summary failed", "race_key", raceKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overview)
}

func (h *Handler) GetRiderMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetRiderMatch")
	defer span.End()

	raceKey := r.PathValue("raceKey")
	name := r.PathValue("name")
	info, err := h.queries.RiderMatch(ctx, raceKey, name)
	if err != nil {
		h.logger.WarnContext(ctx, "get rider match failed", "race_key", raceKey, "rider", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}

func parseFloatQuery(r *http.Request, key string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

func parseIntQuery(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, key)
	}
	return value, nil
}

// resultError carries a message reported by a pipeline result while still
// matching its sentinel.
type resultError struct {
	sentinel error
	msg      string
}

func (e resultError) Error() string {
	return e.msg
}

func (e resultError) Unwrap() error {
	return e.sentinel
}
