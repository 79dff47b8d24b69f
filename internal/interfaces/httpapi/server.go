package httpapi

import (
	"net/http"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/platform/logging"
)

// RequestObserver records served requests, keyed by route pattern.
type RequestObserver interface {
	ObserveHTTPRequest(route, method string, status int, duration time.Duration)
}

// MetricsExporter observes requests and serves the scrape endpoint.
type MetricsExporter interface {
	RequestObserver
	Handler() http.Handler
}

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	metrics MetricsExporter,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	var observer RequestObserver
	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
		observer = metrics
	}
	registerRaceRoutes(mux, handler)
	registerPipelineRoutes(mux, handler)

	return RequestTracing(RequestLogging(logger, observer, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "http_path", r.URL.Path)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
