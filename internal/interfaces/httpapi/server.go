package httpapi

import (
	"net/http"

	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

// RouterConfig carries the switches that shape the route table.
type RouterConfig struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string
	AdminToken         string
}

// NewRouter mounts the HTTP API and, when interactions is non-nil, the chat
// platform interaction endpoint.
func NewRouter(handler *Handler, interactions http.Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerImageRoutes(mux, handler)
	registerWelcomeRoutes(mux, handler, cfg.AdminToken)
	if interactions != nil {
		mux.Handle("POST /interactions", interactions)
	}

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
