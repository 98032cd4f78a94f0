package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/footprint/internal/logging"
)

// requestID reuses the caller's X-Request-ID or mints one, echoes it in
// the response and stores it, with a request-scoped logger, in the
// request context.
func requestID(base zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(logging.RequestIDHeader); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		id := logging.GetOrGenerateRequestID(ctx)
		ctx = logging.ContextWithRequestID(ctx, id)
		ctx = logging.WithLogger(ctx, base.With().Str("request_id", id).Logger())

		w.Header().Set(logging.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// accessLog writes one line per request through the request logger.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		log := logging.FromContext(r.Context())
		event := log.Info()
		if recorder.status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Int("bytes", recorder.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// recoveryLogger adapts zerolog to gorilla/handlers' RecoveryHandlerLogger.
type recoveryLogger struct {
	log zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error().Msg(fmt.Sprint(v...))
}
