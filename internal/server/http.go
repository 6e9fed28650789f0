package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/logging"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// LogRequests wraps next with one log line per request. Passwords in the
// query string are redacted.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("cmd", r.URL.Query().Get("cmd")),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("elapsed", time.Since(start)),
		}

		if rec.status >= http.StatusBadRequest {
			logging.Warn("Emulator request rejected", fields...)
			return
		}
		logging.Info("Emulator request", fields...)
		logging.Debug("Emulator request query",
			zap.String("cmd", r.URL.Query().Get("cmd")),
			zap.String("url", logging.RedactURL(r.URL)),
			zap.String("user_agent", r.UserAgent()),
		)
	})
}
