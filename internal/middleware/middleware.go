package middleware

import (
	"net/http"
	"strconv"

	"cataloguechat/internal/metrics"
	"cataloguechat/pkg/logging"
)

var logM = logging.NewLogger("middleware")

// Wrap runs the shared request plumbing around a handler: trace id
// injection, per-IP rate limiting and http metrics. Order matters, the
// trace id must exist before anything logs.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}

		r = injectTrace(r)
		if !allowRequest(rec, r) {
			metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
			return
		}
		next(rec, r)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}
