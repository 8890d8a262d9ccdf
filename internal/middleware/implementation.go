package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/google/uuid"

	"cataloguechat/internal/config"
	"cataloguechat/internal/handlers"
)

func injectTrace(req *http.Request) *http.Request {
	trace := req.Header.Get("X-Trace-Id")
	if trace == "" {
		trace = uuid.NewString()
	}
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set("X-Trace-Id", trace)
	return req.WithContext(ctx)
}

func allowRequest(w http.ResponseWriter, req *http.Request) bool {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		ip = req.RemoteAddr
	}

	if !limiterInstance.GetLimiter(ip).Allow() {
		logM.Warn("Too many requests", "ip", ip, "path", req.URL.Path)
		handlers.WriteErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return false
	}
	return true
}
