package middleware

import (
	"net/http"
	"time"

	"github.com/xy-planning-network/wayfarer"
	"github.com/xy-planning-network/wayfarer/logger"
)

// A statusWriter records the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

// LogRequest logs the request's method, requested URL, response status, duration
// and originating IP address using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - password
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			h.ServeHTTP(sw, r)

			uri := r.URL.Path
			q := r.URL.Query()
			wayfarer.Mask(q, wayfarer.SecretParams...)
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			data := map[string]any{
				"duration": time.Since(start).String(),
				"method":   r.Method,
				"status":   status,
				"uri":      uri,
			}

			if ip, ok := r.Context().Value(wayfarer.IpAddrKey).(string); ok {
				data["ip"] = ip
			}

			if id, ok := r.Context().Value(wayfarer.RequestIDKey).(string); ok {
				data["requestId"] = id
			}

			ls.Info(r.Method+" "+uri, &logger.LogContext{Data: data})
		})
	}
}
