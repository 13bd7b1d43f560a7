package middleware

import (
	"context"
	"strings"
	"time"

	pkglog "RentalHub/pkg/log"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// Logging returns a middleware that records one line per HTTP request with
// method, path, status, duration and request ID. It also injects the request
// tracing context consumed by pkglog helpers downstream.
func Logging(logger log.Logger) middleware.Middleware {
	helper := log.NewHelper(logger)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			startTime := time.Now()

			var (
				method    string
				path      string
				ip        string
				requestID string
			)

			if tr, ok := transport.FromServerContext(ctx); ok {
				method = tr.Operation()
				path = tr.Operation()

				if ht, ok := tr.(http.Transporter); ok {
					httpReq := ht.Request()
					method = httpReq.Method
					path = httpReq.URL.Path
					if httpReq.URL.RawQuery != "" {
						path = path + "?" + httpReq.URL.RawQuery
					}

					ip = extractClientIP(httpReq)

					requestID = httpReq.Header.Get("X-Request-ID")
					if requestID == "" {
						requestID = pkglog.GenerateRequestID()
					}
				}
			}

			var userID int64
			if p, ok := PrincipalFromRequest(ctx); ok {
				userID = p.UserID
			}
			ctx = pkglog.WithRequestContext(ctx, requestID, userID)

			reply, err := handler(ctx, req)

			duration := time.Since(startTime).Milliseconds()

			status := 200
			if err != nil {
				status = int(errors.FromError(err).Code)
			}

			kvs := []interface{}{
				"request_id", requestID,
				"method", method,
				"path", path,
				"status", status,
				"duration_ms", duration,
				"ip", ip,
			}
			if err != nil {
				kvs = append(kvs, "error", err.Error())
				helper.Warnw(kvs...)
			} else {
				helper.Infow(kvs...)
			}

			return reply, err
		}
	}
}

// extractClientIP extracts the client's real IP from the request.
// Priority: X-Real-IP > X-Forwarded-For > RemoteAddr
func extractClientIP(req *http.Request) string {
	if ip := req.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	return req.RemoteAddr
}
