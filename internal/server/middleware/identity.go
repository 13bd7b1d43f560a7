// Package middleware provides HTTP middleware for identity extraction and
// request logging.
package middleware

import (
	"context"
	"strconv"
	"strings"

	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// Identity extracts the already-authenticated caller from the gateway's
// identity headers and injects it into the context as a model.Principal.
// Token validation happens upstream at the API gateway; this service trusts
// the forwarded headers.
//
// Headers:
//
//	X-User-ID: numeric user id (required for authenticated routes)
//	X-Roles:   comma-separated role list; "admin" grants admin capability
func Identity(logger log.Logger) middleware.Middleware {
	helper := log.NewHelper(logger)
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			if tr, ok := transport.FromServerContext(ctx); ok {
				if ht, ok := tr.(http.Transporter); ok {
					httpReq := ht.Request()

					if raw := httpReq.Header.Get("X-User-ID"); raw != "" {
						userID, err := strconv.ParseInt(raw, 10, 64)
						if err != nil {
							helper.Warnw("invalid X-User-ID header", "value", raw)
						} else {
							ctx = model.WithPrincipal(ctx, model.Principal{
								UserID: userID,
								Admin:  hasAdminRole(httpReq.Header.Get("X-Roles")),
							})
						}
					}
				}
			}

			return handler(ctx, req)
		}
	}
}

// PrincipalFromRequest returns the principal injected by Identity, if any.
func PrincipalFromRequest(ctx context.Context) (model.Principal, bool) {
	return model.PrincipalFromContext(ctx)
}

// hasAdminRole reports whether the comma-separated role list contains "admin".
func hasAdminRole(roles string) bool {
	for _, role := range strings.Split(roles, ",") {
		if strings.TrimSpace(role) == "admin" {
			return true
		}
	}
	return false
}
