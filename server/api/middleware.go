package api

import (
	"net/http"
)

// WithIdentity resolves the caller identity exactly once per request. Each
// configured authorizer gets a chance; every failure degrades to an
// anonymous request rather than rejecting it. Routes that require an
// identity check the resolved context themselves.
func (h *Handler) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		for _, authorizer := range h.Authorizers {
			resolved, err := authorizer.Authenticate(ctx, r)

			if err != nil {
				continue
			}

			ctx = resolved

			break
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
