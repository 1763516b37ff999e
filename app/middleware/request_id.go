package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mytheresa/ecommerce-back-end/app/requestid"
)

// RequestID reuses the caller's X-Request-ID or assigns a new UUID, stores it
// in the request context and echoes it in the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestid.Header)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(requestid.Header, id)
			next.ServeHTTP(w, r.WithContext(requestid.NewContext(r.Context(), id)))
		})
	}
}
