package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/mytheresa/ecommerce-back-end/app/requestid"
)

func Cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
		ExposedHeaders: []string{requestid.Header},
		MaxAge:         300,
	})
}
