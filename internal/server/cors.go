package server

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSOptions allows credentialed requests only from explicitly listed
// origins. With a "*" wildcard browsers get no cookies cross-origin.
func CORSOptions(origins []string) cors.Options {
	credentials := len(origins) > 0
	for _, o := range origins {
		if o == "*" {
			credentials = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: credentials,
	}
}
