package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local storefront dev
	"https://www.elegantjewelryboxes.com",
	"https://elegantjewelryboxes.com",
}

// CORS returns middleware that applies the storefront's allowed origin policy.
// Extra origins from config are appended to the defaults.
func CORS(extraOrigins []string) func(http.Handler) http.Handler {
	origins := append([]string{}, defaultCORSOrigins...)
	for _, origin := range extraOrigins {
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-JB-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"X-JB-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
