package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS allows the widget to be served from another origin during development.
func CORS(next http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(next)
}

// Compress gzips responses for clients that accept it.
func Compress(next http.Handler) http.Handler {
	return handlers.CompressHandler(next)
}
