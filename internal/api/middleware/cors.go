package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows every origin to call the API, so a dashboard served from a
// different host or port can reach it. Preflight requests end here.
var CORS = cors.Handler(cors.Options{
	AllowedOrigins:       []string{"*"},
	AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	AllowedHeaders:       []string{"Accept", "Content-Type", HeaderCorrelationID},
	ExposedHeaders:       []string{HeaderCorrelationID},
	MaxAge:               300,
	OptionsSuccessStatus: http.StatusNoContent,
})
