package handlers

import (
	"net/http"

	"github.com/deepgram/mockllm/internal/api/v1/handlers/chat"
	"github.com/deepgram/mockllm/internal/api/v1/handlers/token"
	v1mware "github.com/deepgram/mockllm/internal/api/v1/middleware"
	"github.com/deepgram/mockllm/internal/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(router *mux.Router, services *services.Services) {
	// Operational routes
	router.HandleFunc("/healthz", HandleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Token issuance (no auth required)
	router.HandleFunc("/generate-token", func(w http.ResponseWriter, r *http.Request) {
		token.HandleGenerateToken(services.GetAuthService(), w, r)
	}).Methods("POST")

	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// Chat routes, behind the auth gate unless it is switched off
	v1chatRouter := v1.PathPrefix("/chat").Subrouter()
	if services.AuthEnabled() {
		v1chatRouter.Use(v1mware.RequireAuth(services.GetAuthService()))
	}
	v1chatRouter.HandleFunc("/completions", func(w http.ResponseWriter, r *http.Request) {
		chat.HandleChatCompletions(services.GetCompletionService(), w, r)
	}).Methods("POST")
	v1chatRouter.HandleFunc("/completions/ws", func(w http.ResponseWriter, r *http.Request) {
		chat.HandleChatCompletionsWebSocket(services.GetCompletionService(), w, r)
	}).Methods("GET")
}
