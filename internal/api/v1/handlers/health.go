package handlers

import (
	"net/http"

	"github.com/deepgram/mockllm/pkg/httpext"
)

type HealthResponse struct {
	Status string `json:"status"`
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
