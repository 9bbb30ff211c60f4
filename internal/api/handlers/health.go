package handlers

import (
	"net/http"

	"github.com/rohits-web03/smartstore/internal/utils"
)

// GET /health
// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "ok",
		Data:    map[string]string{"status": "ok"},
	})
}
