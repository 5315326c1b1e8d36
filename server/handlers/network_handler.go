package handlers

import (
	"net/http"

	services "tube-twin/service"
)

type NetworkHandler struct {
	networkService *services.NetworkService
}

func NewNetworkHandler(networkService *services.NetworkService) *NetworkHandler {
	return &NetworkHandler{networkService: networkService}
}

// GetNetworkInsights handles GET /v1/network/insights?month=YYYY-MM
func (h *NetworkHandler) GetNetworkInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.networkService.Insights(r.URL.Query().Get(MONTH_QUERY_ARG))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, insights)
}
