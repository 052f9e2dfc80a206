package server

import (
	"net/http"

	"github.com/qdm12/dns-inventory/internal/models"
)

func (h *handlers) getAssets(w http.ResponseWriter, _ *http.Request) {
	assets := h.db.Assets()
	if assets == nil {
		assets = []models.Asset{}
	}
	h.respondJSON(w, assets)
}

func (h *handlers) getDomains(w http.ResponseWriter, _ *http.Request) {
	domains := h.db.Domains()
	if domains == nil {
		domains = []models.Domain{}
	}
	h.respondJSON(w, domains)
}

func (h *handlers) getNoDataDomains(w http.ResponseWriter, _ *http.Request) {
	noDataDomains := h.db.NoDataDomains()
	if noDataDomains == nil {
		noDataDomains = []string{}
	}
	h.respondJSON(w, noDataDomains)
}
