package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/qdm12/dns-inventory/internal/report"
)

// index serves the HTML report written by the last inventory run.
func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	// Prevent caching so the page reflects the latest run
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	html, err := os.ReadFile(filepath.Join(h.dataDir, report.HTMLFileName))
	if os.IsNotExist(err) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("<html><body>No inventory run completed yet, " +
			"please retry in a moment.</body></html>"))
		return
	} else if err != nil {
		h.logger.Error(err.Error())
		httpError(w, http.StatusInternalServerError, "")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}
