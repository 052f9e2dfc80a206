package server

import (
	"net/http"
)

func (h *handlers) forceRun(w http.ResponseWriter, _ *http.Request) {
	start := h.timeNow()
	err := h.forcer.ForceRun(h.ctx)
	duration := h.timeNow().Sub(start)
	if err != nil {
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusAccepted)
	message := "inventory run completed in " + duration.String()
	_, _ = w.Write([]byte(message))
}
