package handlers

import (
	"net/http"

	"github.com/zoenutrition/zoe/internal/infrastructure/http/render"
)

// EnableOffline handles POST /api/v1/offline/enable
func (h *APIHandlers) EnableOffline(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status, err := h.services.Offline.Enable(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, status)
}

// DisableOffline handles POST /api/v1/offline/disable
func (h *APIHandlers) DisableOffline(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status, err := h.services.Offline.Disable(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, status)
}

// OfflineData handles GET /api/v1/offline/data
func (h *APIHandlers) OfflineData(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	snapshot, err := h.services.Offline.Load(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, snapshot)
}
