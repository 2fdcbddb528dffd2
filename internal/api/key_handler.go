package api

import (
	"net/http"

	"dtmapi/internal/apperror"
	"dtmapi/internal/key"
)

func (h *Handler) generateKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string           `json:"name"`
		Permission []key.Permission `json:"permission"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	errs := apperror.Validation()
	required(errs, req.Name, "name", "The name of platform was empty")
	if req.Permission == nil {
		errs.Add("empty/permission", "The permission was empty")
	}
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.keys.Generate(r.Context(), req.Name, req.Permission)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) revokeKey(w http.ResponseWriter, r *http.Request) {
	if err := h.keys.Revoke(); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"successful": true})
}
