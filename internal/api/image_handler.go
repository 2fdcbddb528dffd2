package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"dtmapi/internal/apperror"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	// Headroom for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+1<<20)

	file, header, err := r.FormFile("images")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, apperror.Single(http.StatusBadRequest, "invalid/images", "The images was too large"))
			return
		}
		h.writeError(w, r, apperror.Single(http.StatusBadRequest, "empty/images", "The images was empty"))
		return
	}
	defer file.Close()

	res, err := h.images.Upload(r.Context(), sessionFrom(r.Context()).User.ID, file, header.Size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.UploadsTotal.Inc()
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	rc, contentType, err := h.images.OpenByName(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	w.Header().Set("X-Sent", "true")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("Image stream interrupted", zap.String("name", name), zap.Error(err))
	}
}

func (h *Handler) getImage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("imageId")
	errs := apperror.Validation()
	required(errs, id, "imageId", "The imageId was empty")
	if err := errs.OrNil(); err != nil {
		h.writeError(w, r, err)
		return
	}

	img, err := h.images.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if img == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":       img.ID.Hex(),
		"fullPath": h.opts.Scheme + "://" + r.Host + "/api/getImage/" + img.Name,
	})
}
