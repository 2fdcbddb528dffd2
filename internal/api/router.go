package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter mounts every endpoint under /api plus /metrics and /static/.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.metrics.Middleware)
	// mux skips middleware for unmatched requests, so these are wrapped directly.
	r.NotFoundHandler = h.metrics.Middleware(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = h.metrics.Middleware(http.HandlerFunc(methodNotAllowed))

	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/login", h.login).Methods(http.MethodPost)
	api.HandleFunc("/register", h.register).Methods(http.MethodPost)
	api.HandleFunc("/password/change", h.withAuth(h.changePassword)).Methods(http.MethodPost)
	api.HandleFunc("/refreshToken", h.refreshToken).Methods(http.MethodPost)
	api.HandleFunc("/logout", h.withAuth(h.logout)).Methods(http.MethodPost)
	api.HandleFunc("/verifyAccount/{token}", h.verifyAccount).Methods(http.MethodPost)
	api.HandleFunc("/resendVerify", h.resendVerify).Methods(http.MethodPost)
	api.HandleFunc("/password/forgot", h.forgotPassword).Methods(http.MethodPost)
	api.HandleFunc("/password/new/{token}", h.newPassword).Methods(http.MethodPost)
	api.HandleFunc("/profile", h.withAuth(h.profile)).Methods(http.MethodGet)
	api.HandleFunc("/addKycChannel", h.withAuth(h.addKYCChannel)).Methods(http.MethodPost)
	api.HandleFunc("/platformGetUser", h.platformGetUser).Methods(http.MethodGet)

	api.HandleFunc("/uploadImage", h.withAuth(h.uploadImage)).Methods(http.MethodPost)
	api.HandleFunc("/getImage/{name}", h.serveImage).Methods(http.MethodGet)
	api.HandleFunc("/getImage", h.getImage).Methods(http.MethodGet)

	api.HandleFunc("/generate", h.generateKey).Methods(http.MethodPost)
	api.HandleFunc("/revoke", h.revokeKey).Methods(http.MethodPost)

	if h.opts.StaticDir != "" {
		fs := http.FileServer(http.Dir(h.opts.StaticDir))
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
	}
	return r
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
