package handlers

import (
	"net/http"

	"github.com/iudanet/deltamirror/pkg/api"
)

// RegisterRoutes регистрирует маршруты API на mux.
// Административные маршруты (register, update, pending) обслуживаются только при withAdmin,
// иначе отвечают 404 независимо от метода.
func RegisterRoutes(mux *http.ServeMux, files *FilesHandler, health *HealthHandler, withAdmin bool) {
	mux.HandleFunc("GET /api/v1/health", health.Health)

	mux.HandleFunc("GET /api/v1/ledger", files.Ledger)
	mux.HandleFunc("GET /api/v1/patch/{name...}", files.Patch)
	mux.HandleFunc("GET /api/v1/files/{name...}", files.FullFile)
	mux.HandleFunc("GET /api/v1/history/{name...}", files.History)

	register, update, pending := files.Register, files.Update, files.Pending
	if !withAdmin {
		register, update, pending = files.adminDisabled, files.adminDisabled, files.adminDisabled
	}
	mux.HandleFunc("POST /api/v1/files", register)
	mux.HandleFunc("POST /api/v1/update/{name...}", update)
	mux.HandleFunc("GET /api/v1/pending/{name...}", pending)
}

// adminDisabled отвечает на административные маршруты выключенного admin API
func (h *FilesHandler) adminDisabled(w http.ResponseWriter, r *http.Request) {
	h.respondError(w, r, http.StatusNotFound, api.ErrCodeNotFound, "admin API is disabled")
}
