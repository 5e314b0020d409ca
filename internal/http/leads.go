package http

import (
	"net/http"
	"strings"

	"github.com/magvolt/sitecms/internal/leads"
)

type leadStatusPayload struct {
	Status string `json:"status"`
}

func (api *API) registerLeadRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "leads")
	mux.HandleFunc("POST "+root, api.handleCreateLead)
	mux.HandleFunc("GET "+root, api.requireAdmin(api.handleListLeads))
	mux.HandleFunc("PATCH "+root+"/{id}/status", api.requireAdmin(api.handleUpdateLeadStatus))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleDeleteLead))
}

// handleCreateLead serves the public contact form and stays open when auth
// is enabled.
func (api *API) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.leads == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "leads unavailable")
		return
	}

	var payload leads.CreateLeadRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
		return
	}

	record, err := api.leads.Create(r.Context(), payload)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, record)
}

func (api *API) handleListLeads(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.leads == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "leads unavailable")
		return
	}
	force := parseBoolQuery(r.URL.Query().Get("force"), false)
	records, err := api.leads.List(r.Context(), force)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (api *API) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.leads == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "leads unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	var payload leadStatusPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
		return
	}
	if strings.TrimSpace(payload.Status) == "" {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "status required")
		return
	}

	record, err := api.leads.UpdateStatus(r.Context(), id, leads.Status(payload.Status))
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.leads == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "leads unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	if err := api.leads.Delete(r.Context(), id); err != nil {
		api.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "lead deleted")
}
