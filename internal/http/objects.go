package http

import (
	"io"
	"net/http"
	"strings"
)

// registerObjectRoutes serves stored uploads. Requests must carry the exp
// and sig query parameters minted by the store's SignedURL.
func (api *API) registerObjectRoutes(mux *http.ServeMux) {
	if mux == nil || api.objects == nil {
		return
	}
	root := "/" + strings.Trim(api.objectsPath, "/")
	mux.HandleFunc("GET "+root+"/{path...}", api.handleGetObject)
}

func (api *API) handleGetObject(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.objects == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "storage unavailable")
		return
	}
	path := r.PathValue("path")
	query := r.URL.Query()
	if !api.objects.Verify(path, query.Get("exp"), query.Get("sig")) {
		writeErrorCode(w, http.StatusForbidden, "FORBIDDEN", "invalid or expired signature")
		return
	}

	f, err := api.objects.Open(path)
	if err != nil {
		writeErrorCode(w, http.StatusNotFound, "NOT_FOUND", "object not found")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}
