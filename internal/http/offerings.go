package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/magvolt/sitecms/internal/offerings"
)

type offeringPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

type offeringUpdatePayload struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	Features      *[]string `json:"features"`
	Category      *string   `json:"category"`
	Images        *[]string `json:"images"`
	DeletedImages []string  `json:"deletedImages"`
}

// Service lines mount under /services; the package avoids that noun to keep
// it distinct from Go service objects.
func (api *API) registerOfferingRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "services")
	mux.HandleFunc("GET "+root, api.handleListOfferings)
	mux.HandleFunc("POST "+root, api.requireAdmin(api.handleCreateOffering))
	mux.HandleFunc("GET "+root+"/{id}", api.handleGetOffering)
	mux.HandleFunc("PUT "+root+"/{id}", api.requireAdmin(api.handleUpdateOffering))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleDeleteOffering))
}

func (api *API) handleListOfferings(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.offerings == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "services unavailable")
		return
	}
	force := parseBoolQuery(r.URL.Query().Get("force"), false)
	records, err := api.offerings.List(r.Context(), force)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (api *API) handleGetOffering(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.offerings == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "services unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	record, err := api.offerings.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleCreateOffering(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.offerings == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "services unavailable")
		return
	}

	var payload offeringPayload
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		payload.Title = formValue(r, "title")
		payload.Description = formValue(r, "description")
		payload.Category = formValue(r, "category")
		if features, ok := formStringSlice(r, "features"); ok {
			payload.Features = features
		}

		uploaded, err := api.uploadFormImages(r, "images")
		if err != nil {
			api.writeError(w, err)
			return
		}
		payload.Images = uploaded
	} else {
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
			return
		}
	}

	record, err := api.offerings.Create(r.Context(), offerings.CreateOfferingRequest{
		Title:       payload.Title,
		Description: payload.Description,
		Features:    payload.Features,
		Category:    payload.Category,
		Images:      payload.Images,
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, record)
}

func (api *API) handleUpdateOffering(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.offerings == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "services unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	req := offerings.UpdateOfferingRequest{ID: id}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		req.Title = optionalFormValue(r, "title")
		req.Description = optionalFormValue(r, "description")
		req.Category = optionalFormValue(r, "category")
		if features, ok := formStringSlice(r, "features"); ok {
			req.Features = &features
		}

		deleted, _ := formStringSlice(r, "deletedImages")
		hasUploads := hasFormFile(r, "images")
		if len(deleted) > 0 || hasUploads {
			existing, err := api.offerings.Get(r.Context(), id)
			if err != nil {
				api.writeError(w, err)
				return
			}
			images := removeURLs(existing.Images, deleted)
			for _, url := range deleted {
				api.removeImage(r, url)
			}
			if hasUploads {
				uploaded, err := api.uploadFormImages(r, "images")
				if err != nil {
					api.writeError(w, err)
					return
				}
				images = append(images, uploaded...)
			}
			req.Images = &images
		}
	} else {
		var payload offeringUpdatePayload
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
			return
		}
		req.Title = payload.Title
		req.Description = payload.Description
		req.Features = payload.Features
		req.Category = payload.Category
		req.Images = payload.Images

		if len(payload.DeletedImages) > 0 && payload.Images == nil {
			existing, err := api.offerings.Get(r.Context(), id)
			if err != nil {
				api.writeError(w, err)
				return
			}
			images := removeURLs(existing.Images, payload.DeletedImages)
			for _, url := range payload.DeletedImages {
				api.removeImage(r, url)
			}
			req.Images = &images
		}
	}

	record, err := api.offerings.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleDeleteOffering(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.offerings == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "services unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	var images []string
	if record, err := api.offerings.Get(r.Context(), id); err == nil {
		images = record.Images
	}

	if err := api.offerings.Delete(r.Context(), id); err != nil {
		api.writeError(w, err)
		return
	}
	for _, url := range images {
		api.removeImage(r, url)
	}
	writeMessage(w, http.StatusOK, "service deleted")
}
