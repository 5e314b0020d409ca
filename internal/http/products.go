package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/magvolt/sitecms/internal/media"
	"github.com/magvolt/sitecms/internal/products"
)

type productPayload struct {
	Name           string         `json:"name"`
	Summary        string         `json:"summary"`
	Power          string         `json:"power"`
	Category       string         `json:"category"`
	Images         []string       `json:"images"`
	Specifications map[string]any `json:"specifications"`
	Features       []string       `json:"features"`
}

type productUpdatePayload struct {
	Name           *string        `json:"name"`
	Summary        *string        `json:"summary"`
	Power          *string        `json:"power"`
	Category       *string        `json:"category"`
	Images         *[]string      `json:"images"`
	Specifications map[string]any `json:"specifications"`
	Features       *[]string      `json:"features"`
	DeletedImages  []string       `json:"deletedImages"`
}

func (api *API) registerProductRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "products")
	mux.HandleFunc("GET "+root, api.handleListProducts)
	mux.HandleFunc("POST "+root, api.requireAdmin(api.handleCreateProduct))
	mux.HandleFunc("GET "+root+"/{id}", api.handleGetProduct)
	mux.HandleFunc("PUT "+root+"/{id}", api.requireAdmin(api.handleUpdateProduct))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleDeleteProduct))
}

func (api *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.products == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "products unavailable")
		return
	}
	force := parseBoolQuery(r.URL.Query().Get("force"), false)
	records, err := api.products.List(r.Context(), force)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (api *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.products == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "products unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	record, err := api.products.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.products == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "products unavailable")
		return
	}

	var payload productPayload
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		payload.Name = formValue(r, "name")
		payload.Summary = formValue(r, "summary")
		payload.Power = formValue(r, "power")
		payload.Category = formValue(r, "category")
		if features, ok := formStringSlice(r, "features"); ok {
			payload.Features = features
		}
		if raw := formValue(r, "specifications"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &payload.Specifications); err != nil {
				writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed specifications")
				return
			}
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

	record, err := api.products.Create(r.Context(), products.CreateProductRequest{
		Name:           payload.Name,
		Summary:        payload.Summary,
		Power:          payload.Power,
		Category:       payload.Category,
		Images:         payload.Images,
		Specifications: payload.Specifications,
		Features:       payload.Features,
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, record)
}

// handleUpdateProduct reconciles the image list before the record mutation:
// URLs named in deletedImages are removed from storage and dropped from the
// list, fresh uploads are appended, every other stored URL is retained.
func (api *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.products == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "products unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	req := products.UpdateProductRequest{ID: id}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		req.Name = optionalFormValue(r, "name")
		req.Summary = optionalFormValue(r, "summary")
		req.Power = optionalFormValue(r, "power")
		req.Category = optionalFormValue(r, "category")
		if features, ok := formStringSlice(r, "features"); ok {
			req.Features = &features
		}
		if raw := formValue(r, "specifications"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Specifications); err != nil {
				writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed specifications")
				return
			}
		}

		deleted, _ := formStringSlice(r, "deletedImages")
		hasUploads := hasFormFile(r, "images")
		if len(deleted) > 0 || hasUploads {
			existing, err := api.products.Get(r.Context(), id)
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
		var payload productUpdatePayload
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
			return
		}
		req.Name = payload.Name
		req.Summary = payload.Summary
		req.Power = payload.Power
		req.Category = payload.Category
		req.Specifications = payload.Specifications
		req.Features = payload.Features
		req.Images = payload.Images

		if len(payload.DeletedImages) > 0 && payload.Images == nil {
			existing, err := api.products.Get(r.Context(), id)
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

	record, err := api.products.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.products == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "products unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	var images []string
	if record, err := api.products.Get(r.Context(), id); err == nil {
		images = record.Images
	}

	if err := api.products.Delete(r.Context(), id); err != nil {
		api.writeError(w, err)
		return
	}
	for _, url := range images {
		api.removeImage(r, url)
	}
	writeMessage(w, http.StatusOK, "product deleted")
}

// uploadFormImages stores every file under the named multipart field and
// returns their signed URLs in upload order.
func (api *API) uploadFormImages(r *http.Request, field string) ([]string, error) {
	if api.media == nil || r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	urls := make([]string, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		asset, err := api.media.Upload(r.Context(), media.UploadRequest{Name: header.Filename, Payload: file})
		file.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, asset.URL)
	}
	return urls, nil
}

func removeURLs(current, deleted []string) []string {
	if len(deleted) == 0 {
		return append([]string(nil), current...)
	}
	drop := make(map[string]struct{}, len(deleted))
	for _, url := range deleted {
		drop[url] = struct{}{}
	}
	out := make([]string, 0, len(current))
	for _, url := range current {
		if _, gone := drop[url]; !gone {
			out = append(out, url)
		}
	}
	return out
}
