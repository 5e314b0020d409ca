package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/media"
)

const maxUploadMemory = 32 << 20

type blogPayload struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type blogUpdatePayload struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Body     *string `json:"body"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
}

func (api *API) registerBlogRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "blogs")
	mux.HandleFunc("GET "+root, api.handleListBlogs)
	mux.HandleFunc("POST "+root, api.requireAdmin(api.handleCreateBlog))
	mux.HandleFunc("GET "+root+"/{id}", api.handleGetBlog)
	mux.HandleFunc("PUT "+root+"/{id}", api.requireAdmin(api.handleUpdateBlog))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleDeleteBlog))
	mux.HandleFunc("GET "+root+"/slug/{slug}", api.handleGetBlogBySlug)
}

func (api *API) handleListBlogs(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.blogs == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "blogs unavailable")
		return
	}
	force := parseBoolQuery(r.URL.Query().Get("force"), false)
	records, err := api.blogs.List(r.Context(), force)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (api *API) handleGetBlog(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.blogs == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "blogs unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	record, err := api.blogs.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleGetBlogBySlug(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.blogs == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "blogs unavailable")
		return
	}
	slug := strings.TrimSpace(r.PathValue("slug"))
	if slug == "" {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "slug required")
		return
	}
	record, err := api.blogs.GetBySlug(r.Context(), slug)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleCreateBlog(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.blogs == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "blogs unavailable")
		return
	}

	var payload blogPayload
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		payload.Title = formValue(r, "title")
		payload.Summary = formValue(r, "summary")
		payload.Body = formValue(r, "body")
		payload.Category = formValue(r, "category")

		url, err := api.uploadFormImage(r, "image")
		if err != nil {
			api.writeError(w, err)
			return
		}
		payload.Image = url
	} else {
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
			return
		}
	}

	record, err := api.blogs.Create(r.Context(), blogs.CreateBlogRequest{
		Title:    payload.Title,
		Summary:  payload.Summary,
		Body:     payload.Body,
		Category: payload.Category,
		Image:    payload.Image,
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, record)
}

func (api *API) handleUpdateBlog(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.blogs == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "blogs unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	req := blogs.UpdateBlogRequest{ID: id}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		req.Title = optionalFormValue(r, "title")
		req.Summary = optionalFormValue(r, "summary")
		req.Body = optionalFormValue(r, "body")
		req.Category = optionalFormValue(r, "category")

		if hasFormFile(r, "image") {
			existing, err := api.blogs.Get(r.Context(), id)
			if err != nil {
				api.writeError(w, err)
				return
			}
			url, err := api.replaceFormImage(r, "image", existing.Image)
			if err != nil {
				api.writeError(w, err)
				return
			}
			req.Image = &url
		}
	} else {
		var payload blogUpdatePayload
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
			return
		}
		req.Title = payload.Title
		req.Summary = payload.Summary
		req.Body = payload.Body
		req.Category = payload.Category
		req.Image = payload.Image
	}

	record, err := api.blogs.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleDeleteBlog(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.blogs == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "blogs unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	var imageURL string
	if record, err := api.blogs.Get(r.Context(), id); err == nil {
		imageURL = record.Image
	}

	if err := api.blogs.Delete(r.Context(), id); err != nil {
		api.writeError(w, err)
		return
	}
	api.removeImage(r, imageURL)
	writeMessage(w, http.StatusOK, "blog deleted")
}

// uploadFormImage stores the named form file and returns its signed URL. A
// missing file is not an error; the returned URL is empty.
func (api *API) uploadFormImage(r *http.Request, field string) (string, error) {
	if api.media == nil || !hasFormFile(r, field) {
		return "", nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	asset, err := api.media.Upload(r.Context(), media.UploadRequest{Name: header.Filename, Payload: file})
	if err != nil {
		return "", err
	}
	return asset.URL, nil
}

func (api *API) replaceFormImage(r *http.Request, field, oldURL string) (string, error) {
	if api.media == nil || !hasFormFile(r, field) {
		return "", nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()
	asset, err := api.media.Replace(r.Context(), oldURL, media.UploadRequest{Name: header.Filename, Payload: file})
	if err != nil {
		return "", err
	}
	return asset.URL, nil
}

// removeImage deletes the stored object behind a persisted URL, logging and
// swallowing failures.
func (api *API) removeImage(r *http.Request, url string) {
	if api.media == nil || url == "" {
		return
	}
	if err := api.media.Remove(r.Context(), url); err != nil {
		api.logger.Warn("stored image not removed", "url", url, "error", err)
	}
}

func hasFormFile(r *http.Request, field string) bool {
	if r.MultipartForm == nil {
		return false
	}
	files, ok := r.MultipartForm.File[field]
	return ok && len(files) > 0
}
