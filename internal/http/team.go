package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/magvolt/sitecms/internal/team"
)

type memberPayload struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
}

type memberUpdatePayload struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
	Email    *string `json:"email"`
	LinkedIn *string `json:"linkedin"`
}

func (api *API) registerTeamRoutes(mux *http.ServeMux, base string) {
	if mux == nil {
		return
	}
	root := joinPath(base, "teams")
	mux.HandleFunc("GET "+root, api.handleListMembers)
	mux.HandleFunc("POST "+root, api.requireAdmin(api.handleCreateMember))
	mux.HandleFunc("GET "+root+"/{id}", api.handleGetMember)
	mux.HandleFunc("PUT "+root+"/{id}", api.requireAdmin(api.handleUpdateMember))
	mux.HandleFunc("DELETE "+root+"/{id}", api.requireAdmin(api.handleDeleteMember))
}

func (api *API) handleListMembers(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.team == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "teams unavailable")
		return
	}
	force := parseBoolQuery(r.URL.Query().Get("force"), false)
	records, err := api.team.List(r.Context(), force)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}

func (api *API) handleGetMember(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.team == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "teams unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}
	record, err := api.team.Get(r.Context(), id)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.team == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "teams unavailable")
		return
	}

	var payload memberPayload
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		payload.Name = formValue(r, "name")
		payload.Position = formValue(r, "position")
		payload.Bio = formValue(r, "bio")
		payload.Email = formValue(r, "email")
		payload.LinkedIn = formValue(r, "linkedin")

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

	record, err := api.team.Create(r.Context(), team.CreateMemberRequest{
		Name:     payload.Name,
		Position: payload.Position,
		Bio:      payload.Bio,
		Image:    payload.Image,
		Email:    payload.Email,
		LinkedIn: payload.LinkedIn,
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, record)
}

func (api *API) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.team == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "teams unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	req := team.UpdateMemberRequest{ID: id}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed multipart payload")
			return
		}
		req.Name = optionalFormValue(r, "name")
		req.Position = optionalFormValue(r, "position")
		req.Bio = optionalFormValue(r, "bio")
		req.Email = optionalFormValue(r, "email")
		req.LinkedIn = optionalFormValue(r, "linkedin")

		if hasFormFile(r, "image") {
			existing, err := api.team.Get(r.Context(), id)
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
		var payload memberUpdatePayload
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
			return
		}
		req.Name = payload.Name
		req.Position = payload.Position
		req.Bio = payload.Bio
		req.Image = payload.Image
		req.Email = payload.Email
		req.LinkedIn = payload.LinkedIn
	}

	record, err := api.team.Update(r.Context(), req)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, record)
}

func (api *API) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.team == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "teams unavailable")
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return
	}

	var imageURL string
	if record, err := api.team.Get(r.Context(), id); err == nil {
		imageURL = record.Image
	}

	if err := api.team.Delete(r.Context(), id); err != nil {
		api.writeError(w, err)
		return
	}
	api.removeImage(r, imageURL)
	writeMessage(w, http.StatusOK, "team member deleted")
}
