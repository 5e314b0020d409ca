package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/magvolt/sitecms/internal/auth"
	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/leads"
	"github.com/magvolt/sitecms/internal/media"
	"github.com/magvolt/sitecms/internal/offerings"
	"github.com/magvolt/sitecms/internal/products"
	"github.com/magvolt/sitecms/internal/team"
)

// envelope is the uniform response shape every endpoint returns. Successful
// responses carry data or message; failures carry errorCode and a sanitized
// errorMessage.
type envelope struct {
	StatusCode   int    `json:"statusCode"`
	Message      string `json:"message,omitempty"`
	Data         any    `json:"data,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{StatusCode: status, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{StatusCode: status, Message: message})
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{
		StatusCode:   status,
		ErrorCode:    code,
		ErrorMessage: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (api *API) writeError(w http.ResponseWriter, err error) {
	status, code, message := mapError(err)
	if status >= http.StatusInternalServerError {
		api.logger.Error("request failed", "error", err)
	}
	writeErrorCode(w, status, code, message)
}

// mapError converts service failures into the external error taxonomy. Raw
// upstream errors never reach clients; they are logged server-side and the
// caller sees a generic message.
func mapError(err error) (status int, code, message string) {
	if err == nil {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}

	if isNotFound(err) {
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	}

	if errors.Is(err, blogs.ErrTitleExists) {
		return http.StatusConflict, "DUPLICATE_SLUG", "a blog with this title already exists"
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"
	}
	if errors.Is(err, auth.ErrTokenInvalid) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"
	}

	var fieldErrors validation.Errors
	if errors.As(err, &fieldErrors) {
		return http.StatusBadRequest, "VALIDATION_ERROR", fieldErrors.Error()
	}

	if isValidationSentinel(err) {
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	}

	return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
}

func isNotFound(err error) bool {
	var blogNF *blogs.NotFoundError
	var productNF *products.NotFoundError
	var offeringNF *offerings.NotFoundError
	var memberNF *team.NotFoundError
	var leadNF *leads.NotFoundError
	var adminNF *auth.NotFoundError
	return errors.As(err, &blogNF) ||
		errors.As(err, &productNF) ||
		errors.As(err, &offeringNF) ||
		errors.As(err, &memberNF) ||
		errors.As(err, &leadNF) ||
		errors.As(err, &adminNF)
}

func isValidationSentinel(err error) bool {
	for _, sentinel := range []error{
		blogs.ErrTitleRequired,
		blogs.ErrSummaryRequired,
		blogs.ErrIDRequired,
		products.ErrNameRequired,
		products.ErrSummaryRequired,
		products.ErrPowerRequired,
		products.ErrIDRequired,
		products.ErrSpecInvalid,
		offerings.ErrTitleRequired,
		offerings.ErrDescriptionRequired,
		offerings.ErrIDRequired,
		team.ErrNameRequired,
		team.ErrPositionRequired,
		team.ErrIDRequired,
		leads.ErrIDRequired,
		leads.ErrStatusInvalid,
		media.ErrNotAnImage,
		media.ErrPayloadRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func parseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, errors.New("uuid required")
	}
	return uuid.Parse(trimmed)
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func optionalFormValue(r *http.Request, key string) *string {
	if r.Form == nil {
		return nil
	}
	if _, ok := r.Form[key]; !ok {
		if r.MultipartForm == nil {
			return nil
		}
		if _, ok := r.MultipartForm.Value[key]; !ok {
			return nil
		}
	}
	value := strings.TrimSpace(r.FormValue(key))
	return &value
}

func formStringSlice(r *http.Request, key string) ([]string, bool) {
	raw := formValue(r, key)
	if raw == "" {
		return nil, false
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return out, true
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts, true
}
