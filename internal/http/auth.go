package http

import (
	"net/http"
	"time"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (api *API) registerAuthRoutes(mux *http.ServeMux, base string) {
	if mux == nil || api.auth == nil {
		return
	}
	root := joinPath(base, "auth")
	mux.HandleFunc("POST "+root+"/login", api.handleLogin)
	mux.HandleFunc("POST "+root+"/logout", api.handleLogout)
}

func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.auth == nil {
		writeErrorCode(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "auth unavailable")
		return
	}

	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "malformed json payload")
		return
	}

	session, err := api.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		api.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeData(w, http.StatusOK, loginResponse{
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

func (api *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     api.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, http.StatusOK, "logged out")
}
