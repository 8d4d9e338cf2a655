package api

import (
	"encoding/json"
	"net/http"

	"cartbook/internal/metrics"
	"cartbook/internal/models"
)

// LoginRequest is the body for POST /api/login.
type LoginRequest struct {
	User string `json:"user"`
	Pin  string `json:"pin"`
}

// LoginResponse carries the session token and the signed-in user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// handleLogin authenticates a username/PIN pair.
// POST /api/login
func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("login")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	if !s.dep.Auth {
		writeError(w, http.StatusBadRequest, "this deployment does not use login")
		return
	}

	var req LoginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.User == "" || req.Pin == "" {
		writeError(w, http.StatusBadRequest, "user and pin are required")
		return
	}

	token, user, err := s.sessions.Login(r.Context(), req.User, req.Pin)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	// The PIN never leaves the server.
	user.PinCode = ""
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: user})
}

// handleLogout closes the current session.
// POST /api/logout
func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("logout")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	token := r.Header.Get(sessionHeader)
	if token != "" {
		if err := s.sessions.Logout(r.Context(), token); err != nil {
			s.log.Warn().Err(err).Msg("logout failed")
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
