package api

import (
	"log"
	"net/http"
	"time"

	"github.com/example/catalog-browser/internal/api/middleware"
	"github.com/example/catalog-browser/internal/auth"
	"github.com/example/catalog-browser/internal/command"
	"github.com/example/catalog-browser/internal/query"
)

// SessionHandlers issues and ends catalog sessions
type SessionHandlers struct {
	cmdHandler *command.Handler
	jwtService *auth.JWTService
}

func NewSessionHandlers(cmdHandler *command.Handler, jwtService *auth.JWTService) *SessionHandlers {
	return &SessionHandlers{
		cmdHandler: cmdHandler,
		jwtService: jwtService,
	}
}

// SessionResponse is returned when a session is created
type SessionResponse struct {
	SessionID string             `json:"session_id"`
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	Catalog   *query.CatalogView `json:"catalog"`
}

// CreateSession starts a session, loads its products and sets the session cookie
func (h *SessionHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, state, err := h.cmdHandler.CreateSession(r.Context())
	if err != nil {
		respondCommandError(w, err)
		return
	}

	token, expiresAt, err := h.jwtService.GenerateSessionToken(sessionID)
	if err != nil {
		log.Printf("[API] Failed to sign session token: %v", err)
		respondJSONError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	view := query.BuildCatalogView(state)
	view.SessionID = sessionID
	respondJSON(w, http.StatusCreated, SessionResponse{
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: expiresAt,
		Catalog:   view,
	})
}

// EndSession drops the session and clears the cookie
func (h *SessionHandlers) EndSession(w http.ResponseWriter, r *http.Request) {
	err := h.cmdHandler.EndSession(r.Context(), command.EndSession{SessionID: middleware.GetSessionID(r.Context())})
	if err != nil {
		respondCommandError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session ended"})
}
