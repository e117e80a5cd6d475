package handlers

import (
	"encoding/json"
	"net/http"

	pkgauth "github.com/matiasleandrokruk/puente/pkg/auth"
)

// TokenHandler issues JWTs to the single configured API client.
// Public endpoint — this is how callers obtain credentials for /api/v1/*.
type TokenHandler struct {
	clientID   string
	secretHash string
}

// NewTokenHandler creates a TokenHandler for the configured client id and
// bcrypt secret hash.
func NewTokenHandler(clientID, secretHash string) *TokenHandler {
	return &TokenHandler{clientID: clientID, secretHash: secretHash}
}

// TokenRequest is the request body for POST /auth/token.
type TokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// TokenResponse is returned after a successful credential check.
type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken handles POST /auth/token.
//
// Response codes:
//   - 200 OK: credentials valid, token issued
//   - 400 Bad Request: invalid JSON or missing fields
//   - 401 Unauthorized: unknown client or wrong secret
//   - 503 Service Unavailable: no API client configured
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if h.clientID == "" || h.secretHash == "" {
		writeError(w, http.StatusServiceUnavailable, "API authentication is not configured")
		return
	}

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		writeError(w, http.StatusBadRequest, "clientId and clientSecret are required")
		return
	}

	// Same response for unknown client and wrong secret.
	if req.ClientID != h.clientID || !pkgauth.VerifySecret(h.secretHash, req.ClientSecret) {
		writeError(w, http.StatusUnauthorized, "invalid client credentials")
		return
	}

	token, err := pkgauth.GenerateJWT(req.ClientID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}
