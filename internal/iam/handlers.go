package iam

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/monitoring"
)

// Handlers exposes the authentication endpoints.
type Handlers struct {
	users     *UserRepository
	passwords *PasswordManager
	tokens    *TokenManager
	limiter   *LoginRateLimiter
	metrics   *monitoring.MetricsCollector
	logger    *logger.Logger
}

// NewHandlers creates the authentication handlers. A nil limiter disables
// login throttling.
func NewHandlers(users *UserRepository, passwords *PasswordManager, tokens *TokenManager, limiter *LoginRateLimiter, metrics *monitoring.MetricsCollector, log *logger.Logger) *Handlers {
	return &Handlers{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		limiter:   limiter,
		metrics:   metrics,
		logger:    log,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/auth/login", h.Login).Methods("POST")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Login authenticates a user by email and password and issues a session
// token. Invalid credentials always produce the same 401 regardless of
// whether the account exists.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(clientKey(r)) {
		h.logger.WithFields(map[string]interface{}{"email": req.Email}).Warn("Login throttled")
		h.recordLogin("throttled")
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts, try again later"})
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			h.rejectLogin(w, req.Email)
			return
		}
		h.logger.WithError(err).Error("User lookup failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	ok, err := h.passwords.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		h.logger.WithError(err).Error("Password verification failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}
	if !ok {
		h.rejectLogin(w, req.Email)
		return
	}

	token, err := h.tokens.Issue(user.SessionUser())
	if err != nil {
		h.logger.WithError(err).Error("Token issuance failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	if h.limiter != nil {
		h.limiter.Reset(clientKey(r))
	}
	h.recordLogin("success")
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Role: string(user.Role)})
}

func (h *Handlers) recordLogin(status string) {
	if h.metrics != nil {
		h.metrics.RecordLoginAttempt(status)
	}
}

func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return r.RemoteAddr
}

func (h *Handlers) rejectLogin(w http.ResponseWriter, email string) {
	h.logger.WithFields(map[string]interface{}{"email": email}).Warn("Login rejected")
	h.recordLogin("rejected")
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
