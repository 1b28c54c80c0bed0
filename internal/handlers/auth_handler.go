package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"ottica-backend/internal/auth"
	"ottica-backend/internal/cache"
	"ottica-backend/internal/config"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// AuthHandler authenticates the single operator account configured for the
// shop and issues the session token.
type AuthHandler struct {
	Cfg        *config.Config
	JWTManager *auth.JWTManager
}

func NewAuthHandler(cfg *config.Config, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Cfg: cfg, JWTManager: jwtManager}
}

// Login verifies the operator credentials and returns a JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	op := h.Cfg.Operator
	ctx := context.Background()

	// Cached verification skips the bcrypt compare on repeat logins
	if uid, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok || uid != op.UID {
		if req.Email != op.Email || !auth.VerifyPassword(op.PasswordHash, req.Password) {
			http.Error(w, "Credenziali non valide", http.StatusUnauthorized)
			return
		}
		cache.CacheAuth(ctx, req.Email, req.Password, op.UID)
	}

	token, err := h.JWTManager.GenerateToken(op.UID, op.Email)
	if err != nil {
		http.Error(w, "Token generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token, UID: op.UID, Email: op.Email})
}
