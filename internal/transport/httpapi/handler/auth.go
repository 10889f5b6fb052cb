package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avaldes/walletbook/internal/platform/client"
	"github.com/avaldes/walletbook/internal/platform/wallet"
	"github.com/avaldes/walletbook/internal/transport/httpapi/middleware"
)

// ClientServiceInterface defines the client identity operations used by AuthHandler
type ClientServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*client.Client, error)
	Login(ctx context.Context, email, password string) (*client.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error)
}

// WalletListerInterface lists a client's live wallets for the profile view
type WalletListerInterface interface {
	List(ctx context.Context, clientID uuid.UUID) ([]*wallet.Wallet, error)
}

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	clients ClientServiceInterface
	wallets WalletListerInterface
	jwt     *middleware.JWTService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(clients ClientServiceInterface, wallets WalletListerInterface, jwt *middleware.JWTService) *AuthHandler {
	return &AuthHandler{
		clients: clients,
		wallets: wallets,
		jwt:     jwt,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ClientResponse represents a client profile in responses
type ClientResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	Token  string         `json:"token"`
	Client ClientResponse `json:"client"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.clients.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.jwt.GenerateToken(c.ID, c.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{Token: token, Client: toClientResponse(c)}, http.StatusCreated)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.clients.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.jwt.GenerateToken(c.ID, c.Email)
	if err != nil {
		respondError(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, AuthResponse{Token: token, Client: toClientResponse(c)}, http.StatusOK)
}

// MeResponse represents the authenticated client's profile with its wallets
type MeResponse struct {
	ClientResponse
	Wallets []*wallet.Wallet `json:"wallets"`
}

// Me handles GET /me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	c, err := h.clients.GetByID(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	wallets, err := h.wallets.List(r.Context(), clientID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, MeResponse{ClientResponse: toClientResponse(c), Wallets: wallets}, http.StatusOK)
}

func toClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
