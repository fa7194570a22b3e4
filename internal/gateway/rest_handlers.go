package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/brokerage/internal/auth"
	"github.com/yourorg/brokerage/internal/catalog"
	"github.com/yourorg/brokerage/internal/config"
	"github.com/yourorg/brokerage/internal/domain"
	"github.com/yourorg/brokerage/internal/execution"
	"github.com/yourorg/brokerage/internal/history"
	"github.com/yourorg/brokerage/internal/ledger"
	"github.com/yourorg/brokerage/internal/portfolio"
	pgRepo "github.com/yourorg/brokerage/internal/repository/postgres"
)

type Handlers struct {
	users      *pgRepo.UserRepo
	ledger     *ledger.Service
	execSvc    *execution.Service
	portfolios *portfolio.Service
	catalog    *catalog.Service
	history    *history.Service
	tokens     *auth.TokenService
	cfg        *config.Config
	logger     *slog.Logger
}

func NewHandlers(
	users *pgRepo.UserRepo,
	ledgerSvc *ledger.Service,
	execSvc *execution.Service,
	portfolios *portfolio.Service,
	catalogSvc *catalog.Service,
	historySvc *history.Service,
	tokens *auth.TokenService,
	cfg *config.Config,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		users:      users,
		ledger:     ledgerSvc,
		execSvc:    execSvc,
		portfolios: portfolios,
		catalog:    catalogSvc,
		history:    historySvc,
		tokens:     tokens,
		cfg:        cfg,
		logger:     logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Unknown user and wrong password produce the same response.
	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token := h.tokens.Issue(user.ID, time.Now().UTC())
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(h.tokens.Expiry().Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "login successful"})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateInfoRequest struct {
	Username        *string `json:"username,omitempty"`
	Email           *string `json:"email,omitempty"`
	NewPassword     *string `json:"new_password,omitempty"`
	CurrentPassword *string `json:"current_password,omitempty"`
}

func (h *Handlers) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var req updateInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == nil && req.Email == nil && req.NewPassword == nil {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	var passwordHash *string
	if req.NewPassword != nil {
		user, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			h.respondError(w, err)
			return
		}
		if req.CurrentPassword == nil || !auth.CheckPassword(*req.CurrentPassword, user.PasswordHash) {
			writeError(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		hash, err := auth.HashPassword(*req.NewPassword)
		if err != nil {
			h.respondError(w, err)
			return
		}
		passwordHash = &hash
	}

	if err := h.users.UpdateProfile(r.Context(), userID, req.Username, req.Email, passwordHash); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// respondError maps the domain failure taxonomy to HTTP statuses.
// Anything unrecognized is logged and answered with a generic 500 so
// storage details never leak to the caller.
func (h *Handlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, domain.ErrInsufficientShares):
		writeError(w, http.StatusBadRequest, "insufficient shares held")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
