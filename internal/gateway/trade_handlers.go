package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourorg/brokerage/internal/auth"
	"github.com/yourorg/brokerage/internal/domain"
	"github.com/yourorg/brokerage/internal/execution"
)

func (h *Handlers) GetStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.catalog.ListStocks(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stocks": stocks})
}

func (h *Handlers) GetBrokers(w http.ResponseWriter, r *http.Request) {
	brokers, err := h.catalog.ListBrokers(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"brokers": brokers})
}

type registerOrderRequest struct {
	PortfolioID   uuid.UUID  `json:"portfolio_id"`
	StockID       uuid.UUID  `json:"stock_id"`
	BrokerID      *uuid.UUID `json:"broker_id,omitempty"`
	StockQuantity int64      `json:"stock_quantity"`
	// Amount is informational only; the engine recomputes the
	// authoritative total from the catalog price.
	Amount decimal.Decimal `json:"amount"`
}

type orderResponse struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"new_balance"`
	OrderID    uuid.UUID       `json:"order_id"`
}

func (h *Handlers) RegisterBuyOrder(w http.ResponseWriter, r *http.Request) {
	h.registerOrder(w, r, domain.SideBuy)
}

func (h *Handlers) RegisterSellOrder(w http.ResponseWriter, r *http.Request) {
	h.registerOrder(w, r, domain.SideSell)
}

func (h *Handlers) registerOrder(w http.ResponseWriter, r *http.Request, side domain.OrderSide) {
	userID := auth.UserIDFromCtx(r.Context())
	var req registerOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		result *execution.Result
		err    error
	)
	if side == domain.SideBuy {
		result, err = h.execSvc.PlaceBuyOrder(r.Context(), userID, req.PortfolioID, req.StockID, req.BrokerID, req.StockQuantity)
	} else {
		result, err = h.execSvc.PlaceSellOrder(r.Context(), userID, req.PortfolioID, req.StockID, req.BrokerID, req.StockQuantity)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{
		Message:    "order registered successfully",
		NewBalance: result.NewBalance,
		OrderID:    result.OrderID,
	})
}

func (h *Handlers) GetPortfolios(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	views, err := h.portfolios.List(r.Context(), userID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

type createPortfolioRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var req createPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := h.portfolios.Create(r.Context(), userID, req.Name)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

type updatePortfolioNameRequest struct {
	PortfolioID uuid.UUID `json:"portfolio_id"`
	NewName     string    `json:"new_name"`
}

func (h *Handlers) UpdatePortfolioName(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var req updatePortfolioNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.portfolios.Rename(r.Context(), userID, req.PortfolioID, req.NewName); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "portfolio name updated"})
}

type fundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type fundsResponse struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"new_balance"`
}

func (h *Handlers) AddFunds(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newBalance, err := h.ledger.AddFunds(r.Context(), userID, req.Amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fundsResponse{Message: "funds added successfully", NewBalance: newBalance})
}

func (h *Handlers) RetireFunds(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	newBalance, err := h.ledger.WithdrawFunds(r.Context(), userID, req.Amount)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fundsResponse{Message: "funds withdrawn successfully", NewBalance: newBalance})
}

func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromCtx(r.Context())
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	result, err := h.history.GetHistory(r.Context(), userID, limit)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
