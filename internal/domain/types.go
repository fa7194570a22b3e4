package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

type OrderState string

const (
	StatePending   OrderState = "pending"
	StateCompleted OrderState = "completed"
	StateFailed    OrderState = "failed"
)

type User struct {
	ID           uuid.UUID       `db:"id"            json:"id"`
	Username     string          `db:"username"      json:"username"`
	Email        string          `db:"email"         json:"email"`
	PasswordHash string          `db:"password_hash" json:"-"`
	Balance      decimal.Decimal `db:"balance"       json:"balance"`
	CreatedAt    time.Time       `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"    json:"updated_at"`
}

type Portfolio struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	UserID    uuid.UUID `db:"user_id"    json:"user_id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Position struct {
	ID          uuid.UUID       `db:"id"           json:"id"`
	PortfolioID uuid.UUID       `db:"portfolio_id" json:"portfolio_id"`
	StockID     uuid.UUID       `db:"stock_id"     json:"stock_id"`
	Quantity    int64           `db:"quantity"     json:"quantity"`
	AvgPrice    decimal.Decimal `db:"avg_price"    json:"average_price"`
	CreatedAt   time.Time       `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"   json:"updated_at"`
}

// Stock is immutable catalog reference data. unit_value is the price
// every trade against the stock executes at.
type Stock struct {
	ID        uuid.UUID       `db:"id"         json:"id"`
	Symbol    string          `db:"symbol"     json:"symbol"`
	Quantity  int64           `db:"quantity"   json:"quantity"`
	UnitValue decimal.Decimal `db:"unit_value" json:"unit_value"`
}

type Broker struct {
	ID   uuid.UUID `db:"id"   json:"id"`
	Name string    `db:"name" json:"name"`
}

type Order struct {
	ID          uuid.UUID       `db:"id"           json:"id"`
	PortfolioID uuid.UUID       `db:"portfolio_id" json:"portfolio_id"`
	BrokerID    *uuid.UUID      `db:"broker_id"    json:"broker_id,omitempty"`
	StockID     uuid.UUID       `db:"stock_id"     json:"stock_id"`
	Side        OrderSide       `db:"side"         json:"side"`
	Amount      decimal.Decimal `db:"amount"       json:"amount"`
	Quantity    int64           `db:"quantity"     json:"stock_quantity"`
	State       OrderState      `db:"state"        json:"state"`
	ExecutedAt  time.Time       `db:"executed_at"  json:"timestamp"`
}

// Transaction is one cash ledger entry. Positive amounts are deposits,
// negative amounts withdrawals. Rows are append-only.
type Transaction struct {
	ID        int64           `db:"id"         json:"id"`
	UserID    uuid.UUID       `db:"user_id"    json:"user_id"`
	Amount    decimal.Decimal `db:"amount"     json:"amount"`
	CreatedAt time.Time       `db:"created_at" json:"timestamp"`
}

// OrderHistory is an order row denormalized with its stock symbol and
// portfolio name for history responses. It is never stored.
type OrderHistory struct {
	ID            uuid.UUID       `db:"id"             json:"id"`
	Side          OrderSide       `db:"side"           json:"type"`
	Symbol        string          `db:"symbol"         json:"stock_symbol"`
	Quantity      int64           `db:"quantity"       json:"quantity"`
	Amount        decimal.Decimal `db:"amount"         json:"amount"`
	PortfolioName string          `db:"portfolio_name" json:"portfolio_name"`
	ExecutedAt    time.Time       `db:"executed_at"    json:"timestamp"`
}
