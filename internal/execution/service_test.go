package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/brokerage/internal/domain"
)

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeUsers struct {
	user      *domain.User
	updateErr error
}

func (f *fakeUsers) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrNotFound
	}
	u := *f.user
	return &u, nil
}

func (f *fakeUsers) UpdateBalanceTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.user.Balance = balance
	return nil
}

type fakePortfolios struct {
	items map[uuid.UUID]domain.Portfolio
}

func (f *fakePortfolios) GetOwnedTx(ctx context.Context, tx *sqlx.Tx, id, userID uuid.UUID) (*domain.Portfolio, error) {
	p, ok := f.items[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type posKey struct {
	portfolioID uuid.UUID
	stockID     uuid.UUID
}

type fakePositions struct {
	items map[posKey]domain.Position
}

func (f *fakePositions) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID) (*domain.Position, error) {
	p, ok := f.items[posKey{portfolioID, stockID}]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePositions) UpsertBuyTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID, quantity int64, price decimal.Decimal) error {
	k := posKey{portfolioID, stockID}
	p, ok := f.items[k]
	if !ok {
		f.items[k] = domain.Position{
			ID:          uuid.New(),
			PortfolioID: portfolioID,
			StockID:     stockID,
			Quantity:    quantity,
			AvgPrice:    price,
		}
		return nil
	}
	cost := p.AvgPrice.Mul(decimal.NewFromInt(p.Quantity)).
		Add(price.Mul(decimal.NewFromInt(quantity)))
	p.Quantity += quantity
	p.AvgPrice = cost.Div(decimal.NewFromInt(p.Quantity)).Round(2)
	f.items[k] = p
	return nil
}

func (f *fakePositions) SetQuantityTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID, quantity int64) error {
	k := posKey{portfolioID, stockID}
	p := f.items[k]
	p.Quantity = quantity
	f.items[k] = p
	return nil
}

func (f *fakePositions) DeleteTx(ctx context.Context, tx *sqlx.Tx, portfolioID, stockID uuid.UUID) error {
	delete(f.items, posKey{portfolioID, stockID})
	return nil
}

type fakeOrders struct {
	orders []domain.Order
	err    error
}

func (f *fakeOrders) InsertTx(ctx context.Context, tx *sqlx.Tx, o *domain.Order) error {
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, *o)
	return nil
}

type fakeCatalog struct {
	stocks  map[uuid.UUID]domain.Stock
	brokers map[uuid.UUID]domain.Broker
}

func (f *fakeCatalog) GetStockTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Stock, error) {
	s, ok := f.stocks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (f *fakeCatalog) GetBrokerTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*domain.Broker, error) {
	b, ok := f.brokers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

type fixture struct {
	svc        *Service
	users      *fakeUsers
	positions  *fakePositions
	orders     *fakeOrders
	userID     uuid.UUID
	portfolio  uuid.UUID
	stockID    uuid.UUID
	otherOwner uuid.UUID
	theirPf    uuid.UUID
}

func newFixture(t *testing.T, balance int64, unitValue int64) *fixture {
	t.Helper()
	userID := uuid.New()
	otherOwner := uuid.New()
	portfolioID := uuid.New()
	theirPf := uuid.New()
	stockID := uuid.New()

	users := &fakeUsers{user: &domain.User{ID: userID, Balance: decimal.NewFromInt(balance)}}
	portfolios := &fakePortfolios{items: map[uuid.UUID]domain.Portfolio{
		portfolioID: {ID: portfolioID, UserID: userID, Name: "Trading Account"},
		theirPf:     {ID: theirPf, UserID: otherOwner, Name: "Not Yours"},
	}}
	positions := &fakePositions{items: map[posKey]domain.Position{}}
	orders := &fakeOrders{}
	cat := &fakeCatalog{
		stocks:  map[uuid.UUID]domain.Stock{stockID: {ID: stockID, Symbol: "AAPL", UnitValue: decimal.NewFromInt(unitValue)}},
		brokers: map[uuid.UUID]domain.Broker{},
	}

	svc := NewService(fakeTxRunner{}, users, portfolios, positions, orders, cat)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{
		svc:        svc,
		users:      users,
		positions:  positions,
		orders:     orders,
		userID:     userID,
		portfolio:  portfolioID,
		stockID:    stockID,
		otherOwner: otherOwner,
		theirPf:    theirPf,
	}
}

func TestBuyOrderDebitsBalanceAndRecordsOrder(t *testing.T) {
	f := newFixture(t, 1000, 100)

	result, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(800)))
	assert.True(t, f.users.user.Balance.Equal(decimal.NewFromInt(800)))

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, result.OrderID, order.ID)
	assert.Equal(t, domain.SideBuy, order.Side)
	assert.Equal(t, domain.StateCompleted, order.State)
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, int64(2), order.Quantity)
	assert.False(t, order.ExecutedAt.IsZero())
	assert.Nil(t, order.BrokerID)

	pos := f.positions.items[posKey{f.portfolio, f.stockID}]
	assert.Equal(t, int64(2), pos.Quantity)
	assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(100)))
}

func TestBuyOrderInsufficientFunds(t *testing.T) {
	f := newFixture(t, 50, 100)

	_, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.True(t, f.users.user.Balance.Equal(decimal.NewFromInt(50)), "balance must be untouched")
	assert.Empty(t, f.orders.orders, "no order row on rejection")
}

func TestBuyOrderExactBalanceSucceeds(t *testing.T) {
	f := newFixture(t, 200, 100)

	result, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.Zero))
	assert.False(t, result.NewBalance.IsNegative())
}

func TestOrderAgainstForeignPortfolio(t *testing.T) {
	f := newFixture(t, 1000, 100)

	_, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.theirPf, f.stockID, nil, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"another user's portfolio must look like a missing one")
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Empty(t, f.orders.orders)
}

func TestOrderUnknownStock(t *testing.T) {
	f := newFixture(t, 1000, 100)

	_, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, uuid.New(), nil, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderUnknownBroker(t *testing.T) {
	f := newFixture(t, 1000, 100)
	brokerID := uuid.New()

	_, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, &brokerID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, 1000, 100)

	for _, qty := range []int64{0, -3} {
		_, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		_, err = f.svc.PlaceSellOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
}

func TestBuyAccumulatesPositionAveragePrice(t *testing.T) {
	f := newFixture(t, 10000, 100)

	_, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	require.NoError(t, err)
	_, err = f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 3)
	require.NoError(t, err)

	pos := f.positions.items[posKey{f.portfolio, f.stockID}]
	assert.Equal(t, int64(5), pos.Quantity)
	assert.True(t, pos.AvgPrice.Equal(decimal.NewFromInt(100)))
}

func TestSellOrderCreditsBalanceAndDecrementsPosition(t *testing.T) {
	f := newFixture(t, 100, 100)
	f.positions.items[posKey{f.portfolio, f.stockID}] = domain.Position{
		PortfolioID: f.portfolio, StockID: f.stockID, Quantity: 5,
		AvgPrice: decimal.NewFromInt(90),
	}

	result, err := f.svc.PlaceSellOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	require.NoError(t, err)
	assert.True(t, result.NewBalance.Equal(decimal.NewFromInt(300)))

	pos := f.positions.items[posKey{f.portfolio, f.stockID}]
	assert.Equal(t, int64(3), pos.Quantity)

	require.Len(t, f.orders.orders, 1)
	assert.Equal(t, domain.SideSell, f.orders.orders[0].Side)
	assert.Equal(t, domain.StateCompleted, f.orders.orders[0].State)
	assert.True(t, f.orders.orders[0].Amount.Equal(decimal.NewFromInt(200)))
}

func TestSellOrderDeletesEmptiedPosition(t *testing.T) {
	f := newFixture(t, 0, 100)
	f.positions.items[posKey{f.portfolio, f.stockID}] = domain.Position{
		PortfolioID: f.portfolio, StockID: f.stockID, Quantity: 2,
		AvgPrice: decimal.NewFromInt(100),
	}

	_, err := f.svc.PlaceSellOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	require.NoError(t, err)

	_, held := f.positions.items[posKey{f.portfolio, f.stockID}]
	assert.False(t, held, "fully sold position must be removed")
}

func TestOrderInsertFailureSurfaces(t *testing.T) {
	f := newFixture(t, 1000, 100)
	storeErr := errors.New("connection reset by peer")
	f.orders.err = storeErr

	result, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	assert.ErrorIs(t, err, storeErr, "the store failure must surface, wrapped")
	assert.Nil(t, result)
	assert.Empty(t, f.orders.orders)
}

func TestBalanceUpdateFailureSurfaces(t *testing.T) {
	f := newFixture(t, 1000, 100)
	storeErr := errors.New("connection reset by peer")
	f.users.updateErr = storeErr

	result, err := f.svc.PlaceBuyOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	assert.ErrorIs(t, err, storeErr)
	assert.Nil(t, result)
	assert.True(t, f.users.user.Balance.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, f.orders.orders, "no order row may follow a failed balance write")
}

func TestSellOrderWithoutSufficientShares(t *testing.T) {
	f := newFixture(t, 100, 100)

	// No position at all.
	_, err := f.svc.PlaceSellOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)

	// Held quantity smaller than the order.
	f.positions.items[posKey{f.portfolio, f.stockID}] = domain.Position{
		PortfolioID: f.portfolio, StockID: f.stockID, Quantity: 1,
		AvgPrice: decimal.NewFromInt(100),
	}
	_, err = f.svc.PlaceSellOrder(context.Background(), f.userID, f.portfolio, f.stockID, nil, 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)

	assert.True(t, f.users.user.Balance.Equal(decimal.NewFromInt(100)))
	assert.Empty(t, f.orders.orders)
}
