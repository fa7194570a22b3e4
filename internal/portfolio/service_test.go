package portfolio

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/brokerage/internal/domain"
)

type fakeStore struct {
	items map[uuid.UUID]domain.Portfolio
}

func (f *fakeStore) Create(ctx context.Context, p *domain.Portfolio) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.items[p.ID] = *p
	return nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Portfolio, error) {
	var out []domain.Portfolio
	for _, p := range f.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Rename(ctx context.Context, id, userID uuid.UUID, newName string) error {
	p, ok := f.items[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	p.Name = newName
	f.items[id] = p
	return nil
}

type fakePositions struct {
	items map[uuid.UUID][]domain.Position
}

func (f *fakePositions) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]domain.Position, error) {
	return f.items[portfolioID], nil
}

type fakeOrders struct {
	items map[uuid.UUID][]domain.Order
}

func (f *fakeOrders) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID, side domain.OrderSide) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range f.items[portfolioID] {
		if o.Side == side {
			out = append(out, o)
		}
	}
	return out, nil
}

func newFixture() (*Service, *fakeStore, *fakePositions, *fakeOrders) {
	store := &fakeStore{items: map[uuid.UUID]domain.Portfolio{}}
	positions := &fakePositions{items: map[uuid.UUID][]domain.Position{}}
	orders := &fakeOrders{items: map[uuid.UUID][]domain.Order{}}
	return NewService(store, positions, orders), store, positions, orders
}

func TestCreateRequiresName(t *testing.T) {
	svc, store, _, _ := newFixture()

	for _, name := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), uuid.New(), name)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	assert.Empty(t, store.items)
}

func TestCreateAllowsDuplicateNames(t *testing.T) {
	svc, store, _, _ := newFixture()
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, "Trading Account")
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), userID, "Trading Account")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.items, 2)
}

func TestListAttachesNestedRecords(t *testing.T) {
	svc, _, positions, orders := newFixture()
	userID := uuid.New()
	stockID := uuid.New()

	p, err := svc.Create(context.Background(), userID, "Trading Account")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), uuid.New(), "Someone Else's")
	require.NoError(t, err)

	positions.items[p.ID] = []domain.Position{{PortfolioID: p.ID, StockID: stockID, Quantity: 4}}
	orders.items[p.ID] = []domain.Order{
		{PortfolioID: p.ID, StockID: stockID, Side: domain.SideBuy, State: domain.StateCompleted},
		{PortfolioID: p.ID, StockID: stockID, Side: domain.SideSell, State: domain.StateCompleted},
	}

	views, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, views, 1, "only the caller's portfolios are listed")

	view := views[0]
	assert.Equal(t, p.ID, view.ID)
	assert.Equal(t, "Trading Account", view.Name)
	require.Len(t, view.Positions, 1)
	assert.Equal(t, int64(4), view.Positions[0].Quantity)
	require.Len(t, view.BuyOrders, 1)
	require.Len(t, view.SellOrders, 1)
}

func TestRenameOwnershipScoped(t *testing.T) {
	svc, store, _, _ := newFixture()
	owner := uuid.New()
	stranger := uuid.New()

	p, err := svc.Create(context.Background(), owner, "Old Name")
	require.NoError(t, err)

	err = svc.Rename(context.Background(), stranger, p.ID, "Hijacked")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Old Name", store.items[p.ID].Name)

	require.NoError(t, svc.Rename(context.Background(), owner, p.ID, "New Name"))
	assert.Equal(t, "New Name", store.items[p.ID].Name)
}

func TestRenameRequiresName(t *testing.T) {
	svc, _, _, _ := newFixture()

	err := svc.Rename(context.Background(), uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
