package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderkit/pkg/customer"
	"orderkit/pkg/order"
)

var columns = []string{"id", "customer_id", "customer_address", "tier", "product_ids"}

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func premiumOrder(t *testing.T, id string) order.Order {
	t.Helper()
	c, err := customer.New("c1", "Main St", customer.TierPremium)
	require.NoError(t, err)
	o, err := order.Create(order.RawData{ID: id, Customer: c, ProductIDs: []string{"p1", "p2"}})
	require.NoError(t, err)
	return o
}

func TestMigrate(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS orders").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectExec("INSERT INTO orders").
		WithArgs("o1", "c1", "Main St", "premium", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(ctx, premiumOrder(t, "o1")))

	mock.ExpectExec("INSERT INTO orders").
		WillReturnError(&pq.Error{Code: uniqueViolation})
	err := repo.Create(ctx, premiumOrder(t, "o1"))
	assert.True(t, errors.Is(err, order.ErrDuplicate))

	err = repo.Create(ctx, premiumOrder(t, ""))
	assert.ErrorIs(t, err, order.ErrMissingID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("o1", "c1", "Main St", "premium", "{p1,p2}"))
	o, err := repo.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 1, o.DeliveryDays())
	assert.Equal(t, []string{"p1", "p2"}, o.ProductIDs())
	assert.Equal(t, "Main St", o.CustomerAddress())

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))
	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at, id").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("o1", "c1", "Main St", "premium", "{p1}").
			AddRow("o2", "c2", "Elm St", "standard", "{}"))
	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 3, orders[1].DeliveryDays())
	assert.Empty(t, orders[1].ProductIDs())

	assert.NoError(t, mock.ExpectationsWereMet())
}
