package repo_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcarts/internal/db"
	"github.com/Skotchmaster/shopcarts/internal/models"
	"github.com/Skotchmaster/shopcarts/internal/repo"
)

func setupMockDB(t *testing.T) (*repo.GormRepo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return &repo.GormRepo{DB: gormDB}, mock
}

func setupMemoryDB(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return &repo.GormRepo{DB: gdb}
}

func TestInTx_CommitsOnSuccess(t *testing.T) {
	r, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "shopcarts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"shopcart_id"}).AddRow(1))
	mock.ExpectCommit()

	cart := &models.ShopCart{CustomerID: 42}
	err := r.InTx(context.Background(), func(tx *gorm.DB) error {
		return r.CreateShopCart(tx, cart)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, cart.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackFailedInsert(t *testing.T) {
	r, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "shopcarts"`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := r.InTx(context.Background(), func(tx *gorm.DB) error {
		return r.CreateShopCart(tx, &models.ShopCart{CustomerID: 42})
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackFailedUpdate(t *testing.T) {
	r, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "shopcarts"`)).
		WillReturnError(errors.New("update failed"))
	mock.ExpectRollback()

	err := r.InTx(context.Background(), func(tx *gorm.DB) error {
		return r.UpdateShopCart(tx, &models.ShopCart{ID: 3, CustomerID: 7})
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTx_RollsBackPartialDelete(t *testing.T) {
	r, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "items"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "shopcarts"`)).
		WillReturnError(errors.New("delete failed"))
	mock.ExpectRollback()

	err := r.InTx(context.Background(), func(tx *gorm.DB) error {
		_, err := r.DeleteShopCart(tx, 3)
		return err
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindShopCart_NotFound(t *testing.T) {
	r, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "shopcarts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"shopcart_id", "customer_id"}))

	cart, err := r.FindShopCart(r.Conn(context.Background()), 9)
	require.Error(t, err)
	assert.True(t, repo.IsNotFound(err))
	assert.Nil(t, cart)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, repo.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, repo.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, repo.IsUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, repo.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, repo.IsUniqueViolation(errors.New("boom")))
	assert.False(t, repo.IsUniqueViolation(nil))
}

func TestShopCarts_Memory(t *testing.T) {
	r := setupMemoryDB(t)
	conn := r.Conn(context.Background())

	a := &models.ShopCart{CustomerID: 1}
	b := &models.ShopCart{CustomerID: 2}
	require.NoError(t, r.CreateShopCart(conn, a))
	require.NoError(t, r.CreateShopCart(conn, b))

	err := r.CreateShopCart(conn, &models.ShopCart{CustomerID: 1})
	require.Error(t, err)
	assert.True(t, repo.IsUniqueViolation(err))

	all, err := r.ListShopCarts(conn, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)

	customer := 2
	only, err := r.ListShopCarts(conn, &customer)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, b.ID, only[0].ID)

	found, err := r.FindShopCartByCustomer(conn, 1)
	require.NoError(t, err)
	assert.Equal(t, a.ID, found.ID)

	deleted, err := r.DeleteShopCart(conn, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = r.DeleteShopCart(conn, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestItems_Memory(t *testing.T) {
	r := setupMemoryDB(t)
	conn := r.Conn(context.Background())

	cart := &models.ShopCart{CustomerID: 5}
	other := &models.ShopCart{CustomerID: 6}
	require.NoError(t, r.CreateShopCart(conn, cart))
	require.NoError(t, r.CreateShopCart(conn, other))

	for _, qty := range []int{1, 2, 3} {
		item, err := models.NewItem(cart.ID, 100+qty, qty, decimal.NewFromInt(int64(qty)))
		require.NoError(t, err)
		require.NoError(t, r.CreateItem(conn, item))
	}

	items, err := r.ListItems(conn, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Less(t, items[0].ID, items[1].ID)

	_, err = r.FindItem(conn, other.ID, items[0].ID)
	assert.True(t, repo.IsNotFound(err))

	deleted, err := r.DeleteItem(conn, other.ID, items[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = r.DeleteItem(conn, cart.ID, items[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	removed, err := r.ClearShopCart(conn, cart.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = r.ClearShopCart(conn, cart.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)

	empty, err := r.ListItems(conn, cart.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestInTx_RollsBackMemory(t *testing.T) {
	r := setupMemoryDB(t)
	ctx := context.Background()

	err := r.InTx(ctx, func(tx *gorm.DB) error {
		if err := r.CreateShopCart(tx, &models.ShopCart{CustomerID: 77}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	carts, err := r.ListShopCarts(r.Conn(ctx), nil)
	require.NoError(t, err)
	assert.Empty(t, carts)
}
