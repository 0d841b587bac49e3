package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// GormRepo query methods take the handle to run on explicitly: either the
// plain connection from Conn or the transaction passed in by InTx.
type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Conn(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx)
}

// InTx commits when fn returns nil and rolls back everything otherwise.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(fn)
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
