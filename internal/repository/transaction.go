package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TxOptions struct {
	// Timeout bounds a whole atomic unit. Zero means no deadline.
	Timeout time.Duration
	// Retries is the number of extra attempts after a deadlock or lock wait timeout.
	Retries int
}

type TransactionManager struct {
	db   *gorm.DB
	opts TxOptions
}

type txKey struct{}

func NewTransactionManager(db *gorm.DB, opts TxOptions) TxManager {
	return &TransactionManager{db: db, opts: opts}
}

func (tm *TransactionManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tm.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tm.opts.Timeout)
		defer cancel()
	}

	var err error
	for attempt := 0; attempt <= tm.opts.Retries; attempt++ {
		err = tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
		if err == nil || !IsRetryable(err) || ctx.Err() != nil {
			return err
		}
	}

	return err
}

// GetTx returns the transaction bound to ctx by WithTx, or db scoped to ctx.
func GetTx(ctx context.Context, db *gorm.DB) *gorm.DB {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return db.WithContext(ctx)
	}
	return tx
}

// IsRetryable reports whether err is a MySQL deadlock or lock wait timeout.
func IsRetryable(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout
}
