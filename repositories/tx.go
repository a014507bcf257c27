package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxManager выполняет fn в одной транзакции. Репозитории, получившие ctx из fn,
// работают внутри этой транзакции. Вложенный вызов переиспользует внешнюю транзакцию.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txContextKey struct{}

type postgresTxManager struct {
	db *sql.DB
}

func NewPostgresTxManager(db *sql.DB) TxManager {
	return &postgresTxManager{db: db}
}

func (m *postgresTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (txErr error) {
	if _, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("Error during rollback: %v. Original error: %v", rbErr, txErr)
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	txErr = fn(context.WithValue(ctx, txContextKey{}, tx))
	return txErr
}

// executorFromContext возвращает активную транзакцию из ctx или пул соединений.
func executorFromContext(ctx context.Context, db *sql.DB) SQLExecutor {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// lockClause добавляет FOR UPDATE только внутри транзакции: вне ее блокировка бессмысленна.
func lockClause(ctx context.Context) string {
	if _, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return " FOR UPDATE"
	}
	return ""
}
