package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrOrderNotFound           = errors.New("order not found")
	ErrProductNotFound         = errors.New("product not found")
	ErrVariantNotFound         = errors.New("variant not found")
	ErrProductVariantNotFound  = errors.New("product variant not found")
	ErrConfirmationNumberTaken = errors.New("confirmation number already taken")
	ErrReferenced              = errors.New("record is referenced by other records")
	ErrReferenceMissing        = errors.New("referenced record does not exist")
)

// имя ограничения уникальности номера подтверждения из миграции 000001
const confirmationNumberConstraint = "orders_confirmation_number_key"

// Querier - общее подмножество *sql.DB и *sql.Tx
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// pgCode возвращает SQLSTATE ошибки postgres, если это она
func pgCode(err error) (string, *pq.Error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr
	}
	return "", nil
}

// mapWriteError переводит ошибки ограничений postgres в ошибки пакета
func mapWriteError(err error) error {
	code, pqErr := pgCode(err)
	switch code {
	case pgerrcode.UniqueViolation:
		if pqErr.Constraint == confirmationNumberConstraint {
			return ErrConfirmationNumberTaken
		}
	case pgerrcode.ForeignKeyViolation:
		return ErrReferenceMissing
	}
	return err
}

// mapDeleteError отличает удаление записи, на которую ещё ссылаются
func mapDeleteError(err error) error {
	if code, _ := pgCode(err); code == pgerrcode.ForeignKeyViolation {
		return ErrReferenced
	}
	return err
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
