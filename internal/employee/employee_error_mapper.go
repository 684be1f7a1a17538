package employee

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation  = "23505"
	loginIDConstraint  = "uq_users_login_id"
	duplicateKeyPrefix = "duplicate key value"
)

// isLoginIDViolation reports whether err is the store rejecting a second row
// with the same login_id.
func isLoginIDViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == loginIDConstraint
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, duplicateKeyPrefix) && strings.Contains(errMsg, loginIDConstraint)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
