package employee

import (
	"context"
	"fmt"

	"go-garage/internal/config"
	employeeerrors "go-garage/internal/employee/errors"
	"go-garage/internal/shared/apperror"
	"go-garage/internal/user"
)

// LoginIDGuard keeps derived login ids unique.
type LoginIDGuard interface {
	// BeforeInsert runs after derivation and before the user row is written.
	BeforeInsert(ctx context.Context, loginID string) error
	// TranslateInsertError maps a failed user insert to the error returned
	// to the caller.
	TranslateInsertError(err error) error
}

func NewLoginIDGuard(strategy string, users user.Repository) (LoginIDGuard, error) {
	switch strategy {
	case "", config.LoginIDStrategyPrecheck:
		return &precheckGuard{users: users}, nil
	case config.LoginIDStrategyConstraint:
		return constraintGuard{}, nil
	default:
		return nil, fmt.Errorf("unknown login id strategy %q", strategy)
	}
}

// precheckGuard looks the login id up before inserting. Two concurrent
// requests can both pass the lookup; the loser's insert then hits
// uq_users_login_id and is reported as the same conflict.
type precheckGuard struct {
	users user.Repository
}

func (g *precheckGuard) BeforeInsert(ctx context.Context, loginID string) error {
	exists, err := g.users.ExistsByLoginID(ctx, loginID)
	if err != nil {
		return apperror.ErrInternal.WithCause(err)
	}
	if exists {
		return employeeerrors.ErrLoginIDAlreadyExists
	}
	return nil
}

func (g *precheckGuard) TranslateInsertError(err error) error {
	if isLoginIDViolation(err) {
		return employeeerrors.ErrLoginIDAlreadyExists
	}
	return employeeerrors.ErrCreateUserFailed.WithCause(err)
}

// constraintGuard relies on the uq_users_login_id index alone.
type constraintGuard struct{}

func (constraintGuard) BeforeInsert(context.Context, string) error {
	return nil
}

func (constraintGuard) TranslateInsertError(err error) error {
	if isLoginIDViolation(err) {
		return employeeerrors.ErrLoginIDAlreadyExists
	}
	return employeeerrors.ErrCreateUserFailed.WithCause(err)
}
