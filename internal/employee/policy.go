package employee

import (
	"context"

	"go-garage/internal/shared/contextutil"
	"go-garage/internal/user"
)

// ProvisionPolicy decides whether caller may create employees under parent.
type ProvisionPolicy interface {
	CanProvisionUnder(ctx context.Context, caller contextutil.Caller, parent *user.User) (bool, error)
}

// AllowAll permits every caller, anonymous ones included.
type AllowAll struct{}

func (AllowAll) CanProvisionUnder(context.Context, contextutil.Caller, *user.User) (bool, error) {
	return true, nil
}
