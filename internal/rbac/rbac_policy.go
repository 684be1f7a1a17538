// Package rbac decides who may provision employees, backed by casbin.
package rbac

import (
	"context"
	"fmt"

	"go-garage/internal/rbac/infra"
	"go-garage/internal/shared/contextutil"
	"go-garage/internal/user"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	ObjectEmployee  = "employee"
	ActionProvision = "provision"
)

type CasbinPolicy struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

// NewCasbinPolicy allows each of roles to provision employees.
func NewCasbinPolicy(roles []string, logger ...*zap.Logger) (*CasbinPolicy, error) {
	l := zap.L().Named("rbac.policy")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.policy")
	}

	e, err := infra.NewEnforcer()
	if err != nil {
		return nil, fmt.Errorf("rbac: build enforcer: %w", err)
	}
	for _, role := range roles {
		if _, err := e.AddPolicy(role, ObjectEmployee, ActionProvision); err != nil {
			return nil, fmt.Errorf("rbac: add policy for %q: %w", role, err)
		}
	}

	return &CasbinPolicy{enforcer: e, logger: l}, nil
}

// CanProvisionUnder requires an authenticated caller from the parent's
// garage whose role may provision.
func (p *CasbinPolicy) CanProvisionUnder(ctx context.Context, caller contextutil.Caller, parent *user.User) (bool, error) {
	if caller.Anonymous() || parent == nil {
		return false, nil
	}
	if caller.GarageUID != parent.GarageUID {
		p.logger.Debug("cross-garage provisioning denied",
			zap.String("caller_garage_uid", caller.GarageUID),
			zap.String("parent_garage_uid", parent.GarageUID),
		)
		return false, nil
	}

	return p.enforcer.Enforce(caller.Role, ObjectEmployee, ActionProvision)
}
