package infra

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// ProvisionModel grants a role an action on an object:
//
//	p, owner, employee, provision
const ProvisionModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(ProvisionModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
