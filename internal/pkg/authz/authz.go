// Package authz decides whether a role may call a route. Policies are casbin
// RBAC rules of (role, route pattern, method); admin inherits officer.
package authz

import (
	"context"
	"fmt"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/persist"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// Authorizer is what the router needs from this package.
type Authorizer interface {
	Authorize(ctx context.Context, role, route, method string) (bool, error)
}

// Enforcer wraps a casbin enforcer built on the portal model.
type Enforcer struct {
	e *casbin.Enforcer
}

// New loads every rule through adapter. A nil adapter gives an empty,
// memory-only enforcer filled with AddPolicy and AddRole.
func New(adapter persist.Adapter) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: model: %w", err)
	}

	var e *casbin.Enforcer
	if adapter == nil {
		e, err = casbin.NewEnforcer(m)
	} else {
		e, err = casbin.NewEnforcer(m, adapter)
	}
	if err != nil {
		return nil, fmt.Errorf("authz: enforcer: %w", err)
	}

	return &Enforcer{e: e}, nil
}

func (en *Enforcer) Authorize(_ context.Context, role, route, method string) (bool, error) {
	return en.e.Enforce(role, route, method)
}

// AddPolicy allows role to call method on route. Route may use :param and *.
func (en *Enforcer) AddPolicy(role, route, method string) error {
	_, err := en.e.AddPolicy(role, route, method)
	return err
}

// AddRole makes member inherit every policy of parent.
func (en *Enforcer) AddRole(member, parent string) error {
	_, err := en.e.AddGroupingPolicy(member, parent)
	return err
}

// Reload re-reads the rules from the adapter.
func (en *Enforcer) Reload() error {
	return en.e.LoadPolicy()
}
