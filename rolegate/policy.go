package rolegate

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"restaurant-console/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Named affordances shown by the console views.
const (
	OrderStatusSelector = "orders.status_selector"
	ItemStatusSelector  = "orders.item_status_selector"
	KitchenAdvance      = "kitchen.advance"
	PlaceOrder          = "orders.place"
	RevenueCard         = "dashboard.revenue"
)

const (
	actView    = "view"
	actTrigger = "trigger"
	anyRole    = "*"
)

const affordanceModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (p.sub == "*" || r.sub == p.sub) && r.obj == p.obj && r.act == p.act
`

var ErrUnknownAffordance = errors.New("unknown affordance")

// DefaultAffordances is the console's built-in gate table.
func DefaultAffordances() map[string]Guard {
	staffViews := []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleChef}
	kitchenHands := []models.UserRole{models.RoleManager, models.RoleChef}
	return map[string]Guard{
		OrderStatusSelector: {AllowedRoles: staffViews, CanTrigger: kitchenHands},
		ItemStatusSelector:  {AllowedRoles: staffViews, CanTrigger: kitchenHands},
		KitchenAdvance:      {AllowedRoles: staffViews, CanTrigger: kitchenHands},
		PlaceOrder: {AllowedRoles: []models.UserRole{
			models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleWaiter,
		}},
		RevenueCard: {AllowedRoles: []models.UserRole{models.RoleAdmin, models.RoleManager}},
	}
}

// Policy keeps the registered guards and compiles each into view and trigger
// rules of a casbin enforcer, so a view can ask for a decision by affordance
// name.
type Policy struct {
	enforcer *casbin.SyncedEnforcer

	mu     sync.RWMutex
	guards map[string]Guard
}

func NewPolicy(affordances map[string]Guard) (*Policy, error) {
	m, err := model.NewModelFromString(affordanceModel)
	if err != nil {
		return nil, fmt.Errorf("load affordance model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("init affordance enforcer: %w", err)
	}
	p := &Policy{enforcer: e, guards: map[string]Guard{}}
	for name, g := range affordances {
		if err := p.Register(name, g); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register adds or replaces the guard for an affordance.
func (p *Policy) Register(name string, g Guard) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.enforcer.RemoveFilteredPolicy(1, name); err != nil {
		return fmt.Errorf("reset affordance %s: %w", name, err)
	}
	rules := append(roleRules(name, actView, g.AllowedRoles), roleRules(name, actTrigger, g.CanTrigger)...)
	if _, err := p.enforcer.AddPolicies(rules); err != nil {
		return fmt.Errorf("register affordance %s: %w", name, err)
	}
	p.guards[name] = g
	return nil
}

func roleRules(name, act string, roles []models.UserRole) [][]string {
	if len(roles) == 0 {
		return [][]string{{anyRole, name, act}}
	}
	rules := make([][]string, 0, len(roles))
	for _, r := range roles {
		rules = append(rules, []string{string(r), name, act})
	}
	return rules
}

// Guard returns the guard registered under name.
func (p *Policy) Guard(name string) (Guard, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	g, ok := p.guards[name]
	return g, ok
}

// Decide evaluates one affordance for the current actor through the
// enforcer. The result always equals Guard(name).Evaluate(role, hasRole).
func (p *Policy) Decide(role models.UserRole, hasRole bool, name string) (Decision, error) {
	g, known := p.Guard(name)
	if !known {
		return Decision{}, fmt.Errorf("%w: %s", ErrUnknownAffordance, name)
	}

	sub := string(role)
	if !hasRole {
		sub = ""
	}
	d := Decision{Affordance: name}

	visible, err := p.enforcer.Enforce(sub, name, actView)
	if err != nil {
		return Decision{}, fmt.Errorf("check %s view: %w", name, err)
	}
	if !visible {
		d.Outcome, d.Fallback = Hidden, g.Fallback
		return d, nil
	}
	canTrigger, err := p.enforcer.Enforce(sub, name, actTrigger)
	if err != nil {
		return Decision{}, fmt.Errorf("check %s trigger: %w", name, err)
	}
	if canTrigger {
		d.Outcome = Interactive
	} else {
		d.Outcome = Inert
	}
	return d, nil
}

// DecideAll evaluates several affordances, keyed by name.
func (p *Policy) DecideAll(role models.UserRole, hasRole bool, names ...string) (map[string]Decision, error) {
	out := make(map[string]Decision, len(names))
	for _, n := range names {
		d, err := p.Decide(role, hasRole, n)
		if err != nil {
			return nil, err
		}
		out[n] = d
	}
	return out, nil
}

// Names lists registered affordances in sorted order.
func (p *Policy) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.guards))
	for n := range p.guards {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
