// Package rolegate decides how a UI affordance is presented to a role:
// hidden, visible but inert, or interactive.
//
// This is UX gating only. It is not a security boundary; anything that must
// be refused is refused again by the HTTP layer.
package rolegate

import (
	"encoding/json"
	"fmt"

	"restaurant-console/models"
)

type Outcome int

const (
	Hidden Outcome = iota
	Inert
	Interactive
)

func (o Outcome) String() string {
	switch o {
	case Hidden:
		return "hidden"
	case Inert:
		return "inert"
	case Interactive:
		return "interactive"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalJSON() ([]byte, error) { return json.Marshal(o.String()) }

// Guard declares who may see an affordance and who may use it. An empty
// AllowedRoles means everyone may see it; an empty CanTrigger means everyone
// who sees it may use it.
type Guard struct {
	AllowedRoles []models.UserRole `json:"allowed_roles,omitempty" yaml:"allowed_roles"`
	CanTrigger   []models.UserRole `json:"can_trigger,omitempty" yaml:"can_trigger"`
	Fallback     string            `json:"fallback,omitempty" yaml:"fallback"`
}

// Decision is what the view should render for one affordance.
type Decision struct {
	Affordance string  `json:"affordance,omitempty"`
	Outcome    Outcome `json:"outcome"`
	// Fallback replaces the affordance when it is hidden; empty renders nothing.
	Fallback string `json:"fallback,omitempty"`
}

func (d Decision) Visible() bool     { return d.Outcome != Hidden }
func (d Decision) Interactive() bool { return d.Outcome == Interactive }

// Dimmed reports the inert presentation: pointer events stripped, dimmed and
// affordance icons suppressed.
func (d Decision) Dimmed() bool { return d.Outcome == Inert }

// Evaluate applies the guard to the current actor. hasRole is false when
// nobody is signed in.
//
// Evaluate is the reference semantics: Policy compiles the same guard into
// casbin rules and Policy.Decide must return what Evaluate returns.
func (g Guard) Evaluate(role models.UserRole, hasRole bool) Decision {
	if len(g.AllowedRoles) > 0 && !(hasRole && contains(g.AllowedRoles, role)) {
		return Decision{Outcome: Hidden, Fallback: g.Fallback}
	}
	if len(g.CanTrigger) > 0 && !(hasRole && contains(g.CanTrigger, role)) {
		return Decision{Outcome: Inert}
	}
	return Decision{Outcome: Interactive}
}

func contains(roles []models.UserRole, r models.UserRole) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
