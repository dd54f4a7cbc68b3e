package statemachine

import (
	"fmt"
	"strings"

	"restaurant-console/models"
)

// Mode decides which direct status assignments are legal
type Mode string

const (
	// ModePermissive allows any status to be set from any status (manual override).
	ModePermissive Mode = "permissive"
	// ModeForwardOnly allows only targets reachable through NextStatus.
	ModeForwardOnly Mode = "forward_only"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModePermissive, "":
		return ModePermissive, nil
	case ModeForwardOnly, "forward":
		return ModeForwardOnly, nil
	}
	return "", fmt.Errorf("unknown transition mode %q", s)
}

// Transition is one happy-path step
type Transition struct {
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

// successors is the authoritative happy path; Served has no entry.
var successors = map[models.OrderStatus]models.OrderStatus{
	models.StatusReceive:   models.StatusPreparing,
	models.StatusPreparing: models.StatusReady,
	models.StatusReady:     models.StatusServed,
}

// NextStatus returns the successor of current. ok is false for the terminal
// status (and for unknown values): there is no further action to offer.
func NextStatus(current models.OrderStatus) (next models.OrderStatus, ok bool) {
	next, ok = successors[current]
	return next, ok
}

// TransitionError reports a rejected status assignment
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
	Mode Mode
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s → %s is not allowed in %s mode. Valid targets from %s are: %s",
		e.From, e.To, e.Mode, e.From, describeValidFrom(e.From, e.Mode))
}

// CanTransition checks a direct assignment from -> to. Re-setting the current
// status is always legal so that it can be treated as a no-op.
func CanTransition(from, to models.OrderStatus, mode Mode) error {
	if !to.Valid() || !from.Valid() {
		return &TransitionError{From: from, To: to, Mode: mode}
	}
	if from == to || mode == ModePermissive {
		return nil
	}
	for s, ok := NextStatus(from); ok; s, ok = NextStatus(s) {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to, Mode: mode}
}

// ValidTransitionsFrom returns every status that may be assigned from status,
// excluding status itself.
func ValidTransitionsFrom(status models.OrderStatus, mode Mode) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, s := range models.Statuses {
		if s != status && CanTransition(status, s, mode) == nil {
			nexts = append(nexts, s)
		}
	}
	return nexts
}

func describeValidFrom(status models.OrderStatus, mode Mode) string {
	nexts := ValidTransitionsFrom(status, mode)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the happy path for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, 0, len(successors))
	for _, s := range models.Statuses {
		if next, ok := NextStatus(s); ok {
			out = append(out, Transition{From: s, To: next})
		}
	}
	return out
}

// DeriveOrderStatus is the least advanced item status, so an order is only
// Served once every item is. ok is false for an order without items.
func DeriveOrderStatus(items []models.OrderItem) (status models.OrderStatus, ok bool) {
	for _, it := range items {
		if !ok || it.Status.Rank() < status.Rank() {
			status, ok = it.Status, true
		}
	}
	return status, ok
}
