// internal/domain/order/policy.go
package order

import (
	"fmt"

	"github.com/your-org/bakehouse-backend/internal/config"
)

// TransitionPolicy decides whether an order may move between two statuses.
// Unknown statuses are rejected before the policy is consulted.
type TransitionPolicy interface {
	Allow(from, to Status) error
}

// PermissivePolicy lets staff set any status from any status, including
// reopening completed or cancelled orders.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(from, to Status) error {
	return nil
}

// StrictPolicy only allows the edges in its table
type StrictPolicy struct {
	transitions map[Status][]Status
}

// NewStrictPolicy returns the default bakery workflow: forward through the
// stages, with skips for orders that need no decorating and cancellation
// from any open stage.
func NewStrictPolicy() *StrictPolicy {
	return &StrictPolicy{transitions: map[Status][]Status{
		StatusPlaced: {
			StatusPreparing,
			StatusCancelled,
		},
		StatusPreparing: {
			StatusBaking,
			StatusCancelled,
		},
		StatusBaking: {
			StatusDecorating,
			StatusQualityCheck,
			StatusCancelled,
		},
		StatusDecorating: {
			StatusQualityCheck,
			StatusCancelled,
		},
		StatusQualityCheck: {
			StatusReady,
			StatusDecorating,
			StatusCancelled,
		},
		StatusReady: {
			StatusOutForDelivery,
			StatusCompleted,
			StatusCancelled,
		},
		StatusOutForDelivery: {
			StatusCompleted,
			StatusReady,
		},
	}}
}

func (p *StrictPolicy) Allow(from, to Status) error {
	for _, status := range p.transitions[from] {
		if status == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}

// NextStatuses lists the statuses reachable from s
func (p *StrictPolicy) NextStatuses(s Status) []Status {
	return append([]Status(nil), p.transitions[s]...)
}

// PolicyFor maps the configured policy name to an implementation
func PolicyFor(name string) TransitionPolicy {
	if name == config.StatusPolicyStrict {
		return NewStrictPolicy()
	}
	return PermissivePolicy{}
}
