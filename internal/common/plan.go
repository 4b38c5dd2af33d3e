package common

import (
	"errors"
	"strings"
)

var ErrUnknownPlan = errors.New("unknown plan")

// Plan is the subscription tier attached to a user account.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
)

// Plans lists every tier in ascending order.
var Plans = []Plan{PlanFree, PlanStandard, PlanPremium}

// ParsePlan accepts a plan name in any letter case.
func ParsePlan(s string) (Plan, error) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Plans {
		if p == known {
			return p, nil
		}
	}
	return "", ErrUnknownPlan
}

// AllowsImages reports whether the tier unlocks image generation.
func (p Plan) AllowsImages() bool {
	return p == PlanPremium
}

// ErrorBody is the error envelope the backend returns: {"detail": "..."}.
type ErrorBody struct {
	Detail string `json:"detail"`
}
