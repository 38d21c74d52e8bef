package common

import (
	"fmt"
	"strings"
)

// FailurePolicy decides what a component does when an auxiliary lookup fails.
type FailurePolicy string

// Failure policies.
const (
	// PolicyDegrade logs the failure and continues with an empty result.
	PolicyDegrade FailurePolicy = "degrade"
	// PolicyPropagate returns the failure to the caller.
	PolicyPropagate FailurePolicy = "propagate"
)

// ParseFailurePolicy parses a policy name. An empty name selects PolicyDegrade.
func ParseFailurePolicy(name string) (FailurePolicy, error) {
	switch FailurePolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicyDegrade:
		return PolicyDegrade, nil
	case PolicyPropagate:
		return PolicyPropagate, nil
	}
	return "", fmt.Errorf("%w: unknown failure policy %q", ErrInvalidConfig, name)
}
