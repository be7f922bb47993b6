package ratelimit

import "time"

// LimitConfig allows at most Max requests per Window.
type LimitConfig struct {
	Max    int64
	Window time.Duration
}

// Policy maps each scope to the limits enforced on it.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// PolicyBuilder assembles a Policy.
type PolicyBuilder struct {
	policy *Policy
}

func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{policy: &Policy{Limits: make(map[Scope][]LimitConfig)}}
}

// AddLimit appends a limit to scope. A scope may carry several windows.
func (b *PolicyBuilder) AddLimit(scope Scope, maxRequests int64, window time.Duration) *PolicyBuilder {
	b.policy.Limits[scope] = append(b.policy.Limits[scope], LimitConfig{Max: maxRequests, Window: window})

	return b
}

func (b *PolicyBuilder) Build() *Policy {
	return b.policy
}

// DefaultPolicy is the policy applied to every operation without its own limits.
func DefaultPolicy() *Policy {
	return NewPolicyBuilder().
		AddLimit(ScopeGlobal, 2000, time.Minute).
		AddLimit(ScopeRead, 1000, time.Minute).
		AddLimit(ScopeWrite, 60, time.Minute).
		Build()
}

// CreateLimits bound how fast one client may create snippets.
func CreateLimits() []LimitConfig {
	return []LimitConfig{
		{Max: 10, Window: time.Minute},
		{Max: 100, Window: time.Hour},
		{Max: 500, Window: 24 * time.Hour},
	}
}

// ImportLimits bound the GitHub import endpoints, which spend upstream quota.
func ImportLimits() []LimitConfig {
	return []LimitConfig{
		{Max: 30, Window: time.Minute},
		{Max: 300, Window: time.Hour},
	}
}
