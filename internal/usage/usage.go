// Package usage derives how, when and for how long a product in a skincare or
// haircare routine should be used.
package usage

import (
	"fmt"
	"slices"
	"strings"
)

// Phase is the routine segment a product is used in.
type Phase string

const (
	Morning Phase = "Morning"
	Evening Phase = "Evening"
)

// Label returns the default "when" value for the phase.
func (p Phase) Label() string {
	if p == Morning {
		return "Morning"
	}
	return "Night"
}

// PhaseFromCategory maps a recommendation category ("Morning Routine",
// "Evening Routine") to its phase.
func PhaseFromCategory(category string) (Phase, bool) {
	switch category {
	case "Morning Routine":
		return Morning, true
	case "Evening Routine":
		return Evening, true
	}
	return "", false
}

// Product is a single recommended product.
type Product struct {
	Name   string   `json:"name" yaml:"name"`
	Tags   []string `json:"tags" yaml:"tags"`
	Reason string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Label returns the product's first tag, or fallback when it has none.
func (p Product) Label(fallback string) string {
	if len(p.Tags) > 0 && p.Tags[0] != "" {
		return p.Tags[0]
	}
	return fallback
}

// Plan holds the usage instructions for one product. An empty Caution means
// there is nothing to warn about.
type Plan struct {
	When      string `json:"when"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	HowToUse  string `json:"how_to_use"`
	Caution   string `json:"caution,omitempty"`
}

// DefaultPlan is the plan given to products no rule recognises.
func DefaultPlan(phase Phase) Plan {
	return Plan{
		When:      phase.Label(),
		Frequency: "Once daily",
		Duration:  "8–12 weeks",
	}
}

// Resolve derives the usage plan for a product in the given phase. Rules are
// applied in order and each one only overwrites the fields it sets.
func Resolve(p Product, phase Phase) Plan {
	s := subject{
		name:  strings.ToLower(p.Name),
		tags:  p.Tags,
		phase: phase,
	}

	plan := DefaultPlan(phase)
	for _, r := range rules {
		if r.match(s) {
			plan = r.patch(plan, s)
		}
	}
	return plan
}

// Matches lists the rules that fire for a product, in evaluation order.
func Matches(p Product, phase Phase) []string {
	s := subject{name: strings.ToLower(p.Name), tags: p.Tags, phase: phase}

	var names []string
	for _, r := range rules {
		if r.match(s) {
			names = append(names, r.name)
		}
	}
	return names
}

// ResolveAll resolves every product in order.
func ResolveAll(products []Product, phase Phase) []Plan {
	plans := make([]Plan, len(products))
	for i, p := range products {
		plans[i] = Resolve(p, phase)
	}
	return plans
}

type subject struct {
	name  string
	tags  []string
	phase Phase
}

func (s subject) hasTag(tag string) bool {
	return slices.Contains(s.tags, tag)
}

func (s subject) nameHas(substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s.name, sub) {
			return true
		}
	}
	return false
}

// ParsePhase accepts "morning"/"am" and "evening"/"pm"/"night" in any case.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "am":
		return Morning, nil
	case "evening", "pm", "night":
		return Evening, nil
	}
	return "", fmt.Errorf("unknown routine phase %q (expected morning or evening)", s)
}
