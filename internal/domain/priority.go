package domain

import "fmt"

// GoalPriority classifies how important a goal is to the household.
// Lower rank funds first when capital is scarce.
type GoalPriority int

const (
	PriorityEssential GoalPriority = iota + 1
	PriorityImportant
	PriorityAspirational
)

// Rank returns the funding order of the priority (1 funds first).
func (p GoalPriority) Rank() int {
	return int(p)
}

// RiskAdjustment returns the glide-path risk tolerance delta for the priority.
// Essential goals take less risk, aspirational goals can take more.
func (p GoalPriority) RiskAdjustment() float64 {
	switch p {
	case PriorityEssential:
		return -0.10
	case PriorityImportant:
		return 0.0
	case PriorityAspirational:
		return 0.10
	default:
		return 0.0
	}
}

// Valid reports whether the priority is one of the known values.
func (p GoalPriority) Valid() bool {
	switch p {
	case PriorityEssential, PriorityImportant, PriorityAspirational:
		return true
	}
	return false
}

func (p GoalPriority) String() string {
	switch p {
	case PriorityEssential:
		return "essential"
	case PriorityImportant:
		return "important"
	case PriorityAspirational:
		return "aspirational"
	default:
		return fmt.Sprintf("GoalPriority(%d)", int(p))
	}
}

// ParseGoalPriority converts a config string to a GoalPriority.
func ParseGoalPriority(s string) (GoalPriority, error) {
	switch s {
	case "essential":
		return PriorityEssential, nil
	case "important":
		return PriorityImportant, nil
	case "aspirational":
		return PriorityAspirational, nil
	default:
		return 0, fmt.Errorf("unknown goal priority %q (want essential, important or aspirational)", s)
	}
}

// MarshalText implements encoding.TextMarshaler (used by both YAML and JSON).
func (p GoalPriority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid goal priority %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler (used by both YAML and JSON).
func (p *GoalPriority) UnmarshalText(text []byte) error {
	parsed, err := ParseGoalPriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
