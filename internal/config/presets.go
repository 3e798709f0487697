package config

// HintLevel represents how much a hint reveals.
type HintLevel string

const (
	// HintSmall reports only how many moves remain.
	HintSmall HintLevel = "small"
	// HintMedium plays the next move of the plan.
	HintMedium HintLevel = "medium"
	// HintLarge queues the whole plan so redo steps through it.
	HintLarge HintLevel = "large"
)

// Valid reports whether the level is one of the known hint levels.
func (h HintLevel) Valid() bool {
	switch h {
	case HintSmall, HintMedium, HintLarge:
		return true
	}
	return false
}

// EffortPreset represents a named search budget.
type EffortPreset string

const (
	EffortQuick      EffortPreset = "quick"
	EffortNormal     EffortPreset = "normal"
	EffortExhaustive EffortPreset = "exhaustive"
)

// Valid reports whether the preset is known.
func (e EffortPreset) Valid() bool {
	switch e {
	case EffortQuick, EffortNormal, EffortExhaustive:
		return true
	}
	return false
}

// MaxStatesForEffort returns the state cap for a preset. Exhaustive
// searches are unbounded.
func MaxStatesForEffort(preset EffortPreset) int {
	switch preset {
	case EffortQuick:
		return 100_000
	case EffortNormal:
		return 2_000_000
	case EffortExhaustive:
		return 0
	default:
		return 2_000_000
	}
}
