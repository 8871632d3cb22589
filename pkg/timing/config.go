package timing

// Mode selects the pacing profile applied to automated actions.
type Mode string

const (
	// ModeStealth inserts humanized, variable delays so automated
	// interaction resembles manual use.
	ModeStealth Mode = "stealth"

	// ModeSpeed minimizes delays for runs where detection avoidance
	// is not a concern.
	ModeSpeed Mode = "speed"
)

// StealthConfig holds the delay parameters used in stealth mode.
// All delay values are milliseconds.
type StealthConfig struct {
	// InterCommandDelay is the base pause between consecutive commands
	InterCommandDelay int `yaml:"inter_command_delay"`

	// HumanizeTiming enables random jitter around the base delays
	HumanizeTiming bool `yaml:"humanize_timing"`

	// TypingDelayMin is the lower bound of the per-character typing delay
	TypingDelayMin int `yaml:"typing_delay_min"`

	// TypingDelayMax is the upper bound of the per-character typing delay
	TypingDelayMax int `yaml:"typing_delay_max"`

	// MouseMoveDelay is the base pause before pointer movements
	MouseMoveDelay int `yaml:"mouse_move_delay"`
}

// SpeedConfig holds the delay parameters used in speed mode.
type SpeedConfig struct {
	// MinDelay is the floor applied to every delay in speed mode (milliseconds)
	MinDelay int `yaml:"min_delay"`
}

// ModeConfig is the full timing configuration supplied per automation run.
// It is read-only to the scheduler.
type ModeConfig struct {
	Mode    Mode          `yaml:"mode"`
	Stealth StealthConfig `yaml:"stealth"`
	Speed   SpeedConfig   `yaml:"speed"`
}

// DefaultModeConfig returns a stealth-mode configuration with
// conservative, human-plausible delay values.
func DefaultModeConfig() ModeConfig {
	return ModeConfig{
		Mode: ModeStealth,
		Stealth: StealthConfig{
			InterCommandDelay: 800,
			HumanizeTiming:    true,
			TypingDelayMin:    40,
			TypingDelayMax:    160,
			MouseMoveDelay:    200,
		},
		Speed: SpeedConfig{
			MinDelay: 10,
		},
	}
}

// Complexity categorizes an upcoming action for AdaptiveDelay.
type Complexity string

const (
	// ComplexitySimple covers single-element interactions
	ComplexitySimple Complexity = "simple"

	// ComplexityMedium covers multi-step interactions on one page
	ComplexityMedium Complexity = "medium"

	// ComplexityComplex covers interactions that trigger navigation or heavy rendering
	ComplexityComplex Complexity = "complex"
)
