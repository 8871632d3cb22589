package timing

import (
	"math/rand"
	"time"
)

// Scheduler derives millisecond delay values for every category of
// automated action from a ModeConfig. All derivations are pure with
// respect to the injected random source; none perform I/O.
type Scheduler struct {
	cfg ModeConfig
	rng *rand.Rand
}

// NewScheduler creates a scheduler for the given configuration.
// When rng is nil a time-seeded source is used; tests pass a fixed
// seed to make every derivation deterministic.
func NewScheduler(cfg ModeConfig, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scheduler{cfg: cfg, rng: rng}
}

// Config returns a copy of the scheduler's configuration.
func (s *Scheduler) Config() ModeConfig {
	return s.cfg
}

// BaseRandom returns a uniform integer in [min, max] inclusive.
// A degenerate range collapses to min.
func (s *Scheduler) BaseRandom(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}

// Humanize jitters base by up to +/-variance, uniform over
// [base*(1-variance), base*(1+variance)].
func (s *Scheduler) Humanize(base int, variance float64) int {
	if base <= 0 {
		return base
	}
	lo := int(float64(base) * (1 - variance))
	hi := int(float64(base) * (1 + variance))
	return s.BaseRandom(lo, hi)
}

func (s *Scheduler) stealth() bool {
	return s.cfg.Mode == ModeStealth
}

// ModeDelay returns the pause inserted between consecutive commands.
func (s *Scheduler) ModeDelay() int {
	if s.stealth() && s.cfg.Stealth.InterCommandDelay > 0 {
		if s.cfg.Stealth.HumanizeTiming {
			return s.Humanize(s.cfg.Stealth.InterCommandDelay, 0.2)
		}
		return s.cfg.Stealth.InterCommandDelay
	}
	return s.cfg.Speed.MinDelay
}

// TypingDelay returns the per-character pause for simulated typing.
// Outside stealth mode typing is instantaneous.
func (s *Scheduler) TypingDelay() int {
	if !s.stealth() {
		return 0
	}
	if s.cfg.Stealth.HumanizeTiming {
		return s.BaseRandom(s.cfg.Stealth.TypingDelayMin, s.cfg.Stealth.TypingDelayMax)
	}
	return s.cfg.Stealth.TypingDelayMin
}

// MouseMoveDelay returns the pause before a pointer movement.
func (s *Scheduler) MouseMoveDelay() int {
	if s.stealth() {
		if s.cfg.Stealth.HumanizeTiming {
			return s.Humanize(s.cfg.Stealth.MouseMoveDelay, 0.15)
		}
		return s.cfg.Stealth.MouseMoveDelay
	}
	return s.cfg.Speed.MinDelay
}

// ModalInteractionDelay returns the settle pause applied around modal
// dialogs. Modals always get at least 100ms even in speed mode.
func (s *Scheduler) ModalInteractionDelay() int {
	if s.stealth() {
		base := int(float64(s.cfg.Stealth.MouseMoveDelay) * 1.5)
		if s.cfg.Stealth.HumanizeTiming {
			return s.Humanize(base, 0.2)
		}
		return base
	}
	if s.cfg.Speed.MinDelay > 100 {
		return s.cfg.Speed.MinDelay
	}
	return 100
}

// AdaptiveDelay scales the inter-command delay by the expected
// complexity of the upcoming action. Speed mode ignores complexity.
func (s *Scheduler) AdaptiveDelay(c Complexity) int {
	if !s.stealth() {
		return s.cfg.Speed.MinDelay
	}
	multiplier := 1.0
	switch c {
	case ComplexityMedium:
		multiplier = 1.5
	case ComplexityComplex:
		multiplier = 2.0
	}
	base := int(float64(s.cfg.Stealth.InterCommandDelay) * multiplier)
	if s.cfg.Stealth.HumanizeTiming {
		return s.Humanize(base, 0.2)
	}
	return base
}

// ProgressiveDelay ramps the inter-command delay up to +15% linearly
// with iteration progress, so long polling loops slow down slightly
// the way a person losing patience re-checks less often.
func (s *Scheduler) ProgressiveDelay(iteration, maxIterations int) int {
	if !s.stealth() {
		return s.cfg.Speed.MinDelay
	}
	if !s.cfg.Stealth.HumanizeTiming {
		return s.cfg.Stealth.InterCommandDelay
	}
	denom := maxIterations
	if denom < 1 {
		denom = 1
	}
	progress := float64(iteration) / float64(denom)
	base := int(float64(s.cfg.Stealth.InterCommandDelay) * (1 + 0.15*progress))
	return s.Humanize(base, 0.2)
}
