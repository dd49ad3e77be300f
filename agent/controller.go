package agent

import (
	"math"
	"sync"
)

// Goals configures the controller's stopping criteria.
type Goals struct {
	TargetMolecules int     `json:"target_molecules"`
	SuccessRate     float64 `json:"success_rate"`
	MaxIterations   int     `json:"max_iterations"`
}

// DefaultGoals returns the standard stopping criteria.
func DefaultGoals() Goals {
	return Goals{
		TargetMolecules: 10,
		SuccessRate:     0.5,
		MaxIterations:   100,
	}
}

// Progress reports how far a run has come.
type Progress struct {
	Iterations          int     `json:"iterations"`
	Successes           int     `json:"successes"`
	Failures            int     `json:"failures"`
	SuccessRate         float64 `json:"success_rate"`
	TargetRemaining     int     `json:"target_remaining"`
	IterationsRemaining int     `json:"iterations_remaining"`
}

// Estimate projects how many more iterations reaching the target will take.
type Estimate struct {
	Iterations     float64 `json:"estimated_iterations"`
	SuccessRate    float64 `json:"current_success_rate"`
	SufficientData bool    `json:"sufficient_data"`
	Achievable     bool    `json:"achievable"`
}

// ControllerAgent tracks iteration counts and decides when a discovery
// run should stop. It is safe for concurrent use.
type ControllerAgent struct {
	mu        sync.Mutex
	goals     Goals
	iteration int
	successes int
	failures  int
}

// NewControllerAgent creates a controller with the given goals. Zero-value
// goal fields fall back to defaults.
func NewControllerAgent(goals Goals) *ControllerAgent {
	defaults := DefaultGoals()
	if goals.TargetMolecules <= 0 {
		goals.TargetMolecules = defaults.TargetMolecules
	}
	if goals.SuccessRate <= 0 {
		goals.SuccessRate = defaults.SuccessRate
	}
	if goals.MaxIterations <= 0 {
		goals.MaxIterations = defaults.MaxIterations
	}
	return &ControllerAgent{goals: goals}
}

// ShouldContinue reports whether the run is under both its iteration and
// target-molecule limits.
func (c *ControllerAgent) ShouldContinue() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iteration < c.goals.MaxIterations && c.successes < c.goals.TargetMolecules
}

// NextIteration advances the iteration counter.
func (c *ControllerAgent) NextIteration() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.iteration++
}

// RecordSuccess counts a successful candidate.
func (c *ControllerAgent) RecordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes++
}

// RecordFailure counts a failed candidate.
func (c *ControllerAgent) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures++
}

// Reset returns the controller to its initial state, keeping goals.
func (c *ControllerAgent) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.iteration = 0
	c.successes = 0
	c.failures = 0
}

// TargetReached reports whether enough molecules have been found.
func (c *ControllerAgent) TargetReached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.successes >= c.goals.TargetMolecules
}

// Progress returns current run metrics.
func (c *ControllerAgent) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := Progress{
		Iterations:          c.iteration,
		Successes:           c.successes,
		Failures:            c.failures,
		TargetRemaining:     max(0, c.goals.TargetMolecules-c.successes),
		IterationsRemaining: max(0, c.goals.MaxIterations-c.iteration),
	}
	if total := c.successes + c.failures; total > 0 {
		p.SuccessRate = float64(c.successes) / float64(total)
	}
	return p
}

// EstimateCompletion projects remaining iterations from the success rate
// so far.
func (c *ControllerAgent) EstimateCompletion() Estimate {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.iteration == 0 {
		return Estimate{Iterations: float64(c.goals.MaxIterations)}
	}
	rate := float64(c.successes) / float64(c.iteration)
	if rate == 0 {
		return Estimate{Iterations: math.Inf(1), SufficientData: true}
	}
	remaining := float64(c.goals.TargetMolecules-c.successes) / rate
	if remaining < 0 {
		remaining = 0
	}
	return Estimate{
		Iterations:     remaining,
		SuccessRate:    rate,
		SufficientData: true,
		Achievable:     float64(c.iteration)+remaining <= float64(c.goals.MaxIterations),
	}
}

// Goals returns the configured goals.
func (c *ControllerAgent) Goals() Goals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goals
}

// UpdateGoals replaces non-zero goal fields.
func (c *ControllerAgent) UpdateGoals(goals Goals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if goals.TargetMolecules > 0 {
		c.goals.TargetMolecules = goals.TargetMolecules
	}
	if goals.SuccessRate > 0 {
		c.goals.SuccessRate = goals.SuccessRate
	}
	if goals.MaxIterations > 0 {
		c.goals.MaxIterations = goals.MaxIterations
	}
}
