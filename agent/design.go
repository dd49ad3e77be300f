package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/moleculab/drugflow/chem"
	"github.com/moleculab/drugflow/llm"
	"github.com/moleculab/drugflow/log"
	"github.com/moleculab/drugflow/tool"
)

// Analysis is the outcome of analyzing one compound.
type Analysis struct {
	Compound     string        `json:"compound"`
	CID          int           `json:"cid,omitempty"`
	Profile      *chem.Profile `json:"profile,omitempty"`
	BindingScore float64       `json:"binding_score"`
	Summary      string        `json:"summary,omitempty"`
	Status       string        `json:"status"`
	Error        string        `json:"error,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// Outcome records a success or failure in agent memory.
type Outcome struct {
	Compound  string    `json:"compound"`
	Score     float64   `json:"score,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Memory is the DesignAgent's persistent record of what it has tried.
type Memory struct {
	Successes       []Outcome  `json:"successes"`
	Failures        []Outcome  `json:"failures"`
	Analyzed        []Analysis `json:"analyzed"`
	GenerationCount int        `json:"generation_count"`
}

// MemoryStats summarizes agent memory.
type MemoryStats struct {
	TotalAnalyzed      int     `json:"total_analyzed"`
	TotalSuccesses     int     `json:"total_successes"`
	TotalFailures      int     `json:"total_failures"`
	GenerationAttempts int     `json:"generation_attempts"`
	SuccessRate        float64 `json:"success_rate"`
}

// DesignAgent analyzes compounds and remembers outcomes across runs. The
// memory file is written on Save and reloaded on construction, so repeated
// runs accumulate history.
type DesignAgent struct {
	PubChem    PropertyLookup
	Summarizer llm.Summarizer
	Logger     log.Logger

	mu         sync.Mutex
	memory     Memory
	memoryPath string
}

// NewDesignAgent creates a DesignAgent. memoryPath may be empty, in which
// case memory is held in process only.
func NewDesignAgent(pubchem PropertyLookup, summarizer llm.Summarizer, memoryPath string) *DesignAgent {
	a := &DesignAgent{
		PubChem:    pubchem,
		Summarizer: summarizer,
		memoryPath: memoryPath,
	}
	a.loadMemory()
	return a
}

func (a *DesignAgent) logger() log.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return log.GetDefaultLogger()
}

func (a *DesignAgent) loadMemory() {
	if a.memoryPath == "" {
		return
	}
	data, err := os.ReadFile(a.memoryPath)
	if err != nil {
		return
	}
	var m Memory
	if err := json.Unmarshal(data, &m); err != nil {
		a.logger().Warn("could not load memory from %s: %v", a.memoryPath, err)
		return
	}
	a.memory = m
}

// SaveMemory writes the agent's memory to its memory path.
func (a *DesignAgent) SaveMemory() error {
	if a.memoryPath == "" {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writeMemory(a.memoryPath)
}

// ExportMemory writes a copy of the memory to another location.
func (a *DesignAgent) ExportMemory(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writeMemory(path)
}

func (a *DesignAgent) writeMemory(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create memory dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(a.memory, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode memory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write memory: %w", err)
	}
	return nil
}

// ClearMemory resets the agent's memory.
func (a *DesignAgent) ClearMemory() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory = Memory{}
}

// Analyze looks up a compound, evaluates its ADMET profile and binding
// heuristic, and records the analysis in memory.
func (a *DesignAgent) Analyze(ctx context.Context, compound string) (*Analysis, error) {
	analysis := &Analysis{
		Compound:  compound,
		Status:    "completed",
		Timestamp: time.Now(),
	}

	props, err := a.PubChem.Properties(ctx, compound)
	if err != nil {
		analysis.Status = "error"
		analysis.Error = err.Error()
		a.remember(analysis)
		return analysis, fmt.Errorf("analysis of %q failed: %w", compound, err)
	}
	analysis.CID = props.CID

	d := chem.FromProperties(props)
	profile := chem.Evaluate(d)
	analysis.Profile = &profile
	analysis.BindingScore = chem.BindingScore(d)

	if a.Summarizer != nil {
		summary, err := a.Summarizer.Summarize(ctx, llm.CompoundPrompt(llm.CompoundInput{
			Name:            compound,
			Formula:         props.MolecularFormula,
			MolecularWeight: float64(props.MolecularWeight),
			SMILES:          props.CanonicalSMILES,
			ADMETSummary:    admetSummary(profile),
		}))
		if err != nil {
			a.logger().Warn("summary for %q failed: %v", compound, err)
		} else {
			analysis.Summary = summary
		}
	}

	a.remember(analysis)
	return analysis, nil
}

// AnalyzeTargetCompounds analyzes each compound found for a target.
// Individual failures are recorded and skipped.
func (a *DesignAgent) AnalyzeTargetCompounds(ctx context.Context, compounds []tool.TargetCompound) ([]Analysis, error) {
	var analyses []Analysis
	for _, c := range compounds {
		name := c.IUPACName
		if name == "" {
			name = strconv.Itoa(c.CID)
		}
		analysis, err := a.Analyze(ctx, name)
		if err != nil {
			a.logger().Warn("skipping %s: %v", name, err)
			continue
		}
		if analysis.CID == 0 {
			analysis.CID = c.CID
		}
		analyses = append(analyses, *analysis)
	}
	return analyses, nil
}

func (a *DesignAgent) remember(analysis *Analysis) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.Analyzed = append(a.memory.Analyzed, *analysis)
}

// LogSuccess records a compound that cleared the pipeline.
func (a *DesignAgent) LogSuccess(compound string, score float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.Successes = append(a.memory.Successes, Outcome{
		Compound:  compound,
		Score:     score,
		Timestamp: time.Now(),
	})
}

// LogFailure records a rejected compound and why.
func (a *DesignAgent) LogFailure(compound, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.memory.Failures = append(a.memory.Failures, Outcome{
		Compound:  compound,
		Reason:    reason,
		Timestamp: time.Now(),
	})
}

// Stats summarizes the memory.
func (a *DesignAgent) Stats() MemoryStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	stats := MemoryStats{
		TotalAnalyzed:      len(a.memory.Analyzed),
		TotalSuccesses:     len(a.memory.Successes),
		TotalFailures:      len(a.memory.Failures),
		GenerationAttempts: a.memory.GenerationCount,
	}
	if total := stats.TotalSuccesses + stats.TotalFailures; total > 0 {
		stats.SuccessRate = float64(stats.TotalSuccesses) / float64(total)
	}
	return stats
}

// TopSuccesses returns the n best successes by score.
func (a *DesignAgent) TopSuccesses(n int) []Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	successes := make([]Outcome, len(a.memory.Successes))
	copy(successes, a.memory.Successes)
	sort.SliceStable(successes, func(i, j int) bool {
		return successes[i].Score > successes[j].Score
	})
	if len(successes) > n {
		successes = successes[:n]
	}
	return successes
}

// SearchAnalyzed finds a previous analysis by compound name.
func (a *DesignAgent) SearchAnalyzed(compound string) (*Analysis, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.memory.Analyzed) - 1; i >= 0; i-- {
		if a.memory.Analyzed[i].Compound == compound {
			analysis := a.memory.Analyzed[i]
			return &analysis, true
		}
	}
	return nil, false
}

// FailureReasons counts failures by reason.
func (a *DesignAgent) FailureReasons() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	reasons := make(map[string]int)
	for _, f := range a.memory.Failures {
		reason := f.Reason
		if reason == "" {
			reason = "unknown"
		}
		reasons[reason]++
	}
	return reasons
}

func admetSummary(p chem.Profile) string {
	lipinski := "passes Lipinski"
	if !p.Lipinski {
		lipinski = fmt.Sprintf("%d Lipinski violations", len(p.LipinskiViolations))
	}
	return fmt.Sprintf("%s, %s, %s", lipinski, p.ToxicityClass, p.SolubilityClass)
}
