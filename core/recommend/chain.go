package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
)

// =============================================================================
// Skill Chain Builder
// =============================================================================
//
// The chain builder expands a single core skill into an ordered multi-step
// workflow. Steps are only ever appended and may only depend on steps already
// in the chain, so the dependency relation is acyclic by construction.

// StepType classifies a workflow step.
type StepType string

const (
	StepPreparation    StepType = "preparation"
	StepCoreAnalysis   StepType = "core_analysis"
	StepPostProcessing StepType = "post_processing"
	StepValidation     StepType = "validation"
	StepVisualization  StepType = "visualization"
)

// maxSkillsPerSlot caps how many skills one pattern slot contributes.
const maxSkillsPerSlot = 3

// ChainStep is one step in a workflow.
type ChainStep struct {
	Skill       *catalog.Skill `json:"skill"`
	StepType    StepType       `json:"step_type"`
	Order       int            `json:"order"`
	Description string         `json:"description"`

	// DependsOn lists the orders of earlier steps this one depends on.
	// Entries are always strictly smaller than Order.
	DependsOn []int `json:"depends_on,omitempty"`

	EstimatedTime string `json:"estimated_time,omitempty"`
}

// Chain is an ordered multi-step analysis workflow.
type Chain struct {
	ID                     string      `json:"id"`
	Name                   string      `json:"name"`
	Description            string      `json:"description"`
	Steps                  []ChainStep `json:"steps"`
	TotalSteps             int         `json:"total_steps"`
	EstimatedDuration      string      `json:"estimated_duration"`
	PrerequisitesSatisfied bool        `json:"prerequisites_satisfied"`
	Confidence             float64     `json:"confidence"`
	ProblemType            problem.Type `json:"problem_type"`
	CoreSkillID            string      `json:"core_skill_id"`
}

// ChainBuilder composes workflows around a core skill.
type ChainBuilder struct {
	tables  ChainTables
	checker *PrereqChecker
}

// NewChainBuilder creates a chain builder. A nil checker gets a default one.
func NewChainBuilder(tables ChainTables, checker *PrereqChecker) *ChainBuilder {
	if checker == nil {
		checker = NewPrereqChecker()
	}
	return &ChainBuilder{tables: tables, checker: checker}
}

// Build expands the core skill into a workflow for the problem type, using
// only skills from the available snapshot for the surrounding steps.
func (b *ChainBuilder) Build(
	coreSkill *catalog.Skill,
	problemType problem.Type,
	features problem.Features,
	available []*catalog.Skill,
) (Chain, error) {
	if coreSkill == nil || coreSkill.ID == "" {
		return Chain{}, ErrInvalidSkill
	}

	pattern, ok := b.tables.Patterns[problemType]
	if !ok {
		pattern = b.tables.DefaultPattern
	}

	var steps []ChainStep
	for _, stepType := range pattern {
		for _, skill := range b.skillsForSlot(stepType, coreSkill, available, features) {
			order := len(steps)
			steps = append(steps, ChainStep{
				Skill:         skill,
				StepType:      stepType,
				Order:         order,
				Description:   stepDescription(skill, stepType),
				DependsOn:     b.dependencies(skill, stepType, steps),
				EstimatedTime: estimateStepTime(skill),
			})
		}
	}

	prereqResults, err := b.checker.CheckBatch(stepSkills(steps), available)
	if err != nil {
		return Chain{}, err
	}

	allSatisfied := true
	for _, result := range prereqResults {
		if !result.AllSatisfied {
			allSatisfied = false
			break
		}
	}

	return Chain{
		ID:                     uuid.New().String(),
		Name:                   coreSkill.Name + " Workflow",
		Description:            chainDescription(coreSkill, problemType),
		Steps:                  steps,
		TotalSteps:             len(steps),
		EstimatedDuration:      estimateDuration(len(steps)),
		PrerequisitesSatisfied: allSatisfied,
		Confidence:             chainConfidence(steps, prereqResults),
		ProblemType:            problemType,
		CoreSkillID:            coreSkill.ID,
	}, nil
}

// BuildAlternatives builds one chain per candidate core skill and returns
// them sorted by confidence descending.
func (b *ChainBuilder) BuildAlternatives(
	coreSkills []*catalog.Skill,
	problemType problem.Type,
	features problem.Features,
	available []*catalog.Skill,
	maxChains int,
) ([]Chain, error) {
	if maxChains < 1 {
		return nil, ErrInvalidLimit
	}

	if len(coreSkills) > maxChains {
		coreSkills = coreSkills[:maxChains]
	}

	chains := make([]Chain, 0, len(coreSkills))
	for _, core := range coreSkills {
		chain, err := b.Build(core, problemType, features, available)
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain)
	}

	sort.SliceStable(chains, func(i, j int) bool { return chains[i].Confidence > chains[j].Confidence })
	return chains, nil
}

func (b *ChainBuilder) skillsForSlot(
	stepType StepType,
	coreSkill *catalog.Skill,
	available []*catalog.Skill,
	features problem.Features,
) []*catalog.Skill {
	if stepType == StepCoreAnalysis {
		return []*catalog.Skill{coreSkill}
	}

	if stepType == StepVisualization && !b.wantsVisualization(coreSkill, features) {
		return nil
	}

	keywords := b.tables.SlotKeywords[stepType]
	includeTags := stepType == StepVisualization

	var skills []*catalog.Skill
	for _, skill := range available {
		if skill.ID == coreSkill.ID {
			continue
		}
		if matchesSlot(skill, keywords, includeTags) {
			skills = append(skills, skill)
			if len(skills) == maxSkillsPerSlot {
				break
			}
		}
	}
	return skills
}

// wantsVisualization gates the visualization slot: the problem either asked
// for it, or the core skill itself is visualization-flavored.
func (b *ChainBuilder) wantsVisualization(coreSkill *catalog.Skill, features problem.Features) bool {
	if features.RequiresVisualization {
		return true
	}
	for _, tag := range coreSkill.Tags {
		lower := strings.ToLower(tag)
		for _, kw := range b.tables.SlotKeywords[StepVisualization] {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func matchesSlot(skill *catalog.Skill, keywords []string, includeTags bool) bool {
	idLower := strings.ToLower(skill.ID)
	descLower := strings.ToLower(skill.Description)
	tagsLower := ""
	if includeTags {
		tagsLower = strings.ToLower(strings.Join(skill.Tags, " "))
	}
	for _, kw := range keywords {
		if strings.Contains(idLower, kw) || strings.Contains(descLower, kw) {
			return true
		}
		if includeTags && strings.Contains(tagsLower, kw) {
			return true
		}
	}
	return false
}

// dependencies is structural: a step depends on earlier steps whose skill it
// declared as a prerequisite, and the core analysis step depends on every
// preparation step before it.
func (b *ChainBuilder) dependencies(skill *catalog.Skill, stepType StepType, existing []ChainStep) []int {
	seen := make(map[int]bool)
	var deps []int
	add := func(order int) {
		if !seen[order] {
			seen[order] = true
			deps = append(deps, order)
		}
	}

	for _, prereqID := range skill.Prerequisites {
		for _, step := range existing {
			if step.Skill.ID == prereqID {
				add(step.Order)
			}
		}
	}

	if stepType == StepCoreAnalysis {
		for _, step := range existing {
			if step.StepType == StepPreparation {
				add(step.Order)
			}
		}
	}

	sort.Ints(deps)
	return deps
}

func chainConfidence(steps []ChainStep, prereqResults []PrereqCheckResult) float64 {
	if len(steps) == 0 {
		return 0
	}

	confidence := 0.8

	missing := 0
	for _, result := range prereqResults {
		missing += result.MissingCount
	}
	if missing > 0 {
		penalty := float64(missing) * 0.05
		if penalty > 0.3 {
			penalty = 0.3
		}
		confidence -= penalty
	}

	coreSteps := 0
	for _, step := range steps {
		if step.StepType == StepCoreAnalysis {
			coreSteps++
		}
	}
	if coreSteps == 1 {
		confidence += 0.1
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

func stepDescription(skill *catalog.Skill, stepType StepType) string {
	prefixes := map[StepType]string{
		StepPreparation:    "Prepare data",
		StepCoreAnalysis:   "Perform analysis",
		StepPostProcessing: "Process results",
		StepValidation:     "Validate assumptions",
		StepVisualization:  "Visualize results",
	}
	prefix, ok := prefixes[stepType]
	if !ok {
		prefix = "Execute"
	}
	return prefix + ": " + skill.Description
}

func estimateStepTime(skill *catalog.Skill) string {
	if strings.HasPrefix(skill.Complexity, "O(n^2)") {
		return "1-5 minutes"
	}
	return "< 1 minute"
}

// estimateDuration buckets a flat one-minute-per-step estimate.
func estimateDuration(totalSteps int) string {
	switch {
	case totalSteps < 5:
		return "< 5 minutes"
	case totalSteps < 15:
		return "5-15 minutes"
	default:
		return fmt.Sprintf("~%d minutes", totalSteps)
	}
}

func chainDescription(coreSkill *catalog.Skill, problemType problem.Type) string {
	readable := strings.ReplaceAll(string(problemType), "_", " ")
	return fmt.Sprintf("Multi-step workflow for %s using %s", readable, coreSkill.Name)
}

func stepSkills(steps []ChainStep) []*catalog.Skill {
	skills := make([]*catalog.Skill, len(steps))
	for i, step := range steps {
		skills[i] = step.Skill
	}
	return skills
}

// Visualize renders a text view of the chain for terminal display.
func Visualize(chain Chain) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Chain: %s\n", chain.Name)
	fmt.Fprintf(&sb, "Description: %s\n\n", chain.Description)

	for _, step := range chain.Steps {
		fmt.Fprintf(&sb, "  [%d] %s (%s)", step.Order, step.Skill.Name, step.StepType)
		if step.EstimatedTime != "" {
			fmt.Fprintf(&sb, " [%s]", step.EstimatedTime)
		}
		if len(step.DependsOn) > 0 {
			refs := make([]string, len(step.DependsOn))
			for i, dep := range step.DependsOn {
				refs[i] = fmt.Sprintf("step_%d", dep)
			}
			fmt.Fprintf(&sb, " (depends on: %s)", strings.Join(refs, ", "))
		}
		fmt.Fprintf(&sb, "\n      %s\n\n", step.Description)
	}

	fmt.Fprintf(&sb, "Total steps: %d\n", chain.TotalSteps)
	fmt.Fprintf(&sb, "Estimated duration: %s\n", chain.EstimatedDuration)
	fmt.Fprintf(&sb, "Prerequisites satisfied: %t\n", chain.PrerequisitesSatisfied)
	fmt.Fprintf(&sb, "Confidence: %.2f\n", chain.Confidence)
	return sb.String()
}
