package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adalundhe/savant/core/catalog"
)

// =============================================================================
// Prerequisite Checker
// =============================================================================
//
// The checker resolves a skill's declared prerequisites against an explicit
// snapshot of available skills, and infers implicit prerequisites the skill
// did not declare but conventionally needs. Results are recomputed on every
// call; nothing is cached across catalog changes.

// PrereqStatus is the tri-state (plus unknown) outcome for one prerequisite.
type PrereqStatus string

const (
	PrereqSatisfied PrereqStatus = "satisfied"
	PrereqPartial   PrereqStatus = "partial"
	PrereqMissing   PrereqStatus = "missing"
	PrereqUnknown   PrereqStatus = "unknown"
)

// Prerequisite is one resolved prerequisite requirement.
type Prerequisite struct {
	SkillID     string       `json:"skill_id"`
	SkillName   string       `json:"skill_name"`
	Description string       `json:"description"`
	Status      PrereqStatus `json:"status"`
	Confidence  float64      `json:"confidence"`
}

// PrereqCheckResult reports prerequisite satisfaction for one skill.
//
// AllSatisfied is true iff MissingCount is zero. A partial (fuzzy) resolution
// deliberately does not count as missing.
type PrereqCheckResult struct {
	Skill          *catalog.Skill `json:"skill"`
	AllSatisfied   bool           `json:"all_satisfied"`
	Prerequisites  []Prerequisite `json:"prerequisites,omitempty"`
	MissingCount   int            `json:"missing_count"`
	SatisfiedCount int            `json:"satisfied_count"`
	WarningMessage string         `json:"warning_message,omitempty"`
}

// ErrInvalidSkill is returned when a caller passes a nil or id-less skill.
var ErrInvalidSkill = errors.New("skill reference is not well-formed")

// maxFuzzyMatches bounds how many close matches a partial resolution names.
const maxFuzzyMatches = 3

// maxLibrarySiblings bounds how many shared-library siblings are injected as
// soft prerequisites.
const maxLibrarySiblings = 2

// PrereqChecker checks declared and inferred prerequisites.
type PrereqChecker struct{}

// NewPrereqChecker creates a prerequisite checker.
func NewPrereqChecker() *PrereqChecker {
	return &PrereqChecker{}
}

// Check resolves the skill's prerequisites against the available snapshot.
func (c *PrereqChecker) Check(skill *catalog.Skill, available []*catalog.Skill) (PrereqCheckResult, error) {
	if skill == nil || skill.ID == "" {
		return PrereqCheckResult{}, ErrInvalidSkill
	}

	availableByID := make(map[string]*catalog.Skill, len(available))
	for _, s := range available {
		availableByID[s.ID] = s
	}

	declared := make(map[string]bool, len(skill.Prerequisites))
	var prerequisites []Prerequisite
	for _, prereqID := range skill.Prerequisites {
		declared[prereqID] = true
		prerequisites = append(prerequisites, c.checkOne(prereqID, available, availableByID))
	}

	for _, prereqID := range c.inferImplicit(skill, available) {
		if declared[prereqID] {
			continue
		}
		declared[prereqID] = true
		prerequisites = append(prerequisites, c.checkOne(prereqID, available, availableByID))
	}

	missing, satisfied := 0, 0
	for _, p := range prerequisites {
		switch p.Status {
		case PrereqSatisfied:
			satisfied++
		case PrereqMissing:
			missing++
		}
	}

	result := PrereqCheckResult{
		Skill:          skill,
		AllSatisfied:   missing == 0,
		Prerequisites:  prerequisites,
		MissingCount:   missing,
		SatisfiedCount: satisfied,
	}
	if missing > 0 {
		result.WarningMessage = fmt.Sprintf("missing %d prerequisite(s)", missing)
	}
	return result, nil
}

// CheckBatch checks prerequisites for several skills against one snapshot.
func (c *PrereqChecker) CheckBatch(skills, available []*catalog.Skill) ([]PrereqCheckResult, error) {
	results := make([]PrereqCheckResult, 0, len(skills))
	for _, skill := range skills {
		result, err := c.Check(skill, available)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *PrereqChecker) checkOne(
	prereqID string,
	available []*catalog.Skill,
	availableByID map[string]*catalog.Skill,
) Prerequisite {
	if found, ok := availableByID[prereqID]; ok {
		return Prerequisite{
			SkillID:     prereqID,
			SkillName:   found.Name,
			Description: found.Description,
			Status:      PrereqSatisfied,
			Confidence:  1.0,
		}
	}

	if similar := c.fuzzyMatches(prereqID, available); len(similar) > 0 {
		return Prerequisite{
			SkillID:     prereqID,
			SkillName:   titleFromID(prereqID),
			Description: "similar to: " + strings.Join(similar, ", "),
			Status:      PrereqPartial,
			Confidence:  0.5,
		}
	}

	return Prerequisite{
		SkillID:     prereqID,
		SkillName:   titleFromID(prereqID),
		Description: "prerequisite not found",
		Status:      PrereqMissing,
		Confidence:  0.0,
	}
}

// fuzzyMatches finds available skills whose id overlaps the prerequisite id
// as a substring in either direction.
func (c *PrereqChecker) fuzzyMatches(prereqID string, available []*catalog.Skill) []string {
	prereqLower := strings.ToLower(prereqID)
	var names []string
	for _, skill := range available {
		idLower := strings.ToLower(skill.ID)
		if strings.Contains(idLower, prereqLower) || strings.Contains(prereqLower, idLower) {
			names = append(names, skill.Name)
			if len(names) == maxFuzzyMatches {
				break
			}
		}
	}
	return names
}

// inferImplicit derives prerequisites the skill did not declare:
//   - statistical methods get a descriptive-statistics skill when one exists
//   - *regression* skills get a correlation skill when one exists
//   - skills sharing an external library pick up sibling skills on the same
//     library as soft prerequisites
func (c *PrereqChecker) inferImplicit(skill *catalog.Skill, available []*catalog.Skill) []string {
	var implicit []string

	if skill.Category == catalog.CategoryStatisticalMethod && !c.declaresLike(skill, "descriptive") {
		for _, candidate := range available {
			idLower := strings.ToLower(candidate.ID)
			if strings.Contains(idLower, "descriptive") || strings.Contains(idLower, "summary") {
				implicit = append(implicit, candidate.ID)
				break
			}
		}
	}

	if strings.Contains(strings.ToLower(skill.ID), "regression") && !c.declaresLike(skill, "correlation") {
		for _, candidate := range available {
			if strings.Contains(strings.ToLower(candidate.ID), "correlation") {
				implicit = append(implicit, candidate.ID)
				break
			}
		}
	}

	implicit = append(implicit, c.librarySiblings(skill, available)...)
	return implicit
}

func (c *PrereqChecker) declaresLike(skill *catalog.Skill, fragment string) bool {
	for _, prereqID := range skill.Prerequisites {
		if strings.Contains(strings.ToLower(prereqID), fragment) {
			return true
		}
	}
	return false
}

func (c *PrereqChecker) librarySiblings(skill *catalog.Skill, available []*catalog.Skill) []string {
	if len(skill.Dependencies) == 0 {
		return nil
	}

	libs := make(map[string]bool, len(skill.Dependencies))
	for _, dep := range skill.Dependencies {
		libs[dep] = true
	}

	var siblings []string
	for _, candidate := range available {
		if candidate.ID == skill.ID {
			continue
		}
		for _, dep := range candidate.Dependencies {
			if libs[dep] {
				siblings = append(siblings, candidate.ID)
				break
			}
		}
		if len(siblings) == maxLibrarySiblings {
			break
		}
	}
	return siblings
}

// =============================================================================
// Batch Helpers
// =============================================================================

// MissingPrerequisites collects the hard-missing prerequisites per skill id.
func MissingPrerequisites(results []PrereqCheckResult) map[string][]Prerequisite {
	missing := make(map[string][]Prerequisite)
	for _, result := range results {
		for _, p := range result.Prerequisites {
			if p.Status == PrereqMissing {
				missing[result.Skill.ID] = append(missing[result.Skill.ID], p)
			}
		}
	}
	return missing
}

// FilterByPrerequisites keeps skills whose prerequisites are sufficiently
// satisfied: all of them when requireAll, otherwise at least half.
func (c *PrereqChecker) FilterByPrerequisites(
	skills, available []*catalog.Skill,
	requireAll bool,
) ([]*catalog.Skill, error) {
	filtered := make([]*catalog.Skill, 0, len(skills))
	for _, skill := range skills {
		result, err := c.Check(skill, available)
		if err != nil {
			return nil, err
		}
		if requireAll {
			if result.AllSatisfied {
				filtered = append(filtered, skill)
			}
			continue
		}
		total := len(result.Prerequisites)
		if total == 0 || float64(result.SatisfiedCount) >= float64(total)/2 {
			filtered = append(filtered, skill)
		}
	}
	return filtered, nil
}

// PrereqReport summarizes prerequisite checks across many skills.
type PrereqReport struct {
	TotalSkills            int      `json:"total_skills"`
	FullySatisfied         int      `json:"fully_satisfied"`
	PartiallySatisfied     int      `json:"partially_satisfied"`
	TotalPrerequisites     int      `json:"total_prerequisites"`
	MissingPrerequisites   int      `json:"missing_prerequisites"`
	SatisfiedPrerequisites int      `json:"satisfied_prerequisites"`
	SatisfactionRate       float64  `json:"satisfaction_rate"`
	SkillsWithMissing      []string `json:"skills_with_missing,omitempty"`
}

// Report builds a summary over a batch of check results.
func Report(results []PrereqCheckResult) PrereqReport {
	report := PrereqReport{TotalSkills: len(results)}
	for _, result := range results {
		if result.AllSatisfied {
			report.FullySatisfied++
		}
		report.MissingPrerequisites += result.MissingCount
		report.SatisfiedPrerequisites += result.SatisfiedCount
		if result.MissingCount > 0 {
			report.SkillsWithMissing = append(report.SkillsWithMissing, result.Skill.ID)
		}
	}
	report.PartiallySatisfied = report.TotalSkills - report.FullySatisfied
	report.TotalPrerequisites = report.MissingPrerequisites + report.SatisfiedPrerequisites
	if report.TotalSkills > 0 {
		report.SatisfactionRate = float64(report.FullySatisfied) / float64(report.TotalSkills)
	}
	return report
}

func titleFromID(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
