package recommend

import (
	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
)

// =============================================================================
// Heuristic Tables
// =============================================================================
//
// Every keyword-driven heuristic in the engine reads from one of these tables
// instead of inline literals. Tests substitute minimal tables for fixed
// fixtures; production code uses the Default* constructors.

// MatcherTables holds the lookup tables the matcher scores against.
type MatcherTables struct {
	// CategoryByProblemType maps a problem type to the skill category that
	// canonically addresses it.
	CategoryByProblemType map[problem.Type]catalog.Category

	// FormatKeywords maps a requested output format to descriptive keywords
	// that signal a skill can produce it.
	FormatKeywords map[problem.OutputFormat][]string

	// ConceptRelatedTerms maps a statistical concept to looser terms that
	// indicate the concept is in play.
	ConceptRelatedTerms map[string][]string
}

// DefaultMatcherTables returns the production matcher tables.
func DefaultMatcherTables() MatcherTables {
	return MatcherTables{
		CategoryByProblemType: map[problem.Type]catalog.Category{
			problem.TypeHypothesisTest:       catalog.CategoryStatisticalMethod,
			problem.TypeOneSampleTest:        catalog.CategoryStatisticalMethod,
			problem.TypeTwoSampleTest:        catalog.CategoryStatisticalMethod,
			problem.TypeANOVA:                catalog.CategoryStatisticalMethod,
			problem.TypeChiSquare:            catalog.CategoryStatisticalMethod,
			problem.TypeRegression:           catalog.CategoryStatisticalMethod,
			problem.TypeCorrelation:          catalog.CategoryStatisticalMethod,
			problem.TypeClassification:       catalog.CategoryStatisticalMethod,
			problem.TypeClustering:           catalog.CategoryStatisticalMethod,
			problem.TypeDescriptive:          catalog.CategoryStatisticalMethod,
			problem.TypeDistributionAnalysis: catalog.CategoryStatisticalMethod,
			problem.TypeOptimization:         catalog.CategoryMathematicalImplementation,
			problem.TypeSimulation:           catalog.CategoryMathematicalImplementation,
			problem.TypeTimeSeries:           catalog.CategoryStatisticalMethod,
			problem.TypeForecasting:          catalog.CategoryStatisticalMethod,
		},
		FormatKeywords: map[problem.OutputFormat][]string{
			problem.FormatPlot:   {"plot", "graph", "chart", "visual", "figure"},
			problem.FormatTable:  {"table", "dataframe", "tabular"},
			problem.FormatNumber: {"number", "value", "result", "scalar"},
			problem.FormatText:   {"text", "report", "summary", "explain"},
		},
		ConceptRelatedTerms: map[string][]string{
			"hypothesis_testing":    {"test", "hypothesis", "significant", "p-value"},
			"regression":            {"predict", "model", "relationship", "fit"},
			"correlation":           {"correlate", "relationship", "association"},
			"clustering":            {"cluster", "group", "segment"},
			"distribution_analysis": {"distribution", "normality", "shape"},
		},
	}
}

// ChainTables holds the workflow composition tables.
type ChainTables struct {
	// Patterns maps a problem type to its ordered step slots.
	Patterns map[problem.Type][]StepType

	// DefaultPattern is used for problem types without an entry.
	DefaultPattern []StepType

	// SlotKeywords maps a non-core step type to the keywords that identify
	// candidate skills for that slot.
	SlotKeywords map[StepType][]string
}

// DefaultChainTables returns the production workflow tables.
func DefaultChainTables() ChainTables {
	return ChainTables{
		Patterns: map[problem.Type][]StepType{
			problem.TypeHypothesisTest: {StepPreparation, StepCoreAnalysis, StepValidation, StepVisualization},
			problem.TypeRegression:     {StepPreparation, StepCoreAnalysis, StepValidation, StepVisualization},
			problem.TypeClassification: {StepPreparation, StepCoreAnalysis, StepPostProcessing, StepVisualization},
			problem.TypeDescriptive:    {StepPreparation, StepCoreAnalysis, StepVisualization},
			problem.TypeOptimization:   {StepPreparation, StepCoreAnalysis, StepValidation},
			problem.TypeSimulation:     {StepPreparation, StepCoreAnalysis, StepPostProcessing, StepVisualization},
		},
		DefaultPattern: []StepType{StepPreparation, StepCoreAnalysis, StepVisualization},
		SlotKeywords: map[StepType][]string{
			StepPreparation:    {"load", "clean", "prepare", "validate", "preprocess"},
			StepValidation:     {"validate", "check", "test", "assumption", "diagnostic"},
			StepPostProcessing: {"post", "process", "transform", "format", "export"},
			StepVisualization:  {"plot", "graph", "chart", "visualize", "display"},
		},
	}
}

// AlternativeTables holds the alternative discovery tables.
type AlternativeTables struct {
	// MethodAlternatives maps a substring of a primary skill id to the ids
	// (or id fragments) of curated alternative methods.
	MethodAlternatives map[string][]string

	// SimplerKeywords signal a skill is a lighter-weight option.
	SimplerKeywords []string

	// AdvancedKeywords signal a skill is a heavier option.
	AdvancedKeywords []string

	// VisualizationKeywords identify complementary visualization skills.
	VisualizationKeywords []string
}

// DefaultAlternativeTables returns the production alternative tables.
func DefaultAlternativeTables() AlternativeTables {
	return AlternativeTables{
		MethodAlternatives: map[string][]string{
			"t-test":            {"mann-whitney", "wilcoxon", "bootstrap"},
			"anova":             {"kruskal-wallis", "bootstrap"},
			"linear_regression": {"polynomial_regression", "generalized_linear_model", "decision_tree"},
			"correlation":       {"spearman", "kendall", "mutual_information"},
			"chi-square":        {"fisher_exact", "bootstrap"},
		},
		SimplerKeywords:       []string{"simple", "basic", "easy", "quick", "introductory"},
		AdvancedKeywords:      []string{"advanced", "sophisticated", "complex", "robust", "enhanced"},
		VisualizationKeywords: []string{"plot", "graph", "chart", "visualize"},
	}
}
