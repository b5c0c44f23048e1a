package problem

import (
	"github.com/adalundhe/savant/core/catalog"
)

// =============================================================================
// Problem Description Model
// =============================================================================
//
// These types are the structured output of analyzing a user's natural
// language problem statement. They are created once per query and treated as
// immutable for the duration of a recommendation pass.

// Type is the classified kind of analysis a problem calls for.
type Type string

const (
	// Hypothesis testing.
	TypeHypothesisTest Type = "hypothesis_test"
	TypeOneSampleTest  Type = "one_sample_test"
	TypeTwoSampleTest  Type = "two_sample_test"
	TypeANOVA          Type = "anova"
	TypeChiSquare      Type = "chi_square"

	// Modeling.
	TypeRegression         Type = "regression"
	TypeLinearRegression   Type = "linear_regression"
	TypeLogisticRegression Type = "logistic_regression"
	TypeCorrelation        Type = "correlation"

	// Machine learning.
	TypeClassification Type = "classification"
	TypeClustering     Type = "clustering"

	// Exploration.
	TypeDescriptive          Type = "descriptive"
	TypeDistributionAnalysis Type = "distribution_analysis"

	// Mathematical.
	TypeOptimization Type = "optimization"
	TypeMinimization Type = "minimization"
	TypeMaximization Type = "maximization"

	// Simulation.
	TypeSimulation Type = "simulation"
	TypeMonteCarlo Type = "monte_carlo"
	TypeBootstrap  Type = "bootstrap"

	// Temporal.
	TypeTimeSeries  Type = "time_series"
	TypeForecasting Type = "forecasting"

	TypeUnknown   Type = "unknown"
	TypeMultiStep Type = "multi_step"
)

// OutputFormat is the requested shape of the analysis result.
type OutputFormat string

const (
	FormatUnknown OutputFormat = "unknown"

	FormatPlot      OutputFormat = "plot"
	FormatGraph     OutputFormat = "graph"
	FormatChart     OutputFormat = "chart"
	FormatHistogram OutputFormat = "histogram"
	FormatHeatmap   OutputFormat = "heatmap"

	FormatTable     OutputFormat = "table"
	FormatDataFrame OutputFormat = "dataframe"
	FormatCSV       OutputFormat = "csv"

	FormatNumber     OutputFormat = "number"
	FormatPercentage OutputFormat = "percentage"

	FormatText    OutputFormat = "text"
	FormatReport  OutputFormat = "report"
	FormatSummary OutputFormat = "summary"
)

// Features holds everything extracted from one problem statement.
type Features struct {
	Description string `json:"description"`
	Summary     string `json:"summary,omitempty"`

	DataTypes       []catalog.DataType `json:"data_types,omitempty"`
	DataSourceHints []string           `json:"data_source_hints,omitempty"`
	SampleSizeHint  string             `json:"sample_size_hint,omitempty"`

	ProblemType Type     `json:"problem_type"`
	Subtypes    []string `json:"subtypes,omitempty"`

	PrimaryGoal    string   `json:"primary_goal"`
	SecondaryGoals []string `json:"secondary_goals,omitempty"`

	ContextKeywords []string `json:"context_keywords,omitempty"`

	Constraints []string `json:"constraints,omitempty"`
	Assumptions []string `json:"assumptions,omitempty"`

	RequiresVisualization bool         `json:"requires_visualization"`
	OutputFormat          OutputFormat `json:"output_format,omitempty"`
}

// DataTypeResult is the outcome of data type detection.
type DataTypeResult struct {
	PrimaryType    catalog.DataType   `json:"primary_type"`
	SecondaryTypes []catalog.DataType `json:"secondary_types,omitempty"`
	Confidence     float64            `json:"confidence"`
	Evidence       []string           `json:"evidence,omitempty"`
	MixedType      bool               `json:"mixed_type"`
}

// AllTypes returns the primary followed by the secondary types.
func (r *DataTypeResult) AllTypes() []catalog.DataType {
	if r == nil {
		return nil
	}
	types := make([]catalog.DataType, 0, 1+len(r.SecondaryTypes))
	if r.PrimaryType != "" {
		types = append(types, r.PrimaryType)
	}
	types = append(types, r.SecondaryTypes...)
	return types
}
