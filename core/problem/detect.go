package problem

import (
	"regexp"
	"sort"
	"strings"

	"github.com/adalundhe/savant/core/catalog"
)

// =============================================================================
// Rule-Based Detection
// =============================================================================
//
// Detection and classification are keyword driven and fully deterministic.
// They exist so the pipeline runs end to end without any model call; an
// upstream analyzer may supply richer Features and bypass this entirely.

var dataTypePatterns = map[catalog.DataType][]*regexp.Regexp{
	catalog.DataNumerical: compileAll(
		`\d+\.?\d*`, `percent`, `%`, `\brate\b`, `ratio`,
		`\bvalue\b`, `amount`, `count`, `total`, `average`,
		`\bmean\b`, `median`, `mode`, `\bstd\b`, `variance`, `deviation`,
	),
	catalog.DataCategorical: compileAll(
		`group`, `category`, `class\b`, `\btype\b`, `level`, `factor`,
		`label`, `\btag\b`, `compare`, `difference between`, `versus`, `\bvs\b`,
		`types of`, `kinds of`,
	),
	catalog.DataTimeSeries: compileAll(
		`\btime\b`, `\bdate\b`, `year`, `month`, `\bday\b`, `hour`,
		`trend`, `over time`, `time series`, `historical`, `forecast`,
		`daily`, `weekly`, `monthly`, `quarterly`, `annually`, `sequence`,
	),
	catalog.DataText: compileAll(
		`\btext\b`, `string`, `\bword\b`, `sentence`, `paragraph`,
		`natural language`, `\bnlp\b`, `sentiment`, `document`, `article`,
	),
	catalog.DataBoolean: compileAll(
		`yes/no`, `true/false`, `binary`, `on/off`,
		`whether`, `determine if`, `check if`,
		`success/failure`, `pass/fail`, `positive/negative`,
	),
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// DetectDataTypes scores the text against known data type indicators and
// returns the best candidates with supporting evidence.
func DetectDataTypes(text string) DataTypeResult {
	lower := strings.ToLower(text)

	type scored struct {
		dt    catalog.DataType
		score float64
	}

	var (
		all      []scored
		evidence []string
	)
	for _, dt := range []catalog.DataType{
		catalog.DataNumerical, catalog.DataCategorical,
		catalog.DataTimeSeries, catalog.DataText, catalog.DataBoolean,
	} {
		score := 0.0
		for _, re := range dataTypePatterns[dt] {
			if match := re.FindString(lower); match != "" {
				score += 0.3
				evidence = append(evidence, strings.TrimSpace(match))
			}
		}
		if score > 1.0 {
			score = 1.0
		}
		all = append(all, scored{dt, score})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	result := DataTypeResult{
		PrimaryType: all[0].dt,
		Confidence:  all[0].score,
		Evidence:    dedupeStrings(evidence),
	}
	positives := 0
	for _, s := range all {
		if s.score > 0 {
			positives++
		}
	}
	for _, s := range all[1:] {
		if s.score > 0 {
			result.SecondaryTypes = append(result.SecondaryTypes, s.dt)
		}
	}
	result.MixedType = positives >= 2
	return result
}

// =============================================================================
// Problem Classification
// =============================================================================

var typeKeywords = map[Type][]string{
	TypeHypothesisTest:       {"test", "hypothesis", "significant", "p-value", "reject", "null"},
	TypeOneSampleTest:        {"one sample", "compare to", "known value", "population mean"},
	TypeTwoSampleTest:        {"two sample", "compare two", "difference between", "groups"},
	TypeANOVA:                {"anova", "analysis of variance", "multiple groups", "more than two"},
	TypeChiSquare:            {"chi-square", "chi square", "independence", "contingency"},
	TypeRegression:           {"regression", "predict", "model", "relationship"},
	TypeLinearRegression:     {"linear regression", "fit line", "slope", "intercept"},
	TypeLogisticRegression:   {"logistic regression", "binary outcome", "probability"},
	TypeCorrelation:          {"correlation", "relationship", "association", "related"},
	TypeClassification:       {"classify", "predict class", "category prediction", "label"},
	TypeClustering:           {"cluster", "group", "segment", "unsupervised"},
	TypeDescriptive:          {"describe", "summarize", "statistics", "mean", "median", "mode"},
	TypeDistributionAnalysis: {"distribution", "normality", "histogram", "shape"},
	TypeOptimization:         {"optimize", "optimal", "best", "minimize", "maximize"},
	TypeMinimization:         {"minimize", "minimum", "reduce", "lowest"},
	TypeMaximization:         {"maximize", "maximum", "increase", "highest"},
	TypeSimulation:           {"simulate", "simulation", "generate", "random"},
	TypeMonteCarlo:           {"monte carlo", "random sampling", "estimate", "probability"},
	TypeBootstrap:            {"bootstrap", "resample", "confidence interval"},
	TypeTimeSeries:           {"time series", "over time", "temporal", "sequence"},
	TypeForecasting:          {"forecast", "predict future", "projection", "trend"},
}

// classificationOrder keeps scoring deterministic when types tie.
var classificationOrder = []Type{
	TypeHypothesisTest, TypeOneSampleTest, TypeTwoSampleTest, TypeANOVA,
	TypeChiSquare, TypeRegression, TypeLinearRegression, TypeLogisticRegression,
	TypeCorrelation, TypeClassification, TypeClustering, TypeDescriptive,
	TypeDistributionAnalysis, TypeOptimization, TypeMinimization,
	TypeMaximization, TypeSimulation, TypeMonteCarlo, TypeBootstrap,
	TypeTimeSeries, TypeForecasting,
}

// Classification is the outcome of problem type classification.
type Classification struct {
	PrimaryType Type    `json:"primary_type"`
	Subtypes    []Type  `json:"subtypes,omitempty"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

var typeHierarchy = map[Type][]Type{
	TypeHypothesisTest: {TypeOneSampleTest, TypeTwoSampleTest, TypeANOVA, TypeChiSquare},
	TypeRegression:     {TypeLinearRegression, TypeLogisticRegression},
	TypeOptimization:   {TypeMinimization, TypeMaximization},
	TypeSimulation:     {TypeMonteCarlo, TypeBootstrap},
	TypeTimeSeries:     {TypeForecasting},
}

// Classify determines the problem type from the description text.
func Classify(text string) Classification {
	lower := strings.ToLower(text)

	scores := make(map[Type]int)
	for _, t := range classificationOrder {
		hits := 0
		for _, kw := range typeKeywords[t] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > 0 {
			scores[t] = hits
		}
	}

	if len(scores) == 0 {
		return Classification{
			PrimaryType: TypeUnknown,
			Confidence:  0,
			Reasoning:   "no known problem type indicators found",
		}
	}

	primary := TypeUnknown
	best := 0
	for _, t := range classificationOrder {
		if scores[t] > best {
			best = scores[t]
			primary = t
		}
	}

	var subtypes []Type
	for _, sub := range typeHierarchy[primary] {
		if scores[sub] > 0 {
			subtypes = append(subtypes, sub)
		}
	}

	confidence := float64(best) / float64(len(typeKeywords[primary]))
	if confidence > 1 {
		confidence = 1
	}

	return Classification{
		PrimaryType: primary,
		Subtypes:    subtypes,
		Confidence:  confidence,
		Reasoning:   "matched " + string(primary) + " indicators",
	}
}

// =============================================================================
// Feature Extraction
// =============================================================================

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"i": true, "if": true, "in": true, "is": true, "it": true, "my": true,
	"of": true, "on": true, "or": true, "our": true, "that": true, "the": true,
	"their": true, "there": true, "this": true, "to": true, "want": true,
	"we": true, "what": true, "whether": true, "which": true, "with": true,
}

var tokenRE = regexp.MustCompile(`[a-z][a-z_-]{2,}`)

var visualizationHints = []string{"plot", "graph", "chart", "visualiz", "visualis", "histogram", "heatmap", "diagram"}

// Analyze runs the full rule-based pipeline over one problem statement and
// assembles the Features bundle consumed by the recommendation engine.
func Analyze(description string) (Features, Classification, DataTypeResult) {
	classification := Classify(description)
	dataTypes := DetectDataTypes(description)

	lower := strings.ToLower(description)
	requiresViz := false
	for _, hint := range visualizationHints {
		if strings.Contains(lower, hint) {
			requiresViz = true
			break
		}
	}

	features := Features{
		Description:           description,
		DataTypes:             dataTypes.AllTypes(),
		ProblemType:           classification.PrimaryType,
		PrimaryGoal:           description,
		ContextKeywords:       extractKeywords(lower),
		RequiresVisualization: requiresViz,
	}
	return features, classification, dataTypes
}

func extractKeywords(lower string) []string {
	tokens := tokenRE.FindAllString(lower, -1)
	var keywords []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
