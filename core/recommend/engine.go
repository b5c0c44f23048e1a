package recommend

import (
	"log/slog"

	"github.com/adalundhe/savant/core/catalog"
	"github.com/adalundhe/savant/core/problem"
)

// =============================================================================
// Recommendation Engine
// =============================================================================

// Options configures one full recommendation pass.
type Options struct {
	// TopK bounds the matcher output. Default 10.
	TopK int

	// MaxRecommendations bounds the ranked list. Default 5.
	MaxRecommendations int

	// MaxAlternatives bounds the alternative set. Default 5.
	MaxAlternatives int

	// RankingMethod selects the scoring strategy. Default balanced.
	RankingMethod RankingMethod

	// UsageHistory is an immutable skill-id to use-count snapshot consumed
	// by popularity and recency ranking.
	UsageHistory map[string]int
}

// DefaultOptions returns the default pass configuration.
func DefaultOptions() Options {
	return Options{
		TopK:               10,
		MaxRecommendations: 5,
		MaxAlternatives:    5,
		RankingMethod:      RankBalanced,
	}
}

// Result bundles the output of one full pass.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Chain           *Chain           `json:"chain,omitempty"`
	Alternatives    *AlternativeSet  `json:"alternatives,omitempty"`
	Comparison      Comparison       `json:"comparison"`
}

// Engine wires the matcher, scorer, prerequisite checker, chain builder, and
// alternative finder into one pipeline. All components run against the same
// catalog snapshot taken at the start of a pass, so a concurrent catalog
// reload cannot produce a torn result.
type Engine struct {
	matcher *Matcher
	checker *PrereqChecker
	chains  *ChainBuilder
	alts    *AlternativeFinder
	logger  *slog.Logger
}

// NewEngine creates an engine with default heuristic tables.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	checker := NewPrereqChecker()
	return &Engine{
		matcher: NewMatcher(DefaultMatcherTables()),
		checker: checker,
		chains:  NewChainBuilder(DefaultChainTables(), checker),
		alts:    NewAlternativeFinder(DefaultAlternativeTables()),
		logger:  logger,
	}
}

// Matcher returns the engine's matcher.
func (e *Engine) Matcher() *Matcher { return e.matcher }

// PrereqChecker returns the engine's prerequisite checker.
func (e *Engine) PrereqChecker() *PrereqChecker { return e.checker }

// ChainBuilder returns the engine's chain builder.
func (e *Engine) ChainBuilder() *ChainBuilder { return e.chains }

// AlternativeFinder returns the engine's alternative finder.
func (e *Engine) AlternativeFinder() *AlternativeFinder { return e.alts }

// Recommend runs match, rank, chain, and alternatives over one snapshot. An
// empty snapshot or no matches yields an empty result, never an error.
func (e *Engine) Recommend(
	snapshot []*catalog.Skill,
	features problem.Features,
	problemType problem.Type,
	dataTypes *problem.DataTypeResult,
	outputFormat problem.OutputFormat,
	opts Options,
) (Result, error) {
	if opts.TopK == 0 {
		opts.TopK = DefaultOptions().TopK
	}
	if opts.MaxRecommendations == 0 {
		opts.MaxRecommendations = DefaultOptions().MaxRecommendations
	}
	if opts.MaxAlternatives == 0 {
		opts.MaxAlternatives = DefaultOptions().MaxAlternatives
	}

	matches := e.matcher.Match(snapshot, features, problemType, dataTypes, outputFormat, opts.TopK)
	e.logger.Debug("matched skills", "candidates", len(snapshot), "matches", len(matches))

	scorer, err := NewScorer(opts.RankingMethod, opts.UsageHistory)
	if err != nil {
		return Result{}, err
	}
	recommendations, err := scorer.ScoreRecommendations(matches, opts.MaxRecommendations)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Recommendations: recommendations,
		Comparison:      Compare(recommendations),
	}
	if len(recommendations) == 0 {
		return result, nil
	}

	top := recommendations[0].Skill
	chain, err := e.chains.Build(top, problemType, features, snapshot)
	if err != nil {
		return Result{}, err
	}
	result.Chain = &chain

	altSet, err := e.alts.Find(top, problemType, dataTypes, snapshot, opts.MaxAlternatives)
	if err != nil {
		return Result{}, err
	}
	result.Alternatives = &altSet

	e.logger.Info("recommendation pass complete",
		"top_skill", top.ID,
		"recommendations", len(recommendations),
		"chain_steps", chain.TotalSteps,
		"alternatives", len(altSet.Alternatives),
	)
	return result, nil
}
