package hatch

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// DefaultPromptTokens is the prompt size assumed when an estimate is
// requested without a token count.
const DefaultPromptTokens = 500

// Accuracy thresholds for CompareCosts, in percent.
const (
	exactThresholdPct = 5
	closeThresholdPct = 20
)

// GenerationCost records what one completed generation actually cost.
// Immutable once fetched; summaries are derived views over a slice of these.
type GenerationCost struct {
	GenerationID     string        `json:"generationId"`
	ModelID          string        `json:"modelId"`
	TotalCost        float64       `json:"totalCost"`
	PromptTokens     int           `json:"promptTokens"`
	CompletionTokens int           `json:"completionTokens"`
	ImageTokens      int           `json:"imageTokens"`
	Duration         time.Duration `json:"duration"`
	CacheDiscount    float64       `json:"cacheDiscount,omitempty"`
	FetchedAt        time.Time     `json:"fetchedAt"`
}

// CostComparison is the reconciliation of an estimate against actual spend.
type CostComparison struct {
	Estimated   float64 `json:"estimated"`
	Actual      float64 `json:"actual"`
	Difference  float64 `json:"difference"`
	PercentDiff float64 `json:"percentDiff"`
	Accuracy    string  `json:"accuracy"` // "exact", "close" or "off"
}

// ModelCostBreakdown aggregates spend for a single model.
type ModelCostBreakdown struct {
	Count     int     `json:"count"`
	TotalCost float64 `json:"totalCost"`
}

// CostSummary is a derived view over a collection of generation costs.
type CostSummary struct {
	TotalCost             float64                       `json:"totalCost"`
	Count                 int                           `json:"count"`
	AverageCost           float64                       `json:"averageCostPerGeneration"`
	TotalPromptTokens     int                           `json:"totalPromptTokens"`
	TotalCompletionTokens int                           `json:"totalCompletionTokens"`
	TotalImageTokens      int                           `json:"totalImageTokens"`
	ByModel               map[string]ModelCostBreakdown `json:"byModel"`
}

// EstimateGenerationCost predicts the cost of one generation call.
// Unknown model ids yield 0 with a logged warning; a stale id in an edited
// plan is not an error.
func EstimateGenerationCost(modelID string, promptTokens, outputImages int, models []RegisteredModel) float64 {
	m, ok := GetModelByID(modelID, models)
	if !ok {
		slog.Warn("estimating cost for unknown model", "model", modelID)
		return 0
	}
	if promptTokens <= 0 {
		promptTokens = DefaultPromptTokens
	}
	cost := float64(promptTokens) * m.Pricing.PromptPerToken
	cost += float64(outputImages) * m.Pricing.PerImage
	cost += m.Pricing.PerRequest
	return cost
}

// EstimateBatchCost predicts the cost of generating assetCount assets, one
// image each. promptTokens <= 0 uses DefaultPromptTokens.
func EstimateBatchCost(modelID string, assetCount, promptTokens int, models []RegisteredModel) float64 {
	if assetCount <= 0 {
		return 0
	}
	return EstimateGenerationCost(modelID, promptTokens, 1, models) * float64(assetCount)
}

// CompareCosts reconciles an estimate against the actual spend. An estimate
// of zero with non-zero actual yields +Inf percent difference.
func CompareCosts(estimated, actual float64) CostComparison {
	diff := actual - estimated
	var pct float64
	switch {
	case estimated != 0:
		pct = diff / estimated * 100
	case diff == 0:
		pct = 0
	default:
		pct = math.Inf(1)
	}

	accuracy := "off"
	switch {
	case math.Abs(pct) < exactThresholdPct:
		accuracy = "exact"
	case math.Abs(pct) <= closeThresholdPct:
		accuracy = "close"
	}

	return CostComparison{
		Estimated:   estimated,
		Actual:      actual,
		Difference:  diff,
		PercentDiff: pct,
		Accuracy:    accuracy,
	}
}

// SummarizeCosts folds a list of generation costs into totals, a per-model
// breakdown, and an average cost per generation (0 for an empty list).
func SummarizeCosts(costs []GenerationCost) CostSummary {
	s := CostSummary{ByModel: make(map[string]ModelCostBreakdown)}
	for _, c := range costs {
		s.TotalCost += c.TotalCost
		s.Count++
		s.TotalPromptTokens += c.PromptTokens
		s.TotalCompletionTokens += c.CompletionTokens
		s.TotalImageTokens += c.ImageTokens

		b := s.ByModel[c.ModelID]
		b.Count++
		b.TotalCost += c.TotalCost
		s.ByModel[c.ModelID] = b
	}
	if s.Count > 0 {
		s.AverageCost = s.TotalCost / float64(s.Count)
	}
	return s
}

// CostDisplayOptions controls FormatCostDisplay.
type CostDisplayOptions struct {
	Precision  int  // explicit decimal places; 0 → choose by magnitude
	IsEstimate bool // "~" prefix
	ShowLabel  bool // "(estimated)" / "(actual)" suffix
}

// FormatCostDisplay renders a USD amount. Sub-dime values get four decimal
// places so fractions of a cent stay visible; larger values get two.
func FormatCostDisplay(cost float64, opts *CostDisplayOptions) string {
	if opts == nil {
		opts = &CostDisplayOptions{}
	}

	precision := opts.Precision
	if precision <= 0 {
		if cost < 0.10 {
			precision = 4
		} else {
			precision = 2
		}
	}

	out := fmt.Sprintf("$%.*f", precision, cost)
	if opts.IsEstimate {
		out = "~" + out
	}
	if opts.ShowLabel {
		if opts.IsEstimate {
			out += " (estimated)"
		} else {
			out += " (actual)"
		}
	}
	return out
}
