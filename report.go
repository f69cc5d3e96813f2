package hatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ReportFormat selects the output rendering of a plan report.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
)

// AssetReport is the per-asset line of a plan report.
type AssetReport struct {
	Name     string    `json:"name"`
	Type     AssetType `json:"type"`
	Mobility Mobility  `json:"mobility"`
	Variant  string    `json:"variant,omitempty"`
	EstCost  float64   `json:"estCost"`
}

// CategoryReport groups asset lines under their plan category.
type CategoryReport struct {
	Name   string        `json:"name"`
	Assets []AssetReport `json:"assets"`
}

// PlanReport summarizes a parsed plan and what it is expected to cost.
type PlanReport struct {
	ModelID       string           `json:"modelId"`
	Categories    []CategoryReport `json:"categories"`
	TotalAssets   int              `json:"totalAssets"`
	EstimatedCost float64          `json:"estimatedCost"`
}

// BuildPlanReport folds parsed assets into a per-category report with
// estimated costs for the given model.
func BuildPlanReport(assets []*ParsedAsset, modelID string, models []RegisteredModel) *PlanReport {
	report := &PlanReport{ModelID: modelID}
	index := make(map[string]int)

	for _, a := range assets {
		ar := AssetReport{
			Name:     a.Name,
			Type:     a.Type,
			Mobility: a.Mobility,
			EstCost:  EstimateGenerationCost(modelID, 0, 1, models),
		}
		if a.Variant != nil {
			ar.Variant = a.Variant.Name
		}

		i, ok := index[a.Category]
		if !ok {
			i = len(report.Categories)
			index[a.Category] = i
			report.Categories = append(report.Categories, CategoryReport{Name: a.Category})
		}
		report.Categories[i].Assets = append(report.Categories[i].Assets, ar)
		report.TotalAssets++
		report.EstimatedCost += ar.EstCost
	}
	return report
}

// FormatPlanReport renders a plan report as an ASCII tree or JSON.
func FormatPlanReport(report *PlanReport, format ReportFormat) (string, error) {
	switch format {
	case ReportText:
		return formatReportAsText(report), nil
	case ReportJSON:
		return formatReportAsJSON(report)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatReportAsText(report *PlanReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hatch Generation Plan (model=%s, estimated costs)\n", report.ModelID))

	for ci, cat := range report.Categories {
		catConnector := "├─ "
		childPrefix := "│  "
		if ci == len(report.Categories)-1 {
			catConnector = "└─ "
			childPrefix = "   "
		}
		sb.WriteString(fmt.Sprintf("%s%s\n", catConnector, cat.Name))

		for ai, a := range cat.Assets {
			connector := "├─ "
			if ai == len(cat.Assets)-1 {
				connector = "└─ "
			}
			sb.WriteString(fmt.Sprintf("%s%s%s\n", childPrefix, connector, formatAssetLine(a)))
		}
	}

	sb.WriteString(fmt.Sprintf("total: %d assets, est %s\n",
		report.TotalAssets,
		FormatCostDisplay(report.EstimatedCost, &CostDisplayOptions{IsEstimate: true})))
	return sb.String()
}

func formatAssetLine(a AssetReport) string {
	details := []string{fmt.Sprintf("type=%s", a.Type), fmt.Sprintf("mobility=%s", a.Mobility.Kind)}
	if a.Mobility.Directions > 0 {
		details = append(details, fmt.Sprintf("directions=%d", a.Mobility.Directions))
	}
	if a.Mobility.Frames > 0 {
		details = append(details, fmt.Sprintf("frames=%d", a.Mobility.Frames))
	}
	if a.Variant != "" {
		details = append(details, fmt.Sprintf("variant=%q", a.Variant))
	}
	details = append(details, fmt.Sprintf("cost=%s", FormatCostDisplay(a.EstCost, &CostDisplayOptions{IsEstimate: true})))
	return fmt.Sprintf("%s (%s)", a.Name, strings.Join(details, ", "))
}

func formatReportAsJSON(report *PlanReport) (string, error) {
	bytes, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
