package hatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNoGenerator is returned when a Studio is built without a Generator.
var ErrNoGenerator = errors.New("generator is required")

// GeneratedAsset pairs an asset descriptor with the prompt that was sent,
// the image that came back, and the reconciled cost when available.
type GeneratedAsset struct {
	Asset    *ParsedAsset
	Prompt   string
	Data     []byte
	MimeType string
	Cost     *GenerationCost
}

// Studio drives the full pipeline: parsed assets in, generated art and
// cost records out.
type Studio struct {
	gen     Generator
	costs   *CostClient
	prompts *PromptProvider
	models  []RegisteredModel
	log     *slog.Logger
}

// StudioOption configures a Studio.
type StudioOption func(*Studio)

// WithCostClient enables actual-cost reconciliation after each generation.
func WithCostClient(c *CostClient) StudioOption {
	return func(s *Studio) { s.costs = c }
}

// WithModelCatalog overrides the default model catalog.
func WithModelCatalog(models []RegisteredModel) StudioOption {
	return func(s *Studio) { s.models = models }
}

// WithPromptProvider overrides the default prompt templates.
func WithPromptProvider(p *PromptProvider) StudioOption {
	return func(s *Studio) { s.prompts = p }
}

// WithStudioLogger sets the studio's logger.
func WithStudioLogger(log *slog.Logger) StudioOption {
	return func(s *Studio) { s.log = log }
}

// NewStudio builds a Studio around a Generator.
func NewStudio(gen Generator, opts ...StudioOption) (*Studio, error) {
	if gen == nil {
		return nil, ErrNoGenerator
	}
	prompts, err := NewPromptProvider()
	if err != nil {
		return nil, err
	}
	s := &Studio{
		gen:     gen,
		prompts: prompts,
		models:  DefaultModelCatalog(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PlanAssets parses a markdown plan into generation work items.
func (s *Studio) PlanAssets(markdown string) []*ParsedAsset {
	assets := ParsePlan(markdown)
	s.log.Debug("parsed plan", "assets", len(assets))
	return assets
}

// EstimatePlanCost predicts the spend for generating every asset in the
// plan with the given model (empty id uses the default image model).
func (s *Studio) EstimatePlanCost(assets []*ParsedAsset, modelID string) float64 {
	if modelID == "" {
		m, err := DefaultModelFor(CategoryImageGen, s.models)
		if err != nil {
			s.log.Warn("no image model registered, estimate is zero")
			return 0
		}
		modelID = m.ID
	}
	return EstimateBatchCost(modelID, len(assets), 0, s.models)
}

// GenerateOptions carries per-call settings for generation.
type GenerateOptions struct {
	Model          string
	StyleAnchor    *StyleAnchor
	Characters     CharacterRegistry
	MaxConcurrency int // 0 → NumCPU
	References     []*ReferenceImage
}

// GenerateOption mutates GenerateOptions.
type GenerateOption func(*GenerateOptions)

// WithModel selects the generation model by id.
func WithModel(id string) GenerateOption {
	return func(o *GenerateOptions) { o.Model = id }
}

// WithStyleAnchor pins the palette and style keywords for the batch.
func WithStyleAnchor(anchor *StyleAnchor) GenerateOption {
	return func(o *GenerateOptions) { o.StyleAnchor = anchor }
}

// WithCharacters supplies canonical character descriptions.
func WithCharacters(registry CharacterRegistry) GenerateOption {
	return func(o *GenerateOptions) { o.Characters = registry }
}

// WithMaxConcurrency bounds batch fan-out, e.g. to stay under an API's
// request-per-minute ceiling.
func WithMaxConcurrency(n int) GenerateOption {
	return func(o *GenerateOptions) { o.MaxConcurrency = n }
}

// WithReferences attaches reference images to a single generation call.
func WithReferences(refs ...*ReferenceImage) GenerateOption {
	return func(o *GenerateOptions) { o.References = refs }
}

// GenerateAsset builds the prompt for one asset, runs the generation, and
// reconciles the actual cost when a cost client is configured. The asset's
// ImageRef is set to the generation id on success.
func (s *Studio) GenerateAsset(ctx context.Context, asset *ParsedAsset, project *Project, opts ...GenerateOption) (*GeneratedAsset, error) {
	var o GenerateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return s.generateOne(ctx, asset, project, &o)
}

func (s *Studio) generateOne(ctx context.Context, asset *ParsedAsset, project *Project, o *GenerateOptions) (*GeneratedAsset, error) {
	modelID := o.Model
	if modelID == "" {
		m, err := DefaultModelFor(CategoryImageGen, s.models)
		if err != nil {
			return nil, fmt.Errorf("pick generation model: %w", err)
		}
		modelID = m.ID
	}

	prompt, err := BuildAssetPromptWith(s.prompts, asset, project, o.StyleAnchor, o.Characters)
	if err != nil {
		return nil, fmt.Errorf("build prompt for %q: %w", asset.Name, err)
	}

	result, err := s.gen.Generate(ctx, modelID, prompt, o.References)
	if err != nil {
		return nil, fmt.Errorf("generate %q: %w", asset.Name, err)
	}
	asset.ImageRef = result.ID

	out := &GeneratedAsset{
		Asset:    asset,
		Prompt:   prompt,
		Data:     result.Data,
		MimeType: result.MimeType,
	}

	if s.costs != nil && result.ID != "" {
		fetched := s.costs.FetchGenerationCostWithRetry(ctx, result.ID)
		if fetched.Status == FetchSuccess {
			out.Cost = fetched.Cost
		} else {
			s.log.Warn("cost fetch failed", "asset", asset.Name, "generation", result.ID, "error", fetched.Message)
		}
	}

	s.log.Debug("generated asset", "asset", asset.Name, "model", modelID, "generation", result.ID)
	return out, nil
}

// GenerateAll runs the whole batch. Front-direction children and
// non-directional assets go first; the remaining directions follow with
// their parent's front image attached as a consistency reference. Fan-out
// within each phase goes through the Runner (bounded errgroup by default).
func (s *Studio) GenerateAll(ctx context.Context, assets []*ParsedAsset, project *Project, opts ...GenerateOption) ([]*GeneratedAsset, CostSummary, error) {
	var o GenerateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var firstWave, secondWave []*ParsedAsset
	for _, a := range assets {
		if a.Direction != nil && a.Direction.Direction != DirectionFront {
			secondWave = append(secondWave, a)
		} else {
			firstWave = append(firstWave, a)
		}
	}

	var (
		mu        sync.Mutex
		results   []*GeneratedAsset
		frontRefs = make(map[string]*ReferenceImage) // parent id → front image
	)

	runWave := func(wave []*ParsedAsset, withRef bool) error {
		var runner Runner
		if o.MaxConcurrency > 0 {
			runner = NewLimitedRunner(ctx, o.MaxConcurrency)
		} else {
			runner = DefaultRunner(ctx)
		}
		for _, asset := range wave {
			asset := asset
			runner.Go(func() error {
				waveOpts := o
				if withRef && asset.Direction != nil {
					mu.Lock()
					if ref := frontRefs[asset.Direction.ParentAssetID]; ref != nil {
						waveOpts.References = append(append([]*ReferenceImage{}, o.References...), ref)
						asset.Direction.Generated[DirectionFront] = true
					}
					mu.Unlock()
				}
				res, err := s.generateOne(ctx, asset, project, &waveOpts)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				results = append(results, res)
				if asset.Direction != nil && asset.Direction.Direction == DirectionFront && len(res.Data) > 0 {
					frontRefs[asset.Direction.ParentAssetID] = &ReferenceImage{
						Data:     res.Data,
						MimeType: res.MimeType,
						Label:    asset.Name,
					}
				}
				return nil
			})
		}
		return runner.Wait()
	}

	if err := runWave(firstWave, false); err != nil {
		return results, s.summarize(results), err
	}
	err := runWave(secondWave, true)
	return results, s.summarize(results), err
}

func (s *Studio) summarize(results []*GeneratedAsset) CostSummary {
	var costs []GenerationCost
	for _, r := range results {
		if r.Cost != nil {
			costs = append(costs, *r.Cost)
		}
	}
	return SummarizeCosts(costs)
}
