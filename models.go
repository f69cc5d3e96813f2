package hatch

import (
	"errors"
)

// ErrEmptyCategory is returned when a default model is requested for a
// category with no registered models.
var ErrEmptyCategory = errors.New("no models registered for category")

// Modality is an input or output capability of a model.
type Modality string

const (
	ModalityText    Modality = "text"
	ModalityImage   Modality = "image"
	ModalityModel3D Modality = "model3d"
)

// ModelCategory groups models by what they are used for.
type ModelCategory string

const (
	CategoryChat       ModelCategory = "chat"
	CategoryMultimodal ModelCategory = "multimodal"
	CategoryImageGen   ModelCategory = "image-gen"
	CategoryModelGen   ModelCategory = "model-gen"
)

// ModelPricing holds per-unit USD rates for a model. Zero fields mean the
// rate does not apply to that model.
type ModelPricing struct {
	PromptPerToken     float64 // per input token
	CompletionPerToken float64 // per output token
	PerImage           float64 // flat fee per generated image
	PerRequest         float64 // flat fee per request
}

// RegisteredModel describes one entry in the static model catalog.
// The catalog is immutable after process start; lookups never mutate it.
type RegisteredModel struct {
	ID       string
	Name     string
	Provider string
	Category ModelCategory
	Inputs   []Modality
	Outputs  []Modality
	Pricing  ModelPricing
	Default  bool // preferred model for its category
}

// DefaultModelCatalog returns the built-in generation model catalog with
// current USD pricing.
func DefaultModelCatalog() []RegisteredModel {
	return []RegisteredModel{
		{
			ID:       "google/gemini-2.5-flash",
			Name:     "Gemini 2.5 Flash",
			Provider: "openrouter",
			Category: CategoryChat,
			Inputs:   []Modality{ModalityText, ModalityImage},
			Outputs:  []Modality{ModalityText},
			Pricing:  ModelPricing{PromptPerToken: 0.0000003, CompletionPerToken: 0.0000025},
			Default:  true,
		},
		{
			ID:       "openai/gpt-4o-mini",
			Name:     "GPT-4o mini",
			Provider: "openrouter",
			Category: CategoryChat,
			Inputs:   []Modality{ModalityText},
			Outputs:  []Modality{ModalityText},
			Pricing:  ModelPricing{PromptPerToken: 0.0000006, CompletionPerToken: 0.0000024},
		},
		{
			ID:       "google/gemini-2.5-pro",
			Name:     "Gemini 2.5 Pro",
			Provider: "openrouter",
			Category: CategoryMultimodal,
			Inputs:   []Modality{ModalityText, ModalityImage},
			Outputs:  []Modality{ModalityText},
			Pricing:  ModelPricing{PromptPerToken: 0.00000125, CompletionPerToken: 0.00001},
			Default:  true,
		},
		{
			ID:       "google/gemini-2.5-flash-image",
			Name:     "Gemini 2.5 Flash Image",
			Provider: "openrouter",
			Category: CategoryImageGen,
			Inputs:   []Modality{ModalityText, ModalityImage},
			Outputs:  []Modality{ModalityImage},
			Pricing:  ModelPricing{PromptPerToken: 0.0001, PerImage: 0.02},
			Default:  true,
		},
		{
			ID:       "black-forest-labs/flux-1.1-pro",
			Name:     "FLUX 1.1 Pro",
			Provider: "openrouter",
			Category: CategoryImageGen,
			Inputs:   []Modality{ModalityText},
			Outputs:  []Modality{ModalityImage},
			Pricing:  ModelPricing{PerImage: 0.04},
		},
		{
			ID:       "tripo3d/tripo-v2.5",
			Name:     "Tripo v2.5",
			Provider: "tripo3d",
			Category: CategoryModelGen,
			Inputs:   []Modality{ModalityText, ModalityImage},
			Outputs:  []Modality{ModalityModel3D},
			Pricing:  ModelPricing{PerRequest: 0.2},
			Default:  true,
		},
	}
}

// GetModelByID looks up a model in the catalog. The second return value is
// false when the id is unknown.
func GetModelByID(id string, models []RegisteredModel) (*RegisteredModel, bool) {
	for i := range models {
		if models[i].ID == id {
			return &models[i], true
		}
	}
	return nil, false
}

// DefaultModelFor returns the model flagged default for the category,
// falling back to the first model in that category. It fails only when the
// category has no models at all.
func DefaultModelFor(category ModelCategory, models []RegisteredModel) (*RegisteredModel, error) {
	var first *RegisteredModel
	for i := range models {
		if models[i].Category != category {
			continue
		}
		if models[i].Default {
			return &models[i], nil
		}
		if first == nil {
			first = &models[i]
		}
	}
	if first == nil {
		return nil, ErrEmptyCategory
	}
	return first, nil
}

// ModelSupports reports whether the model declares every required input and
// output modality. Unknown ids report false rather than erroring; they are
// expected while a user is still editing a plan.
func ModelSupports(id string, inputs, outputs []Modality, models []RegisteredModel) bool {
	m, ok := GetModelByID(id, models)
	if !ok {
		return false
	}
	return containsAll(m.Inputs, inputs) && containsAll(m.Outputs, outputs)
}

func containsAll(have, want []Modality) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
