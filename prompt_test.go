package hatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProject() *Project {
	return &Project{
		Name:           "Harvest Hollow",
		Theme:          "cozy farming village",
		StyleKeywords:  []string{"16-bit", "pixel art"},
		ColorPalette:   "warm autumn tones",
		Lighting:       "soft afternoon light",
		Perspective:    "3/4 top-down view",
		BaseResolution: "32x32",
	}
}

func TestCalculateGenerationSize(t *testing.T) {
	size, err := CalculateGenerationSize("32x32")
	require.NoError(t, err)
	assert.Equal(t, GenerationSize{Width: 64, Height: 64}, size)

	size, err = CalculateGenerationSize("128x96")
	require.NoError(t, err)
	assert.Equal(t, GenerationSize{Width: 256, Height: 192}, size)
}

func TestCalculateGenerationSize_Invalid(t *testing.T) {
	for _, bad := range []string{"invalid", "32x", "x32", "32X32", "32x32x32", ""} {
		_, err := CalculateGenerationSize(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestBuildAssetPrompt_Deterministic(t *testing.T) {
	assets := ParsePlan("## Characters\n- Farmer: a weathered farmer in denim overalls\n  - Idle (4-direction)")
	require.Len(t, assets, 1)

	p1, err := BuildAssetPrompt(assets[0], testProject(), nil, nil)
	require.NoError(t, err)
	p2, err := BuildAssetPrompt(assets[0], testProject(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, p1, p2, "identical inputs must yield an identical prompt")

	assert.Contains(t, p1, "a weathered farmer in denim overalls")
	assert.Contains(t, p1, "16-bit pixel art")
	assert.Contains(t, p1, "warm autumn tones")
	assert.Contains(t, p1, "4 directional poses arranged horizontally in a single row")
	assert.Contains(t, p1, "cozy farming village")
}

func TestBuildAssetPrompt_CharacterRegistryPrecedence(t *testing.T) {
	assets := ParsePlan("## Characters\n- Farmer: some throwaway description")
	registry := CharacterRegistry{"Farmer": "an old farmer with a straw hat and red scarf"}

	prompt, err := BuildAssetPrompt(assets[0], testProject(), nil, registry)
	require.NoError(t, err)
	assert.Contains(t, prompt, "an old farmer with a straw hat and red scarf")
	assert.NotContains(t, prompt, "throwaway")
}

func TestBuildAssetPrompt_DescriptionCleaning(t *testing.T) {
	asset := &ParsedAsset{
		Name:        "Farmer",
		Type:        AssetCharacterSprite,
		Description: "**Appearance: a tall farmer, holding a pitchfork, next to a barn, at sunset**",
	}

	prompt, err := BuildAssetPrompt(asset, &Project{}, nil, nil)
	require.NoError(t, err)
	// Bold stripped, label prefix stripped, run-on clauses truncated to the first.
	assert.Contains(t, prompt, "a tall farmer")
	assert.NotContains(t, prompt, "**")
	assert.NotContains(t, prompt, "Appearance")
	assert.NotContains(t, prompt, "pitchfork")
}

func TestBuildAssetPrompt_ViewPrecedence(t *testing.T) {
	project := testProject()

	base := &ParsedAsset{Name: "Scout", Type: AssetCharacterSprite}

	// Project perspective when nothing more specific is set.
	prompt, err := BuildAssetPrompt(base, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "3/4 top-down view")

	// Variant facing beats the project perspective.
	withVariant := *base
	withVariant.Variant = &Variant{Name: "Idle", Pose: "idle stance", Direction: "left"}
	prompt, err = BuildAssetPrompt(&withVariant, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "facing left")

	// A direction-expanded child beats both.
	withDirection := withVariant
	withDirection.Direction = &DirectionState{Direction: "back-right", Generated: map[string]bool{}}
	prompt, err = BuildAssetPrompt(&withDirection, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "facing back right")

	// Nothing set at all falls back to the default.
	prompt, err = BuildAssetPrompt(base, &Project{}, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "front-facing view")
}

func TestBuildAssetPrompt_PaletteResolution(t *testing.T) {
	asset := &ParsedAsset{Name: "Farmer", Type: AssetCharacterSprite}
	project := testProject()

	anchor := &StyleAnchor{HexColors: []string{"#aa3311", "#22cc88", "#0033aa", "#ffee11", "#111111", "#eeeeee", "#777777", "#999999"}}
	prompt, err := BuildAssetPrompt(asset, project, anchor, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "#aa3311")
	assert.Contains(t, prompt, "#eeeeee")
	assert.NotContains(t, prompt, "#777777", "anchor palette is capped at six colors")
	assert.NotContains(t, prompt, "warm autumn tones")

	// Without an anchor the project palette wins.
	prompt, err = BuildAssetPrompt(asset, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "warm autumn tones")

	// Without either, the fixed default phrase.
	prompt, err = BuildAssetPrompt(asset, &Project{}, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, defaultPalette)
}

func TestBuildAssetPrompt_ConsistencyInstruction(t *testing.T) {
	parent := &ParsedAsset{ID: "p1", Name: "Farmer", Type: AssetCharacterSprite, Mobility: Mobility{Kind: MobilityMoveable, Directions: 4}}
	children := ExpandAssetToDirections(parent, 4)

	back := children[1]
	prompt, err := BuildAssetPrompt(back, testProject(), nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "reference image", "no consistency clause before the front exists")

	back.Direction.Generated[DirectionFront] = true
	prompt, err = BuildAssetPrompt(back, testProject(), nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "same character as the reference image")

	// The front itself never references itself.
	front := children[0]
	front.Direction.Generated[DirectionFront] = true
	prompt, err = BuildAssetPrompt(front, testProject(), nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "reference image")
}

func TestBuildAssetPrompt_PerTypeTemplates(t *testing.T) {
	project := testProject()

	tile := &ParsedAsset{Name: "Grass tile", Type: AssetTileset, Description: "lush spring grass"}
	prompt, err := BuildAssetPrompt(tile, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "seamless 32x32 pixel tile")
	assert.Contains(t, prompt, "tileable on all edges")

	icon := &ParsedAsset{Name: "Health potion", Type: AssetIcon, Description: "red potion bottle"}
	prompt, err = BuildAssetPrompt(icon, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "game icon")

	bg := &ParsedAsset{Name: "Sunset sky", Type: AssetBackground, Description: "rolling hills at dusk"}
	prompt, err = BuildAssetPrompt(bg, project, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "background scene")
	assert.Contains(t, prompt, "full-frame composition")
}

func TestBuildAssetPrompt_ThemeNotDuplicated(t *testing.T) {
	asset := &ParsedAsset{
		Name:        "Farmer",
		Type:        AssetCharacterSprite,
		Description: "a farmer from a cozy farming village",
	}
	prompt, err := BuildAssetPrompt(asset, testProject(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(prompt, "cozy farming village"))
}

func TestPromptProvider_CustomTemplate(t *testing.T) {
	provider, err := NewPromptProvider(WithTemplates(map[string]string{
		string(AssetIcon): "icon of {{ subject }} only",
	}))
	require.NoError(t, err)

	icon := &ParsedAsset{Name: "Potion", Type: AssetIcon}
	prompt, err := BuildAssetPromptWith(provider, icon, &Project{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "icon of Potion only", prompt)
}

func TestPromptProvider_UnknownTemplate(t *testing.T) {
	provider, err := NewPromptProvider()
	require.NoError(t, err)

	_, err = provider.Render("no-such-template", nil)
	assert.Error(t, err)
}
