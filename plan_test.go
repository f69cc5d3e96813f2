package hatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan_AssetWithDirectionalVariant(t *testing.T) {
	assets := ParsePlan("## Characters\n- Farmer\n  - Idle (4-direction)")

	require.Len(t, assets, 1, "multi-direction variants stay collapsed into one composite asset")
	a := assets[0]
	assert.Equal(t, "Farmer", a.Name)
	assert.Equal(t, "Characters", a.Category)
	assert.NotEmpty(t, a.ID)

	// Category heuristic: characters move in four directions.
	assert.Equal(t, MobilityMoveable, a.Mobility.Kind)
	assert.Equal(t, 4, a.Mobility.Directions)

	// Composite mode: one sprite sheet, not four children.
	assert.Equal(t, AssetSpriteSheet, a.Type)
	require.NotNil(t, a.Variant)
	assert.Equal(t, "Idle", a.Variant.Name)
	assert.Equal(t, 4, a.Variant.DirectionCount)
	assert.Equal(t, "idle", a.Variant.AnimationType)
	assert.Equal(t, rowArrangement, a.Variant.ArrangementType)
}

func TestParsePlan_ExplicitTags(t *testing.T) {
	plan := `## Props
- Rock [STATIC]
- Torch [ANIM:6]
- Guard Dog [MOVEABLE:8]
- Banner [MOVEABLE]`

	assets := ParsePlan(plan)
	require.Len(t, assets, 4)

	byName := make(map[string]*ParsedAsset)
	for _, a := range assets {
		byName[a.Name] = a
	}

	assert.Equal(t, MobilityStatic, byName["Rock"].Mobility.Kind)

	assert.Equal(t, MobilityAnimated, byName["Torch"].Mobility.Kind)
	assert.Equal(t, 6, byName["Torch"].Mobility.Frames)

	assert.Equal(t, MobilityMoveable, byName["Guard Dog"].Mobility.Kind)
	assert.Equal(t, 8, byName["Guard Dog"].Mobility.Directions)

	// Tag without a count falls back to four directions.
	assert.Equal(t, 4, byName["Banner"].Mobility.Directions)
}

func TestParsePlan_DirectionNormalization(t *testing.T) {
	assets := ParsePlan("## NPCs\n- Merchant [MOVEABLE:6]\n- Cat [MOVEABLE:3]")
	require.Len(t, assets, 2)
	assert.Equal(t, 8, assets[0].Mobility.Directions)
	assert.Equal(t, 4, assets[1].Mobility.Directions)
}

func TestParsePlan_MobilityHeuristics(t *testing.T) {
	plan := `## World
- Campfire flame
- Village flag
- Boulder

## Enemy Units
- Slime`

	assets := ParsePlan(plan)
	require.Len(t, assets, 4)

	byName := make(map[string]*ParsedAsset)
	for _, a := range assets {
		byName[a.Name] = a
	}

	assert.Equal(t, MobilityAnimated, byName["Campfire flame"].Mobility.Kind)
	assert.Equal(t, 4, byName["Campfire flame"].Mobility.Frames)
	assert.Equal(t, MobilityAnimated, byName["Village flag"].Mobility.Kind)
	assert.Equal(t, MobilityStatic, byName["Boulder"].Mobility.Kind)
	// The enemy category marks its members moveable.
	assert.Equal(t, MobilityMoveable, byName["Slime"].Mobility.Kind)
}

func TestParsePlan_EmphasisAndDescription(t *testing.T) {
	assets := ParsePlan("## Characters\n- **Farmer**: a weathered farmer in denim overalls")

	require.Len(t, assets, 1)
	assert.Equal(t, "Farmer", assets[0].Name)
	assert.Equal(t, "a weathered farmer in denim overalls", assets[0].Description)
}

func TestParsePlan_MultipleVariants(t *testing.T) {
	plan := `## Characters
- Knight
  - Idle (4-direction)
  - Walk (4-direction) (6-frame)
  - Attack (8-direction)`

	assets := ParsePlan(plan)
	require.Len(t, assets, 3, "one record per asset/variant pair")

	for _, a := range assets {
		assert.Equal(t, "Knight", a.Name)
		assert.Equal(t, AssetSpriteSheet, a.Type)
		require.NotNil(t, a.Variant)
	}
	assert.Equal(t, 6, assets[1].Variant.FrameCount)
	assert.Equal(t, "walk", assets[1].Variant.AnimationType)
	assert.Equal(t, 8, assets[2].Variant.DirectionCount)
	assert.Equal(t, 8, assets[2].Mobility.Directions)

	// Every emitted record gets its own id.
	ids := map[string]bool{}
	for _, a := range assets {
		ids[a.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestParsePlan_UnrecognizedAnimationName(t *testing.T) {
	assets := ParsePlan("## Characters\n- Mage\n  - Channeling (2-direction)")

	require.Len(t, assets, 1)
	require.NotNil(t, assets[0].Variant)
	assert.Equal(t, "Channeling pose", assets[0].Variant.Pose)
	assert.Empty(t, assets[0].Variant.AnimationType)
}

func TestParsePlan_VariantFacing(t *testing.T) {
	assets := ParsePlan("## Characters\n- Scout\n  - Idle (left)")

	require.Len(t, assets, 1)
	require.NotNil(t, assets[0].Variant)
	assert.Equal(t, "left", assets[0].Variant.Direction)
	assert.Zero(t, assets[0].Variant.DirectionCount)
	// Single-facing variants are not composites.
	assert.Equal(t, AssetCharacterSprite, assets[0].Type)
}

func TestParsePlan_IgnoresNoise(t *testing.T) {
	plan := `# Game Asset Plan

Some prose about the game.

## Characters

- Farmer

Trailing prose.`

	assets := ParsePlan(plan)
	require.Len(t, assets, 1)
	assert.Equal(t, "Farmer", assets[0].Name)
}

func TestDetermineAssetType(t *testing.T) {
	cases := []struct {
		name     string
		category string
		want     AssetType
	}{
		{"Farmer", "Characters", AssetCharacterSprite},
		{"Sunset sky", "World", AssetBackground},
		{"Grass tile", "Environment", AssetTileset},
		{"Stone path", "World", AssetTileset},
		{"Health potion", "Items", AssetIcon},
		{"Sword prop", "Misc", AssetIcon},
		{"Health bar", "UI", AssetUIElement},
		{"Start button", "Menus", AssetUIElement},
		{"Mysterious thing", "Misc", AssetCharacterSprite},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, determineAssetType(tc.name, tc.category), "%s / %s", tc.name, tc.category)
	}
}
