package hatch

// AssetType is the kind of art an asset descriptor asks for. It selects the
// prompt template used for generation.
type AssetType string

const (
	AssetCharacterSprite AssetType = "character-sprite"
	AssetTileset         AssetType = "tileset"
	AssetIcon            AssetType = "icon"
	AssetBackground      AssetType = "background"
	AssetUIElement       AssetType = "ui-element"
	AssetSpriteSheet     AssetType = "sprite-sheet"
)

// MobilityKind classifies how an asset moves on screen.
type MobilityKind string

const (
	MobilityStatic   MobilityKind = "static"
	MobilityMoveable MobilityKind = "moveable"
	MobilityAnimated MobilityKind = "animated"
)

// Mobility is the movement classification of an asset: static, moveable
// with a direction count, or animated with a frame count.
type Mobility struct {
	Kind       MobilityKind `json:"kind"`
	Directions int          `json:"directions,omitempty"` // 4 or 8 for moveable
	Frames     int          `json:"frames,omitempty"`     // for animated
}

// Variant describes one pose/animation row of an asset.
type Variant struct {
	Name            string `json:"name"`
	Pose            string `json:"pose"`
	AnimationType   string `json:"animationType,omitempty"`
	FrameCount      int    `json:"frameCount,omitempty"`
	DirectionCount  int    `json:"directionCount,omitempty"`
	Direction       string `json:"direction,omitempty"` // single facing, e.g. "(left)" in the variant text
	ArrangementType string `json:"arrangementType,omitempty"`
}

// DirectionState links a direction-expanded child back to its parent and
// records which sibling directions already have generated art. Kept as an
// explicit record (not a pointer into the parent) so a deleted parent never
// leaves children pointing at freed state.
type DirectionState struct {
	Generated     map[string]bool `json:"generated"`
	ParentAssetID string          `json:"parentAssetId"`
	Direction     string          `json:"direction"`
	IsParent      bool            `json:"isParent"`
}

// ParsedAsset is one generation work item produced by the plan parser.
// The only mutation after parsing is attaching the generated image ref.
type ParsedAsset struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Name        string          `json:"name"`
	Type        AssetType       `json:"type"`
	Description string          `json:"description,omitempty"`
	Mobility    Mobility        `json:"mobility"`
	Direction   *DirectionState `json:"direction,omitempty"`
	Variant     *Variant        `json:"variant,omitempty"`
	ImageRef    string          `json:"imageRef,omitempty"` // set after generation completes
}

// Project holds the style settings a plan is generated under.
type Project struct {
	Name           string
	Theme          string
	StyleKeywords  []string
	ColorPalette   string // free-text palette description
	Lighting       string
	Perspective    string // camera view, e.g. "top-down view"
	BaseResolution string // "WxH", e.g. "32x32"
	Background     string // background hint for sprites, e.g. "transparent background"
}

// StyleAnchor is a reference palette/keyword set that keeps a batch of
// generated art visually consistent.
type StyleAnchor struct {
	HexColors []string
	Keywords  []string
}

// CharacterRegistry maps a character name to its canonical base
// description, which overrides per-asset descriptions when building prompts.
type CharacterRegistry map[string]string
