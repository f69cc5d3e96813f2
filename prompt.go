package hatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tyler-sommer/stick"
)

// Defaults used when a project leaves a style field unset.
const (
	defaultView       = "front-facing view"
	defaultPalette    = "vibrant but harmonious color palette"
	defaultLighting   = "flat, even lighting"
	defaultBackground = "plain transparent background"
	defaultStyle      = "pixel art"
	defaultResolution = "32x32"
)

// maxAnchorColors caps how many style-anchor hex entries reach the prompt;
// more than this and image models start ignoring the palette.
const maxAnchorColors = 6

var resolutionRe = regexp.MustCompile(`^(\d+)x(\d+)$`)

// GenerationSize is the pixel size requested from the image API.
type GenerationSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CalculateGenerationSize parses a "WxH" base resolution and returns it
// doubled: generation happens at 2x so the result can be downscaled to
// pixel-perfect size.
func CalculateGenerationSize(baseResolution string) (GenerationSize, error) {
	m := resolutionRe.FindStringSubmatch(baseResolution)
	if m == nil {
		return GenerationSize{}, fmt.Errorf("invalid resolution %q: expected WxH", baseResolution)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return GenerationSize{Width: w * 2, Height: h * 2}, nil
}

// BuildAssetPrompt renders the generation prompt for one asset. The same
// inputs always produce the same string; nothing is cached or randomized.
//
// Resolution order for the subject: character registry entry > cleaned
// asset description > asset name. For the view: direction-expanded child
// modifier > variant facing > project perspective > front-facing default.
// For the palette: style-anchor hex list > project palette text > default.
func BuildAssetPrompt(asset *ParsedAsset, project *Project, anchor *StyleAnchor, registry CharacterRegistry) (string, error) {
	provider, err := NewPromptProvider()
	if err != nil {
		return "", err
	}
	return BuildAssetPromptWith(provider, asset, project, anchor, registry)
}

// BuildAssetPromptWith is BuildAssetPrompt with a caller-supplied provider,
// for overridden templates.
func BuildAssetPromptWith(provider *PromptProvider, asset *ParsedAsset, project *Project, anchor *StyleAnchor, registry CharacterRegistry) (string, error) {
	if asset == nil {
		return "", fmt.Errorf("asset is nil")
	}
	if project == nil {
		project = &Project{}
	}

	vars := map[string]stick.Value{
		"style":       resolveStyle(project, anchor),
		"subject":     resolveSubject(asset, project, registry),
		"pose":        resolvePose(asset),
		"view":        resolveView(asset, project),
		"palette":     resolvePalette(project, anchor),
		"lighting":    orDefault(project.Lighting, defaultLighting),
		"background":  orDefault(project.Background, defaultBackground),
		"size":        orDefault(project.BaseResolution, defaultResolution),
		"sheet":       sheetClause(asset),
		"frames":      framesClause(asset),
		"consistency": consistencyClause(asset),
	}

	tag := string(asset.Type)
	if _, ok := defaultTemplates[tag]; !ok {
		tag = string(AssetCharacterSprite)
	}
	return provider.Render(tag, vars)
}

// resolveSubject picks the subject description and appends the project
// theme when it is not already mentioned.
func resolveSubject(asset *ParsedAsset, project *Project, registry CharacterRegistry) string {
	var subject string
	if base, ok := registry[asset.Name]; ok && base != "" {
		subject = base
	} else {
		subject = cleanDescription(asset.Description)
		if subject == "" {
			subject = asset.Name
		}
	}

	theme := strings.TrimSpace(project.Theme)
	if theme != "" && !strings.Contains(strings.ToLower(subject), strings.ToLower(theme)) {
		subject = subject + ", " + theme + " themed"
	}
	return subject
}

var labelPrefixRe = regexp.MustCompile(`^[A-Za-z][A-Za-z ]*:\s*`)

// cleanDescription strips markdown bold and "Label: " prefixes, and
// truncates run-on descriptions to their first clause so a stray list never
// turns into a multi-subject prompt.
func cleanDescription(desc string) string {
	s := strings.ReplaceAll(desc, "**", "")
	s = labelPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")

	if clauses := strings.Split(s, ","); len(clauses) > 2 {
		s = clauses[0]
	}
	return strings.TrimSpace(s)
}

func resolvePose(asset *ParsedAsset) string {
	if asset.Variant != nil && asset.Variant.Pose != "" {
		return asset.Variant.Pose
	}
	return "neutral standing pose"
}

// resolveView applies the precedence chain for the camera direction.
func resolveView(asset *ParsedAsset, project *Project) string {
	if asset.Direction != nil && asset.Direction.Direction != "" {
		return "facing " + strings.ReplaceAll(asset.Direction.Direction, "-", " ")
	}
	if asset.Variant != nil && asset.Variant.Direction != "" {
		return "facing " + asset.Variant.Direction
	}
	if project.Perspective != "" {
		return project.Perspective
	}
	return defaultView
}

// resolvePalette prefers the style anchor's hex list, capped at
// maxAnchorColors entries.
func resolvePalette(project *Project, anchor *StyleAnchor) string {
	if anchor != nil && len(anchor.HexColors) > 0 {
		colors := anchor.HexColors
		if len(colors) > maxAnchorColors {
			colors = colors[:maxAnchorColors]
		}
		return "limited palette of " + strings.Join(colors, ", ")
	}
	if project.ColorPalette != "" {
		return project.ColorPalette
	}
	return defaultPalette
}

func resolveStyle(project *Project, anchor *StyleAnchor) string {
	keywords := project.StyleKeywords
	if anchor != nil && len(anchor.Keywords) > 0 {
		keywords = append(append([]string{}, keywords...), anchor.Keywords...)
	}
	if len(keywords) == 0 {
		return defaultStyle
	}
	return strings.Join(keywords, " ")
}

// sheetClause describes the sprite-sheet arrangement for composite assets.
func sheetClause(asset *ParsedAsset) string {
	if asset.Type != AssetSpriteSheet || asset.Variant == nil || asset.Variant.DirectionCount <= 1 {
		return ""
	}
	arrangement := asset.Variant.ArrangementType
	if arrangement == "" {
		arrangement = rowArrangement
	}
	return fmt.Sprintf(", %d directional poses arranged %s", asset.Variant.DirectionCount, arrangement)
}

func framesClause(asset *ParsedAsset) string {
	if asset.Variant == nil || asset.Variant.FrameCount <= 0 {
		return ""
	}
	return fmt.Sprintf(", %d animation frames per pose", asset.Variant.FrameCount)
}

// consistencyClause adds the reference-image instruction for non-front
// directions once the front sibling has been generated.
func consistencyClause(asset *ParsedAsset) string {
	d := asset.Direction
	if d == nil || d.Direction == DirectionFront || !d.Generated[DirectionFront] {
		return ""
	}
	return ", same character as the reference image, identical outfit, colors and proportions"
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
