package hatch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Markdown plan format: "##" headers are categories, top-level "- " bullets
// are assets, indented "- " bullets are variants of the asset above them.
//
//	## Characters
//	- Farmer [MOVEABLE:4]: a weathered farmer in overalls
//	  - Idle (4-direction)
//	  - Walk (4-direction) (6-frame)

var (
	mobilityTagRe = regexp.MustCompile(`(?i)\[(STATIC|MOVEABLE(?::(\d+))?|ANIM(?::(\d+))?)\]`)
	directionRe   = regexp.MustCompile(`\((\d+)[-\s]?direction[s]?\)`)
	frameRe       = regexp.MustCompile(`\((\d+)[-\s]?frame[s]?\)`)
	facingRe      = regexp.MustCompile(`(?i)\((front|back|left|right)\)`)
	parenRe       = regexp.MustCompile(`\([^)]*\)`)
)

const rowArrangement = "horizontally in a single row"

// rawAsset is the first-pass view of one asset bullet and its variants.
type rawAsset struct {
	category string
	text     string
	variants []string
}

// ParsePlan converts a markdown asset plan into generation work items.
// Multi-direction variants stay collapsed into a single sprite-sheet parent;
// per-direction children are produced separately by ExpandAssetToDirections
// so an asset queue never double-counts them.
func ParsePlan(markdown string) []*ParsedAsset {
	raws := collectRawAssets(markdown)

	var assets []*ParsedAsset
	for _, raw := range raws {
		assets = append(assets, emitAsset(raw)...)
	}
	return assets
}

// collectRawAssets walks lines classifying each as category, asset or
// variant while tracking the current category context.
func collectRawAssets(markdown string) []*rawAsset {
	var (
		raws     []*rawAsset
		category string
		current  *rawAsset
	)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "##") {
			category = stripEmphasis(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			current = nil
			continue
		}
		if !strings.HasPrefix(trimmed, "- ") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		body := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
		if body == "" {
			continue
		}

		if indent == 0 {
			current = &rawAsset{category: category, text: body}
			raws = append(raws, current)
		} else if current != nil {
			current.variants = append(current.variants, body)
		}
	}
	return raws
}

// emitAsset produces one ParsedAsset per asset/variant pair (or a single
// record for a variant-less asset).
func emitAsset(raw *rawAsset) []*ParsedAsset {
	text, tagged, tagMobility := extractMobilityTag(raw.text)
	name, description := splitNameDescription(text)
	name = stripEmphasis(name)

	mobility := tagMobility
	if !tagged {
		mobility = inferMobility(name, raw.category)
	}

	base := ParsedAsset{
		Category:    raw.category,
		Name:        name,
		Type:        determineAssetType(name, raw.category),
		Description: description,
		Mobility:    mobility,
	}

	if len(raw.variants) == 0 {
		a := base
		a.ID = uuid.NewString()
		return []*ParsedAsset{&a}
	}

	var out []*ParsedAsset
	for _, vtext := range raw.variants {
		a := base
		a.ID = uuid.NewString()
		v := parseVariant(vtext)
		if v.DirectionCount > 1 {
			// One composite sheet per multi-direction variant; expansion
			// into per-direction children happens downstream.
			a.Type = AssetSpriteSheet
			v.ArrangementType = rowArrangement
			if !tagged {
				a.Mobility = Mobility{Kind: MobilityMoveable, Directions: normalizeDirections(v.DirectionCount)}
			}
		}
		a.Variant = v
		out = append(out, &a)
	}
	return out
}

// extractMobilityTag pulls an explicit [STATIC]/[MOVEABLE:n]/[ANIM:n] tag
// out of the asset text. The second return reports whether a tag was found.
func extractMobilityTag(text string) (string, bool, Mobility) {
	m := mobilityTagRe.FindStringSubmatch(text)
	if m == nil {
		return text, false, Mobility{}
	}
	cleaned := strings.TrimSpace(mobilityTagRe.ReplaceAllString(text, ""))

	tag := strings.ToUpper(m[1])
	switch {
	case tag == "STATIC":
		return cleaned, true, Mobility{Kind: MobilityStatic}
	case strings.HasPrefix(tag, "MOVEABLE"):
		n := 4
		if m[2] != "" {
			n, _ = strconv.Atoi(m[2])
		}
		return cleaned, true, Mobility{Kind: MobilityMoveable, Directions: normalizeDirections(n)}
	default: // ANIM
		frames := 0
		if m[3] != "" {
			if n, err := strconv.Atoi(m[3]); err == nil && n > 0 {
				frames = n
			}
		}
		return cleaned, true, Mobility{Kind: MobilityAnimated, Frames: frames}
	}
}

// normalizeDirections clamps a requested direction count to the two
// supported sprite layouts.
func normalizeDirections(n int) int {
	if n >= 6 {
		return 8
	}
	return 4
}

// splitNameDescription separates "Name: free text" asset bullets.
func splitNameDescription(text string) (string, string) {
	if i := strings.Index(text, ":"); i >= 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
	}
	if i := strings.Index(text, " - "); i >= 0 {
		return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+3:])
	}
	return strings.TrimSpace(text), ""
}

// stripEmphasis removes markdown bold/italic markers from a name.
func stripEmphasis(s string) string {
	for _, marker := range []string{"**", "__", "*", "_"} {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}

var (
	moveableKeywords = []string{"character", "npc", "player", "enemy", "creature"}
	animatedKeywords = []string{"fire", "flame", "torch", "water", "flag", "smoke", "fountain"}
)

// inferMobility is the fallback heuristic used when no explicit bracket tag
// is present: character-like things walk in four directions, fire-like
// things animate in place, everything else stands still.
func inferMobility(name, category string) Mobility {
	haystack := strings.ToLower(name + " " + category)
	for _, kw := range moveableKeywords {
		if strings.Contains(haystack, kw) {
			return Mobility{Kind: MobilityMoveable, Directions: 4}
		}
	}
	for _, kw := range animatedKeywords {
		if strings.Contains(haystack, kw) {
			return Mobility{Kind: MobilityAnimated, Frames: 4}
		}
	}
	return Mobility{Kind: MobilityStatic}
}

// animationPoses maps recognized animation names to a pose description and
// an animation-type label.
var animationPoses = map[string]struct {
	pose     string
	animType string
}{
	"idle":   {"standing still in a relaxed idle stance", "idle"},
	"walk":   {"mid-stride, walking", "walk"},
	"run":    {"leaning forward in a full run", "run"},
	"attack": {"mid-swing of an attack", "attack"},
	"jump":   {"airborne at the top of a jump", "jump"},
	"crouch": {"crouched low to the ground", "crouch"},
}

// parseVariant reads a variant bullet like "Walk (4-direction) (6-frame)".
func parseVariant(text string) *Variant {
	v := &Variant{}

	if m := directionRe.FindStringSubmatch(text); m != nil {
		v.DirectionCount, _ = strconv.Atoi(m[1])
	}
	if m := frameRe.FindStringSubmatch(text); m != nil {
		v.FrameCount, _ = strconv.Atoi(m[1])
	}
	if m := facingRe.FindStringSubmatch(text); m != nil {
		v.Direction = strings.ToLower(m[1])
	}

	name := strings.TrimSpace(parenRe.ReplaceAllString(text, ""))
	v.Name = stripEmphasis(name)

	key := strings.ToLower(v.Name)
	for kw, p := range animationPoses {
		if strings.Contains(key, kw) {
			v.Pose = p.pose
			v.AnimationType = p.animType
			return v
		}
	}
	v.Pose = v.Name + " pose"
	return v
}

// determineAssetType infers the template family for an asset from its name
// and category, case-insensitive, checked in priority order.
func determineAssetType(name, category string) AssetType {
	n := strings.ToLower(name)
	c := strings.ToLower(category)

	if strings.Contains(c, "character") {
		return AssetCharacterSprite
	}
	if containsAny(n, "background", "sky", "scene") {
		return AssetBackground
	}
	if containsAny(n+" "+c, "tileset", "terrain", "grass", "stone", "water", "environment") {
		return AssetTileset
	}
	if containsAny(n+" "+c, "icon", "item", "prop") {
		return AssetIcon
	}
	if containsAny(c+" "+n, "ui", "button", "bar", "panel") {
		return AssetUIElement
	}
	return AssetCharacterSprite
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
