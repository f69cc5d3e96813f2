package hatch

import (
	"fmt"

	"github.com/google/uuid"
)

// DirectionFront is the designated reference direction: it is generated
// first and the other directions' prompts point back at its image.
const DirectionFront = "front"

var (
	fourDirections  = []string{DirectionFront, "back", "left", "right"}
	eightDirections = append(fourDirections, "front-left", "front-right", "back-left", "back-right")

	directionLabels = map[string]string{
		DirectionFront: "Front",
		"back":         "Back",
		"left":         "Left",
		"right":        "Right",
		"front-left":   "Front-Left",
		"front-right":  "Front-Right",
		"back-left":    "Back-Left",
		"back-right":   "Back-Right",
	}
)

// ExpandAssetToDirections produces one child descriptor per direction of a
// moveable parent. Each child gets a fresh id and a DirectionState linking
// it back to the parent; sibling discovery goes through SiblingIndex rather
// than pointers so a deleted parent cannot leave children dangling.
func ExpandAssetToDirections(parent *ParsedAsset, directionCount int) []*ParsedAsset {
	dirs := fourDirections
	if normalizeDirections(directionCount) == 8 {
		dirs = eightDirections
	}

	children := make([]*ParsedAsset, 0, len(dirs))
	for _, dir := range dirs {
		child := *parent
		child.ID = uuid.NewString()
		child.Name = fmt.Sprintf("%s (%s)", parent.Name, directionLabels[dir])
		child.Direction = &DirectionState{
			Generated:     make(map[string]bool),
			ParentAssetID: parent.ID,
			Direction:     dir,
			IsParent:      false,
		}
		children = append(children, &child)
	}
	return children
}

// SiblingIndex groups direction-expanded children by their parent asset id.
func SiblingIndex(assets []*ParsedAsset) map[string][]*ParsedAsset {
	index := make(map[string][]*ParsedAsset)
	for _, a := range assets {
		if a.Direction == nil || a.Direction.ParentAssetID == "" {
			continue
		}
		index[a.Direction.ParentAssetID] = append(index[a.Direction.ParentAssetID], a)
	}
	return index
}

// FrontSibling returns the front-direction child among an asset's siblings,
// or nil when none exists.
func FrontSibling(siblings []*ParsedAsset) *ParsedAsset {
	for _, s := range siblings {
		if s.Direction != nil && s.Direction.Direction == DirectionFront {
			return s
		}
	}
	return nil
}
