package services

import (
	"sort"
	"strings"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// fragmentSeparator joins visible fragments into one description.
const fragmentSeparator = "\n\n"

// Disclose projects an entity onto a reading position. Only fragments with
// MinChapter <= currentChapter are kept, ordered ascending by MinChapter.
// Fragments sharing a threshold keep their storage order.
func Disclose(entity *entities.LoreEntity, currentChapter int) *entities.VisibleLoreView {
	steps := VisibleFragments(entity.Fragments, currentChapter)

	contents := make([]string, len(steps))
	for i := range steps {
		contents[i] = steps[i].Content
	}

	return &entities.VisibleLoreView{
		EntityID:           entity.EntityID,
		Name:               entity.Name,
		Type:               entities.NormalizeType(entity.Type),
		VisibleDescription: strings.Join(contents, fragmentSeparator),
		SpoilerFreeSteps:   steps,
	}
}

// VisibleFragments returns a new, sorted slice of the fragments unlocked at
// currentChapter. The input slice is not modified. The result is never nil.
func VisibleFragments(fragments []entities.DisclosureFragment, currentChapter int) []entities.DisclosureFragment {
	visible := make([]entities.DisclosureFragment, 0, len(fragments))
	for _, f := range fragments {
		if f.MinChapter <= currentChapter {
			visible = append(visible, f)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].MinChapter < visible[j].MinChapter
	})
	return visible
}
