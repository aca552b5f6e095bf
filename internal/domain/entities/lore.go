// Package entities contains core domain data structures.
package entities

import "strings"

// LoreEntity is a wiki-style entry (character, place, item) belonging to a
// novel. Its description is split into fragments that unlock as the reader
// progresses through the story.
type LoreEntity struct {
	NovelID   string               `json:"novel_id" bson:"novel_id"`
	EntityID  string               `json:"entity_id" bson:"entity_id"`
	Name      string               `json:"name" bson:"name"`
	Type      string               `json:"type,omitempty" bson:"type,omitempty"`
	Fragments []DisclosureFragment `json:"description_steps" bson:"description_steps"`
}

// DisclosureFragment is one piece of an entity description. It becomes
// visible once the reader is at or past MinChapter.
type DisclosureFragment struct {
	MinChapter int    `json:"min_chapter" bson:"min_chapter"`
	Content    string `json:"content" bson:"content"`
}

// VisibleLoreView is the projection of a LoreEntity for one reading position.
// It only ever contains fragments the reader is allowed to see.
type VisibleLoreView struct {
	EntityID           string               `json:"entity_id"`
	Name               string               `json:"name"`
	Type               string               `json:"type"`
	VisibleDescription string               `json:"visible_description"`
	SpoilerFreeSteps   []DisclosureFragment `json:"spoiler_free_steps"`
}

// Key returns the composite identity of the entity.
func (e *LoreEntity) Key() string {
	return e.NovelID + "/" + e.EntityID
}

// NormalizeID trims surrounding whitespace from a novel or entity id.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
